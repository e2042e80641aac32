package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/JINGLONGGIT/weatherDC/internal/config"
	"github.com/JINGLONGGIT/weatherDC/internal/db"
	simerrors "github.com/JINGLONGGIT/weatherDC/internal/errors"
	"github.com/JINGLONGGIT/weatherDC/internal/modules/simulation/catalog"
	"github.com/JINGLONGGIT/weatherDC/internal/modules/simulation/repository"
	"github.com/JINGLONGGIT/weatherDC/internal/modules/simulation/synth"
	"github.com/JINGLONGGIT/weatherDC/internal/modules/simulation/types"
	"github.com/JINGLONGGIT/weatherDC/internal/modules/simulation/writer"
	"github.com/JINGLONGGIT/weatherDC/internal/scheduler"
)

// Run executes a single generation run, or keeps firing runs on
// cfg.RunSchedule until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"configFile", cfg.ConfigFile,
		"catalogSource", cfg.CatalogSource,
		"sqlitePath", cfg.SQLitePath,
		"runSchedule", cfg.RunSchedule,
	)

	if cfg.RunSchedule == "" {
		_, err := NewRunner(cfg).RunOnce(ctx)
		return err
	}

	// Repeated runs can land on the same second.
	r := NewRunner(cfg, WithUniqueNames())
	sched, err := scheduler.New(cfg.RunSchedule, func(ctx context.Context) error {
		_, err := r.RunOnce(ctx)
		return err
	}, slog.Default())
	if err != nil {
		return err
	}
	return sched.Run(ctx)
}

// Runner performs generation runs. Each RunOnce is independent and owns its
// own batch.
type Runner struct {
	cfg     config.Config
	logger  *slog.Logger
	now     func() time.Time
	newRand func(time.Time) synth.Rand
	unique  bool
}

type Option func(*Runner)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithRand replaces the per-run random source factory.
func WithRand(newRand func(time.Time) synth.Rand) Option {
	return func(r *Runner) { r.newRand = newRand }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithUniqueNames makes the writer skip names already taken in the output
// directory.
func WithUniqueNames() Option {
	return func(r *Runner) { r.unique = true }
}

func NewRunner(cfg config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		logger:  slog.Default(),
		now:     time.Now,
		newRand: func(t time.Time) synth.Rand { return synth.NewRand(t) },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunOnce loads the catalog, synthesizes one observation per station and
// writes the output file, whose final path is returned.
func (r *Runner) RunOnce(ctx context.Context) (string, error) {
	logger := r.logger.With("run_id", uuid.NewString())

	catalogPath, outputDir, err := r.paths()
	if err != nil {
		logger.Error("run aborted", "error", err)
		return "", err
	}

	now := r.now()
	batch := &types.Batch{}
	defer batch.Reset()

	batch.Stations, err = r.loadStations(ctx, catalogPath)
	if err != nil {
		logger.Error("load station catalog", "source", r.cfg.CatalogSource, "path", catalogPath, "error", err)
		return "", err
	}
	logger.Info("station catalog loaded", "source", r.cfg.CatalogSource, "stations", len(batch.Stations))

	batch.Observations = synth.Synthesize(batch.Stations, now, r.newRand(now))
	logger.Debug("observations synthesized",
		"observations", len(batch.Observations),
		"timestamp", now.Format(synth.TimestampLayout),
	)

	opts := []writer.Option{writer.WithLogger(logger)}
	if r.unique {
		opts = append(opts, writer.WithUniqueNames())
	}
	path, err := writer.New(outputDir, opts...).Write(batch, now)
	if err != nil {
		logger.Error("generate simulated observations", "dir", outputDir, "error", err)
		return "", err
	}

	logger.Info("simulated observations generated", "path", path)
	return path, nil
}

// paths reads the catalog path and output directory from the job file and
// checks that both exist.
func (r *Runner) paths() (string, string, error) {
	jobFile, err := config.LoadFile(r.cfg.ConfigFile)
	if err != nil {
		return "", "", err
	}
	catalogPath, err := jobFile.Lookup(config.KeyCatalogPath)
	if err != nil {
		return "", "", err
	}
	outputDir, err := jobFile.Lookup(config.KeyOutputDir)
	if err != nil {
		return "", "", err
	}

	if err := mustExist(catalogPath); err != nil {
		return "", "", err
	}
	if err := mustExist(outputDir); err != nil {
		return "", "", err
	}
	return catalogPath, outputDir, nil
}

func (r *Runner) loadStations(ctx context.Context, catalogPath string) ([]types.Station, error) {
	if r.cfg.CatalogSource != config.CatalogSourceSQLite {
		return catalog.LoadStations(catalogPath)
	}

	// db.Open would create an empty database; a missing one is a config error.
	if err := mustExist(r.cfg.SQLitePath); err != nil {
		return nil, err
	}
	conn, err := db.Open(r.cfg, r.logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			r.logger.Error("db close", "error", closeErr)
		}
	}()
	return repository.NewRepository(conn).GetStations(ctx)
}

func mustExist(path string) error {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", simerrors.ErrPathNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return nil
}
