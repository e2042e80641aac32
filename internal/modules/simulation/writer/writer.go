// Package writer persists a batch of observations to the output directory.
// Lines go to "<stamp>.txt.tmp" first; the file is renamed to "<stamp>.txt"
// once it is complete so readers never see a partial file.
package writer

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	simerrors "github.com/JINGLONGGIT/weatherDC/internal/errors"
	"github.com/JINGLONGGIT/weatherDC/internal/modules/simulation/types"
)

const (
	// FileStampLayout names output files, YYYYMMDDHHMMSS.
	FileStampLayout = "20060102150405"

	finalExt = ".txt"
	tmpExt   = ".tmp"

	// maxUniqueSuffix bounds the search for a free name when unique names are on.
	maxUniqueSuffix = 1000
)

type Writer struct {
	dir    string
	unique bool
	logger *slog.Logger
	rename func(oldpath, newpath string) error
}

type Option func(*Writer)

// WithUniqueNames appends "_1", "_2", ... to the stamp when a file for the
// same second already exists.
func WithUniqueNames() Option {
	return func(w *Writer) { w.unique = true }
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func New(dir string, opts ...Option) *Writer {
	w := &Writer{
		dir:    dir,
		logger: slog.Default(),
		rename: os.Rename,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// FileNames returns the working and final names for now.
func FileNames(dir string, now time.Time) (tmp string, final string) {
	return fileNames(dir, now.Format(FileStampLayout))
}

func fileNames(dir, stamp string) (string, string) {
	final := filepath.Join(dir, stamp+finalExt)
	return final + tmpExt, final
}

// Write appends every observation in batch to the working file and renames it
// to its final name, which is returned. The batch is reset whatever the
// outcome. A nil batch writes an empty file.
func (w *Writer) Write(batch *types.Batch, now time.Time) (string, error) {
	if batch == nil {
		batch = &types.Batch{}
	}
	defer batch.Reset()

	tmpName, finalName, err := w.names(now)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(tmpName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		w.logger.Error("open observation file", "path", tmpName, "error", err)
		return "", fmt.Errorf("open %s: %w: %w", tmpName, simerrors.ErrFileOpen, err)
	}

	bw := bufio.NewWriter(f)
	for _, obs := range batch.Observations {
		if _, err := bw.WriteString(FormatLine(obs)); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("write %s: %w", tmpName, err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("flush %s: %w", tmpName, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := w.rename(tmpName, finalName); err != nil {
		w.logger.Error("rename observation file", "from", tmpName, "to", finalName, "error", err)
		return "", fmt.Errorf("rename %s: %w: %w", tmpName, simerrors.ErrRename, err)
	}

	w.logger.Info("observation file written", "path", finalName, "observations", len(batch.Observations))
	return finalName, nil
}

func (w *Writer) names(now time.Time) (string, string, error) {
	stamp := now.Format(FileStampLayout)
	tmpName, finalName := fileNames(w.dir, stamp)
	if !w.unique {
		return tmpName, finalName, nil
	}

	for n := 1; n <= maxUniqueSuffix; n++ {
		if !exists(tmpName) && !exists(finalName) {
			return tmpName, finalName, nil
		}
		tmpName, finalName = fileNames(w.dir, stamp+"_"+strconv.Itoa(n))
	}
	return "", "", fmt.Errorf("no free observation file name for %s in %s", stamp, w.dir)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
