package writer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	simerrors "github.com/JINGLONGGIT/weatherDC/internal/errors"
	"github.com/JINGLONGGIT/weatherDC/internal/modules/simulation/types"
)

var testNow = time.Date(2026, 3, 31, 8, 4, 9, 0, time.Local)

func sampleObservations() []types.Observation {
	return []types.Observation{
		{
			StationID: "58236", Timestamp: "2026-03-31 08:04:09",
			Temperature: 215, Pressure: 10132, Humidity: 64, WindDirection: 270,
			WindSpeed: 35, Rainfall: 0, Visibility: 100250,
		},
		{
			StationID: "54511", Timestamp: "2026-03-31 08:04:09",
			Temperature: 0, Pressure: 10264, Humidity: 100, WindDirection: 359,
			WindSpeed: 149, Rainfall: 15, Visibility: 105100,
		},
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(b) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
}

func TestFileNames(t *testing.T) {
	tmp, final := FileNames("/data/surf", testNow)
	if final != "/data/surf/20260331080409.txt" {
		t.Errorf("final = %q", final)
	}
	if tmp != "/data/surf/20260331080409.txt.tmp" {
		t.Errorf("tmp = %q", tmp)
	}
}

func TestWrite_Success(t *testing.T) {
	dir := t.TempDir()
	batch := &types.Batch{
		Stations:     []types.Station{{StationID: "58236"}, {StationID: "54511"}},
		Observations: sampleObservations(),
	}

	path, err := New(dir).Write(batch, testNow)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if path != filepath.Join(dir, "20260331080409.txt") {
		t.Errorf("path = %q", path)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temp file still present: %v", err)
	}

	lines := readLines(t, path)
	want := []string{
		"58236, 2026-03-31 08:04:09, 21.5, 1013.2, 64, 270, 3.5, 0.0, 10025.0",
		"54511, 2026-03-31 08:04:09, 0.0, 1026.4, 100, 359, 14.9, 1.5, 10510.0",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	if batch.Stations != nil || batch.Observations != nil {
		t.Error("batch not reset after write")
	}
}

func TestWrite_EmptyBatchCreatesEmptyFile(t *testing.T) {
	dir := t.TempDir()

	path, err := New(dir).Write(&types.Batch{}, testNow)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if info.Size() != 0 {
		t.Errorf("size = %d, want 0", info.Size())
	}
}

func TestWrite_NilBatchCreatesEmptyFile(t *testing.T) {
	dir := t.TempDir()

	path, err := New(dir).Write(nil, testNow)
	if err != nil {
		t.Fatalf("Write(nil): %v", err)
	}
	if lines := readLines(t, path); len(lines) != 0 {
		t.Errorf("got %d lines, want 0", len(lines))
	}
}

func TestWrite_OpenFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	batch := &types.Batch{Observations: sampleObservations()}

	_, err := New(dir).Write(batch, testNow)
	if err == nil {
		t.Fatal("Write error = nil, want non-nil")
	}
	if !errors.Is(err, simerrors.ErrFileOpen) {
		t.Errorf("error = %v, want ErrFileOpen", err)
	}
	_, final := FileNames(dir, testNow)
	if _, statErr := os.Stat(final); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("final file exists after open failure: %v", statErr)
	}
	if batch.Observations != nil {
		t.Error("batch not reset after open failure")
	}
}

func TestWrite_RenameFailureKeepsTempFile(t *testing.T) {
	dir := t.TempDir()
	w := New(dir)
	w.rename = func(string, string) error { return errors.New("device busy") }

	batch := &types.Batch{
		Stations:     []types.Station{{StationID: "58236"}},
		Observations: sampleObservations()[:1],
	}
	_, err := w.Write(batch, testNow)
	if err == nil {
		t.Fatal("Write error = nil, want non-nil")
	}
	if !errors.Is(err, simerrors.ErrRename) {
		t.Errorf("error = %v, want ErrRename", err)
	}

	tmp, final := FileNames(dir, testNow)
	if lines := readLines(t, tmp); len(lines) != 1 {
		t.Errorf("temp file has %d lines, want 1", len(lines))
	}
	if _, statErr := os.Stat(final); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("final file exists after rename failure: %v", statErr)
	}
	if batch.Stations != nil || batch.Observations != nil {
		t.Error("batch not reset after rename failure")
	}
}

func TestWrite_RenameOntoDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	_, final := FileNames(dir, testNow)
	if err := os.MkdirAll(filepath.Join(final, "occupied"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := New(dir).Write(&types.Batch{Observations: sampleObservations()}, testNow)
	if !errors.Is(err, simerrors.ErrRename) {
		t.Fatalf("error = %v, want ErrRename", err)
	}
}

func TestWrite_UniqueNames(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, WithUniqueNames())

	first, err := w.Write(&types.Batch{Observations: sampleObservations()}, testNow)
	if err != nil {
		t.Fatalf("first Write: %v", err)
	}
	second, err := w.Write(&types.Batch{Observations: sampleObservations()}, testNow)
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}

	if first != filepath.Join(dir, "20260331080409.txt") {
		t.Errorf("first = %q", first)
	}
	if second != filepath.Join(dir, "20260331080409_1.txt") {
		t.Errorf("second = %q", second)
	}
	if n := len(readLines(t, first)); n != 2 {
		t.Errorf("first file has %d lines, want 2", n)
	}
}

func TestWrite_SameSecondWithoutGuardAppends(t *testing.T) {
	dir := t.TempDir()
	w := New(dir)
	w.rename = func(string, string) error { return errors.New("rename disabled") }

	_, _ = w.Write(&types.Batch{Observations: sampleObservations()}, testNow)
	_, _ = w.Write(&types.Batch{Observations: sampleObservations()}, testNow)

	tmp, _ := FileNames(dir, testNow)
	if n := len(readLines(t, tmp)); n != 4 {
		t.Errorf("temp file has %d lines, want 4", n)
	}
}
