package gen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Writer buffers generated units in memory and writes them to the output
// directory on Flush. Register is safe for concurrent use.
type Writer struct {
	dir     string
	header  string
	workers int

	mu      sync.Mutex
	files   map[string][]byte
	removed map[string]bool
	metrics WriterMetrics
}

// WriterMetrics tracks what a Flush did.
type WriterMetrics struct {
	FilesWritten   int
	FilesUnchanged int
	FilesRemoved   int
	TotalBytes     int64
}

// NewWriter creates a writer for the output directory. Files starting with
// the header comment are considered owned by the writer.
func NewWriter(dir, header string) *Writer {
	if header == "" {
		header = DefaultHeader
	}
	return &Writer{
		dir:     dir,
		header:  header,
		workers: runtime.GOMAXPROCS(0),
		files:   make(map[string][]byte),
		removed: make(map[string]bool),
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Register buffers the source of the unit with the given key. Registering
// the same key twice is an error.
func (w *Writer) Register(key string, src []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}
	w.files[key] = src
	return nil
}

// Remove schedules the generated file of key for deletion.
func (w *Writer) Remove(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.removed[key] = true
}

// Keys returns the registered keys in sorted order.
func (w *Writer) Keys() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Sorted(maps.Keys(w.files))
}

// Metrics returns the metrics of the last Flush.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Flush writes the registered units. Files whose content did not change are
// left untouched. With prune, generated files of units that were not
// registered are deleted.
func (w *Writer) Flush(ctx context.Context, prune bool) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	w.mu.Lock()
	w.metrics = WriterMetrics{}
	w.mu.Unlock()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, key := range w.Keys() {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(key)
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	stale, err := w.stale(prune)
	if err != nil {
		return err
	}
	for _, name := range stale {
		if err := os.Remove(filepath.Join(w.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
		w.mu.Lock()
		w.metrics.FilesRemoved++
		w.mu.Unlock()
	}
	return nil
}

// writeFile writes a single unit, atomically, if its content changed.
func (w *Writer) writeFile(key string) error {
	w.mu.Lock()
	src := w.files[key]
	w.mu.Unlock()

	name := FileName(key)
	path := filepath.Join(w.dir, name)
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, src) {
		w.mu.Lock()
		w.metrics.FilesUnchanged++
		w.mu.Unlock()
		return nil
	}
	tmp, err := os.CreateTemp(w.dir, ".assetgen-*")
	if err != nil {
		return NewGenerationError("write", name, "", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(src); err != nil {
		tmp.Close()
		return NewGenerationError("write", name, "", err)
	}
	if err := tmp.Close(); err != nil {
		return NewGenerationError("write", name, "", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return NewGenerationError("write", name, "", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return NewGenerationError("write", name, "", err)
	}

	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(src))
	w.mu.Unlock()
	return nil
}

// stale returns the generated files to delete: the explicitly removed ones,
// and with prune every generated unit file that was not registered. Prune
// also matches files named after an older naming scheme (Res_*.g.go).
func (w *Writer) stale(prune bool) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	keep := make(map[string]bool, len(w.files))
	for key := range w.files {
		keep[FileName(key)] = true
	}
	names := make(map[string]bool)
	for key := range w.removed {
		if name := FileName(key); !keep[name] && w.generated(name) {
			names[name] = true
		}
	}
	if prune {
		entries, err := os.ReadDir(w.dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || keep[name] || !strings.HasPrefix(name, "Res_") || !strings.HasSuffix(name, ".g.go") {
				continue
			}
			if w.generated(name) {
				names[name] = true
			}
		}
	}
	return slices.Sorted(maps.Keys(names)), nil
}

// generated reports whether the file was written by a writer with the same
// header. Hand-written files are never deleted.
func (w *Writer) generated(name string) bool {
	f, err := os.Open(filepath.Join(w.dir, name))
	if err != nil {
		return false
	}
	defer f.Close()
	prefix := []byte("// " + w.header)
	buf := make([]byte, len(prefix))
	if _, err := io.ReadFull(f, buf); err != nil {
		return false
	}
	return bytes.Equal(buf, prefix)
}
