package gen

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change is a batch of file system events collected by Watch.
type Change struct {
	// Resources are the resource files that were created, written, removed
	// or renamed, as absolute paths.
	Resources []string
	// Sources is set when a Go source file of the project changed; the
	// processor set may differ then.
	Sources bool
}

// Empty reports whether c carries neither resources nor sources.
func (c Change) Empty() bool {
	return len(c.Resources) == 0 && !c.Sources
}

// Watch watches the project for changes and calls onChange once per quiet
// period (Config.Debounce) with the batched events. It returns when ctx is
// canceled or onChange returns an error.
func Watch(ctx context.Context, cfg *Config, onChange func(context.Context, Change) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	log := cfg.logger()
	if err := addTree(w, cfg, cfg.ProjectDir); err != nil {
		return err
	}
	var (
		pending = Change{}
		seen    = make(map[string]bool)
		timer   = time.NewTimer(time.Hour)
	)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !classify(cfg, ev, &pending, seen) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !skipDir(cfg, ev.Name) {
					if err := addTree(w, cfg, ev.Name); err != nil {
						log.Warn("watch directory", "dir", ev.Name, "error", err)
					}
				}
			}
			timer.Reset(cfg.debounce())
		case <-timer.C:
			change := pending
			pending, seen = Change{}, make(map[string]bool)
			if change.Empty() {
				continue
			}
			slices.Sort(change.Resources)
			log.Debug("change detected", "resources", len(change.Resources), "sources", change.Sources)
			if err := onChange(ctx, change); err != nil {
				return err
			}
		}
	}
}

// classify records ev in c and reports whether it is relevant.
func classify(cfg *Config, ev fsnotify.Event, c *Change, seen map[string]bool) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(ev.Name)
	if ignored(cfg, name) {
		return false
	}
	if within(name, cfg.ResourceDir()) {
		if !seen[name] {
			seen[name] = true
			c.Resources = append(c.Resources, name)
		}
		return true
	}
	if strings.HasSuffix(name, ".go") || filepath.Base(name) == "go.mod" {
		c.Sources = true
		return true
	}
	// A created directory outside the resource tree may hold sources later.
	return ev.Has(fsnotify.Create)
}

// ignored reports whether p is the output directory, lies below it, or lies
// in a directory that Watch does not descend into. Below the resource root
// only hidden entries are ignored, as in ListResources.
func ignored(cfg *Config, p string) bool {
	if within(p, cfg.TargetDir()) {
		return true
	}
	root, inRes := cfg.ProjectDir, within(p, cfg.ResourceDir())
	if inRes {
		root = cfg.ResourceDir()
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		switch {
		case part == "." || part == "..":
		case hidden(part):
			return true
		case !inRes && skipName(part):
			return true
		}
	}
	return false
}

// addTree adds root and its subdirectories to w, skipping the directories
// rejected by skipDir.
func addTree(w *fsnotify.Watcher, cfg *Config, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && skipDir(cfg, p) {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}

// skipDir reports whether Watch ignores the directory p: hidden directories,
// the output directory, and outside the resource tree also vendor, testdata
// and directories starting with an underscore, like the driver directory.
func skipDir(cfg *Config, p string) bool {
	p = filepath.Clean(p)
	base := filepath.Base(p)
	switch {
	case hidden(base), p == filepath.Clean(cfg.TargetDir()):
		return true
	case within(p, cfg.ResourceDir()):
		return false
	}
	return skipName(base)
}

func skipName(base string) bool {
	return hidden(base) || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata"
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// within reports whether p is dir or lies below it.
func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
