package gen

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/assetgen/compiler/load"
)

// UnitInfo summarizes one unit of a run.
type UnitInfo struct {
	Key     string `msgpack:"key"`
	Rel     string `msgpack:"rel"`
	Ident   string `msgpack:"ident"`
	Type    string `msgpack:"type,omitempty"`
	Written bool   `msgpack:"written"`
}

// Report is the outcome of a generation run.
type Report struct {
	RunID       string           `msgpack:"run_id"`
	Inert       string           `msgpack:"inert,omitempty"` // reason the run was skipped
	Units       []UnitInfo       `msgpack:"units,omitempty"`
	Diagnostics load.Diagnostics `msgpack:"diagnostics,omitempty"`
	Metrics     WriterMetrics    `msgpack:"metrics"`
}

// Err returns the error diagnostics of the run joined into one error.
func (r *Report) Err() error {
	return r.Diagnostics.Err()
}

// Unit returns the unit info of the resource at rel.
func (r *Report) Unit(rel string) (UnitInfo, bool) {
	for _, u := range r.Units {
		if u.Rel == rel {
			return u, true
		}
	}
	return UnitInfo{}, false
}

// Log emits the diagnostics and a summary of the run.
func (r *Report) Log(log *slog.Logger) {
	for _, d := range r.Diagnostics {
		level := slog.LevelWarn
		if d.Severity == load.SeverityError {
			level = slog.LevelError
		}
		log.Log(context.Background(), level, d.Message, "pos", d.Pos, "run", r.RunID)
	}
	if r.Inert != "" {
		log.Info("asset generation skipped", "reason", r.Inert, "run", r.RunID)
		return
	}
	log.Info("asset generation done",
		"run", r.RunID,
		"units", len(r.Units),
		"written", r.Metrics.FilesWritten,
		"unchanged", r.Metrics.FilesUnchanged,
		"removed", r.Metrics.FilesRemoved,
	)
}

// Run routes every resource file through the registry and writes one unit per
// routed file. Failures are isolated per unit and reported as diagnostics in
// the report; the returned error is reserved for failures of the run itself,
// like an unreadable resource tree or output directory.
func Run(ctx context.Context, cfg *Config, reg *Registry) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	log := cfg.logger().With("run", report.RunID)
	if reason := cfg.inert(); reason != "" {
		report.Inert = reason
		log.Info("asset generation is inert", "reason", reason)
		return report, nil
	}
	resources, err := ListResources(cfg.ResourceDir())
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	router := NewRouter(cfg.ResourceDir(), reg, log)
	var units []*Unit
	for _, r := range resources {
		if u, ok := router.Route(r.Path); ok {
			units = append(units, u)
		}
	}
	colliding := collisions(units, &report.Diagnostics)

	var (
		w      = NewWriter(cfg.TargetDir(), cfg.header()).WithWorkers(cfg.workers())
		only   = make(map[string]bool, len(cfg.Only))
		listed = make(map[string]bool, len(units))
		keys   = make(map[string]bool)
		idents = make(map[string]bool)
	)
	for _, u := range units {
		listed[u.Path] = true
	}
	for _, p := range cfg.Only {
		only[p] = true
		u, ok := router.Route(p)
		if !ok {
			continue
		}
		// Resources removed since the last run lose their unit.
		if !listed[p] {
			w.Remove(u.Key)
		}
		keys[u.Key] = true
		if u.Processor != nil {
			idents[u.Ident] = true
		}
	}
	// A changed resource may start or end a collision with units outside
	// the Only list, so units sharing its key or identifier are redone.
	selected := func(u *Unit) bool {
		return len(only) == 0 || only[u.Path] || keys[u.Key] || (u.Processor != nil && idents[u.Ident])
	}

	var (
		mu      sync.Mutex
		written = make(map[string]bool)
		sink    = NewSink(cfg.PackageName(), cfg.header())
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers())
	for _, u := range units {
		if !selected(u) {
			continue
		}
		if colliding[u] {
			w.Remove(u.Key)
			continue
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var diag *load.Diagnostic
			src, err := sink.Render(u)
			if err == nil {
				err = w.Register(u.Key, src)
			}
			if err != nil {
				d := load.Errorf(u.Path, "%v", err)
				diag = &d
			}
			mu.Lock()
			defer mu.Unlock()
			if diag != nil {
				report.Diagnostics = append(report.Diagnostics, *diag)
				return nil
			}
			written[u.Key] = true
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := w.Flush(ctx, len(only) == 0); err != nil {
		return nil, err
	}
	report.Metrics = w.Metrics()
	for _, u := range units {
		report.Units = append(report.Units, UnitInfo{
			Key:     u.Key,
			Rel:     u.Rel,
			Ident:   u.Ident,
			Type:    u.Type,
			Written: written[u.Key] && !colliding[u],
		})
	}
	slices.SortStableFunc(report.Diagnostics, func(a, b load.Diagnostic) int {
		return cmpDiagnostic(a, b)
	})
	return report, nil
}

// collisions reports units that share an output key, and units that bind the
// same identifier in the generated package. Only units with a processor
// declare anything.
func collisions(units []*Unit, diags *load.Diagnostics) map[*Unit]bool {
	var (
		byKey     = make(map[string][]*Unit)
		byIdent   = make(map[string][]*Unit)
		colliding = make(map[*Unit]bool)
	)
	for _, u := range units {
		byKey[u.Key] = append(byKey[u.Key], u)
		if u.Processor != nil {
			byIdent[u.Ident] = append(byIdent[u.Ident], u)
		}
	}
	report := func(groups map[string][]*Unit, format string) {
		for name, group := range groups {
			if len(group) < 2 {
				continue
			}
			for _, u := range group {
				colliding[u] = true
				var others []string
				for _, o := range group {
					if o != u {
						others = append(others, o.Rel)
					}
				}
				*diags = append(*diags, load.Errorf(u.Path, format, name, others))
			}
		}
	}
	report(byKey, "output key %s is also used by %q")
	report(byIdent, "identifier %s is also bound by %q")
	return colliding
}

func cmpDiagnostic(a, b load.Diagnostic) int {
	switch {
	case a.Pos < b.Pos:
		return -1
	case a.Pos > b.Pos:
		return 1
	case a.Message < b.Message:
		return -1
	case a.Message > b.Message:
		return 1
	}
	return 0
}

// Generate runs the complete pipeline: it scans the project packages for
// processors, builds the registry and generates the units. Without user
// processors the builtin registry runs in-process; otherwise a driver program
// that links the user processors is built and run with the go command.
func Generate(ctx context.Context, cfg *Config) (*Report, error) {
	if reason := cfg.inert(); reason != "" {
		return &Report{RunID: uuid.NewString(), Inert: reason}, nil
	}
	log := cfg.logger()
	res, err := load.Load(ctx, &load.Config{
		Dir:        cfg.ProjectDir,
		Patterns:   cfg.Patterns,
		BuildFlags: cfg.BuildFlags,
	})
	if err != nil {
		return nil, err
	}
	diags := slices.Clone(res.Diagnostics)
	if res.Inert {
		log.Debug("assetgen contract is not imported by the project, using builtin processors")
	}
	static, rdiags := load.NewRegistry(res.Processors)
	diags = append(diags, rdiags...)

	var report *Report
	if static.Len() == 0 {
		report, err = Run(ctx, cfg, NewRegistry())
	} else {
		log.Debug("running driver", "processors", static.Len())
		report, err = RunDriver(ctx, cfg, static)
	}
	if err != nil {
		return nil, err
	}
	report.Diagnostics = append(diags, report.Diagnostics...)
	return report, nil
}
