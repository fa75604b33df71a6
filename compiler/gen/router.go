package gen

import (
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/syssam/assetgen"
)

// Resource is a file found under the resource root.
type Resource struct {
	Path string // absolute path
	Rel  string // slash-separated path relative to the resource root
}

// ListResources returns every regular file under root, sorted by relative
// path. Hidden files and directories (leading dot) are skipped.
func ListResources(root string) ([]Resource, error) {
	var out []Resource
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out = append(out, Resource{Path: p, Rel: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b Resource) int { return strings.Compare(a.Rel, b.Rel) })
	return out, nil
}

// Unit is the routing decision for one resource file. It becomes exactly one
// generated file.
type Unit struct {
	Key   string // output key, e.g. "Res_images_cat"
	Ident string // identifier bound to the resource
	Path  string // absolute path of the resource
	Rel   string // slash-separated path relative to the resource root
	Ext   string // normalized extension

	// Processor is nil when no processor handles Ext; the unit body is
	// empty then.
	Processor assetgen.Processor
	Type      string // fully qualified processor type name
}

// File returns the name of the generated file.
func (u *Unit) File() string {
	return FileName(u.Key)
}

// FileSuffix ends the name of every generated file. The go command reads a
// trailing _GOOS, _GOARCH or _test in a file name as a constraint, and the
// output key ends with whatever the resource name ends with.
const FileSuffix = "_res.g.go"

// FileName returns the name of the generated file of the output key.
func FileName(key string) string {
	return key + FileSuffix
}

// Router matches resource files to processors.
type Router struct {
	root string
	reg  *Registry
	log  *slog.Logger
}

// NewRouter returns a router for the resource root. The registry is frozen.
func NewRouter(root string, reg *Registry, log *slog.Logger) *Router {
	reg.Freeze()
	if log == nil {
		log = slog.Default()
	}
	return &Router{root: filepath.Clean(root), reg: reg, log: log}
}

// Route returns the unit for the file at path. It returns false when the file
// lies outside the resource root or has no extension.
func (r *Router) Route(p string) (*Unit, bool) {
	rel, ok := r.rel(p)
	if !ok {
		return nil, false
	}
	ext := assetgen.NormalizeExt(path.Ext(rel))
	if ext == "" {
		return nil, false
	}
	u := &Unit{
		Key:   OutputKey(rel),
		Ident: assetgen.Ident(p),
		Path:  p,
		Rel:   rel,
		Ext:   ext,
	}
	if e, ok := r.reg.Lookup(ext); ok {
		u.Processor, u.Type = e.Processor, e.Type
		return u, true
	}
	if slices.Contains(KnownExtensions, ext) {
		r.log.Debug("no processor registered for known asset type", "resource", rel, "ext", ext)
	} else {
		r.log.Debug("no processor registered", "resource", rel, "ext", ext)
	}
	return u, true
}

// rel returns the slash-separated path of p relative to the resource root.
func (r *Router) rel(p string) (string, bool) {
	if !filepath.IsAbs(p) {
		return "", false
	}
	rel, err := filepath.Rel(r.root, filepath.Clean(p))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// OutputKey returns the output key of the resource at the slash-separated
// path rel: "Res_" followed by the path without its extension, with every
// character outside [A-Za-z0-9_-] replaced by an underscore.
func OutputKey(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	var b strings.Builder
	b.WriteString("Res_")
	for _, c := range rel {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
