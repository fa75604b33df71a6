package gen

import (
	"fmt"
	"maps"
	"slices"

	"github.com/syssam/assetgen"
)

// Entry is a processor registered for one extension.
type Entry struct {
	Ext       string
	Type      string // fully qualified type name
	Processor assetgen.Processor
	Builtin   bool
}

// Registry maps normalized extensions to processor values. It is filled
// before a run and frozen while units are routed; routing only reads it.
type Registry struct {
	entries map[string]Entry
	frozen  bool
}

// KnownExtensions are asset types recognized without a builtin processor.
// Files of these types produce empty units unless a processor is registered.
var KnownExtensions = []string{".aseprite", ".tmx", ".ldtk", ".cue"}

// NewRegistry returns a registry holding the builtin processors.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, ext := range assetgen.TextureExtensions {
		r.entries[ext] = Entry{
			Ext:       ext,
			Type:      assetgen.PkgPath + ".TextureProcessor",
			Processor: assetgen.TextureProcessor{},
			Builtin:   true,
		}
	}
	return r
}

// NewEmptyRegistry returns a registry without builtin processors.
func NewEmptyRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register registers p for ext, replacing any previous entry. It reports
// whether an entry was replaced. Register panics if the registry is frozen
// or p is nil.
func (r *Registry) Register(ext, typeName string, p assetgen.Processor) bool {
	if r.frozen {
		panic("assetgen: Register called on a frozen registry")
	}
	if p == nil {
		panic("assetgen: Register called with a nil processor")
	}
	ext = assetgen.NormalizeExt(ext)
	if ext == "" {
		return false
	}
	_, replaced := r.entries[ext]
	r.entries[ext] = Entry{Ext: ext, Type: typeName, Processor: p}
	return replaced
}

// Add registers p under the extension declared by its Target field.
func (r *Registry) Add(p assetgen.Processor) error {
	ext, err := assetgen.ExtensionOf(p)
	if err != nil {
		return err
	}
	r.Register(ext, fmt.Sprintf("%T", p), p)
	return nil
}

// Lookup returns the entry registered for the extension.
func (r *Registry) Lookup(ext string) (Entry, bool) {
	e, ok := r.entries[assetgen.NormalizeExt(ext)]
	return e, ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	return slices.Sorted(maps.Keys(r.entries))
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.frozen = true
}
