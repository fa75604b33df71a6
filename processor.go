package assetgen

import (
	"reflect"
	"strings"

	"github.com/dave/jennifer/jen"
)

// TagKey is the struct tag key holding the extension on a Target field.
const TagKey = "ext"

// Processor turns a resource file into Go declarations.
//
// Declare is called once per resource file with its absolute path. The returned
// declarations are placed at the top level of the generated assets package.
// Implementations must be deterministic: the same path must always produce the
// same declarations, otherwise no-op rebuilds stop being byte-identical.
//
// The only top-level name a processor may declare is Ident(path). Collisions
// between resources are detected on that name; other names are not checked
// and can clash across generated files.
type Processor interface {
	Declare(path string) []jen.Code
}

// Target marks a Processor with the file extension it handles. It must be a
// direct field of the processor struct, with the extension in the "ext" tag:
//
//	type TMXProcessor struct {
//	    assetgen.Target `ext:".tmx"`
//	}
//
// A Target nested inside another embedded struct is not considered.
type Target struct{}

// targetType is used by ExtensionOf to recognize Target fields.
var targetType = reflect.TypeOf(Target{})

// ExtensionOf returns the normalized extension declared by the Target field of
// v, which must be a struct or a pointer to one.
func ExtensionOf(v any) (string, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return "", NewTargetError(typeName(t), ErrNoTarget)
	}
	var (
		ext   string
		found int
	)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type != targetType {
			continue
		}
		found++
		ext = f.Tag.Get(TagKey)
	}
	switch found {
	case 0:
		return "", NewTargetError(typeName(t), ErrNoTarget)
	case 1:
		return NormalizeExt(ext), nil
	default:
		return "", NewTargetError(typeName(t), ErrMultipleTargets)
	}
}

// NormalizeExt returns ext in canonical form: lower case with a leading dot.
// An empty (or dot only) extension stays empty. Extensions are compared in
// this form everywhere, so "CAT.PNG" is routed to the processor of ".png".
func NormalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return ""
	}
	return "." + strings.ToLower(ext)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
