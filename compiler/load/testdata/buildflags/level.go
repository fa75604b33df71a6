package buildflags

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/assetgen"
)

// Level handles Tiled maps.
type Level struct {
	assetgen.Target `ext:".tmx"`
}

// Declare implements assetgen.Processor.
func (Level) Declare(path string) []jen.Code {
	return []jen.Code{jen.Var().Id(assetgen.Ident(path)).Op("=").Lit(path)}
}
