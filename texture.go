package assetgen

import (
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"
)

// TextureAsset is the binding generated for image files.
type TextureAsset struct {
	// Path is the absolute path of the image on the build machine.
	Path string
}

// NewTextureAsset returns a TextureAsset for the image at path.
func NewTextureAsset(path string) TextureAsset {
	return TextureAsset{Path: path}
}

// Ext returns the normalized extension of the image.
func (t TextureAsset) Ext() string {
	return NormalizeExt(filepath.Ext(t.Path))
}

// Load reads the image bytes.
func (t TextureAsset) Load() ([]byte, error) {
	return os.ReadFile(t.Path)
}

// String implements fmt.Stringer.
func (t TextureAsset) String() string {
	return t.Path
}

// TextureProcessor is the builtin processor for image files.
type TextureProcessor struct{}

// TextureExtensions lists the extensions handled by TextureProcessor.
var TextureExtensions = []string{".png", ".jpg", ".jpeg"}

// Declare implements Processor.
func (TextureProcessor) Declare(path string) []jen.Code {
	return []jen.Code{
		jen.Var().Id(Ident(path)).Op("=").Qual(PkgPath, "NewTextureAsset").Call(jen.Lit(path)),
	}
}

// PkgPath is the import path of this package, used in generated code.
const PkgPath = "github.com/syssam/assetgen"
