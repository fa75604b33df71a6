package gen

import (
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/assetgen"
)

type levelProcessor struct {
	assetgen.Target `ext:".TMX"`
}

func (levelProcessor) Declare(path string) []jen.Code {
	return []jen.Code{jen.Var().Id(assetgen.Ident(path)).Op("=").Lit(path)}
}

type pngProcessor struct {
	assetgen.Target `ext:"png"`
}

func (*pngProcessor) Declare(string) []jen.Code { return nil }

type untaggedProcessor struct{}

func (untaggedProcessor) Declare(string) []jen.Code { return nil }

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, []string{".jpeg", ".jpg", ".png"}, reg.Extensions())

	e, ok := reg.Lookup("PNG")
	require.True(t, ok)
	assert.True(t, e.Builtin)
	assert.Equal(t, ".png", e.Ext)
	assert.Equal(t, "github.com/syssam/assetgen.TextureProcessor", e.Type)
	assert.IsType(t, assetgen.TextureProcessor{}, e.Processor)

	for _, ext := range KnownExtensions {
		_, ok := reg.Lookup(ext)
		assert.False(t, ok, ext)
	}
	assert.Empty(t, NewEmptyRegistry().Extensions())
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()

	assert.False(t, reg.Register(".tmx", "game.Level", levelProcessor{}))
	assert.True(t, reg.Register(".png", "game.Png", &pngProcessor{}), "user processors replace builtins")
	assert.False(t, reg.Register("", "game.None", untaggedProcessor{}))

	e, ok := reg.Lookup(".png")
	require.True(t, ok)
	assert.False(t, e.Builtin)
	assert.Equal(t, "game.Png", e.Type)
	assert.Equal(t, []string{".jpeg", ".jpg", ".png", ".tmx"}, reg.Extensions())

	assert.Panics(t, func() { reg.Register(".cue", "game.Nil", nil) })
	reg.Freeze()
	assert.Panics(t, func() { reg.Register(".cue", "game.Cue", levelProcessor{}) })
}

func TestRegistryAdd(t *testing.T) {
	reg := NewEmptyRegistry()
	require.NoError(t, reg.Add(levelProcessor{}))
	require.NoError(t, reg.Add(&pngProcessor{}))

	e, ok := reg.Lookup(".tmx")
	require.True(t, ok)
	assert.Equal(t, "gen.levelProcessor", e.Type)
	e, ok = reg.Lookup(".png")
	require.True(t, ok)
	assert.Equal(t, "*gen.pngProcessor", e.Type)

	err := reg.Add(untaggedProcessor{})
	require.Error(t, err)
	assert.True(t, assetgen.IsTargetError(err))
}
