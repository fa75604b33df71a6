package gen

import (
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputKey(t *testing.T) {
	tests := []struct {
		rel, want string
	}{
		{"images/cat.png", "Res_images_cat"},
		{"cat.png", "Res_cat"},
		{"sfx/hit-01.wav", "Res_sfx_hit-01"},
		{"maps/world 1/level.v2.tmx", "Res_maps_world_1_level_v2"},
		{"über.png", "Res__ber"},
		{"noext", "Res_noext"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputKey(tt.rel), tt.rel)
	}
}

func TestRoute(t *testing.T) {
	root := filepath.FromSlash("/game/res")
	r := NewRouter(root, NewRegistry(), nil)

	t.Run("builtin processor", func(t *testing.T) {
		p := filepath.Join(root, "images", "cat.png")
		u, ok := r.Route(p)
		require.True(t, ok)
		assert.Equal(t, "Res_images_cat", u.Key)
		assert.Equal(t, "Res_images_cat_res.g.go", u.File())
		assert.Equal(t, "Cat", u.Ident)
		assert.Equal(t, "images/cat.png", u.Rel)
		assert.Equal(t, ".png", u.Ext)
		assert.Equal(t, p, u.Path)
		assert.NotNil(t, u.Processor)
		assert.Equal(t, "github.com/syssam/assetgen.TextureProcessor", u.Type)
	})

	t.Run("extension case", func(t *testing.T) {
		u, ok := r.Route(filepath.Join(root, "Photo.JPG"))
		require.True(t, ok)
		assert.Equal(t, ".jpg", u.Ext)
		assert.NotNil(t, u.Processor)
	})

	t.Run("known and unknown extensions", func(t *testing.T) {
		for _, name := range []string{"hero.aseprite", "level.tmx", "notes.txt"} {
			u, ok := r.Route(filepath.Join(root, name))
			require.True(t, ok, name)
			assert.Nil(t, u.Processor, name)
			assert.Empty(t, u.Type, name)
		}
	})

	t.Run("not routed", func(t *testing.T) {
		for _, p := range []string{
			filepath.Join(root, "README"),
			filepath.FromSlash("/game/other/cat.png"),
			filepath.FromSlash("/game/res.png"),
			root,
			"res/cat.png",
		} {
			_, ok := r.Route(p)
			assert.False(t, ok, p)
		}
	})

	t.Run("registry is frozen", func(t *testing.T) {
		assert.Panics(t, func() { r.reg.Register(".tmx", "game.Level", levelProcessor{}) })
	})
}

func TestRouteDistinctKeys(t *testing.T) {
	root := filepath.FromSlash("/game/res")
	r := NewRouter(root, NewRegistry(), nil)

	a, ok := r.Route(filepath.Join(root, "a", "cat.png"))
	require.True(t, ok)
	b, ok := r.Route(filepath.Join(root, "b", "cat.png"))
	require.True(t, ok)
	assert.NotEqual(t, a.Key, b.Key)
	assert.Equal(t, a.Ident, b.Ident)
}

func TestFileNameBuildConstraints(t *testing.T) {
	root := filepath.FromSlash("/game/res")
	r := NewRouter(root, NewRegistry(), nil)
	dir := t.TempDir()
	var names []string
	for _, rel := range []string{
		"images/cat.png",
		"images/player_windows.png",
		"sfx/hit_arm64.png",
		"maps/level_linux_amd64.tmx",
		"ui/button_test.png",
		"ui/icon_js_wasm.png",
	} {
		u, ok := r.Route(filepath.Join(root, filepath.FromSlash(rel)))
		require.True(t, ok, rel)
		name := u.File()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), unit(u.Key), 0o644))
		assert.False(t, strings.HasSuffix(name, "_test.go"), name)
		names = append(names, name)
	}
	for _, platform := range [][2]string{{"linux", "amd64"}, {"windows", "arm64"}, {"darwin", "arm64"}, {"js", "wasm"}} {
		ctxt := build.Default
		ctxt.GOOS, ctxt.GOARCH = platform[0], platform[1]
		for _, name := range names {
			ok, err := ctxt.MatchFile(dir, name)
			require.NoError(t, err)
			assert.True(t, ok, "%s on %s/%s", name, ctxt.GOOS, ctxt.GOARCH)
		}
	}
}

func TestListResources(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"images/cat.png",
		"images/.cache/x.png",
		".hidden.png",
		"maps/level.tmx",
		"README",
	} {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(name), 0o644))
	}

	res, err := ListResources(root)
	require.NoError(t, err)
	var rels []string
	for _, r := range res {
		rels = append(rels, r.Rel)
		assert.Equal(t, filepath.Join(root, filepath.FromSlash(r.Rel)), r.Path)
	}
	assert.Equal(t, []string{"README", "images/cat.png", "maps/level.tmx"}, rels)

	_, err = ListResources(filepath.Join(root, "missing"))
	assert.Error(t, err)
}
