package load

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	res, err := Load(context.Background(), &Config{Patterns: []string{"./testdata/procs"}})
	require.NoError(t, err)
	require.False(t, res.Inert)
	assert.Empty(t, res.Diagnostics)
	require.Len(t, res.Processors, 2)

	cue, sample := res.Processors[0], res.Processors[1]
	assert.Equal(t, "Cue", cue.Name)
	assert.Equal(t, ".cue", cue.Extension)
	assert.True(t, cue.Pointer)
	assert.Equal(t, "procs", cue.PkgName)
	assert.Equal(t, "Sample", sample.Name)
	assert.Equal(t, ".sample", sample.Extension)
	assert.False(t, sample.Pointer)
}

func TestLoadInert(t *testing.T) {
	res, err := Load(context.Background(), &Config{Patterns: []string{"./testdata/plain"}})
	require.NoError(t, err)
	assert.True(t, res.Inert)
	assert.Empty(t, res.Processors)
	assert.Empty(t, res.Diagnostics)
}

func TestLoadError(t *testing.T) {
	_, err := Load(context.Background(), &Config{Patterns: []string{"./testdata/broken"}})
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
}

func TestLoadBuildFlags(t *testing.T) {
	names := func(res *Result) []string {
		var out []string
		for _, p := range res.Processors {
			out = append(out, p.Name+"="+p.Extension)
		}
		return out
	}

	res, err := Load(context.Background(), &Config{Patterns: []string{"./testdata/buildflags"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Level=.tmx", "Sprite=.aseprite"}, names(res))

	res, err = Load(context.Background(), &Config{
		Patterns:   []string{"./testdata/buildflags"},
		BuildFlags: []string{"-tags", "nosprites"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Level=.tmx"}, names(res))
}
