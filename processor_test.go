package assetgen_test

import (
	"errors"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/assetgen"
)

type sampleProcessor struct {
	assetgen.Target `ext:".Sample"`
}

func (sampleProcessor) Declare(path string) []jen.Code {
	return []jen.Code{jen.Comment(path)}
}

type namedTarget struct {
	Tmx assetgen.Target `ext:"tmx"`
}

type twoTargets struct {
	A assetgen.Target `ext:".a"`
	B assetgen.Target `ext:".b"`
}

type inherited struct {
	sampleProcessor
}

type noTag struct {
	assetgen.Target
}

func TestExtensionOf(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    string
		wantErr error
	}{
		{"embedded", sampleProcessor{}, ".sample", nil},
		{"pointer", &sampleProcessor{}, ".sample", nil},
		{"named field", namedTarget{}, ".tmx", nil},
		{"empty tag", noTag{}, "", nil},
		{"multiple", twoTargets{}, "", assetgen.ErrMultipleTargets},
		{"not inherited", inherited{}, "", assetgen.ErrNoTarget},
		{"not a struct", 42, "", assetgen.ErrNoTarget},
		{"nil", nil, "", assetgen.ErrNoTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := assetgen.ExtensionOf(tt.value)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.True(t, assetgen.IsTargetError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeExt(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{".png", ".png"},
		{"png", ".png"},
		{".PNG", ".png"},
		{"..png", ".png"},
		{" .Jpeg ", ".jpeg"},
		{"", ""},
		{".", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, assetgen.NormalizeExt(tt.input))
			// Normalization is stable.
			assert.Equal(t, tt.expected, assetgen.NormalizeExt(assetgen.NormalizeExt(tt.input)))
		})
	}
}
