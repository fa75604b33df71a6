package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Workers", -1, "workers cannot be negative")

		assert.Equal(t, `assetgen: config error for "Workers" (value: -1): workers cannot be negative`, err.Error())
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("ProjectDir", nil, "project directory cannot be empty")

		assert.Equal(t, `assetgen: config error for "ProjectDir": project directory cannot be empty`, err.Error())
	})

	t.Run("Is ErrMissingConfig", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", NewConfigError("Package", "1x", "bad"))

		assert.True(t, errors.Is(err, ErrMissingConfig))
		assert.False(t, errors.Is(err, ErrGenerationFailed))
		assert.True(t, IsConfigError(err))
		assert.False(t, IsGenerationError(err))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("disk full")
		err := NewGenerationError("write", "Res_cat_res.g.go", "flush", cause)

		assert.Contains(t, err.Error(), "assetgen: generation error")
		assert.Contains(t, err.Error(), "in phase write")
		assert.Contains(t, err.Error(), "(file: Res_cat_res.g.go)")
		assert.Contains(t, err.Error(), "flush")
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("Error message with phase only", func(t *testing.T) {
		err := NewGenerationError("driver", "", "", nil)

		assert.Equal(t, "assetgen: generation error in phase driver", err.Error())
	})

	t.Run("Unwrap and Is", func(t *testing.T) {
		cause := errors.New("boom")
		err := fmt.Errorf("run: %w", NewGenerationError("render", "Res_cat_res.g.go", "", cause))

		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrGenerationFailed))
		assert.True(t, IsGenerationError(err))
		assert.False(t, IsConfigError(err))

		var genErr *GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, "render", genErr.Phase)
	})
}
