package gen_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/assetgen"
	"github.com/syssam/assetgen/compiler/gen"
)

func BenchmarkRun(b *testing.B) {
	dir := b.TempDir()
	for i := range 200 {
		p := filepath.Join(dir, "res", fmt.Sprintf("set%d", i%10), fmt.Sprintf("sprite_%d.png", i))
		require.NoError(b, os.MkdirAll(filepath.Dir(p), os.ModePerm))
		require.NoError(b, os.WriteFile(p, nil, 0o644))
	}
	cfg := &gen.Config{ProjectDir: dir, Logger: slog.New(slog.DiscardHandler)}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		report, err := gen.Run(context.Background(), cfg, gen.NewRegistry())
		require.NoError(b, err)
		require.NoError(b, report.Err())
	}
}

func BenchmarkSink_Render(b *testing.B) {
	s := gen.NewSink("assets", "")
	u := &gen.Unit{
		Key:       "Res_images_cat",
		Path:      "/game/res/images/cat.png",
		Rel:       "images/cat.png",
		Processor: assetgen.TextureProcessor{},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := s.Render(u)
		require.NoError(b, err)
	}
}
