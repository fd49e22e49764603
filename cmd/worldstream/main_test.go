package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"worldstream/internal/config"
)

func TestLoadAssetsFallsBackToBuiltins(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	cfg := config.AssetsConfig{Dir: t.TempDir(), Manifest: "manifest.yaml"}
	registry, err := loadAssets(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("loadAssets: %v", err)
	}
	if _, ok := registry.Template("pine"); !ok {
		t.Fatalf("expected built-in templates")
	}
	if !strings.Contains(buf.String(), "using built-in templates") {
		t.Fatalf("expected fallback log, got %q", buf.String())
	}
}

func TestLoadAssetsFetchesSource(t *testing.T) {
	src := t.TempDir()
	manifest := `
ground: moss
templates:
  - name: moss
    kind: texture
    path: textures/moss.png
  - name: spruce
    kind: model
    path: models/spruce.glb
`
	if err := os.WriteFile(filepath.Join(src, "pack.yaml"), []byte(manifest), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	cfg := config.AssetsConfig{
		Source:   src,
		Dir:      filepath.Join(t.TempDir(), "assets"),
		Manifest: "pack.yaml",
	}
	registry, err := loadAssets(context.Background(), cfg, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("loadAssets: %v", err)
	}
	if registry.Ground().Name != "moss" {
		t.Fatalf("unexpected ground: %q", registry.Ground().Name)
	}
	if _, err := os.Stat(filepath.Join(cfg.Dir, "pack.yaml")); err != nil {
		t.Fatalf("expected manifest to be fetched: %v", err)
	}
}

func TestRunWalksAndWritesPreviews(t *testing.T) {
	cfg := config.Default()
	cfg.World.ChunkSize = 16
	cfg.World.DrawDistance = 32
	cfg.Assets.Dir = t.TempDir()
	cfg.Session.Ticks = 5
	cfg.Session.TickRate = config.Duration(time.Millisecond)

	var buf bytes.Buffer
	preview := filepath.Join(t.TempDir(), "preview")
	if err := run(context.Background(), cfg, preview, log.New(&buf, "", 0)); err != nil {
		t.Fatalf("run: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(preview, "chunk_*.png"))
	if err != nil {
		t.Fatalf("glob previews: %v", err)
	}
	if len(files) != 9 {
		t.Fatalf("expected 9 previews, got %d", len(files))
	}
	if !strings.Contains(buf.String(), "finished: health") {
		t.Fatalf("expected summary log, got %q", buf.String())
	}
}

func TestSimulateStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.World.ChunkSize = 16
	cfg.Assets.Dir = t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg.Session.Ticks = 0
	var buf bytes.Buffer
	if err := run(ctx, cfg, "", log.New(&buf, "", 0)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(buf.String(), "walk interrupted after 0 ticks") {
		t.Fatalf("expected interruption log, got %q", buf.String())
	}
}
