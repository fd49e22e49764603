package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"worldstream/internal/assets"
	"worldstream/internal/config"
	"worldstream/internal/environment"
	"worldstream/internal/scene"
	"worldstream/internal/world"
)

func main() {
	var (
		cfgPath    string
		previewDir string
		ticks      int
	)
	flag.StringVar(&cfgPath, "config", "", "path to worldstream configuration file (JSON or YAML)")
	flag.StringVar(&previewDir, "preview", "", "directory for chunk preview images of the final neighbourhood")
	flag.IntVar(&ticks, "ticks", -1, "override session.ticks (0 runs until interrupted)")
	flag.Parse()

	logger := log.New(log.Writer(), "worldstream ", log.LstdFlags|log.Lmicroseconds)

	wrote, err := writeConfigFromEnv(cfgPath)
	if err != nil {
		log.Fatalf("sync config from environment: %v", err)
	}
	if wrote {
		logger.Printf("configuration from environment written to %s", cfgPath)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if ticks >= 0 {
		cfg.Session.Ticks = ticks
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := run(ctx, cfg, previewDir, logger); err != nil {
		log.Fatalf("worldstream exited with error: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, previewDir string, logger *log.Logger) error {
	registry, err := loadAssets(ctx, cfg.Assets, logger)
	if err != nil {
		return err
	}

	store, err := world.OpenStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open chunk store: %w", err)
	}
	defer store.Close()

	graph := scene.NewRecorder()
	env, err := environment.New(cfg, registry, graph, store, logger)
	if err != nil {
		return fmt.Errorf("initialise environment: %w", err)
	}

	logger.Printf("seed %d, %s noise, chunk size %d, %s spill store",
		cfg.World.Seed, cfg.Terrain.Noise, cfg.World.ChunkSize, cfg.Storage.Backend)
	if err := simulate(ctx, env, cfg.Session, logger); err != nil {
		return err
	}

	stats := env.Stats()
	logger.Printf("finished: health %.3f, %d entities (%d decision points, %d visible), chunks created=%d restored=%d evicted=%d cached=%d, scene nodes %d",
		stats.Health, stats.Entities, stats.DecisionPoints, stats.Visible,
		stats.Chunks.Created, stats.Chunks.Restored, stats.Chunks.Evicted, stats.Chunks.Cached, graph.Len())

	if previewDir == "" {
		return nil
	}
	for _, chunk := range env.ActiveChunks() {
		if err := world.SavePreview(chunk, previewDir); err != nil {
			return fmt.Errorf("preview chunk %s: %w", chunk.Key, err)
		}
	}
	logger.Printf("wrote %d chunk previews to %s", len(env.ActiveChunks()), previewDir)
	return nil
}

// loadAssets fetches the configured asset pack when a source is set and reads
// its manifest. Without a source an existing local manifest is used, falling
// back to the built-in templates.
func loadAssets(ctx context.Context, cfg config.AssetsConfig, logger *log.Logger) (*assets.Registry, error) {
	if cfg.Source != "" {
		logger.Printf("fetching assets from %s into %s", cfg.Source, cfg.Dir)
		if err := assets.Fetch(ctx, cfg.Source, cfg.Dir); err != nil {
			return nil, err
		}
		return assets.Load(cfg.Dir, cfg.Manifest)
	}

	manifest := filepath.Join(cfg.Dir, cfg.Manifest)
	if _, err := os.Stat(manifest); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Printf("no asset manifest at %s, using built-in templates", manifest)
			return assets.Default(), nil
		}
		return nil, fmt.Errorf("stat asset manifest: %w", err)
	}
	return assets.Load(cfg.Dir, cfg.Manifest)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
			return
		}

		// Ensure the process terminates if shutdown stalls.
		time.AfterFunc(10*time.Second, func() {
			log.Printf("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}
