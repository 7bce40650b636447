// seedctl populates an empty store with the demo fixtures. Running it
// against an already-seeded store changes nothing.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/pixelpal/pixelpal-service/internal/config"
	"github.com/pixelpal/pixelpal-service/internal/kv"
	"github.com/pixelpal/pixelpal-service/internal/seed"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	store, err := kv.New(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}
	defer store.Close()

	startTime := time.Now()
	logger.Info("Seeding store", "backend", cfg.Storage.Backend)

	seeder := seed.New(store, seed.DefaultFixtures())
	if err := seeder.EnsureSeeded(context.Background()); err != nil {
		logger.Error("Seeding failed",
			"error", err.Error(),
			"duration_ms", time.Since(startTime).Milliseconds())
		os.Exit(1)
	}

	logger.Info("Seeding complete",
		"duration_ms", time.Since(startTime).Milliseconds())
}
