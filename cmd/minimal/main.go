// Command minimal renders the built-in demo scene to a PNG. It is the
// smallest end-to-end use of the library: configure a device, build a
// scene, trace one stream per tile, write the image.
//
// Configuration comes from minimal.yaml (or the file named by
// -config), overridden by RAYKIT_* environment variables and an
// optional .env file.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lightfold/raykit/logging"
	"github.com/lightfold/raykit/rtkernel"
)

func main() {
	configPath := flag.String("config", "minimal.yaml", "path to the YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		// Use fmt here since the logger isn't initialized yet.
		fmt.Printf("Warning: could not load .env file: %v\n", err)
	}

	isDevelopment := os.Getenv("DEV_MODE") == "true"

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(isDevelopment, cfg.LogFile)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	restore := logging.ReplaceGlobal(logger.Zap())
	defer restore()

	logger.Info("configuration loaded",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("tile_size", cfg.TileSize),
		zap.Int("supersample", cfg.Supersample),
		zap.String("output", cfg.Output),
		zap.String("backend", rtkernel.Backend()),
		zap.Bool("dev_mode", isDevelopment),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("interrupt received, abandoning remaining tiles")
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		color.Red("render failed: %v", err)
		logger.Error("render failed", zap.Error(err))
		os.Exit(1)
	}
	color.Green("wrote %s (%dx%d, backend: %s)", cfg.Output, cfg.Width, cfg.Height, rtkernel.Backend())
}

func run(ctx context.Context, cfg Config, logger *logging.Logger) error {
	dev, err := rtkernel.NewDeviceWithConfig(rtkernel.Config{Threads: cfg.Workers})
	if err != nil {
		return fmt.Errorf("create device: %w", err)
	}
	defer dev.Close()

	scene, err := buildScene(dev)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	defer scene.Close()

	start := time.Now()
	img, err := renderScene(ctx, scene, cfg, logger.Zap().Named("render"))
	if err != nil {
		return err
	}

	rays := cfg.Width * cfg.Height * cfg.Supersample * cfg.Supersample
	logger.Info("render finished", logging.TimingFields(start, time.Now(),
		float64(rays)/time.Since(start).Seconds())...)

	out, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
