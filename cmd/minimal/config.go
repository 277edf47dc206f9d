package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config drives the example renderer. Values come from an optional
// YAML file, then environment variables override individual fields.
type Config struct {
	// Width and Height of the output image in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// TileSize is the square tile edge each worker traces at once.
	TileSize int `yaml:"tile_size"`

	// Supersample renders at an integer multiple of the output size
	// and downscales. 1 disables it.
	Supersample int `yaml:"supersample"`

	// Workers caps the tile workers. 0 means one per CPU.
	Workers int `yaml:"workers"`

	// Output is the PNG file to write.
	Output string `yaml:"output"`

	// LogFile receives the JSON log stream.
	LogFile string `yaml:"log_file"`

	Camera CameraConfig `yaml:"camera"`
}

// CameraConfig positions the pinhole camera.
type CameraConfig struct {
	Eye    [3]float32 `yaml:"eye"`
	LookAt [3]float32 `yaml:"look_at"`
	Up     [3]float32 `yaml:"up"`
	FOV    float32    `yaml:"fov"`
}

// DefaultConfig returns a runnable configuration: a small image of
// the built-in scene from a sensible viewpoint.
func DefaultConfig() Config {
	return Config{
		Width:       512,
		Height:      512,
		TileSize:    64,
		Supersample: 1,
		Output:      "render.png",
		LogFile:     "minimal.log",
		Camera: CameraConfig{
			Eye:    [3]float32{2.5, 2, 2.5},
			LookAt: [3]float32{0, 0, 0},
			Up:     [3]float32{0, 1, 0},
			FOV:    45,
		},
	}
}

// LoadConfig builds the config from defaults, an optional YAML file,
// and environment overrides, in that order.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnvOverrides lets single values be changed without editing the
// YAML file, matching how the log level is picked up elsewhere.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RAYKIT_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("RAYKIT_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	overrideInt(&cfg.Width, "RAYKIT_WIDTH")
	overrideInt(&cfg.Height, "RAYKIT_HEIGHT")
	overrideInt(&cfg.TileSize, "RAYKIT_TILE_SIZE")
	overrideInt(&cfg.Supersample, "RAYKIT_SUPERSAMPLE")
	overrideInt(&cfg.Workers, "RAYKIT_WORKERS")
}

func overrideInt(dst *int, env string) {
	v := os.Getenv(env)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size %dx%d must be positive", c.Width, c.Height)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("tile size %d must be positive", c.TileSize)
	}
	if c.Supersample < 1 {
		return fmt.Errorf("supersample %d must be at least 1", c.Supersample)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera fov %v must be in (0, 180)", c.Camera.FOV)
	}
	if c.Output == "" {
		return fmt.Errorf("output path must not be empty")
	}
	return nil
}
