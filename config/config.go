package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/they4kman/ffsweep/game"
	"github.com/they4kman/ffsweep/util/random"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds every setting of a ffsweep run
type Config struct {
	Rows   int         `yaml:"rows"`
	Cols   int         `yaml:"cols"`
	Bounds game.Bounds `yaml:"bounds"`

	// Difficulty is a preset name or a fraction in (0, 1)
	Difficulty string               `yaml:"difficulty"`
	Multimine  game.MultimineConfig `yaml:"multimine"`
	GraceRule  bool                 `yaml:"grace_rule"`
	Flagless   bool                 `yaml:"flagless"`

	// Seed for mine placement; 0 seeds from the clock
	Seed int64 `yaml:"seed"`

	// Leaderboard is "memory", a path to a YAML file, or a redis:// URL
	Leaderboard string `yaml:"leaderboard"`

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns a Config with default values
func Default() *Config {
	engine := game.NewEngineConfig()
	return &Config{
		Rows:        engine.Rows,
		Cols:        engine.Cols,
		Bounds:      engine.Bounds,
		Difficulty:  "medium",
		Multimine:   game.DefaultMultimineConfig(),
		GraceRule:   engine.GraceRule,
		Flagless:    engine.Flagless,
		Leaderboard: "memory",
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load overlays a YAML document on the defaults and validates the result.
// Unknown keys are rejected.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	cfg, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	bounds := c.Bounds
	if bounds.MinRows < 1 || bounds.MinCols < 1 || bounds.MinRows > bounds.MaxRows || bounds.MinCols > bounds.MaxCols {
		return fmt.Errorf("%w: bounds %+v", ErrInvalidConfig, bounds)
	}
	if err := bounds.Check(c.Rows, c.Cols); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.ParsedDifficulty(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Multimine.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Leaderboard == "" {
		return fmt.Errorf("%w: empty leaderboard", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) ParsedDifficulty() (game.Difficulty, error) {
	return game.ParseDifficulty(c.Difficulty)
}

// EngineConfig builds the engine settings, seeding placement from Seed
func (c *Config) EngineConfig(logger logrus.FieldLogger) game.EngineConfig {
	engine := game.NewEngineConfig()
	engine.Rows, engine.Cols = c.Rows, c.Cols
	engine.Bounds = c.Bounds
	engine.GraceRule = c.GraceRule
	engine.Flagless = c.Flagless
	engine.Logger = logger
	if c.Seed != 0 {
		engine.Rand = random.New(c.Seed)
	}
	return engine
}

// ConfigureLogger applies the level and format settings to logger
func (c *Config) ConfigureLogger(logger *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	logger.SetLevel(level)

	if c.Log.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
