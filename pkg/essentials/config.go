package essentials

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings read by the command line tool and the demo programs.
// The library packages themselves take explicit parameters and never read it.
type Config struct {
	// SessionLabel seeds transcripts. Leaving it empty makes callers pick a
	// random label per run.
	SessionLabel string `yaml:"session_label"`

	Shuffle ShuffleConfig `yaml:"shuffle"`
	Mix     MixConfig     `yaml:"mix"`
	Log     LogConfig     `yaml:"log"`
}

// ShuffleConfig sets the matrix shape used to arrange N = Rows*Cols
// ciphertexts for the shuffle argument. Proving cost grows with Rows squared.
type ShuffleConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// MixConfig configures a multi-party verifiable shuffle.
type MixConfig struct {
	Parties int           `yaml:"parties"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig selects the logger level and encoding ("json" or "console").
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Shuffle: ShuffleConfig{Rows: 4, Cols: 13},
		Mix:     MixConfig{Parties: 3, Timeout: 30 * time.Second},
		Log:     LogConfig{Level: "info", Format: "console"},
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig. A
// missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is operator supplied
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values no protocol can run with.
func (c *Config) Validate() error {
	if c.Shuffle.Rows < 1 || c.Shuffle.Cols < 2 {
		return fmt.Errorf("shuffle shape %dx%d: need rows >= 1 and cols >= 2", c.Shuffle.Rows, c.Shuffle.Cols)
	}
	if c.Mix.Parties < 2 {
		return fmt.Errorf("mix parties %d: need at least 2", c.Mix.Parties)
	}
	if c.Mix.Timeout <= 0 {
		return errors.New("mix timeout must be positive")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
