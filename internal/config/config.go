package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/ganttr/internal/gantt"
)

type Config struct {
	ViewMode    string        `yaml:"view_mode"`
	RedrawDelay time.Duration `yaml:"redraw_delay"`
	LogFile     string        `yaml:"log_file"`
	LogLevel    string        `yaml:"log_level"`
	SeedFile    string        `yaml:"seed_file"`
}

func Default() Config {
	return Config{
		ViewMode:    gantt.ViewWeek.String(),
		RedrawDelay: gantt.DefaultRedrawDelay,
		LogLevel:    "info",
	}
}

// Load reads the YAML file at path on top of the defaults and then applies
// GANTTR_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("decode config %s: %w", path, err)
			}
		}
	}

	if err := overrideFromEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func overrideFromEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("GANTTR_VIEW_MODE")); v != "" {
		cfg.ViewMode = v
	}
	if v := strings.TrimSpace(os.Getenv("GANTTR_REDRAW_DELAY")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GANTTR_REDRAW_DELAY: %w", err)
		}
		cfg.RedrawDelay = d
	}
	if v := strings.TrimSpace(os.Getenv("GANTTR_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv("GANTTR_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("GANTTR_SEED_FILE")); v != "" {
		cfg.SeedFile = v
	}
	return nil
}

func (c Config) Validate() error {
	if _, err := gantt.ParseViewMode(c.ViewMode); err != nil {
		return fmt.Errorf("view_mode: %w", err)
	}
	if c.RedrawDelay < 0 {
		return fmt.Errorf("redraw_delay must not be negative, got %s", c.RedrawDelay)
	}
	return nil
}

// Mode returns the configured view mode, falling back to week.
func (c Config) Mode() gantt.ViewMode {
	m, err := gantt.ParseViewMode(c.ViewMode)
	if err != nil {
		return gantt.ViewWeek
	}
	return m
}

// DefaultPath returns ~/.config/ganttr/config.yaml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ganttr", "config.yaml"), nil
}
