// Package config loads orient settings from an optional YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/orient/pkg/orientation"
)

// FileName is the config file looked up in the working directory.
const FileName = ".orient.yaml"

// Config is the merged file configuration.
type Config struct {
	Path     string // file the config was read from, if any
	Found    bool
	Options  orientation.Options
	Pixels   bool
	LogLevel slog.Level
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Options:  orientation.Options{DefaultOrientation: orientation.Portrait},
		LogLevel: slog.LevelWarn,
	}
}

// Load reads FileName from dir, or from the working directory when dir is empty.
func Load(dir string) (Config, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("failed to get current working directory: %w", err)
		}
	}
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile reads a specific config file. A missing file yields Default().
func LoadFile(path string) (Config, error) {
	cfg := Default()
	cfg.Path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg.Found = true

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// The document itself is the options object, so a scalar or list at the
	// top level is reported the same way as any other non-object options.
	opts, err := orientation.ParseOptions(doc)
	if err != nil {
		return Config{}, err
	}
	cfg.Options = opts

	m, _ := doc.(map[string]any)
	if raw, ok := m["debounce"]; ok {
		s, isString := raw.(string)
		d, perr := time.ParseDuration(s)
		if !isString || perr != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid debounce %v: want a positive duration such as \"400ms\"", raw)
		}
		cfg.Options.Debounce = d
	}
	if raw, ok := m["pixels"]; ok {
		b, isBool := raw.(bool)
		if !isBool {
			return Config{}, fmt.Errorf("invalid pixels %v: want true or false", raw)
		}
		cfg.Pixels = b
	}
	if raw, ok := m["log_level"]; ok {
		s, _ := raw.(string)
		level, err := ParseLevel(s)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: use debug, info, warn or error", s)
	}
	return level, nil
}
