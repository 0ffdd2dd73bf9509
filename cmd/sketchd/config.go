package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// config is the sketchd configuration. Values come from defaults, then the
// TOML file, then flags.
type config struct {
	Addr      string `toml:"addr"`
	Store     string `toml:"store"` // "memory" or "bolt"
	BoltPath  string `toml:"bolt_path"`
	LogFormat string `toml:"log_format"` // "text" or "json"
	LogLevel  string `toml:"log_level"`
	MDNS      bool   `toml:"mdns"`
	Instance  string `toml:"instance"`
}

func defaultConfig() config {
	return config{
		Addr:      ":8080",
		Store:     "memory",
		BoltPath:  "sketches.db",
		LogFormat: "text",
		LogLevel:  "info",
	}
}

// loadConfig reads path over the defaults. A missing file is not an error
// unless required is set.
func loadConfig(path string, required bool) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.validate()
}

func (c config) validate() error {
	switch c.Store {
	case "memory", "bolt":
	default:
		return fmt.Errorf("config: unknown store %q", c.Store)
	}
	if c.Store == "bolt" && c.BoltPath == "" {
		return errors.New("config: bolt store needs bolt_path")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}

// newLogger builds the process logger from the config.
func (c config) newLogger() *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
