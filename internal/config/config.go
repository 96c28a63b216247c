// Package config loads leapgraph settings.
//
// Values are layered with koanf, lowest to highest precedence:
// built-in defaults, the YAML config file, LEAPGRAPH_* environment
// variables, and flags that were explicitly set on the command line.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapgraph/internal/render"
)

// Config file names searched in the working directory.
const (
	FileName    = "leapgraph.yaml"
	FileNameAlt = "leapgraph.yml"
)

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "LEAPGRAPH_"

// Default values.
const (
	DefaultOutput   = render.DefaultOutput
	DefaultFormat   = string(render.FormatDOT)
	DefaultWorkers  = 4
	DefaultLogLevel = "warn"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings for a run.
type Config struct {
	Catalog   string `koanf:"catalog"`
	ModelsDir string `koanf:"models_dir"`
	Output    string `koanf:"output"`
	Format    string `koanf:"format"`
	Workers   int    `koanf:"workers"`
	Verbose   bool   `koanf:"verbose"`
	LogLevel  string `koanf:"log_level"`
	Watch     bool   `koanf:"watch"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Output:   DefaultOutput,
		Format:   DefaultFormat,
		Workers:  DefaultWorkers,
		LogLevel: DefaultLogLevel,
	}
}

// Validate checks field values. Missing catalog or models directory is not
// a validation error: positional arguments may still supply them.
func (c *Config) Validate() error {
	if _, err := render.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalid, c.Workers)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output must not be empty", ErrInvalid)
	}
	return nil
}

// RenderFormat returns the parsed output format.
func (c *Config) RenderFormat() render.Format {
	f, err := render.ParseFormat(c.Format)
	if err != nil {
		return render.FormatDOT
	}
	return f
}

// ParseLevel parses a log level name. The empty string selects warn.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
	}
	return level, nil
}

// Level returns the effective log level. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}

type loggerKey struct{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from ctx.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}

type configKey struct{}

// WithConfig returns a copy of ctx carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from ctx, or defaults if none is set.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*Config); ok {
			return c
		}
	}
	return Default()
}
