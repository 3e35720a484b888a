// Package config loads the markergen settings from .markergen.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-version"
)

// FileName is the config file looked up in the working directory.
const FileName = ".markergen.toml"

const (
	defaultOutput    = "markers_gen.go"
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
	defaultExport    = "json"
)

// Config holds the generator settings. Zero values are filled in by Validate.
type Config struct {
	// Output is the generated file name inside each package directory.
	Output string `toml:"output"`
	// Workers bounds concurrent type processing. Defaults to GOMAXPROCS.
	Workers int `toml:"workers"`
	// RequiredVersion is a version constraint such as ">= 0.3, < 1.0" the running
	// generator must satisfy, so that every contributor produces identical files.
	RequiredVersion string `toml:"required_version"`

	Log    LogConfig    `toml:"log"`
	Export ExportConfig `toml:"export"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn or error
	Format string `toml:"format"` // console or json
	// File enables rotated file logging in addition to stderr.
	File string `toml:"file"`
}

// ExportConfig configures the export subcommand.
type ExportConfig struct {
	Format string `toml:"format"` // json, msgpack or openapi
	Path   string `toml:"path"`   // "-" or empty writes to stdout
}

// ConfigFunc defines a function that fills in or validates a Config.
type ConfigFunc func(*Config) error

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	// The defaults always validate.
	_ = cfg.Validate(DefaultValidators("")...)
	return cfg
}

// Load reads path into a config. A missing file is not an error when missingOK is set;
// the defaults are returned instead. Unknown keys are rejected.
func Load(path string, missingOK bool) (*Config, error) {
	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case errors.Is(err, os.ErrNotExist) && missingOK:
		return Default(), nil
	case err != nil:
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Find returns the config file of dir or of its closest parent directory, and false when
// there is none.
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Validate applies fns in order and returns the first error.
func (cfg *Config) Validate(fns ...ConfigFunc) error {
	for _, fn := range fns {
		if err := fn(cfg); err != nil {
			return err
		}
	}
	return nil
}

// DefaultValidators returns the defaulting and validation steps for a generator running
// at generatorVersion. An empty generatorVersion skips the version check.
func DefaultValidators(generatorVersion string) []ConfigFunc {
	return []ConfigFunc{
		withOutput(defaultOutput),
		withWorkers(runtime.GOMAXPROCS(0)),
		withLogLevel(defaultLogLevel),
		withLogFormat(defaultLogFormat),
		withExportFormat(defaultExport),
		withRequiredVersion(generatorVersion),
	}
}

// withOutput sets the output file name if none is provided and rejects paths.
func withOutput(defaultName string) ConfigFunc {
	return func(cfg *Config) error {
		if cfg.Output == "" {
			cfg.Output = defaultName
		}
		if filepath.Base(cfg.Output) != cfg.Output || !strings.HasSuffix(cfg.Output, ".go") {
			return fmt.Errorf("output must be a Go file name without directory, got %q", cfg.Output)
		}
		return nil
	}
}

// withWorkers sets the worker count if not explicitly provided.
func withWorkers(workers int) ConfigFunc {
	return func(cfg *Config) error {
		if cfg.Workers < 0 {
			return fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
		}
		if cfg.Workers == 0 {
			cfg.Workers = workers
		}
		return nil
	}
}

func withLogLevel(level string) ConfigFunc {
	return func(cfg *Config) error {
		if cfg.Log.Level == "" {
			cfg.Log.Level = level
		}
		cfg.Log.Level = strings.ToLower(cfg.Log.Level)
		switch cfg.Log.Level {
		case "debug", "info", "warn", "error":
			return nil
		}
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
}

func withLogFormat(format string) ConfigFunc {
	return func(cfg *Config) error {
		if cfg.Log.Format == "" {
			cfg.Log.Format = format
		}
		if cfg.Log.Format != "console" && cfg.Log.Format != "json" {
			return fmt.Errorf("unknown log format %q", cfg.Log.Format)
		}
		return nil
	}
}

// withExportFormat only fills in the default; the exporter validates the name.
func withExportFormat(format string) ConfigFunc {
	return func(cfg *Config) error {
		if cfg.Export.Format == "" {
			cfg.Export.Format = format
		}
		return nil
	}
}

// withRequiredVersion checks the running generator version against the configured
// constraint.
func withRequiredVersion(generatorVersion string) ConfigFunc {
	return func(cfg *Config) error {
		if cfg.RequiredVersion == "" || generatorVersion == "" {
			return nil
		}
		constraints, err := version.NewConstraint(cfg.RequiredVersion)
		if err != nil {
			return fmt.Errorf("invalid required_version %q: %w", cfg.RequiredVersion, err)
		}
		current, err := version.NewVersion(generatorVersion)
		if err != nil {
			return fmt.Errorf("invalid generator version %q: %w", generatorVersion, err)
		}
		if !constraints.Check(current) {
			return &VersionError{Have: current.String(), Want: cfg.RequiredVersion}
		}
		return nil
	}
}

// VersionError reports a generator that does not satisfy required_version.
type VersionError struct {
	Have string
	Want string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("markergen %s does not satisfy required_version %q", e.Have, e.Want)
}

// IsVersionErr reports whether err is a *VersionError.
func IsVersionErr(err error) bool {
	var vErr *VersionError
	return errors.As(err, &vErr)
}
