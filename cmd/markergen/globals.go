package main

import (
	"flag"
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/vast-data/markergen"
	"github.com/vast-data/markergen/codegen/diag"
	"github.com/vast-data/markergen/codegen/generator"
	"github.com/vast-data/markergen/internal/config"
	"github.com/vast-data/markergen/internal/logging"
)

// globals holds the root flags shared by all subcommands.
type globals struct {
	stdout, stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string
	logFile    string
	output     string
	workers    int

	fs   *flag.FlagSet
	logs *logging.Service
}

func (g *globals) register(fs *flag.FlagSet) {
	g.fs = fs
	fs.StringVar(&g.configPath, "config", "", "Config file (default: "+config.FileName+" in the working directory or a parent)")
	fs.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	fs.StringVar(&g.logFormat, "log-format", "", "Log format: console or json")
	fs.StringVar(&g.logFile, "log-file", "", "Also write JSON logs to this file, rotated by size")
	fs.StringVar(&g.output, "output", "", "Generated file name in each package directory")
	fs.IntVar(&g.workers, "workers", 0, "Types processed concurrently (default: GOMAXPROCS)")
}

// loadConfig reads the config file and applies the flags that were set on the command
// line or through MARKERGEN_* environment variables on top of it.
func (g *globals) loadConfig() (*config.Config, error) {
	path, missingOK := g.configPath, false
	if path == "" {
		found, ok := config.Find(".")
		if !ok {
			found = config.FileName
		}
		path, missingOK = found, true
	}
	cfg, err := config.Load(path, missingOK)
	if err != nil {
		return nil, err
	}

	g.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.Log.Level = g.logLevel
		case "log-format":
			cfg.Log.Format = g.logFormat
		case "log-file":
			cfg.Log.File = g.logFile
		case "output":
			cfg.Output = g.output
		case "workers":
			cfg.Workers = g.workers
		}
	})
	if err := cfg.Validate(config.DefaultValidators(markergen.Version())...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads the configuration, starts logging and returns a generator.
func (g *globals) setup() (*config.Config, *generator.Generator, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logs, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Console: g.stderr,
	})
	if err != nil {
		return nil, nil, err
	}
	g.logs = logs
	logging.SetGlobal(logs.Logger())
	logging.Debug("Configuration loaded",
		zap.String("version", markergen.Version()),
		zap.String("output", cfg.Output),
		zap.Int("workers", cfg.Workers))

	gen := generator.New(logs.Logger(), generator.Options{Output: cfg.Output, Workers: cfg.Workers})
	return cfg, gen, nil
}

// report prints the diagnostics in err to stderr, one per line in position order, and
// returns errReported. Errors without diagnostics are printed as they are.
func (g *globals) report(err error) error {
	all := diag.All(err)
	if len(all) == 0 {
		fmt.Fprintln(g.stderr, err)
		return errReported
	}
	sort.Stable(diag.List(all))
	for _, e := range all {
		fmt.Fprintln(g.stderr, e)
	}
	return errReported
}

// packageDirs returns the directories named on the command line, or the working
// directory.
func packageDirs(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
