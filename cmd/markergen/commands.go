package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/bndr/gotabulate"
	"github.com/peterbourgon/ff/v3/ffcli"
	"go.uber.org/zap"

	"github.com/vast-data/markergen"
	"github.com/vast-data/markergen/codegen/export"
	"github.com/vast-data/markergen/codegen/generator"
	"github.com/vast-data/markergen/codegen/markerparser"
	"github.com/vast-data/markergen/codegen/markers"
	"github.com/vast-data/markergen/internal/logging"
	"github.com/vast-data/markergen/profiler"
)

func newGenerateCmd(g *globals) *ffcli.Command {
	return &ffcli.Command{
		Name:       "generate",
		ShortUsage: "markergen generate [dir ...]",
		ShortHelp:  "Write the generated marker file of each package directory",
		LongHelp: "Every package directory is processed even when an earlier one fails. " +
			"A directory whose types do not all validate gets no file.",
		Exec: func(ctx context.Context, args []string) error {
			_, gen, err := g.setup()
			if err != nil {
				return err
			}
			failed := false
			for _, dir := range packageDirs(args) {
				if _, err := gen.Generate(ctx, dir); err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					_ = g.report(err)
					failed = true
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
}

func newCheckCmd(g *globals) *ffcli.Command {
	return &ffcli.Command{
		Name:       "check",
		ShortUsage: "markergen check [dir ...]",
		ShortHelp:  "Verify that the generated marker files are up to date",
		Exec: func(ctx context.Context, args []string) error {
			_, gen, err := g.setup()
			if err != nil {
				return err
			}
			failed := false
			for _, dir := range packageDirs(args) {
				if _, err := gen.Check(ctx, dir); err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					_ = g.report(err)
					failed = true
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
}

// collectManifest renders every directory in memory and gathers all schemas and type
// docs into one manifest.
func collectManifest(ctx context.Context, g *globals, gen *generator.Generator, dirs []string) (*export.Manifest, error) {
	var schemas []*profiler.Schema
	docs := make(map[string]string)
	failed := false
	for _, dir := range dirs {
		res, err := gen.Render(ctx, dir)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			_ = g.report(err)
			failed = true
			continue
		}
		schemas = append(schemas, res.Schemas()...)
		maps.Copy(docs, res.Docs())
	}
	if failed {
		return nil, errReported
	}
	manifest := export.NewManifest(markergen.Version(), schemas)
	manifest.SetDocs(docs)
	return manifest, nil
}

func newDescribeCmd(g *globals) *ffcli.Command {
	return &ffcli.Command{
		Name:       "describe",
		ShortUsage: "markergen describe [dir ...]",
		ShortHelp:  "Print the schema of every marker type as a table",
		Exec: func(ctx context.Context, args []string) error {
			_, gen, err := g.setup()
			if err != nil {
				return err
			}
			manifest, err := collectManifest(ctx, g, gen, packageDirs(args))
			if err != nil {
				return err
			}
			fmt.Fprintln(g.stdout, manifest.Describe())
			return nil
		},
	}
}

func newMarkersCmd(g *globals) *ffcli.Command {
	return &ffcli.Command{
		Name:       "markers",
		ShortUsage: "markergen markers",
		ShortHelp:  "List the comment markers markergen reads and their arguments",
		Exec: func(context.Context, []string) error {
			fmt.Fprint(g.stdout, describeMarkers(markerparser.NewRegistry()))
			return nil
		},
	}
}

// describeMarkers renders every registered marker with a grid of its arguments.
func describeMarkers(registry *markers.Registry) string {
	var b strings.Builder
	for i, def := range registry.Definitions() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "+%s: %s\n", def.Name, def.Description)
		names := def.ArgNames()
		if len(names) == 0 {
			continue
		}
		rows := make([][]any, 0, len(names))
		for _, name := range names {
			rows = append(rows, []any{name, def.Args[name].String()})
		}
		t := gotabulate.Create(rows)
		t.SetHeaders([]string{"argument", "type"})
		t.SetAlign("left")
		b.WriteString(t.Render("grid"))
	}
	return b.String()
}

type exportCmd struct {
	g      *globals
	format string
	out    string
	fs     *flag.FlagSet
}

func newExportCmd(g *globals) *ffcli.Command {
	cmd := &exportCmd{g: g}
	fs := flag.NewFlagSet("markergen export", flag.ContinueOnError)
	fs.StringVar(&cmd.format, "format", "", "Manifest format: json, msgpack or openapi (default: json)")
	fs.StringVar(&cmd.out, "o", "", "Output file (default: stdout)")
	cmd.fs = fs
	return &ffcli.Command{
		Name:       "export",
		ShortUsage: "markergen export [-format json|msgpack|openapi] [-o file] [dir ...]",
		ShortHelp:  "Write the schema manifest of all marker types",
		FlagSet:    fs,
		Exec:       cmd.exec,
	}
}

func (cmd *exportCmd) exec(ctx context.Context, args []string) error {
	cfg, gen, err := cmd.g.setup()
	if err != nil {
		return err
	}
	format, path := cfg.Export.Format, cfg.Export.Path
	cmd.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			format = cmd.format
		case "o":
			path = cmd.out
		}
	})
	enc, err := export.ParseEncoding(format)
	if err != nil {
		return err
	}

	manifest, err := collectManifest(ctx, cmd.g, gen, packageDirs(args))
	if err != nil {
		return err
	}

	if path == "" || path == "-" {
		if err := manifest.Write(cmd.g.stdout, enc); err != nil {
			return err
		}
	} else if err := writeFile(path, func(w io.Writer) error { return manifest.Write(w, enc) }); err != nil {
		return err
	}
	logging.Info("Exported manifest",
		zap.String("format", string(enc)),
		zap.Int("schemas", len(manifest.Schemas)))
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
