// Package generator drives marker code generation for package directories: it loads the
// annotated types, runs each type through its own pipeline and writes or checks the
// generated file.
package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vast-data/markergen/codegen/diag"
	"github.com/vast-data/markergen/codegen/markerparser"
	"github.com/vast-data/markergen/codegen/model"
	"github.com/vast-data/markergen/codegen/synth"
	"github.com/vast-data/markergen/profiler"
)

// DefaultOutput is the generated file name used when Options.Output is empty.
const DefaultOutput = "markers_gen.go"

// Options configures a Generator.
type Options struct {
	// Output is the base name of the generated file in each package directory.
	Output string
	// Workers bounds the number of types processed at once; GOMAXPROCS when zero.
	Workers int
}

// Generator generates marker payload code for package directories.
type Generator struct {
	log    *zap.Logger
	opts   Options
	parser *markerparser.Parser
}

// New creates a generator. A nil logger discards log output.
func New(log *zap.Logger, opts Options) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Output == "" {
		opts.Output = DefaultOutput
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Generator{
		log:    log,
		opts:   opts,
		parser: markerparser.New(opts.Output),
	}
}

// Result is the generated output of one package directory.
type Result struct {
	Dir     string
	Package string
	// Path is the generated file path.
	Path string
	// Units holds one entry per annotated type, sorted by type name.
	Units []*synth.Unit
	// Source is the generated file; nil when the package has no annotated types.
	Source []byte
}

// Schemas returns the schema of every generated type in type name order.
func (r *Result) Schemas() []*profiler.Schema {
	schemas := make([]*profiler.Schema, 0, len(r.Units))
	for _, u := range r.Units {
		schemas = append(schemas, u.Schema)
	}
	return schemas
}

// Docs maps the marker name of every documented type to its doc comment.
func (r *Result) Docs() map[string]string {
	docs := make(map[string]string, len(r.Units))
	for _, u := range r.Units {
		if u.Doc != "" {
			docs[u.Schema.Name] = u.Doc
		}
	}
	return docs
}

// ProcessType runs the per-type pipeline: tag parsing, model building, validation and
// emission. It shares no state with other calls.
func ProcessType(t markerparser.Type) (*synth.Unit, error) {
	fields, err := model.ParseFields(t.Name, t.Fields)
	if err != nil {
		return nil, err
	}
	m, err := model.Validate(model.Build(t.Name, t.Pos, t.Options, fields))
	if err != nil {
		return nil, err
	}
	unit, err := synth.Emit(m)
	if err != nil {
		return nil, err
	}
	unit.Doc = t.Doc
	return unit, nil
}

// Render loads dir and generates its file in memory. All diagnostics of the package are
// returned joined; no source is produced unless every type succeeds.
func (g *Generator) Render(ctx context.Context, dir string) (*Result, error) {
	log := g.log.With(zap.String("dir", dir))

	pkg, loadErr := g.parser.ParseDir(dir)
	if pkg == nil {
		return nil, loadErr
	}
	log.Debug("Loaded package",
		zap.String("package", pkg.Name),
		zap.Int("types", len(pkg.Types)))

	types := slices.Clone(pkg.Types)
	slices.SortFunc(types, func(a, b markerparser.Type) int { return strings.Compare(a.Name, b.Name) })

	units := make([]*synth.Unit, len(types))
	typeErrs := make([]error, len(types))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Workers)
	for i, t := range types {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			unit, err := ProcessType(t)
			if err != nil {
				log.Debug("Type rejected", zap.String("type", t.Name), zap.Error(err))
				typeErrs[i] = err
				return nil
			}
			log.Debug("Type generated",
				zap.String("type", t.Name),
				zap.Int("fields", len(unit.Schema.Fields)),
				zap.Uint64("schema_id", unit.Schema.ID))
			units[i] = unit
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	errs := append([]error{loadErr}, typeErrs...)
	errs = append(errs, duplicateNames(units))
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	res := &Result{
		Dir:     dir,
		Package: pkg.Name,
		Path:    filepath.Join(dir, g.opts.Output),
		Units:   units,
	}
	if len(units) == 0 {
		return res, nil
	}
	src, err := synth.RenderFile(pkg.Name, units)
	if err != nil {
		return nil, err
	}
	res.Source = src
	return res, nil
}

// duplicateNames reports marker type names claimed by more than one type.
func duplicateNames(units []*synth.Unit) error {
	var errs diag.List
	seen := make(map[string]string, len(units))
	for _, u := range units {
		if u == nil {
			continue
		}
		if first, dup := seen[u.Schema.Name]; dup {
			e := diag.New(diag.InvalidTypeMarker, "marker name %q is already used by type %s", u.Schema.Name, first)
			e.Key = u.Schema.Name
			e.Other = first
			errs.Add(e.At(u.TypeName, "", u.Pos))
			continue
		}
		seen[u.Schema.Name] = u.TypeName
	}
	return errs.Err()
}

// Generate renders dir and writes the generated file. A package without annotated types
// gets no file, and a previously generated one is removed.
func (g *Generator) Generate(ctx context.Context, dir string) (*Result, error) {
	res, err := g.Render(ctx, dir)
	if err != nil {
		return nil, err
	}
	log := g.log.With(zap.String("path", res.Path))

	if res.Source == nil {
		removed, err := removeGenerated(res.Path)
		if err != nil {
			return nil, err
		}
		if removed {
			log.Info("Removed generated file, no annotated types left")
		}
		return res, nil
	}

	current, err := os.ReadFile(res.Path)
	if err == nil && bytes.Equal(current, res.Source) {
		log.Debug("Generated file is up to date")
		return res, nil
	}
	if err := os.WriteFile(res.Path, res.Source, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", res.Path, err)
	}
	log.Info("Wrote generated file", zap.Int("types", len(res.Units)))
	return res, nil
}

// Check renders dir and compares the result with the file on disk. It returns a
// *StaleError when they differ.
func (g *Generator) Check(ctx context.Context, dir string) (*Result, error) {
	res, err := g.Render(ctx, dir)
	if err != nil {
		return nil, err
	}

	current, err := os.ReadFile(res.Path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if res.Source != nil {
			return res, &StaleError{Path: res.Path, Reason: "missing"}
		}
		return res, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", res.Path, err)
	case res.Source == nil:
		if isGenerated(current) {
			return res, &StaleError{Path: res.Path, Reason: "no annotated types left"}
		}
		return res, nil
	case !bytes.Equal(current, res.Source):
		return res, &StaleError{Path: res.Path, Reason: "out of date"}
	}
	return res, nil
}

func isGenerated(src []byte) bool {
	return bytes.HasPrefix(src, []byte(synth.Header))
}

// removeGenerated deletes path if it holds a file written by this generator.
func removeGenerated(path string) (bool, error) {
	current, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !isGenerated(current) {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return true, nil
}
