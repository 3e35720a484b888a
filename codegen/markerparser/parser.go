// Package markerparser loads a Go package directory and returns the struct types selected
// by a `+profiler:marker` comment, with each field's declared type resolved.
package markerparser

import (
	"fmt"
	"go/ast"
	"go/build"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vast-data/markergen/codegen/diag"
	"github.com/vast-data/markergen/codegen/markers"
	"github.com/vast-data/markergen/codegen/model"
	"github.com/vast-data/markergen/codegen/tags"
)

// Type is one annotated struct type.
type Type struct {
	Name    string
	Pos     token.Position
	Doc     string
	Options model.TypeOptions
	Fields  []model.RawField
}

// Package is the result of loading one directory.
type Package struct {
	Name  string
	Dir   string
	Types []Type
}

// Parser finds annotated types in Go source.
type Parser struct {
	collector *markers.Collector
	// skip lists base names of files that are never read, such as the generated output.
	skip []string
}

// New creates a parser that ignores the files named in skip.
func New(skip ...string) *Parser {
	return &Parser{
		collector: markers.NewCollector(NewRegistry()),
		skip:      skip,
	}
}

// ParseDir loads the non-test Go files of dir that match the current build context.
// Marker declaration errors are returned together as a diag.List, alongside the types
// that were loaded.
func (p *Parser) ParseDir(dir string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	var files []*ast.File
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !p.wants(name) {
			continue
		}
		if match, err := build.Default.MatchFile(dir, name); err != nil || !match {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse file %s: %w", name, err)
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no Go files in %s", dir)
	}

	pkg, err := p.load(fset, files)
	if pkg != nil {
		pkg.Dir = dir
	}
	return pkg, err
}

// ParseSource loads a package made of in-memory files keyed by file name.
func (p *Parser) ParseSource(sources map[string]string) (*Package, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	slices.Sort(names)

	fset := token.NewFileSet()
	files := make([]*ast.File, 0, len(names))
	for _, name := range names {
		file, err := parser.ParseFile(fset, name, sources[name], parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse source %s: %w", name, err)
		}
		files = append(files, file)
	}
	return p.load(fset, files)
}

func (p *Parser) wants(name string) bool {
	return filepath.Ext(name) == ".go" &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasPrefix(name, ".") &&
		!slices.Contains(p.skip, name)
}

func (p *Parser) load(fset *token.FileSet, files []*ast.File) (*Package, error) {
	pkg := &Package{Name: files[0].Name.Name}
	res := newResolver()
	for _, file := range files {
		if file.Name.Name != pkg.Name {
			return nil, fmt.Errorf("found packages %s and %s in %s",
				pkg.Name, file.Name.Name, fset.Position(file.Package).Filename)
		}
		res.addFile(file)
	}

	var errs diag.List
	for _, file := range files {
		err := p.collector.EachType(fset, file, func(info *markers.TypeInfo) error {
			for _, perr := range info.Errors {
				e := diag.New(diag.InvalidTypeMarker, "%v", perr.Err)
				e.Key = perr.Marker
				errs.Add(e.At(info.Name, "", perr.Pos))
			}

			if !info.Markers.Has(TypeMarkerName) {
				return nil
			}
			if len(info.Markers[TypeMarkerName]) > 1 {
				errs.Add(diag.New(diag.InvalidTypeMarker, "+%s repeated", TypeMarkerName).At(info.Name, "", info.Pos))
				return nil
			}

			t, ok := p.buildType(info, info.Markers.Get(TypeMarkerName).(TypeMarker), res, &errs)
			if ok {
				pkg.Types = append(pkg.Types, t)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if err := errs.Err(); err != nil {
		return pkg, err
	}
	return pkg, nil
}

func (p *Parser) buildType(info *markers.TypeInfo, marker TypeMarker, res *resolver, errs *diag.List) (Type, bool) {
	switch {
	case info.RawSpec.TypeParams != nil:
		errs.Add(diag.New(diag.InvalidTypeMarker, "generic types cannot be marker payloads").At(info.Name, "", info.Pos))
		return Type{}, false
	case info.RawSpec.Assign.IsValid() || !info.IsStruct():
		errs.Add(diag.New(diag.InvalidTypeMarker, "+%s requires a struct type declaration", TypeMarkerName).At(info.Name, "", info.Pos))
		return Type{}, false
	}

	t := Type{
		Name:    info.Name,
		Pos:     info.Pos,
		Doc:     info.Doc,
		Options: marker.Options(),
		Fields:  make([]model.RawField, 0, len(info.Fields)),
	}
	for _, f := range info.Fields {
		vt := res.resolve(f.RawField.Type, info.RawFile)
		name := f.Name
		if name == "" {
			// Embedded fields are addressed by their type name.
			name = embeddedName(f.RawField.Type)
		}
		if name == "_" {
			continue
		}
		tag, _ := f.Tag.Lookup(tags.Name)
		t.Fields = append(t.Fields, model.RawField{
			Name: name,
			Pos:  f.Pos,
			Type: vt,
			Tag:  tag,
		})
	}
	return t, true
}

func embeddedName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return embeddedName(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.Ident:
		return e.Name
	case *ast.IndexExpr:
		return embeddedName(e.X)
	case *ast.IndexListExpr:
		return embeddedName(e.X)
	default:
		return ""
	}
}
