package generator

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vast-data/markergen/codegen/diag"
	"github.com/vast-data/markergen/codegen/markerparser"
	"github.com/vast-data/markergen/codegen/model"
	"github.com/vast-data/markergen/codegen/synth"
	"github.com/vast-data/markergen/profiler"
)

const fetchSource = `package net

import "time"

// +profiler:marker=name="Fetch"
type fetch struct {
	url    string ` + "`marker:\"name=\\\"URL\\\"\"`" + `
	status int
}

// +profiler:marker
type Timing struct {
	Phase   string ` + "`marker:\"searchable\"`" + `
	Elapsed time.Duration
}
`

func writePackage(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func newTestGenerator(t *testing.T) *Generator {
	return New(zaptest.NewLogger(t), Options{Workers: 2})
}

func TestGenerate(t *testing.T) {
	dir := writePackage(t, map[string]string{"net.go": fetchSource})
	g := newTestGenerator(t)

	res, err := g.Generate(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "net", res.Package)
	assert.Equal(t, filepath.Join(dir, DefaultOutput), res.Path)

	require.Len(t, res.Units, 2)
	assert.Equal(t, "Timing", res.Units[0].TypeName)
	assert.Equal(t, "fetch", res.Units[1].TypeName)

	schemas := res.Schemas()
	assert.Equal(t, "Timing", schemas[0].Name)
	assert.Equal(t, "Fetch", schemas[1].Name)
	assert.Equal(t, []string{"Phase"}, schemas[0].SearchableKeys())

	written, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, res.Source, written)
	assert.True(t, strings.HasPrefix(string(written), synth.Header))
	assert.Less(t, strings.Index(string(written), "func (Timing)"), strings.Index(string(written), "func (fetch)"))

	// The generated file is skipped on the next run and the output is identical.
	again, err := g.Generate(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, res.Source, again.Source)

	_, err = g.Check(context.Background(), dir)
	assert.NoError(t, err)
}

func TestRender_Deterministic(t *testing.T) {
	dir := writePackage(t, map[string]string{"net.go": fetchSource})

	first, err := New(nil, Options{Workers: 1}).Render(context.Background(), dir)
	require.NoError(t, err)
	for range 3 {
		next, err := New(nil, Options{Workers: 8}).Render(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, first.Source, next.Source)
	}
}

func TestRender_CollectsAllTypes(t *testing.T) {
	dir := writePackage(t, map[string]string{
		"bad.go": `package bad

// +profiler:marker
type empty struct{}

// +profiler:marker
type mismatch struct {
	url string ` + "`marker:\"boolean\"`" + `
	a   string ` + "`marker:\"name=x\"`" + `
	b   string ` + "`marker:\"name=x\"`" + `
}

// +profiler:marker
type ambiguous struct {
	n uint64
}

// +profiler:marker=display=Nowhere
type good struct {
	ok bool
}

// +profiler:marker
type notStruct int
`,
	})
	g := newTestGenerator(t)

	res, err := g.Generate(context.Background(), dir)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ElementsMatch(t, []diag.Code{
		diag.EmptyPayload,
		diag.KindTypeMismatch,
		diag.DuplicateDisplayName,
		diag.AmbiguousFieldKind,
		diag.UnsupportedLocation,
		diag.InvalidTypeMarker,
	}, diag.Codes(err))

	_, statErr := os.Stat(filepath.Join(dir, DefaultOutput))
	assert.True(t, os.IsNotExist(statErr), "no file is written when a type fails")
}

func TestRender_DuplicateMarkerNames(t *testing.T) {
	dir := writePackage(t, map[string]string{
		"dup.go": `package dup

// +profiler:marker=name=Same
type a struct{ v int }

// +profiler:marker=name=Same
type b struct{ v int }
`,
	})
	_, err := newTestGenerator(t).Render(context.Background(), dir)
	require.Error(t, err)

	all := diag.All(err)
	require.Len(t, all, 1)
	assert.Equal(t, diag.InvalidTypeMarker, all[0].Code)
	assert.Equal(t, "b", all[0].Type)
	assert.Equal(t, "a", all[0].Other)
}

func TestRender_CaseDistinctTypeNames(t *testing.T) {
	dir := writePackage(t, map[string]string{
		"fetch.go": `package fetch

// +profiler:marker=name=Lower
type fetch struct{ v int }

// +profiler:marker=name=Upper
type Fetch struct{ v int }
`,
	})
	res, err := newTestGenerator(t).Render(context.Background(), dir)
	require.NoError(t, err)

	file, err := parser.ParseFile(token.NewFileSet(), DefaultOutput, res.Source, 0)
	require.NoError(t, err)

	vars := make(map[string]int)
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			for _, name := range spec.(*ast.ValueSpec).Names {
				if name.Name != "_" {
					vars[name.Name]++
				}
			}
		}
	}
	assert.Equal(t, map[string]int{"markerSchemaFetch": 1, "markerSchema_fetch": 1}, vars)
	assert.Contains(t, string(res.Source), "func (fetch) MarkerSchema() *profiler.Schema {\n\treturn markerSchema_fetch\n}")
	assert.Contains(t, string(res.Source), "func (Fetch) MarkerSchema() *profiler.Schema {\n\treturn markerSchemaFetch\n}")
}

func TestRender_FieldNamedLikeMethod(t *testing.T) {
	dir := writePackage(t, map[string]string{
		"fmt.go": `package fm

// +profiler:marker
type Event struct {
	FormatMarker string
	Count        int
}
`,
	})
	_, err := newTestGenerator(t).Render(context.Background(), dir)
	require.Error(t, err)
	assert.Equal(t, []diag.Code{diag.ReservedFieldName}, diag.Codes(err))
	assert.Equal(t, "FormatMarker", diag.All(err)[0].Field)
}

func TestGenerate_NoTypes(t *testing.T) {
	dir := writePackage(t, map[string]string{
		"plain.go":     "package plain\n\ntype x struct{ a int }\n",
		DefaultOutput: synth.Header + "\n\npackage plain\n",
	})
	g := newTestGenerator(t)

	_, err := g.Check(context.Background(), dir)
	assert.True(t, IsStaleErr(err))

	res, err := g.Generate(context.Background(), dir)
	require.NoError(t, err)
	assert.Nil(t, res.Source)
	assert.Empty(t, res.Units)

	_, statErr := os.Stat(filepath.Join(dir, DefaultOutput))
	assert.True(t, os.IsNotExist(statErr))

	_, err = g.Check(context.Background(), dir)
	assert.NoError(t, err)
}

func TestGenerate_KeepsForeignFile(t *testing.T) {
	dir := writePackage(t, map[string]string{
		"plain.go":     "package plain\n",
		DefaultOutput: "package plain\n\n// hand written\n",
	})
	_, err := newTestGenerator(t).Generate(context.Background(), dir)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, DefaultOutput))
	assert.NoError(t, statErr)
}

func TestCheck_Stale(t *testing.T) {
	dir := writePackage(t, map[string]string{"net.go": fetchSource})
	g := newTestGenerator(t)

	_, err := g.Check(context.Background(), dir)
	require.Error(t, err)
	var stale *StaleError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, "missing", stale.Reason)

	res, err := g.Generate(context.Background(), dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(res.Path, append(res.Source, '\n'), 0o644))
	_, err = g.Check(context.Background(), dir)
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, "out of date", stale.Reason)
	assert.Contains(t, err.Error(), res.Path)
}

func TestOptions_Output(t *testing.T) {
	dir := writePackage(t, map[string]string{"net.go": fetchSource})
	g := New(nil, Options{Output: "zz_markers.go"})

	res, err := g.Generate(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "zz_markers.go"), res.Path)

	// The custom output is not read back as input.
	_, err = g.Generate(context.Background(), dir)
	require.NoError(t, err)
}

func TestRender_Canceled(t *testing.T) {
	dir := writePackage(t, map[string]string{"net.go": fetchSource})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestGenerator(t).Render(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessType_EmptyPayload(t *testing.T) {
	unit, err := ProcessType(markerparser.Type{Name: "Empty"})
	assert.Nil(t, unit)
	assert.Equal(t, []diag.Code{diag.EmptyPayload}, diag.Codes(err))
}

func TestProcessType_EndToEnd(t *testing.T) {
	unit, err := ProcessType(markerparser.Type{
		Name:    "fetch",
		Doc:     "fetch records one HTTP request.",
		Options: model.TypeOptions{Name: "Fetch"},
		Fields: []model.RawField{
			{Name: "url", Type: model.Builtin("string"), Tag: `name="URL"`},
			{Name: "status", Type: model.Builtin("int")},
		},
	})
	require.NoError(t, err)
	require.Len(t, unit.Schema.Fields, 2)
	assert.Equal(t, "URL", unit.Schema.Fields[0].Label)
	assert.Equal(t, "status", unit.Schema.Fields[1].Label)
	assert.Contains(t, string(unit.Code), "buf.WriteText(m.url)\n\tbuf.WriteInteger(int64(m.status))")
	assert.Equal(t, "fetch records one HTTP request.", unit.Doc)

	res := &Result{Units: []*synth.Unit{unit, {Schema: &profiler.Schema{Name: "Bare"}}}}
	assert.Equal(t, map[string]string{"Fetch": "fetch records one HTTP request."}, res.Docs())
}
