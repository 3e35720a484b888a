// Package synth emits the profiler.Payload implementation of a validated marker model:
// the schema variable, SerializeMarker, FormatMarker and the type name and schema
// accessors.
package synth

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"go/token"
	"slices"
	"text/template"

	"github.com/vast-data/markergen/codegen/model"
	"github.com/vast-data/markergen/profiler"
)

const (
	// Header opens every generated file.
	Header = "// Code generated by markergen. DO NOT EDIT."
	// RuntimeImport is the import path of the runtime package generated code calls.
	RuntimeImport = "github.com/vast-data/markergen/profiler"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Unit is the generated code of one payload type.
type Unit struct {
	TypeName string
	Pos      token.Position
	Schema   *profiler.Schema
	// Doc is the type's doc comment, carried into exported manifests.
	Doc string
	// Code holds gofmt'ed declarations without package clause or imports.
	Code []byte
	// Imports lists standard library packages Code needs besides the runtime.
	Imports []string
}

type payloadView struct {
	Type    string
	Recv    string
	Var     string
	Schema  schemaLiteral
	Writes  []string
	Formats []string
}

// Emit generates the payload methods of a validated model. It does not fail for models
// accepted by model.Validate.
func Emit(m *model.Model) (*Unit, error) {
	schema := BuildSchema(m)
	writes, imports := serializeStmts(m)

	view := payloadView{
		Type:    m.TypeName,
		Recv:    receiver,
		Var:     schemaVar(m.TypeName),
		Schema:  newSchemaLiteral(schema),
		Writes:  writes,
		Formats: formatCalls(m),
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "payload.tmpl", view); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", m.TypeName, err)
	}
	code, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated code for %s does not parse: %w", m.TypeName, err)
	}

	slices.Sort(imports)
	return &Unit{
		TypeName: m.TypeName,
		Pos:      m.Pos,
		Schema:   schema,
		Code:     code,
		Imports:  slices.Compact(imports),
	}, nil
}

type fileView struct {
	Header  string
	Package string
	Imports []string
	Runtime string
	Units   []*Unit
}

// RenderFile assembles units, in the given order, into one gofmt'ed Go file of package pkg.
func RenderFile(pkg string, units []*Unit) ([]byte, error) {
	view := fileView{
		Header:  Header,
		Package: pkg,
		Runtime: RuntimeImport,
		Units:   units,
	}
	for _, u := range units {
		view.Imports = append(view.Imports, u.Imports...)
	}
	slices.Sort(view.Imports)
	view.Imports = slices.Compact(view.Imports)

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "file.tmpl", view); err != nil {
		return nil, fmt.Errorf("failed to render file: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated file does not parse: %w", err)
	}
	return src, nil
}
