// Package model holds the build-time field model of a marker payload type: tag
// resolution, model construction and validation. Nothing here survives into the
// generated program.
package model

import (
	"errors"
	"go/token"

	"github.com/vast-data/markergen/codegen/diag"
	"github.com/vast-data/markergen/codegen/tags"
	"github.com/vast-data/markergen/profiler"
)

// TypeOptions are the type-level settings from the `+profiler:marker` comment.
type TypeOptions struct {
	// Name is the marker type name; the Go type name when empty.
	Name string
	// Display lists location names (see Locations); DefaultDisplay when empty.
	Display      []string
	ChartLabel   string
	TooltipLabel string
	TableLabel   string
}

// RawField is a struct field as found in the source, before its tag is parsed.
type RawField struct {
	Name string
	Pos  token.Position
	Type ValueType
	// Tag is the value of the `marker` struct tag.
	Tag string
}

// Field is a struct field whose tag has been parsed and whose kind is known by name.
type Field struct {
	Name string
	Pos  token.Position
	Type ValueType
	Tag  tags.FieldTag
}

// FieldDescriptor is one payload field of the model.
type FieldDescriptor struct {
	Name string
	Pos  token.Position
	Type ValueType
	Tag  tags.FieldTag
	// Kind is zero when Tag.Kind is outside the supported set.
	Kind        profiler.Kind
	DisplayName string
	Format      profiler.Format
}

// Model is the ordered field model of one payload type.
type Model struct {
	TypeName string
	Pos      token.Position
	Options  TypeOptions
	Fields   []FieldDescriptor
}

// MarkerName returns the marker type name registered with the profiler.
func (m *Model) MarkerName() string {
	if m.Options.Name != "" {
		return m.Options.Name
	}
	return m.TypeName
}

// Display returns the configured location names, or the defaults.
func (m *Model) Display() []string {
	if len(m.Options.Display) > 0 {
		return m.Options.Display
	}
	return DefaultDisplay
}

// ParseFields parses every field tag of a type and fills in the default kind of fields
// whose tag names none. It reports all tag errors of the type, not just the first.
func ParseFields(typeName string, raw []RawField) ([]Field, error) {
	var errs diag.List
	fields := make([]Field, 0, len(raw))
	for _, rf := range raw {
		if !checkFieldName(typeName, rf.Name, rf.Pos, &errs) {
			continue
		}
		tag, err := tags.Parse(rf.Tag)
		if err != nil {
			var de *diag.Error
			if !errors.As(err, &de) {
				de = diag.New(diag.MalformedTag, "%v", err)
			}
			errs.Add(de.At(typeName, rf.Name, rf.Pos))
			continue
		}
		if tag.Skip {
			continue
		}
		if tag.Kind == "" {
			kind, ok := rf.Type.DefaultKind()
			if !ok {
				e := diag.New(diag.AmbiguousFieldKind,
					"%s has no default marker kind; name one in the %q tag", rf.Type.Expr, tags.Name)
				e.ValueType = rf.Type.Expr
				errs.Add(e.At(typeName, rf.Name, rf.Pos))
				continue
			}
			tag.Kind = kind.String()
		}
		fields = append(fields, Field{Name: rf.Name, Pos: rf.Pos, Type: rf.Type, Tag: tag})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

// Build assembles the model of a type from its parsed fields, keeping declaration order.
func Build(typeName string, pos token.Position, opts TypeOptions, fields []Field) *Model {
	m := &Model{
		TypeName: typeName,
		Pos:      pos,
		Options:  opts,
		Fields:   make([]FieldDescriptor, 0, len(fields)),
	}
	for _, f := range fields {
		kind, _ := profiler.ParseKind(f.Tag.Kind)
		d := FieldDescriptor{
			Name:        f.Name,
			Pos:         f.Pos,
			Type:        f.Type,
			Tag:         f.Tag,
			Kind:        kind,
			DisplayName: f.Name,
			Format:      DefaultFormat(kind),
		}
		if f.Tag.DisplayName != nil {
			d.DisplayName = *f.Tag.DisplayName
		}
		if f.Tag.Format != nil {
			d.Format = profiler.Format(*f.Tag.Format)
		}
		m.Fields = append(m.Fields, d)
	}
	return m
}
