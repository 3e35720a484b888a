package model

import (
	"go/token"
	"slices"

	"github.com/vast-data/markergen/codegen/diag"
)

// PayloadMethods are the profiler.Payload methods generated on every payload type.
// No field of the type, skipped or not, may share one of these names.
var PayloadMethods = []string{"MarkerTypeName", "MarkerSchema", "SerializeMarker", "FormatMarker"}

func checkFieldName(typeName, name string, pos token.Position, errs *diag.List) bool {
	if !slices.Contains(PayloadMethods, name) {
		return true
	}
	e := diag.New(diag.ReservedFieldName, "field %s collides with the generated %s method", name, name)
	e.Key = name
	errs.Add(e.At(typeName, name, pos))
	return false
}

// Validate checks m and returns it unchanged, or fails with a diag.List holding every
// violation found in the type.
func Validate(m *Model) (*Model, error) {
	var errs diag.List

	if len(m.Fields) == 0 {
		errs.Add(diag.New(diag.EmptyPayload, "marker payload has no fields").At(m.TypeName, "", m.Pos))
	}

	for _, name := range m.Options.Display {
		if _, ok := Locations[name]; !ok {
			e := diag.New(diag.UnsupportedLocation, "unknown display location %q", name)
			e.Key = name
			errs.Add(e.At(m.TypeName, "", m.Pos))
		}
	}

	seen := make(map[string]string, len(m.Fields))
	for _, f := range m.Fields {
		if first, dup := seen[f.DisplayName]; dup {
			e := diag.New(diag.DuplicateDisplayName,
				"display name %q is already used by field %s", f.DisplayName, first)
			e.Other = first
			e.Key = f.DisplayName
			errs.Add(e.At(m.TypeName, f.Name, f.Pos))
		} else {
			seen[f.DisplayName] = f.Name
		}

		if checkFieldName(m.TypeName, f.Name, f.Pos, &errs) {
			validateField(m.TypeName, f, &errs)
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func validateField(typeName string, f FieldDescriptor, errs *diag.List) {
	if !f.Kind.Valid() {
		e := diag.New(diag.UnsupportedKind, "unsupported kind %q", f.Tag.Kind)
		e.Key = f.Tag.Kind
		e.ValueType = f.Type.Expr
		errs.Add(e.At(typeName, f.Name, f.Pos))
		return
	}

	if !f.Type.Compatible(f.Kind) {
		e := diag.New(diag.KindTypeMismatch, "kind %s cannot represent %s (%s)", f.Kind, f.Type.Expr, f.Type.Class)
		e.Key = f.Kind.String()
		e.ValueType = f.Type.Expr
		errs.Add(e.At(typeName, f.Name, f.Pos))
	}

	switch {
	case !KnownFormat(f.Format):
		e := diag.New(diag.UnsupportedFormat, "unknown display format %q", f.Format)
		e.Key = string(f.Format)
		errs.Add(e.At(typeName, f.Name, f.Pos))
	case !FormatFits(f.Format, f.Kind):
		e := diag.New(diag.UnsupportedFormat, "display format %q does not apply to %s fields", f.Format, f.Kind)
		e.Key = string(f.Format)
		errs.Add(e.At(typeName, f.Name, f.Pos))
	}
}
