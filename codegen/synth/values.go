package synth

import (
	"github.com/vast-data/markergen/codegen/model"
	"github.com/vast-data/markergen/profiler"
)

// receiver is the receiver name of the generated value methods.
const receiver = "m"

// access describes how generated code hands one field to the runtime.
type access struct {
	// Method is the suffix shared by the Buffer writer and the Formatter method:
	// "Integer" selects Buffer.WriteInteger and Formatter.Integer.
	Method string
	// Expr is the field value converted to the method's parameter type.
	Expr string
	// Import is an extra package the expression needs.
	Import string
}

// fieldAccess returns the access of a validated field.
func fieldAccess(f model.FieldDescriptor) access {
	sel := receiver + "." + f.Name
	vt := f.Type

	switch f.Kind {
	case profiler.KindInteger:
		return access{Method: "Integer", Expr: convert(vt, "int64", sel)}
	case profiler.KindNumber:
		return access{Method: "Number", Expr: convert(vt, "float64", sel)}
	case profiler.KindBoolean:
		return access{Method: "Boolean", Expr: convert(vt, "bool", sel)}
	case profiler.KindText:
		if vt.Class == model.ClassBytes {
			return access{Method: "TextBytes", Expr: convert(vt, "[]byte", sel)}
		}
		return access{Method: "Text", Expr: convert(vt, "string", sel)}
	case profiler.KindDuration:
		a := access{Method: "Duration", Expr: convert(vt, "time.Duration", sel)}
		if vt.Named {
			a.Import = "time"
		}
		return a
	default:
		panic("synth: field " + f.Name + " has unsupported kind " + f.Kind.String())
	}
}

// convert wraps sel in a conversion to target unless the field is already of that type.
func convert(vt model.ValueType, target, sel string) string {
	if !vt.Named && vt.Underlying == target {
		return sel
	}
	return target + "(" + sel + ")"
}
