package model

import (
	"github.com/vast-data/markergen/profiler"
)

// TypeClass groups Go value types by how they can be encoded.
type TypeClass int

const (
	// ClassOther has no marker encoding: pointers, maps, structs, interfaces, foreign types.
	ClassOther TypeClass = iota
	// ClassSigned is int, int8, int16, int32, int64.
	ClassSigned
	// ClassUnsigned is uint8, uint16, uint32; these fit an int64 losslessly.
	ClassUnsigned
	// ClassUnsigned64 is uint, uint64, uintptr; these do not.
	ClassUnsigned64
	// ClassFloat is float32, float64.
	ClassFloat
	// ClassBool is bool.
	ClassBool
	// ClassString is string.
	ClassString
	// ClassBytes is []byte.
	ClassBytes
	// ClassDuration is time.Duration.
	ClassDuration
)

func (c TypeClass) String() string {
	switch c {
	case ClassSigned:
		return "signed integer"
	case ClassUnsigned:
		return "unsigned integer"
	case ClassUnsigned64:
		return "64-bit unsigned integer"
	case ClassFloat:
		return "float"
	case ClassBool:
		return "bool"
	case ClassString:
		return "string"
	case ClassBytes:
		return "byte slice"
	case ClassDuration:
		return "time.Duration"
	default:
		return "unsupported type"
	}
}

// ValueType is the declared type of a payload field.
type ValueType struct {
	// Expr is the type as written in the declaration, e.g. "int", "StatusCode".
	Expr string
	// Class is the encoding class of the underlying type.
	Class TypeClass
	// Underlying is the builtin spelling of the underlying type ("int32", "[]byte",
	// "time.Duration"); empty for ClassOther.
	Underlying string
	// Named is set for types declared in the payload's own package.
	Named bool
}

// Builtin returns the ValueType of a predeclared or well-known type name.
func Builtin(name string) ValueType {
	vt := ValueType{Expr: name, Underlying: name}
	switch name {
	case "int", "int8", "int16", "int32", "int64", "rune":
		vt.Class = ClassSigned
	case "uint8", "uint16", "uint32", "byte":
		vt.Class = ClassUnsigned
	case "uint", "uint64", "uintptr":
		vt.Class = ClassUnsigned64
	case "float32", "float64":
		vt.Class = ClassFloat
	case "bool":
		vt.Class = ClassBool
	case "string":
		vt.Class = ClassString
	case "[]byte", "[]uint8":
		vt.Class = ClassBytes
		vt.Underlying = "[]byte"
	case "time.Duration":
		vt.Class = ClassDuration
	default:
		vt.Underlying = ""
	}
	return vt
}

// Other returns a ValueType with no encoding.
func Other(expr string) ValueType {
	return ValueType{Expr: expr}
}

// AsNamed returns vt re-declared under a package-local type name.
func (vt ValueType) AsNamed(name string) ValueType {
	vt.Expr = name
	vt.Named = vt.Class != ClassOther
	return vt
}

// DefaultKind returns the kind an untagged field of this type gets.
func (vt ValueType) DefaultKind() (profiler.Kind, bool) {
	switch vt.Class {
	case ClassSigned, ClassUnsigned:
		return profiler.KindInteger, true
	case ClassFloat:
		return profiler.KindNumber, true
	case ClassBool:
		return profiler.KindBoolean, true
	case ClassString:
		return profiler.KindText, true
	case ClassDuration:
		return profiler.KindDuration, true
	default:
		return 0, false
	}
}

// Compatible reports whether kind can represent every value of the type exactly.
func (vt ValueType) Compatible(kind profiler.Kind) bool {
	switch kind {
	case profiler.KindInteger:
		return vt.Class == ClassSigned || vt.Class == ClassUnsigned || vt.Class == ClassDuration
	case profiler.KindNumber:
		return vt.Class == ClassFloat
	case profiler.KindBoolean:
		return vt.Class == ClassBool
	case profiler.KindText:
		return vt.Class == ClassString || vt.Class == ClassBytes
	case profiler.KindDuration:
		return vt.Class == ClassDuration
	default:
		return false
	}
}
