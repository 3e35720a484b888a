package markers

import (
	"go/ast"
	"go/token"
	"reflect"
)

// ArgumentType represents the type of marker arguments.
type ArgumentType int

const (
	InvalidType ArgumentType = iota
	StringType
	IntType
	BoolType
	// SliceType is written {a,b,c} or a;b;c.
	SliceType
)

func (a ArgumentType) String() string {
	switch a {
	case StringType:
		return "string"
	case IntType:
		return "int"
	case BoolType:
		return "bool"
	case SliceType:
		return "slice"
	default:
		return "invalid"
	}
}

// Argument describes the type of one marker argument.
type Argument struct {
	Type ArgumentType
	// ItemType is the element type of a slice argument.
	ItemType *Argument
	// Field is the name of the struct field the argument is stored in.
	Field string
}

// String spells the argument type as Go would, e.g. "[]string".
func (a Argument) String() string {
	if a.Type == SliceType && a.ItemType != nil {
		return "[]" + a.ItemType.String()
	}
	return a.Type.String()
}

// Definition defines how to parse a specific marker.
type Definition struct {
	// Name is the marker's name, e.g. "profiler:marker".
	Name string
	// OutputType is the struct type the marker arguments are decoded into.
	OutputType reflect.Type
	// Args maps argument names to their types.
	Args        map[string]Argument
	Description string
}

// MarkerValues maps marker names to their parsed values.
type MarkerValues map[string][]any

// Get returns the first value for the given marker name, or nil if not found.
func (v MarkerValues) Get(name string) any {
	vals := v[name]
	if len(vals) == 0 {
		return nil
	}
	return vals[0]
}

// Has returns true if the marker name exists.
func (v MarkerValues) Has(name string) bool {
	_, exists := v[name]
	return exists
}

// TypeInfo contains a type declaration and its markers.
type TypeInfo struct {
	Name    string
	Pos     token.Position
	Markers MarkerValues
	// Fields is nil unless the type is a struct.
	Fields []FieldInfo
	Doc    string
	// Errors holds the registered markers on the type that failed to parse.
	Errors []*ParseError
	// RawSpec is the raw AST type spec.
	RawSpec *ast.TypeSpec
	// RawFile is the raw AST file.
	RawFile *ast.File
}

// IsStruct reports whether the type is declared as a struct.
func (t *TypeInfo) IsStruct() bool {
	_, ok := t.RawSpec.Type.(*ast.StructType)
	return ok
}

// FieldInfo contains a struct field. Fields declared together ("a, b int") produce one
// FieldInfo each.
type FieldInfo struct {
	// Name is empty for embedded fields.
	Name string
	Pos  token.Position
	Tag  reflect.StructTag
	// RawField is the raw AST field.
	RawField *ast.Field
}

// TypeCallback is called for each type found in a file. A non-nil error stops the walk.
type TypeCallback func(*TypeInfo) error
