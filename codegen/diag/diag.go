// Package diag defines the build-time diagnostics reported by the marker generator.
// Every diagnostic is fatal for the type it names: no code is emitted for it.
package diag

import (
	"errors"
	"fmt"
	"go/token"
	"sort"
	"strings"
)

// Code identifies the kind of diagnostic.
type Code int

const (
	// MalformedTag: the field tag does not match the tag grammar.
	MalformedTag Code = iota + 1
	// UnknownTagKey: the field tag uses a key or flag outside the recognized set.
	UnknownTagKey
	// AmbiguousFieldKind: the tag names no kind and the field type has no default.
	AmbiguousFieldKind
	// EmptyPayload: the type has no payload fields.
	EmptyPayload
	// DuplicateDisplayName: two fields resolve to the same display name.
	DuplicateDisplayName
	// KindTypeMismatch: the kind cannot represent the field's value type.
	KindTypeMismatch
	// UnsupportedKind: the kind is outside the closed kind set.
	UnsupportedKind
	// UnsupportedFormat: the display format is unknown or does not fit the kind.
	UnsupportedFormat
	// UnsupportedLocation: the type marker names an unknown display location.
	UnsupportedLocation
	// InvalidTypeMarker: the type marker is malformed or sits on a type it cannot describe.
	InvalidTypeMarker
	// ReservedFieldName: the field shares its name with a generated payload method.
	ReservedFieldName
)

var codeNames = map[Code]string{
	MalformedTag:         "MalformedTag",
	UnknownTagKey:        "UnknownTagKey",
	AmbiguousFieldKind:   "AmbiguousFieldKind",
	EmptyPayload:         "EmptyPayload",
	DuplicateDisplayName: "DuplicateDisplayName",
	KindTypeMismatch:     "KindTypeMismatch",
	UnsupportedKind:      "UnsupportedKind",
	UnsupportedFormat:    "UnsupportedFormat",
	UnsupportedLocation:  "UnsupportedLocation",
	InvalidTypeMarker:    "InvalidTypeMarker",
	ReservedFieldName:    "ReservedFieldName",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is a single diagnostic. Which of the optional fields are set depends on Code.
type Error struct {
	Code Code
	// Pos is the source position of the field, or of the type for type-level errors.
	Pos token.Position
	// Type is the Go type name.
	Type string
	// Field is the Go field name; empty for type-level errors.
	Field string
	// Other is the second field of a DuplicateDisplayName.
	Other string
	// Offset is the byte offset inside the tag for MalformedTag and UnknownTagKey, -1 otherwise.
	Offset int
	// Key is the offending tag key, kind, format or location.
	Key string
	// ValueType is the field's declared Go type.
	ValueType string
	// Msg is the human-readable detail.
	Msg string
}

func (e *Error) subject() string {
	switch {
	case e.Type != "" && e.Field != "":
		return e.Type + "." + e.Field
	case e.Type != "":
		return e.Type
	default:
		return e.Field
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	if s := e.subject(); s != "" {
		b.WriteString(s)
		b.WriteString(": ")
	}
	b.WriteString(e.Code.String())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Offset >= 0 && (e.Code == MalformedTag || e.Code == UnknownTagKey) {
		fmt.Fprintf(&b, " (tag offset %d)", e.Offset)
	}
	return b.String()
}

// New returns a diagnostic with no tag offset.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Offset: -1, Msg: fmt.Sprintf(format, args...)}
}

// At fills in the location of a diagnostic produced without one and returns it.
func (e *Error) At(typeName, field string, pos token.Position) *Error {
	if e.Type == "" {
		e.Type = typeName
	}
	if e.Field == "" {
		e.Field = field
	}
	if !e.Pos.IsValid() {
		e.Pos = pos
	}
	return e
}

// List collects diagnostics. Its error form reports every entry, one per line.
type List []*Error

// Add appends e to the list.
func (l *List) Add(e *Error) {
	*l = append(*l, e)
}

// Len, Less and Swap order diagnostics by position, then code.
func (l List) Len() int      { return len(l) }
func (l List) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l List) Less(i, j int) bool {
	a, b := l[i].Pos, l[j].Pos
	if a.Filename != b.Filename {
		return a.Filename < b.Filename
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	if a.Column != b.Column {
		return a.Column < b.Column
	}
	if l[i].Field != l[j].Field {
		return l[i].Field < l[j].Field
	}
	return l[i].Code < l[j].Code
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	lines := make([]string, len(l))
	for i, e := range l {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// Err returns nil for an empty list, otherwise the sorted list as an error.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	sort.Stable(l)
	return l
}

// All flattens err into its diagnostics, following wrapped and joined errors.
func All(err error) []*Error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *Error:
		return []*Error{e}
	case List:
		return append([]*Error(nil), e...)
	case interface{ Unwrap() []error }:
		var out []*Error
		for _, inner := range e.Unwrap() {
			out = append(out, All(inner)...)
		}
		return out
	}
	return All(errors.Unwrap(err))
}

// Has reports whether err contains a diagnostic with the given code.
func Has(err error, code Code) bool {
	for _, e := range All(err) {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Codes returns the codes of all diagnostics in err, in order.
func Codes(err error) []Code {
	all := All(err)
	codes := make([]Code, len(all))
	for i, e := range all {
		codes[i] = e.Code
	}
	return codes
}
