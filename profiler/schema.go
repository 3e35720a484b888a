package profiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// Kind is the wire kind of a marker field. The set is closed.
type Kind uint8

const (
	KindInteger Kind = iota + 1
	KindNumber
	KindBoolean
	KindText
	KindDuration
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindText:
		return "text"
	case KindDuration:
		return "duration"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKind returns the kind spelled s ("integer", "number", "boolean", "text", "duration").
func ParseKind(s string) (Kind, bool) {
	for k := KindInteger; k <= KindDuration; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("profiler: invalid kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	v, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("profiler: unknown kind %q", text)
	}
	*k = v
	return nil
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return k >= KindInteger && k <= KindDuration
}

// Format tells the profiler UI how to render a field value.
type Format string

const (
	FormatURL             Format = "url"
	FormatFilePath        Format = "file-path"
	FormatSanitizedString Format = "sanitized-string"
	FormatString          Format = "string"
	FormatUniqueString    Format = "unique-string"
	FormatDuration        Format = "duration"
	FormatTime            Format = "time"
	FormatSeconds         Format = "seconds"
	FormatMilliseconds    Format = "milliseconds"
	FormatMicroseconds    Format = "microseconds"
	FormatNanoseconds     Format = "nanoseconds"
	FormatBytes           Format = "bytes"
	FormatPercentage      Format = "percentage"
	FormatInteger         Format = "integer"
	FormatDecimal         Format = "decimal"
)

// Location is a place in the profiler UI where markers of a type are displayed.
type Location string

const (
	LocationMarkerChart      Location = "marker-chart"
	LocationMarkerTable      Location = "marker-table"
	LocationTimelineOverview Location = "timeline-overview"
	LocationTimelineMemory   Location = "timeline-memory"
	LocationTimelineIPC      Location = "timeline-ipc"
	LocationTimelineFileIO   Location = "timeline-fileio"
	LocationStackChart       Location = "stack-chart"
)

// Field describes one payload field for the profiler UI.
type Field struct {
	// Key is the field identifier in decoded marker data (the Go field name).
	Key string `json:"key"`
	// Label is the display name shown in the UI.
	Label string `json:"label"`
	// Kind selects the wire encoding.
	Kind Kind `json:"kind"`
	// Format selects how the UI renders the value.
	Format Format `json:"format"`
	// Searchable fields are used by the UI's marker search.
	Searchable bool `json:"searchable,omitempty"`
}

// Schema is the descriptor of one marker type. Field order is the serialization order.
type Schema struct {
	Name         string     `json:"name"`
	ID           uint64     `json:"id"`
	Display      []Location `json:"display"`
	ChartLabel   string     `json:"chartLabel,omitempty"`
	TooltipLabel string     `json:"tooltipLabel,omitempty"`
	TableLabel   string     `json:"tableLabel,omitempty"`
	Fields       []Field    `json:"data"`
}

// NewSchema returns a copy of s with its ID computed from the content.
// Generated code builds its package-level schemas with it.
func NewSchema(s Schema) *Schema {
	s.ID = s.ComputeID()
	return &s
}

// ComputeID hashes everything in the schema except the ID itself. Two schemas with the
// same ID describe the same byte layout and presentation.
func (s *Schema) ComputeID() uint64 {
	return xxh3.HashString(s.canonical())
}

func (s *Schema) canonical() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('\n')
	for i, loc := range s.Display {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(loc))
	}
	b.WriteByte('\n')
	b.WriteString(s.ChartLabel)
	b.WriteByte('\n')
	b.WriteString(s.TooltipLabel)
	b.WriteByte('\n')
	b.WriteString(s.TableLabel)
	for _, f := range s.Fields {
		b.WriteByte('\n')
		b.WriteString(strconv.Quote(f.Key))
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(f.Label))
		b.WriteByte(' ')
		b.WriteString(f.Kind.String())
		b.WriteByte(' ')
		b.WriteString(string(f.Format))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatBool(f.Searchable))
	}
	return b.String()
}

// Field returns the field with the given key.
func (s *Schema) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// SearchableKeys returns the keys of all searchable fields in declaration order.
func (s *Schema) SearchableKeys() []string {
	var keys []string
	for _, f := range s.Fields {
		if f.Searchable {
			keys = append(keys, f.Key)
		}
	}
	return keys
}
