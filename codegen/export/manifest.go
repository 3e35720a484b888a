// Package export aggregates the schemas of generated marker types into a manifest the
// profiler UI or other tooling can load: JSON, msgpack, or an OpenAPI 3 components
// document describing the decoded payloads.
package export

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vast-data/markergen/profiler"
)

// Encoding selects the manifest output format.
type Encoding string

const (
	EncodingJSON    Encoding = "json"
	EncodingMsgpack Encoding = "msgpack"
	EncodingOpenAPI Encoding = "openapi"
)

// Encodings lists the supported encodings.
var Encodings = []Encoding{EncodingJSON, EncodingMsgpack, EncodingOpenAPI}

// ParseEncoding returns the encoding named s.
func ParseEncoding(s string) (Encoding, error) {
	e := Encoding(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Encodings, e) {
		return "", fmt.Errorf("unknown export format %q (want json, msgpack or openapi)", s)
	}
	return e, nil
}

// Manifest is the registry of all marker schemas of a program.
type Manifest struct {
	// Generator is the markergen version that produced the schemas.
	Generator string             `json:"generator"`
	Schemas   []*profiler.Schema `json:"schemas"`
	// Docs maps marker names to the doc comment of their Go type.
	Docs map[string]string `json:"docs,omitempty"`
}

// NewManifest returns a manifest of schemas sorted by name.
func NewManifest(generator string, schemas []*profiler.Schema) *Manifest {
	sorted := slices.Clone(schemas)
	slices.SortStableFunc(sorted, func(a, b *profiler.Schema) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return &Manifest{Generator: generator, Schemas: sorted}
}

// SetDocs records the doc comments of marker types, keyed by marker name. Empty
// comments are ignored.
func (m *Manifest) SetDocs(docs map[string]string) {
	for name, doc := range docs {
		if doc == "" {
			continue
		}
		if m.Docs == nil {
			m.Docs = make(map[string]string, len(docs))
		}
		m.Docs[name] = doc
	}
}

// Lookup returns the schema of the named marker type.
func (m *Manifest) Lookup(name string) (*profiler.Schema, bool) {
	i, found := slices.BinarySearchFunc(m.Schemas, name, func(s *profiler.Schema, name string) int {
		return strings.Compare(s.Name, name)
	})
	if !found {
		return nil, false
	}
	return m.Schemas[i], true
}

// Write encodes the manifest to w.
func (m *Manifest) Write(w io.Writer, enc Encoding) error {
	switch enc {
	case EncodingJSON:
		return m.WriteJSON(w)
	case EncodingMsgpack:
		return m.WriteMsgpack(w)
	case EncodingOpenAPI:
		return m.WriteOpenAPI(w)
	default:
		return fmt.Errorf("unknown export format %q", enc)
	}
}

// WriteJSON writes the manifest as indented JSON.
func (m *Manifest) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return nil
}

// ReadJSON decodes a manifest written by WriteJSON.
func ReadJSON(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}

// WriteMsgpack writes the manifest as msgpack, using the JSON field names.
func (m *Manifest) WriteMsgpack(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return nil
}

// ReadMsgpack decodes a manifest written by WriteMsgpack.
func ReadMsgpack(r io.Reader) (*Manifest, error) {
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}
