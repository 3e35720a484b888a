package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/vast-data/markergen/profiler"
)

// OpenAPIVersion is the OpenAPI version of the exported document.
const OpenAPIVersion = "3.0.3"

// OpenAPI describes the decoded payload of every marker type as an OpenAPI component
// schema named after the marker type. A documented type's doc comment becomes the
// component description.
func (m *Manifest) OpenAPI() *openapi3.T {
	version := m.Generator
	if version == "" {
		version = "0.0.0"
	}
	doc := &openapi3.T{
		OpenAPI: OpenAPIVersion,
		Info: &openapi3.Info{
			Title:   "Profiler marker payloads",
			Version: version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas, len(m.Schemas)),
		},
	}
	for _, s := range m.Schemas {
		doc.Components.Schemas[componentName(s.Name)] = openapi3.NewSchemaRef("", payloadSchema(s, m.Docs[s.Name]))
	}
	return doc
}

// componentName maps a marker name onto the characters OpenAPI allows in component keys.
func componentName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

func payloadSchema(s *profiler.Schema, doc string) *openapi3.Schema {
	display := make([]string, 0, len(s.Display))
	for _, loc := range s.Display {
		display = append(display, string(loc))
	}
	order := make([]string, 0, len(s.Fields))

	obj := openapi3.NewObjectSchema()
	obj.Title = s.Name
	obj.Description = doc
	obj.Extensions = map[string]any{
		"x-marker-id":      fmt.Sprintf("%016x", s.ID),
		"x-marker-display": display,
	}
	for key, label := range map[string]string{
		"x-chart-label":   s.ChartLabel,
		"x-tooltip-label": s.TooltipLabel,
		"x-table-label":   s.TableLabel,
	} {
		if label != "" {
			obj.Extensions[key] = label
		}
	}

	for _, f := range s.Fields {
		obj.WithProperty(f.Key, fieldSchema(f))
		obj.Required = append(obj.Required, f.Key)
		order = append(order, f.Key)
	}
	obj.Extensions["x-field-order"] = order
	return obj
}

func fieldSchema(f profiler.Field) *openapi3.Schema {
	var schema *openapi3.Schema
	switch f.Kind {
	case profiler.KindInteger:
		schema = openapi3.NewInt64Schema()
	case profiler.KindNumber:
		schema = openapi3.NewFloat64Schema()
	case profiler.KindBoolean:
		schema = openapi3.NewBoolSchema()
	case profiler.KindDuration:
		schema = openapi3.NewInt64Schema()
		schema.Description = "Duration in nanoseconds."
	default:
		schema = openapi3.NewStringSchema()
	}
	schema.Title = f.Label
	schema.Extensions = map[string]any{
		"x-marker-kind":   f.Kind.String(),
		"x-marker-format": string(f.Format),
	}
	if f.Searchable {
		schema.Extensions["x-searchable"] = true
	}
	return schema
}

// WriteOpenAPI writes the OpenAPI document as indented JSON.
func (m *Manifest) WriteOpenAPI(w io.Writer) error {
	data, err := json.MarshalIndent(m.OpenAPI(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write OpenAPI document: %w", err)
	}
	return nil
}
