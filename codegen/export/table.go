package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bndr/gotabulate"

	"github.com/vast-data/markergen/profiler"
)

var fieldHeaders = []string{"key", "label", "kind", "format", "searchable"}

// Table renders a schema as a grid of its fields in serialization order, preceded by a
// summary line with the marker name, ID and display locations.
func Table(s *profiler.Schema) string {
	display := make([]string, 0, len(s.Display))
	for _, loc := range s.Display {
		display = append(display, string(loc))
	}
	title := fmt.Sprintf("%s (id %016x, display %s)", s.Name, s.ID, strings.Join(display, ","))

	if len(s.Fields) == 0 {
		return title + ":\n<no fields>\n"
	}
	rows := make([][]any, 0, len(s.Fields))
	for _, f := range s.Fields {
		rows = append(rows, []any{f.Key, f.Label, f.Kind.String(), string(f.Format), strconv.FormatBool(f.Searchable)})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(fieldHeaders)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(60)
	return fmt.Sprintf("%s:\n%s", title, t.Render("grid"))
}

// Describe renders Table for every schema of the manifest, separated by blank lines.
func (m *Manifest) Describe() string {
	tables := make([]string, 0, len(m.Schemas))
	for _, s := range m.Schemas {
		tables = append(tables, Table(s))
	}
	return strings.Join(tables, "\n")
}
