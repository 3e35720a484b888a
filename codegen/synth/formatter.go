package synth

import (
	"strconv"

	"github.com/vast-data/markergen/codegen/model"
)

// formatCalls returns the Formatter method chain of FormatMarker, one call per field
// labelled with its display name.
func formatCalls(m *model.Model) []string {
	calls := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		a := fieldAccess(f)
		calls = append(calls, a.Method+"("+strconv.Quote(f.DisplayName)+", "+a.Expr+")")
	}
	return calls
}
