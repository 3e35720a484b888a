package synth

import (
	"github.com/vast-data/markergen/codegen/model"
)

// serializeStmts returns the body of SerializeMarker: one Buffer write per field in
// declaration order.
func serializeStmts(m *model.Model) ([]string, []string) {
	stmts := make([]string, 0, len(m.Fields))
	var imports []string
	for _, f := range m.Fields {
		a := fieldAccess(f)
		stmts = append(stmts, "buf.Write"+a.Method+"("+a.Expr+")")
		if a.Import != "" {
			imports = append(imports, a.Import)
		}
	}
	return stmts, imports
}
