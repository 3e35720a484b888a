/*
Package markers parses "marker comments" from Go source code, in the style of
controller-tools.

Marker comments start with `// +` and attach metadata to the type declaration they
document. Markers in other comments are not read:

	// +profiler:marker=name="NetworkRequest",display={MarkerChart,MarkerTable}
	type networkRequest struct { ... }

# Basic Usage

	registry := markers.NewRegistry()
	registry.MustRegister("profiler:marker", TypeMarker{}, "...")

	collector := markers.NewCollector(registry)
	err := collector.EachType(fset, file, func(t *markers.TypeInfo) error { ... })

# Marker Syntax

	// +prefix:name
	// +prefix:name=key=value,key2="quoted, value"
	// +prefix:name=items={a,b,c}

Arguments decode into the exported fields of the registered struct. Supported field
types are string, signed integers, bool and slices of those. Slices are written
{a,b,c} or a;b;c.
*/
package markers
