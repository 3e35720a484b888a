/*
Package profiler is the runtime half of markergen. It defines the contract that generated
marker payload code implements and the fixed byte layout that payloads are serialized to.

A marker is a structured, named event that the profiler records during execution and later
renders in its analysis UI. Every marker payload type implements Payload:

	type Payload interface {
		MarkerTypeName() string
		MarkerSchema() *Schema
		SerializeMarker(buf *Buffer)
		FormatMarker() string
	}

Implementations are normally produced by `markergen generate` from a struct annotated with
a `// +profiler:marker` comment and per-field `marker:"..."` tags, never written by hand.

# Wire format

Fields are written in declaration order. Every fixed-width value is little-endian:

	integer   8 bytes, two's complement int64
	number    8 bytes, IEEE-754 float64
	boolean   1 byte, 0 or 1
	text      4 byte uint32 length followed by the UTF-8 bytes
	duration  8 bytes, int64 nanoseconds

The layout is identical for every marker type so that tooling can decode a combined stream
with nothing but the schemas. Decode reverses the encoding given a Schema.
*/
package profiler
