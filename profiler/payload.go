package profiler

// Payload is implemented by every generated marker payload type.
type Payload interface {
	// MarkerTypeName returns the marker type name registered with the profiler.
	MarkerTypeName() string
	// MarkerSchema returns the schema descriptor shared by all values of the type.
	MarkerSchema() *Schema
	// SerializeMarker appends the payload to buf in schema field order.
	SerializeMarker(buf *Buffer)
	// FormatMarker renders the payload for logs and debugging.
	FormatMarker() string
}

// Serialize returns the serialized form of a single payload.
func Serialize(p Payload) []byte {
	buf := NewBuffer(64)
	p.SerializeMarker(buf)
	return buf.Bytes()
}
