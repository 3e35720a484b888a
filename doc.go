/*
Package markergen generates profiler marker payload code for annotated Go struct types.

A struct selected with a "+profiler:marker" comment gets a generated implementation of
profiler.Payload: a schema describing its fields to the profiler UI, a serializer writing
the fields in declaration order to a profiler.Buffer, and a human readable formatter.
Each field is described by an optional `marker:"..."` struct tag:

	// +profiler:marker=name="NetworkRequest",tooltipLabel="{marker.data.URL}"
	type request struct {
		url    string        `marker:"name=\"URL\",searchable"`
		status int           `marker:"name=\"Status\""`
		wait   time.Duration `marker:"format=milliseconds"`
	}

The generator lives in the codegen packages and is driven by cmd/markergen, usually from a
go:generate directive. Generated code depends only on the profiler package.
*/
package markergen
