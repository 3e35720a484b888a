// Package netmarkers shows marker payload types of a small HTTP client instrumented
// for the profiler.
package netmarkers

import "time"

//go:generate go run github.com/vast-data/markergen/cmd/markergen generate

// Status is an HTTP status code.
type Status int

// Latency is a network round trip time.
type Latency time.Duration

// Request is recorded for every outgoing HTTP request.
//
// +profiler:marker=name="NetworkRequest",display={MarkerChart,MarkerTable},tooltipLabel="{marker.data.URL}"
type Request struct {
	URL    string `marker:"name=\"Request URL\",format=url,searchable"`
	Status Status
	Size   int64         `marker:"format=bytes"`
	Wait   time.Duration `marker:"format=milliseconds"`
	Cached bool

	attempt int `marker:"-"`
}

// Timing marks one phase of a request in the timeline overview.
//
// +profiler:marker=display={TimelineOverview},allLabels="{marker.data.Phase}"
type Timing struct {
	Phase   string `marker:"searchable"`
	Elapsed Latency
}

// +profiler:marker=name="Fetch"
type fetch struct {
	url    string `marker:"name=\"URL\""`
	status int
}
