package markerparser

import (
	"github.com/vast-data/markergen/codegen/markers"
	"github.com/vast-data/markergen/codegen/model"
)

// TypeMarkerName selects a struct type for generation.
const TypeMarkerName = "profiler:marker"

// TypeMarker holds the arguments of a `+profiler:marker` comment.
//
//	// +profiler:marker=name="NetworkRequest",display={MarkerChart,MarkerTable},tooltipLabel="{marker.data.URL}"
type TypeMarker struct {
	Name         string
	Display      []string
	ChartLabel   string
	TooltipLabel string
	TableLabel   string
	// AllLabels sets every label left empty.
	AllLabels string
}

// Options converts the marker arguments into model type options.
func (m TypeMarker) Options() model.TypeOptions {
	opts := model.TypeOptions{
		Name:         m.Name,
		Display:      m.Display,
		ChartLabel:   m.ChartLabel,
		TooltipLabel: m.TooltipLabel,
		TableLabel:   m.TableLabel,
	}
	for _, label := range []*string{&opts.ChartLabel, &opts.TooltipLabel, &opts.TableLabel} {
		if *label == "" {
			*label = m.AllLabels
		}
	}
	return opts
}

// RegisterMarkers registers the markers read by the parser.
func RegisterMarkers(registry *markers.Registry) error {
	return registry.Register(TypeMarkerName, TypeMarker{},
		"Generates the profiler marker payload methods for this struct type")
}

// MustRegisterMarkers is like RegisterMarkers but panics on error.
func MustRegisterMarkers(registry *markers.Registry) {
	if err := RegisterMarkers(registry); err != nil {
		panic(err)
	}
}

// NewRegistry returns a registry holding the markers read by the parser.
func NewRegistry() *markers.Registry {
	registry := markers.NewRegistry()
	MustRegisterMarkers(registry)
	return registry
}
