package model

import (
	"slices"

	"github.com/vast-data/markergen/profiler"
)

var defaultFormats = map[profiler.Kind]profiler.Format{
	profiler.KindInteger:  profiler.FormatInteger,
	profiler.KindNumber:   profiler.FormatDecimal,
	profiler.KindBoolean:  profiler.FormatString,
	profiler.KindText:     profiler.FormatString,
	profiler.KindDuration: profiler.FormatDuration,
}

var numeric = []profiler.Kind{profiler.KindInteger, profiler.KindNumber, profiler.KindDuration}

// formatKinds lists, per display format, the kinds whose values the UI can render with it.
var formatKinds = map[profiler.Format][]profiler.Kind{
	profiler.FormatURL:             {profiler.KindText},
	profiler.FormatFilePath:        {profiler.KindText},
	profiler.FormatSanitizedString: {profiler.KindText},
	profiler.FormatString:          {profiler.KindText, profiler.KindBoolean},
	profiler.FormatUniqueString:    {profiler.KindText},
	profiler.FormatDuration:        numeric,
	profiler.FormatTime:            numeric,
	profiler.FormatSeconds:         numeric,
	profiler.FormatMilliseconds:    numeric,
	profiler.FormatMicroseconds:    numeric,
	profiler.FormatNanoseconds:     numeric,
	profiler.FormatBytes:           {profiler.KindInteger, profiler.KindNumber},
	profiler.FormatPercentage:      {profiler.KindNumber},
	profiler.FormatInteger:         {profiler.KindInteger},
	profiler.FormatDecimal:         {profiler.KindInteger, profiler.KindNumber},
}

// DefaultFormat returns the display format used when a field's tag sets none.
func DefaultFormat(kind profiler.Kind) profiler.Format {
	return defaultFormats[kind]
}

// KnownFormat reports whether f is a display format of the profiler UI.
func KnownFormat(f profiler.Format) bool {
	_, ok := formatKinds[f]
	return ok
}

// FormatFits reports whether the UI can render values of kind with format f.
func FormatFits(f profiler.Format, kind profiler.Kind) bool {
	return slices.Contains(formatKinds[f], kind)
}

// Locations maps the names accepted in the type marker to profiler locations.
var Locations = map[string]profiler.Location{
	"MarkerChart":      profiler.LocationMarkerChart,
	"MarkerTable":      profiler.LocationMarkerTable,
	"TimelineOverview": profiler.LocationTimelineOverview,
	"TimelineMemory":   profiler.LocationTimelineMemory,
	"TimelineIPC":      profiler.LocationTimelineIPC,
	"TimelineFileIO":   profiler.LocationTimelineFileIO,
	"StackChart":       profiler.LocationStackChart,
}

// DefaultDisplay is used when the type marker names no locations.
var DefaultDisplay = []string{"MarkerChart", "MarkerTable"}
