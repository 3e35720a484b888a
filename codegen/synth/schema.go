package synth

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vast-data/markergen/codegen/model"
	"github.com/vast-data/markergen/profiler"
)

// BuildSchema returns the schema descriptor the generated code will construct for a
// validated model.
func BuildSchema(m *model.Model) *profiler.Schema {
	s := profiler.Schema{
		Name:         m.MarkerName(),
		ChartLabel:   m.Options.ChartLabel,
		TooltipLabel: m.Options.TooltipLabel,
		TableLabel:   m.Options.TableLabel,
		Fields:       make([]profiler.Field, 0, len(m.Fields)),
	}
	for _, name := range m.Display() {
		s.Display = append(s.Display, model.Locations[name])
	}
	for _, f := range m.Fields {
		s.Fields = append(s.Fields, profiler.Field{
			Key:        f.Name,
			Label:      f.DisplayName,
			Kind:       f.Kind,
			Format:     f.Format,
			Searchable: f.Tag.Searchable,
		})
	}
	return profiler.NewSchema(s)
}

var kindIdents = map[profiler.Kind]string{
	profiler.KindInteger:  "profiler.KindInteger",
	profiler.KindNumber:   "profiler.KindNumber",
	profiler.KindBoolean:  "profiler.KindBoolean",
	profiler.KindText:     "profiler.KindText",
	profiler.KindDuration: "profiler.KindDuration",
}

var formatIdents = map[profiler.Format]string{
	profiler.FormatURL:             "profiler.FormatURL",
	profiler.FormatFilePath:        "profiler.FormatFilePath",
	profiler.FormatSanitizedString: "profiler.FormatSanitizedString",
	profiler.FormatString:          "profiler.FormatString",
	profiler.FormatUniqueString:    "profiler.FormatUniqueString",
	profiler.FormatDuration:        "profiler.FormatDuration",
	profiler.FormatTime:            "profiler.FormatTime",
	profiler.FormatSeconds:         "profiler.FormatSeconds",
	profiler.FormatMilliseconds:    "profiler.FormatMilliseconds",
	profiler.FormatMicroseconds:    "profiler.FormatMicroseconds",
	profiler.FormatNanoseconds:     "profiler.FormatNanoseconds",
	profiler.FormatBytes:           "profiler.FormatBytes",
	profiler.FormatPercentage:      "profiler.FormatPercentage",
	profiler.FormatInteger:         "profiler.FormatInteger",
	profiler.FormatDecimal:         "profiler.FormatDecimal",
}

var locationIdents = map[profiler.Location]string{
	profiler.LocationMarkerChart:      "profiler.LocationMarkerChart",
	profiler.LocationMarkerTable:      "profiler.LocationMarkerTable",
	profiler.LocationTimelineOverview: "profiler.LocationTimelineOverview",
	profiler.LocationTimelineMemory:   "profiler.LocationTimelineMemory",
	profiler.LocationTimelineIPC:      "profiler.LocationTimelineIPC",
	profiler.LocationTimelineFileIO:   "profiler.LocationTimelineFileIO",
	profiler.LocationStackChart:       "profiler.LocationStackChart",
}

// schemaLiteral is the template view of a schema.
type schemaLiteral struct {
	Name         string
	Display      string
	ChartLabel   string
	TooltipLabel string
	TableLabel   string
	Fields       []string
}

func newSchemaLiteral(s *profiler.Schema) schemaLiteral {
	lit := schemaLiteral{
		Name:         strconv.Quote(s.Name),
		ChartLabel:   quoteNonEmpty(s.ChartLabel),
		TooltipLabel: quoteNonEmpty(s.TooltipLabel),
		TableLabel:   quoteNonEmpty(s.TableLabel),
		Fields:       make([]string, 0, len(s.Fields)),
	}

	locs := make([]string, 0, len(s.Display))
	for _, loc := range s.Display {
		locs = append(locs, locationIdents[loc])
	}
	lit.Display = "[]profiler.Location{" + strings.Join(locs, ", ") + "}"

	for _, f := range s.Fields {
		var b strings.Builder
		b.WriteString("{Key: ")
		b.WriteString(strconv.Quote(f.Key))
		b.WriteString(", Label: ")
		b.WriteString(strconv.Quote(f.Label))
		b.WriteString(", Kind: ")
		b.WriteString(kindIdents[f.Kind])
		b.WriteString(", Format: ")
		b.WriteString(formatIdents[f.Format])
		if f.Searchable {
			b.WriteString(", Searchable: true")
		}
		b.WriteString("}")
		lit.Fields = append(lit.Fields, b.String())
	}
	return lit
}

func quoteNonEmpty(s string) string {
	if s == "" {
		return ""
	}
	return strconv.Quote(s)
}

// schemaVar names the package-level schema variable of a type. The mapping is
// injective: an upper-case type name is appended as is and any other name follows an
// underscore, so "fetch" and "Fetch" get distinct variables.
func schemaVar(typeName string) string {
	if r, _ := utf8.DecodeRuneInString(typeName); unicode.IsUpper(r) {
		return "markerSchema" + typeName
	}
	return "markerSchema_" + typeName
}
