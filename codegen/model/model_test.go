package model

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vast-data/markergen/codegen/diag"
	"github.com/vast-data/markergen/codegen/tags"
	"github.com/vast-data/markergen/profiler"
)

func raw(name, typ, tag string) RawField {
	return RawField{Name: name, Type: Builtin(typ), Tag: tag, Pos: token.Position{Filename: "t.go", Line: 1}}
}

func build(t *testing.T, fields ...RawField) *Model {
	t.Helper()
	parsed, err := ParseFields("T", fields)
	require.NoError(t, err)
	return Build("T", token.Position{Filename: "t.go"}, TypeOptions{}, parsed)
}

func TestValueType_DefaultKind(t *testing.T) {
	tests := []struct {
		typ  string
		want profiler.Kind
		ok   bool
	}{
		{"int", profiler.KindInteger, true},
		{"int64", profiler.KindInteger, true},
		{"uint32", profiler.KindInteger, true},
		{"byte", profiler.KindInteger, true},
		{"uint64", 0, false},
		{"uint", 0, false},
		{"float32", profiler.KindNumber, true},
		{"bool", profiler.KindBoolean, true},
		{"string", profiler.KindText, true},
		{"[]byte", 0, false},
		{"time.Duration", profiler.KindDuration, true},
		{"map[string]int", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			got, ok := Builtin(tt.typ).DefaultKind()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueType_Compatible(t *testing.T) {
	assert.True(t, Builtin("[]byte").Compatible(profiler.KindText))
	assert.True(t, Builtin("time.Duration").Compatible(profiler.KindInteger))
	assert.False(t, Builtin("int").Compatible(profiler.KindDuration))
	assert.False(t, Builtin("int64").Compatible(profiler.KindNumber))
	assert.False(t, Builtin("uint64").Compatible(profiler.KindInteger))
	assert.False(t, Builtin("string").Compatible(profiler.KindBoolean))
	assert.False(t, Builtin("string").Compatible(profiler.Kind(42)))

	named := Builtin("int32").AsNamed("Status")
	assert.True(t, named.Named)
	assert.Equal(t, "Status", named.Expr)
	assert.Equal(t, "int32", named.Underlying)
	assert.True(t, named.Compatible(profiler.KindInteger))
	assert.False(t, Other("Foo").AsNamed("Bar").Named)
}

func TestParseFields_Defaults(t *testing.T) {
	fields, err := ParseFields("T", []RawField{
		raw("url", "string", `name="URL"`),
		raw("status", "int", ""),
		raw("internal", "map[string]int", "-"),
		raw("elapsed", "time.Duration", "searchable"),
	})
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, "text", fields[0].Tag.Kind)
	assert.Equal(t, "integer", fields[1].Tag.Kind)
	assert.Equal(t, "duration", fields[2].Tag.Kind)
	assert.True(t, fields[2].Tag.Searchable)
}

func TestParseFields_Errors(t *testing.T) {
	_, err := ParseFields("T", []RawField{
		raw("a", "uint64", ""),
		raw("b", "string", "text,bogus"),
		raw("c", "string", "name="),
		raw("d", "[]byte", "searchable"),
	})
	require.Error(t, err)
	assert.ElementsMatch(t,
		[]diag.Code{diag.AmbiguousFieldKind, diag.UnknownTagKey, diag.MalformedTag, diag.AmbiguousFieldKind},
		diag.Codes(err))

	for _, e := range diag.All(err) {
		assert.Equal(t, "T", e.Type)
		assert.NotEmpty(t, e.Field)
		assert.Equal(t, "t.go", e.Pos.Filename)
	}
}

func TestParseFields_ReservedNames(t *testing.T) {
	_, err := ParseFields("T", []RawField{
		raw("FormatMarker", "string", ""),
		raw("SerializeMarker", "int", "-"),
		raw("Marker", "string", ""),
	})
	require.Error(t, err)
	assert.Equal(t, []diag.Code{diag.ReservedFieldName, diag.ReservedFieldName}, diag.Codes(err))

	var keys []string
	for _, e := range diag.All(err) {
		assert.Equal(t, e.Field, e.Key)
		keys = append(keys, e.Key)
	}
	assert.ElementsMatch(t, []string{"FormatMarker", "SerializeMarker"}, keys)
}

func TestBuild(t *testing.T) {
	m := build(t,
		raw("url", "string", `name="URL",format=url,searchable`),
		raw("status", "int", ""),
		raw("ratio", "float64", "format=percentage"),
	)

	require.Len(t, m.Fields, 3)
	assert.Equal(t, []string{"url", "status", "ratio"}, []string{m.Fields[0].Name, m.Fields[1].Name, m.Fields[2].Name})
	assert.Equal(t, "URL", m.Fields[0].DisplayName)
	assert.Equal(t, profiler.FormatURL, m.Fields[0].Format)
	assert.True(t, m.Fields[0].Tag.Searchable)
	assert.Equal(t, "status", m.Fields[1].DisplayName)
	assert.Equal(t, profiler.KindInteger, m.Fields[1].Kind)
	assert.Equal(t, profiler.FormatInteger, m.Fields[1].Format)
	assert.Equal(t, profiler.FormatPercentage, m.Fields[2].Format)

	assert.Equal(t, "T", m.MarkerName())
	assert.Equal(t, DefaultDisplay, m.Display())
	m.Options = TypeOptions{Name: "Fetch", Display: []string{"StackChart"}}
	assert.Equal(t, "Fetch", m.MarkerName())
	assert.Equal(t, []string{"StackChart"}, m.Display())
}

func TestValidate_OK(t *testing.T) {
	m := build(t,
		raw("url", "string", `name="URL"`),
		raw("status", "int", ""),
		raw("body", "[]byte", "text,format=sanitized-string"),
		raw("wait", "time.Duration", "integer,format=nanoseconds"),
	)
	got, err := Validate(m)
	require.NoError(t, err)
	assert.Same(t, m, got)
}

func TestValidate_Empty(t *testing.T) {
	m := Build("Empty", token.Position{}, TypeOptions{}, nil)
	_, err := Validate(m)
	require.Error(t, err)
	assert.Equal(t, []diag.Code{diag.EmptyPayload}, diag.Codes(err))
}

func TestValidate_DuplicateDisplayName(t *testing.T) {
	m := build(t,
		raw("first", "string", `name="Same"`),
		raw("second", "int", `name="Same"`),
	)
	_, err := Validate(m)
	require.Error(t, err)

	all := diag.All(err)
	require.Len(t, all, 1)
	assert.Equal(t, diag.DuplicateDisplayName, all[0].Code)
	assert.Equal(t, "second", all[0].Field)
	assert.Equal(t, "first", all[0].Other)
}

func TestValidate_DuplicateWithImplicitName(t *testing.T) {
	m := build(t,
		raw("Status", "int", ""),
		raw("code", "int", `name="Status"`),
	)
	_, err := Validate(m)
	assert.True(t, diag.Has(err, diag.DuplicateDisplayName))
}

func TestValidate_ReservedNames(t *testing.T) {
	fields := make([]Field, 0, len(PayloadMethods))
	for _, name := range PayloadMethods {
		fields = append(fields, Field{Name: name, Type: Builtin("int"), Tag: tags.FieldTag{Kind: "integer"}})
	}
	_, err := Validate(Build("T", token.Position{}, TypeOptions{}, fields))
	require.Error(t, err)

	var names []string
	for _, e := range diag.All(err) {
		assert.Equal(t, diag.ReservedFieldName, e.Code)
		assert.Contains(t, e.Error(), "collides with the generated")
		names = append(names, e.Field)
	}
	assert.ElementsMatch(t, PayloadMethods, names)
}

func TestValidate_KindTypeMismatch(t *testing.T) {
	m := build(t, raw("url", "string", "boolean"))
	_, err := Validate(m)
	require.Error(t, err)

	all := diag.All(err)
	require.Len(t, all, 1)
	assert.Equal(t, diag.KindTypeMismatch, all[0].Code)
	assert.Equal(t, "boolean", all[0].Key)
	assert.Equal(t, "string", all[0].ValueType)
}

func TestValidate_CollectsEverything(t *testing.T) {
	parsed, err := ParseFields("T", []RawField{
		raw("x", "string", "boolean"),
		raw("b", "int", "float"),
		raw("c", "int", `name="a"`),
		raw("a2", "string", `name="a"`),
		raw("d", "string", "format=percentage"),
		raw("e", "int", "format=sparkline"),
	})
	require.NoError(t, err)
	m := Build("T", token.Position{}, TypeOptions{Display: []string{"MarkerChart", "Sidebar"}}, parsed)

	_, err = Validate(m)
	require.Error(t, err)
	assert.ElementsMatch(t, []diag.Code{
		diag.UnsupportedLocation,
		diag.KindTypeMismatch,
		diag.UnsupportedKind,
		diag.DuplicateDisplayName,
		diag.UnsupportedFormat,
		diag.UnsupportedFormat,
	}, diag.Codes(err))
}

func TestFormats(t *testing.T) {
	for kind := profiler.KindInteger; kind <= profiler.KindDuration; kind++ {
		f := DefaultFormat(kind)
		assert.True(t, KnownFormat(f), kind.String())
		assert.True(t, FormatFits(f, kind), kind.String())
	}
	assert.False(t, KnownFormat("sparkline"))
	assert.False(t, FormatFits(profiler.FormatURL, profiler.KindInteger))
}
