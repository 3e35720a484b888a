package profiler

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return NewSchema(Schema{
		Name:    "Everything",
		Display: []Location{LocationMarkerChart, LocationMarkerTable},
		Fields: []Field{
			{Key: "count", Label: "Count", Kind: KindInteger, Format: FormatInteger},
			{Key: "ratio", Label: "Ratio", Kind: KindNumber, Format: FormatPercentage},
			{Key: "ok", Label: "OK", Kind: KindBoolean, Format: FormatString},
			{Key: "url", Label: "URL", Kind: KindText, Format: FormatURL, Searchable: true},
			{Key: "elapsed", Label: "Elapsed", Kind: KindDuration, Format: FormatDuration},
		},
	})
}

func TestBuffer_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		count   int64
		ratio   float64
		ok      bool
		url     string
		elapsed time.Duration
	}{
		{name: "zero values"},
		{name: "typical", count: 200, ratio: 0.25, ok: true, url: "https://example.com/a", elapsed: 1500 * time.Millisecond},
		{name: "extremes", count: math.MinInt64, ratio: math.MaxFloat64, url: "ünïcødé ✓", elapsed: time.Duration(math.MaxInt64)},
		{name: "negative", count: -1, ratio: -0.0, elapsed: -time.Second},
	}

	s := testSchema()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer(0)
			buf.WriteInteger(tt.count)
			buf.WriteNumber(tt.ratio)
			buf.WriteBoolean(tt.ok)
			buf.WriteText(tt.url)
			buf.WriteDuration(tt.elapsed)

			values, err := Decode(s, buf.Bytes())
			require.NoError(t, err)
			require.Len(t, values, 5)
			assert.Equal(t, tt.count, values[0].Int)
			assert.Equal(t, math.Float64bits(tt.ratio), math.Float64bits(values[1].Float))
			assert.Equal(t, tt.ok, values[2].Bool)
			assert.Equal(t, tt.url, values[3].Text)
			assert.Equal(t, tt.elapsed, values[4].Duration)
		})
	}
}

func TestBuffer_Layout(t *testing.T) {
	buf := NewBuffer(16)
	buf.WriteText("a")
	buf.WriteInteger(200)

	want := []byte{1, 0, 0, 0, 'a'}
	want = binary.LittleEndian.AppendUint64(want, 200)
	assert.Equal(t, want, buf.Bytes())
	assert.Equal(t, 13, buf.Len())

	buf.Reset()
	assert.Zero(t, buf.Len())
	buf.WriteBoolean(true)
	buf.WriteBoolean(false)
	assert.Equal(t, []byte{1, 0}, buf.Bytes())
}

func TestBuffer_TextBytes(t *testing.T) {
	a, b := NewBuffer(0), NewBuffer(0)
	a.WriteText("payload")
	b.WriteTextBytes([]byte("payload"))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestBuffer_TextTruncation(t *testing.T) {
	saved := maxTextLen
	maxTextLen = 5
	t.Cleanup(func() { maxTextLen = saved })

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "fits", in: "abcde", want: "abcde"},
		{name: "ascii", in: "abcdefg", want: "abcde"},
		{name: "multibyte at the cut", in: "abcd€", want: "abcd"},
		{name: "four byte rune", in: "ab😀x", want: "ab"},
		{name: "rune ends at the cut", in: "ab€x", want: "ab€"},
		{name: "invalid utf-8", in: "abcd\x80\x80\x80", want: "abcd\x80"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := NewBuffer(0), NewBuffer(0)
			a.WriteText(tt.in)
			b.WriteTextBytes([]byte(tt.in))
			assert.Equal(t, a.Bytes(), b.Bytes())

			dec := NewDecoder(a.Bytes())
			got, err := dec.ReadText()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Zero(t, dec.Remaining())
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	s := NewSchema(Schema{Name: "T", Fields: []Field{
		{Key: "n", Label: "n", Kind: KindInteger, Format: FormatInteger},
	}})

	_, err := Decode(s, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrShortBuffer)

	buf := NewBuffer(0)
	buf.WriteInteger(1)
	buf.WriteBoolean(true)
	_, err = Decode(s, buf.Bytes())
	assert.ErrorIs(t, err, ErrTrailingBytes)

	text := NewSchema(Schema{Name: "T", Fields: []Field{
		{Key: "s", Label: "s", Kind: KindText, Format: FormatString},
	}})
	_, err = Decode(text, []byte{10, 0, 0, 0, 'x'})
	assert.ErrorIs(t, err, ErrShortBuffer)

	flag := NewSchema(Schema{Name: "T", Fields: []Field{
		{Key: "b", Label: "b", Kind: KindBoolean, Format: FormatString},
	}})
	_, err = Decode(flag, []byte{2})
	assert.Error(t, err)
}

func TestDecoder_Stream(t *testing.T) {
	s := testSchema()
	buf := NewBuffer(0)
	for i := 0; i < 3; i++ {
		buf.WriteInteger(int64(i))
		buf.WriteNumber(float64(i) / 2)
		buf.WriteBoolean(i%2 == 0)
		buf.WriteText("x")
		buf.WriteDuration(time.Duration(i))
	}

	d := NewDecoder(buf.Bytes())
	for i := 0; i < 3; i++ {
		values, err := d.ReadPayload(s)
		require.NoError(t, err)
		assert.Equal(t, int64(i), values[0].Int)
	}
	assert.Zero(t, d.Remaining())
}

func TestDecodeMap(t *testing.T) {
	s := testSchema()
	buf := NewBuffer(0)
	buf.WriteInteger(7)
	buf.WriteNumber(0.5)
	buf.WriteBoolean(true)
	buf.WriteText("u")
	buf.WriteDuration(time.Millisecond)

	m, err := DecodeMap(s, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"count":   int64(7),
		"ratio":   0.5,
		"ok":      true,
		"url":     "u",
		"elapsed": time.Millisecond,
	}, m)
}

func TestFormatter(t *testing.T) {
	got := NewFormatter("Fetch").
		Text("URL", "a").
		Integer("status", 200).
		Number("ratio", 0.5).
		Boolean("cached", false).
		Duration("elapsed", 1500*time.Millisecond).
		TextBytes("body", []byte("x\n")).
		String()
	assert.Equal(t, `Fetch{URL: "a", status: 200, ratio: 0.5, cached: false, elapsed: 1.5s, body: "x\n"}`, got)
	assert.Equal(t, "Empty{}", NewFormatter("Empty").String())
}

func TestSchema_ID(t *testing.T) {
	a := testSchema()
	b := testSchema()
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, a.ComputeID(), a.ID)

	b.Fields[0].Searchable = true
	assert.NotEqual(t, a.ID, b.ComputeID())

	c := testSchema()
	c.Fields[0], c.Fields[1] = c.Fields[1], c.Fields[0]
	assert.NotEqual(t, a.ID, c.ComputeID(), "field order is part of the layout")
}

func TestSchema_Lookup(t *testing.T) {
	s := testSchema()
	f, ok := s.Field("url")
	require.True(t, ok)
	assert.Equal(t, "URL", f.Label)
	_, ok = s.Field("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"url"}, s.SearchableKeys())
}

func TestKind_Text(t *testing.T) {
	for k := KindInteger; k <= KindDuration; k++ {
		text, err := k.MarshalText()
		require.NoError(t, err)
		var back Kind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, k, back)
	}

	_, err := Kind(0).MarshalText()
	assert.Error(t, err)
	var k Kind
	assert.Error(t, k.UnmarshalText([]byte("float")))
	assert.False(t, Kind(9).Valid())
	assert.Equal(t, "Kind(9)", Kind(9).String())

	out, err := json.Marshal(testSchema().Fields[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"count","label":"Count","kind":"integer","format":"integer"}`, string(out))
}

type fixedPayload struct{ n int64 }

func (p fixedPayload) MarkerTypeName() string { return "Fixed" }
func (p fixedPayload) MarkerSchema() *Schema {
	return NewSchema(Schema{Name: "Fixed", Fields: []Field{{Key: "n", Label: "n", Kind: KindInteger}}})
}
func (p fixedPayload) SerializeMarker(buf *Buffer) { buf.WriteInteger(p.n) }
func (p fixedPayload) FormatMarker() string {
	return NewFormatter("Fixed").Integer("n", p.n).String()
}

func TestSerialize(t *testing.T) {
	var p Payload = fixedPayload{n: 3}
	values, err := Decode(p.MarkerSchema(), Serialize(p))
	require.NoError(t, err)
	assert.Equal(t, int64(3), values[0].Int)
	assert.Equal(t, "Fixed{n: 3}", p.FormatMarker())
}
