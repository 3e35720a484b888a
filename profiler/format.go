package profiler

import (
	"strconv"
	"strings"
	"time"
)

// Formatter builds the human-readable form of a payload:
//
//	NetworkRequest{URL: "https://example.com", status: 200, elapsed: 1.5s}
type Formatter struct {
	b strings.Builder
	n int
}

// NewFormatter starts rendering a payload of the named marker type.
func NewFormatter(name string) *Formatter {
	f := &Formatter{}
	f.b.WriteString(name)
	f.b.WriteByte('{')
	return f
}

func (f *Formatter) label(label string) {
	if f.n > 0 {
		f.b.WriteString(", ")
	}
	f.n++
	f.b.WriteString(label)
	f.b.WriteString(": ")
}

func (f *Formatter) Integer(label string, v int64) *Formatter {
	f.label(label)
	f.b.WriteString(strconv.FormatInt(v, 10))
	return f
}

func (f *Formatter) Number(label string, v float64) *Formatter {
	f.label(label)
	f.b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	return f
}

func (f *Formatter) Boolean(label string, v bool) *Formatter {
	f.label(label)
	f.b.WriteString(strconv.FormatBool(v))
	return f
}

func (f *Formatter) Text(label string, v string) *Formatter {
	f.label(label)
	f.b.WriteString(strconv.Quote(v))
	return f
}

func (f *Formatter) TextBytes(label string, v []byte) *Formatter {
	return f.Text(label, string(v))
}

func (f *Formatter) Duration(label string, v time.Duration) *Formatter {
	f.label(label)
	f.b.WriteString(v.String())
	return f
}

// String closes the payload and returns the rendered text.
func (f *Formatter) String() string {
	return f.b.String() + "}"
}
