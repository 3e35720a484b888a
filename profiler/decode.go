package profiler

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrShortBuffer is returned when the input ends inside a value.
	ErrShortBuffer = errors.New("profiler: short buffer")
	// ErrTrailingBytes is returned by Decode when bytes remain after the last field.
	ErrTrailingBytes = errors.New("profiler: trailing bytes after payload")
)

// Value is one decoded field value. Only the member matching Kind is set.
type Value struct {
	Kind     Kind
	Int      int64
	Float    float64
	Bool     bool
	Text     string
	Duration time.Duration
}

// Interface returns the value as int64, float64, bool, string or time.Duration.
func (v Value) Interface() any {
	switch v.Kind {
	case KindInteger:
		return v.Int
	case KindNumber:
		return v.Float
	case KindBoolean:
		return v.Bool
	case KindText:
		return v.Text
	case KindDuration:
		return v.Duration
	default:
		return nil
	}
}

// Decoder reads values written by Buffer.
type Decoder struct {
	b   []byte
	off int
}

// NewDecoder returns a decoder reading from b.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{b: b}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.b) - d.off
}

func (d *Decoder) take(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, ErrShortBuffer
	}
	p := d.b[d.off : d.off+n]
	d.off += n
	return p, nil
}

func (d *Decoder) ReadInteger() (int64, error) {
	p, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(p)), nil
}

func (d *Decoder) ReadNumber() (float64, error) {
	p, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(p)), nil
}

func (d *Decoder) ReadBoolean() (bool, error) {
	p, err := d.take(1)
	if err != nil {
		return false, err
	}
	switch p[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("profiler: invalid boolean byte 0x%02x", p[0])
	}
}

func (d *Decoder) ReadText() (string, error) {
	p, err := d.take(4)
	if err != nil {
		return "", err
	}
	n := binary.LittleEndian.Uint32(p)
	if uint64(n) > uint64(d.Remaining()) {
		return "", ErrShortBuffer
	}
	p, _ = d.take(int(n))
	return string(p), nil
}

func (d *Decoder) ReadDuration() (time.Duration, error) {
	v, err := d.ReadInteger()
	return time.Duration(v), err
}

// Read decodes one value of the given kind.
func (d *Decoder) Read(kind Kind) (Value, error) {
	v := Value{Kind: kind}
	var err error
	switch kind {
	case KindInteger:
		v.Int, err = d.ReadInteger()
	case KindNumber:
		v.Float, err = d.ReadNumber()
	case KindBoolean:
		v.Bool, err = d.ReadBoolean()
	case KindText:
		v.Text, err = d.ReadText()
	case KindDuration:
		v.Duration, err = d.ReadDuration()
	default:
		err = fmt.Errorf("profiler: unsupported kind %s", kind)
	}
	return v, err
}

// ReadPayload decodes one payload described by s, leaving the decoder positioned at the
// next payload in a combined stream.
func (d *Decoder) ReadPayload(s *Schema) ([]Value, error) {
	values := make([]Value, 0, len(s.Fields))
	for _, f := range s.Fields {
		v, err := d.Read(f.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.Name, f.Key, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// Decode decodes exactly one payload described by s.
func Decode(s *Schema, b []byte) ([]Value, error) {
	d := NewDecoder(b)
	values, err := d.ReadPayload(s)
	if err != nil {
		return nil, err
	}
	if d.Remaining() != 0 {
		return nil, fmt.Errorf("%s: %w (%d)", s.Name, ErrTrailingBytes, d.Remaining())
	}
	return values, nil
}

// DecodeMap decodes one payload into a map keyed by field key.
func DecodeMap(s *Schema, b []byte) (map[string]any, error) {
	values, err := Decode(s, b)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(values))
	for i, v := range values {
		out[s.Fields[i].Key] = v.Interface()
	}
	return out, nil
}
