package profiler

import (
	"encoding/binary"
	"math"
	"time"
	"unicode/utf8"
)

// maxTextLen is a variable so the slice expressions below compile on 32-bit targets.
var maxTextLen uint64 = math.MaxUint32

// clampText cuts v to at most maxTextLen bytes. A valid UTF-8 character that would be
// split by the cut is dropped whole.
func clampText[T ~string | ~[]byte](v T) T {
	if uint64(len(v)) <= maxTextLen {
		return v
	}
	n := int(maxTextLen)
	for i := n; i >= 0 && i > n-utf8.UTFMax; i-- {
		if !utf8.RuneStart(v[i]) {
			continue
		}
		if _, size := utf8.DecodeRuneInString(string(v[i:min(len(v), i+utf8.UTFMax)])); i+size > n {
			return v[:i]
		}
		break
	}
	return v[:n]
}

// Buffer accumulates serialized marker payloads. It is not safe for concurrent use;
// callers recording from several goroutines must guard a shared Buffer themselves.
type Buffer struct {
	b []byte
}

// NewBuffer returns an empty buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{b: make([]byte, 0, capacity)}
}

// WriteInteger appends v as an 8 byte little-endian int64.
func (b *Buffer) WriteInteger(v int64) {
	b.b = binary.LittleEndian.AppendUint64(b.b, uint64(v))
}

// WriteNumber appends the IEEE-754 bits of v.
func (b *Buffer) WriteNumber(v float64) {
	b.b = binary.LittleEndian.AppendUint64(b.b, math.Float64bits(v))
}

// WriteBoolean appends a single 0 or 1 byte.
func (b *Buffer) WriteBoolean(v bool) {
	if v {
		b.b = append(b.b, 1)
		return
	}
	b.b = append(b.b, 0)
}

// WriteText appends a uint32 length prefix followed by the bytes of v.
// Text longer than math.MaxUint32 bytes is truncated at the last character boundary
// within that length.
func (b *Buffer) WriteText(v string) {
	v = clampText(v)
	b.b = binary.LittleEndian.AppendUint32(b.b, uint32(len(v)))
	b.b = append(b.b, v...)
}

// WriteTextBytes is WriteText for byte slices.
func (b *Buffer) WriteTextBytes(v []byte) {
	v = clampText(v)
	b.b = binary.LittleEndian.AppendUint32(b.b, uint32(len(v)))
	b.b = append(b.b, v...)
}

// WriteDuration appends d as an int64 count of nanoseconds.
func (b *Buffer) WriteDuration(d time.Duration) {
	b.WriteInteger(int64(d))
}

// Bytes returns the accumulated bytes. The slice aliases the buffer until the next write.
func (b *Buffer) Bytes() []byte {
	return b.b
}

// Len returns the number of accumulated bytes.
func (b *Buffer) Len() int {
	return len(b.b)
}

// Reset empties the buffer, keeping its capacity.
func (b *Buffer) Reset() {
	b.b = b.b[:0]
}
