package primitives

import "fmt"

// CharBuffer is a growable byte buffer with printf-style append,
// grounded on original_source/src/lib/ox_char_buffer.c. It backs string
// construction during lexing (multi-part literal assembly) and
// to_string formatting.
type CharBuffer struct {
	buf []byte
}

func NewCharBuffer(capacity int) *CharBuffer {
	return &CharBuffer{buf: make([]byte, 0, capacity)}
}

func (c *CharBuffer) Len() int { return len(c.buf) }

func (c *CharBuffer) AppendByte(b byte) { c.buf = append(c.buf, b) }

func (c *CharBuffer) AppendRune(r rune) { c.buf = append(c.buf, string(r)...) }

func (c *CharBuffer) AppendString(s string) { c.buf = append(c.buf, s...) }

func (c *CharBuffer) Appendf(format string, args ...any) {
	c.buf = append(c.buf, fmt.Sprintf(format, args...)...)
}

func (c *CharBuffer) String() string { return string(c.buf) }

func (c *CharBuffer) Bytes() []byte { return c.buf }

func (c *CharBuffer) Reset() { c.buf = c.buf[:0] }
