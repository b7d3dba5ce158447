package bits

import (
	"errors"
	"fmt"
)

const (
	// NibbleBits is the number of bits carried by one hex digit.
	NibbleBits = 4
	// MaxReadBits bounds a single ReadBits call.
	MaxReadBits = 64
)

var (
	ErrTruncated  = errors.New("bits: truncated input")
	ErrOverrun    = errors.New("bits: read past frame limit")
	ErrInvalidHex = errors.New("bits: invalid hex digit")
	ErrReadWidth  = errors.New("bits: invalid read width")
)

// Mark is a recorded cursor position.
type Mark int

// Cursor is a forward-only reader over an immutable bit sequence.
// Bits are stored one hex digit per byte, most significant bit first.
type Cursor struct {
	nibbles []byte
	n       int
	pos     int
	// limit is the exclusive end for reads; it sits below n while a frame
	// limit is active.
	limit int
}

// FromHex expands a hexadecimal transmission into a cursor positioned at bit 0.
// Upper and lower case digits are accepted.
func FromHex(hex string) (*Cursor, error) {
	nibbles := make([]byte, len(hex))
	for i := 0; i < len(hex); i++ {
		v, ok := hexValue(hex[i])
		if !ok {
			return nil, fmt.Errorf("%w: %q at index %d", ErrInvalidHex, hex[i], i)
		}
		nibbles[i] = v
	}
	n := len(nibbles) * NibbleBits
	return &Cursor{nibbles: nibbles, n: n, limit: n}, nil
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

// Len returns the total number of bits in the sequence.
func (c *Cursor) Len() int {
	return c.n
}

// Pos returns the number of bits read so far.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of bits still readable under the active limit.
func (c *Cursor) Remaining() int {
	return c.limit - c.pos
}

// HasRemaining reports whether at least one more bit can be read.
func (c *Cursor) HasRemaining() bool {
	return c.pos < c.limit
}

// ReadBits consumes count bits and returns them as an unsigned integer,
// the first bit read being the most significant.
func (c *Cursor) ReadBits(count int) (uint64, error) {
	if count < 0 || count > MaxReadBits {
		return 0, fmt.Errorf("%w: %d", ErrReadWidth, count)
	}
	if c.pos+count > c.limit {
		return 0, c.shortRead(count)
	}

	var v uint64
	for i := c.pos; i < c.pos+count; i++ {
		bit := (c.nibbles[i/NibbleBits] >> (NibbleBits - 1 - i%NibbleBits)) & 1
		v = v<<1 | uint64(bit)
	}
	c.pos += count
	return v, nil
}

func (c *Cursor) shortRead(count int) error {
	if c.limit < c.n && c.pos+count <= c.n {
		return fmt.Errorf("%w: need %d bits at offset %d, frame ends at %d", ErrOverrun, count, c.pos, c.limit)
	}
	return fmt.Errorf("%w: need %d bits at offset %d, have %d", ErrTruncated, count, c.pos, c.n-c.pos)
}

// Mark records the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.pos)
}

// BitsConsumedSince returns the number of bits read since m was recorded.
func (c *Cursor) BitsConsumedSince(m Mark) int {
	return c.pos - int(m)
}

// Limit restricts reads to the next n bits. The returned release func
// restores the previous limit and must be called once the frame is done.
func (c *Cursor) Limit(n int) (release func(), err error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrReadWidth, n)
	}
	if c.pos+n > c.limit {
		return nil, c.shortRead(n)
	}
	prev := c.limit
	c.limit = c.pos + n
	return func() { c.limit = prev }, nil
}
