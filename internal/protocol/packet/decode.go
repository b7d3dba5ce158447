package packet

import (
	"fmt"
	"strings"

	"github.com/danmuck/packetctl/internal/protocol/bits"
)

// Field widths of the wire format.
const (
	versionBits      = 3
	typeIDBits       = 3
	lengthModeBits   = 1
	totalSubBitsBits = 15
	childCountBits   = 11
	literalGroupBits = 5

	literalContinue = 0x10
	literalNibble   = 0x0F
)

// Limits constrains decode memory and recursion.
// A zero field disables that limit.
type Limits struct {
	MaxHexDigits int
	MaxDepth     int
}

func DefaultLimits() Limits {
	return Limits{
		MaxHexDigits: 64 * 1024,
		MaxDepth:     512,
	}
}

// Decoder turns transmissions into packet trees. It holds no per-decode
// state and is safe for concurrent use.
type Decoder struct {
	limits Limits
}

func NewDecoder(limits Limits) *Decoder {
	return &Decoder{limits: limits}
}

var defaultDecoder = NewDecoder(DefaultLimits())

// DecodeTransmission decodes hex with DefaultLimits.
func DecodeTransmission(hex string) (*Packet, error) {
	return defaultDecoder.DecodeTransmission(hex)
}

// DecodeOne decodes the packet starting at the cursor with DefaultLimits.
func DecodeOne(cur *bits.Cursor) (*Packet, error) {
	return defaultDecoder.DecodeOne(cur)
}

// DecodeTransmission decodes the single root packet carried by hex.
// Bits after the root packet are padding and are not inspected.
func (d *Decoder) DecodeTransmission(hex string) (*Packet, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return nil, ErrEmptyTransmission
	}
	if d.limits.MaxHexDigits > 0 && len(hex) > d.limits.MaxHexDigits {
		return nil, fmt.Errorf("%w: %d hex digits, limit %d", ErrTooLarge, len(hex), d.limits.MaxHexDigits)
	}
	cur, err := bits.FromHex(hex)
	if err != nil {
		return nil, err
	}
	return d.DecodeOne(cur)
}

// DecodeOne consumes exactly the bits of one packet, including all of its
// nested packets. On failure no partial tree is returned.
func (d *Decoder) DecodeOne(cur *bits.Cursor) (*Packet, error) {
	return d.decode(cur, 1)
}

func (d *Decoder) decode(cur *bits.Cursor, depth int) (*Packet, error) {
	start := cur.Pos()
	if d.limits.MaxDepth > 0 && depth > d.limits.MaxDepth {
		return nil, wrapAt(start, fmt.Errorf("%w: limit %d", ErrTooDeep, d.limits.MaxDepth))
	}

	version, err := cur.ReadBits(versionBits)
	if err != nil {
		return nil, wrapAt(start, err)
	}
	typeID, err := cur.ReadBits(typeIDBits)
	if err != nil {
		return nil, wrapAt(start, err)
	}
	p := &Packet{Version: uint8(version), TypeID: TypeID(typeID)}

	if p.IsLiteral() {
		value, err := readLiteral(cur)
		if err != nil {
			return nil, wrapAt(start, err)
		}
		p.Value = value
		return p, nil
	}

	mode, err := cur.ReadBits(lengthModeBits)
	if err != nil {
		return nil, wrapAt(start, err)
	}
	var children []*Packet
	switch LengthMode(mode) {
	case LengthModeBits:
		children, err = d.decodeBitsFramed(cur, depth)
	case LengthModeCount:
		children, err = d.decodeCountFramed(cur, depth)
	}
	if err != nil {
		return nil, wrapAt(start, err)
	}
	if err := checkArity(p.TypeID, len(children)); err != nil {
		return nil, wrapAt(start, err)
	}
	p.Children = children
	return p, nil
}

func readLiteral(cur *bits.Cursor) (uint64, error) {
	var value uint64
	for {
		group, err := cur.ReadBits(literalGroupBits)
		if err != nil {
			return 0, err
		}
		if value>>(64-4) != 0 {
			return 0, ErrLiteralOverflow
		}
		value = value<<4 | group&literalNibble
		if group&literalContinue == 0 {
			return value, nil
		}
	}
}

func (d *Decoder) decodeBitsFramed(cur *bits.Cursor, depth int) ([]*Packet, error) {
	total, err := cur.ReadBits(totalSubBitsBits)
	if err != nil {
		return nil, err
	}
	release, err := cur.Limit(int(total))
	if err != nil {
		return nil, err
	}
	defer release()

	mark := cur.Mark()
	var children []*Packet
	for cur.BitsConsumedSince(mark) < int(total) {
		child, err := d.decode(cur, depth+1)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if consumed := cur.BitsConsumedSince(mark); consumed != int(total) {
		return nil, fmt.Errorf("%w: declared %d bits, consumed %d", ErrFramingOverrun, total, consumed)
	}
	return children, nil
}

func (d *Decoder) decodeCountFramed(cur *bits.Cursor, depth int) ([]*Packet, error) {
	count, err := cur.ReadBits(childCountBits)
	if err != nil {
		return nil, err
	}
	children := make([]*Packet, 0, count)
	for i := uint64(0); i < count; i++ {
		child, err := d.decode(cur, depth+1)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func checkArity(t TypeID, n int) error {
	if t.Comparison() {
		if n != 2 {
			return fmt.Errorf("%w: %s needs 2 children, got %d", ErrInvalidArity, t, n)
		}
		return nil
	}
	if n == 0 {
		return fmt.Errorf("%w: %s needs at least one child", ErrInvalidArity, t)
	}
	return nil
}
