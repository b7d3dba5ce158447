package packet

import (
	"errors"
	"fmt"

	"github.com/danmuck/packetctl/internal/protocol/bits"
)

var (
	ErrTruncatedInput    = bits.ErrTruncated
	ErrInvalidHex        = bits.ErrInvalidHex
	ErrFramingOverrun    = errors.New("packet: framing overrun")
	ErrInvalidArity      = errors.New("packet: invalid operator arity")
	ErrLiteralOverflow   = errors.New("packet: literal exceeds 64 bits")
	ErrValueOverflow     = errors.New("packet: value overflows uint64")
	ErrUnknownType       = errors.New("packet: unknown type id")
	ErrEmptyTransmission = errors.New("packet: empty transmission")
	ErrTooLarge          = errors.New("packet: transmission too large")
	ErrTooDeep           = errors.New("packet: nesting too deep")
)

// DecodeError locates a decode failure at the bit offset where the failing
// packet starts.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("packet at bit %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// wrapAt attaches offset to err unless a nested packet already did.
func wrapAt(offset int, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, bits.ErrOverrun) {
		err = fmt.Errorf("%w: %w", ErrFramingOverrun, err)
	}
	return &DecodeError{Offset: offset, Err: err}
}
