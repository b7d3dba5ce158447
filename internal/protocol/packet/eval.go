package packet

import (
	"fmt"
	mathbits "math/bits"
	"slices"
)

// SumVersions returns the sum of Version over p and all its descendants.
func SumVersions(p *Packet) uint64 {
	var sum uint64
	p.Walk(func(n *Packet) bool {
		sum += uint64(n.Version)
		return true
	})
	return sum
}

// Evaluate computes the value of the tree rooted at p. Children are
// evaluated before their parent and the tree is never modified.
func Evaluate(p *Packet) (uint64, error) {
	if p.IsLiteral() {
		return p.Value, nil
	}
	// Packets built by hand skip decode-time validation.
	if err := checkArity(p.TypeID, len(p.Children)); err != nil {
		return 0, err
	}

	values := make([]uint64, len(p.Children))
	for i, c := range p.Children {
		v, err := Evaluate(c)
		if err != nil {
			return 0, err
		}
		values[i] = v
	}

	switch p.TypeID {
	case TypeSum:
		var acc uint64
		for _, v := range values {
			var carry uint64
			acc, carry = mathbits.Add64(acc, v, 0)
			if carry != 0 {
				return 0, fmt.Errorf("%w: sum", ErrValueOverflow)
			}
		}
		return acc, nil
	case TypeProduct:
		acc := uint64(1)
		for _, v := range values {
			var hi uint64
			hi, acc = mathbits.Mul64(acc, v)
			if hi != 0 {
				return 0, fmt.Errorf("%w: product", ErrValueOverflow)
			}
		}
		return acc, nil
	case TypeMinimum:
		return slices.Min(values), nil
	case TypeMaximum:
		return slices.Max(values), nil
	case TypeGreaterThan:
		return boolValue(values[0] > values[1]), nil
	case TypeLessThan:
		return boolValue(values[0] < values[1]), nil
	case TypeEqualTo:
		return boolValue(values[0] == values[1]), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownType, p.TypeID)
	}
}

func boolValue(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
