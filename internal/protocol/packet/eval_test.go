package packet

import (
	"errors"
	"math"
	"testing"
)

func TestEvaluateOperators(t *testing.T) {
	lit := func(v uint64) *Packet { return NewLiteral(0, v) }
	cases := []struct {
		name string
		p    *Packet
		want uint64
	}{
		{"literal", lit(42), 42},
		{"single sum", NewOperator(0, TypeSum, lit(7)), 7},
		{"single product", NewOperator(0, TypeProduct, lit(7)), 7},
		{"sum", NewOperator(0, TypeSum, lit(1), lit(2), lit(3)), 6},
		{"product", NewOperator(0, TypeProduct, lit(2), lit(3), lit(4)), 24},
		{"min", NewOperator(0, TypeMinimum, lit(9), lit(3), lit(5)), 3},
		{"max", NewOperator(0, TypeMaximum, lit(9), lit(3), lit(5)), 9},
		{"gt true", NewOperator(0, TypeGreaterThan, lit(4), lit(3)), 1},
		{"gt false", NewOperator(0, TypeGreaterThan, lit(3), lit(3)), 0},
		{"lt true", NewOperator(0, TypeLessThan, lit(2), lit(3)), 1},
		{"lt false", NewOperator(0, TypeLessThan, lit(3), lit(2)), 0},
		{"eq true", NewOperator(0, TypeEqualTo, lit(3), lit(3)), 1},
		{"eq false", NewOperator(0, TypeEqualTo, lit(3), lit(4)), 0},
		{
			"nested",
			NewOperator(0, TypeEqualTo,
				NewOperator(0, TypeSum, lit(1), lit(3)),
				NewOperator(0, TypeProduct, lit(2), lit(2))),
			1,
		},
		{"max uint64", NewOperator(0, TypeSum, lit(math.MaxUint64), lit(0)), math.MaxUint64},
	}
	for _, tc := range cases {
		got, err := Evaluate(tc.p)
		if err != nil {
			t.Fatalf("%s: evaluate: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestEvaluateOverflow(t *testing.T) {
	sum := NewOperator(0, TypeSum, NewLiteral(0, math.MaxUint64), NewLiteral(0, 1))
	if _, err := Evaluate(sum); !errors.Is(err, ErrValueOverflow) {
		t.Fatalf("sum: expected ErrValueOverflow, got %v", err)
	}
	product := NewOperator(0, TypeProduct, NewLiteral(0, 1<<32), NewLiteral(0, 1<<32))
	if _, err := Evaluate(product); !errors.Is(err, ErrValueOverflow) {
		t.Fatalf("product: expected ErrValueOverflow, got %v", err)
	}
	nested := NewOperator(0, TypeMaximum, NewLiteral(0, 1), product)
	if _, err := Evaluate(nested); !errors.Is(err, ErrValueOverflow) {
		t.Fatalf("nested: expected ErrValueOverflow, got %v", err)
	}
}

func TestEvaluateRejectsHandBuiltMalformedTrees(t *testing.T) {
	if _, err := Evaluate(NewOperator(0, TypeLessThan, NewLiteral(0, 1))); !errors.Is(err, ErrInvalidArity) {
		t.Fatalf("expected ErrInvalidArity for one-child comparison, got %v", err)
	}
	if _, err := Evaluate(NewOperator(0, TypeMinimum)); !errors.Is(err, ErrInvalidArity) {
		t.Fatalf("expected ErrInvalidArity for empty min, got %v", err)
	}
	if _, err := Evaluate(NewOperator(0, TypeID(9), NewLiteral(0, 1))); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestEvaluateDoesNotMutate(t *testing.T) {
	p := NewOperator(3, TypeSum, NewLiteral(1, 1), NewLiteral(2, 2))
	for i := 0; i < 3; i++ {
		v, err := Evaluate(p)
		if err != nil || v != 3 {
			t.Fatalf("evaluate: v=%d err=%v", v, err)
		}
	}
	if p.Value != 0 || p.Children[0].Value != 1 || p.Children[1].Value != 2 {
		t.Fatalf("evaluation mutated tree: %+v", p)
	}
}

func TestPacketString(t *testing.T) {
	root, err := DecodeTransmission("9C0141080250320F1802104A08")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got, want := root.String(), "(eq (sum 1 3) (product 2 2))"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got := TypeID(12).String(); got != "type(12)" {
		t.Fatalf("unexpected unknown type name %q", got)
	}
}

func TestWalkAndCount(t *testing.T) {
	root, err := DecodeTransmission("880086C3E88112")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var order []uint64
	root.Walk(func(p *Packet) bool {
		if p.IsLiteral() {
			order = append(order, p.Value)
		}
		return true
	})
	if len(order) != 3 || order[0] != 7 || order[1] != 8 || order[2] != 9 {
		t.Fatalf("unexpected pre-order literals %v", order)
	}
	if root.Count() != 4 {
		t.Fatalf("expected 4 packets, got %d", root.Count())
	}

	visited := 0
	root.Walk(func(*Packet) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Fatalf("expected pruned walk to visit only the root, visited %d", visited)
	}
}
