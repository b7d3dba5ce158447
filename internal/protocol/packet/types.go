package packet

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeID selects the packet shape and, for operators, the operation.
type TypeID uint8

const (
	TypeSum         TypeID = 0
	TypeProduct     TypeID = 1
	TypeMinimum     TypeID = 2
	TypeMaximum     TypeID = 3
	TypeLiteral     TypeID = 4
	TypeGreaterThan TypeID = 5
	TypeLessThan    TypeID = 6
	TypeEqualTo     TypeID = 7
)

var typeNames = [...]string{
	TypeSum:         "sum",
	TypeProduct:     "product",
	TypeMinimum:     "min",
	TypeMaximum:     "max",
	TypeLiteral:     "literal",
	TypeGreaterThan: "gt",
	TypeLessThan:    "lt",
	TypeEqualTo:     "eq",
}

func (t TypeID) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// Comparison reports whether t is one of the binary comparison operators.
func (t TypeID) Comparison() bool {
	return t == TypeGreaterThan || t == TypeLessThan || t == TypeEqualTo
}

// LengthMode is the framing discipline of an operator's children.
type LengthMode uint8

const (
	// LengthModeBits frames children by a declared total bit count.
	LengthModeBits LengthMode = 0
	// LengthModeCount frames children by a declared child count.
	LengthModeCount LengthMode = 1
)

func (m LengthMode) String() string {
	switch m {
	case LengthModeBits:
		return "bits"
	case LengthModeCount:
		return "count"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Packet is one decoded node. Literals carry Value and no children;
// operators own an ordered, non-empty list of children.
type Packet struct {
	Version  uint8     `json:"version"`
	TypeID   TypeID    `json:"type_id"`
	Value    uint64    `json:"value,omitempty"`
	Children []*Packet `json:"children,omitempty"`
}

// NewLiteral builds a literal packet.
func NewLiteral(version uint8, value uint64) *Packet {
	return &Packet{Version: version, TypeID: TypeLiteral, Value: value}
}

// NewOperator builds an operator packet over children.
func NewOperator(version uint8, typeID TypeID, children ...*Packet) *Packet {
	return &Packet{Version: version, TypeID: typeID, Children: children}
}

func (p *Packet) IsLiteral() bool {
	return p.TypeID == TypeLiteral
}

// Walk visits p and every descendant in pre-order. Returning false from fn
// skips the children of the visited packet.
func (p *Packet) Walk(fn func(*Packet) bool) {
	stack := []*Packet{p}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// Count returns the number of packets in the tree rooted at p.
func (p *Packet) Count() int {
	count := 0
	p.Walk(func(*Packet) bool {
		count++
		return true
	})
	return count
}

// Depth returns the height of the tree; a lone literal has depth 1.
func (p *Packet) Depth() int {
	deepest := 0
	for _, c := range p.Children {
		deepest = max(deepest, c.Depth())
	}
	return deepest + 1
}

// String renders the tree as an s-expression, e.g. "(sum 1 (product 2 3))".
func (p *Packet) String() string {
	var b strings.Builder
	p.format(&b)
	return b.String()
}

func (p *Packet) format(b *strings.Builder) {
	if p.IsLiteral() {
		b.WriteString(strconv.FormatUint(p.Value, 10))
		return
	}
	fmt.Fprintf(b, "(%s", p.TypeID)
	for _, c := range p.Children {
		b.WriteByte(' ')
		c.format(b)
	}
	b.WriteByte(')')
}
