// Package packet decodes and evaluates packet transmissions.
//
// A transmission is a hex string whose bits encode one root packet. Each
// packet starts with a 3-bit version and a 3-bit type id. Type 4 is a
// literal encoded as 5-bit groups (continuation flag plus nibble). Every
// other type is an operator whose children are framed either by a 15-bit
// total bit length or by an 11-bit child count.
//
// Decoded trees are immutable: SumVersions and Evaluate only read them and
// may run concurrently against the same tree.
package packet
