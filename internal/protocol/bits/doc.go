// Package bits provides a sequential, forward-only cursor over the bit
// sequence carried by a hexadecimal transmission.
//
// Ownership boundary:
// - hex to bit expansion
// - MSB-first unsigned reads up to 64 bits
// - nested frame limits for length-framed groups
package bits
