// Package subtle implements the small set of constant-time primitives that
// the rest of curve25519-elisabeth is built on: byte and byte-slice
// equality, sign extraction, and single-bit extraction, each written so
// that timing and branching do not depend on the values being compared.
//
// None of these functions are a substitute for crypto/subtle on general
// byte slices of attacker-controlled length; they exist because the field,
// scalar and point arithmetic in this module needs equality and selection
// primitives with a fixed, documented cost, matching the shape of the
// cafe.cryptography.subtle.ConstantTime class these were ported from.
package subtle

// Equal returns 1 if the low 8 bits of b and c agree, and 0 otherwise.
// Runs in time independent of the values of b and c.
func Equal(b, c int32) int {
	var result int32
	xor := b ^ c
	for i := 0; i < 8; i++ {
		result |= xor >> uint(i)
	}
	return int((result ^ 1) & 1)
}

// EqualBytes returns 1 if b and c are equal, and 0 otherwise. It fails fast
// (in variable time) if the lengths differ, since the length of a byte
// slice is never secret in this module; once the lengths are known equal,
// comparison of the contents runs in constant time.
func EqualBytes(b, c []byte) int {
	if len(b) != len(c) {
		return 0
	}

	var result int32
	for i := range b {
		result |= int32(b[i] ^ c[i])
	}
	return Equal(result, 0)
}

// IsNegative returns 1 if b is negative and 0 otherwise, for b in the
// signed-byte range [-128, 127] (such as a sign-extended int8). Only bit 8
// of b is examined.
func IsNegative(b int32) int {
	return int((b >> 8) & 1)
}

// Bit returns the i'th bit of h, indexing from the least-significant bit
// of h[0].
func Bit(h []byte, i int) int {
	return int((h[i>>3] >> uint(i&7)) & 1)
}
