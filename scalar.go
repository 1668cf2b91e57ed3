package curve25519

import (
	"errors"

	"github.com/cryptography-cafe/curve25519-elisabeth/subtle"
)

// ErrScalarHighBitSet is returned by Scalar constructors when byte 31 of the
// input has its high bit set, violating the "top bit clear" invariant every
// Scalar value must carry.
var ErrScalarHighBitSet = errors.New("curve25519: high bit of scalar encoding is set")

// ErrScalarNotCanonical is returned by fromCanonicalBytes when the input
// encodes an integer >= ell.
var ErrScalarNotCanonical = errors.New("curve25519: scalar encoding is not canonical (>= group order)")

// Scalar is an integer modulo ell = 2^252 +
// 27742317777372353535851937790883648493, stored as its 32-byte
// little-endian encoding. The raw constructors in this file never check
// that the encoded integer is < ell; only that byte 31 has its high bit
// clear. Callers obtain an in-range Scalar through one of the
// fromBytesModOrder* reduction entry points.
type Scalar struct {
	s [32]byte
}

// ZEROScalar is the additive identity of the scalar field.
var ZEROScalar = Scalar{}

// ONEScalar is the multiplicative identity of the scalar field.
var ONEScalar = Scalar{s: [32]byte{1}}

// unpackedScalar is the internal radix-2^29 form of a Scalar: nine 32-bit
// words, the first eight masked to 29 bits and the last to 24, used as the
// operand and result type of Montgomery-form modular arithmetic.
type unpackedScalar [9]uint32

const scalarLimbMask = uint32(1<<29 - 1)
const scalarTopLimbMask = uint32(1<<24 - 1)

// groupOrder is ell unpacked into radix-2^29 limbs, used by add/subtract's
// conditional correction and by montgomeryReduce.
var groupOrder = unpack(&basepointOrder)

func m(a, b uint32) uint64 { return uint64(a) * uint64(b) }

// unpack splits a little-endian 32-byte integer into nine 29-bit (last: 24-
// bit) limbs.
func unpack(in *[32]byte) unpackedScalar {
	load := func(i int) uint32 {
		return uint32(in[i]) | uint32(in[i+1])<<8 | uint32(in[i+2])<<16 | uint32(in[i+3])<<24
	}
	var words [8]uint32
	for i := 0; i < 8; i++ {
		words[i] = load(i * 4)
	}

	var s unpackedScalar
	s[0] = words[0] & scalarLimbMask
	s[1] = ((words[0] >> 29) | (words[1] << 3)) & scalarLimbMask
	s[2] = ((words[1] >> 26) | (words[2] << 6)) & scalarLimbMask
	s[3] = ((words[2] >> 23) | (words[3] << 9)) & scalarLimbMask
	s[4] = ((words[3] >> 20) | (words[4] << 12)) & scalarLimbMask
	s[5] = ((words[4] >> 17) | (words[5] << 15)) & scalarLimbMask
	s[6] = ((words[5] >> 14) | (words[6] << 18)) & scalarLimbMask
	s[7] = ((words[6] >> 11) | (words[7] << 21)) & scalarLimbMask
	s[8] = (words[7] >> 8) & scalarTopLimbMask
	return s
}

// pack reassembles the nine limbs into a little-endian 32-byte integer.
func (s *unpackedScalar) pack() [32]byte {
	var out [32]byte
	out[0] = byte(s[0])
	out[1] = byte(s[0] >> 8)
	out[2] = byte(s[0] >> 16)
	out[3] = byte((s[0] >> 24) | (s[1] << 5))
	out[4] = byte(s[1] >> 3)
	out[5] = byte(s[1] >> 11)
	out[6] = byte(s[1] >> 19)
	out[7] = byte((s[1] >> 27) | (s[2] << 2))
	out[8] = byte(s[2] >> 6)
	out[9] = byte(s[2] >> 14)
	out[10] = byte((s[2] >> 22) | (s[3] << 7))
	out[11] = byte(s[3] >> 1)
	out[12] = byte(s[3] >> 9)
	out[13] = byte(s[3] >> 17)
	out[14] = byte((s[3] >> 25) | (s[4] << 4))
	out[15] = byte(s[4] >> 4)
	out[16] = byte(s[4] >> 12)
	out[17] = byte(s[4] >> 20)
	out[18] = byte((s[4] >> 28) | (s[5] << 1))
	out[19] = byte(s[5] >> 7)
	out[20] = byte(s[5] >> 15)
	out[21] = byte((s[5] >> 23) | (s[6] << 6))
	out[22] = byte(s[6] >> 2)
	out[23] = byte(s[6] >> 10)
	out[24] = byte(s[6] >> 18)
	out[25] = byte((s[6] >> 26) | (s[7] << 3))
	out[26] = byte(s[7] >> 5)
	out[27] = byte(s[7] >> 13)
	out[28] = byte(s[7] >> 21)
	out[29] = byte(s[8])
	out[30] = byte(s[8] >> 8)
	out[31] = byte(s[8] >> 16)
	return out
}

// unpackedSub computes a - b, conditionally adding ell back if the
// subtraction borrowed.
func unpackedSub(a, b *unpackedScalar) unpackedScalar {
	var difference unpackedScalar
	var borrow uint32
	for i := 0; i < 9; i++ {
		borrow = a[i] - (b[i] + (borrow >> 31))
		difference[i] = borrow & scalarLimbMask
	}

	underflowMask := ((borrow >> 31) ^ 1) - 1
	var carry uint32
	for i := 0; i < 9; i++ {
		carry = (carry >> 29) + difference[i] + (groupOrder[i] & underflowMask)
		difference[i] = carry & scalarLimbMask
	}
	return difference
}

// add computes a + b mod ell.
func (a *unpackedScalar) add(b *unpackedScalar) unpackedScalar {
	var sum unpackedScalar
	var carry uint32
	for i := 0; i < 9; i++ {
		carry = a[i] + b[i] + (carry >> 29)
		sum[i] = carry & scalarLimbMask
	}
	return unpackedSub(&sum, &groupOrder)
}

// subtract computes a - b mod ell.
func (a *unpackedScalar) subtract(b *unpackedScalar) unpackedScalar {
	return unpackedSub(a, b)
}

// mulInternal computes the 17-lane unreduced product a*b, via the
// (a_low+a_high)*(b_low+b_high) Karatsuba identity splitting each 9-limb
// operand at index 5.
func mulInternal(a, b *unpackedScalar) [17]uint64 {
	var z [17]uint64

	z[0] = m(a[0], b[0])
	z[1] = m(a[0], b[1]) + m(a[1], b[0])
	z[2] = m(a[0], b[2]) + m(a[1], b[1]) + m(a[2], b[0])
	z[3] = m(a[0], b[3]) + m(a[1], b[2]) + m(a[2], b[1]) + m(a[3], b[0])
	z[4] = m(a[0], b[4]) + m(a[1], b[3]) + m(a[2], b[2]) + m(a[3], b[1]) + m(a[4], b[0])
	z[5] = m(a[1], b[4]) + m(a[2], b[3]) + m(a[3], b[2]) + m(a[4], b[1])
	z[6] = m(a[2], b[4]) + m(a[3], b[3]) + m(a[4], b[2])
	z[7] = m(a[3], b[4]) + m(a[4], b[3])
	z[8] = m(a[4], b[4]) - z[3]

	z[10] = z[5] - m(a[5], b[5])
	z[11] = z[6] - (m(a[5], b[6]) + m(a[6], b[5]))
	z[12] = z[7] - (m(a[5], b[7]) + m(a[6], b[6]) + m(a[7], b[5]))
	z[13] = m(a[5], b[8]) + m(a[6], b[7]) + m(a[7], b[6]) + m(a[8], b[5])
	z[14] = m(a[6], b[8]) + m(a[7], b[7]) + m(a[8], b[6])
	z[15] = m(a[7], b[8]) + m(a[8], b[7])
	z[16] = m(a[8], b[8])

	z[5] = z[10] - z[0]
	z[6] = z[11] - z[1]
	z[7] = z[12] - z[2]
	z[8] = z[8] - z[13]
	z[9] = z[14] + z[4]
	z[10] = z[15] + z[10]
	z[11] = z[16] + z[11]

	aa0 := a[0] + a[5]
	aa1 := a[1] + a[6]
	aa2 := a[2] + a[7]
	aa3 := a[3] + a[8]

	bb0 := b[0] + b[5]
	bb1 := b[1] + b[6]
	bb2 := b[2] + b[7]
	bb3 := b[3] + b[8]

	z[5] = m(aa0, bb0) + z[5]
	z[6] = m(aa0, bb1) + m(aa1, bb0) + z[6]
	z[7] = m(aa0, bb2) + m(aa1, bb1) + m(aa2, bb0) + z[7]
	z[8] = m(aa0, bb3) + m(aa1, bb2) + m(aa2, bb1) + m(aa3, bb0) + z[8]
	z[9] = m(aa0, b[4]) + m(aa1, bb3) + m(aa2, bb2) + m(aa3, bb1) + m(a[4], bb0) - z[9]
	z[10] = m(aa1, b[4]) + m(aa2, bb3) + m(aa3, bb2) + m(a[4], bb1) - z[10]
	z[11] = m(aa2, b[4]) + m(aa3, bb3) + m(a[4], bb2) - z[11]
	z[12] = m(aa3, b[4]) + m(a[4], bb3) - z[12]

	return z
}

func scalarPart1(sum uint64) (uint64, uint32) {
	p := uint32(sum) * lfactor & scalarLimbMask
	return (sum + m(p, groupOrder[0])) >> 29, p
}

func scalarPart2(sum uint64) (uint64, uint32) {
	w := uint32(sum) & scalarLimbMask
	return sum >> 29, w
}

// montgomeryReduce reduces the unreduced 17-lane product of two Montgomery-
// form operands back down to nine limbs representing (that product)/R mod
// ell, using LFACTOR = ell*(-1) mod 2^29.
func montgomeryReduce(limbs *[17]uint64) unpackedScalar {
	l := &groupOrder

	carry, n0 := scalarPart1(limbs[0])
	carry, n1 := scalarPart1(carry + limbs[1] + m(n0, l[1]))
	carry, n2 := scalarPart1(carry + limbs[2] + m(n0, l[2]) + m(n1, l[1]))
	carry, n3 := scalarPart1(carry + limbs[3] + m(n0, l[3]) + m(n1, l[2]) + m(n2, l[1]))
	carry, n4 := scalarPart1(carry + limbs[4] + m(n0, l[4]) + m(n1, l[3]) + m(n2, l[2]) + m(n3, l[1]))
	carry, n5 := scalarPart1(carry + limbs[5] + m(n1, l[4]) + m(n2, l[3]) + m(n3, l[2]) + m(n4, l[1]))
	carry, n6 := scalarPart1(carry + limbs[6] + m(n2, l[4]) + m(n3, l[3]) + m(n4, l[2]) + m(n5, l[1]))
	carry, n7 := scalarPart1(carry + limbs[7] + m(n3, l[4]) + m(n4, l[3]) + m(n5, l[2]) + m(n6, l[1]))
	carry, n8 := scalarPart1(carry + limbs[8] + m(n0, l[8]) + m(n4, l[4]) + m(n5, l[3]) + m(n6, l[2]) + m(n7, l[1]))

	carry, r0 := scalarPart2(carry + limbs[9] + m(n1, l[8]) + m(n5, l[4]) + m(n6, l[3]) + m(n7, l[2]) + m(n8, l[1]))
	carry, r1 := scalarPart2(carry + limbs[10] + m(n2, l[8]) + m(n6, l[4]) + m(n7, l[3]) + m(n8, l[2]))
	carry, r2 := scalarPart2(carry + limbs[11] + m(n3, l[8]) + m(n7, l[4]) + m(n8, l[3]))
	carry, r3 := scalarPart2(carry + limbs[12] + m(n4, l[8]) + m(n8, l[4]))
	carry, r4 := scalarPart2(carry + limbs[13] + m(n5, l[8]))
	carry, r5 := scalarPart2(carry + limbs[14] + m(n6, l[8]))
	carry, r6 := scalarPart2(carry + limbs[15] + m(n7, l[8]))
	carry, r7 := scalarPart2(carry + limbs[16] + m(n8, l[8]))
	r8 := uint32(carry)

	result := unpackedScalar{r0, r1, r2, r3, r4, r5, r6, r7, r8}
	return unpackedSub(&result, l)
}

// montgomeryMul computes a*b/R mod ell, the Montgomery-form product.
func montgomeryMul(a, b *unpackedScalar) unpackedScalar {
	limbs := mulInternal(a, b)
	return montgomeryReduce(&limbs)
}

// multiply computes a*b mod ell: one Montgomery multiply to get a*b*R^-1,
// then another by RR = R^2 to cancel the spurious R^-1 factor back out.
func (a *unpackedScalar) multiply(b *unpackedScalar) unpackedScalar {
	ab := montgomeryMul(a, b)
	return montgomeryMul(&ab, &montgomeryRR)
}

// fromBytesModOrder reduces a little-endian 32-byte integer modulo ell.
func fromBytesModOrder(in *[32]byte) Scalar {
	unpacked := unpack(in)
	reduced := montgomeryMul(&unpacked, &montgomeryR) // x*R/R = x mod ell
	return Scalar{s: reduced.pack()}
}

// fromBytesModOrderWide reduces a little-endian 64-byte (512-bit) integer
// modulo ell, by splitting it into a low part of 261 bits and a high part
// of 251 bits (in = lo + hi*2^261) and combining them with the Montgomery
// constants R = 2^261 mod ell and RR = R^2 mod ell.
func fromBytesModOrderWide(in *[64]byte) Scalar {
	var lo, hi [32]byte
	copy(lo[:], in[0:32])
	for i := 0; i < 31; i++ {
		hi[i] = in[32+i]>>5 | in[33+i]<<3
	}
	hi[31] = in[63] >> 5

	loUnpacked := unpack(&lo)
	loUnpacked[8] |= uint32(in[32]&0x1f) << 24 // bits 256..260
	hiUnpacked := unpack(&hi)

	loR := montgomeryMul(&loUnpacked, &montgomeryR)   // lo*R/R = lo
	hiRR := montgomeryMul(&hiUnpacked, &montgomeryRR) // hi*R^2/R = hi*2^261
	result := loR.add(&hiRR)
	return Scalar{s: result.pack()}
}

// fromCanonicalBytes decodes a 32-byte Scalar, rejecting any encoding whose
// integer value is >= ell or whose high bit is set.
func fromCanonicalBytes(in [32]byte) (Scalar, error) {
	if in[31]&0x80 != 0 {
		return Scalar{}, ErrScalarHighBitSet
	}

	// in < ell iff subtracting ell from in borrows out of the top limb.
	var borrow int
	for i := 0; i < 32; i++ {
		borrow = (int(in[i]) - int(basepointOrder[i]) - borrow)
		if borrow < 0 {
			borrow = 1
		} else {
			borrow = 0
		}
	}
	if borrow == 0 {
		return Scalar{}, ErrScalarNotCanonical
	}

	return Scalar{s: in}, nil
}

// fromBits constructs a Scalar from 32 raw bytes, forcibly clearing the
// high bit rather than rejecting it.
func fromBits(in [32]byte) Scalar {
	in[31] &= 0x7F
	return Scalar{s: in}
}

// Bytes returns s's 32-byte little-endian encoding.
func (s *Scalar) Bytes() [32]byte {
	return s.s
}

// ctEquals reports whether s and that have identical byte encodings, in
// time independent of their values.
func (s *Scalar) ctEquals(that *Scalar) int {
	return subtle.EqualBytes(s.s[:], that.s[:])
}

// Equal reports whether s and that are the same byte encoding. Scalars
// produced only through the reduction entry points are also equal as
// integers mod ell whenever this returns true.
func (s *Scalar) Equal(that *Scalar) bool {
	return s.ctEquals(that) == 1
}

// Multiply sets s = a*b mod ell and returns s.
func (s *Scalar) Multiply(a, b *Scalar) *Scalar {
	aUnpacked := unpack(&a.s)
	bUnpacked := unpack(&b.s)
	product := aUnpacked.multiply(&bUnpacked)
	s.s = product.pack()
	return s
}

// MultiplyAndAdd sets s = a*b + c mod ell and returns s.
func (s *Scalar) MultiplyAndAdd(a, b, c *Scalar) *Scalar {
	aUnpacked := unpack(&a.s)
	bUnpacked := unpack(&b.s)
	cUnpacked := unpack(&c.s)

	ab := aUnpacked.multiply(&bUnpacked)
	sum := ab.add(&cUnpacked)
	s.s = sum.pack()
	return s
}

// toRadix16 unpacks s into 64 signed nibbles in [-8, 8], each weighted by
// 16^i, the digit set consumed by the constant-time variable-base ladder.
func (s *Scalar) toRadix16() [64]int8 {
	var output [64]int8
	for i := 0; i < 32; i++ {
		output[2*i] = int8(s.s[i] & 0x0F)
		output[2*i+1] = int8((s.s[i] >> 4) & 0x0F)
	}

	var carry int8
	for i := 0; i < 63; i++ {
		output[i] += carry
		carry = (output[i] + 8) >> 4
		output[i] -= carry << 4
	}
	output[63] += carry

	return output
}

// nonAdjacentForm computes the width-w non-adjacent form of s: a 256-entry
// signed-digit expansion with odd, nonzero digits in (-2^(w-1), 2^(w-1))
// separated by at least w-1 zero positions. Only variable-time consumers
// (the double-base multiply) use this.
func (s *Scalar) nonAdjacentForm(w uint) [256]int8 {
	var naf [256]int8

	var x [5]uint64
	for i := 0; i < 4; i++ {
		x[i] = uint64(s.s[8*i]) | uint64(s.s[8*i+1])<<8 | uint64(s.s[8*i+2])<<16 | uint64(s.s[8*i+3])<<24 |
			uint64(s.s[8*i+4])<<32 | uint64(s.s[8*i+5])<<40 | uint64(s.s[8*i+6])<<48 | uint64(s.s[8*i+7])<<56
	}

	width := uint64(1) << w
	windowMask := width - 1

	pos := uint(0)
	carry := uint64(0)
	for pos < 256 {
		idx := pos / 64
		bitIdx := pos % 64
		var bitBuf uint64
		if bitIdx < 64-w {
			bitBuf = x[idx] >> bitIdx
		} else {
			bitBuf = (x[idx] >> bitIdx) | (x[idx+1] << (64 - bitIdx))
		}

		windowBits := carry + (bitBuf & windowMask)

		if windowBits&1 == 0 {
			pos += 1
			continue
		}

		if windowBits > width/2 {
			naf[pos] = int8(windowBits) - int8(width)
		} else {
			naf[pos] = int8(windowBits)
		}

		carry = (windowBits - uint64(naf[pos])) >> w
		pos += w
	}

	return naf
}
