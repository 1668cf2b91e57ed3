package curve25519

// This file collects the literal constants the rest of the package is built
// on: the Edwards curve parameter d (and small multiples/combinations of it
// used by point compression and Ristretto), sqrt(-1) and the other square
// roots used by decompression, the Ed25519 basepoint in extended
// coordinates, and the Montgomery-arithmetic constants for Scalar/
// UnpackedScalar. Literal values are bit-for-bit the limbs of the reference
// implementation this package is ported from; NEG_EDWARDS_D, ONE_MINUS_D_SQ
// and D_MINUS_ONE_SQ are computed from EDWARDS_D in init.

// EDWARDS_D is the twisted Edwards curve parameter d = -121665/121666 mod p.
var EDWARDS_D = FieldElement{-10913610, 13857413, -15372611, 6949391, 114729,
	-8787816, -6275908, -3247719, -18696448, -12055116}

// EDWARDS_2D is 2*d.
var EDWARDS_2D = FieldElement{-21827239, -5839606, -30745221, 13898782, 229458,
	15978800, -12551817, -6495438, 29715968, 9444199}

// NEG_EDWARDS_D is -d.
var NEG_EDWARDS_D FieldElement

// ONE_MINUS_D_SQ is 1 - d^2, used by the Ristretto MAP function.
var ONE_MINUS_D_SQ FieldElement

// D_MINUS_ONE_SQ is (d-1)^2, used by the Ristretto MAP function.
var D_MINUS_ONE_SQ FieldElement

// SQRT_AD_MINUS_ONE is sqrt(a*d - 1) with a = -1, used by Ristretto
// encode/decode.
var SQRT_AD_MINUS_ONE = FieldElement{24849947, -153582, -23613485, 6347715,
	-21072328, -667138, -25271143, -15367704, -870347, 14525639}

// INVSQRT_A_MINUS_D is 1/sqrt(a - d) with a = -1, used by Ristretto encode.
var INVSQRT_A_MINUS_D = FieldElement{6111485, 4156064, -27798727, 12243468,
	-25904040, 120897, 20826367, -7060776, 6093568, -1986012}

// SQRT_M1 is a square root of -1 mod p.
var SQRT_M1 = FieldElement{-32595792, -7943725, 9377950, 3500415, 12389472,
	-272473, -25146209, -2005654, 326686, 11406482}

func init() {
	NEG_EDWARDS_D.Negate(&EDWARDS_D)

	var dSquared FieldElement
	dSquared.Square(&EDWARDS_D)
	ONE_MINUS_D_SQ.Subtract(&ONE, &dSquared)

	var dMinusOne FieldElement
	dMinusOne.Subtract(&EDWARDS_D, &ONE)
	D_MINUS_ONE_SQ.Square(&dMinusOne)
}

// ed25519BasepointX, ed25519BasepointY, ed25519BasepointZ and
// ed25519BasepointT are the extended coordinates of the standard Ed25519
// basepoint B.
var ed25519BasepointX = FieldElement{-14297830, -7645148, 16144683, -16471763,
	27570974, -2696100, -26142465, 8378389, 20764389, 8758491}
var ed25519BasepointY = FieldElement{-26843541, -6710886, 13421773, -13421773,
	26843546, 6710886, -13421773, 13421773, -26843546, -6710886}
var ed25519BasepointZ = FieldElement{1, 0, 0, 0, 0, 0, 0, 0, 0, 0}
var ed25519BasepointT = FieldElement{28827062, -6116119, -27349572, 244363,
	8635006, 11264893, 19351346, 13413597, 16611511, -6414980}

// basepointOrder is the 32-byte little-endian encoding of the group order
// ell = 2^252 + 27742317777372353535851937790883648493.
var basepointOrder = [32]byte{
	0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58,
	0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
}

// lfactor is ell * (-1) mod 2^29, the Montgomery constant used by
// montgomeryReduce.
const lfactor uint32 = 0x12547e1b

// montgomeryR is R = 2^261 mod ell, as nine 29-bit limbs.
var montgomeryR = unpackedScalar{0x114df9ed, 0x1a617303, 0x0f7c098c, 0x16793167,
	0x1ffd656e, 0x1fffffff, 0x1fffffff, 0x1fffffff, 0x000fffff}

// montgomeryRR is R^2 = 2^522 mod ell, as nine 29-bit limbs.
var montgomeryRR = unpackedScalar{0x0b5f9d12, 0x1e141b17, 0x158d7f3d, 0x143f3757,
	0x1972d781, 0x042feb7c, 0x1ceec73d, 0x1e184d1e, 0x0005046d}
