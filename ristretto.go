package curve25519

import "github.com/cryptography-cafe/curve25519-elisabeth/subtle"

// RistrettoElement is an element of the prime-order ristretto255 group, the
// quotient of the curve by its 4-torsion subgroup. Internally it is just an
// EdwardsPoint representative of the equivalence class; repr is not
// canonical, so equality must go through ctEquals/Equal, never a
// field-by-field comparison of repr.
type RistrettoElement struct {
	repr EdwardsPoint
}

// RistrettoIdentity is the identity element of the ristretto255 group.
var RistrettoIdentity = RistrettoElement{repr: IdentityPoint}

// ristrettoMap is the MAP(t) function from section 3.2.4 of the ristretto255
// draft: deterministically maps a field element onto a curve point whose
// class in the quotient group is (nearly) uniform when t is uniform.
func ristrettoMap(t *FieldElement) RistrettoElement {
	var r, u, v FieldElement
	r.Square(t)
	r.Multiply(&r, &SQRT_M1)

	u.Add(&r, &ONE)
	u.Multiply(&u, &ONE_MINUS_D_SQ)

	var rPlusD, oneMinusRD FieldElement
	rPlusD.Add(&r, &EDWARDS_D)
	oneMinusRD.Multiply(&r, &EDWARDS_D)
	oneMinusRD.Subtract(&MINUS_ONE, &oneMinusRD)
	v.Multiply(&oneMinusRD, &rPlusD)

	var s FieldElement
	wasSquare := sqrtRatioM1(&s, &u, &v)

	var sPrime FieldElement
	sPrime.Multiply(&s, t)
	sPrime.ctAbs(&sPrime)
	sPrime.Negate(&sPrime)
	s.ctSelect(&sPrime, &s, int32(wasSquare))

	var c FieldElement
	c.ctSelect(&r, &MINUS_ONE, int32(wasSquare))

	var rMinus1, N FieldElement
	rMinus1.Subtract(&r, &ONE)
	N.Multiply(&c, &rMinus1)
	N.Multiply(&N, &D_MINUS_ONE_SQ)
	N.Subtract(&N, &v)

	var sSq, w0, w1, w2, w3 FieldElement
	sSq.Square(&s)
	w0.Add(&s, &s)
	w0.Multiply(&w0, &v)
	w1.Multiply(&N, &SQRT_AD_MINUS_ONE)
	w2.Subtract(&ONE, &sSq)
	w3.Add(&ONE, &sSq)

	var p EdwardsPoint
	p.X.Multiply(&w0, &w3)
	p.Y.Multiply(&w2, &w1)
	p.Z.Multiply(&w1, &w3)
	p.T.Multiply(&w0, &w2)
	return RistrettoElement{repr: p}
}

// RistrettoFromUniformBytes constructs a ristretto255 element from a
// uniformly-distributed 64-byte string (the ristretto255 FROM_UNIFORM_BYTES
// function), suitable for hash-to-group constructions.
func RistrettoFromUniformBytes(b *[64]byte) RistrettoElement {
	var b0, b1 [32]byte
	copy(b0[:], b[0:32])
	copy(b1[:], b[32:64])

	var r0, r1 FieldElement
	r0.FromBytes(&b0)
	r1.FromBytes(&b1)

	p1 := ristrettoMap(&r0)
	p2 := ristrettoMap(&r1)
	return p1.Add(&p2)
}

// Compress encodes e using the Ristretto encoding (the ristretto255 ENCODE
// function).
func (e *RistrettoElement) Compress() CompressedRistretto {
	var u1, u2, zMinusY, zPlusY FieldElement
	zPlusY.Add(&e.repr.Z, &e.repr.Y)
	zMinusY.Subtract(&e.repr.Z, &e.repr.Y)
	u1.Multiply(&zPlusY, &zMinusY)
	u2.Multiply(&e.repr.X, &e.repr.Y)

	var u2Sq, invsqrt FieldElement
	u2Sq.Square(&u2)
	var u1u2Sq FieldElement
	u1u2Sq.Multiply(&u1, &u2Sq)
	sqrtRatioM1(&invsqrt, &ONE, &u1u2Sq)

	var den1, den2, zInv FieldElement
	den1.Multiply(&invsqrt, &u1)
	den2.Multiply(&invsqrt, &u2)
	zInv.Multiply(&den1, &den2)
	zInv.Multiply(&zInv, &e.repr.T)

	var ix, iy, enchantedDenominator FieldElement
	ix.Multiply(&e.repr.X, &SQRT_M1)
	iy.Multiply(&e.repr.Y, &SQRT_M1)
	enchantedDenominator.Multiply(&den1, &INVSQRT_A_MINUS_D)

	var tZInv FieldElement
	tZInv.Multiply(&e.repr.T, &zInv)
	rotate := tZInv.isNegative()

	var x, y, denInv FieldElement
	x.ctSelect(&e.repr.X, &iy, int32(rotate))
	y.ctSelect(&e.repr.Y, &ix, int32(rotate))
	denInv.ctSelect(&den2, &enchantedDenominator, int32(rotate))

	var xZInv, negY FieldElement
	xZInv.Multiply(&x, &zInv)
	negY.Negate(&y)
	y.ctSelect(&y, &negY, int32(xZInv.isNegative()))

	var s, negS, zMinusY2 FieldElement
	zMinusY2.Subtract(&e.repr.Z, &y)
	s.Multiply(&denInv, &zMinusY2)
	negS.Negate(&s)
	s.ctSelect(&s, &negS, int32(s.isNegative()))

	var out CompressedRistretto
	s.ToBytes(&out.b)
	return out
}

// ctEquals reports whether e and that represent the same ristretto255
// element (the ristretto255 EQUALS function), in time independent of their
// values.
func (e *RistrettoElement) ctEquals(that *RistrettoElement) int {
	var X1Y2, Y1X2, Y1Y2, X1X2 FieldElement
	X1Y2.Multiply(&e.repr.X, &that.repr.Y)
	Y1X2.Multiply(&e.repr.Y, &that.repr.X)
	Y1Y2.Multiply(&e.repr.Y, &that.repr.Y)
	X1X2.Multiply(&e.repr.X, &that.repr.X)
	return X1Y2.ctEquals(&Y1X2) | Y1Y2.ctEquals(&X1X2)
}

// Equal reports whether e and that represent the same ristretto255 element.
func (e *RistrettoElement) Equal(that *RistrettoElement) bool {
	return e.ctEquals(that) == 1
}

// ctSelect sets e to a if b == 0, or to that if b == 1, and returns e.
func (e *RistrettoElement) ctSelect(a, that *RistrettoElement, b int32) *RistrettoElement {
	e.repr.ctSelect(&a.repr, &that.repr, b)
	return e
}

// Add returns e+q.
func (e *RistrettoElement) Add(q *RistrettoElement) RistrettoElement {
	sum := e.repr.Add(&q.repr)
	return RistrettoElement{repr: sum}
}

// Subtract returns e-q.
func (e *RistrettoElement) Subtract(q *RistrettoElement) RistrettoElement {
	diff := e.repr.Subtract(&q.repr)
	return RistrettoElement{repr: diff}
}

// Negate returns -e.
func (e *RistrettoElement) Negate() RistrettoElement {
	return RistrettoElement{repr: e.repr.Negate()}
}

// Double returns [2]e.
func (e *RistrettoElement) Double() RistrettoElement {
	return RistrettoElement{repr: e.repr.Double()}
}

// Multiply returns [s]e via a constant-time variable-base scalar multiply.
func (e *RistrettoElement) Multiply(s *Scalar) RistrettoElement {
	return RistrettoElement{repr: e.repr.Multiply(s)}
}

// CompressedRistretto is the 32-byte wire encoding of a RistrettoElement.
// Unlike CompressedEdwardsY, the Ristretto encoding is canonical: two
// RistrettoElements are equal if and only if their encodings are equal.
type CompressedRistretto struct {
	b [32]byte
}

// NewCompressedRistretto wraps a 32-byte encoding without validating it;
// validation happens in Decompress.
func NewCompressedRistretto(b [32]byte) CompressedRistretto {
	return CompressedRistretto{b: b}
}

// Bytes returns c's 32-byte encoding.
func (c *CompressedRistretto) Bytes() [32]byte {
	return c.b
}

// ctEquals reports whether c and that have the same encoding, in time
// independent of their values.
func (c *CompressedRistretto) ctEquals(that *CompressedRistretto) int {
	return subtle.EqualBytes(c.b[:], that.b[:])
}

// Equal reports whether c and that have the same encoding.
func (c *CompressedRistretto) Equal(that *CompressedRistretto) bool {
	return c.ctEquals(that) == 1
}

// Decompress attempts to decode c into a RistrettoElement (the ristretto255
// DECODE function), returning ErrInvalidEncoding if c is not the canonical
// encoding of a ristretto255 group element.
func (c *CompressedRistretto) Decompress() (RistrettoElement, error) {
	var s FieldElement
	s.FromBytes(&c.b)

	var sBytes [32]byte
	s.ToBytes(&sBytes)
	if subtle.EqualBytes(c.b[:], sBytes[:]) == 0 || s.isNegative() == 1 {
		return RistrettoElement{}, ErrInvalidEncoding
	}

	var ss, u1, u2, u2Sqr FieldElement
	ss.Square(&s)
	u1.Subtract(&ONE, &ss)
	u2.Add(&ONE, &ss)
	u2Sqr.Square(&u2)

	var u1Sq, v FieldElement
	u1Sq.Square(&u1)
	v.Multiply(&NEG_EDWARDS_D, &u1Sq)
	v.Subtract(&v, &u2Sqr)

	var vu2Sqr, invsqrt FieldElement
	vu2Sqr.Multiply(&v, &u2Sqr)
	wasSquare := sqrtRatioM1(&invsqrt, &ONE, &vu2Sqr)

	var denX, denY FieldElement
	denX.Multiply(&invsqrt, &u2)
	denY.Multiply(&invsqrt, &denX)
	denY.Multiply(&denY, &v)

	var x, y, t FieldElement
	x.Add(&s, &s)
	x.Multiply(&x, &denX)
	x.ctAbs(&x)
	y.Multiply(&u1, &denY)
	t.Multiply(&x, &y)

	if wasSquare == 0 || t.isNegative() == 1 || y.isZero() == 1 {
		return RistrettoElement{}, ErrInvalidEncoding
	}

	var p EdwardsPoint
	p.X = x
	p.Y = y
	p.Z = ONE
	p.T = t
	return RistrettoElement{repr: p}, nil
}
