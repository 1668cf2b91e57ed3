package curve25519

import (
	"errors"

	"github.com/cryptography-cafe/curve25519-elisabeth/subtle"
)

// ErrInvalidEncoding is returned by CompressedEdwardsY.Decompress and
// CompressedRistretto.Decompress when the 32-byte input is not a valid
// encoding of a point on the curve (or, for Ristretto, not the canonical
// encoding of a group element).
var ErrInvalidEncoding = errors.New("curve25519: invalid point encoding")

// EdwardsPoint is a point on the twisted Edwards curve -x^2+y^2=1+d*x^2*y^2,
// held in extended homogeneous coordinates (X:Y:Z:T) with X*Y=Z*T and Z!=0.
// Two EdwardsPoints may represent the same point with different (X,Y,Z,T);
// use Equal, never a field-by-field comparison.
type EdwardsPoint struct {
	X, Y, Z, T FieldElement
}

// IdentityPoint is the identity element of the curve group, (0,1).
var IdentityPoint = EdwardsPoint{X: ZERO, Y: ONE, Z: ONE, T: ZERO}

// Compress encodes p as a CompressedEdwardsY.
func (p *EdwardsPoint) Compress() CompressedEdwardsY {
	var recip, x, y FieldElement
	recip.Invert(&p.Z)
	x.Multiply(&p.X, &recip)
	y.Multiply(&p.Y, &recip)

	var out CompressedEdwardsY
	y.ToBytes(&out.b)
	out.b[31] |= byte(x.isNegative() << 7)
	return out
}

// ctEquals reports whether p and q represent the same point, in time
// independent of their values, by comparing compressed encodings.
func (p *EdwardsPoint) ctEquals(q *EdwardsPoint) int {
	pc := p.Compress()
	qc := q.Compress()
	return pc.ctEquals(&qc)
}

// Equal reports whether p and q represent the same point.
func (p *EdwardsPoint) Equal(q *EdwardsPoint) bool {
	return p.ctEquals(q) == 1
}

// ctSelect sets p to a if b == 0, or to that if b == 1, and returns p.
func (p *EdwardsPoint) ctSelect(a, that *EdwardsPoint, b int32) *EdwardsPoint {
	p.X.ctSelect(&a.X, &that.X, b)
	p.Y.ctSelect(&a.Y, &that.Y, b)
	p.Z.ctSelect(&a.Z, &that.Z, b)
	p.T.ctSelect(&a.T, &that.T, b)
	return p
}

func (p *EdwardsPoint) toProjective() projectivePoint {
	return projectivePoint{X: p.X, Y: p.Y, Z: p.Z}
}

func (p *EdwardsPoint) toProjectiveNiels() projectiveNielsPoint {
	var r projectiveNielsPoint
	r.YPlusX.Add(&p.Y, &p.X)
	r.YMinusX.Subtract(&p.Y, &p.X)
	r.Z = p.Z
	r.T2D.Multiply(&p.T, &EDWARDS_2D)
	return r
}

func (p *EdwardsPoint) toAffineNiels() affineNielsPoint {
	var recip, x, y, xy2D FieldElement
	recip.Invert(&p.Z)
	x.Multiply(&p.X, &recip)
	y.Multiply(&p.Y, &recip)
	xy2D.Multiply(&x, &y)
	xy2D.Multiply(&xy2D, &EDWARDS_2D)

	var r affineNielsPoint
	r.yPlusx.Add(&y, &x)
	r.yMinusx.Subtract(&y, &x)
	r.xy2D = xy2D
	return r
}

// Add returns p+q.
func (p *EdwardsPoint) Add(q *EdwardsPoint) EdwardsPoint {
	qNiels := q.toProjectiveNiels()
	c := p.addProjectiveNiels(&qNiels)
	return c.toExtended()
}

func (p *EdwardsPoint) addProjectiveNiels(q *projectiveNielsPoint) completedPoint {
	var YPlusX, YMinusX, PP, MM, TT2D, ZZ, ZZ2 FieldElement
	YPlusX.Add(&p.Y, &p.X)
	YMinusX.Subtract(&p.Y, &p.X)
	PP.Multiply(&YPlusX, &q.YPlusX)
	MM.Multiply(&YMinusX, &q.YMinusX)
	TT2D.Multiply(&p.T, &q.T2D)
	ZZ.Multiply(&p.Z, &q.Z)
	ZZ2.Add(&ZZ, &ZZ)

	var r completedPoint
	r.X.Subtract(&PP, &MM)
	r.Y.Add(&PP, &MM)
	r.Z.Add(&ZZ2, &TT2D)
	r.T.Subtract(&ZZ2, &TT2D)
	return r
}

func (p *EdwardsPoint) addAffineNiels(q *affineNielsPoint) completedPoint {
	var YPlusX, YMinusX, PP, MM, Txy2D, Z2 FieldElement
	YPlusX.Add(&p.Y, &p.X)
	YMinusX.Subtract(&p.Y, &p.X)
	PP.Multiply(&YPlusX, &q.yPlusx)
	MM.Multiply(&YMinusX, &q.yMinusx)
	Txy2D.Multiply(&p.T, &q.xy2D)
	Z2.Add(&p.Z, &p.Z)

	var r completedPoint
	r.X.Subtract(&PP, &MM)
	r.Y.Add(&PP, &MM)
	r.Z.Add(&Z2, &Txy2D)
	r.T.Subtract(&Z2, &Txy2D)
	return r
}

// Subtract returns p-q.
func (p *EdwardsPoint) Subtract(q *EdwardsPoint) EdwardsPoint {
	qNiels := q.toProjectiveNiels()
	c := p.subtractProjectiveNiels(&qNiels)
	return c.toExtended()
}

func (p *EdwardsPoint) subtractProjectiveNiels(q *projectiveNielsPoint) completedPoint {
	var YPlusX, YMinusX, PM, MP, TT2D, ZZ, ZZ2 FieldElement
	YPlusX.Add(&p.Y, &p.X)
	YMinusX.Subtract(&p.Y, &p.X)
	PM.Multiply(&YPlusX, &q.YMinusX)
	MP.Multiply(&YMinusX, &q.YPlusX)
	TT2D.Multiply(&p.T, &q.T2D)
	ZZ.Multiply(&p.Z, &q.Z)
	ZZ2.Add(&ZZ, &ZZ)

	var r completedPoint
	r.X.Subtract(&PM, &MP)
	r.Y.Add(&PM, &MP)
	r.Z.Subtract(&ZZ2, &TT2D)
	r.T.Add(&ZZ2, &TT2D)
	return r
}

func (p *EdwardsPoint) subtractAffineNiels(q *affineNielsPoint) completedPoint {
	var YPlusX, YMinusX, PM, MP, Txy2D, Z2 FieldElement
	YPlusX.Add(&p.Y, &p.X)
	YMinusX.Subtract(&p.Y, &p.X)
	PM.Multiply(&YPlusX, &q.yMinusx)
	MP.Multiply(&YMinusX, &q.yPlusx)
	Txy2D.Multiply(&p.T, &q.xy2D)
	Z2.Add(&p.Z, &p.Z)

	var r completedPoint
	r.X.Subtract(&PM, &MP)
	r.Y.Add(&PM, &MP)
	r.Z.Subtract(&Z2, &Txy2D)
	r.T.Add(&Z2, &Txy2D)
	return r
}

// Negate returns -p.
func (p *EdwardsPoint) Negate() EdwardsPoint {
	var r EdwardsPoint
	r.X.Negate(&p.X)
	r.Y = p.Y
	r.Z = p.Z
	r.T.Negate(&p.T)
	return r
}

// Double returns [2]p.
func (p *EdwardsPoint) Double() EdwardsPoint {
	proj := p.toProjective()
	c := proj.dbl()
	return c.toExtended()
}

// Multiply returns [s]p via a constant-time signed radix-16 ladder.
func (p *EdwardsPoint) Multiply(s *Scalar) EdwardsPoint {
	table := buildProjectiveNielsLookupTable(p)
	e := s.toRadix16()

	q := IdentityPoint
	for i := 63; i >= 0; i-- {
		q = q.multiplyByPow2(4)
		addend := table.lookup(e[i])
		c := q.addProjectiveNiels(&addend)
		q = c.toExtended()
	}
	return q
}

// VartimeDoubleScalarMultiplyBasepoint computes [a]A+[b]B in variable time,
// where B is the Ed25519 basepoint. a, A and b must not be secret: this is
// the one sanctioned non-constant-time entry point in the package, meant
// for signature verification where every input is already public.
func VartimeDoubleScalarMultiplyBasepoint(a *Scalar, A *EdwardsPoint, b *Scalar) EdwardsPoint {
	aNaf := a.nonAdjacentForm(5)
	bNaf := b.nonAdjacentForm(5)

	tableA := buildProjectiveNielsNafLookupTable(A)
	tableB := basepointNafTable()

	i := 255
	for ; i >= 0; i-- {
		if aNaf[i] != 0 || bNaf[i] != 0 {
			break
		}
	}

	r := IdentityPoint.toProjective()
	for ; i >= 0; i-- {
		t := r.dbl()

		if aNaf[i] > 0 {
			ext := t.toExtended()
			addend := tableA.lookup(aNaf[i])
			t = ext.addProjectiveNiels(&addend)
		} else if aNaf[i] < 0 {
			ext := t.toExtended()
			addend := tableA.lookup(-aNaf[i])
			t = ext.subtractProjectiveNiels(&addend)
		}

		if bNaf[i] > 0 {
			ext := t.toExtended()
			addend := tableB.lookup(bNaf[i])
			t = ext.addAffineNiels(&addend)
		} else if bNaf[i] < 0 {
			ext := t.toExtended()
			addend := tableB.lookup(-bNaf[i])
			t = ext.subtractAffineNiels(&addend)
		}

		r = t.toProjective()
	}

	return r.toExtended()
}

// MultiplyByCofactor returns [8]p.
func (p *EdwardsPoint) MultiplyByCofactor() EdwardsPoint {
	return p.multiplyByPow2(3)
}

// multiplyByPow2 returns [2^k]p by k successive doublings, k > 0.
func (p *EdwardsPoint) multiplyByPow2(k int) EdwardsPoint {
	if k <= 0 {
		panic("curve25519: exponent must be positive and non-zero")
	}
	s := p.toProjective()
	for i := 0; i < k-1; i++ {
		c := s.dbl()
		s = c.toProjective()
	}
	c := s.dbl()
	return c.toExtended()
}

// IsIdentity reports whether p is the identity element.
func (p *EdwardsPoint) IsIdentity() bool {
	return p.Equal(&IdentityPoint)
}

// IsSmallOrder reports whether p is in the 8-torsion subgroup.
func (p *EdwardsPoint) IsSmallOrder() bool {
	q := p.MultiplyByCofactor()
	return q.IsIdentity()
}

// IsTorsionFree reports whether p has no torsion component, i.e. lies in
// the prime-order subgroup generated by the basepoint.
func (p *EdwardsPoint) IsTorsionFree() bool {
	order := fromBits(basepointOrder)
	q := p.Multiply(&order)
	return q.IsIdentity()
}

// CompressedEdwardsY is the 32-byte "Edwards y" encoding of an EdwardsPoint:
// the low 255 bits are the y-coordinate, and the high bit of byte 31 is the
// sign of x.
type CompressedEdwardsY struct {
	b [32]byte
}

// NewCompressedEdwardsY wraps a 32-byte encoding without validating it;
// validation happens in Decompress.
func NewCompressedEdwardsY(b [32]byte) CompressedEdwardsY {
	return CompressedEdwardsY{b: b}
}

// Bytes returns c's 32-byte encoding.
func (c *CompressedEdwardsY) Bytes() [32]byte {
	return c.b
}

// ctEquals reports whether c and that have the same encoding, in time
// independent of their values.
func (c *CompressedEdwardsY) ctEquals(that *CompressedEdwardsY) int {
	return subtle.EqualBytes(c.b[:], that.b[:])
}

// Equal reports whether c and that have the same encoding.
func (c *CompressedEdwardsY) Equal(that *CompressedEdwardsY) bool {
	return c.ctEquals(that) == 1
}

// Decompress attempts to decode c into an EdwardsPoint, returning
// ErrInvalidEncoding if c does not encode a point on the curve.
func (c *CompressedEdwardsY) Decompress() (EdwardsPoint, error) {
	var Y FieldElement
	Y.FromBytes(&c.b)

	var YY, u, v FieldElement
	YY.Square(&Y)
	u.Subtract(&YY, &ONE)
	v.Multiply(&YY, &EDWARDS_D)
	v.Add(&v, &ONE)

	var root FieldElement
	wasSquare := sqrtRatioM1(&root, &u, &v)
	if wasSquare != 1 {
		return EdwardsPoint{}, ErrInvalidEncoding
	}

	var X, negRoot FieldElement
	negRoot.Negate(&root)
	signBit := int32(subtle.Bit(c.b[:], 255))
	X.ctSelect(&negRoot, &root, int32(subtle.Equal(int32(root.isNegative()), signBit)))

	var p EdwardsPoint
	p.X = X
	p.Y = Y
	p.Z = ONE
	p.T.Multiply(&X, &Y)
	return p, nil
}
