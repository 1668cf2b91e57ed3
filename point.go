package curve25519

import "github.com/cryptography-cafe/curve25519-elisabeth/subtle"

// projectivePoint is a point (X:Y:Z) on the P^2 model of the curve, used as
// the input/output of the doubling step of the scalar multiplication
// ladders.
type projectivePoint struct {
	X, Y, Z FieldElement
}

// toExtended converts from P^2 to P^3 (extended) coordinates. Costs 3M+1S.
func (p *projectivePoint) toExtended() EdwardsPoint {
	var q EdwardsPoint
	q.X.Multiply(&p.X, &p.Z)
	q.Y.Multiply(&p.Y, &p.Z)
	q.Z.Square(&p.Z)
	q.T.Multiply(&p.X, &p.Y)
	return q
}

// dbl doubles p, returning the result as a completedPoint.
func (p *projectivePoint) dbl() completedPoint {
	var XX, YY, ZZ2, XPlusY, XPlusYSq, YYPlusXX, YYMinusXX FieldElement
	XX.Square(&p.X)
	YY.Square(&p.Y)
	ZZ2.SquareAndDouble(&p.Z)
	XPlusY.Add(&p.X, &p.Y)
	XPlusYSq.Square(&XPlusY)
	YYPlusXX.Add(&YY, &XX)
	YYMinusXX.Subtract(&YY, &XX)

	var r completedPoint
	r.X.Subtract(&XPlusYSq, &YYPlusXX)
	r.Y.Set(&YYPlusXX)
	r.Z.Set(&YYMinusXX)
	r.T.Subtract(&ZZ2, &YYMinusXX)
	return r
}

// completedPoint is a point ((X:Z),(Y:T)) on the P^1 x P^1 model of the
// curve: the natural output shape of point addition and doubling before the
// caller picks which cheaper coordinate system to continue in.
type completedPoint struct {
	X, Y, Z, T FieldElement
}

// toProjective converts from P^1 x P^1 to P^2. Costs 3M.
func (c *completedPoint) toProjective() projectivePoint {
	var p projectivePoint
	p.X.Multiply(&c.X, &c.T)
	p.Y.Multiply(&c.Y, &c.Z)
	p.Z.Multiply(&c.Z, &c.T)
	return p
}

// toExtended converts from P^1 x P^1 to P^3 (extended). Costs 4M.
func (c *completedPoint) toExtended() EdwardsPoint {
	var q EdwardsPoint
	q.X.Multiply(&c.X, &c.T)
	q.Y.Multiply(&c.Y, &c.Z)
	q.Z.Multiply(&c.Z, &c.T)
	q.T.Multiply(&c.X, &c.Y)
	return q
}

// projectiveNielsPoint is a precomputed point (Y+X, Y-X, Z, 2dXY), cheap to
// add against an extended point without needing an inversion; used for the
// runtime-point lookup tables ([P,2P,...,8P] and the wNAF odd multiples).
type projectiveNielsPoint struct {
	YPlusX, YMinusX, Z, T2D FieldElement
}

// buildProjectiveNielsLookupTable builds [P,2P,3P,...,8P] for the constant-
// time radix-16 ladder: each entry is P added to the previous one.
func buildProjectiveNielsLookupTable(p *EdwardsPoint) *projectiveNielsLookupTable {
	var points [8]projectiveNielsPoint
	points[0] = p.toProjectiveNiels()
	for i := 0; i < 7; i++ {
		sum := p.addProjectiveNiels(&points[i])
		ext := sum.toExtended()
		points[i+1] = ext.toProjectiveNiels()
	}
	return &projectiveNielsLookupTable{table: points}
}

type projectiveNielsLookupTable struct {
	table [8]projectiveNielsPoint
}

// lookup returns [x]P in constant time, for -8 <= x <= 8.
func (t *projectiveNielsLookupTable) lookup(x int8) projectiveNielsPoint {
	xNegative := subtle.IsNegative(int32(x))
	xabs := int32(x) - ((int32(-xNegative) & int32(x)) << 1)

	result := identityProjectiveNiels()
	for i := int32(1); i < 9; i++ {
		b := subtle.Equal(xabs, i)
		result = result.ctSelect(&t.table[i-1], int32(b))
	}

	minus := result.negate()
	return result.ctSelect(&minus, int32(xNegative))
}

func identityProjectiveNiels() projectiveNielsPoint {
	return projectiveNielsPoint{YPlusX: ONE, YMinusX: ONE, Z: ONE}
}

func (p *projectiveNielsPoint) ctSelect(that *projectiveNielsPoint, b int32) projectiveNielsPoint {
	var r projectiveNielsPoint
	r.YPlusX.ctSelect(&p.YPlusX, &that.YPlusX, b)
	r.YMinusX.ctSelect(&p.YMinusX, &that.YMinusX, b)
	r.Z.ctSelect(&p.Z, &that.Z, b)
	r.T2D.ctSelect(&p.T2D, &that.T2D, b)
	return r
}

func (p *projectiveNielsPoint) negate() projectiveNielsPoint {
	return projectiveNielsPoint{
		YPlusX:  p.YMinusX,
		YMinusX: p.YPlusX,
		Z:       p.Z,
		T2D:     *new(FieldElement).Negate(&p.T2D),
	}
}

// projectiveNielsNafLookupTable holds the odd multiples [P,3P,5P,...,15P]
// consumed by VartimeDoubleScalarMultiplyBasepoint's variable-point operand;
// unlike affineNielsNafLookupTable it is built without an inversion, since
// the runtime point A is not worth pre-dehomogenizing for a single use.
type projectiveNielsNafLookupTable struct {
	table [8]projectiveNielsPoint
}

func buildProjectiveNielsNafLookupTable(p *EdwardsPoint) *projectiveNielsNafLookupTable {
	var points [8]projectiveNielsPoint
	points[0] = p.toProjectiveNiels()
	p2 := p.Double()
	for i := 0; i < 7; i++ {
		sum := p2.addProjectiveNiels(&points[i])
		ext := sum.toExtended()
		points[i+1] = ext.toProjectiveNiels()
	}
	return &projectiveNielsNafLookupTable{table: points}
}

// lookup returns [x]P for public, odd 0 < x < 16. Variable-time direct
// index, safe because x is never secret at this call site.
func (t *projectiveNielsNafLookupTable) lookup(x int8) projectiveNielsPoint {
	return t.table[x/2]
}

// affineNielsPoint is a precomputed point (y+x, y-x, 2dxy) on the affine
// model, used only for fixed-base tables where the one-time cost of
// dehomogenizing (an inversion) is amortized across many multiplications.
type affineNielsPoint struct {
	yPlusx, yMinusx, xy2D FieldElement
}

func identityAffineNiels() affineNielsPoint {
	return affineNielsPoint{yPlusx: ONE, yMinusx: ONE}
}

func (p *affineNielsPoint) ctSelect(that *affineNielsPoint, b int32) affineNielsPoint {
	var r affineNielsPoint
	r.yPlusx.ctSelect(&p.yPlusx, &that.yPlusx, b)
	r.yMinusx.ctSelect(&p.yMinusx, &that.yMinusx, b)
	r.xy2D.ctSelect(&p.xy2D, &that.xy2D, b)
	return r
}

func (p *affineNielsPoint) negate() affineNielsPoint {
	return affineNielsPoint{
		yPlusx:  p.yMinusx,
		yMinusx: p.yPlusx,
		xy2D:    *new(FieldElement).Negate(&p.xy2D),
	}
}

// affineNielsLookupTable holds [P,2P,...,8P] for one 4-bit window of a
// fixed-base table.
type affineNielsLookupTable struct {
	table [8]affineNielsPoint
}

func buildAffineNielsLookupTable(p *EdwardsPoint) *affineNielsLookupTable {
	var points [8]affineNielsPoint
	points[0] = p.toAffineNiels()
	for i := 0; i < 7; i++ {
		sum := p.addAffineNiels(&points[i])
		ext := sum.toExtended()
		points[i+1] = ext.toAffineNiels()
	}
	return &affineNielsLookupTable{table: points}
}

// lookup returns [x]P in constant time, for -8 <= x <= 8.
func (t *affineNielsLookupTable) lookup(x int8) affineNielsPoint {
	xNegative := subtle.IsNegative(int32(x))
	xabs := int32(x) - ((int32(-xNegative) & int32(x)) << 1)

	result := identityAffineNiels()
	for i := int32(1); i < 9; i++ {
		b := subtle.Equal(xabs, i)
		result = result.ctSelect(&t.table[i-1], int32(b))
	}

	minus := result.negate()
	return result.ctSelect(&minus, int32(xNegative))
}

// affineNielsNafLookupTable holds the odd multiples [P,3P,...,15P] for the
// fixed Ed25519 basepoint operand of VartimeDoubleScalarMultiplyBasepoint.
type affineNielsNafLookupTable struct {
	table [8]affineNielsPoint
}

func buildAffineNielsNafLookupTable(p *EdwardsPoint) *affineNielsNafLookupTable {
	var points [8]affineNielsPoint
	points[0] = p.toAffineNiels()
	p2 := p.Double()
	for i := 0; i < 7; i++ {
		sum := p2.addAffineNiels(&points[i])
		ext := sum.toExtended()
		points[i+1] = ext.toAffineNiels()
	}
	return &affineNielsNafLookupTable{table: points}
}

// lookup returns [x]P for public, odd 0 < x < 16.
func (t *affineNielsNafLookupTable) lookup(x int8) affineNielsPoint {
	return t.table[x/2]
}
