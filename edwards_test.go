package curve25519

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmthrgd/go-hex"
)

var (
	basepointCompressedHex = "5866666666666666666666666666666666666666666666666666666666666666"
	base2CompressedHex     = "c9a3f86aae465f0e56513864510f3997561fa2c9e85ea21dc2292309f3cd6022"
	base16CompressedHex    = "eb2767c137ab7ad8279c078eff116ab0786ead3a2e0f989f72c37f82f2969670"

	aScalarHex        = "1a0e978a90f6622d3747023f8ad8264da758aa1b88e040d1589e7b7f2376ef09"
	bScalarHex        = "91267acf25c2091ba217747b66f0b32e9df2a56741cfdac456a7d4aab8608a05"
	aTimesBasepointHex = "ea27e26053df1b5956f14d5dec3c34c384a269b74cc3803ea8e2e7c9425e40a5"

	doubleScalarMultResultHex = "7dfd6c45af6d6e0eba20371a236459c4c0468343de704b85096ffe354f132b42"
)

var eightTorsionCompressedHex = []string{
	"0100000000000000000000000000000000000000000000000000000000000000",
	"c7176a703d4dd84fba3c0b760d10670f2a2053fa2c39ccc64ec7fd7792ac037a",
	"0000000000000000000000000000000000000000000000000000000000000080",
	"26e8958fc2b227b045c3f489f2ef98f0d5dfac05d3c63339b13802886d53fc05",
	"ecffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f",
	"26e8958fc2b227b045c3f489f2ef98f0d5dfac05d3c63339b13802886d53fc85",
	"0000000000000000000000000000000000000000000000000000000000000000",
	"c7176a703d4dd84fba3c0b760d10670f2a2053fa2c39ccc64ec7fd7792ac03fa",
}

func compressedEdwardsFromHex(t *testing.T, s string) CompressedEdwardsY {
	t.Helper()
	b := hex.MustDecodeString(s)
	require.Len(t, b, 32)
	var out [32]byte
	copy(out[:], b)
	return NewCompressedEdwardsY(out)
}

func scalarFromPlainHex(t *testing.T, s string) Scalar {
	t.Helper()
	b := hex.MustDecodeString(s)
	require.Len(t, b, 32)
	var out [32]byte
	copy(out[:], b)
	return Scalar{s: out}
}

func TestBasepointCompressDecompressRoundTrip(t *testing.T) {
	c := compressedEdwardsFromHex(t, basepointCompressedHex)
	p, err := c.Decompress()
	require.NoError(t, err)
	got := p.Compress()
	require.True(t, got.Equal(&c))
}

func TestDecompressionSignHandling(t *testing.T) {
	c := compressedEdwardsFromHex(t, basepointCompressedHex)
	b := c.Bytes()
	b[31] |= 1 << 7
	flipped := NewCompressedEdwardsY(b)
	minusB, err := flipped.Decompress()
	require.NoError(t, err)

	var wantX FieldElement
	wantX.Negate(&Basepoint.X)
	require.True(t, minusB.X.Equal(&wantX))
	require.True(t, minusB.Y.Equal(&Basepoint.Y))
	require.True(t, minusB.Z.Equal(&Basepoint.Z))
	var wantT FieldElement
	wantT.Negate(&Basepoint.T)
	require.True(t, minusB.T.Equal(&wantT))
}

func TestEdwardsCtSelect(t *testing.T) {
	var got EdwardsPoint
	got.ctSelect(&Basepoint, &IdentityPoint, 0)
	require.True(t, got.Equal(&Basepoint))
	got.ctSelect(&Basepoint, &IdentityPoint, 1)
	require.True(t, got.Equal(&IdentityPoint))
}

func TestBasepointPlusBasepointIsBase2(t *testing.T) {
	want := compressedEdwardsFromHex(t, base2CompressedHex)

	sum := Basepoint.Add(&Basepoint)
	sumCompressed := sum.Compress()
	require.True(t, sumCompressed.Equal(&want))

	niels := Basepoint.toProjectiveNiels()
	c := Basepoint.addProjectiveNiels(&niels)
	ext := c.toExtended()
	extCompressed := ext.Compress()
	require.True(t, extCompressed.Equal(&want))

	affine := Basepoint.toAffineNiels()
	c2 := Basepoint.addAffineNiels(&affine)
	ext2 := c2.toExtended()
	ext2Compressed := ext2.Compress()
	require.True(t, ext2Compressed.Equal(&want))

	dbl := Basepoint.Double()
	dblCompressed := dbl.Compress()
	require.True(t, dblCompressed.Equal(&want))
}

func TestBasepointDoubleMinusBasepoint(t *testing.T) {
	dbl := Basepoint.Double()
	diff := dbl.Subtract(&Basepoint)
	require.True(t, diff.Equal(&Basepoint))
}

func TestBasepointNegateVsIdentityMinusBasepoint(t *testing.T) {
	neg := Basepoint.Negate()
	diff := IdentityPoint.Subtract(&Basepoint)
	require.True(t, neg.Equal(&diff))
}

func TestScalarMulMatchesReferenceVector(t *testing.T) {
	a := scalarFromPlainHex(t, aScalarHex)
	want := compressedEdwardsFromHex(t, aTimesBasepointHex)

	aB := Basepoint.Multiply(&a)
	aBCompressed := aB.Compress()
	require.True(t, aBCompressed.Equal(&want))
}

func TestVartimeDoubleScalarMultiplyBasepointSmallCases(t *testing.T) {
	zero := ZEROScalar
	one := ONEScalar
	var two Scalar
	two.s[0] = 2

	aHex := "d072f8dd9c07fa7bc8d22a4b325d26301ee9202f6db89aa7c3731529e37e437c"
	a := scalarFromPlainHex(t, aHex)
	AC := compressedEdwardsFromHex(t, "d4cf8595571830644bd14af416954d09ab7159751ad9e0f7a6cbd92379e71a66")
	A, err := AC.Decompress()
	require.NoError(t, err)

	B := Basepoint
	I := IdentityPoint

	check := func(a *Scalar, P *EdwardsPoint, b *Scalar, want *EdwardsPoint) {
		got := VartimeDoubleScalarMultiplyBasepoint(a, P, b)
		require.True(t, got.Equal(want))
	}

	check(&zero, &I, &zero, &I)
	check(&one, &I, &zero, &I)
	check(&one, &I, &one, &B)

	bDbl := B.Double()
	check(&one, &B, &one, &bDbl)

	bDblPlusB := bDbl.Add(&B)
	check(&one, &B, &two, &bDblPlusB)

	bQuad := bDbl.Double()
	check(&two, &B, &two, &bQuad)

	check(&zero, &B, &a, &A)
	check(&a, &B, &zero, &A)

	aDbl := A.Double()
	check(&a, &B, &a, &aDbl)
}

func TestDoubleScalarMulBasepointMatchesReferenceVector(t *testing.T) {
	aScalar := scalarFromPlainHex(t, aScalarHex)
	bScalar := scalarFromPlainHex(t, bScalarHex)
	AC := compressedEdwardsFromHex(t, aTimesBasepointHex)
	A, err := AC.Decompress()
	require.NoError(t, err)

	result := VartimeDoubleScalarMultiplyBasepoint(&aScalar, &A, &bScalar)
	want := compressedEdwardsFromHex(t, doubleScalarMultResultHex)
	resultCompressed := result.Compress()
	require.True(t, resultCompressed.Equal(&want))
}

func TestMultiplyByPow2MatchesBase16Constant(t *testing.T) {
	want := compressedEdwardsFromHex(t, base16CompressedHex)
	wantPoint, err := want.Decompress()
	require.NoError(t, err)

	got := Basepoint.multiplyByPow2(4)
	require.True(t, got.Equal(&wantPoint))
}

func TestIsIdentity(t *testing.T) {
	require.True(t, IdentityPoint.IsIdentity())
	require.False(t, Basepoint.IsIdentity())
}

func TestIsSmallOrder(t *testing.T) {
	require.False(t, Basepoint.IsSmallOrder())
	for _, h := range eightTorsionCompressedHex {
		c := compressedEdwardsFromHex(t, h)
		p, err := c.Decompress()
		require.NoError(t, err)
		require.True(t, p.IsSmallOrder())
	}
}

func TestIsTorsionFree(t *testing.T) {
	require.True(t, Basepoint.IsTorsionFree())

	withIdentity := Basepoint.Add(&IdentityPoint)
	require.True(t, withIdentity.IsTorsionFree())

	identityCompressed := IdentityPoint.Compress()
	want := compressedEdwardsFromHex(t, eightTorsionCompressedHex[0])
	require.True(t, identityCompressed.Equal(&want))

	for _, h := range eightTorsionCompressedHex[1:] {
		c := compressedEdwardsFromHex(t, h)
		torsion, err := c.Decompress()
		require.NoError(t, err)
		withTorsion := Basepoint.Add(&torsion)
		require.False(t, withTorsion.IsTorsionFree())
	}
}
