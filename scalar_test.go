package curve25519

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmthrgd/go-hex"
)

// RFC 8032 test case 1, via Java's ScalarTest.
var (
	scalarTV1RInput = hex.MustDecodeString("b6b19cd8e0426f5983fa112d89a143aa97dab8bc5deb8d5b6253c928b65272f4044098c2a990039cde5b6a4818df0bfb6e40dc5dee54248032962323e701352d")
	scalarTV1R      = hex.MustDecodeString("f38907308c893deaf244787db4af53682249107418afc2edc58f75ac58a07404")
	scalarTV1H      = hex.MustDecodeString("86eabc8e4c96193d290504e7c600df6cf8d8256131ec2c138a3e7e162e525404")
	scalarTV1A      = hex.MustDecodeString("307c83864f2833cb427a2ef1c00a013cfdff2768d980c0a3a520f006904de94f")
	scalarTV1S      = hex.MustDecodeString("5fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b")
)

func scalarFromHex(t *testing.T, s []byte) Scalar {
	t.Helper()
	require.Len(t, s, 32)
	var b [32]byte
	copy(b[:], s)
	sc, err := fromCanonicalBytes(b)
	require.NoError(t, err)
	return sc
}

func TestScalarFromBytesModOrderWideMatchesTV1(t *testing.T) {
	var wide [64]byte
	copy(wide[:], scalarTV1RInput)
	got := fromBytesModOrderWide(&wide)
	want := scalarFromHex(t, scalarTV1R)
	require.True(t, got.Equal(&want))
}

func TestScalarMultiplyAndAddMatchesTV1(t *testing.T) {
	h := scalarFromHex(t, scalarTV1H)
	// a is the clamped secret scalar, which is >= ell, so it is built with
	// the raw constructor rather than fromCanonicalBytes.
	a := Scalar{s: [32]byte(scalarTV1A)}
	r := scalarFromHex(t, scalarTV1R)
	want := scalarFromHex(t, scalarTV1S)

	var got Scalar
	got.MultiplyAndAdd(&h, &a, &r)
	require.True(t, got.Equal(&want))
}

func TestScalarMultiplyAndAddMatchesMultiplyThenAdd(t *testing.T) {
	h := scalarFromHex(t, scalarTV1H)
	a := Scalar{s: [32]byte(scalarTV1A)}
	r := scalarFromHex(t, scalarTV1R)

	var hTimesA, viaMultiply, viaFused Scalar
	hTimesA.Multiply(&h, &a)
	hUnpacked := unpack(&hTimesA.s)
	rUnpacked := unpack(&r.s)
	sum := hUnpacked.add(&rUnpacked)
	viaMultiply.s = sum.pack()

	viaFused.MultiplyAndAdd(&h, &a, &r)
	require.True(t, viaMultiply.Equal(&viaFused))
}

func TestScalarFromCanonicalBytesRoundTrip(t *testing.T) {
	s := scalarFromHex(t, scalarTV1S)
	b := s.Bytes()
	got, err := fromCanonicalBytes(b)
	require.NoError(t, err)
	require.True(t, got.Equal(&s))
}

func TestScalarFromCanonicalBytesRejectsHighBit(t *testing.T) {
	var b [32]byte
	b[31] = 0x80
	_, err := fromCanonicalBytes(b)
	require.ErrorIs(t, err, ErrScalarHighBitSet)
}

func TestScalarFromCanonicalBytesRejectsNonCanonical(t *testing.T) {
	// basepointOrder itself, >= ell.
	_, err := fromCanonicalBytes(basepointOrder)
	require.ErrorIs(t, err, ErrScalarNotCanonical)
}

func TestScalarToRadix16(t *testing.T) {
	s := scalarFromHex(t, scalarTV1S)
	digits := s.toRadix16()

	for i, d := range digits {
		if i == 63 {
			require.True(t, d >= -8 && d <= 8)
		} else {
			require.True(t, d >= -8 && d <= 7, "digit %d = %d out of range", i, d)
		}
	}

	// Reconstruct sum(digit_i * 16^i) mod ell in unpacked form and compare.
	var sixteenPow, sum unpackedScalar
	sixteenPow[0] = 1 // 16^0 = 1
	var sixteen unpackedScalar
	sixteen[0] = 16
	for _, d := range digits {
		var term unpackedScalar
		if d >= 0 {
			term[0] = uint32(d)
		} else {
			var digitAsUnpacked unpackedScalar
			digitAsUnpacked[0] = uint32(-d)
			term = unpackedSub(&groupOrder, &digitAsUnpacked)
		}
		term = term.multiply(&sixteenPow)
		sum = sum.add(&term)
		sixteenPow = sixteenPow.multiply(&sixteen)
	}

	want := unpack(&s.s)
	require.Equal(t, want.pack(), sum.pack())
}

func TestScalarNonAdjacentFormProperties(t *testing.T) {
	s := scalarFromHex(t, scalarTV1S)
	naf := s.nonAdjacentForm(5)

	lastNonZero := -100
	for i, d := range naf {
		if d == 0 {
			continue
		}
		require.Equal(t, int8(1), d&1, "digit at %d is not odd: %d", i, d)
		require.True(t, d >= -15 && d <= 15, "digit %d out of w=5 range", d)
		if lastNonZero >= 0 {
			require.GreaterOrEqual(t, i-lastNonZero, 5)
		}
		lastNonZero = i
	}
}
