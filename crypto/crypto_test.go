// This is free and unencumbered software released into the public domain.
//
// Anyone is free to copy, modify, publish, use, compile, sell, or
// distribute this software, either in source code form or as a compiled
// binary, for any purpose, commercial or non-commercial, and by any
// means.
//
// In jurisdictions that recognize copyright laws, the author or authors
// of this software dedicate any and all copyright interest in the
// software to the public domain. We make this dedication for the benefit
// of the public at large and to the detriment of our heirs and
// successors. We intend this dedication to be an overt act of
// relinquishment in perpetuity of all present and future rights to this
// software under copyright law.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
// IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR
// OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
// ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.
//
// For more information, please refer to <https://unlicense.org>

package crypto

import (
	"bytes"
	"testing"
)

func TestFrArithmeticRoundTrip(t *testing.T) {
	var a, b Fr
	FrFromUint64(&a, 7)
	FrFromUint64(&b, 5)

	var sum, diff, prod, quot Fr
	AddFr(&sum, &a, &b)
	SubFr(&diff, &sum, &b)
	if !EqualFr(&diff, &a) {
		t.Fatalf("AddFr/SubFr round trip failed: got %v want %v", diff, a)
	}

	MulFr(&prod, &a, &b)
	DivFr(&quot, &prod, &b)
	if !EqualFr(&quot, &a) {
		t.Fatalf("MulFr/DivFr round trip failed: got %v want %v", quot, a)
	}

	var inv, one Fr
	InvFr(&inv, &a)
	MulFr(&one, &a, &inv)
	if !EqualFr(&one, &One) {
		t.Fatalf("a * inv(a) should be one, got %v", one)
	}

	var neg, zero Fr
	NegFr(&neg, &a)
	AddFr(&zero, &a, &neg)
	if !IsZeroFr(&zero) {
		t.Fatalf("a + (-a) should be zero, got %v", zero)
	}
}

func TestFrBytes32RoundTrip(t *testing.T) {
	var a Fr
	FrFromUint64(&a, 123456789)

	b := FrToBytes32(&a)

	var back Fr
	if err := FrFromBytes32(&back, b); err != nil {
		t.Fatal(err)
	}
	if !EqualFr(&a, &back) {
		t.Fatalf("Fr<->bytes32 round trip failed: got %v want %v", back, a)
	}
}

func TestG1CompressDecompressRoundTrip(t *testing.T) {
	var s Fr
	FrFromUint64(&s, 42)

	p := ScalarMulG1Ref(&GenG1, &s)

	compressed := CompressG1(p)
	decompressed, err := DecompressG1(compressed)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(compressed, CompressG1(decompressed)) {
		t.Fatal("compressed/decompressed point differs from original")
	}
}

func TestG1AddSubScalarMul(t *testing.T) {
	var two Fr
	FrFromUint64(&two, 2)

	var doubled G1
	AddG1(&doubled, &GenG1, &GenG1)

	scaled := ScalarMulG1Ref(&GenG1, &two)

	if !bytes.Equal(CompressG1(&doubled), CompressG1(scaled)) {
		t.Fatal("GenG1 + GenG1 should equal 2 * GenG1")
	}
}

func TestGroupToFieldDeterministic(t *testing.T) {
	var a Fr
	FrFromUint64(&a, 99)
	p := ScalarMulG1Ref(&GenG1, &a)

	var h1, h2 Fr
	GroupToField(&h1, p)
	GroupToField(&h2, p)
	if !EqualFr(&h1, &h2) {
		t.Fatal("GroupToField is not deterministic")
	}

	var q Fr
	FrFromUint64(&q, 100)
	p2 := ScalarMulG1Ref(&GenG1, &q)
	var h3 Fr
	GroupToField(&h3, p2)
	if EqualFr(&h1, &h3) {
		t.Fatal("GroupToField collided on two distinct points")
	}
}

func TestReduceDigestToFrProducesCanonicalElement(t *testing.T) {
	var allOnes [32]byte
	for i := range allOnes {
		allOnes[i] = 0xff
	}

	var out Fr
	ReduceDigestToFr(&out, allOnes)

	b := FrToBytes32(&out)
	var back Fr
	if err := FrFromBytes32(&back, b); err != nil {
		t.Fatalf("ReduceDigestToFr produced a non-canonical element: %v", err)
	}
	if !EqualFr(&out, &back) {
		t.Fatal("reduced digest does not round-trip through bytes")
	}
}

func TestNewSRSPanicsOnNonPositiveWidth(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected NewSRS(0) to panic")
		}
	}()
	NewSRS(0)
}

func TestSRSDomainAndInverses(t *testing.T) {
	srs := NewSRS(8)

	if len(srs.OmegaIs) != 8 {
		t.Fatalf("expected 8 domain points, got %d", len(srs.OmegaIs))
	}
	if !EqualFr(&srs.OmegaIs[0], &One) {
		t.Fatalf("omega^0 should be one, got %v", srs.OmegaIs[0])
	}

	var omegaToWidth Fr
	CopyFr(&omegaToWidth, &One)
	for i := 0; i < srs.Width; i++ {
		var tmp Fr
		MulFr(&tmp, &omegaToWidth, &srs.OmegaIs[1])
		CopyFr(&omegaToWidth, &tmp)
	}
	if !EqualFr(&omegaToWidth, &One) {
		t.Fatalf("omega^width should cycle back to one, got %v", omegaToWidth)
	}

	for k := 1; k < srs.Width; k++ {
		var diff, check Fr
		SubFr(&diff, &One, &srs.OmegaIs[k])
		MulFr(&check, &diff, &srs.Inverses[k])
		if !EqualFr(&check, &One) {
			t.Fatalf("Inverses[%d] is not the inverse of (1 - omega^%d)", k, k)
		}
	}
}

func TestCommitterScalarMulAndCommitLagrangeAgree(t *testing.T) {
	srs := NewSRS(8)
	c := NewCommitter(srs)

	values := make([]Fr, srs.Width)
	for i := range values {
		FrFromUint64(&values[i], uint64(i+1))
	}

	commitment := c.CommitLagrange(values)

	var acc G1
	CopyG1(&acc, &ZeroG1)
	for i, v := range values {
		term := c.ScalarMul(&v, i)
		var next G1
		AddG1(&next, &acc, term)
		CopyG1(&acc, &next)
	}

	var got, want Fr
	GroupToField(&got, commitment)
	GroupToField(&want, &acc)
	if !EqualFr(&got, &want) {
		t.Fatal("CommitLagrange should equal the sum of per-slot ScalarMul contributions")
	}
}

func TestCommitLagrangeSingleMatchesFullVector(t *testing.T) {
	srs := NewSRS(8)
	c := NewCommitter(srs)

	var v Fr
	FrFromUint64(&v, 17)

	values := make([]Fr, srs.Width)
	values[3] = v

	full := c.CommitLagrange(values)
	single := c.CommitLagrangeSingle(&v, 3)

	var gotFull, gotSingle Fr
	GroupToField(&gotFull, full)
	GroupToField(&gotSingle, single)
	if !EqualFr(&gotFull, &gotSingle) {
		t.Fatal("CommitLagrangeSingle should match a CommitLagrange vector with only that slot set")
	}
}

func TestPairingCheckIdentity(t *testing.T) {
	var a Fr
	FrFromUint64(&a, 5)
	p := ScalarMulG1Ref(&GenG1, &a)

	var g2a G2
	ScalarMulG2(&g2a, &GenG2, &a)

	if !PairingCheck(&GenG1, &g2a, p, &GenG2) {
		t.Fatal("expected e(G1, a*G2) == e(a*G1, G2)")
	}
}
