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
	"sync"

	"github.com/protolambda/go-kzg"
	"github.com/protolambda/go-kzg/bls"
)

// devSecret is a hardcoded toy trapdoor, exactly as go-verkle's
// GetKZGConfig hardcodes one "to simplify the API for the moment". A real
// deployment replaces this with the output of a multi-party SRS ceremony;
// that ceremony is out of scope here (spec.md §1).
const devSecret = "8927347823478352432985"

// SRS is the Structured Reference String: a fixed-length vector of basis
// points in monomial form, plus its Lagrange-form mirror (the FFT of the
// monomial basis over the node-width roots of unity) used by the
// Committer. It also carries the root-of-unity table and the
// precomputed (1/(1 - ω^k)) inverses the polynomial helper and opener
// both need. An SRS is process-lifetime immutable once built.
type SRS struct {
	Width int

	// Monomial-form basis, G1 and G2. G2 is only needed by the verifier.
	g1 []bls.G1Point
	g2 []bls.G2Point

	// Lagrange-form mirror of g1, used by the committer to turn a
	// vector of evaluations into a commitment without an FFT per call.
	Lagrange []bls.G1Point

	// OmegaIs[i] = ω^i, the i-th node-width root of unity.
	OmegaIs []bls.Fr
	// Inverses[k] = 1/(1 - ω^k) for k in [1, Width); Inverses[0] is
	// unused (spec.md §4.3, divide_by_linear_vanishing).
	Inverses []bls.Fr

	widthInv bls.Fr
}

var (
	defaultSRS     *SRS
	defaultSRSOnce sync.Once
)

// DefaultSRS returns the process-wide 256-wide SRS used by the trie. It
// is built once, lazily, and is safe for concurrent readers thereafter
// (spec.md §9, "Global SRS").
func DefaultSRS() *SRS {
	defaultSRSOnce.Do(func() {
		defaultSRS = NewSRS(256)
	})
	return defaultSRS
}

// NewSRS builds an SRS for the given width. Width must be a power of two
// (it indexes a root-of-unity domain); 0 or negative widths are a setup
// error (spec.md §7, DegreeIsZero) and panic, since SRS construction only
// ever happens at process startup.
func NewSRS(width int) *SRS {
	if width <= 0 {
		panic("crypto: SRS width must be positive (DegreeIsZero)")
	}

	var s bls.Fr
	bls.SetFr(&s, devSecret)

	var sPow bls.Fr
	bls.CopyFr(&sPow, &bls.ONE)

	g1 := make([]bls.G1Point, width)
	g2 := make([]bls.G2Point, width)
	for i := 0; i < width; i++ {
		bls.MulG1(&g1[i], &bls.GenG1, &sPow)
		bls.MulG2(&g2[i], &bls.GenG2, &sPow)
		var tmp bls.Fr
		bls.CopyFr(&tmp, &sPow)
		bls.MulModFr(&sPow, &tmp, &s)
	}

	log2Width := log2(width)
	fftCfg := kzg.NewFFTSettings(uint8(log2Width))
	lagrange, err := fftCfg.FFTG1(g1, true)
	if err != nil {
		panic("crypto: failed to compute Lagrange-basis SRS: " + err.Error())
	}

	srs := &SRS{
		Width:    width,
		g1:       g1,
		g2:       g2,
		Lagrange: lagrange,
	}
	srs.precomputeDomain(log2Width)
	return srs
}

func (s *SRS) precomputeDomain(log2Width int) {
	s.OmegaIs = make([]bls.Fr, s.Width)
	s.Inverses = make([]bls.Fr, s.Width)

	var tmp bls.Fr
	bls.CopyFr(&tmp, &bls.ONE)
	root := bls.Scale2RootOfUnity[log2Width]
	for i := 0; i < s.Width; i++ {
		bls.CopyFr(&s.OmegaIs[i], &tmp)
		bls.MulModFr(&tmp, &tmp, &root)
	}

	bls.CopyFr(&s.Inverses[0], &bls.ZERO)
	for i := 1; i < s.Width; i++ {
		var diff bls.Fr
		bls.SubModFr(&diff, &bls.ONE, &s.OmegaIs[i])
		bls.DivModFr(&s.Inverses[i], &bls.ONE, &diff)
	}

	bls.AsFr(&s.widthInv, uint64(s.Width))
	bls.InvModFr(&s.widthInv, &s.widthInv)
}

// WidthInverse returns 1/Width in Fr, used by evaluate_outside_domain's
// barycentric formula.
func (s *SRS) WidthInverse() bls.Fr { return s.widthInv }

// BasisG1 returns the i-th monomial-form G1 basis point (tau^i * G1).
// Only BasisG1(0) (= GenG1) is used, by the pairing-based verifier's
// checkKZGProof; every delta-commitment update goes through the
// Lagrange-basis points instead (see Committer.ScalarMul).
func (s *SRS) BasisG1(i int) *bls.G1Point { return &s.g1[i] }

// BasisG2 returns the i-th monomial-form G2 basis point (tau^i * G2).
// Only G2[0] and G2[1] are used by the pairing-based verifier.
func (s *SRS) BasisG2(i int) *bls.G2Point { return &s.g2[i] }

func log2(n int) int {
	l := 0
	for (1 << l) < n {
		l++
	}
	return l
}
