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

package verkle

import (
	"github.com/verkle-trie/vtrie/crypto"
)

// LagrangePoly is a polynomial represented by its evaluations over the
// domain of NodeWidth-th roots of unity (spec.md §4.3). It is exported,
// matching the original Rust lagrange::Polynomial surface, so the
// quotient/evaluation arithmetic the opener relies on is independently
// testable.
type LagrangePoly struct {
	srs    *crypto.SRS
	Values []crypto.Fr
}

// NewLagrangePoly wraps a vector of Width evaluations as a LagrangePoly.
// The caller keeps ownership of values; NewLagrangePoly does not copy.
func NewLagrangePoly(srs *crypto.SRS, values []crypto.Fr) *LagrangePoly {
	return &LagrangePoly{srs: srs, Values: values}
}

// AddScalar returns a new polynomial equal to p + c, pointwise.
func (p *LagrangePoly) AddScalar(c *crypto.Fr) *LagrangePoly {
	out := make([]crypto.Fr, len(p.Values))
	for i := range out {
		crypto.AddFr(&out[i], &p.Values[i], c)
	}
	return NewLagrangePoly(p.srs, out)
}

// MulScalar returns a new polynomial equal to p * c, pointwise.
func (p *LagrangePoly) MulScalar(c *crypto.Fr) *LagrangePoly {
	out := make([]crypto.Fr, len(p.Values))
	for i := range out {
		crypto.MulFr(&out[i], &p.Values[i], c)
	}
	return NewLagrangePoly(p.srs, out)
}

// Add returns the pointwise sum of p and other; both must share p's
// domain width.
func (p *LagrangePoly) Add(other *LagrangePoly) *LagrangePoly {
	out := make([]crypto.Fr, len(p.Values))
	for i := range out {
		crypto.AddFr(&out[i], &p.Values[i], &other.Values[i])
	}
	return NewLagrangePoly(p.srs, out)
}

// EvaluateOutsideDomain evaluates p at a point t that is not (in
// general) one of the domain's roots of unity, using the barycentric
// Lagrange formula:
//
//	p(t) = (t^D - 1)/D * sum_i( f[i] * omega^i / (t - omega^i) )
func (p *LagrangePoly) EvaluateOutsideDomain(t *crypto.Fr) crypto.Fr {
	width := len(p.Values)

	var acc crypto.Fr
	for i := 0; i < width; i++ {
		var denom crypto.Fr
		crypto.SubFr(&denom, t, &p.srs.OmegaIs[i])
		if crypto.IsZeroFr(&denom) {
			// t happens to land exactly on a domain point.
			return p.Values[i]
		}

		var factor crypto.Fr
		crypto.DivFr(&factor, &p.srs.OmegaIs[i], &denom)

		var term crypto.Fr
		crypto.MulFr(&term, &p.Values[i], &factor)
		crypto.AddFr(&acc, &acc, &term)
	}

	var tPowWidth crypto.Fr
	crypto.CopyFr(&tPowWidth, t)
	for i := 0; (1 << i) < width; i++ {
		crypto.MulFr(&tPowWidth, &tPowWidth, &tPowWidth)
	}
	var one crypto.Fr = crypto.One
	crypto.SubFr(&tPowWidth, &tPowWidth, &one)

	widthInv := p.srs.WidthInverse()
	crypto.MulFr(&tPowWidth, &tPowWidth, &widthInv)

	var out crypto.Fr
	crypto.MulFr(&out, &acc, &tPowWidth)
	return out
}

// DivideByLinearVanishing computes q(X) = (f(X) - f(omega^idx)) / (X -
// omega^idx) in Lagrange form (spec.md §4.3). It reads the inverse
// table (1/(1 - omega^k)) precomputed once in p's SRS, so that many
// divisions in one proof share its cost.
func (p *LagrangePoly) DivideByLinearVanishing(idx int) *LagrangePoly {
	width := len(p.Values)
	q := make([]crypto.Fr, width)

	y := p.Values[idx]
	omegaIs := p.srs.OmegaIs
	inv := p.srs.Inverses

	for i := 0; i < width; i++ {
		if i == idx {
			continue
		}

		omegaNegI := omegaIs[(width-i)%width]
		invIdx := inv[(idx-i+width)%width]

		var diff crypto.Fr
		crypto.SubFr(&diff, &p.Values[i], &y)
		crypto.MulFr(&diff, &diff, &omegaNegI)
		crypto.MulFr(&q[i], &diff, &invIdx)

		// q[i]'s contribution to q[idx]: -omega^(i-idx) * q[i]
		omegaIMinIdx := omegaIs[(i-idx+width)%width]
		var contrib crypto.Fr
		crypto.MulFr(&contrib, &omegaIMinIdx, &q[i])
		crypto.SubFr(&q[idx], &q[idx], &contrib)
	}

	return NewLagrangePoly(p.srs, q)
}

// DivideByPoint computes q(X) = (f(X) - y) / (X - t) in Lagrange form,
// for a point t that is not a domain element and a claimed value y
// (caller-supplied rather than looked up, since t has no domain index).
// This generalizes DivideByLinearVanishing to the multi-point opener's
// second quotient (spec.md §4.4 step 8), mirroring go-verkle's
// outerQuotients.
func (p *LagrangePoly) DivideByPoint(t, y *crypto.Fr) *LagrangePoly {
	width := len(p.Values)
	q := make([]crypto.Fr, width)

	for i := 0; i < width; i++ {
		var num, denom crypto.Fr
		crypto.SubFr(&num, &p.Values[i], y)
		crypto.SubFr(&denom, &p.srs.OmegaIs[i], t)
		crypto.DivFr(&q[i], &num, &denom)
	}
	return NewLagrangePoly(p.srs, q)
}

// Commit commits to p using the given committer.
func (p *LagrangePoly) Commit(c crypto.Committer) *crypto.G1 {
	return c.CommitLagrange(p.Values)
}
