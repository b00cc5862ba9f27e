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

import "github.com/protolambda/go-kzg/bls"

// multiExpThreshold mirrors go-verkle's multiExpThreshold8: below this
// many non-zero entries, a plain sum of scalar multiplications beats the
// overhead of a full multi-scalar-multiplication.
const multiExpThreshold = 25

// Committer is the narrow interface the trie and the opener depend on;
// it never sees the SRS directly. Implementations may precompute
// windowed tables for ScalarMul (spec.md §2 item 3).
type Committer interface {
	// CommitLagrange commits to a full width-length vector of
	// evaluations in Lagrange form.
	CommitLagrange(values []Fr) *G1
	// CommitLagrangeSingle commits to a single (index, value) pair,
	// equivalent to CommitLagrange of a vector that is zero everywhere
	// except at i.
	CommitLagrangeSingle(value *Fr, i int) *G1
	// CommitSparse commits to a sparse set of (index, value) pairs.
	CommitSparse(entries []SparseEntry) *G1
	// ScalarMul returns value * SRS[i] (spec.md §2 item 1,
	// "scalar_mul(s, i) against the i-th SRS basis element"), the
	// primitive the delta-commitment maintenance rule
	// (C_new = C_old + (new-old)*G_i) is built from. SRS[i] is the
	// Lagrange-basis point Commit(e_i), the same basis CommitLagrange
	// sums over — so a branch's delta-accumulated Commitment always
	// agrees with CommitLagrange of its from-scratch children vector.
	ScalarMul(value *Fr, i int) *G1
}

// SparseEntry is one non-zero (index, value) pair passed to CommitSparse.
type SparseEntry struct {
	Index int
	Value Fr
}

// srsCommitter is the default Committer, backed by a single process-wide
// SRS. It is read-only and shared across trie instances (spec.md §5,
// "Resource ownership").
type srsCommitter struct {
	srs *SRS
}

// NewCommitter wraps an SRS as a Committer.
func NewCommitter(srs *SRS) Committer {
	return &srsCommitter{srs: srs}
}

// DefaultCommitter returns a Committer over the process-wide default SRS.
func DefaultCommitter() Committer {
	return NewCommitter(DefaultSRS())
}

func (c *srsCommitter) CommitLagrange(values []Fr) *G1 {
	nonZero := 0
	for i := range values {
		if !bls.EqualZero(&values[i]) {
			nonZero++
		}
	}
	if nonZero >= multiExpThreshold {
		return bls.LinCombG1(c.srs.Lagrange, values)
	}

	var comm bls.G1Point
	bls.CopyG1(&comm, &bls.ZeroG1)
	for i := range values {
		if bls.EqualZero(&values[i]) {
			continue
		}
		var eval, tmp bls.G1Point
		bls.MulG1(&eval, &c.srs.Lagrange[i], &values[i])
		bls.CopyG1(&tmp, &comm)
		bls.AddG1(&comm, &tmp, &eval)
	}
	return &comm
}

func (c *srsCommitter) CommitLagrangeSingle(value *Fr, i int) *G1 {
	var out bls.G1Point
	bls.MulG1(&out, &c.srs.Lagrange[i], value)
	return &out
}

func (c *srsCommitter) CommitSparse(entries []SparseEntry) *G1 {
	var comm bls.G1Point
	bls.CopyG1(&comm, &bls.ZeroG1)
	for _, e := range entries {
		if bls.EqualZero(&e.Value) {
			continue
		}
		var eval, tmp bls.G1Point
		bls.MulG1(&eval, &c.srs.Lagrange[e.Index], &e.Value)
		bls.CopyG1(&tmp, &comm)
		bls.AddG1(&comm, &tmp, &eval)
	}
	return &comm
}

func (c *srsCommitter) ScalarMul(value *Fr, i int) *G1 {
	var out bls.G1Point
	bls.MulG1(&out, &c.srs.Lagrange[i], value)
	return &out
}
