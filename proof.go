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
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/verkle-trie/vtrie/crypto"
	"github.com/verkle-trie/vtrie/storage"
)

// opening is one (polynomial, evaluation-point, claimed-value) triple
// plus the commitment the multi-point opener absorbs for it
// (spec.md §4.4/§4.5).
type opening struct {
	Commitment crypto.G1
	Index      int // the domain index z=omega^Index
	Value      crypto.Fr
	Poly       *LagrangePoly
}

// VerklePath is the concatenation, over every queried key, of the
// openings along its root-to-leaf path (spec.md §4.5).
type VerklePath struct {
	openings []opening
}

// BuildVerklePath walks every key in keys from the root and records,
// for each branch/stem node visited, the opening describing which
// child slot was taken. The same branch visited by two keys is not
// deduplicated here; the opener treats each opening independently (an
// optimization dropping duplicates would not change correctness).
func (t *Trie) BuildVerklePath(keys [][]byte) (*VerklePath, error) {
	vp := &VerklePath{}
	for _, key := range keys {
		if len(key) != KeySize {
			return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrInvariantViolation, KeySize, len(key))
		}
		if err := t.appendPathOpenings(key, vp); err != nil {
			return nil, err
		}
	}
	return vp, nil
}

func (t *Trie) appendPathOpenings(key []byte, vp *VerklePath) error {
	var path []byte
	depth := 0
	for {
		ref, present, err := t.storage.GetBranchChild(path, key[depth])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorageIO, err)
		}
		if !present {
			return nil
		}

		branchMeta, bpresent, err := t.storage.GetBranchMeta(path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorageIO, err)
		}
		if !bpresent {
			return fmt.Errorf("%w: missing branch metadata at %x during proof construction", ErrInvariantViolation, path)
		}

		poly, err := t.branchPolynomial(path)
		if err != nil {
			return err
		}

		var nodeRoot crypto.Fr
		switch ref.Kind {
		case storage.ChildBranch:
			childMeta, cpresent, err := t.storage.GetBranchMeta(append(clonePath(path), key[depth]))
			if err != nil {
				return fmt.Errorf("%w: %v", ErrStorageIO, err)
			}
			if !cpresent {
				return fmt.Errorf("%w: missing branch metadata during proof construction", ErrInvariantViolation)
			}
			nodeRoot = childMeta.HashCommitment
		case storage.ChildStem:
			stemMeta, spresent, err := t.storage.GetStemMeta(ref.Stem)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrStorageIO, err)
			}
			if !spresent {
				return fmt.Errorf("%w: missing stem metadata during proof construction", ErrInvariantViolation)
			}
			nodeRoot = stemMeta.HashCommitment
		}

		vp.openings = append(vp.openings, opening{
			Commitment: branchMeta.Commitment,
			Index:      int(key[depth]),
			Value:      nodeRoot,
			Poly:       poly,
		})

		if ref.Kind != storage.ChildBranch {
			return nil
		}
		path = append(clonePath(path), key[depth])
		depth++
	}
}

// branchPolynomial reconstructs the length-NodeWidth Lagrange
// representation of a branch's children field values (spec.md §4.5,
// "polynomial"), by reading every occupied slot's contributed hash.
func (t *Trie) branchPolynomial(path []byte) (*LagrangePoly, error) {
	values := make([]crypto.Fr, NodeWidth)
	for i := 0; i < NodeWidth; i++ {
		ref, present, err := t.storage.GetBranchChild(path, byte(i))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageIO, err)
		}
		if !present {
			continue
		}
		switch ref.Kind {
		case storage.ChildBranch:
			meta, ok, err := t.storage.GetBranchMeta(append(clonePath(path), byte(i)))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrStorageIO, err)
			}
			if ok {
				values[i] = meta.HashCommitment
			}
		case storage.ChildStem:
			meta, ok, err := t.storage.GetStemMeta(ref.Stem)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrStorageIO, err)
			}
			if ok {
				values[i] = meta.HashCommitment
			}
		}
	}
	return NewLagrangePoly(t.srs, values), nil
}

// PublicOpenings extracts the (commitment, index, value) triples a
// verifier needs, without the Lagrange polynomials themselves (which
// only the prover, holding the full trie, can reconstruct).
func (vp *VerklePath) PublicOpenings() (commitments []crypto.G1, indices []int, values []crypto.Fr) {
	commitments = make([]crypto.G1, len(vp.openings))
	indices = make([]int, len(vp.openings))
	values = make([]crypto.Fr, len(vp.openings))
	for i, o := range vp.openings {
		commitments[i], indices[i], values[i] = o.Commitment, o.Index, o.Value
	}
	return
}

// CreateProof builds the VerklePath for keys and runs the multi-point
// opener over it in one step.
func (t *Trie) CreateProof(keys [][]byte) (*VerkleProof, *VerklePath, error) {
	vp, err := t.BuildVerklePath(keys)
	if err != nil {
		return nil, nil, err
	}
	proof, err := CreateVerkleProof(t.committer, t.srs, vp)
	if err != nil {
		return nil, nil, err
	}
	return proof, vp, nil
}

// VerkleProof is the aggregated multi-point opening (D, y, sigma) of
// spec.md §4.4.
type VerkleProof struct {
	D     crypto.G1
	Y     crypto.Fr
	Sigma crypto.G1
}

// CreateVerkleProof runs the multi-point opener over vp, producing one
// constant-size proof covering every (polynomial, point, value) triple
// recorded along every queried key's path.
func CreateVerkleProof(committer crypto.Committer, srs *crypto.SRS, vp *VerklePath) (*VerkleProof, error) {
	openings := vp.openings
	m := len(openings)
	if m == 0 {
		return nil, fmt.Errorf("%w: cannot produce a proof over zero openings", ErrInvariantViolation)
	}

	tr := NewTranscript("verkle_proof")
	for i := range openings {
		tr.AppendPoint("f_x", &openings[i].Commitment)
	}
	for i := range openings {
		tr.AppendScalar("value", &srs.OmegaIs[openings[i].Index])
		tr.AppendScalar("eval", &openings[i].Value)
	}

	r := tr.Challenge("r")

	g, err := aggregateQuotients(openings, r)
	if err != nil {
		return nil, err
	}
	D := g.Commit(committer)

	tr.AppendScalar("r", &r)
	tr.AppendPoint("D", D)
	tTrans := tr.Challenge("t")

	h, err := aggregateHelper(openings, r, tTrans)
	if err != nil {
		return nil, err
	}
	E := h.Commit(committer)

	y := h.EvaluateOutsideDomain(&tTrans)
	w := g.EvaluateOutsideDomain(&tTrans)

	tr.AppendPoint("E", E)
	tr.AppendPoint("d_comm", D)
	tr.AppendScalar("h_t", &y)
	tr.AppendScalar("g_t", &w)
	combiner := tr.Challenge("sigma")

	pi := h.DivideByPoint(&tTrans, &y).Commit(committer)
	rho := g.DivideByPoint(&tTrans, &w).Commit(committer)

	var scaledRho crypto.G1
	crypto.ScalarMulG1(&scaledRho, rho, &combiner)
	var sigma crypto.G1
	crypto.AddG1(&sigma, &scaledRho, pi)

	return &VerkleProof{D: *D, Y: y, Sigma: sigma}, nil
}

// aggregateQuotients computes g(X) = sum_j r^j * q_j(X), where q_j is
// the in-domain quotient of openings[j].Poly around its own index
// (spec.md §4.4 step 4). Each term is independent of the others, so the
// per-opening quotient computation is parallelized; the final sum
// folds results in a fixed, index-ordered reduction to stay
// deterministic (spec.md §5).
func aggregateQuotients(openings []opening, r crypto.Fr) (*LagrangePoly, error) {
	quotients := make([]*LagrangePoly, len(openings))

	var eg errgroup.Group
	for idx := range openings {
		idx := idx
		eg.Go(func() error {
			quotients[idx] = openings[idx].Poly.DivideByLinearVanishing(openings[idx].Index)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	width := len(openings[0].Poly.Values)
	acc := make([]crypto.Fr, width)
	powR := crypto.One
	for j := range quotients {
		for i := 0; i < width; i++ {
			var term crypto.Fr
			crypto.MulFr(&term, &powR, &quotients[j].Values[i])
			crypto.AddFr(&acc[i], &acc[i], &term)
		}
		crypto.MulFr(&powR, &powR, &r)
	}
	return NewLagrangePoly(openings[0].Poly.srs, acc), nil
}

// aggregateHelper computes h(X) = sum_j (r^j/(t - z_j)) * f_j(X)
// (spec.md §4.4 step 6). Each {t - z_j} denominator is inverted by its
// own field division; no batch inversion is done.
func aggregateHelper(openings []opening, r, t crypto.Fr) (*LagrangePoly, error) {
	srs := openings[0].Poly.srs
	width := len(openings[0].Poly.Values)

	factors := make([]crypto.Fr, len(openings))
	powR := crypto.One
	for j := range openings {
		var denom crypto.Fr
		crypto.SubFr(&denom, &t, &srs.OmegaIs[openings[j].Index])
		if crypto.IsZeroFr(&denom) {
			return nil, fmt.Errorf("%w: Fiat-Shamir challenge landed on an opened domain point", ErrInvariantViolation)
		}
		var factor crypto.Fr
		crypto.DivFr(&factor, &powR, &denom)
		factors[j] = factor
		crypto.MulFr(&powR, &powR, &r)
	}

	scaled := make([][]crypto.Fr, len(openings))
	var eg errgroup.Group
	for j := range openings {
		j := j
		eg.Go(func() error {
			local := make([]crypto.Fr, width)
			for i := 0; i < width; i++ {
				crypto.MulFr(&local[i], &factors[j], &openings[j].Poly.Values[i])
			}
			scaled[j] = local
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	acc := make([]crypto.Fr, width)
	for j := range scaled {
		for i := 0; i < width; i++ {
			crypto.AddFr(&acc[i], &acc[i], &scaled[j][i])
		}
	}

	return NewLagrangePoly(srs, acc), nil
}

// VerifyVerkleProof re-derives the transcript challenges from the
// public openings (everything but the polynomials themselves) and runs
// the pairing check (spec.md §4.4, final paragraph).
func VerifyVerkleProof(srs *crypto.SRS, commitments []crypto.G1, indices []int, values []crypto.Fr, proof *VerkleProof) (bool, error) {
	m := len(commitments)
	if m != len(indices) || m != len(values) {
		return false, fmt.Errorf("%w: mismatched opening slice lengths", ErrInvariantViolation)
	}

	tr := NewTranscript("verkle_proof")
	for i := range commitments {
		tr.AppendPoint("f_x", &commitments[i])
	}
	for i := range commitments {
		tr.AppendScalar("value", &srs.OmegaIs[indices[i]])
		tr.AppendScalar("eval", &values[i])
	}
	r := tr.Challenge("r")

	tr.AppendScalar("r", &r)
	tr.AppendPoint("D", &proof.D)
	t := tr.Challenge("t")

	// w2 = sum_j (r^j/(t - z_j)) * y_j ; g(t) = y - w2 (see proof.go
	// doc comment in DESIGN.md for the derivation from h(t) and g(t)'s
	// shared construction).
	var w2 crypto.Fr
	powR := crypto.One
	var E crypto.G1
	for j := range commitments {
		var denom crypto.Fr
		crypto.SubFr(&denom, &t, &srs.OmegaIs[indices[j]])
		if crypto.IsZeroFr(&denom) {
			return false, fmt.Errorf("%w: Fiat-Shamir challenge landed on an opened domain point", ErrInvariantViolation)
		}
		var factor crypto.Fr
		crypto.DivFr(&factor, &powR, &denom)

		var term crypto.Fr
		crypto.MulFr(&term, &factor, &values[j])
		crypto.AddFr(&w2, &w2, &term)

		scaled := crypto.ScalarMulG1Ref(&commitments[j], &factor)
		tmp := E
		crypto.AddG1(&E, &tmp, scaled)

		crypto.MulFr(&powR, &powR, &r)
	}

	var w crypto.Fr
	crypto.SubFr(&w, &proof.Y, &w2)

	tr.AppendPoint("E", &E)
	tr.AppendPoint("d_comm", &proof.D)
	tr.AppendScalar("h_t", &proof.Y)
	tr.AppendScalar("g_t", &w)
	combiner := tr.Challenge("sigma")

	var combinedComm crypto.G1
	scaledD := crypto.ScalarMulG1Ref(&proof.D, &combiner)
	crypto.AddG1(&combinedComm, &E, scaledD)

	var combinedVal crypto.Fr
	var scaledW crypto.Fr
	crypto.MulFr(&scaledW, &combiner, &w)
	crypto.AddFr(&combinedVal, &proof.Y, &scaledW)

	return checkKZGProof(srs, &combinedComm, &proof.Sigma, &t, &combinedVal), nil
}

// checkKZGProof is the standard single-point KZG verification identity:
// e(commitment - value*G1, G2) == e(proof, tau*G2 - point*G2).
func checkKZGProof(srs *crypto.SRS, commitment, proof *crypto.G1, point, value *crypto.Fr) bool {
	valueG1 := crypto.ScalarMulG1Ref(srs.BasisG1(0), value)
	var lhs crypto.G1
	crypto.SubG1(&lhs, commitment, valueG1)

	var pointG2 crypto.G2
	crypto.ScalarMulG2(&pointG2, srs.BasisG2(0), point)
	var rhs crypto.G2
	crypto.SubG2(&rhs, srs.BasisG2(1), &pointG2)

	return crypto.PairingCheck(&lhs, srs.BasisG2(0), proof, &rhs)
}
