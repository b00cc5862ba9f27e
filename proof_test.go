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
	"math/rand"
	"testing"

	"github.com/verkle-trie/vtrie/crypto"
)

// P6: a proof produced over a set of keys verifies against their
// public openings, and a corrupted proof does not.
func TestP6CreateAndVerifyVerkleProof(t *testing.T) {
	tr := newTestTrie()
	rng := rand.New(rand.NewSource(7))

	var keys [][]byte
	for i := 0; i < 8; i++ {
		k := make([]byte, KeySize)
		rng.Read(k)
		var v [32]byte
		rng.Read(v[:])
		keys = append(keys, k)
		if err := tr.Insert(k, v); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	proof, vp, err := tr.CreateProof(keys)
	if err != nil {
		t.Fatal(err)
	}

	commitments, indices, values := vp.PublicOpenings()
	ok, err := VerifyVerkleProof(tr.srs, commitments, indices, values, proof)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a freshly created proof to verify")
	}

	// Adding one to the proof's aggregated evaluation must cause
	// verification to fail.
	tampered := *proof
	crypto.AddFr(&tampered.Y, &tampered.Y, &crypto.One)
	ok, err = VerifyVerkleProof(tr.srs, commitments, indices, values, &tampered)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected a tampered proof.Y to fail verification")
	}

	// Flipping a claimed value must also cause verification to fail.
	tamperedValues := append([]crypto.Fr(nil), values...)
	crypto.AddFr(&tamperedValues[0], &tamperedValues[0], &crypto.One)
	ok, err = VerifyVerkleProof(tr.srs, commitments, indices, tamperedValues, proof)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected a tampered opened value to fail verification")
	}
}

func TestCreateProofRejectsWrongKeyLength(t *testing.T) {
	tr := newTestTrie()
	if _, _, err := tr.CreateProof([][]byte{{1, 2, 3}}); err == nil {
		t.Fatal("expected an error for a short key")
	}
}

func TestVerifyVerkleProofRejectsMismatchedSliceLengths(t *testing.T) {
	srs := crypto.DefaultSRS()
	_, err := VerifyVerkleProof(srs, []crypto.G1{crypto.ZeroG1}, []int{0, 1}, []crypto.Fr{crypto.Zero}, &VerkleProof{})
	if err == nil {
		t.Fatal("expected mismatched-length verification to error")
	}
}
