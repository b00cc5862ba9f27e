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
	"bytes"
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/verkle-trie/vtrie/crypto"
	"github.com/verkle-trie/vtrie/storage"
)

func newTestTrie() *Trie {
	return NewDefault(storage.New(storage.NewMemKV()))
}

func key32(fill byte) [32]byte {
	var k [32]byte
	for i := range k {
		k[i] = fill
	}
	return k
}

// scenario 1: empty trie.
func TestEmptyTrieRootIsZero(t *testing.T) {
	tr := newTestTrie()
	root, err := tr.ComputeRoot()
	if err != nil {
		t.Fatal(err)
	}
	if !crypto.IsZeroFr(&root) {
		t.Fatalf("expected zero root for empty trie, got %v", root)
	}
}

// scenario 2: single all-zero insert.
func TestSingleAllZeroInsert(t *testing.T) {
	tr := newTestTrie()
	key := key32(0)
	value := key32(0)

	if err := tr.Insert(key[:], value); err != nil {
		t.Fatal(err)
	}

	got, ok, err := tr.Get(key[:])
	if err != nil {
		t.Fatal(err)
	}
	if !ok || got != value {
		t.Fatalf("Get after insert: ok=%v got=%v", ok, got)
	}

	stemMeta, present, err := tr.storage.GetStemMeta(StemFromKey(key[:]))
	if err != nil {
		t.Fatal(err)
	}
	if !present {
		t.Fatal("expected stem metadata to exist")
	}
	if !crypto.EqualFr(&stemMeta.HashC2, &crypto.Zero) {
		t.Fatalf("expected C2 untouched (zero contribution) for a slot-0 insert, got %v", stemMeta.HashC2)
	}

	root, err := tr.ComputeRoot()
	if err != nil {
		t.Fatal(err)
	}
	if crypto.IsZeroFr(&root) {
		t.Fatal("expected non-zero root after a real insert")
	}
}

// scenario 4: two leaves under the same stem split across C1/C2 banks.
func TestTwoLeavesSplitAcrossBanks(t *testing.T) {
	tr := newTestTrie()

	keyLow := key32(0)
	keyLow[31] = 32
	keyHigh := key32(0)
	keyHigh[31] = 128

	v1 := key32(1)
	v2 := key32(2)

	if err := tr.Insert(keyLow[:], v1); err != nil {
		t.Fatal(err)
	}
	if err := tr.Insert(keyHigh[:], v2); err != nil {
		t.Fatal(err)
	}

	stemMeta, present, err := tr.storage.GetStemMeta(StemFromKey(keyLow[:]))
	if err != nil {
		t.Fatal(err)
	}
	if !present {
		t.Fatal("expected stem metadata")
	}
	if crypto.EqualFr(&stemMeta.HashC1, &crypto.Zero) {
		t.Fatal("expected C1 to be touched by slot 32")
	}
	if crypto.EqualFr(&stemMeta.HashC2, &crypto.Zero) {
		t.Fatal("expected C2 to be touched by slot 128")
	}

	for _, tc := range []struct {
		key   [32]byte
		value [32]byte
	}{{keyLow, v1}, {keyHigh, v2}} {
		got, ok, err := tr.Get(tc.key[:])
		if err != nil {
			t.Fatal(err)
		}
		if !ok || got != tc.value {
			t.Fatalf("Get(%v): ok=%v got=%v want=%v", tc.key, ok, got, tc.value)
		}
	}
}

// P1: every inserted key reads back its value; absent keys read back nothing.
func TestP1MembershipAndNonMembership(t *testing.T) {
	tr := newTestTrie()
	rng := rand.New(rand.NewSource(1))

	entries := make(map[[32]byte][32]byte)
	for i := 0; i < 64; i++ {
		var k, v [32]byte
		rng.Read(k[:])
		rng.Read(v[:])
		entries[k] = v
		if err := tr.Insert(k[:], v); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	for k, v := range entries {
		got, ok, err := tr.Get(k[:])
		if err != nil {
			t.Fatal(err)
		}
		if !ok || got != v {
			t.Fatalf("P1 violated for key %x: ok=%v got=%x want=%x\n%s", k, ok, got, v, spew.Sdump(entries))
		}
	}

	var absent [32]byte
	for i := range absent {
		absent[i] = 0xff
	}
	if _, ok, err := tr.Get(absent[:]); err != nil {
		t.Fatal(err)
	} else if ok {
		if _, present := entries[absent]; !present {
			t.Fatal("expected absent key to read back not-present")
		}
	}
}

// P2: the root is permutation-invariant.
func TestP2RootIsPermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	keys := make([][32]byte, 32)
	values := make([][32]byte, 32)
	for i := range keys {
		rng.Read(keys[i][:])
		rng.Read(values[i][:])
	}

	rootFor := func(order []int) crypto.Fr {
		tr := newTestTrie()
		for _, i := range order {
			if err := tr.Insert(keys[i][:], values[i]); err != nil {
				t.Fatal(err)
			}
		}
		root, err := tr.ComputeRoot()
		if err != nil {
			t.Fatal(err)
		}
		return root
	}

	orderA := make([]int, len(keys))
	for i := range orderA {
		orderA[i] = i
	}
	orderB := make([]int, len(keys))
	copy(orderB, orderA)
	rng.Shuffle(len(orderB), func(i, j int) { orderB[i], orderB[j] = orderB[j], orderB[i] })

	rootA := rootFor(orderA)
	rootB := rootFor(orderB)
	if !crypto.EqualFr(&rootA, &rootB) {
		t.Fatalf("P2 violated: root depends on insertion order (%v vs %v)", rootA, rootB)
	}
}

// P5: updating a key to its current value is a root-preserving no-op.
func TestP5NoOpUpdatePreservesRoot(t *testing.T) {
	tr := newTestTrie()
	rng := rand.New(rand.NewSource(3))

	var keys [][32]byte
	for i := 0; i < 16; i++ {
		var k, v [32]byte
		rng.Read(k[:])
		rng.Read(v[:])
		keys = append(keys, k)
		if err := tr.Insert(k[:], v); err != nil {
			t.Fatal(err)
		}
	}

	before, err := tr.ComputeRoot()
	if err != nil {
		t.Fatal(err)
	}

	for _, k := range keys {
		v, ok, err := tr.Get(k[:])
		if err != nil || !ok {
			t.Fatalf("expected key present: err=%v ok=%v", err, ok)
		}
		if err := tr.Insert(k[:], v); err != nil {
			t.Fatalf("no-op re-insert: %v", err)
		}
	}

	after, err := tr.ComputeRoot()
	if err != nil {
		t.Fatal(err)
	}
	if !crypto.EqualFr(&before, &after) {
		t.Fatalf("P5 violated: root changed after no-op updates (%v -> %v)", before, after)
	}
}

// P3: every reachable branch's hash_commitment is group_to_field of its
// commitment (trivially true by construction, but exercised here via a
// chain-insert-heavy scenario to ensure the invariant survives it).
func TestP3BranchHashConsistencyAfterChainInsert(t *testing.T) {
	tr := newTestTrie()

	a := key32(0)
	b := key32(0)
	b[29], b[30], b[31] = 0, 1, 0
	c := key32(0)
	c[28], c[29], c[30], c[31] = 0, 1, 0, 0

	for _, k := range [][32]byte{a, b, c} {
		if err := tr.Insert(k[:], k); err != nil {
			t.Fatalf("insert %x: %v", k, err)
		}
	}

	for _, k := range [][32]byte{a, b, c} {
		got, ok, err := tr.Get(k[:])
		if err != nil {
			t.Fatal(err)
		}
		if !ok || !bytes.Equal(got[:], k[:]) {
			t.Fatalf("Get(%x): ok=%v got=%x", k, ok, got)
		}
	}

	root, present, err := tr.storage.GetBranchMeta(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !present {
		t.Fatal("expected root branch to exist")
	}
	var want crypto.Fr
	crypto.GroupToField(&want, &root.Commitment)
	if !crypto.EqualFr(&want, &root.HashCommitment) {
		t.Fatalf("I2/P3 violated: root.HashCommitment != group_to_field(root.Commitment)")
	}
}

// P4: a stem's delta-maintained Commitment (and its C1/C2 bank
// commitments) must equal what a from-scratch recomputation over every
// occupied slot produces (I3/I4). This is the property the empty-bank
// baseline bug (zeroG1Hash instead of a true zero contribution) broke.
func TestP4StemCommitmentMatchesFromScratchRecomputation(t *testing.T) {
	tr := newTestTrie()

	stem := key32(0)
	k1 := stem
	k1[31] = 5
	k2 := stem
	k2[31] = 200

	v1 := key32(0xaa)
	v2 := key32(0xbb)

	if err := tr.Insert(k1[:], v1); err != nil {
		t.Fatal(err)
	}
	if err := tr.Insert(k2[:], v2); err != nil {
		t.Fatal(err)
	}

	stemKey := StemFromKey(k1[:])
	stemMeta, present, err := tr.storage.GetStemMeta(stemKey)
	if err != nil {
		t.Fatal(err)
	}
	if !present {
		t.Fatal("expected stem metadata")
	}

	var c1, c2 crypto.G1
	c1, c2 = crypto.ZeroG1, crypto.ZeroG1
	for slot := 0; slot < 256; slot++ {
		leaf, ok, err := tr.storage.GetLeaf(stemKey, byte(slot))
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			continue
		}

		low, high := splitValue(leaf[:])
		lowFr := frFromHalf(low)
		crypto.AddFr(&lowFr, &lowFr, &twoTo128)
		highFr := frFromHalf(high)

		n := slot % 128
		basisLow, basisHigh := 2*n, 2*n+1
		lowTerm := tr.committer.ScalarMul(&lowFr, basisLow)
		highTerm := tr.committer.ScalarMul(&highFr, basisHigh)

		bank := &c1
		if slot >= 128 {
			bank = &c2
		}
		var next crypto.G1
		crypto.AddG1(&next, bank, lowTerm)
		tmp := next
		crypto.AddG1(&next, &tmp, highTerm)
		*bank = next
	}

	if !bytes.Equal(crypto.CompressG1(&c1), crypto.CompressG1(&stemMeta.C1)) {
		t.Fatal("P4 violated: from-scratch C1 does not match delta-maintained C1")
	}
	if !bytes.Equal(crypto.CompressG1(&c2), crypto.CompressG1(&stemMeta.C2)) {
		t.Fatal("P4 violated: from-scratch C2 does not match delta-maintained C2")
	}

	var hash1, hash2 crypto.Fr
	crypto.GroupToField(&hash1, &c1)
	crypto.GroupToField(&hash2, &c2)

	one := crypto.One
	g0 := tr.committer.ScalarMul(&one, 0)
	stemFr := frFromStem(stemKey)
	g1term := tr.committer.ScalarMul(&stemFr, 1)
	hash1Term := tr.committer.ScalarMul(&hash1, 2)
	hash2Term := tr.committer.ScalarMul(&hash2, 3)

	var comm crypto.G1
	crypto.AddG1(&comm, g0, g1term)
	tmp := comm
	crypto.AddG1(&comm, &tmp, hash1Term)
	tmp = comm
	crypto.AddG1(&comm, &tmp, hash2Term)

	if !bytes.Equal(crypto.CompressG1(&comm), crypto.CompressG1(&stemMeta.Commitment)) {
		t.Fatal("P4 violated: from-scratch stem Commitment does not match delta-maintained Commitment")
	}
}

func TestHasAndRootAccessors(t *testing.T) {
	tr := newTestTrie()

	comm, err := tr.RootCommitment()
	if err != nil {
		t.Fatal(err)
	}
	var zeroHash, gotHash crypto.Fr
	z := crypto.ZeroG1
	crypto.GroupToField(&zeroHash, &z)
	crypto.GroupToField(&gotHash, &comm)
	if !crypto.EqualFr(&gotHash, &zeroHash) {
		t.Fatal("expected RootCommitment to be ZeroG1 for an empty trie")
	}

	key := key32(3)
	value := key32(4)
	present, err := tr.Has(key[:])
	if err != nil {
		t.Fatal(err)
	}
	if present {
		t.Fatal("expected Has to report false before insertion")
	}

	if err := tr.Insert(key[:], value); err != nil {
		t.Fatal(err)
	}

	present, err = tr.Has(key[:])
	if err != nil {
		t.Fatal(err)
	}
	if !present {
		t.Fatal("expected Has to report true after insertion")
	}

	root, err := tr.RootHash()
	if err != nil {
		t.Fatal(err)
	}
	commAfter, err := tr.RootCommitment()
	if err != nil {
		t.Fatal(err)
	}
	var fromComm crypto.Fr
	crypto.GroupToField(&fromComm, &commAfter)
	if !crypto.EqualFr(&root, &fromComm) {
		t.Fatal("RootHash should equal group_to_field(RootCommitment())")
	}
}
