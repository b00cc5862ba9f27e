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

// Package verkle is the trie core: the insertion state machine, its
// delta-commitment maintenance, and root/proof computation. It never
// holds a node graph (see storage package doc) — every node is reached
// through Trie.storage, keyed by its path from the root.
package verkle

import (
	"fmt"
	"math/big"

	"github.com/verkle-trie/vtrie/crypto"
	"github.com/verkle-trie/vtrie/storage"
)

var twoTo128 = func() crypto.Fr {
	var fr crypto.Fr
	v := new(big.Int).Lsh(big.NewInt(1), 128)
	var b [32]byte
	v.FillBytes(b[:])
	// FrFromBytes32 reads little-endian bytes.
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	if err := crypto.FrFromBytes32(&fr, b); err != nil {
		panic("verkle: failed to build 2^128 constant: " + err.Error())
	}
	return fr
}()

var zeroG1Hash = func() crypto.Fr {
	var fr crypto.Fr
	z := crypto.ZeroG1
	crypto.GroupToField(&fr, &z)
	return fr
}()

// Trie is a Verkle trie bound to a storage backend, a committer and the
// SRS those commitments are taken against. It is not safe for
// concurrent mutation (spec.md §5): only one Insert may run at a time,
// though reads may run concurrently with each other once Flush has
// settled any pending writes.
type Trie struct {
	storage   storage.Storage
	committer crypto.Committer
	srs       *crypto.SRS
}

// New builds a Trie over an already-initialized storage backend.
func New(store storage.Storage, committer crypto.Committer, srs *crypto.SRS) *Trie {
	return &Trie{storage: store, committer: committer, srs: srs}
}

// NewDefault builds a Trie over store using the process-wide default
// SRS and committer (spec.md §9, "Global SRS").
func NewDefault(store storage.Storage) *Trie {
	return New(store, crypto.DefaultCommitter(), crypto.DefaultSRS())
}

// Insert performs the plan-then-execute algorithm of spec.md §4.2. key
// must be 32 bytes.
func (t *Trie) Insert(key []byte, value [32]byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("%w: key must be %d bytes, got %d", ErrInvariantViolation, KeySize, len(key))
	}

	instrs, err := plan(t.storage, key, value)
	if err != nil {
		return err
	}
	if instrs == nil {
		return nil
	}

	for i := len(instrs) - 1; i >= 0; i-- {
		if err := t.execute(instrs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (t *Trie) execute(instr Instruction) error {
	switch v := instr.(type) {
	case *UpdateLeaf:
		return t.updateLeafCascade(v.Path, v.ChildIndex, v.Key, v.Value)
	case *InternalNodeFallThrough:
		return t.executeFallThrough(v)
	case *ChainInsert:
		return t.executeChainInsert(v)
	default:
		return fmt.Errorf("%w: unknown instruction %T", ErrInvariantViolation, instr)
	}
}

// Get returns the value stored at key, if any.
func (t *Trie) Get(key []byte) ([32]byte, bool, error) {
	var zero [32]byte
	if len(key) != KeySize {
		return zero, false, fmt.Errorf("%w: key must be %d bytes, got %d", ErrInvariantViolation, KeySize, len(key))
	}

	var path []byte
	depth := 0
	for {
		ref, present, err := t.storage.GetBranchChild(path, key[depth])
		if err != nil {
			return zero, false, fmt.Errorf("%w: %v", ErrStorageIO, err)
		}
		if !present {
			return zero, false, nil
		}
		switch ref.Kind {
		case storage.ChildBranch:
			path = append(clonePath(path), key[depth])
			depth++
			continue
		case storage.ChildStem:
			if Stem(ref.Stem) != StemFromKey(key) {
				return zero, false, nil
			}
			return t.storage.GetLeaf(ref.Stem, LastIndex(key))
		default:
			return zero, false, fmt.Errorf("%w: unknown child kind %d", ErrInvariantViolation, ref.Kind)
		}
	}
}

// Has reports whether key has a value in the trie, without paying for
// the value's bytes (verkle-trie/src/trie.rs's contains).
func (t *Trie) Has(key []byte) (bool, error) {
	_, ok, err := t.Get(key)
	return ok, err
}

// ComputeRoot returns branch([]).hash_commitment, or the zero field
// element for the empty trie (spec.md I5).
func (t *Trie) ComputeRoot() (crypto.Fr, error) {
	meta, present, err := t.storage.GetBranchMeta(nil)
	if err != nil {
		return crypto.Fr{}, fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	if !present {
		return crypto.Zero, nil
	}
	return meta.HashCommitment, nil
}

// RootHash is an alias for ComputeRoot, named to match
// verkle-trie/src/trie.rs's root_hash accessor.
func (t *Trie) RootHash() (crypto.Fr, error) { return t.ComputeRoot() }

// RootCommitment returns the root branch's group element directly,
// mirroring verkle-trie/src/trie.rs's root_commitment accessor. It
// returns ZeroG1 for the empty trie, the group-level analog of I5.
func (t *Trie) RootCommitment() (crypto.G1, error) {
	meta, present, err := t.storage.GetBranchMeta(nil)
	if err != nil {
		return crypto.G1{}, fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	if !present {
		return crypto.ZeroG1, nil
	}
	return meta.Commitment, nil
}

// Flush commits every staged write as one atomic batch.
func (t *Trie) Flush() error {
	if err := t.storage.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	return nil
}

// newZeroBranchMeta returns the BranchMeta for a freshly-created empty
// branch: zero commitment, whose hash is group_to_field(ZeroG1) rather
// than the Go zero value of Fr, so that the stored hash agrees with the
// stored commitment (spec.md §4.2, ChainInsert step 2). Delta updates
// never read this hash as a baseline: they overwrite it.
func newZeroBranchMeta(depth int) *storage.BranchMeta {
	return &storage.BranchMeta{
		Commitment:     crypto.ZeroG1,
		HashCommitment: zeroG1Hash,
		Depth:          depth,
	}
}

// updateBranchChildDelta applies I2's delta update to the branch at
// path: commitment += (newHash-oldHash)*G_{childIndex}, then records
// that childIndex now holds ref.
func (t *Trie) updateBranchChildDelta(path []byte, childIndex byte, newHash, oldHash crypto.Fr, ref storage.ChildRef) error {
	meta, present, err := t.storage.GetBranchMeta(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	if !present {
		meta = newZeroBranchMeta(len(path))
	}

	var delta crypto.Fr
	crypto.SubFr(&delta, &newHash, &oldHash)

	term := t.committer.ScalarMul(&delta, int(childIndex))
	var newComm crypto.G1
	crypto.AddG1(&newComm, &meta.Commitment, term)

	var newHashComm crypto.Fr
	crypto.GroupToField(&newHashComm, &newComm)

	meta.Commitment = newComm
	meta.HashCommitment = newHashComm
	meta.Depth = len(path)

	if err := t.storage.InsertBranch(path, meta); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	if err := t.storage.AddStemAsBranchChild(path, childIndex, ref); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	return nil
}

// frFromHalf interprets a 16-byte big-endian half (value_low or
// value_high) as a field element.
func frFromHalf(b [16]byte) crypto.Fr {
	var full [32]byte
	for i := range b {
		full[i] = b[len(b)-1-i]
	}
	var fr crypto.Fr
	if err := crypto.FrFromBytes32(&fr, full); err != nil {
		panic("verkle: value half does not reduce to a valid field element: " + err.Error())
	}
	return fr
}

// frFromStem interprets a 31-byte stem (big-endian) as a field element,
// as used in I3's stem_commitment = G0 + stem*G1 term.
func frFromStem(s Stem) crypto.Fr {
	var full [32]byte
	for i := range s {
		full[i] = s[len(s)-1-i]
	}
	var fr crypto.Fr
	if err := crypto.FrFromBytes32(&fr, full); err != nil {
		panic("verkle: stem does not reduce to a valid field element: " + err.Error())
	}
	return fr
}

// updateLeafCascade is the three-step UpdateLeaf cascade of spec.md
// §4.2: leaf table, stem (C1/C2) delta, branch delta. path is the
// branch the stem hangs off of; childIndex is the slot within that
// branch the stem occupies (which may already hold this exact stem, or
// may be empty / about to be populated for the first time).
func (t *Trie) updateLeafCascade(path []byte, childIndex byte, key []byte, value [32]byte) error {
	stem := StemFromKey(key)
	slot := LastIndex(key)

	oldLeaf, hadLeaf, err := t.storage.GetLeaf(stem, slot)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	if hadLeaf && oldLeaf == value {
		return nil
	}
	if err := t.storage.InsertLeaf(stem, slot, value); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}

	var oldLow, oldHigh [16]byte
	if hadLeaf {
		oldLow, oldHigh = splitValue(oldLeaf[:])
	}
	newLow, newHigh := splitValue(value[:])

	oldLowFr, oldHighFr := frFromHalf(oldLow), frFromHalf(oldHigh)
	newLowFr, newHighFr := frFromHalf(newLow), frFromHalf(newHigh)

	var deltaLow crypto.Fr
	crypto.SubFr(&deltaLow, &newLowFr, &oldLowFr)
	if !hadLeaf {
		crypto.AddFr(&deltaLow, &deltaLow, &twoTo128)
	}
	var deltaHigh crypto.Fr
	crypto.SubFr(&deltaHigh, &newHighFr, &oldHighFr)

	n := int(slot) % 128
	bank := 0
	if slot >= 128 {
		bank = 1
	}
	basisLow, basisHigh := 2*n, 2*n+1

	stemMeta, hadStem, err := t.storage.GetStemMeta(stem)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	if !hadStem {
		one := crypto.One
		g0 := t.committer.ScalarMul(&one, 0)
		stemFr := frFromStem(stem)
		g1term := t.committer.ScalarMul(&stemFr, 1)

		var comm crypto.G1
		crypto.AddG1(&comm, g0, g1term)

		stemMeta = &storage.StemMeta{
			C1: crypto.ZeroG1, C2: crypto.ZeroG1,
			HashC1: crypto.Zero, HashC2: crypto.Zero,
			Commitment: comm,
			Depth:      len(path) + 1,
		}
	}

	var oldBankHash crypto.Fr
	var bankComm *crypto.G1
	if bank == 0 {
		oldBankHash, bankComm = stemMeta.HashC1, &stemMeta.C1
	} else {
		oldBankHash, bankComm = stemMeta.HashC2, &stemMeta.C2
	}

	lowTerm := t.committer.ScalarMul(&deltaLow, basisLow)
	highTerm := t.committer.ScalarMul(&deltaHigh, basisHigh)
	var newBankComm crypto.G1
	crypto.AddG1(&newBankComm, bankComm, lowTerm)
	tmp := newBankComm
	crypto.AddG1(&newBankComm, &tmp, highTerm)

	var newBankHash crypto.Fr
	crypto.GroupToField(&newBankHash, &newBankComm)

	if bank == 0 {
		stemMeta.C1, stemMeta.HashC1 = newBankComm, newBankHash
	} else {
		stemMeta.C2, stemMeta.HashC2 = newBankComm, newBankHash
	}

	var deltaBankHash crypto.Fr
	crypto.SubFr(&deltaBankHash, &newBankHash, &oldBankHash)
	hashTerm := t.committer.ScalarMul(&deltaBankHash, 2+bank)

	oldStemHashForBranch := crypto.Zero
	if hadStem {
		oldStemHashForBranch = stemMeta.HashCommitment
	}

	var newStemComm crypto.G1
	crypto.AddG1(&newStemComm, &stemMeta.Commitment, hashTerm)
	stemMeta.Commitment = newStemComm

	var newStemHash crypto.Fr
	crypto.GroupToField(&newStemHash, &stemMeta.Commitment)
	stemMeta.HashCommitment = newStemHash
	stemMeta.Depth = len(path) + 1

	if err := t.storage.InsertStem(stem, stemMeta); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}

	return t.updateBranchChildDelta(path, childIndex, newStemHash, oldStemHashForBranch, storage.ChildRef{Kind: storage.ChildStem, Stem: stem})
}

func (t *Trie) executeFallThrough(instr *InternalNodeFallThrough) error {
	childMeta, present, err := t.storage.GetBranchMeta(instr.ChildPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	if !present {
		return fmt.Errorf("%w: fell through to a branch with no metadata at %x", ErrInvariantViolation, instr.ChildPath)
	}

	oldHash := crypto.Zero
	if instr.OldChildPresent {
		oldHash = instr.OldChildHash
	}
	return t.updateBranchChildDelta(instr.Path, instr.ChildIndex, childMeta.HashCommitment, oldHash, storage.ChildRef{Kind: storage.ChildBranch})
}

// executeChainInsert implements spec.md §4.2's ChainInsert algorithm: a
// chain of fresh branches is created between parentBranch and a new
// bottom branch holding both the new leaf and the relocated old stem.
func (t *Trie) executeChainInsert(ci *ChainInsert) error {
	paths := pathsFromRelative(ci.ParentPath, ci.ChainPath)
	bottom := paths[len(paths)-1]
	upper := paths[:len(paths)-1]

	if err := t.storage.InsertBranch(bottom, newZeroBranchMeta(len(bottom))); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}

	if err := t.updateLeafCascade(bottom, ci.NewLeafIndex, ci.NewKey, ci.NewValue); err != nil {
		return err
	}

	oldStemMeta, present, err := t.storage.GetStemMeta(ci.OldStem)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	if !present {
		return fmt.Errorf("%w: chain-insert against a stem with no metadata", ErrInvariantViolation)
	}
	origOldStemHash := oldStemMeta.HashCommitment

	if err := t.updateBranchChildDelta(bottom, ci.OldLeafIndex, origOldStemHash, crypto.Zero, storage.ChildRef{Kind: storage.ChildStem, Stem: ci.OldStem}); err != nil {
		return err
	}

	oldStemMeta.Depth = len(bottom) + 1
	if err := t.storage.InsertStem(ci.OldStem, oldStemMeta); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}

	curHash, err := t.branchHash(bottom)
	if err != nil {
		return err
	}

	for k := len(upper) - 1; k >= 0; k-- {
		p := upper[k]
		childIndex := ci.ChainPath[k+1]

		if err := t.storage.InsertBranch(p, newZeroBranchMeta(len(p))); err != nil {
			return fmt.Errorf("%w: %v", ErrStorageIO, err)
		}
		if err := t.updateBranchChildDelta(p, childIndex, curHash, crypto.Zero, storage.ChildRef{Kind: storage.ChildBranch}); err != nil {
			return err
		}
		curHash, err = t.branchHash(p)
		if err != nil {
			return err
		}
	}

	return t.updateBranchChildDelta(ci.ParentPath, ci.ChildIndex, curHash, origOldStemHash, storage.ChildRef{Kind: storage.ChildBranch})
}

func (t *Trie) branchHash(path []byte) (crypto.Fr, error) {
	meta, present, err := t.storage.GetBranchMeta(path)
	if err != nil {
		return crypto.Fr{}, fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	if !present {
		return crypto.Fr{}, fmt.Errorf("%w: missing branch at %x after update", ErrInvariantViolation, path)
	}
	return meta.HashCommitment, nil
}
