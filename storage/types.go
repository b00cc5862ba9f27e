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

// Package storage is the two-tier storage abstraction of spec.md §4.1: a
// cached hot layer (levels 0-3) over a batched persistent layer, keying
// every node by its path in the trie rather than by an in-memory
// pointer graph (spec.md §9, "do not represent nodes as graphs with
// back-pointers").
package storage

import "github.com/verkle-trie/vtrie/crypto"

// ChildKind distinguishes what, if anything, occupies a branch slot.
type ChildKind uint8

const (
	ChildEmpty ChildKind = iota
	ChildStem
	ChildBranch
)

// ChildRef is the value stored in a branch's child-index map: either a
// stem (the 31-byte prefix of the leaves living under it) or a pointer
// to a child branch, which is always branchPath ++ [i] and therefore
// needs no payload of its own.
type ChildRef struct {
	Kind ChildKind
	Stem [31]byte
}

// StemMeta is the Stem entity of the data model: the two per-bank
// commitments C1/C2, their field-hashes, the stem-level commitment
// combining them with the stem bytes, and its hash.
type StemMeta struct {
	C1, C2                 crypto.G1
	HashC1, HashC2         crypto.Fr
	Commitment             crypto.G1
	HashCommitment         crypto.Fr
	Depth                  int
}

// BranchMeta is the Branch entity of the data model: a single
// commitment folding in every occupied child slot, its hash, and depth.
type BranchMeta struct {
	Commitment     crypto.G1
	HashCommitment crypto.Fr
	Depth          int
}

// SlotValue is one occupied leaf slot under a stem, as returned by
// GetStemChildren.
type SlotValue struct {
	Index byte
	Value [32]byte
}
