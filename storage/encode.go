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

package storage

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/verkle-trie/vtrie/crypto"
)

// rlpStemMeta is the RLP wire shape for StemMeta: commitments travel
// compressed, hashes travel as the canonical 32-byte Fr encoding.
type rlpStemMeta struct {
	C1, C2         []byte
	HashC1, HashC2 [32]byte
	Commitment     []byte
	HashCommitment [32]byte
	Depth          uint64
}

func EncodeStemMeta(m *StemMeta) ([]byte, error) {
	w := rlpStemMeta{
		C1:             crypto.CompressG1(&m.C1),
		C2:             crypto.CompressG1(&m.C2),
		HashC1:         crypto.FrToBytes32(&m.HashC1),
		HashC2:         crypto.FrToBytes32(&m.HashC2),
		Commitment:     crypto.CompressG1(&m.Commitment),
		HashCommitment: crypto.FrToBytes32(&m.HashCommitment),
		Depth:          uint64(m.Depth),
	}
	b, err := rlp.EncodeToBytes(&w)
	if err != nil {
		return nil, fmt.Errorf("storage: rlp-encoding stem meta: %w", err)
	}
	return b, nil
}

func DecodeStemMeta(data []byte) (*StemMeta, error) {
	var w rlpStemMeta
	if err := rlp.DecodeBytes(data, &w); err != nil {
		return nil, fmt.Errorf("storage: rlp-decoding stem meta: %w", err)
	}
	m := &StemMeta{Depth: int(w.Depth)}

	c1, err := crypto.DecompressG1(w.C1)
	if err != nil {
		return nil, err
	}
	m.C1 = *c1

	c2, err := crypto.DecompressG1(w.C2)
	if err != nil {
		return nil, err
	}
	m.C2 = *c2

	comm, err := crypto.DecompressG1(w.Commitment)
	if err != nil {
		return nil, err
	}
	m.Commitment = *comm

	if err := crypto.FrFromBytes32(&m.HashC1, w.HashC1); err != nil {
		return nil, err
	}
	if err := crypto.FrFromBytes32(&m.HashC2, w.HashC2); err != nil {
		return nil, err
	}
	if err := crypto.FrFromBytes32(&m.HashCommitment, w.HashCommitment); err != nil {
		return nil, err
	}
	return m, nil
}

type rlpBranchMeta struct {
	Commitment     []byte
	HashCommitment [32]byte
	Depth          uint64
}

func EncodeBranchMeta(m *BranchMeta) ([]byte, error) {
	w := rlpBranchMeta{
		Commitment:     crypto.CompressG1(&m.Commitment),
		HashCommitment: crypto.FrToBytes32(&m.HashCommitment),
		Depth:          uint64(m.Depth),
	}
	b, err := rlp.EncodeToBytes(&w)
	if err != nil {
		return nil, fmt.Errorf("storage: rlp-encoding branch meta: %w", err)
	}
	return b, nil
}

func DecodeBranchMeta(data []byte) (*BranchMeta, error) {
	var w rlpBranchMeta
	if err := rlp.DecodeBytes(data, &w); err != nil {
		return nil, fmt.Errorf("storage: rlp-decoding branch meta: %w", err)
	}
	m := &BranchMeta{Depth: int(w.Depth)}
	comm, err := crypto.DecompressG1(w.Commitment)
	if err != nil {
		return nil, err
	}
	m.Commitment = *comm
	if err := crypto.FrFromBytes32(&m.HashCommitment, w.HashCommitment); err != nil {
		return nil, err
	}
	return m, nil
}

// rlpChildMap is the on-disk shape of a branch's child-index map: a
// 256-bit presence mask plus one entry per occupied slot, in ascending
// index order. A stem entry carries its 31-byte prefix; a branch entry
// carries none, since its path is always the parent path with the
// index appended.
type rlpChildMap struct {
	Presence []byte
	Kinds    []byte
	Stems    [][]byte
}

// EncodeChildMap serializes a branch's sparse child-index map, mirroring
// go-verkle's InternalNode serialization (a bitlist of occupied slots
// followed by per-slot payloads) but keyed by path rather than embedded
// in an in-memory node graph.
func EncodeChildMap(children map[byte]ChildRef) ([]byte, error) {
	bs := bitset.New(NodeWidthBits)
	kinds := make([]byte, 0, len(children))
	stems := make([][]byte, 0, len(children))

	for i := 0; i < NodeWidthBits; i++ {
		ref, ok := children[byte(i)]
		if !ok {
			continue
		}
		bs.Set(uint(i))
		kinds = append(kinds, byte(ref.Kind))
		if ref.Kind == ChildStem {
			stems = append(stems, append([]byte(nil), ref.Stem[:]...))
		} else {
			stems = append(stems, nil)
		}
	}

	raw := bs.Bytes()
	packed := make([]byte, len(raw)*8)
	for i, w := range raw {
		for j := 0; j < 8; j++ {
			packed[i*8+j] = byte(w >> (8 * j))
		}
	}

	w := rlpChildMap{Presence: packed, Kinds: kinds, Stems: stems}
	b, err := rlp.EncodeToBytes(&w)
	if err != nil {
		return nil, fmt.Errorf("storage: rlp-encoding child map: %w", err)
	}
	return b, nil
}

func DecodeChildMap(data []byte) (map[byte]ChildRef, error) {
	var w rlpChildMap
	if err := rlp.DecodeBytes(data, &w); err != nil {
		return nil, fmt.Errorf("storage: rlp-decoding child map: %w", err)
	}

	words := make([]uint64, len(w.Presence)/8)
	for i := range words {
		var v uint64
		for j := 0; j < 8; j++ {
			v |= uint64(w.Presence[i*8+j]) << (8 * j)
		}
		words[i] = v
	}
	bs := bitset.From(words)

	out := make(map[byte]ChildRef, len(w.Kinds))
	idx := 0
	for i := 0; i < NodeWidthBits; i++ {
		if !bs.Test(uint(i)) {
			continue
		}
		ref := ChildRef{Kind: ChildKind(w.Kinds[idx])}
		if ref.Kind == ChildStem {
			copy(ref.Stem[:], w.Stems[idx])
		}
		out[byte(i)] = ref
		idx++
	}
	return out, nil
}

// NodeWidthBits is the branching factor of the trie, duplicated from the
// root package to avoid an import cycle (storage must not depend on the
// package that depends on storage).
const NodeWidthBits = 256
