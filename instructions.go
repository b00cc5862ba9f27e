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

	"github.com/verkle-trie/vtrie/crypto"
	"github.com/verkle-trie/vtrie/storage"
)

// Instruction is one step of a planned insertion (spec.md §4.2). The
// planner emits a list purely from reads; execute walks it in reverse.
type Instruction interface {
	isInstruction()
}

// UpdateLeaf writes (or overwrites) a single leaf slot and cascades the
// delta through its stem and branch.
type UpdateLeaf struct {
	Path       []byte
	ChildIndex byte
	Key        []byte
	Value      [32]byte
}

// InternalNodeFallThrough records a branch-to-branch descent taken
// during planning; by the time it executes (in reverse), ChildPath's
// commitment already reflects everything below it.
type InternalNodeFallThrough struct {
	Path            []byte
	ChildIndex      byte
	ChildPath       []byte
	OldChildPresent bool
	OldChildHash    crypto.Fr
}

// ChainInsert splits an occupied stem slot into a chain of fresh
// branches when the new key's stem diverges from the occupant partway
// through the stem.
type ChainInsert struct {
	ParentPath   []byte
	ChildIndex   byte
	ChainPath    []byte
	OldStem      Stem
	OldLeafIndex byte
	NewLeafIndex byte
	NewKey       []byte
	NewValue     [32]byte
}

func (*UpdateLeaf) isInstruction()              {}
func (*InternalNodeFallThrough) isInstruction() {}
func (*ChainInsert) isInstruction()             {}

func clonePath(p []byte) []byte {
	out := make([]byte, len(p))
	copy(out, p)
	return out
}

// plan performs the read-only traversal of spec.md §4.2 and returns the
// instruction list to execute in reverse, or (nil, nil) if the insert is
// a no-op (the key already maps to value).
func plan(store storage.Storage, key []byte, value [32]byte) ([]Instruction, error) {
	var instrs []Instruction
	var path []byte
	depth := 0

	for {
		ref, present, err := store.GetBranchChild(path, key[depth])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageIO, err)
		}

		if !present {
			instrs = append(instrs, &UpdateLeaf{
				Path: clonePath(path), ChildIndex: key[depth], Key: key, Value: value,
			})
			return instrs, nil
		}

		switch ref.Kind {
		case storage.ChildBranch:
			childPath := append(clonePath(path), key[depth])
			oldMeta, oldPresent, err := store.GetBranchMeta(childPath)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrStorageIO, err)
			}
			var oldHash crypto.Fr
			if oldPresent {
				oldHash = oldMeta.HashCommitment
			}
			instrs = append(instrs, &InternalNodeFallThrough{
				Path: clonePath(path), ChildIndex: key[depth], ChildPath: childPath,
				OldChildPresent: oldPresent, OldChildHash: oldHash,
			})
			path = childPath
			depth++
			continue

		case storage.ChildStem:
			s := Stem(ref.Stem)
			shared, diffOld, diffNew := pathDifference(s, StemFromKey(key))

			if diffOld == -1 {
				existing, hadLeaf, err := store.GetLeaf(ref.Stem, LastIndex(key))
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrStorageIO, err)
				}
				if hadLeaf && existing == value {
					return nil, nil
				}
				instrs = append(instrs, &UpdateLeaf{
					Path: clonePath(path), ChildIndex: key[depth], Key: key, Value: value,
				})
				return instrs, nil
			}

			chainPath := append([]byte(nil), shared[depth:]...)
			instrs = append(instrs, &ChainInsert{
				ParentPath:   clonePath(path),
				ChildIndex:   key[depth],
				ChainPath:    chainPath,
				OldStem:      s,
				OldLeafIndex: byte(diffOld),
				NewLeafIndex: byte(diffNew),
				NewKey:       key,
				NewValue:     value,
			})
			return instrs, nil

		default:
			return nil, fmt.Errorf("%w: unknown child kind %d", ErrInvariantViolation, ref.Kind)
		}
	}
}
