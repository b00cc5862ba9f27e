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

// NodeWidth is the branching factor of the trie: every branch node has
// 256 children, one per possible byte value.
const NodeWidth = 256

// StemSize is the length, in bytes, of the prefix that all leaves under
// one stem share.
const StemSize = 31

// KeySize is the length, in bytes, of a full key.
const KeySize = 32

// Stem is the 31-byte prefix shared by up to 256 leaves.
type Stem [StemSize]byte

// StemFromKey extracts the stem (key[0:31]) from a full key.
func StemFromKey(key []byte) Stem {
	var s Stem
	copy(s[:], key[:StemSize])
	return s
}

// LastIndex returns key[31], the byte that selects a leaf's slot under
// its stem.
func LastIndex(key []byte) byte {
	return key[StemSize]
}

// splitValue splits a 32-byte value into its low and high halves, per
// the data model (value_low = value[0:16], value_high = value[16:32]).
func splitValue(value []byte) (low, high [16]byte) {
	copy(low[:], value[:16])
	copy(high[:], value[16:])
	return
}

// pathDifference returns the longest common prefix of two 31-byte stems
// (as path indices) and the first index at which they differ in each,
// matching path_difference(a, b, width=8) from spec.md §4.2. If the
// stems are identical it returns (a, -1, -1).
func pathDifference(a, b Stem) (shared []byte, diffOld, diffNew int) {
	n := len(a)
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	shared = make([]byte, i)
	copy(shared, a[:i])
	if i == n {
		return shared, -1, -1
	}
	return shared, int(a[i]), int(b[i])
}

// pathsFromRelative materializes the branch paths implied by extending
// base with each successive byte of rel, e.g.
// pathsFromRelative([0,1,2], [5,6,7]) = [[0,1,2,5],[0,1,2,5,6],[0,1,2,5,6,7]].
func pathsFromRelative(base, rel []byte) [][]byte {
	paths := make([][]byte, len(rel))
	cur := append([]byte{}, base...)
	for i, b := range rel {
		cur = append(cur, b)
		p := make([]byte, len(cur))
		copy(p, cur)
		paths[i] = p
	}
	return paths
}
