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

import "github.com/verkle-trie/vtrie/crypto"

// LeafHash computes the Pedersen-style commitment of a single (key,
// value) pair against the process-wide default SRS, independent of any
// trie instance (spec.md §6, "external leaf-hash API used by tests").
// It mirrors the per-slot contribution rule of I4: the committed value
// is (value_low + 2^128)*G_2n + value_high*G_2n+1 for n = key[31] mod
// 128, reduced to a field element via group_to_field.
func LeafHash(key, value [32]byte) crypto.Fr {
	return leafHashWith(crypto.DefaultCommitter(), key, value)
}

func leafHashWith(committer crypto.Committer, key, value [32]byte) crypto.Fr {
	n := int(key[31]) % 128
	low, high := splitValue(value[:])

	lowFr := frFromHalf(low)
	crypto.AddFr(&lowFr, &lowFr, &twoTo128)
	highFr := frFromHalf(high)

	lowTerm := committer.ScalarMul(&lowFr, 2*n)
	highTerm := committer.ScalarMul(&highFr, 2*n+1)

	var comm crypto.G1
	crypto.AddG1(&comm, lowTerm, highTerm)

	var out crypto.Fr
	crypto.GroupToField(&out, &comm)
	return out
}
