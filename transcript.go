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
	"crypto/sha256"

	"github.com/verkle-trie/vtrie/crypto"
)

// Transcript accumulates a Fiat-Shamir state over labeled absorbs, and
// squeezes challenge scalars from it. It generalizes go-verkle's
// Transcript (AppendScalar/AppendPoint/ChallengeScalar in transcript.go)
// with the labels spec.md §6 names ("f_x", "value", "eval", "r", "D",
// "t", "E", "d_comm", "h_t", "g_t").
type Transcript struct {
	state []byte
}

// NewTranscript starts a transcript with a domain-separation label.
func NewTranscript(domainSep string) *Transcript {
	t := &Transcript{}
	t.appendBytes([]byte(domainSep))
	return t
}

func (t *Transcript) appendBytes(b []byte) {
	t.state = append(t.state, b...)
}

// AppendScalar absorbs a field element under the given label.
func (t *Transcript) AppendScalar(label string, s *crypto.Fr) {
	t.appendBytes([]byte(label))
	b := crypto.FrToBytes32(s)
	t.appendBytes(b[:])
}

// AppendPoint absorbs a commitment under the given label. The point is
// first compressed and hashed, matching go-verkle's
// Transcript.AppendPoint (so tests that assert on prior fixtures still
// line up).
func (t *Transcript) AppendPoint(label string, p *crypto.G1) {
	t.appendBytes([]byte(label))
	h := sha256.Sum256(crypto.CompressG1(p))
	t.appendBytes(h[:])
}

// Challenge squeezes a challenge scalar labeled label. Squeezing hashes
// the accumulated state and resets it, so the next challenge reflects
// everything absorbed (including prior challenges, if the caller
// re-absorbs them) since the last squeeze.
func (t *Transcript) Challenge(label string) crypto.Fr {
	t.appendBytes([]byte(label))

	digest := sha256.Sum256(t.state)
	t.state = t.state[:0]

	var out crypto.Fr
	crypto.ReduceDigestToFr(&out, digest)
	return out
}
