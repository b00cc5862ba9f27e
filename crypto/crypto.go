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

// Package crypto is the Field & Group Arithmetic Facade: it is the only
// place in this module that names the pairing-friendly curve library
// directly. Everything above this package talks in terms of Fr, G1, G2
// and ScalarMul/GroupToField, never in terms of the underlying library.
package crypto

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"github.com/protolambda/go-kzg/bls"
)

type (
	// Fr is a scalar field element.
	Fr = bls.Fr
	// G1 is a point in the first pairing group, used for commitments.
	G1 = bls.G1Point
	// G2 is a point in the second pairing group, used only by the
	// verifier's pairing check.
	G2 = bls.G2Point
)

var (
	Zero = bls.ZERO
	One  = bls.ONE

	GenG1 = bls.GenG1
	GenG2 = bls.GenG2

	ZeroG1 = bls.ZeroG1
)

func CopyFr(dst, src *Fr) { bls.CopyFr(dst, src) }
func CopyG1(dst, src *G1) { bls.CopyG1(dst, src) }

func AddFr(dst, a, b *Fr) { bls.AddModFr(dst, a, b) }
func SubFr(dst, a, b *Fr) { bls.SubModFr(dst, a, b) }
func MulFr(dst, a, b *Fr) { bls.MulModFr(dst, a, b) }
func DivFr(dst, a, b *Fr) { bls.DivModFr(dst, a, b) }
func InvFr(dst, a *Fr)    { bls.InvModFr(dst, a) }
func NegFr(dst, a *Fr)    { bls.SubModFr(dst, &Zero, a) }
func IsZeroFr(a *Fr) bool { return bls.EqualZero(a) }
func EqualFr(a, b *Fr) bool {
	return bls.EqualFr(a, b)
}

func AddG1(dst, a, b *G1)               { bls.AddG1(dst, a, b) }
func SubG1(dst, a, b *G1)               { bls.SubG1(dst, a, b) }
func ScalarMulG1(dst *G1, p *G1, s *Fr) { bls.MulG1(dst, p, s) }

// ScalarMulG1Ref is the allocating counterpart of ScalarMulG1, handy at
// call sites that don't already have a destination in scope (the
// verifier's pairing-check assembly).
func ScalarMulG1Ref(p *G1, s *Fr) *G1 {
	var out G1
	bls.MulG1(&out, p, s)
	return &out
}

// G2 arithmetic is only needed by the verifier's pairing check, never by
// the committer or the trie core.
func AddG2(dst, a, b *G2)               { bls.AddG2(dst, a, b) }
func SubG2(dst, a, b *G2)               { bls.SubG2(dst, a, b) }
func ScalarMulG2(dst *G2, p *G2, s *Fr) { bls.MulG2(dst, p, s) }

// LinCombG1 computes the multi-scalar-multiplication sum(points[i] * scalars[i]).
func LinCombG1(points []G1, scalars []Fr) *G1 {
	return bls.LinCombG1(points, scalars)
}

func FrFromUint64(dst *Fr, v uint64) { bls.AsFr(dst, v) }

// FrFromBytes32 decodes a little-endian 32-byte buffer into an Fr, erroring
// if it does not represent a canonical field element.
func FrFromBytes32(dst *Fr, b [32]byte) error {
	if !bls.FrFrom32(dst, b) {
		return errors.New("crypto: bytes do not represent a valid field element")
	}
	return nil
}

func FrToBytes32(a *Fr) [32]byte { return bls.FrTo32(a) }

func CompressG1(p *G1) []byte { return bls.ToCompressedG1(p) }

// DecompressG1 is the inverse of CompressG1, used by the storage layer to
// rehydrate a commitment it previously persisted.
func DecompressG1(b []byte) (*G1, error) {
	p, err := bls.FromCompressedG1(b)
	if err != nil {
		return nil, fmt.Errorf("crypto: decompressing G1 point: %w", err)
	}
	return p, nil
}

// GroupToField is the collision-resistant map from a commitment to a
// scalar used to fold a child's commitment into its parent's polynomial
// (I2/I3 in the data model: hash_of_child, hash_c1, hash_c2, ...). It
// hashes the compressed point with SHA-256 and reduces modulo the
// scalar field's modulus.
func GroupToField(dst *Fr, p *G1) {
	h := sha256.Sum256(bls.ToCompressedG1(p))
	hashToFr(dst, h)
}

// ReduceDigestToFr reduces an arbitrary 32-byte digest modulo the
// scalar field, the same reduction GroupToField applies to a hashed
// commitment. Used by the transcript to turn a squeezed Fiat-Shamir
// digest into a challenge scalar.
func ReduceDigestToFr(dst *Fr, digest [32]byte) {
	hashToFr(dst, digest)
}

// modulus is the BLS12-381 scalar field order, used only to reduce an
// arbitrary 32-byte hash down to a canonical field element; it mirrors
// go-verkle's hashToFr helper (tree.go/tree_kzg.go).
var modulus, _ = new(big.Int).SetString("52435875175126190479447740508185965837690552500527637822603658699938581184513", 10)

func hashToFr(out *Fr, h [32]byte) {
	var h2 [32]byte
	for i := range h {
		h2[i] = h[len(h)-i-1]
	}

	x := new(big.Int).SetBytes(h2[:])
	x.Mod(x, modulus)

	for i := range h2 {
		h2[i] = 0
	}
	copy(h2[32-len(x.Bytes()):], x.Bytes())

	for i, j := 0, len(h2)-1; i < j; i, j = i+1, j-1 {
		h2[i], h2[j] = h2[j], h2[i]
	}

	if !bls.FrFrom32(out, h2) {
		panic("crypto: reduced hash is not a valid field element")
	}
}

// PairingCheck verifies e(a1, a2) == e(b1, b2), the primitive the
// multi-point opener's verifier uses to check the aggregated KZG-style
// witness (spec: "runs the pairing check").
func PairingCheck(a1 *G1, a2 *G2, b1 *G1, b2 *G2) bool {
	return bls.PairingsVerify(a1, a2, b1, b2)
}
