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
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/verkle-trie/vtrie/crypto"
)

// verkleProofMarshaller is the wire shape of VerkleProof: every field
// hex-encoded, mirroring go-verkle's proof_json.go marshaller.
type verkleProofMarshaller struct {
	D     string `json:"d"`
	Y     string `json:"y"`
	Sigma string `json:"sigma"`
}

func (p *VerkleProof) MarshalJSON() ([]byte, error) {
	return json.Marshal(&verkleProofMarshaller{
		D:     hex.EncodeToString(crypto.CompressG1(&p.D)),
		Y:     hex.EncodeToString(frBytes(&p.Y)),
		Sigma: hex.EncodeToString(crypto.CompressG1(&p.Sigma)),
	})
}

func (p *VerkleProof) UnmarshalJSON(data []byte) error {
	var aux verkleProofMarshaller
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	dBytes, err := hex.DecodeString(aux.D)
	if err != nil {
		return fmt.Errorf("verkle: decoding proof.d: %w", err)
	}
	d, err := crypto.DecompressG1(dBytes)
	if err != nil {
		return err
	}
	p.D = *d

	sigmaBytes, err := hex.DecodeString(aux.Sigma)
	if err != nil {
		return fmt.Errorf("verkle: decoding proof.sigma: %w", err)
	}
	sigma, err := crypto.DecompressG1(sigmaBytes)
	if err != nil {
		return err
	}
	p.Sigma = *sigma

	yBytes, err := hex.DecodeString(aux.Y)
	if err != nil {
		return fmt.Errorf("verkle: decoding proof.y: %w", err)
	}
	if len(yBytes) != 32 {
		return fmt.Errorf("verkle: proof.y must be 32 bytes, got %d", len(yBytes))
	}
	var yArr [32]byte
	copy(yArr[:], yBytes)
	if err := crypto.FrFromBytes32(&p.Y, yArr); err != nil {
		return err
	}
	return nil
}

func frBytes(f *crypto.Fr) []byte {
	b := crypto.FrToBytes32(f)
	return b[:]
}
