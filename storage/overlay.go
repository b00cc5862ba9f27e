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
	"sync"
)

// CacheThreshold is the depth at or below which stem/branch metadata is kept
// hot in memory in addition to being staged to the persistent backend:
// the top few levels of the trie are touched by almost every operation,
// so paying for a map lookup there is cheaper than a KV round trip.
const CacheThreshold = 3

// table tags partition the key namespace of the persistent backend
// (spec.md §6) so that a leaf, a stem, a branch's metadata and a
// branch's child-index map never collide even when they share a path
// prefix.
const (
	tagLeaf        byte = 0x00
	tagStem        byte = 0x01
	tagBranchMeta  byte = 0x02
	tagBranchChild byte = 0x03
)

// Store is the two-tier Storage implementation: an in-memory cache for
// levels 0 through CacheThreshold, write-through to a batched KV backend
// for everything, so that depth governs hit rate rather than
// correctness. Reads below the cache threshold always go to kv, whose
// own batch-then-flush semantics give read-your-writes before Flush.
type Store struct {
	kv KV

	mu          sync.RWMutex
	stemCache   map[[31]byte]*StemMeta
	branchCache map[string]*BranchMeta
	childCache  map[string]map[byte]ChildRef
}

// New wraps kv in the two-tier cache described by spec.md §4.1.
func New(kv KV) *Store {
	return &Store{
		kv:          kv,
		stemCache:   make(map[[31]byte]*StemMeta),
		branchCache: make(map[string]*BranchMeta),
		childCache:  make(map[string]map[byte]ChildRef),
	}
}

func leafKey(stem [31]byte, index byte) []byte {
	k := make([]byte, 0, 1+31+1)
	k = append(k, tagLeaf)
	k = append(k, stem[:]...)
	k = append(k, index)
	return k
}

func stemKey(stem [31]byte) []byte {
	k := make([]byte, 0, 1+31)
	k = append(k, tagStem)
	return append(k, stem[:]...)
}

func branchMetaKey(path []byte) []byte {
	k := make([]byte, 0, 1+len(path))
	k = append(k, tagBranchMeta)
	return append(k, path...)
}

func branchChildKey(path []byte) []byte {
	k := make([]byte, 0, 1+len(path))
	k = append(k, tagBranchChild)
	return append(k, path...)
}

func (s *Store) GetLeaf(stem [31]byte, index byte) ([32]byte, bool, error) {
	var out [32]byte
	v, ok, err := s.kv.Fetch(leafKey(stem, index))
	if err != nil || !ok {
		return out, ok, err
	}
	if len(v) != 32 {
		return out, false, fmt.Errorf("storage: corrupt leaf value (len %d)", len(v))
	}
	copy(out[:], v)
	return out, true, nil
}

func (s *Store) GetStemMeta(stem [31]byte) (*StemMeta, bool, error) {
	s.mu.RLock()
	if m, ok := s.stemCache[stem]; ok {
		s.mu.RUnlock()
		return m, true, nil
	}
	s.mu.RUnlock()

	v, ok, err := s.kv.Fetch(stemKey(stem))
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := DecodeStemMeta(v)
	if err != nil {
		return nil, false, err
	}
	if m.Depth <= CacheThreshold {
		s.mu.Lock()
		s.stemCache[stem] = m
		s.mu.Unlock()
	}
	return m, true, nil
}

func (s *Store) GetBranchMeta(path []byte) (*BranchMeta, bool, error) {
	s.mu.RLock()
	if m, ok := s.branchCache[string(path)]; ok {
		s.mu.RUnlock()
		return m, true, nil
	}
	s.mu.RUnlock()

	v, ok, err := s.kv.Fetch(branchMetaKey(path))
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := DecodeBranchMeta(v)
	if err != nil {
		return nil, false, err
	}
	if len(path) <= CacheThreshold {
		s.mu.Lock()
		s.branchCache[string(path)] = m
		s.mu.Unlock()
	}
	return m, true, nil
}

func (s *Store) childMap(path []byte) (map[byte]ChildRef, bool, error) {
	s.mu.RLock()
	if m, ok := s.childCache[string(path)]; ok {
		s.mu.RUnlock()
		return m, true, nil
	}
	s.mu.RUnlock()

	v, ok, err := s.kv.Fetch(branchChildKey(path))
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := DecodeChildMap(v)
	if err != nil {
		return nil, false, err
	}
	if len(path) <= CacheThreshold {
		s.mu.Lock()
		s.childCache[string(path)] = m
		s.mu.Unlock()
	}
	return m, true, nil
}

func (s *Store) GetBranchChild(path []byte, index byte) (ChildRef, bool, error) {
	m, ok, err := s.childMap(path)
	if err != nil || !ok {
		return ChildRef{}, false, err
	}
	ref, present := m[index]
	return ref, present, nil
}

func (s *Store) GetStemChildren(stem [31]byte) ([]SlotValue, error) {
	var out []SlotValue
	for i := 0; i < 256; i++ {
		v, ok, err := s.GetLeaf(stem, byte(i))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, SlotValue{Index: byte(i), Value: v})
		}
	}
	return out, nil
}

func (s *Store) RootIsMissing() (bool, error) {
	_, ok, err := s.GetBranchMeta(nil)
	return !ok, err
}

func (s *Store) InsertLeaf(stem [31]byte, index byte, value [32]byte) error {
	return s.kv.BatchPut(leafKey(stem, index), value[:])
}

func (s *Store) InsertStem(stem [31]byte, meta *StemMeta) error {
	b, err := EncodeStemMeta(meta)
	if err != nil {
		return err
	}
	if err := s.kv.BatchPut(stemKey(stem), b); err != nil {
		return err
	}
	if meta.Depth <= CacheThreshold {
		s.mu.Lock()
		s.stemCache[stem] = meta
		s.mu.Unlock()
	}
	return nil
}

func (s *Store) InsertBranch(path []byte, meta *BranchMeta) error {
	b, err := EncodeBranchMeta(meta)
	if err != nil {
		return err
	}
	if err := s.kv.BatchPut(branchMetaKey(path), b); err != nil {
		return err
	}
	if len(path) <= CacheThreshold {
		s.mu.Lock()
		s.branchCache[string(path)] = meta
		s.mu.Unlock()
	}
	return nil
}

func (s *Store) AddStemAsBranchChild(path []byte, index byte, ref ChildRef) error {
	m, _, err := s.childMap(path)
	if err != nil {
		return err
	}
	if m == nil {
		m = make(map[byte]ChildRef)
	} else {
		cp := make(map[byte]ChildRef, len(m)+1)
		for k, v := range m {
			cp[k] = v
		}
		m = cp
	}
	m[index] = ref

	b, err := EncodeChildMap(m)
	if err != nil {
		return err
	}
	if err := s.kv.BatchPut(branchChildKey(path), b); err != nil {
		return err
	}
	if len(path) <= CacheThreshold {
		s.mu.Lock()
		s.childCache[string(path)] = m
		s.mu.Unlock()
	}
	return nil
}

func (s *Store) Flush() error {
	return s.kv.Flush()
}
