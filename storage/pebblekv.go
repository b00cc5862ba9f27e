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

	"github.com/cockroachdb/pebble"
)

// PebbleKV is the production KV backend, grounded on the pebble-backed
// trie wrapper pattern (a held *pebble.DB plus a batch that is built up
// and committed as one unit, per other_examples/'s algorand statetrie.Trie).
type PebbleKV struct {
	db    *pebble.DB
	batch *pebble.IndexedBatch
}

// NewPebbleKV opens (or creates) a pebble database at dir. The batch is
// indexed so Fetch can see its own uncommitted writes (read-your-writes
// within a transaction) before the next Flush.
func NewPebbleKV(dir string) (*PebbleKV, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("storage: opening pebble db: %w", err)
	}
	return &PebbleKV{db: db, batch: db.NewIndexedBatch()}, nil
}

// Fetch checks the uncommitted batch first, then falls back to the
// durable db, mirroring MemKV's batch-then-data lookup order.
func (p *PebbleKV) Fetch(key []byte) ([]byte, bool, error) {
	v, closer, err := p.batch.Get(key)
	if err == nil {
		out := append([]byte(nil), v...)
		_ = closer.Close()
		return out, true, nil
	}
	if err != pebble.ErrNotFound {
		return nil, false, fmt.Errorf("storage: pebble batch get: %w", err)
	}

	v, closer, err = p.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: pebble get: %w", err)
	}
	out := append([]byte(nil), v...)
	_ = closer.Close()
	return out, true, nil
}

func (p *PebbleKV) BatchPut(key, value []byte) error {
	if err := p.batch.Set(key, value, nil); err != nil {
		return fmt.Errorf("storage: pebble batch set: %w", err)
	}
	return nil
}

// Flush commits the current batch atomically (pebble.Batch.Commit is an
// all-or-nothing write) and starts a fresh one for subsequent writes.
func (p *PebbleKV) Flush() error {
	opts := &pebble.WriteOptions{Sync: true}
	if err := p.batch.Commit(opts); err != nil {
		return fmt.Errorf("storage: pebble batch commit: %w", err)
	}
	p.batch = p.db.NewIndexedBatch()
	return nil
}

// Close releases the underlying database handle.
func (p *PebbleKV) Close() error {
	return p.db.Close()
}
