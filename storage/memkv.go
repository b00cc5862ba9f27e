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

import "sync"

// MemKV is an in-memory KV backend used by tests and by the benchmark
// entrypoint when no disk is wanted. Flush is trivially atomic: the
// staged batch is applied to the map in one critical section.
type MemKV struct {
	mu    sync.Mutex
	data  map[string][]byte
	batch map[string][]byte
}

// NewMemKV returns an empty in-memory backend.
func NewMemKV() *MemKV {
	return &MemKV{
		data:  make(map[string][]byte),
		batch: make(map[string][]byte),
	}
}

func (m *MemKV) Fetch(key []byte) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.batch[string(key)]; ok {
		return v, true, nil
	}
	v, ok := m.data[string(key)]
	return v, ok, nil
}

func (m *MemKV) BatchPut(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batch[string(key)] = value
	return nil
}

func (m *MemKV) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range m.batch {
		m.data[k] = v
	}
	m.batch = make(map[string][]byte)
	return nil
}
