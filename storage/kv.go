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

// KV is the abstract persistent backend (spec.md §6): fetch a key,
// stage a put into the current batch, and flush that batch atomically.
// Implementations: MemKV (tests), PebbleKV (production, cockroachdb/pebble).
type KV interface {
	// Fetch returns the stored value for key, or (nil, false, nil) if
	// absent. A non-nil error is always a fatal storage error.
	Fetch(key []byte) ([]byte, bool, error)

	// BatchPut stages key=value into the in-flight batch. It does not
	// need to be durable until Flush is called.
	BatchPut(key, value []byte) error

	// Flush commits the staged batch atomically: either every staged
	// write lands, or (on error) none of them are observable.
	Flush() error
}
