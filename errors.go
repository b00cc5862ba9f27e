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

import "errors"

// Error kinds from spec.md §7. The trie returns ErrStorageIO and
// ErrInvariantViolation; ErrDegreeIsZero, ErrTruncatedDegreeTooLarge and
// ErrHashedNodeInsert are defined but no function in this module returns
// them.
var (
	// ErrDegreeIsZero names an SRS requested with max_degree < 1.
	// crypto.NewSRS does not return it: it panics on a non-positive
	// width.
	ErrDegreeIsZero = errors.New("verkle: SRS degree must be at least 1")

	// ErrTruncatedDegreeTooLarge names a trim requested beyond the SRS's
	// capacity. The crypto package has no trim operation, so it is
	// never returned.
	ErrTruncatedDegreeTooLarge = errors.New("verkle: truncated degree exceeds SRS capacity")

	// ErrHashedNodeInsert names an insertion that reaches an opaque,
	// hash-only node. The storage layer has no hash-only node kind, so
	// it is never returned.
	ErrHashedNodeInsert = errors.New("verkle: cannot insert into a hashed-only node")

	// ErrStorageIO wraps any failure from the underlying KV backend.
	// Fatal to the current operation, not to the process.
	ErrStorageIO = errors.New("verkle: storage I/O error")

	// ErrInvariantViolation marks a failed self-check, e.g.
	// root_is_missing() returning true after init. Treated as a
	// programming bug.
	ErrInvariantViolation = errors.New("verkle: invariant violation")
)
