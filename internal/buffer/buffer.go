// Copyright 2013 Google, Inc.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package buffer implements the growable byte buffer drsh uses for the
// line editor's write buffer, the input decoder's read buffer, and the
// canonicalizer's output. The prompt and the redisplay frame are built
// as plain strings instead.
package buffer

// Buffer is a contiguous byte slice that grows monotonically until
// Reset is called. The zero value is ready to use.
type Buffer struct {
	data []byte
}

// New creates a Buffer with the given initial capacity.
func New(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// Len returns the number of bytes currently stored.
func (b *Buffer) Len() int { return len(b.data) }

// Bytes returns the buffer's contents. The returned slice aliases the
// buffer's storage and is only valid until the next mutating call.
func (b *Buffer) Bytes() []byte { return b.data }

// Ensure grows the buffer's capacity so that at least n additional
// bytes can be appended without another allocation.
func (b *Buffer) Ensure(n int) {
	if cap(b.data)-len(b.data) >= n {
		return
	}
	grown := make([]byte, len(b.data), 2*(len(b.data)+n))
	copy(grown, b.data)
	b.data = grown
}

// Append adds bytes to the end of the buffer.
func (b *Buffer) Append(p ...byte) {
	b.Ensure(len(p))
	b.data = append(b.data, p...)
}

// Insert splices p into the buffer at offset, shifting everything at
// or after offset to the right. It panics if offset is out of range.
func (b *Buffer) Insert(offset int, p []byte) {
	if offset < 0 || offset > len(b.data) {
		panic("buffer: Insert offset out of range")
	}
	b.Ensure(len(p))
	b.data = append(b.data, p...)       // grow to make room
	copy(b.data[offset+len(p):], b.data[offset:len(b.data)-len(p)])
	copy(b.data[offset:], p)
}

// Remove deletes the half-open range [start, end) from the buffer. It
// panics if the range is invalid.
func (b *Buffer) Remove(start, end int) {
	if start < 0 || end > len(b.data) || start > end {
		panic("buffer: Remove range out of bounds")
	}
	b.data = append(b.data[:start], b.data[end:]...)
}

// Truncate shortens the buffer to n bytes. It panics if n is out of
// range.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > len(b.data) {
		panic("buffer: Truncate length out of range")
	}
	b.data = b.data[:n]
}

// Reset empties the buffer without releasing its backing array.
func (b *Buffer) Reset() { b.data = b.data[:0] }

// WritableTail returns a slice of length n suitable for a Read call to
// fill directly, avoiding an intermediate copy. The caller must follow
// up with Grow(n) (or less, if fewer bytes were actually read) to
// commit the write.
func (b *Buffer) WritableTail(n int) []byte {
	b.Ensure(n)
	return b.data[len(b.data) : len(b.data)+n]
}

// Grow commits n bytes previously written into the slice returned by
// WritableTail.
func (b *Buffer) Grow(n int) {
	b.data = b.data[:len(b.data)+n]
}

// String returns the buffer's contents as a string.
func (b *Buffer) String() string { return string(b.data) }
