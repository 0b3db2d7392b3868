// Copyright 2024 Pallet Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package mpool provides the arena that owns all tuple and
// variable-length memory referenced by a row batch. Allocations are
// carved out of chunks and never move, so a pointer handed out stays
// valid until the pool is reset or its data is acquired by another pool.
// A pool is single-owner: the add/commit protocol of its batch is the
// only writer, and no method here is safe for concurrent mutation.
package mpool

import (
	"fmt"
	"unsafe"

	"github.com/palletdb/pallet/pkg/common/moerr"
)

const (
	minChunkSize = 4 << 10
	maxChunkSize = 512 << 10
	alignment    = 8
)

type chunk struct {
	buf  []byte
	used int // aligned bump pointer for the next allocation
	// end of the last allocation's bytes, excluding its trailing
	// alignment padding
	dataEnd int
}

type MPool struct {
	tag string
	cap int64 // 0 means no cap

	chunks    []chunk
	nextSize  int
	allocated int64 // bytes reserved across all chunks
}

// NewMPool creates a pool. cap caps the total reserved bytes; exceeding
// it is a fatal condition (the data plane has no degraded mode), 0
// disables the check.
func NewMPool(tag string, cap int64) *MPool {
	return &MPool{
		tag:      tag,
		cap:      cap,
		nextSize: minChunkSize,
	}
}

// Alloc returns n zeroed bytes with a stable address for the pool's
// lifetime. The result is 8-byte aligned within its chunk.
func (m *MPool) Alloc(n int) []byte {
	if n <= 0 {
		return nil
	}
	c := m.current(n)
	off := c.used
	c.used += alignUp(n)
	c.dataEnd = off + n
	return c.buf[off : off+n : off+n]
}

// AllocPtr is Alloc for callers that hold tuple memory as an opaque
// pointer.
func (m *MPool) AllocPtr(n int) unsafe.Pointer {
	b := m.Alloc(n)
	if b == nil {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func (m *MPool) current(n int) *chunk {
	if last := len(m.chunks) - 1; last >= 0 {
		c := &m.chunks[last]
		if c.used+n <= len(c.buf) {
			return c
		}
	}
	size := m.nextSize
	if size < alignUp(n) {
		size = alignUp(n)
	}
	if m.cap > 0 && m.allocated+int64(size) > m.cap {
		// allocation failure is fatal for the process, not recoverable
		panic(moerr.NewOOMNoCtx(fmt.Sprintf(
			"mpool %s: cap %d exceeded allocating %d bytes", m.tag, m.cap, size)))
	}
	m.chunks = append(m.chunks, chunk{buf: make([]byte, size)})
	m.allocated += int64(size)
	if m.nextSize < maxChunkSize {
		m.nextSize *= 2
	}
	return &m.chunks[len(m.chunks)-1]
}

// AcquireData moves ownership of all chunks from other into m without
// copying any bytes. other is left logically reset. When keepCurrent is
// false, m's own chunks are released first; callers pass true only when
// m's existing data is still referenced.
func (m *MPool) AcquireData(other *MPool, keepCurrent bool) {
	if !keepCurrent {
		m.release()
	}
	m.chunks = append(m.chunks, other.chunks...)
	m.allocated += other.allocated
	other.release()
}

// Reset releases every chunk, invalidating all previously issued
// pointers, and leaves the pool immediately reusable.
func (m *MPool) Reset() {
	m.release()
}

func (m *MPool) release() {
	m.chunks = nil
	m.allocated = 0
	m.nextSize = minChunkSize
}

// TotalAllocated returns the bytes reserved across all chunks.
func (m *MPool) TotalAllocated() int64 {
	return m.allocated
}

// flatLen is chunk i's share of the pool's flattened data: the aligned
// used prefix for interior chunks, so offsets into later chunks keep
// their 8-byte alignment, but only up to the last allocation's true end
// for the final chunk.
func (m *MPool) flatLen(i int) int {
	if i == len(m.chunks)-1 {
		return m.chunks[i].dataEnd
	}
	return m.chunks[i].used
}

// TotalUsed returns the length of the pool's flattened data: alignment
// padding between allocations included, trailing padding after the last
// one excluded.
func (m *MPool) TotalUsed() int64 {
	var used int64
	for i := range m.chunks {
		used += int64(m.flatLen(i))
	}
	return used
}

func (m *MPool) Empty() bool {
	return len(m.chunks) == 0
}

// Offset maps a pointer previously issued by this pool to its byte
// position in the pool's concatenated data (the layout AppendTo
// produces). The second result is false for foreign pointers.
func (m *MPool) Offset(p unsafe.Pointer) (int64, bool) {
	up := uintptr(p)
	var cum int64
	for i := range m.chunks {
		c := &m.chunks[i]
		n := m.flatLen(i)
		if n == 0 {
			continue
		}
		base := uintptr(unsafe.Pointer(&c.buf[0]))
		if up >= base && up < base+uintptr(n) {
			return cum + int64(up-base), true
		}
		cum += int64(n)
	}
	return 0, false
}

// AppendTo appends the used prefix of every chunk, in allocation order,
// matching the offsets reported by Offset.
func (m *MPool) AppendTo(dst []byte) []byte {
	for i := range m.chunks {
		dst = append(dst, m.chunks[i].buf[:m.flatLen(i)]...)
	}
	return dst
}

// ContiguousBytes returns the pool's data as a single slice without
// copying when the pool holds at most one chunk.
func (m *MPool) ContiguousBytes() ([]byte, bool) {
	switch len(m.chunks) {
	case 0:
		return nil, true
	case 1:
		return m.chunks[0].buf[:m.flatLen(0)], true
	default:
		return nil, false
	}
}

func alignUp(n int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}
