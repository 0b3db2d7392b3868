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

// Package batch holds the row-transport container passed between
// execution stages. A RowBatch owns a fixed array of row slots plus the
// pool backing all tuple and variable-length memory its rows reference.
// One producer fills it through the add/commit protocol; after handoff
// the producer must not touch it again.
package batch

import (
	"fmt"
	"unsafe"

	"github.com/palletdb/pallet/pkg/common/moerr"
	"github.com/palletdb/pallet/pkg/common/mpool"
	"github.com/palletdb/pallet/pkg/common/util"
	"github.com/palletdb/pallet/pkg/container/types"
	"github.com/palletdb/pallet/pkg/logutil"
)

// InvalidRowIndex is returned by AddRow on a full batch; the caller
// flushes and rotates to a fresh batch. This is the only recoverable
// failure in the batch protocol.
const InvalidRowIndex = -1

type RowBatch struct {
	hasInFlightRow bool
	selfContained  bool

	numRows  int // committed rows
	capacity int

	descs        []*TupleDesc
	tuplesPerRow int

	// row-major: row i's slots are tuplePtrs[i*tuplesPerRow:...]
	tuplePtrs []unsafe.Pointer

	tupleDataPool *mpool.MPool
}

// New creates a batch for capacity rows of tuples laid out by descs.
func New(descs []*TupleDesc, capacity int) *RowBatch {
	if len(descs) == 0 {
		panic(moerr.NewInvalidArgNoCtx("tuple descriptor count", 0))
	}
	if capacity <= 0 {
		panic(moerr.NewInvalidArgNoCtx("row batch capacity", capacity))
	}
	return &RowBatch{
		numRows:       0,
		capacity:      capacity,
		descs:         descs,
		tuplesPerRow:  len(descs),
		tuplePtrs:     make([]unsafe.Pointer, capacity*len(descs)),
		tupleDataPool: mpool.NewMPool("rowbatch", 0),
	}
}

// AddRow clears the slots after the last committed row, marks it
// in-flight and returns its index, or InvalidRowIndex when the batch is
// full. A second call before CommitLastRow hits the same slot again and
// does not advance the count.
func (b *RowBatch) AddRow() int {
	if b.numRows == b.capacity {
		return InvalidRowIndex
	}
	b.hasInFlightRow = true
	base := b.numRows * b.tuplesPerRow
	for i := base; i < base+b.tuplesPerRow; i++ {
		b.tuplePtrs[i] = nil
	}
	return b.numRows
}

// CommitLastRow publishes the in-flight row.
func (b *RowBatch) CommitLastRow() {
	if b.numRows >= b.capacity {
		panic(moerr.NewInternalErrorNoCtx("commit on a full row batch"))
	}
	b.numRows++
	b.hasInFlightRow = false
}

func (b *RowBatch) IsFull() bool {
	return b.numRows == b.capacity
}

// Eos reports the end-of-stream condition a consumer checks after a
// fill pass: an empty or partially filled batch cannot be followed by
// more rows. The two cases are deliberately not distinguished.
func (b *RowBatch) Eos() bool {
	return b.numRows == 0 || b.numRows < b.capacity
}

// Row is a bounds-checked view over one row's tuple slots.
type Row struct {
	slots []unsafe.Pointer
}

// GetRow returns the view for a committed row, or for the in-flight row
// at index NumRows().
func (b *RowBatch) GetRow(idx int) Row {
	limit := b.numRows
	if b.hasInFlightRow {
		limit++
	}
	if idx < 0 || idx >= limit {
		panic(moerr.NewInvalidArgNoCtx("row index", idx))
	}
	base := idx * b.tuplesPerRow
	return Row{slots: b.tuplePtrs[base : base+b.tuplesPerRow]}
}

// Tuple returns the tuple pointer in slot i, nil for a null tuple.
func (r Row) Tuple(i int) unsafe.Pointer {
	return r.slots[i]
}

func (r Row) SetTuple(i int, p unsafe.Pointer) {
	r.slots[i] = p
}

func (r Row) IsNull(i int) bool {
	return r.slots[i] == nil
}

// CopyRow copies src's slot pointers into dst. Both rows must belong to
// batches with the same tuple layout; the tuple data itself is shared.
func (b *RowBatch) CopyRow(src, dst Row) {
	copy(dst.slots, src.slots)
}

// ClearRow nulls every slot of the row.
func (b *RowBatch) ClearRow(r Row) {
	for i := range r.slots {
		r.slots[i] = nil
	}
}

// AllocTuple carves zeroed tuple memory for descriptor slot descIdx out
// of the batch's pool.
func (b *RowBatch) AllocTuple(descIdx int) unsafe.Pointer {
	return b.tupleDataPool.AllocPtr(int(b.descs[descIdx].ByteSize))
}

// AllocStringValue copies payload into the batch's pool and returns a
// reference suitable for storing in one of this batch's tuples.
func (b *RowBatch) AllocStringValue(payload []byte) types.StringValue {
	if len(payload) == 0 {
		return types.StringValue{}
	}
	buf := b.tupleDataPool.Alloc(len(payload))
	copy(buf, payload)
	return types.NewStringValue(buf)
}

// Reset empties the batch and replaces its pool, invalidating every
// tuple pointer previously issued from it.
func (b *RowBatch) Reset() {
	b.numRows = 0
	b.hasInFlightRow = false
	b.tupleDataPool.Reset()
}

// TransferTupleDataOwnership moves the batch's tuple data into dest's
// pool without copying, then resets this batch. The caller must not use
// row or tuple pointers obtained from this batch afterwards.
func (b *RowBatch) TransferTupleDataOwnership(dest *RowBatch) {
	dest.tupleDataPool.AcquireData(b.tupleDataPool, true)
	b.Reset()
}

func (b *RowBatch) NumRows() int {
	return b.numRows
}

func (b *RowBatch) Capacity() int {
	return b.capacity
}

func (b *RowBatch) TuplesPerRow() int {
	return b.tuplesPerRow
}

func (b *RowBatch) Descs() []*TupleDesc {
	return b.descs
}

// SelfContained reports whether all memory referenced by the rows lives
// in the batch's own pool. Only the producer knows, so it sets the flag.
func (b *RowBatch) SelfContained() bool {
	return b.selfContained
}

func (b *RowBatch) SetSelfContained(v bool) {
	b.selfContained = v
}

// TupleDataPool exposes the owning pool so producers can allocate
// variable-length data with batch lifetime.
func (b *RowBatch) TupleDataPool() *mpool.MPool {
	return b.tupleDataPool
}

func (b *RowBatch) String() string {
	return fmt.Sprintf("rows %d/%d, tuples/row %d, pool %d bytes",
		b.numRows, b.capacity, b.tuplesPerRow, b.tupleDataPool.TotalAllocated())
}

func (b *RowBatch) Log(tag string) {
	if b == nil || b.numRows < 1 {
		return
	}
	logutil.Infof("%s: %s", tag, util.Abbreviate(b.String(), 1024))
}
