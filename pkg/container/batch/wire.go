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

package batch

import (
	"bytes"
	"unsafe"

	"github.com/pierrec/lz4"

	"github.com/palletdb/pallet/pkg/common/moerr"
	"github.com/palletdb/pallet/pkg/container/types"
)

// NullTupleOffset marks a null tuple slot in the wire form.
const NullTupleOffset int64 = -1

// CompressThreshold is the blob size above which MarshalBinary tries
// LZ4 block compression. engine.Init overrides it from config.
var CompressThreshold = 4096

// WireBatch is the flat, pointer-free form a batch travels in: tuple
// slots expressed as byte offsets into one trailing data blob, with
// variable-length references inside the tuples rewritten the same way.
type WireBatch struct {
	NumRows         int32
	NumTuplesPerRow int32
	// one entry per row per tuple slot, row-major
	TupleOffsets []int64
	TupleData    []byte
}

// stringOffset overlays types.StringValue while a tuple is in wire
// form: the pointer word carries a blob offset instead of an address.
type stringOffset struct {
	Off int64
	Len int64
}

// Serialize converts the batch into wire form, excluding any in-flight
// row. A self-contained batch converts its pointers to offsets in place,
// hands its pool bytes to out without copying where possible, and is
// reset afterwards. A batch that does not own all referenced memory
// copies it into the blob instead and is left untouched.
func (b *RowBatch) Serialize(out *WireBatch) error {
	out.NumRows = int32(b.numRows)
	out.NumTuplesPerRow = int32(b.tuplesPerRow)
	out.TupleOffsets = make([]int64, 0, b.numRows*b.tuplesPerRow)
	out.TupleData = nil
	if b.selfContained {
		return b.serializeInPlace(out)
	}
	b.serializeCopy(out)
	return nil
}

func (b *RowBatch) serializeCopy(out *WireBatch) {
	var blob []byte
	for ri := 0; ri < b.numRows; ri++ {
		base := ri * b.tuplesPerRow
		for ti := 0; ti < b.tuplesPerRow; ti++ {
			tp := b.tuplePtrs[base+ti]
			if tp == nil {
				out.TupleOffsets = append(out.TupleOffsets, NullTupleOffset)
				continue
			}
			desc := b.descs[ti]
			blob = padTo8(blob)
			off := int64(len(blob))
			out.TupleOffsets = append(out.TupleOffsets, off)
			blob = append(blob, unsafe.Slice((*byte)(tp), desc.ByteSize)...)
			for _, so := range desc.varlenOffsets {
				sv := (*types.StringValue)(unsafe.Add(tp, uintptr(so)))
				strOff := int64(len(blob))
				blob = append(blob, sv.Bytes()...)
				// patch the copied slot after the payload append so the
				// index resolves against the final backing array
				slot := (*stringOffset)(unsafe.Pointer(&blob[off+int64(so)]))
				slot.Off = strOff
				slot.Len = sv.Len
			}
		}
	}
	out.TupleData = blob
}

func (b *RowBatch) serializeInPlace(out *WireBatch) error {
	pool := b.tupleDataPool
	// a tuple shared by several rows (CopyRow) is converted once;
	// rewriting its varlen slots twice would feed an offset word back
	// into the pool lookup
	converted := make(map[unsafe.Pointer]bool)
	for ri := 0; ri < b.numRows; ri++ {
		base := ri * b.tuplesPerRow
		for ti := 0; ti < b.tuplesPerRow; ti++ {
			tp := b.tuplePtrs[base+ti]
			if tp == nil {
				out.TupleOffsets = append(out.TupleOffsets, NullTupleOffset)
				continue
			}
			off, ok := pool.Offset(tp)
			if !ok {
				return moerr.NewInternalErrorNoCtx(
					"batch marked self-contained references memory outside its pool")
			}
			out.TupleOffsets = append(out.TupleOffsets, off)
			if converted[tp] {
				continue
			}
			converted[tp] = true
			for _, so := range b.descs[ti].varlenOffsets {
				sv := (*types.StringValue)(unsafe.Add(tp, uintptr(so)))
				var strOff int64
				if sv.Len > 0 {
					strOff, ok = pool.Offset(sv.Ptr)
					if !ok {
						return moerr.NewInternalErrorNoCtx(
							"batch marked self-contained references memory outside its pool")
					}
				}
				slot := (*stringOffset)(unsafe.Add(tp, uintptr(so)))
				slot.Off = strOff
			}
		}
	}
	if flat, ok := pool.ContiguousBytes(); ok {
		out.TupleData = flat
	} else {
		out.TupleData = pool.AppendTo(nil)
	}
	b.Reset()
	return nil
}

// NewFromWire rebuilds a live batch from wire form: the blob is copied
// into a fresh pool and every offset is converted back into a pointer.
// The result is self-contained.
func NewFromWire(descs []*TupleDesc, wb *WireBatch) (*RowBatch, error) {
	if wb.NumRows < 0 || int(wb.NumTuplesPerRow) != len(descs) {
		return nil, moerr.NewInvalidInputNoCtxf(
			"bad wire batch header: %d rows, %d tuples/row for %d descriptors",
			wb.NumRows, wb.NumTuplesPerRow, len(descs))
	}
	if len(wb.TupleOffsets) != int(wb.NumRows)*len(descs) {
		return nil, moerr.NewInvalidInputNoCtxf(
			"bad wire batch: %d tuple offsets, want %d",
			len(wb.TupleOffsets), int(wb.NumRows)*len(descs))
	}
	capacity := int(wb.NumRows)
	if capacity == 0 {
		capacity = 1
	}
	b := New(descs, capacity)
	data := b.tupleDataPool.Alloc(len(wb.TupleData))
	copy(data, wb.TupleData)

	for idx, off := range wb.TupleOffsets {
		if off == NullTupleOffset {
			continue
		}
		desc := descs[idx%len(descs)]
		if off < 0 || off+int64(desc.ByteSize) > int64(len(data)) {
			return nil, moerr.NewInvalidInputNoCtxf(
				"bad wire batch: tuple offset %d outside %d-byte blob", off, len(data))
		}
		tp := unsafe.Pointer(&data[off])
		for _, so := range desc.varlenOffsets {
			slot := (*stringOffset)(unsafe.Add(tp, uintptr(so)))
			sv := (*types.StringValue)(unsafe.Add(tp, uintptr(so)))
			if slot.Len == 0 {
				sv.Ptr = nil
				continue
			}
			if slot.Off < 0 || slot.Off+slot.Len > int64(len(data)) {
				return nil, moerr.NewInvalidInputNoCtxf(
					"bad wire batch: string offset %d len %d outside %d-byte blob",
					slot.Off, slot.Len, len(data))
			}
			sv.Ptr = unsafe.Pointer(&data[slot.Off])
		}
		b.tuplePtrs[idx] = tp
	}
	b.numRows = int(wb.NumRows)
	b.selfContained = true
	return b, nil
}

const (
	wireHeaderSize = 32
	flagCompressed = 1
)

// MarshalBinary renders the wire batch as one flat buffer:
// a fixed 32-byte header, the offset array, then the blob, which is
// LZ4-block-compressed when large enough to pay for it.
func (wb *WireBatch) MarshalBinary() ([]byte, error) {
	blob := wb.TupleData
	var flags int32
	if len(blob) >= CompressThreshold {
		dst := make([]byte, lz4.CompressBlockBound(len(blob)))
		n, err := lz4.CompressBlock(blob, dst, nil)
		if err == nil && n > 0 && n < len(blob) {
			blob = dst[:n]
			flags |= flagCompressed
		}
	}

	nOffsets := int32(len(wb.TupleOffsets))
	rawLen := int64(len(wb.TupleData))
	storedLen := int64(len(blob))

	var buf bytes.Buffer
	buf.Grow(wireHeaderSize + 8*int(nOffsets) + len(blob))
	buf.Write(types.EncodeInt32(&wb.NumRows))
	buf.Write(types.EncodeInt32(&wb.NumTuplesPerRow))
	buf.Write(types.EncodeInt32(&nOffsets))
	buf.Write(types.EncodeInt32(&flags))
	buf.Write(types.EncodeInt64(&rawLen))
	buf.Write(types.EncodeInt64(&storedLen))
	buf.Write(types.EncodeSlice(wb.TupleOffsets))
	buf.Write(blob)
	return buf.Bytes(), nil
}

func (wb *WireBatch) UnmarshalBinary(data []byte) error {
	if len(data) < wireHeaderSize {
		return moerr.NewInvalidInputNoCtxf("wire batch buffer too short: %d bytes", len(data))
	}
	wb.NumRows = types.DecodeInt32(data[0:])
	wb.NumTuplesPerRow = types.DecodeInt32(data[4:])
	nOffsets := types.DecodeInt32(data[8:])
	flags := types.DecodeInt32(data[12:])
	rawLen := types.DecodeInt64(data[16:])
	storedLen := types.DecodeInt64(data[24:])

	if nOffsets < 0 || rawLen < 0 || storedLen < 0 ||
		int64(len(data)) != int64(wireHeaderSize)+8*int64(nOffsets)+storedLen {
		return moerr.NewInvalidInputNoCtxf("wire batch buffer of %d bytes does not match header", len(data))
	}

	// copy the offsets out, the incoming buffer may not be aligned
	wb.TupleOffsets = make([]int64, nOffsets)
	copy(types.EncodeSlice(wb.TupleOffsets), data[wireHeaderSize:wireHeaderSize+8*int(nOffsets)])

	blob := data[wireHeaderSize+8*int(nOffsets):]
	if flags&flagCompressed != 0 {
		raw := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(blob, raw)
		if err != nil {
			return moerr.NewInvalidInputNoCtxf("corrupt wire batch blob: %v", err)
		}
		if int64(n) != rawLen {
			return moerr.NewInvalidInputNoCtxf("corrupt wire batch blob: %d bytes, want %d", n, rawLen)
		}
		wb.TupleData = raw
		return nil
	}
	if storedLen != rawLen {
		return moerr.NewInvalidInputNoCtxf("wire batch blob length %d does not match raw length %d", storedLen, rawLen)
	}
	// copy so the wire batch does not alias the caller's buffer
	wb.TupleData = append([]byte(nil), blob...)
	return nil
}

func padTo8(blob []byte) []byte {
	for len(blob)%8 != 0 {
		blob = append(blob, 0)
	}
	return blob
}
