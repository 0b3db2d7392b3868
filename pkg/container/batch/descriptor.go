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
	"github.com/palletdb/pallet/pkg/common/moerr"
	"github.com/palletdb/pallet/pkg/container/types"
)

// SlotDesc places one field inside a tuple's fixed-size memory.
type SlotDesc struct {
	Offset int32
	Typ    types.Type
}

// TupleDesc is the resolved layout of one tuple: its physical byte size
// and the ordered field slots. Layout resolution happens upstream in
// the schema layer; batches only consume the result.
type TupleDesc struct {
	ByteSize int32
	Slots    []SlotDesc

	// offsets of the StringValue slots, the ones wire conversion
	// rewrites between pointers and blob offsets
	varlenOffsets []int32
}

// NewTupleDesc lays the given field types out in order with natural
// alignment, padding the tuple size to 8 bytes.
func NewTupleDesc(typs ...types.Type) *TupleDesc {
	if len(typs) == 0 {
		panic(moerr.NewInvalidArgNoCtx("tuple field count", 0))
	}
	slots := make([]SlotDesc, 0, len(typs))
	var off int32
	for _, typ := range typs {
		align := slotAlign(typ)
		off = alignInt32(off, align)
		slots = append(slots, SlotDesc{Offset: off, Typ: typ})
		off += typ.Size
	}
	return NewTupleDescWithLayout(alignInt32(off, 8), slots)
}

// NewTupleDescWithLayout wraps an externally resolved layout.
func NewTupleDescWithLayout(byteSize int32, slots []SlotDesc) *TupleDesc {
	td := &TupleDesc{ByteSize: byteSize, Slots: slots}
	for _, s := range slots {
		if s.Offset < 0 || s.Offset+s.Typ.Size > byteSize {
			panic(moerr.NewInvalidArgNoCtx("slot offset", s.Offset))
		}
		if s.Typ.IsVarlen() {
			td.varlenOffsets = append(td.varlenOffsets, s.Offset)
		}
	}
	return td
}

func slotAlign(typ types.Type) int32 {
	switch typ.Oid {
	case types.T_bool, types.T_int8, types.T_char:
		return 1
	case types.T_int16:
		return 2
	case types.T_int32, types.T_float32, types.T_decimal32:
		return 4
	default:
		return 8
	}
}

func alignInt32(n, align int32) int32 {
	return (n + align - 1) &^ (align - 1)
}
