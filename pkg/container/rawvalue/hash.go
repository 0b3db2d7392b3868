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

package rawvalue

import (
	"hash/crc32"
	"unsafe"

	"github.com/palletdb/pallet/pkg/container/types"
)

// Hash-based grouping must keep null, "" and false in separate buckets,
// and none of them may collapse onto the bare seed. Null and empty get
// reserved 4-byte markers fed through the normal byte hash, which keeps
// both hashes pure functions of the seed while staying distinct from it.
const (
	hashValNull  uint32 = 0x58081667
	hashValEmpty uint32 = 0x7dca7eee

	fnv64Prime uint64 = 0x100000001b3
)

var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

func crcBytes(b []byte, seed uint32) uint32 {
	return crc32.Update(seed, castagnoliTable, b)
}

// fnvBytes is seeded 64-bit FNV-1a folded to 32 bits. It is the low-skew
// alternative used by distribution-sensitive consumers.
func fnvBytes(b []byte, seed uint32) uint32 {
	h := uint64(seed)
	for _, c := range b {
		h = (uint64(c) ^ h) * fnv64Prime
	}
	return uint32(h>>32) ^ uint32(h)
}

type hashFn func([]byte, uint32) uint32

// GetHashValue hashes a value's bytes under typ with the general
// CRC32-Castagnoli hash. v may be nil for a null value.
func GetHashValue(v unsafe.Pointer, typ types.Type, seed uint32) uint32 {
	return getHash(v, typ, seed, crcBytes)
}

// GetHashValueFnv is GetHashValue with the FNV algorithm. The two are
// independent hash families over the same null/empty contract.
func GetHashValueFnv(v unsafe.Pointer, typ types.Type, seed uint32) uint32 {
	return getHash(v, typ, seed, fnvBytes)
}

func getHash(v unsafe.Pointer, typ types.Type, seed uint32, h hashFn) uint32 {
	if v == nil {
		marker := hashValNull
		return h(markerBytes(&marker), seed)
	}
	switch typ.Oid {
	case types.T_char:
		n := types.UnpaddedCharLength(v, typ.Width)
		if n == 0 {
			marker := hashValEmpty
			return h(markerBytes(&marker), seed)
		}
		return h(unsafe.Slice((*byte)(v), n), seed)
	case types.T_varchar, types.T_string:
		sv := (*types.StringValue)(v)
		if sv.Len == 0 {
			marker := hashValEmpty
			return h(markerBytes(&marker), seed)
		}
		return h(sv.Bytes(), seed)
	default:
		return h(unsafe.Slice((*byte)(v), typ.Size), seed)
	}
}

func markerBytes(m *uint32) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(m)), 4)
}

// HashFixed is the statically-typed fast path for fixed-width kinds; it
// agrees bit-for-bit with GetHashValue under the matching descriptor.
func HashFixed[T types.FixedSizeT](v T, seed uint32) uint32 {
	return crcBytes(types.EncodeFixed(v), seed)
}

func HashFixedFnv[T types.FixedSizeT](v T, seed uint32) uint32 {
	return fnvBytes(types.EncodeFixed(v), seed)
}

// HashStringValue is the typed fast path for varchar/string references.
func HashStringValue(sv *types.StringValue, seed uint32) uint32 {
	if sv == nil {
		marker := hashValNull
		return crcBytes(markerBytes(&marker), seed)
	}
	if sv.Len == 0 {
		marker := hashValEmpty
		return crcBytes(markerBytes(&marker), seed)
	}
	return crcBytes(sv.Bytes(), seed)
}

func HashStringValueFnv(sv *types.StringValue, seed uint32) uint32 {
	if sv == nil {
		marker := hashValNull
		return fnvBytes(markerBytes(&marker), seed)
	}
	if sv.Len == 0 {
		marker := hashValEmpty
		return fnvBytes(markerBytes(&marker), seed)
	}
	return fnvBytes(sv.Bytes(), seed)
}

// HashChar is the typed fast path for char(N) buffers.
func HashChar(buf []byte, width int32, seed uint32) uint32 {
	n := types.UnpaddedCharLength(unsafe.Pointer(&buf[0]), width)
	if n == 0 {
		marker := hashValEmpty
		return crcBytes(markerBytes(&marker), seed)
	}
	return crcBytes(buf[:n], seed)
}

func HashCharFnv(buf []byte, width int32, seed uint32) uint32 {
	n := types.UnpaddedCharLength(unsafe.Pointer(&buf[0]), width)
	if n == 0 {
		marker := hashValEmpty
		return fnvBytes(markerBytes(&marker), seed)
	}
	return fnvBytes(buf[:n], seed)
}
