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

// Package rawvalue operates on typed scalar values stored as raw,
// untagged memory. Every function takes an opaque pointer to the value
// bytes plus the runtime type descriptor that fixes their layout.
// Callers resolve null semantics before calling: a value pointer passed
// to Compare must reference live, non-null memory.
package rawvalue

import (
	"bytes"
	"unsafe"

	"github.com/palletdb/pallet/pkg/common/moerr"
	"github.com/palletdb/pallet/pkg/container/types"
	"golang.org/x/exp/constraints"
)

// CompareFixed is the statically-typed fast path for ordered fixed-width
// kinds. It agrees with Compare for every matching descriptor.
func CompareFixed[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Compare returns a negative, zero or positive result ordering the two
// values under typ. The ordering is a strict total order for every
// fixed descriptor.
func Compare(a, b unsafe.Pointer, typ types.Type) int {
	switch typ.Oid {
	case types.T_bool:
		return CompareFixed(boolByte(a), boolByte(b))
	case types.T_int8:
		return CompareFixed(*(*int8)(a), *(*int8)(b))
	case types.T_int16:
		return CompareFixed(*(*int16)(a), *(*int16)(b))
	case types.T_int32:
		return CompareFixed(*(*int32)(a), *(*int32)(b))
	case types.T_int64:
		return CompareFixed(*(*int64)(a), *(*int64)(b))
	case types.T_float32:
		return CompareFixed(*(*float32)(a), *(*float32)(b))
	case types.T_float64:
		return CompareFixed(*(*float64)(a), *(*float64)(b))
	case types.T_char:
		return compareChar(a, b, typ.Width)
	case types.T_varchar, types.T_string:
		sa := (*types.StringValue)(a)
		sb := (*types.StringValue)(b)
		return bytes.Compare(sa.Bytes(), sb.Bytes())
	case types.T_timestamp:
		return CompareFixed(*(*types.Timestamp)(a), *(*types.Timestamp)(b))
	case types.T_decimal32:
		return CompareFixed(*(*types.Decimal32)(a), *(*types.Decimal32)(b))
	case types.T_decimal64:
		return CompareFixed(*(*types.Decimal64)(a), *(*types.Decimal64)(b))
	case types.T_decimal128:
		return (*types.Decimal128)(a).Compare(*(*types.Decimal128)(b))
	}
	panic(moerr.NewNYINoCtxf("compare for type %s", typ.Oid.OidString()))
}

// char(N) ordering ignores trailing blanks inside the N-byte window and
// never reads past it, so physical padding and any bytes beyond N are
// not significant.
func compareChar(a, b unsafe.Pointer, width int32) int {
	la := types.UnpaddedCharLength(a, width)
	lb := types.UnpaddedCharLength(b, width)
	return bytes.Compare(
		unsafe.Slice((*byte)(a), la),
		unsafe.Slice((*byte)(b), lb))
}

func boolByte(p unsafe.Pointer) byte {
	if *(*bool)(p) {
		return 1
	}
	return 0
}
