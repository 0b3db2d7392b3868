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

package types

import (
	"unsafe"

	"github.com/palletdb/pallet/pkg/common/util"
)

// StringValue is the in-tuple layout for variable-length text: a
// non-owning (pointer, length) reference. The bytes belong to whichever
// pool allocated them and the reference is only valid while that pool is
// alive. During wire conversion Ptr temporarily holds a blob offset
// instead of an address.
type StringValue struct {
	Ptr unsafe.Pointer
	Len int64
}

func NewStringValue(b []byte) StringValue {
	if len(b) == 0 {
		return StringValue{}
	}
	return StringValue{Ptr: unsafe.Pointer(&b[0]), Len: int64(len(b))}
}

// Bytes returns the referenced payload as a non-owning slice.
func (sv *StringValue) Bytes() []byte {
	if sv.Len == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(sv.Ptr), sv.Len)
}

func (sv *StringValue) String() string {
	return util.UnsafeBytesToString(sv.Bytes())
}

// UnpaddedCharLength returns the logical length of a char(N) buffer:
// the index one past the last non-blank byte within the first n bytes.
func UnpaddedCharLength(p unsafe.Pointer, n int32) int32 {
	buf := unsafe.Slice((*byte)(p), n)
	i := n
	for i > 0 && buf[i-1] == ' ' {
		i--
	}
	return i
}
