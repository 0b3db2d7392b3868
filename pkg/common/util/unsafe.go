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

package util

import (
	"unsafe"
)

// UnsafeBytesToString converts a byte slice to a string without copying.
// The caller must not mutate b afterwards.
func UnsafeBytesToString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

// UnsafeStringToBytes converts a string to a byte slice without copying.
// The returned slice must not be mutated.
func UnsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// UnsafeToBytes views the memory of *T as a byte slice of unsafe.Sizeof(T)
// bytes.
func UnsafeToBytes[T any](p *T) []byte {
	var v T
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), unsafe.Sizeof(v))
}

// UnsafeToBytesWithLength views length bytes starting at p.
func UnsafeToBytesWithLength[T any](p *T, length int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), length)
}

// UnsafeSliceCast reinterprets the backing array of from as a slice of To.
// Element sizes must divide evenly or the tail is truncated.
func UnsafeSliceCast[To, From any](from []From) []To {
	if from == nil {
		return nil
	}
	var to To
	var f From
	n := len(from) * int(unsafe.Sizeof(f)) / int(unsafe.Sizeof(to))
	return unsafe.Slice((*To)(unsafe.Pointer(unsafe.SliceData(from))), n)
}

func UnsafeUintptr[T any](p *T) uintptr {
	return uintptr(unsafe.Pointer(p))
}
