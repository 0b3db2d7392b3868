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

// Fixed-point decimals are stored as signed integers scaled by 10^scale.
// The descriptor's precision picks the physical width (4, 8 or 16 bytes)
// and it is the caller's job to pass values whose layout matches the
// descriptor; two decimals compare as the integers they encode.

package types

import (
	"math/big"
	"strings"
)

type Decimal32 int32

type Decimal64 int64

// Decimal128 is a little-endian two's-complement 128-bit integer.
type Decimal128 struct {
	Lo uint64
	Hi int64
}

func Decimal128FromInt64(v int64) Decimal128 {
	return Decimal128{Lo: uint64(v), Hi: v >> 63}
}

// Compare orders two 128-bit values as signed integers.
func (a Decimal128) Compare(b Decimal128) int {
	if a.Hi != b.Hi {
		if a.Hi < b.Hi {
			return -1
		}
		return 1
	}
	if a.Lo != b.Lo {
		if a.Lo < b.Lo {
			return -1
		}
		return 1
	}
	return 0
}

func (a Decimal128) Less(b Decimal128) bool {
	return a.Compare(b) < 0
}

func (a Decimal128) bigInt() *big.Int {
	x := new(big.Int).SetInt64(a.Hi)
	x.Lsh(x, 64)
	return x.Add(x, new(big.Int).SetUint64(a.Lo))
}

// FormatDecimal renders a scaled integer in decimal notation, inserting
// the point scale digits from the right. Used by value printing only;
// the hot paths never format.
func FormatDecimal(unscaled *big.Int, scale int32) string {
	neg := unscaled.Sign() < 0
	digits := new(big.Int).Abs(unscaled).String()
	if scale > 0 {
		if int(scale) >= len(digits) {
			digits = strings.Repeat("0", int(scale)-len(digits)+1) + digits
		}
		point := len(digits) - int(scale)
		digits = digits[:point] + "." + digits[point:]
	}
	if neg {
		return "-" + digits
	}
	return digits
}

func (d Decimal32) Format(scale int32) string {
	return FormatDecimal(big.NewInt(int64(d)), scale)
}

func (d Decimal64) Format(scale int32) string {
	return FormatDecimal(big.NewInt(int64(d)), scale)
}

func (a Decimal128) Format(scale int32) string {
	return FormatDecimal(a.bigInt(), scale)
}
