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
	"fmt"
	"unsafe"

	"github.com/palletdb/pallet/pkg/common/moerr"
)

// T is the type oid. Values travel the engine as raw, untagged memory;
// a T (wrapped in a Type with its parameters) is handed alongside every
// value pointer to tell consumers how to read the bytes.
type T uint8

const (
	T_any T = iota

	T_bool

	// signed integer widths
	T_int8
	T_int16
	T_int32
	T_int64

	// floating widths
	T_float32
	T_float64

	// fixed-length character, blank padded to Width bytes
	T_char
	// bounded variable-length character, Width is the max length
	T_varchar
	// unbounded variable-length text
	T_string

	// date+time instant, no timezone
	T_timestamp

	// fixed-point decimals; the oid encodes the physical width
	T_decimal32
	T_decimal64
	T_decimal128
)

const (
	// MaxVarcharLen is the system cap on varchar(N).
	MaxVarcharLen = 65535
	// MaxCharLen is the system cap on char(N).
	MaxCharLen = 255

	// MaxDecimal32Precision..MaxDecimal128Precision drive the width rule:
	// precision <=9 packs into 4 bytes, <=18 into 8, anything above into 16.
	MaxDecimal32Precision  = 9
	MaxDecimal64Precision  = 18
	MaxDecimal128Precision = 38
)

// Type is an immutable runtime type descriptor, compared by oid plus
// parameters, never by identity. Size is the physical byte width of a
// value of this type; for var-text kinds it is the width of the
// StringValue reference, not of the payload.
type Type struct {
	Oid T

	// Size is the physical in-tuple width in bytes.
	Size int32

	// Width is the char/varchar length, or the decimal precision.
	Width int32

	// Scale is the decimal scale (digits right of the point).
	Scale int32
}

var typeSizes = [...]int32{
	T_any:        0,
	T_bool:       1,
	T_int8:       1,
	T_int16:      2,
	T_int32:      4,
	T_int64:      8,
	T_float32:    4,
	T_float64:    8,
	T_char:       0, // Width bytes, set per descriptor
	T_varchar:    int32(unsafe.Sizeof(StringValue{})),
	T_string:     int32(unsafe.Sizeof(StringValue{})),
	T_timestamp:  TimestampSize,
	T_decimal32:  Decimal32Size,
	T_decimal64:  Decimal64Size,
	T_decimal128: Decimal128Size,
}

func New(oid T, width, scale int32) Type {
	typ := Type{Oid: oid, Width: width, Scale: scale}
	if oid == T_char {
		typ.Size = width
	} else {
		typ.Size = typeSizes[oid]
	}
	return typ
}

// ToType returns the parameterless descriptor for fixed kinds.
func (t T) ToType() Type {
	return New(t, 0, 0)
}

// NewCharType builds a char(n) descriptor. n must be positive and within
// the system cap.
func NewCharType(n int32) Type {
	if n <= 0 || n > MaxCharLen {
		panic(moerr.NewInvalidArgNoCtx("char length", n))
	}
	return New(T_char, n, 0)
}

// NewVarcharType builds a varchar(n) descriptor.
func NewVarcharType(n int32) Type {
	if n <= 0 || n > MaxVarcharLen {
		panic(moerr.NewInvalidArgNoCtx("varchar length", n))
	}
	return New(T_varchar, n, 0)
}

// NewDecimalType picks the physical width from the precision: one of the
// three decimal oids, so Type.Size always matches the value layout.
func NewDecimalType(precision, scale int32) Type {
	if precision <= 0 || precision > MaxDecimal128Precision {
		panic(moerr.NewInvalidArgNoCtx("decimal precision", precision))
	}
	if scale < 0 || scale > precision {
		panic(moerr.NewInvalidArgNoCtx("decimal scale", scale))
	}
	switch {
	case precision <= MaxDecimal32Precision:
		return New(T_decimal32, precision, scale)
	case precision <= MaxDecimal64Precision:
		return New(T_decimal64, precision, scale)
	default:
		return New(T_decimal128, precision, scale)
	}
}

// Eq compares descriptors by kind and parameters.
func (t Type) Eq(other Type) bool {
	return t.Oid == other.Oid && t.Size == other.Size &&
		t.Width == other.Width && t.Scale == other.Scale
}

// IsVarlen reports whether values of t are StringValue references into
// externally owned payload.
func (t Type) IsVarlen() bool {
	return t.Oid == T_varchar || t.Oid == T_string
}

func (t Type) IsDecimal() bool {
	return t.Oid == T_decimal32 || t.Oid == T_decimal64 || t.Oid == T_decimal128
}

func (t Type) String() string {
	return t.Oid.String()
}

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_bool:
		return "BOOL"
	case T_int8:
		return "TINYINT"
	case T_int16:
		return "SMALLINT"
	case T_int32:
		return "INT"
	case T_int64:
		return "BIGINT"
	case T_float32:
		return "FLOAT"
	case T_float64:
		return "DOUBLE"
	case T_char:
		return "CHAR"
	case T_varchar:
		return "VARCHAR"
	case T_string:
		return "STRING"
	case T_timestamp:
		return "TIMESTAMP"
	case T_decimal32:
		return "DECIMAL32"
	case T_decimal64:
		return "DECIMAL64"
	case T_decimal128:
		return "DECIMAL128"
	}
	return fmt.Sprintf("unexpected type %d", t)
}

func (t T) OidString() string {
	switch t {
	case T_any:
		return "T_any"
	case T_bool:
		return "T_bool"
	case T_int8:
		return "T_int8"
	case T_int16:
		return "T_int16"
	case T_int32:
		return "T_int32"
	case T_int64:
		return "T_int64"
	case T_float32:
		return "T_float32"
	case T_float64:
		return "T_float64"
	case T_char:
		return "T_char"
	case T_varchar:
		return "T_varchar"
	case T_string:
		return "T_string"
	case T_timestamp:
		return "T_timestamp"
	case T_decimal32:
		return "T_decimal32"
	case T_decimal64:
		return "T_decimal64"
	case T_decimal128:
		return "T_decimal128"
	}
	return "unknown_type"
}
