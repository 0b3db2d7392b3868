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
	"bytes"
	"io"
	"strconv"
	"unsafe"

	"github.com/palletdb/pallet/pkg/common/moerr"
	"github.com/palletdb/pallet/pkg/common/util"
	"github.com/palletdb/pallet/pkg/container/types"
)

// PrintScaleSentinel asks PrintValue to fall back to the descriptor's
// own scale (decimals) or default precision (floats).
const PrintScaleSentinel int32 = -1

// PrintValue renders the value under typ into w. char(N) is a raw dump
// of exactly the N physical bytes, whatever they contain; it is not
// string formatting. A nil value prints as NULL.
func PrintValue(v unsafe.Pointer, typ types.Type, scale int32, w io.Writer) error {
	if v == nil {
		_, err := io.WriteString(w, "NULL")
		return err
	}
	switch typ.Oid {
	case types.T_bool:
		_, err := io.WriteString(w, strconv.FormatBool(*(*bool)(v)))
		return err
	case types.T_int8:
		_, err := io.WriteString(w, strconv.FormatInt(int64(*(*int8)(v)), 10))
		return err
	case types.T_int16:
		_, err := io.WriteString(w, strconv.FormatInt(int64(*(*int16)(v)), 10))
		return err
	case types.T_int32:
		_, err := io.WriteString(w, strconv.FormatInt(int64(*(*int32)(v)), 10))
		return err
	case types.T_int64:
		_, err := io.WriteString(w, strconv.FormatInt(*(*int64)(v), 10))
		return err
	case types.T_float32:
		_, err := io.WriteString(w, formatFloat(float64(*(*float32)(v)), scale, 32))
		return err
	case types.T_float64:
		_, err := io.WriteString(w, formatFloat(*(*float64)(v), scale, 64))
		return err
	case types.T_char:
		// exactly Width physical bytes, including any embedded binary
		_, err := w.Write(unsafe.Slice((*byte)(v), typ.Width))
		return err
	case types.T_varchar, types.T_string:
		sv := (*types.StringValue)(v)
		_, err := w.Write(sv.Bytes())
		return err
	case types.T_timestamp:
		_, err := io.WriteString(w, (*(*types.Timestamp)(v)).String())
		return err
	case types.T_decimal32:
		_, err := io.WriteString(w, (*(*types.Decimal32)(v)).Format(printScale(typ, scale)))
		return err
	case types.T_decimal64:
		_, err := io.WriteString(w, (*(*types.Decimal64)(v)).Format(printScale(typ, scale)))
		return err
	case types.T_decimal128:
		_, err := io.WriteString(w, (*types.Decimal128)(v).Format(printScale(typ, scale)))
		return err
	}
	return moerr.NewNYINoCtxf("print for type %s", typ.Oid.OidString())
}

// PrintValueToString is a convenience wrapper over PrintValue.
func PrintValueToString(v unsafe.Pointer, typ types.Type, scale int32) string {
	var buf bytes.Buffer
	_ = PrintValue(v, typ, scale, &buf)
	return util.UnsafeBytesToString(buf.Bytes())
}

func printScale(typ types.Type, scale int32) int32 {
	if scale == PrintScaleSentinel {
		return typ.Scale
	}
	return scale
}

func formatFloat(f float64, scale int32, bits int) string {
	if scale >= 0 {
		return strconv.FormatFloat(f, 'f', int(scale), bits)
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}
