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

package moerr

import (
	"fmt"
)

const (
	// 0 - 99 is OK. Special handled, no alloc.
	Ok uint16 = 0

	// Group 1: internal errors
	ErrStart    uint16 = 20100
	ErrInternal uint16 = 20101
	ErrNYI      uint16 = 20102

	// Group 2: numeric and type errors
	ErrOutOfRange    uint16 = 20200
	ErrDataTruncated uint16 = 20201
	ErrInvalidArg    uint16 = 20202
	ErrTooLarge      uint16 = 20203

	// Group 3: invalid input
	ErrInvalidInput uint16 = 20300

	// Group 4: resource exhaustion
	ErrOOM uint16 = 20400

	ErrEnd uint16 = 65535
)

type errorItem struct {
	code uint16
	fmt  string
}

var errorDefs = map[uint16]errorItem{
	ErrInternal:      {ErrInternal, "internal error: %s"},
	ErrNYI:           {ErrNYI, "%s is not yet implemented"},
	ErrOutOfRange:    {ErrOutOfRange, "data out of range: data type %s, %s"},
	ErrDataTruncated: {ErrDataTruncated, "data truncated: data type %s, %s"},
	ErrInvalidArg:    {ErrInvalidArg, "invalid argument %s, bad value %s"},
	ErrTooLarge:      {ErrTooLarge, "%s is too large"},
	ErrInvalidInput:  {ErrInvalidInput, "invalid input: %s"},
	ErrOOM:           {ErrOOM, "out of memory: %s"},
}

// Error is the error type carried across the engine's recoverable paths.
// Hot-path precondition violations panic instead; see the package doc.
type Error struct {
	code    uint16
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

func (e *Error) Is(err error) bool {
	me, ok := err.(*Error)
	if !ok {
		return false
	}
	return me.code == e.code
}

// IsMoErrCode reports whether err is a moerr with the given code.
func IsMoErrCode(err error, code uint16) bool {
	if err == nil {
		return code == Ok
	}
	me, ok := err.(*Error)
	if !ok {
		return false
	}
	return me.code == code
}

func newError(code uint16, args ...any) *Error {
	item, ok := errorDefs[code]
	if !ok {
		panic(fmt.Errorf("missing error definition for code %d", code))
	}
	return &Error{
		code:    code,
		message: fmt.Sprintf(item.fmt, args...),
	}
}

func NewInternalErrorNoCtx(msg string) *Error {
	return newError(ErrInternal, msg)
}

func NewInternalErrorNoCtxf(format string, args ...any) *Error {
	return newError(ErrInternal, fmt.Sprintf(format, args...))
}

func NewNYINoCtxf(format string, args ...any) *Error {
	return newError(ErrNYI, fmt.Sprintf(format, args...))
}

func NewOutOfRangeNoCtxf(typ string, format string, args ...any) *Error {
	return newError(ErrOutOfRange, typ, fmt.Sprintf(format, args...))
}

func NewInvalidArgNoCtx(arg string, val any) *Error {
	return newError(ErrInvalidArg, arg, fmt.Sprintf("%v", val))
}

func NewInvalidInputNoCtx(msg string) *Error {
	return newError(ErrInvalidInput, msg)
}

func NewInvalidInputNoCtxf(format string, args ...any) *Error {
	return newError(ErrInvalidInput, fmt.Sprintf(format, args...))
}

func NewOOMNoCtx(msg string) *Error {
	return newError(ErrOOM, msg)
}

func NewTooLargeNoCtxf(format string, args ...any) *Error {
	return newError(ErrTooLarge, fmt.Sprintf(format, args...))
}
