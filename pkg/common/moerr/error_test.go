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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	err := NewInvalidInputNoCtxf("bad batch header, %d rows", -1)
	require.True(t, IsMoErrCode(err, ErrInvalidInput))
	require.False(t, IsMoErrCode(err, ErrInternal))
	require.Equal(t, "invalid input: bad batch header, -1 rows", err.Error())
}

func TestErrorIs(t *testing.T) {
	err := NewOOMNoCtx("pool cap exceeded")
	require.True(t, errors.Is(err, NewOOMNoCtx("any")))
	require.False(t, errors.Is(err, NewInternalErrorNoCtx("any")))
}

func TestNilIsOk(t *testing.T) {
	require.True(t, IsMoErrCode(nil, Ok))
	require.False(t, IsMoErrCode(nil, ErrInternal))
}
