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

package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/palletdb/pallet/pkg/config"
	"github.com/palletdb/pallet/pkg/container/batch"
	"github.com/palletdb/pallet/pkg/container/types"
)

func TestNewDefaults(t *testing.T) {
	r := New(nil)
	b := r.NewBatch(batch.NewTupleDesc(types.T_int64.ToType()))
	require.Equal(t, 1024, b.Capacity())
	require.Equal(t, 4096, batch.CompressThreshold)
}

func TestNewAppliesParameters(t *testing.T) {
	rp := config.NewRuntimeParameters()
	rp.BatchCapacity = 16
	rp.WireCompressThreshold = 256
	r := New(rp)

	b := r.NewBatch(batch.NewTupleDesc(types.T_int32.ToType()))
	require.Equal(t, 16, b.Capacity())
	require.Equal(t, 256, batch.CompressThreshold)

	p := r.NewPool("test")
	require.True(t, p.Empty())

	// restore the process-wide default for other tests
	Init(config.NewRuntimeParameters())
	require.Equal(t, 4096, batch.CompressThreshold)
}
