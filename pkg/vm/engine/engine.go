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

// Package engine ties the runtime together: it applies the loaded
// configuration and hands out batches and pools built to it.
package engine

import (
	"github.com/palletdb/pallet/pkg/common/mpool"
	"github.com/palletdb/pallet/pkg/config"
	"github.com/palletdb/pallet/pkg/container/batch"
	"github.com/palletdb/pallet/pkg/logutil"
)

// Runtime carries the configured building blocks for producing and
// shipping row batches. One per process is the expected shape, but
// nothing prevents several with different parameters.
type Runtime struct {
	params *config.RuntimeParameters
}

// Init applies process-wide settings: the logger and the wire
// compression threshold. Call it once at startup, before batches are
// marshalled.
func Init(rp *config.RuntimeParameters) {
	logutil.Setup(rp.Log)
	batch.CompressThreshold = int(rp.WireCompressThreshold)
}

// New builds a runtime over rp, applying it process-wide first. A nil
// rp means defaults.
func New(rp *config.RuntimeParameters) *Runtime {
	if rp == nil {
		rp = config.NewRuntimeParameters()
	}
	Init(rp)
	return &Runtime{params: rp}
}

// NewBatch returns an empty row batch at the configured capacity.
func (r *Runtime) NewBatch(descs ...*batch.TupleDesc) *batch.RowBatch {
	return batch.New(descs, int(r.params.BatchCapacity))
}

// NewPool returns a tuple data pool at the configured byte limit.
func (r *Runtime) NewPool(tag string) *mpool.MPool {
	return mpool.NewMPool(tag, r.params.PoolCapBytes)
}

func (r *Runtime) Params() *config.RuntimeParameters {
	return r.params
}
