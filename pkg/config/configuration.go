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

package config

import (
	"github.com/BurntSushi/toml"

	"github.com/palletdb/pallet/pkg/common/moerr"
	"github.com/palletdb/pallet/pkg/logutil"
)

// RuntimeParameters of the row transport runtime
type RuntimeParameters struct {
	//the number of rows a batch holds. default: 1024
	BatchCapacity int64 `toml:"batchCapacity"`

	//per-batch tuple data pool limit in bytes. default: 0, unlimited
	PoolCapBytes int64 `toml:"poolCapBytes"`

	//blob size in bytes above which a marshalled batch is compressed. default: 4096
	WireCompressThreshold int64 `toml:"wireCompressThreshold"`

	Log logutil.LogConfig `toml:"log"`
}

// SetDefaultValues fills the zero-valued fields.
func (rp *RuntimeParameters) SetDefaultValues() {
	if rp.BatchCapacity == 0 {
		rp.BatchCapacity = 1024
	}
	if rp.WireCompressThreshold == 0 {
		rp.WireCompressThreshold = 4096
	}
	if rp.Log.Level == "" {
		rp.Log.Level = "info"
	}
	if rp.Log.MaxSizeMB == 0 {
		rp.Log.MaxSizeMB = 512
	}
}

// Validate rejects values the runtime cannot honor.
func (rp *RuntimeParameters) Validate() error {
	if rp.BatchCapacity <= 0 {
		return moerr.NewInvalidInputNoCtxf("batchCapacity must be positive, got %d", rp.BatchCapacity)
	}
	if rp.PoolCapBytes < 0 {
		return moerr.NewInvalidInputNoCtxf("poolCapBytes must not be negative, got %d", rp.PoolCapBytes)
	}
	if rp.WireCompressThreshold <= 0 {
		return moerr.NewInvalidInputNoCtxf("wireCompressThreshold must be positive, got %d", rp.WireCompressThreshold)
	}
	return nil
}

// NewRuntimeParameters returns the default configuration.
func NewRuntimeParameters() *RuntimeParameters {
	rp := &RuntimeParameters{}
	rp.SetDefaultValues()
	return rp
}

// LoadRuntimeParameters reads a toml file, layering it over the
// defaults.
func LoadRuntimeParameters(path string) (*RuntimeParameters, error) {
	rp := &RuntimeParameters{}
	if _, err := toml.DecodeFile(path, rp); err != nil {
		return nil, moerr.NewInvalidInputNoCtxf("cannot decode config file %s: %v", path, err)
	}
	rp.SetDefaultValues()
	if err := rp.Validate(); err != nil {
		return nil, err
	}
	return rp, nil
}
