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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	rp := NewRuntimeParameters()
	require.Equal(t, int64(1024), rp.BatchCapacity)
	require.Equal(t, int64(0), rp.PoolCapBytes)
	require.Equal(t, int64(4096), rp.WireCompressThreshold)
	require.Equal(t, "info", rp.Log.Level)
	require.NoError(t, rp.Validate())
}

func TestLoadRuntimeParameters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pallet.toml")
	content := `
batchCapacity = 2048
wireCompressThreshold = 8192

[log]
level = "debug"
max-backups = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rp, err := LoadRuntimeParameters(path)
	require.NoError(t, err)
	require.Equal(t, int64(2048), rp.BatchCapacity)
	require.Equal(t, int64(8192), rp.WireCompressThreshold)
	require.Equal(t, "debug", rp.Log.Level)
	require.Equal(t, 3, rp.Log.MaxBackups)
	// untouched fields keep their defaults
	require.Equal(t, int64(0), rp.PoolCapBytes)
	require.Equal(t, 512, rp.Log.MaxSizeMB)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pallet.toml")
	require.NoError(t, os.WriteFile(path, []byte("batchCapacity = -1\n"), 0644))
	_, err := LoadRuntimeParameters(path)
	require.Error(t, err)

	_, err = LoadRuntimeParameters(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
