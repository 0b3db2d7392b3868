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

package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSetupFileSink(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "pallet.log")
	Setup(LogConfig{Level: "debug", Filename: file})
	defer Setup(LogConfig{Level: "info"})

	Debug("first", zap.Int("rows", 7))
	Infof("batch %s serialized", "b1")
	require.NoError(t, GetGlobalLogger().Sync())

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(content), "first"))
	require.True(t, strings.Contains(string(content), "batch b1 serialized"))
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "pallet.log")
	Setup(LogConfig{Level: "warn", Filename: file})
	defer Setup(LogConfig{Level: "info"})

	Info("dropped")
	Warn("kept")
	require.NoError(t, GetGlobalLogger().Sync())

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(content), "dropped"))
	require.True(t, strings.Contains(string(content), "kept"))
}
