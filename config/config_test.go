// Copyright 2026 The NCZarr-Go Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Nil(t, d.PluginPath)
	assert.Equal(t, int64(0), d.CacheBudgetBytes)
	assert.False(t, d.Logging)
}

func TestLoadEmptyPathReturnsZeroValue(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults{}, d)
}

func TestLoadParsesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nczarr.toml")
	contents := `
plugin_path = ["/usr/lib/nczarr/plugins", "/opt/nczarr/plugins"]
cache_budget_bytes = 134217728
logging = true
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/lib/nczarr/plugins", "/opt/nczarr/plugins"}, d.PluginPath)
	assert.Equal(t, int64(134217728), d.CacheBudgetBytes)
	assert.True(t, d.Logging)
}
