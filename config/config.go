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

// Package config reads an optional TOML sidecar file of process-wide
// defaults (filter plugin search path, chunk-cache budget) read once
// at startup, the way a CLI built on this engine would seed values a
// dataset URL's fragment has no room to carry.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/nczarr-go/nczarr/internal/ncerr"
)

// Defaults holds the process-wide knobs not carried by a dataset URL.
type Defaults struct {
	// PluginPath holds the plugin_path list read from the file. Nothing
	// in this module reads it: no plugins are loaded from these
	// directories, and the codec registry holds only its built-in
	// plugins.
	PluginPath []string `toml:"plugin_path"`
	// CacheBudgetBytes bounds the chunk cache's resident set; zero
	// means the cache's own built-in default applies.
	CacheBudgetBytes int64 `toml:"cache_budget_bytes"`
	// Logging turns on structured logging for datasets that don't set
	// Flags.Logging explicitly via their own URL fragment.
	Logging bool `toml:"logging"`
}

// Load decodes path as TOML into a new Defaults. A missing file is not
// an error: it returns the zero Defaults, since every field has a
// sensible empty-value meaning (no extra plugin dirs, the default cache
// budget, logging off).
func Load(path string) (Defaults, error) {
	var d Defaults
	if path == "" {
		return d, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return d, nil
	}
	if _, err := toml.DecodeFile(path, &d); err != nil {
		return d, ncerr.Wrap(ncerr.Internal, err, "config: decoding %q", path)
	}
	return d, nil
}
