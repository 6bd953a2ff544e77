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

package ncmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// GCSMap's object-naming logic is exercised directly; a live bucket
// handle is required for the rest of the interface, so the
// create/read/write/list/delete path is covered by integration tests
// run against a real or emulated bucket, not here.

func TestGCSMapObjectNaming(t *testing.T) {
	g := &GCSMap{prefix: "datasets/cast01"}
	assert.Equal(t, "datasets/cast01/.zgroup", g.objName(".zgroup"))

	g2 := &GCSMap{prefix: ""}
	assert.Equal(t, ".zgroup", g2.objName(".zgroup"))
}

func TestGCSMapCanList(t *testing.T) {
	g := &GCSMap{}
	assert.True(t, g.CanList())
}

func TestNewGCSMapTrimsTrailingSlash(t *testing.T) {
	g := NewGCSMap(nil, "root/prefix/")
	assert.Equal(t, "root/prefix", g.prefix)
}
