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

package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/ncmap"
	"github.com/nczarr-go/nczarr/objtree"
)

func TestOpenDetectsV3(t *testing.T) {
	m := ncmap.NewMemMap()
	require.NoError(t, m.Write(context.Background(), "zarr.json", []byte(`{}`)))

	codec, format, err := Open(context.Background(), m)
	require.NoError(t, err)
	assert.NotNil(t, codec)
	assert.Equal(t, objtree.FormatV3, format)
}

func TestOpenDetectsV2(t *testing.T) {
	m := ncmap.NewMemMap()
	require.NoError(t, m.Write(context.Background(), ".zgroup", []byte(`{}`)))

	codec, format, err := Open(context.Background(), m)
	require.NoError(t, err)
	assert.NotNil(t, codec)
	assert.Equal(t, objtree.FormatV2, format)
}

func TestOpenNotZarr(t *testing.T) {
	m := ncmap.NewMemMap()
	_, _, err := Open(context.Background(), m)
	require.Error(t, err)
	assert.Equal(t, ncerr.NotZarr, ncerr.KindOf(err))
}

func TestCreateForcedMode(t *testing.T) {
	codec, format, err := Create(ModePureZarrV2)
	require.NoError(t, err)
	assert.NotNil(t, codec)
	assert.Equal(t, objtree.FormatV2, format)
}
