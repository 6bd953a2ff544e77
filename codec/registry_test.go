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

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nczarr-go/nczarr/nczjson"
)

func TestRegistryLookupMiss(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup("zstd")
	assert.False(t, ok)
}

func TestRegistryInitializeBuiltins(t *testing.T) {
	assert := assert.New(t)

	r := NewRegistry()
	Initialize(r)

	for _, id := range []string{"bytes", "snappy", "zstd"} {
		_, ok := r.Lookup(id)
		assert.True(ok, "expected builtin %q registered", id)
	}
}

func TestBytesPluginEndianRoundTrip(t *testing.T) {
	assert := assert.New(t)

	p := BytesPlugin{}
	codecJSON, err := p.HDF5ToCodec([]uint32{1})
	require.NoError(t, err)

	params, err := p.CodecToHDF5(codecJSON)
	require.NoError(t, err)
	assert.Equal([]uint32{1}, params)

	cfg, _ := codecJSON.Get("configuration")
	endian, _ := cfg.Get("endian")
	assert.Equal("big", endian.Str)
}

func TestBytesPluginInvalidEndian(t *testing.T) {
	bad := nczjson.NewDict()
	cfg := nczjson.NewDict()
	cfg.Set("endian", nczjson.NewString("middle"))
	bad.Set("configuration", cfg)

	_, err := BytesPlugin{}.CodecToHDF5(bad)
	assert.Error(t, err)
}

func TestSnappyRoundTrip(t *testing.T) {
	assert := assert.New(t)

	p := SnappyPlugin{}
	data := []byte("hello hello hello hello world")
	enc, err := p.Encode(data)
	require.NoError(t, err)
	dec, err := p.Decode(enc)
	require.NoError(t, err)
	assert.Equal(data, dec)
}

func TestZstdRoundTrip(t *testing.T) {
	assert := assert.New(t)

	p := ZstdPlugin{}
	data := []byte("hello hello hello hello world")
	enc := p.EncodeLevel(data, 3)
	dec, err := p.Decode(enc)
	require.NoError(t, err)
	assert.Equal(data, dec)
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register(SnappyPlugin{})
	_, ok := r.Lookup("snappy")
	assert.True(t, ok)
	r.Unregister("snappy")
	_, ok = r.Lookup("snappy")
	assert.False(t, ok)
}
