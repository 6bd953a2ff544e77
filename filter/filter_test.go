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

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nczarr-go/nczarr/codec"
	"github.com/nczarr-go/nczarr/nczjson"
)

func newTestRegistry() *codec.Registry {
	r := codec.NewRegistry()
	codec.Initialize(r)
	return r
}

func TestMissingPluginMarksIncomplete(t *testing.T) {
	reg := newTestRegistry()
	f := FromHDF5(reg, "zstd-unknown-variant", []uint32{1})
	assert.True(t, f.Flags.Incomplete)
}

func TestChainEncodeDecodeRoundTrip(t *testing.T) {
	assert := assert.New(t)
	reg := newTestRegistry()

	snap := FromHDF5(reg, "snappy", nil)
	chain := Chain{Filters: []Filter{snap}}

	input := []byte("the quick brown fox the quick brown fox")
	enc, err := chain.Encode(input)
	require.NoError(t, err)
	dec, err := chain.Decode(enc)
	require.NoError(t, err)
	assert.Equal(input, dec)
}

func TestChainWithIncompleteFilterFailsDataAccess(t *testing.T) {
	reg := newTestRegistry()
	bad := FromHDF5(reg, "bloscz", nil)
	chain := Chain{Filters: []Filter{bad}}

	_, err := chain.Encode([]byte("x"))
	assert.Error(t, err)
	assert.True(t, chain.Suppressed(true))
}

func TestV3BytesPseudoFilterSkippedByChainTransform(t *testing.T) {
	assert := assert.New(t)
	reg := newTestRegistry()

	bytesFilter := FromCodecJSON(reg, mustCodecJSON(`{"name":"bytes","configuration":{"endian":"little"}}`))
	chain := Chain{Filters: []Filter{bytesFilter}}

	out, err := chain.Encode([]byte("abcd"))
	assert.NoError(err)
	assert.Equal([]byte("abcd"), out) // pseudo filter does not transform bytes

	endian, ok := BytesEndian(chain)
	assert.True(ok)
	assert.Equal("little", endian)
}

func TestChainSuppressedOnMultiplePseudoBytes(t *testing.T) {
	reg := newTestRegistry()
	b1 := FromCodecJSON(reg, mustCodecJSON(`{"name":"bytes","configuration":{"endian":"little"}}`))
	b2 := FromCodecJSON(reg, mustCodecJSON(`{"name":"bytes","configuration":{"endian":"big"}}`))
	chain := Chain{Filters: []Filter{b1, b2}}
	assert.True(t, chain.Suppressed(true))
}

func TestChainSuppressedWhenVariableWidthHasNonBytesFilter(t *testing.T) {
	reg := newTestRegistry()
	snap := FromHDF5(reg, "snappy", nil)
	chain := Chain{Filters: []Filter{snap}}

	// A String/JSON-typed variable (fixedSize=false) compressed with a
	// real transform is suppressed even though the filter itself
	// resolved to a working plugin.
	assert.True(t, chain.Suppressed(false))
	// The same chain is fine on a fixed-size numeric type.
	assert.False(t, chain.Suppressed(true))
}

func mustCodecJSON(s string) *nczjson.Value {
	v, err := nczjson.Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}
