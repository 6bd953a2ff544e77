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

package iohelp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
)

func TestBuildChunkKeyV2(t *testing.T) {
	assert.Equal(t, "0", BuildChunkKey(0, nil, '.', false))
	assert.Equal(t, "1.2", BuildChunkKey(2, []uint64{1, 2}, '.', false))
	assert.Equal(t, "1/2", BuildChunkKey(2, []uint64{1, 2}, '/', false))
}

func TestBuildChunkKeyV3(t *testing.T) {
	assert.Equal(t, "c", BuildChunkKey(0, nil, '/', true))
	assert.Equal(t, "c/1/2", BuildChunkKey(2, []uint64{1, 2}, '/', true))
}

func TestBuildChunkKeyInjective(t *testing.T) {
	seen := map[string]bool{}
	indices := [][]uint64{{1, 2}, {12, 0}, {1, 20}, {0, 112}}
	for _, idx := range indices {
		k := BuildChunkKey(2, idx, '.', false)
		assert.False(t, seen[k], "collision for %v -> %q", idx, k)
		seen[k] = true
	}
}

func TestSwapBytesRoundTrip(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	orig := append([]byte(nil), buf...)
	require.NoError(t, SwapBytes(buf, 4))
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, buf)
	require.NoError(t, SwapBytes(buf, 4))
	assert.Equal(t, orig, buf)
}

func TestSwapBytesRejectsBadSize(t *testing.T) {
	assert.Error(t, SwapBytes([]byte{1, 2, 3}, 4))
	assert.Error(t, SwapBytes(make([]byte, 6), 3))
}

func TestResolveEndianRewritesNative(t *testing.T) {
	assert.Equal(t, HostEndian, ResolveEndian(nctype.Native))
	assert.Equal(t, nctype.Big, ResolveEndian(nctype.Big))
}

func TestMaybeSwapSkipsMatchingEndian(t *testing.T) {
	buf := []byte{0x01, 0x00, 0x00, 0x00}
	other := HostEndian
	if other == nctype.Little {
		other = nctype.Big
	} else {
		other = nctype.Little
	}
	require.NoError(t, MaybeSwap(buf, 4, HostEndian))
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, buf)

	require.NoError(t, MaybeSwap(buf, 4, other))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x01}, buf)
}

func TestBuildFillChunkDefaultInt(t *testing.T) {
	buf, err := BuildFillChunk(nctype.Int, nctype.Little, 0, 3, nil)
	require.NoError(t, err)
	assert.Len(t, buf, 12)
	// -2147483647 little-endian is 0x80000001 -> 01 00 00 80
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x80}, buf[0:4])
}

func TestBuildFillChunkExplicitValue(t *testing.T) {
	explicit := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	buf, err := BuildFillChunk(nctype.Int, nctype.Little, 0, 2, explicit)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, buf)
}

func TestEncodeValueInt(t *testing.T) {
	buf, err := EncodeValue(nil, nctype.Int, nctype.Little, 0, nczjson.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, buf)
}

func TestEncodeValueDouble(t *testing.T) {
	buf, err := EncodeValue(nil, nctype.Double, nctype.Little, 0, nczjson.NewDouble(-9999))
	require.NoError(t, err)
	require.Len(t, buf, 8)
}

func TestEncodeValueFeedsBuildFillChunk(t *testing.T) {
	explicit, err := EncodeValue(nil, nctype.Int, nctype.Little, 0, nczjson.NewInt(42))
	require.NoError(t, err)
	buf, err := BuildFillChunk(nctype.Int, nctype.Little, 0, 3, explicit)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x2A, 0, 0, 0, 0x2A, 0, 0, 0, 0x2A, 0, 0, 0}, buf)
}

func TestCopyDataFixedWidth(t *testing.T) {
	src := []byte{1, 0, 0, 0, 2, 0, 0, 0}
	dst := make([]byte, 8)
	n, err := CopyData(nctype.Int, 2, src, dst, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, src, dst)
}

func TestCopyDataStrings(t *testing.T) {
	src := []byte("hiworld")
	dst := make([]byte, len(src))
	srcLens := []int{2, 5}
	dstLens := make([]int, 2)
	n, err := CopyData(nctype.String, 2, src, dst, srcLens, dstLens)
	require.NoError(t, err)
	assert.Equal(t, len(src), n)
	assert.Equal(t, src, dst)
	assert.Equal(t, srcLens, dstLens)
}
