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

package nczarr

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nczarr-go/nczarr/config"
	"github.com/nczarr-go/nczarr/iohelp"
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
)

func TestCreateAddVariableRoundTripsThroughOpen(t *testing.T) {
	ctx := context.Background()

	ds, err := Create(ctx, "mem://roundtrip", config.Defaults{})
	require.NoError(t, err)

	_, err = ds.AddDimension(ctx, ds.Root(), "x", 6, false)
	require.NoError(t, err)

	v, err := ds.AddVariable(ctx, ds.Root(), "temp", nctype.Double, []string{"/x"}, []uint64{3})
	require.NoError(t, err)

	declared := nctype.Char
	_, err = ds.SetAttribute(ctx, v, "units", nczjson.NewString("kelvin"), &declared)
	require.NoError(t, err)

	data := make([]byte, 6*8)
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, ds.PutAll(ctx, v, data))
	require.NoError(t, ds.Close(ctx))

	reopened, err := Open(ctx, "mem://roundtrip", config.Defaults{})
	require.NoError(t, err)

	v2, ok := reopened.Root().Variable("temp")
	require.True(t, ok)

	assert.Equal(t, v.Type, v2.Type)
	if diff := cmp.Diff(v.Shape, v2.Shape); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(v.Chunks, v2.Chunks); diff != "" {
		t.Errorf("chunks mismatch (-want +got):\n%s", diff)
	}

	units, ok := v2.Attribute("units")
	require.True(t, ok)
	assert.Equal(t, "kelvin", units.Values.Str)

	got, err := reopened.GetAll(ctx, v2)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, reopened.Close(ctx))
}

func TestGetAllSynthesizesFillForUnwrittenChunks(t *testing.T) {
	ctx := context.Background()

	ds, err := Create(ctx, "mem://fillroundtrip", config.Defaults{})
	require.NoError(t, err)

	_, err = ds.AddDimension(ctx, ds.Root(), "x", 5, false)
	require.NoError(t, err)
	v, err := ds.AddVariable(ctx, ds.Root(), "v", nctype.Int, []string{"/x"}, []uint64{2})
	require.NoError(t, err)

	buf, err := ds.GetAll(ctx, v)
	require.NoError(t, err)
	require.Len(t, buf, 5*4)

	require.NoError(t, ds.Close(ctx))
}

func TestPutAllGetAllSwapBytesForDeclaredNonHostEndian(t *testing.T) {
	ctx := context.Background()

	ds, err := Create(ctx, "mem://endianroundtrip", config.Defaults{})
	require.NoError(t, err)

	_, err = ds.AddDimension(ctx, ds.Root(), "x", 2, false)
	require.NoError(t, err)
	v, err := ds.AddVariable(ctx, ds.Root(), "v", nctype.Int, []string{"/x"}, []uint64{2})
	require.NoError(t, err)

	declared := nctype.Little
	if iohelp.HostEndian == nctype.Little {
		declared = nctype.Big
	}
	v.Endian = declared

	hostBO := binary.LittleEndian
	if iohelp.HostEndian == nctype.Big {
		hostBO = binary.BigEndian
	}
	data := make([]byte, 8)
	hostBO.PutUint32(data[0:4], 1)
	hostBO.PutUint32(data[4:8], 2)

	require.NoError(t, ds.PutAll(ctx, v, data))

	// GetAll hands back the same host-native bytes PutAll was given.
	got, err := ds.GetAll(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// but the bytes actually persisted to the map must be byte-swapped
	// into the variable's declared endian, not left in host order.
	require.NoError(t, v.Cache.Flush(ctx))
	raw, err := readAll(ctx, ds.m, ds.chunkMapKey(v, []uint64{0}))
	require.NoError(t, err)

	declaredBO := binary.LittleEndian
	if declared == nctype.Big {
		declaredBO = binary.BigEndian
	}
	want := make([]byte, 8)
	declaredBO.PutUint32(want[0:4], 1)
	declaredBO.PutUint32(want[4:8], 2)
	assert.Equal(t, want, raw)

	require.NoError(t, ds.Close(ctx))
}

func TestScalarVariableChunkRoundTrip(t *testing.T) {
	ctx := context.Background()

	ds, err := Create(ctx, "mem://scalar", config.Defaults{})
	require.NoError(t, err)

	v, err := ds.AddVariable(ctx, ds.Root(), "s", nctype.Int, nil, []uint64{1})
	require.NoError(t, err)

	require.NoError(t, ds.PutAll(ctx, v, []byte{1, 0, 0, 0}))
	got, err := ds.GetAll(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0}, got)

	require.NoError(t, ds.Close(ctx))
}
