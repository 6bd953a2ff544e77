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

package zarrv3

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nczarr-go/nczarr/filter"
	"github.com/nczarr-go/nczarr/metacodec"
	"github.com/nczarr-go/nczarr/ncmap"
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
	"github.com/nczarr-go/nczarr/objtree"
)

func newTestDataset() *objtree.Dataset {
	return objtree.NewDataset(objtree.FormatV3, 3, nctype.Native, 64)
}

func TestWriteReadGroupRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := ncmap.NewMemMap()
	c := New()

	ds := newTestDataset()
	root := ds.Root
	_, err := root.AddDimension("x", 10, false)
	require.NoError(t, err)
	_, err = root.AddVariable("temp", nctype.Float, []string{"/x"})
	require.NoError(t, err)
	_, err = root.AddGroup("sub")
	require.NoError(t, err)

	require.NoError(t, c.WriteGroup(ctx, m, root))

	ds2 := newTestDataset()
	childGroups, childVars, err := c.ReadGroup(ctx, m, ds2.Root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sub"}, childGroups)
	assert.ElementsMatch(t, []string{"temp"}, childVars)

	xdim, ok := ds2.Root.Dimension("x")
	require.True(t, ok)
	assert.Equal(t, uint64(10), xdim.Length())
}

func TestWriteReadArrayRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := ncmap.NewMemMap()
	c := New()

	ds := newTestDataset()
	root := ds.Root
	_, err := root.AddDimension("x", 100, false)
	require.NoError(t, err)
	v, err := root.AddVariable("temp", nctype.Float, []string{"/x"})
	require.NoError(t, err)
	require.NoError(t, v.SetChunks([]uint64{10}))
	v.Fill = objtree.FillPolicy{NoFill: false, Value: nczjson.NewDouble(-9999)}

	require.NoError(t, c.WriteArray(ctx, m, v))

	ds2 := newTestDataset()
	root2 := ds2.Root
	_, err = root2.AddDimension("x", 100, false)
	require.NoError(t, err)
	v2, err := root2.AddVariable("temp", nctype.Byte, []string{"/x"})
	require.NoError(t, err)

	require.NoError(t, c.ReadArray(ctx, m, v2))
	assert.Equal(t, []uint64{100}, v2.Shape)
	assert.Equal(t, []uint64{10}, v2.Chunks)
	assert.Equal(t, nctype.Float, v2.Type)
	assert.False(t, v2.Fill.NoFill)

	// the bytes pseudo-codec must be present and first.
	assert.True(t, len(v2.Filters.Filters) >= 1)
	assert.True(t, v2.Filters.Filters[0].IsPseudoBytes())
}

func TestWriteReadArrayScalar(t *testing.T) {
	ctx := context.Background()
	m := ncmap.NewMemMap()
	c := New()

	ds := newTestDataset()
	v, err := ds.Root.AddVariable("scalar_temp", nctype.Int, nil)
	require.NoError(t, err)
	require.NoError(t, v.SetChunks([]uint64{1}))

	require.NoError(t, c.WriteArray(ctx, m, v))

	ds2 := newTestDataset()
	v2, err := ds2.Root.AddVariable("scalar_temp", nctype.Byte, nil)
	require.NoError(t, err)

	require.NoError(t, c.ReadArray(ctx, m, v2))
	assert.Equal(t, []uint64{1}, v2.Shape)
	assert.Equal(t, []uint64{1}, v2.Chunks)
}

func TestWriteArrayBigEndianWritesBytesCodecWithBigEndian(t *testing.T) {
	ctx := context.Background()
	m := ncmap.NewMemMap()
	c := New()

	ds := newTestDataset()
	root := ds.Root
	_, err := root.AddDimension("x", 10, false)
	require.NoError(t, err)
	v, err := root.AddVariable("temp", nctype.Int, []string{"/x"})
	require.NoError(t, err)
	require.NoError(t, v.SetChunks([]uint64{10}))
	v.Endian = nctype.Big

	require.NoError(t, c.WriteArray(ctx, m, v))

	ds2 := newTestDataset()
	_, err = ds2.Root.AddDimension("x", 10, false)
	require.NoError(t, err)
	v2, err := ds2.Root.AddVariable("temp", nctype.Byte, []string{"/x"})
	require.NoError(t, err)

	require.NoError(t, c.ReadArray(ctx, m, v2))
	assert.Equal(t, nctype.Big, v2.Endian)

	endian, ok := filter.BytesEndian(v2.Filters)
	require.True(t, ok)
	assert.Equal(t, "big", endian)
}

func TestWriteReadAttrsRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := ncmap.NewMemMap()
	c := New()

	ds := newTestDataset()
	require.NoError(t, c.WriteGroup(ctx, m, ds.Root))

	a := objtree.NewAttribute("units", nctype.Char, 6, nczjson.NewString("kelvin"))
	require.NoError(t, ds.Root.AddAttribute(a))
	j := objtree.NewAttribute("provenance", nctype.JSON, 0, nczjson.NewString(`{"a":1}`))
	j.JSONConv = true
	require.NoError(t, ds.Root.AddAttribute(j))

	require.NoError(t, c.WriteAttrs(ctx, m, ds.Root.Path(), ds.Root))

	ds2 := newTestDataset()
	require.NoError(t, c.ReadAttrs(ctx, m, ds2.Root.Path(), ds2.Root))

	units, ok := ds2.Root.Attribute("units")
	require.True(t, ok)
	s, err := units.Values.AsString()
	require.NoError(t, err)
	assert.Equal(t, "kelvin", s)

	prov, ok := ds2.Root.Attribute("provenance")
	require.True(t, ok)
	assert.True(t, prov.JSONConv)
}

func TestResolveArrayDimsFromNczarrDimensions(t *testing.T) {
	ctx := context.Background()
	m := ncmap.NewMemMap()
	c := New()

	ds := newTestDataset()
	root := ds.Root
	_, err := root.AddDimension("x", 100, false)
	require.NoError(t, err)
	v, err := root.AddVariable("temp", nctype.Float, []string{"/x"})
	require.NoError(t, err)
	require.NoError(t, v.SetChunks([]uint64{10}))
	require.NoError(t, c.WriteArray(ctx, m, v))

	ds2 := newTestDataset()
	dimRefs, err := c.ResolveArrayDims(ctx, m, ds2.Root, "temp")
	require.NoError(t, err)
	assert.Equal(t, []string{"/x"}, dimRefs)
}

func TestResolveArrayDimsWalksDimensionNames(t *testing.T) {
	ctx := context.Background()
	m := ncmap.NewMemMap()

	doc := nczjson.NewDict()
	doc.Set("node_type", nczjson.NewString("array"))
	doc.Set("zarr_format", nczjson.NewInt(ZarrFormat))
	doc.Set("shape", uint64Array([]uint64{5}))
	names := nczjson.NewArray(nczjson.NewString("x"))
	doc.Set("dimension_names", names)
	require.NoError(t, metacodec.WriteDoc(ctx, m, "temp/zarr.json", doc))

	c := New()
	ds := newTestDataset()
	_, err := ds.Root.AddDimension("x", 5, false)
	require.NoError(t, err)

	dimRefs, err := c.ResolveArrayDims(ctx, m, ds.Root, "temp")
	require.NoError(t, err)
	require.Len(t, dimRefs, 1)
	assert.Equal(t, "/x", dimRefs[0])
}

func TestResolveArrayDimsSynthesizesAnonymous(t *testing.T) {
	ctx := context.Background()
	m := ncmap.NewMemMap()

	doc := nczjson.NewDict()
	doc.Set("node_type", nczjson.NewString("array"))
	doc.Set("zarr_format", nczjson.NewInt(ZarrFormat))
	doc.Set("shape", uint64Array([]uint64{7}))
	require.NoError(t, metacodec.WriteDoc(ctx, m, "purezarr/zarr.json", doc))

	c := New()
	ds := newTestDataset()

	dimRefs, err := c.ResolveArrayDims(ctx, m, ds.Root, "purezarr")
	require.NoError(t, err)
	require.Len(t, dimRefs, 1)
	assert.Contains(t, dimRefs[0], "_zdim_7")
}

func TestBuildChunkKeyDefaultEncoding(t *testing.T) {
	c := New()
	ds := newTestDataset()
	_, err := ds.Root.AddDimension("a", 10, false)
	require.NoError(t, err)
	_, err = ds.Root.AddDimension("b", 10, false)
	require.NoError(t, err)
	v, err := ds.Root.AddVariable("temp", nctype.Float, []string{"/a", "/b"})
	require.NoError(t, err)
	key := c.BuildChunkKey(v, []uint64{1, 2})
	assert.Equal(t, "c/1/2", key)
}
