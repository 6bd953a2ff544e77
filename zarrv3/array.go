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

	"github.com/nczarr-go/nczarr/codec"
	"github.com/nczarr-go/nczarr/filter"
	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/iohelp"
	"github.com/nczarr-go/nczarr/metacodec"
	"github.com/nczarr-go/nczarr/ncmap"
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
	"github.com/nczarr-go/nczarr/objtree"
)

func arrayKey(v *objtree.Variable) string { return joinKey(v.Owner().Path(), v.Name(), zarrJSONFile) }

func uint64Array(vals []uint64) *nczjson.Value {
	out := make([]*nczjson.Value, len(vals))
	for i, n := range vals {
		out[i] = nczjson.NewInt(int64(n))
	}
	return nczjson.NewArray(out...)
}

func readUint64Array(v *nczjson.Value) ([]uint64, error) {
	out := make([]uint64, len(v.Array))
	for i, e := range v.Array {
		n, err := e.AsInt()
		if err != nil {
			return nil, err
		}
		out[i] = uint64(n)
	}
	return out, nil
}

func arrayDocKey(g *objtree.Group, name string) string {
	return joinKey(g.Path(), name, zarrJSONFile)
}

// ResolveArrayDims reads just enough of V/zarr.json to determine the
// dimension FQNs name should be constructed with (spec.md §4.H):
// `_nczarr_array.dimensions` if present, else `dimension_names` walked
// against the group hierarchy starting at g and searching each
// ancestor in turn, creating a dimension in g (or synthesizing an
// anonymous one from shape) when no existing dimension matches.
func (c *Codec) ResolveArrayDims(ctx context.Context, m ncmap.Map, g *objtree.Group, name string) ([]string, error) {
	doc, err := c.docs.ReadDoc(ctx, m, arrayDocKey(g, name))
	if err != nil {
		return nil, err
	}

	if nczArray, ok := doc.Get("_nczarr_array"); ok {
		if dims, ok := nczArray.Get("dimensions"); ok {
			out := make([]string, len(dims.Array))
			for i, e := range dims.Array {
				out[i], _ = e.AsString()
			}
			return out, nil
		}
	}

	shapeVal, ok := doc.Get("shape")
	if !ok {
		return nil, ncerr.New(ncerr.NotZarr, "variable %q: zarr.json missing shape", name)
	}
	shape, err := readUint64Array(shapeVal)
	if err != nil {
		return nil, err
	}

	var names []string
	if dn, ok := doc.Get("dimension_names"); ok && dn.Kind == nczjson.KindArray {
		names = make([]string, len(dn.Array))
		for i, e := range dn.Array {
			names[i], _ = e.AsString()
		}
	}

	out := make([]string, len(shape))
	for i, n := range shape {
		simpleName := ""
		if i < len(names) {
			simpleName = names[i]
		}
		out[i] = resolveOrCreateDim(g, simpleName, n)
	}
	return out, nil
}

// resolveOrCreateDim searches g and its ancestors for a dimension
// named simpleName; if none matches (or simpleName is empty, the
// purezarr case with no dimension_names entry), it creates one of the
// observed length in g, synthesizing an anonymous name when necessary.
func resolveOrCreateDim(g *objtree.Group, simpleName string, length uint64) string {
	if simpleName != "" {
		for anc := g; anc != nil; anc = anc.ObjectParent() {
			if d, ok := anc.Dimension(simpleName); ok {
				return objtree.MakeFQN(d)
			}
		}
		d, err := g.AddDimension(simpleName, length, false)
		if err == nil {
			return objtree.MakeFQN(d)
		}
		// Name collision with mismatched length: fall through to an
		// anonymous dimension rather than erroring out of ResolveArrayDims.
	}
	anonName := anonymousDimName(length)
	d, ok := g.Dimension(anonName)
	if !ok {
		d, _ = g.AddDimension(anonName, length, false)
	}
	return objtree.MakeFQN(d)
}

func anonymousDimName(length uint64) string {
	return "_zdim_" + itoa(length)
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// WriteArray emits V/zarr.json: `node_type:"array"`, `zarr_format:3`,
// `shape`, `data_type`, `chunk_grid`, `chunk_key_encoding`,
// `fill_value`, `codecs` (the mandatory `bytes` pseudo-codec first),
// `dimension_names`, `attributes:{}`, and `_nczarr_array` (spec.md
// §4.H).
func (c *Codec) WriteArray(ctx context.Context, m ncmap.Map, v *objtree.Variable) error {
	doc := nczjson.NewDict()
	doc.Set("node_type", nczjson.NewString("array"))
	doc.Set("zarr_format", nczjson.NewInt(ZarrFormat))
	doc.Set("shape", uint64Array(v.Shape))

	bits := v.MaxStrlen * 8
	dataType, alias, err := nctype.V3DataType(v.Type, bits)
	if err != nil {
		return ncerr.Wrap(ncerr.BadType, err, "variable %q", v.Name())
	}
	doc.Set("data_type", nczjson.NewString(dataType))

	grid := nczjson.NewDict()
	grid.Set("name", nczjson.NewString("regular"))
	gridCfg := nczjson.NewDict()
	gridCfg.Set("chunk_shape", uint64Array(v.Chunks))
	grid.Set("configuration", gridCfg)
	doc.Set("chunk_grid", grid)

	encoding := nczjson.NewDict()
	if v.Sep == '.' {
		encoding.Set("name", nczjson.NewString("v2"))
		cfg := nczjson.NewDict()
		cfg.Set("separator", nczjson.NewString("."))
		encoding.Set("configuration", cfg)
	} else {
		encoding.Set("name", nczjson.NewString("default"))
		cfg := nczjson.NewDict()
		cfg.Set("separator", nczjson.NewString("/"))
		encoding.Set("configuration", cfg)
	}
	doc.Set("chunk_key_encoding", encoding)

	if v.Fill.NoFill || v.Fill.Value == nil {
		doc.Set("fill_value", nczjson.NewNull())
	} else {
		doc.Set("fill_value", v.Fill.Value)
	}

	doc.Set("codecs", c.writeCodecs(v))

	dimNames := make([]*nczjson.Value, len(v.DimFQNs))
	for i, fqn := range v.DimFQNs {
		dimNames[i] = nczjson.NewString(fqn)
	}
	doc.Set("dimension_names", nczjson.NewArray(dimNames...))

	doc.Set("attributes", nczjson.NewDict())

	nczArray := nczjson.NewDict()
	dimrefs := make([]*nczjson.Value, len(v.DimFQNs))
	for i, fqn := range v.DimFQNs {
		dimrefs[i] = nczjson.NewString(fqn)
	}
	nczArray.Set("dimensions", nczjson.NewArray(dimrefs...))
	if alias != 0 {
		nczArray.Set("type_alias", nczjson.NewInt(int64(alias)))
	}
	doc.Set("_nczarr_array", nczArray)

	return c.docs.WriteDoc(ctx, m, arrayKey(v), doc)
}

// ReadArray parses V/zarr.json, filling in v's type, shape, chunks,
// fill policy, separator and filter chain. Like zarrv2, it does not
// re-resolve v's dimension references; a caller opening an unknown
// tree for the first time resolves `dimension_names`/`_nczarr_array.
// dimensions` against the group hierarchy before constructing v
// (spec.md §4.H's dimension resolution rule).
func (c *Codec) ReadArray(ctx context.Context, m ncmap.Map, v *objtree.Variable) error {
	doc, err := c.docs.ReadDoc(ctx, m, arrayKey(v))
	if err != nil {
		return err
	}

	shapeVal, ok := doc.Get("shape")
	if !ok {
		return ncerr.New(ncerr.NotZarr, "variable %q: zarr.json missing shape", v.Name())
	}
	shape, err := readUint64Array(shapeVal)
	if err != nil {
		return ncerr.Wrap(ncerr.NotZarr, err, "variable %q: invalid shape", v.Name())
	}
	v.Shape = shape
	if len(shape) == 0 && v.Rank > 0 {
		return nil
	}

	grid, ok := doc.Get("chunk_grid")
	if !ok {
		return ncerr.New(ncerr.NotZarr, "variable %q: zarr.json missing chunk_grid", v.Name())
	}
	gridCfg, ok := grid.Get("configuration")
	if !ok {
		return ncerr.New(ncerr.NotZarr, "variable %q: chunk_grid missing configuration", v.Name())
	}
	chunkShape, ok := gridCfg.Get("chunk_shape")
	if !ok {
		return ncerr.New(ncerr.NotZarr, "variable %q: chunk_grid missing chunk_shape", v.Name())
	}
	chunks, err := readUint64Array(chunkShape)
	if err != nil {
		return ncerr.Wrap(ncerr.NotZarr, err, "variable %q: invalid chunk_shape", v.Name())
	}
	if err := v.SetChunks(chunks); err != nil {
		return err
	}

	dtypeVal, ok := doc.Get("data_type")
	if !ok {
		return ncerr.New(ncerr.NotZarr, "variable %q: zarr.json missing data_type", v.Name())
	}
	dtype, err := dtypeVal.AsString()
	if err != nil {
		return err
	}
	var alias nctype.TypeAlias
	if nczArray, ok := doc.Get("_nczarr_array"); ok {
		if a, ok := nczArray.Get("type_alias"); ok {
			n, _ := a.AsInt()
			alias = nctype.TypeAlias(n)
		}
	}
	t, err := nctype.V3TypeOf(dtype, alias)
	if err != nil {
		return ncerr.Wrap(ncerr.BadType, err, "variable %q", v.Name())
	}
	v.Type = t

	v.Sep = '/'
	if encoding, ok := doc.Get("chunk_key_encoding"); ok {
		if cfg, ok := encoding.Get("configuration"); ok {
			if sepVal, ok := cfg.Get("separator"); ok {
				if sep, err := sepVal.AsString(); err == nil && len(sep) == 1 {
					v.Sep = sep[0]
				}
			}
		}
	}

	if fillVal, ok := doc.Get("fill_value"); ok && fillVal.Kind != nczjson.KindNull {
		v.Fill = objtree.FillPolicy{NoFill: false, Value: fillVal}
	} else {
		v.Fill = objtree.FillPolicy{NoFill: true}
	}
	v.InvalidateFillChunk()

	chain, endian, maxstrlen, err := c.readCodecs(doc)
	if err != nil {
		return ncerr.Wrap(ncerr.NotZarr, err, "variable %q: invalid codecs", v.Name())
	}
	v.Filters = chain
	v.Endian = endian
	if maxstrlen > 0 {
		v.MaxStrlen = maxstrlen
	}

	return nil
}

func (c *Codec) writeCodecs(v *objtree.Variable) *nczjson.Value {
	hasBytes := false
	for _, f := range v.Filters.Filters {
		if f.IsPseudoBytes() {
			hasBytes = true
			break
		}
	}
	entries := make([]*nczjson.Value, 0, len(v.Filters.Filters)+1)
	if !hasBytes {
		var visibleParams []uint32
		if iohelp.ResolveEndian(v.Endian) == nctype.Big {
			visibleParams = []uint32{1}
		} else {
			visibleParams = []uint32{0}
		}
		bytesFilter := filter.FromHDF5(c.Reg, "bytes", visibleParams)
		entries = append(entries, c.HDF2Codec(bytesFilter))
	}
	for _, f := range v.Filters.Filters {
		entries = append(entries, c.HDF2Codec(f))
	}
	return nczjson.NewArray(entries...)
}

func (c *Codec) readCodecs(doc *nczjson.Value) (filter.Chain, nctype.Endian, int, error) {
	var chain filter.Chain
	endian := nctype.Native
	codecsVal, ok := doc.Get("codecs")
	if !ok {
		return chain, endian, 0, nil
	}
	for i, e := range codecsVal.Array {
		f := c.Codec2HDF(c.Reg, e)
		f.ChainIndex = i
		chain.Filters = append(chain.Filters, f)
	}
	if s, ok := filter.BytesEndian(chain); ok {
		if s == "big" {
			endian = nctype.Big
		} else {
			endian = nctype.Little
		}
	}
	return chain, endian, 0, nil
}
