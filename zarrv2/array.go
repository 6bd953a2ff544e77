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

package zarrv2

import (
	"context"

	"github.com/nczarr-go/nczarr/filter"
	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/metacodec"
	"github.com/nczarr-go/nczarr/ncmap"
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
	"github.com/nczarr-go/nczarr/objtree"
)

const zarrayFile = ".zarray"

func arrayKey(v *objtree.Variable) string { return joinKey(v.Owner().Path(), v.Name(), zarrayFile) }

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
	return joinKey(g.Path(), name, zarrayFile)
}

// ResolveArrayDims reads just the dimref list from V/.zarray (or, in
// its absence, synthesizes anonymous dimensions from shape, mirroring
// zarrv3's purezarr fallback) before the caller constructs the
// Variable (spec.md §4.G's `_nczarr_array.dimrefs`).
func (c *Codec) ResolveArrayDims(ctx context.Context, m ncmap.Map, g *objtree.Group, name string) ([]string, error) {
	doc, err := c.docs.ReadDoc(ctx, m, arrayDocKey(g, name))
	if err != nil {
		return nil, err
	}

	if nczArray, ok := doc.Get("_nczarr_array"); ok {
		if dimrefs, ok := nczArray.Get("dimrefs"); ok {
			out := make([]string, len(dimrefs.Array))
			for i, e := range dimrefs.Array {
				out[i], _ = e.AsString()
			}
			return out, nil
		}
	}

	shapeVal, ok := doc.Get("shape")
	if !ok {
		return nil, ncerr.New(ncerr.NotZarr, "variable %q: .zarray missing shape", name)
	}
	shape, err := readUint64Array(shapeVal)
	if err != nil {
		return nil, err
	}
	return synthesizeDims(g, shape), nil
}

func synthesizeDims(g *objtree.Group, shape []uint64) []string {
	out := make([]string, len(shape))
	for i, n := range shape {
		dimName := anonymousDimName(n)
		d, ok := g.Dimension(dimName)
		if !ok {
			d, _ = g.AddDimension(dimName, n, false)
		}
		out[i] = objtree.MakeFQN(d)
	}
	return out
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

// WriteArray emits `.zarray`: shape, dtype, chunks, fill_value, order,
// compressor/filters, optional dimension_separator, and
// `_nczarr_array` (spec.md §4.G).
func (c *Codec) WriteArray(ctx context.Context, m ncmap.Map, v *objtree.Variable) error {
	doc := nczjson.NewDict()
	doc.Set("zarr_format", nczjson.NewInt(ZarrFormat))
	doc.Set("shape", uint64Array(v.Shape))
	doc.Set("chunks", uint64Array(v.Chunks))

	dtype, err := nctype.V2DType(v.Type, v.Endian, v.MaxStrlen)
	if err != nil {
		return ncerr.Wrap(ncerr.BadType, err, "variable %q", v.Name())
	}
	doc.Set("dtype", nczjson.NewString(dtype))
	doc.Set("order", nczjson.NewString("C"))

	if v.Fill.NoFill || v.Fill.Value == nil {
		doc.Set("fill_value", nczjson.NewNull())
	} else {
		doc.Set("fill_value", v.Fill.Value)
	}

	if v.Sep != '.' {
		doc.Set("dimension_separator", nczjson.NewString(string(v.Sep)))
	}

	c.writeFilterFields(doc, v.Filters)

	nczArray := nczjson.NewDict()
	dimrefs := make([]*nczjson.Value, len(v.DimFQNs))
	for i, fqn := range v.DimFQNs {
		dimrefs[i] = nczjson.NewString(fqn)
	}
	nczArray.Set("dimrefs", nczjson.NewArray(dimrefs...))
	if v.Rank == 0 {
		nczArray.Set("scalar", nczjson.NewBool(true))
	}
	nczArray.Set("storage", nczjson.NewString("chunked"))
	doc.Set("_nczarr_array", nczArray)

	return c.docs.WriteDoc(ctx, m, arrayKey(v), doc)
}

// ReadArray parses `.zarray`, filling in v's type, shape, chunks, fill
// policy, separator and filter chain. It does not re-resolve v's
// dimension references, which the caller establishes when it first
// constructs v (spec.md §4.G).
func (c *Codec) ReadArray(ctx context.Context, m ncmap.Map, v *objtree.Variable) error {
	doc, err := c.docs.ReadDoc(ctx, m, arrayKey(v))
	if err != nil {
		return err
	}

	shapeVal, ok := doc.Get("shape")
	if !ok {
		return ncerr.New(ncerr.NotZarr, "variable %q: .zarray missing shape", v.Name())
	}
	shape, err := readUint64Array(shapeVal)
	if err != nil {
		return ncerr.Wrap(ncerr.NotZarr, err, "variable %q: invalid shape", v.Name())
	}
	v.Shape = shape

	if len(shape) == 0 && v.Rank > 0 {
		// Empty shape suppresses the variable rather than erroring
		// (spec.md §8 boundary behavior); nothing further to parse.
		return nil
	}

	chunksVal, ok := doc.Get("chunks")
	if !ok {
		return ncerr.New(ncerr.NotZarr, "variable %q: .zarray missing chunks", v.Name())
	}
	chunks, err := readUint64Array(chunksVal)
	if err != nil {
		return ncerr.Wrap(ncerr.NotZarr, err, "variable %q: invalid chunks", v.Name())
	}
	if err := v.SetChunks(chunks); err != nil {
		return err
	}

	dtypeVal, ok := doc.Get("dtype")
	if !ok {
		return ncerr.New(ncerr.NotZarr, "variable %q: .zarray missing dtype", v.Name())
	}
	dtype, err := dtypeVal.AsString()
	if err != nil {
		return err
	}
	t, endian, maxstrlen, err := nctype.V2TypeOf(dtype)
	if err != nil {
		return ncerr.Wrap(ncerr.BadType, err, "variable %q", v.Name())
	}
	v.Type = t
	v.Endian = endian
	v.MaxStrlen = maxstrlen

	if orderVal, ok := doc.Get("order"); ok {
		order, _ := orderVal.AsString()
		if order != "C" {
			return ncerr.New(ncerr.BadType, "variable %q: unsupported order %q", v.Name(), order)
		}
	}

	v.Sep = '.'
	if sepVal, ok := doc.Get("dimension_separator"); ok {
		sep, _ := sepVal.AsString()
		if sep == "." || sep == "/" {
			v.Sep = sep[0]
		}
		// Any other separator value leaves the V2 default '.' in place;
		// it is neither an error nor logged (spec.md §9 open question).
	}

	if fillVal, ok := doc.Get("fill_value"); ok && fillVal.Kind != nczjson.KindNull {
		v.Fill = objtree.FillPolicy{NoFill: false, Value: fillVal}
	} else {
		v.Fill = objtree.FillPolicy{NoFill: true}
	}
	v.InvalidateFillChunk()

	chain, err := c.readFilterFields(doc)
	if err != nil {
		return err
	}
	v.Filters = chain

	return nil
}

func (c *Codec) writeFilterFields(doc *nczjson.Value, chain filter.Chain) {
	n := len(chain.Filters)
	if n == 0 {
		doc.Set("compressor", nczjson.NewNull())
		doc.Set("filters", nczjson.NewNull())
		return
	}
	filtersArr := make([]*nczjson.Value, 0, n-1)
	for i := 0; i < n-1; i++ {
		filtersArr = append(filtersArr, c.HDF2Codec(chain.Filters[i]))
	}
	if len(filtersArr) == 0 {
		doc.Set("filters", nczjson.NewNull())
	} else {
		doc.Set("filters", nczjson.NewArray(filtersArr...))
	}
	doc.Set("compressor", c.HDF2Codec(chain.Filters[n-1]))
}

func (c *Codec) readFilterFields(doc *nczjson.Value) (filter.Chain, error) {
	var chain filter.Chain
	if filtersVal, ok := doc.Get("filters"); ok && filtersVal.Kind == nczjson.KindArray {
		for _, f := range filtersVal.Array {
			chain.Filters = append(chain.Filters, c.Codec2HDF(c.Reg, f))
		}
	}
	if compVal, ok := doc.Get("compressor"); ok && compVal.Kind != nczjson.KindNull {
		chain.Filters = append(chain.Filters, c.Codec2HDF(c.Reg, compVal))
	}
	for i := range chain.Filters {
		chain.Filters[i].ChainIndex = i
	}
	return chain, nil
}
