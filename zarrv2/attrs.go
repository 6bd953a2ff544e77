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

	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/metacodec"
	"github.com/nczarr-go/nczarr/ncmap"
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
	"github.com/nczarr-go/nczarr/objtree"
)

const zattrsFile = ".zattrs"

func attrsKey(path string) string { return joinKey(path, zattrsFile) }

// attrValueLength recovers the element count .zattrs itself doesn't
// persist: a string's byte length, an array's element count, or 1 for
// a bare scalar.
func attrValueLength(v *nczjson.Value) int {
	switch v.Kind {
	case nczjson.KindArray:
		return len(v.Array)
	case nczjson.KindString:
		return len(v.Str)
	default:
		return 1
	}
}

// WriteAttrs emits `.zattrs` as a flat name->value dict, alongside an
// `_nczarr_attrs.types` side table mapping each name to its V2 dtype
// string; a JSON-convention attribute's type decodes to nctype.JSON's
// own "|J0" spelling, so no separate marker is needed (spec.md §4.G;
// §4.J rule 2).
func (c *Codec) WriteAttrs(ctx context.Context, m ncmap.Map, path string, container metacodec.AttrContainer) error {
	atts := container.Attributes()
	if len(atts) == 0 {
		return nil
	}

	doc := nczjson.NewDict()
	types := nczjson.NewDict()
	for _, a := range atts {
		doc.Set(a.Name, a.Values)
		t := a.Type
		if a.JSONConv {
			t = nctype.JSON
		}
		dtype, err := nctype.V2DType(t, nctype.Native, a.Length)
		if err != nil {
			return ncerr.Wrap(ncerr.BadType, err, "attribute %q", a.Name)
		}
		types.Set(a.Name, nczjson.NewString(dtype))
	}

	nczAttrs := nczjson.NewDict()
	nczAttrs.Set("types", types)
	doc.Set("_nczarr_attrs", nczAttrs)

	return c.docs.WriteDoc(ctx, m, attrsKey(path), doc)
}

// ReadAttrs is the inverse of WriteAttrs, reconstructing each
// objtree.Attribute with its JSONConv flag set when the side table
// records the "|J0" dtype.
func (c *Codec) ReadAttrs(ctx context.Context, m ncmap.Map, path string, container metacodec.AttrContainer) error {
	key := attrsKey(path)
	exists, err := m.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	doc, err := c.docs.ReadDoc(ctx, m, key)
	if err != nil {
		return err
	}

	types := nczjson.NewDict()
	if nczAttrs, ok := doc.Get("_nczarr_attrs"); ok {
		if t, ok := nczAttrs.Get("types"); ok {
			types = t
		}
	}

	for _, entry := range doc.Dict {
		if entry.Key == "_nczarr_attrs" {
			continue
		}
		a := objtree.NewAttribute(entry.Key, nctype.Char, attrValueLength(entry.Value), entry.Value)
		if dtypeVal, ok := types.Get(entry.Key); ok {
			if dtype, err := dtypeVal.AsString(); err == nil {
				if t, _, _, err := nctype.V2TypeOf(dtype); err == nil {
					a.Type = t
					if t == nctype.JSON {
						a.JSONConv = true
					}
				}
			}
		}
		if err := container.AddAttribute(a); err != nil {
			return err
		}
	}
	return nil
}
