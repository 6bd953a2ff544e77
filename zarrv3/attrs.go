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

	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/metacodec"
	"github.com/nczarr-go/nczarr/ncmap"
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
	"github.com/nczarr-go/nczarr/objtree"
)

func docKeyForPath(path string) string { return joinKey(path, zarrJSONFile) }

// WriteAttrs rewrites path's zarr.json, replacing its `attributes`
// dict and `_nczarr_attrs.attribute_types` list in place: V3 carries
// attributes embedded in the same document as group/array metadata
// rather than a sibling file, unlike V2's separate `.zattrs` (spec.md
// §4.H).
func (c *Codec) WriteAttrs(ctx context.Context, m ncmap.Map, path string, container metacodec.AttrContainer) error {
	key := docKeyForPath(path)
	doc, err := c.docs.ReadDoc(ctx, m, key)
	if err != nil {
		return ncerr.Wrap(ncerr.Internal, err, "cannot write attrs: %q has no metadata document yet", path)
	}

	atts := container.Attributes()
	attrsDict := nczjson.NewDict()
	types := make([]*nczjson.Value, 0, len(atts))
	for _, a := range atts {
		attrsDict.Set(a.Name, a.Values)
		t := a.Type
		if a.JSONConv {
			t = nctype.JSON
		}
		bits := a.Length * 8
		name, alias, err := nctype.V3DataType(t, bits)
		if err != nil {
			return ncerr.Wrap(ncerr.BadType, err, "attribute %q", a.Name)
		}
		entry := nczjson.NewDict()
		entry.Set("name", nczjson.NewString(a.Name))
		cfg := nczjson.NewDict()
		cfg.Set("type", nczjson.NewString(name))
		if alias != nctype.NoAlias {
			cfg.Set("alias", nczjson.NewInt(int64(alias)))
		}
		entry.Set("configuration", cfg)
		types = append(types, entry)
	}
	doc.Set("attributes", attrsDict)

	nczAttrs := nczjson.NewDict()
	nczAttrs.Set("attribute_types", nczjson.NewArray(types...))
	doc.Set("_nczarr_attrs", nczAttrs)

	return c.docs.WriteDoc(ctx, m, key, doc)
}

// ReadAttrs is the inverse of WriteAttrs.
func (c *Codec) ReadAttrs(ctx context.Context, m ncmap.Map, path string, container metacodec.AttrContainer) error {
	key := docKeyForPath(path)
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

	type typeEntry struct {
		name  string
		alias nctype.TypeAlias
	}
	types := map[string]typeEntry{}
	if nczAttrs, ok := doc.Get("_nczarr_attrs"); ok {
		if list, ok := nczAttrs.Get("attribute_types"); ok {
			for _, e := range list.Array {
				nameVal, ok := e.Get("name")
				if !ok {
					continue
				}
				name, _ := nameVal.AsString()
				if cfg, ok := e.Get("configuration"); ok {
					te := typeEntry{}
					if t, ok := cfg.Get("type"); ok {
						te.name, _ = t.AsString()
					}
					if al, ok := cfg.Get("alias"); ok {
						n, _ := al.AsInt()
						te.alias = nctype.TypeAlias(n)
					}
					types[name] = te
				}
			}
		}
	}

	attrsDict, ok := doc.Get("attributes")
	if !ok {
		return nil
	}
	for _, entry := range attrsDict.Dict {
		a := objtree.NewAttribute(entry.Key, nctype.Char, attrValueLength(entry.Value), entry.Value)
		if te, ok := types[entry.Key]; ok {
			if t, err := nctype.V3TypeOf(te.name, te.alias); err == nil {
				a.Type = t
				if t == nctype.JSON {
					a.JSONConv = true
				}
			}
		}
		if err := container.AddAttribute(a); err != nil {
			return err
		}
	}
	return nil
}

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
