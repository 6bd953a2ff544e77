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
	"github.com/nczarr-go/nczarr/nczjson"
	"github.com/nczarr-go/nczarr/objtree"
)

const zgroupFile = ".zgroup"

func groupKey(g *objtree.Group) string { return joinKey(g.Path(), zgroupFile) }

// WriteGroup emits `.zgroup`: `{zarr_format, _nczarr_group: {dims, vars,
// groups}}`, plus `_nczarr_superblock` on the root (spec.md §4.G).
func (c *Codec) WriteGroup(ctx context.Context, m ncmap.Map, g *objtree.Group) error {
	doc := nczjson.NewDict()
	doc.Set("zarr_format", nczjson.NewInt(ZarrFormat))

	dims := nczjson.NewDict()
	for _, d := range g.Dimensions() {
		if d.Unlimited() {
			entry := nczjson.NewDict()
			entry.Set("size", nczjson.NewInt(int64(d.Length())))
			entry.Set("unlimited", nczjson.NewBool(true))
			dims.Set(d.Name(), entry)
		} else {
			dims.Set(d.Name(), nczjson.NewInt(int64(d.Length())))
		}
	}

	varNames := make([]*nczjson.Value, 0, len(g.Variables()))
	for _, v := range g.Variables() {
		varNames = append(varNames, nczjson.NewString(v.Name()))
	}
	groupNames := make([]*nczjson.Value, 0, len(g.Groups()))
	for _, child := range g.Groups() {
		groupNames = append(groupNames, nczjson.NewString(child.Name()))
	}

	nczGroup := nczjson.NewDict()
	nczGroup.Set("dims", dims)
	nczGroup.Set("vars", nczjson.NewArray(varNames...))
	nczGroup.Set("groups", nczjson.NewArray(groupNames...))
	doc.Set("_nczarr_group", nczGroup)

	if g == g.Dataset().Root {
		superblock := nczjson.NewDict()
		superblock.Set("version", nczjson.NewString("2.0.0"))
		superblock.Set("format", nczjson.NewInt(int64(g.Dataset().NCZarrFormat)))
		doc.Set("_nczarr_superblock", superblock)
	}

	return c.docs.WriteDoc(ctx, m, groupKey(g), doc)
}

// ReadGroup parses `.zgroup`, preferring `_nczarr_group`'s authoritative
// dim/var/group lists; absent that (pure Zarr), it falls back to
// listing the map for `.zgroup`/`.zarray` children (spec.md §4.G).
func (c *Codec) ReadGroup(ctx context.Context, m ncmap.Map, g *objtree.Group) (childGroups, childVars []string, err error) {
	key := groupKey(g)
	exists, err := m.Exists(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		if !g.Dataset().Flags.PureZarr {
			return nil, nil, ncerr.New(ncerr.NotZarr, "missing %q and pure-zarr inference not enabled", key)
		}
		return c.inferGroupByListing(ctx, m, g)
	}

	doc, err := c.docs.ReadDoc(ctx, m, key)
	if err != nil {
		return nil, nil, err
	}

	nczGroup, hasNCZ := doc.Get("_nczarr_group")
	if !hasNCZ {
		return c.inferGroupByListing(ctx, m, g)
	}

	if dims, ok := nczGroup.Get("dims"); ok {
		for _, entry := range dims.Dict {
			if _, exists := g.Dimension(entry.Key); exists {
				continue
			}
			var size uint64
			var unlimited bool
			if entry.Value.Kind == nczjson.KindDict {
				if sz, ok := entry.Value.Get("size"); ok {
					n, _ := sz.AsInt()
					size = uint64(n)
				}
				if ul, ok := entry.Value.Get("unlimited"); ok {
					unlimited = ul.Bool
				}
			} else {
				n, _ := entry.Value.AsInt()
				size = uint64(n)
			}
			if _, err := g.AddDimension(entry.Key, size, unlimited); err != nil {
				return nil, nil, err
			}
		}
	}

	if vars, ok := nczGroup.Get("vars"); ok {
		for _, e := range vars.Array {
			s, _ := e.AsString()
			childVars = append(childVars, s)
		}
	}
	if groups, ok := nczGroup.Get("groups"); ok {
		for _, e := range groups.Array {
			s, _ := e.AsString()
			childGroups = append(childGroups, s)
		}
	}
	return childGroups, childVars, nil
}

func (c *Codec) inferGroupByListing(ctx context.Context, m ncmap.Map, g *objtree.Group) (childGroups, childVars []string, err error) {
	names, err := m.List(ctx, g.Path())
	if err != nil {
		return nil, nil, ncerr.Wrap(ncerr.NotZarr, err, "cannot infer group %q contents: map is unlistable", g.Path())
	}
	for _, name := range names {
		switch {
		case name == zgroupFile || name == zarrayFile || name == zattrsFile:
			continue
		}
		isGroup, _ := m.Exists(ctx, joinKey(g.Path(), name, zgroupFile))
		if isGroup {
			childGroups = append(childGroups, name)
			continue
		}
		isVar, _ := m.Exists(ctx, joinKey(g.Path(), name, zarrayFile))
		if isVar {
			childVars = append(childVars, name)
		}
	}
	return childGroups, childVars, nil
}
