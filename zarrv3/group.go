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
	"github.com/nczarr-go/nczarr/nczjson"
	"github.com/nczarr-go/nczarr/objtree"
)

func groupKey(g *objtree.Group) string { return joinKey(g.Path(), zarrJSONFile) }

// WriteGroup emits G/zarr.json: `{node_type:"group", zarr_format,
// attributes:{}, _nczarr_group:{dims,vars,groups}}`, plus on the root
// `_nczarr_superblock:{version,format,root:<tree>}` describing the
// whole hierarchy (spec.md §4.H).
func (c *Codec) WriteGroup(ctx context.Context, m ncmap.Map, g *objtree.Group) error {
	doc := nczjson.NewDict()
	doc.Set("node_type", nczjson.NewString("group"))
	doc.Set("zarr_format", nczjson.NewInt(ZarrFormat))
	doc.Set("attributes", nczjson.NewDict())
	doc.Set("_nczarr_group", groupSideTable(g))

	if g == g.Dataset().Root {
		superblock := nczjson.NewDict()
		superblock.Set("version", nczjson.NewString("3.0.0"))
		superblock.Set("format", nczjson.NewInt(int64(g.Dataset().NCZarrFormat)))
		superblock.Set("root", buildTreeNode(g))
		doc.Set("_nczarr_superblock", superblock)
	}

	return c.docs.WriteDoc(ctx, m, groupKey(g), doc)
}

func groupSideTable(g *objtree.Group) *nczjson.Value {
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
	out := nczjson.NewDict()
	out.Set("dims", dims)
	out.Set("vars", nczjson.NewArray(varNames...))
	out.Set("groups", nczjson.NewArray(groupNames...))
	return out
}

// buildTreeNode recursively renders g and its descendants into the
// superblock's whole-hierarchy tree (spec.md §4.H: "`root:{dimensions,
// arrays, children}` describing the entire hierarchy as a tree").
func buildTreeNode(g *objtree.Group) *nczjson.Value {
	node := nczjson.NewDict()

	dims := nczjson.NewDict()
	for _, d := range g.Dimensions() {
		dims.Set(d.Name(), nczjson.NewInt(int64(d.Length())))
	}
	node.Set("dimensions", dims)

	arrays := make([]*nczjson.Value, 0, len(g.Variables()))
	for _, v := range g.Variables() {
		arrays = append(arrays, nczjson.NewString(v.Name()))
	}
	node.Set("arrays", nczjson.NewArray(arrays...))

	children := nczjson.NewDict()
	for _, child := range g.Groups() {
		children.Set(child.Name(), buildTreeNode(child))
	}
	node.Set("children", children)

	return node
}

// ReadGroup parses G/zarr.json, preferring `_nczarr_group`'s dim/var/
// group side table; absent that (pure Zarr), it falls back to listing
// the map for child `zarr.json` keys (spec.md §4.H).
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
		if name == zarrJSONFile {
			continue
		}
		childKey := joinKey(g.Path(), name, zarrJSONFile)
		exists, _ := m.Exists(ctx, childKey)
		if !exists {
			continue
		}
		doc, err := c.docs.ReadDoc(ctx, m, childKey)
		if err != nil {
			continue
		}
		nodeType, _ := doc.Get("node_type")
		s, _ := nodeType.AsString()
		switch s {
		case "group":
			childGroups = append(childGroups, name)
		case "array":
			childVars = append(childVars, name)
		}
	}
	return childGroups, childVars, nil
}
