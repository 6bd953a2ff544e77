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

// Package nczarr is the top-level entry point projecting the netCDF-4
// data model onto Zarr object storage (spec.md §3): Create/Open a
// dataset from a URL-style spec string, build out its group/dimension/
// variable/attribute tree, and read or write chunk data through a
// per-variable cache.
package nczarr

import (
	"context"

	"github.com/nczarr-go/nczarr/attr"
	"github.com/nczarr-go/nczarr/config"
	"github.com/nczarr-go/nczarr/dispatch"
	"github.com/nczarr-go/nczarr/internal/nclog"
	"github.com/nczarr-go/nczarr/metacodec"
	"github.com/nczarr-go/nczarr/ncmap"
	"github.com/nczarr-go/nczarr/ncspec"
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
	"github.com/nczarr-go/nczarr/objtree"
)

// defaultCacheBudgetBytes bounds a variable's chunk cache when config
// supplies no explicit budget.
const defaultCacheBudgetBytes = 64 << 20

// Dataset is a single open NCZarr hierarchy: the in-memory objtree plus
// the format codec and map backend it was opened against.
type Dataset struct {
	od          *objtree.Dataset
	codec       metacodec.FormatCodec
	m           ncmap.Map
	log         *nclog.Logger
	cacheBudget int64
}

// Tree returns the underlying group/variable/dimension hierarchy.
func (ds *Dataset) Tree() *objtree.Dataset { return ds.od }

// Root returns the dataset's root group.
func (ds *Dataset) Root() *objtree.Group { return ds.od.Root }

func cacheBudget(cfg config.Defaults) int64 {
	if cfg.CacheBudgetBytes > 0 {
		return cfg.CacheBudgetBytes
	}
	return defaultCacheBudgetBytes
}

func nczarrFormatFor(f objtree.Format) int {
	if f == objtree.FormatV3 {
		return 3
	}
	return 2
}

// Create opens a brand-new dataset at rawURL (spec.md §6's spec string
// grammar), creating the backing map location if the backend supports
// it and writing the root group's metadata immediately.
func Create(ctx context.Context, rawURL string, cfg config.Defaults) (*Dataset, error) {
	spec, err := ncspec.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	m, err := spec.OpenMap(ctx)
	if err != nil {
		return nil, err
	}
	codec, format, err := dispatch.Create(spec.Mode)
	if err != nil {
		return nil, err
	}
	logger, err := nclog.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	od := objtree.NewDataset(format, nczarrFormatFor(format), nctype.Native, 0)
	od.Flags = objtree.Flags{PureZarr: spec.PureZarr, XArrayDims: spec.XArrayDims, Logging: cfg.Logging}

	ds := &Dataset{od: od, codec: codec, m: m, log: logger, cacheBudget: cacheBudget(cfg)}
	if err := ds.codec.WriteGroup(ctx, ds.m, ds.od.Root); err != nil {
		return nil, err
	}
	logger.Debugf("created dataset %q as %s", rawURL, format)
	return ds, nil
}

// Open reads an existing dataset at rawURL, populating the full group/
// variable tree by probing the root map key for its metadata dialect
// and recursing from there (spec.md §4.I).
func Open(ctx context.Context, rawURL string, cfg config.Defaults) (*Dataset, error) {
	spec, err := ncspec.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	m, err := spec.OpenMap(ctx)
	if err != nil {
		return nil, err
	}
	codec, format, err := dispatch.Open(ctx, m)
	if err != nil {
		return nil, err
	}
	logger, err := nclog.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	od := objtree.NewDataset(format, nczarrFormatFor(format), nctype.Native, 0)
	od.Flags = objtree.Flags{PureZarr: spec.PureZarr, XArrayDims: spec.XArrayDims, Logging: cfg.Logging}

	ds := &Dataset{od: od, codec: codec, m: m, log: logger, cacheBudget: cacheBudget(cfg)}
	if err := ds.openGroup(ctx, ds.od.Root); err != nil {
		return nil, err
	}
	logger.Debugf("opened dataset %q as %s", rawURL, format)
	return ds, nil
}

// openGroup populates g's dimensions, attributes, and (recursively) its
// child groups and variables from the backing map.
func (ds *Dataset) openGroup(ctx context.Context, g *objtree.Group) error {
	childGroups, childVars, err := ds.codec.ReadGroup(ctx, ds.m, g)
	if err != nil {
		return err
	}
	if err := ds.codec.ReadAttrs(ctx, ds.m, g.Path(), g); err != nil {
		return err
	}
	for _, name := range childVars {
		if err := ds.openVariable(ctx, g, name); err != nil {
			return err
		}
	}
	for _, name := range childGroups {
		child, ok := g.Group(name)
		if !ok {
			child, err = g.AddGroup(name)
			if err != nil {
				return err
			}
		}
		if err := ds.openGroup(ctx, child); err != nil {
			return err
		}
	}
	return nil
}

func (ds *Dataset) openVariable(ctx context.Context, g *objtree.Group, name string) error {
	dimRefs, err := ds.codec.ResolveArrayDims(ctx, ds.m, g, name)
	if err != nil {
		return err
	}
	v, err := g.AddVariable(name, nctype.Byte, dimRefs)
	if err != nil {
		return err
	}
	if err := ds.codec.ReadArray(ctx, ds.m, v); err != nil {
		return err
	}
	if err := ds.codec.ReadAttrs(ctx, ds.m, varPath(v), v); err != nil {
		return err
	}
	ds.wireCache(v)
	return nil
}

// Close flushes every variable's dirty chunk cache and releases the
// backing map (spec.md §3's dataset lifecycle).
func (ds *Dataset) Close(ctx context.Context) error {
	if err := ds.od.Close(ctx); err != nil {
		return err
	}
	if err := ds.log.Sync(); err != nil {
		// A logger sync failure (e.g. stdout is a closed pipe) must not
		// mask a successful flush.
		ds.log.Warnf("log sync: %v", err)
	}
	return ds.m.Close(ctx, false)
}

// AddGroup creates a child group under parent and persists its parent's
// updated child listing.
func (ds *Dataset) AddGroup(ctx context.Context, parent *objtree.Group, name string) (*objtree.Group, error) {
	g, err := parent.AddGroup(name)
	if err != nil {
		return nil, err
	}
	if err := ds.codec.WriteGroup(ctx, ds.m, parent); err != nil {
		return nil, err
	}
	if err := ds.codec.WriteGroup(ctx, ds.m, g); err != nil {
		return nil, err
	}
	return g, nil
}

// AddDimension creates a dimension scoped to g and persists g's
// metadata document.
func (ds *Dataset) AddDimension(ctx context.Context, g *objtree.Group, name string, length uint64, unlimited bool) (*objtree.Dimension, error) {
	d, err := g.AddDimension(name, length, unlimited)
	if err != nil {
		return nil, err
	}
	if err := ds.codec.WriteGroup(ctx, ds.m, g); err != nil {
		return nil, err
	}
	return d, nil
}

// AddVariable creates a variable scoped to g, sets its chunk shape, and
// persists both the variable's own array metadata and g's updated
// variable listing.
func (ds *Dataset) AddVariable(ctx context.Context, g *objtree.Group, name string, elemType nctype.Type, dimRefs []string, chunks []uint64) (*objtree.Variable, error) {
	v, err := g.AddVariable(name, elemType, dimRefs)
	if err != nil {
		return nil, err
	}
	if err := v.SetChunks(chunks); err != nil {
		return nil, err
	}
	if err := ds.codec.WriteArray(ctx, ds.m, v); err != nil {
		return nil, err
	}
	if err := ds.codec.WriteGroup(ctx, ds.m, g); err != nil {
		return nil, err
	}
	ds.wireCache(v)
	return v, nil
}

// SetAttribute runs raw through the attribute inference/encode pipeline
// (spec.md §4.J) and persists container's attribute document.
func (ds *Dataset) SetAttribute(ctx context.Context, container metacodec.AttrContainer, name string, raw *nczjson.Value, declaredType *nctype.Type) (*objtree.Attribute, error) {
	a, err := attr.SetAttribute(container.(attr.Container), name, raw, declaredType)
	if err != nil {
		return nil, err
	}
	if err := ds.codec.WriteAttrs(ctx, ds.m, attrPath(container), container); err != nil {
		return nil, err
	}
	if v, ok := container.(*objtree.Variable); ok {
		v.InvalidateFillChunk()
	}
	return a, nil
}

// attrPath returns the map key path a container's attribute document
// lives under: a group's own path, or its owning variable's directory.
func attrPath(container metacodec.AttrContainer) string {
	switch c := container.(type) {
	case *objtree.Group:
		return c.Path()
	case *objtree.Variable:
		return varPath(c)
	default:
		return ""
	}
}

func varPath(v *objtree.Variable) string {
	return joinKey(v.Owner().Path(), v.Name())
}

func joinKey(parts ...string) string {
	out := ""
	for _, p := range parts {
		for len(p) > 0 && p[0] == '/' {
			p = p[1:]
		}
		for len(p) > 0 && p[len(p)-1] == '/' {
			p = p[:len(p)-1]
		}
		if p == "" {
			continue
		}
		if out == "" {
			out = p
		} else {
			out = out + "/" + p
		}
	}
	return out
}

func readAll(ctx context.Context, m ncmap.Map, key string) ([]byte, error) {
	n, err := m.Len(ctx, key)
	if err != nil {
		return nil, err
	}
	return m.Read(ctx, key, 0, n)
}
