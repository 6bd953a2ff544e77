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

// Package objtree is the in-memory mirror of the on-disk group/variable/
// dimension/attribute hierarchy. Dimensions are referenced from variables
// by numeric id, resolved through the owning group, so the group,
// variable and dimension types never hold direct pointers to each other
// in a cycle; FQN strings exist purely for persistence and external
// lookup.
package objtree

import (
	"sync"
	"sync/atomic"

	"github.com/nczarr-go/nczarr/codec"
	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/nctype"
)

// Flags holds the per-dataset behavioral switches from spec section 3.
type Flags struct {
	PureZarr   bool
	XArrayDims bool
	ShowFetch  bool
	Logging    bool
}

// Format names the on-disk metadata dialect a Dataset was opened with.
type Format int

const (
	FormatV2 Format = iota
	FormatV3
)

func (f Format) String() string {
	if f == FormatV3 {
		return "V3"
	}
	return "V2"
}

// Dataset is a single logical Zarr hierarchy rooted at a map key
// (spec section 3's Dataset entity). It owns every Group, Variable,
// Dimension and Attribute transitively reachable from Root.
type Dataset struct {
	mu sync.RWMutex

	Format           Format
	NCZarrFormat     int // 0 = plain zarr, 2 or 3
	Endian           nctype.Endian
	DefaultMaxStrlen int
	Flags            Flags
	Codecs           *codec.Registry

	Root *Group

	nextID uint64
	lookup *fqnCache
}

// NewDataset creates an empty dataset with a root group named "/".
// Writing to it requires NCZarrFormat >= 2 (the format pair is fixed
// once a dataset is opened).
func NewDataset(format Format, nczarrFormat int, endian nctype.Endian, defaultMaxStrlen int) *Dataset {
	ds := &Dataset{
		Format:           format,
		NCZarrFormat:     nczarrFormat,
		Endian:           endian,
		DefaultMaxStrlen: defaultMaxStrlen,
		Codecs:           codec.Default(),
		lookup:           newFQNCache(),
	}
	ds.Root = newGroup(ds, nil, "/")
	ds.lookup.put(ds.Root)
	return ds
}

func (ds *Dataset) allocID() uint64 {
	return atomic.AddUint64(&ds.nextID, 1)
}

// object is implemented by every addressable tree entity, giving the
// FQN machinery a uniform id/name/parent view regardless of sort.
type object interface {
	ObjectID() uint64
	ObjectName() string
	ObjectSort() Sort
	ObjectParent() *Group
}

// Sort distinguishes the five namespaces an FQN's final segment may
// resolve into.
type Sort int

const (
	SortGroup Sort = iota
	SortVar
	SortDim
	SortAtt
	SortType
)

func (s Sort) String() string {
	switch s {
	case SortGroup:
		return "group"
	case SortVar:
		return "var"
	case SortDim:
		return "dim"
	case SortAtt:
		return "att"
	case SortType:
		return "type"
	default:
		return "unknown"
	}
}

// Group is a named tree node holding ordered child groups, variables,
// dimensions and attributes (spec section 3's Group entity). Names are
// unique within each of those four namespaces, independently.
type Group struct {
	id     uint64
	name   string
	ds     *Dataset
	parent *Group
	path   string

	groups    []*Group
	groupIdx  map[string]*Group
	vars      []*Variable
	varIdx    map[string]*Variable
	dims      []*Dimension
	dimIdx    map[string]*Dimension
	atts      []*Attribute
	attIdx    map[string]*Attribute
}

func newGroup(ds *Dataset, parent *Group, name string) *Group {
	g := &Group{
		id:       ds.allocID(),
		name:     name,
		ds:       ds,
		parent:   parent,
		groupIdx: make(map[string]*Group),
		varIdx:   make(map[string]*Variable),
		dimIdx:   make(map[string]*Dimension),
		attIdx:   make(map[string]*Attribute),
	}
	if parent == nil {
		g.path = "/"
	} else if parent.path == "/" {
		g.path = "/" + name
	} else {
		g.path = parent.path + "/" + name
	}
	return g
}

func (g *Group) ObjectID() uint64      { return g.id }
func (g *Group) ObjectName() string    { return g.name }
func (g *Group) ObjectSort() Sort      { return SortGroup }
func (g *Group) ObjectParent() *Group  { return g.parent }

// Name returns the group's simple (unescaped) name.
func (g *Group) Name() string { return g.name }

// Path returns the group's full, unescaped key path.
func (g *Group) Path() string { return g.path }

// Dataset returns the owning dataset.
func (g *Group) Dataset() *Dataset { return g.ds }

// Groups returns the ordered list of child groups.
func (g *Group) Groups() []*Group { return g.groups }

// Variables returns the ordered list of variables in this group.
func (g *Group) Variables() []*Variable { return g.vars }

// Dimensions returns the ordered list of dimensions scoped to this group.
func (g *Group) Dimensions() []*Dimension { return g.dims }

// Attributes returns the ordered list of attributes on this group.
func (g *Group) Attributes() []*Attribute { return g.atts }

// AddGroup creates and links a new child group named name, which must
// be valid per ValidateName and unique among sibling groups.
func (g *Group) AddGroup(name string) (*Group, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if _, exists := g.groupIdx[name]; exists {
		return nil, ncerr.New(ncerr.NameInUse, "group %q already exists in %q", name, g.path)
	}
	child := newGroup(g.ds, g, name)
	g.groups = append(g.groups, child)
	g.groupIdx[name] = child
	g.ds.lookup.put(child)
	return child, nil
}

// Group looks up an immediate child group by simple name.
func (g *Group) Group(name string) (*Group, bool) {
	child, ok := g.groupIdx[name]
	return child, ok
}

// AddDimension creates a dimension scoped to this group.
func (g *Group) AddDimension(name string, length uint64, unlimited bool) (*Dimension, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if _, exists := g.dimIdx[name]; exists {
		return nil, ncerr.New(ncerr.NameInUse, "dimension %q already exists in %q", name, g.path)
	}
	d := &Dimension{
		id:        g.ds.allocID(),
		name:      name,
		length:    length,
		unlimited: unlimited,
		owner:     g,
	}
	g.dims = append(g.dims, d)
	g.dimIdx[name] = d
	g.ds.lookup.put(d)
	return d, nil
}

// Dimension looks up a dimension scoped directly to this group by
// simple name.
func (g *Group) Dimension(name string) (*Dimension, bool) {
	d, ok := g.dimIdx[name]
	return d, ok
}

// DimensionByID resolves a dimension owned by this group by numeric id,
// the weak-reference path variables use to honor dimension refs
// without holding a direct pointer cycle.
func (g *Group) DimensionByID(id uint64) (*Dimension, bool) {
	for _, d := range g.dims {
		if d.id == id {
			return d, true
		}
	}
	return nil, false
}

// AddVariable creates a variable scoped to this group. dimRefs names
// dimensions by FQN, resolved eagerly and stored by numeric id; the
// variable itself never holds a pointer back to its dimensions.
func (g *Group) AddVariable(name string, elemType nctype.Type, dimRefs []string) (*Variable, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if _, exists := g.varIdx[name]; exists {
		return nil, ncerr.New(ncerr.NameInUse, "variable %q already exists in %q", name, g.path)
	}
	shape := make([]uint64, len(dimRefs))
	dimIDs := make([]uint64, len(dimRefs))
	dimFQNs := make([]string, len(dimRefs))
	if len(dimRefs) == 0 {
		// Scalar variables carry shape [1] internally (spec section 3),
		// distinct from the "empty shape on a non-scalar" suppression
		// case Variable.Suppressed checks for.
		shape = []uint64{1}
	}
	for i, ref := range dimRefs {
		d, err := LocateFQN(g, ref, SortDim)
		if err != nil {
			return nil, ncerr.Wrap(ncerr.BadDim, err, "variable %q: resolving dim ref %q", name, ref)
		}
		dim := d.(*Dimension)
		dimIDs[i] = dim.id
		dimFQNs[i] = MakeFQN(dim)
		shape[i] = dim.length
	}
	v := &Variable{
		id:       g.ds.allocID(),
		name:     name,
		owner:    g,
		Type:     elemType,
		Rank:     len(dimRefs),
		Shape:    shape,
		DimIDs:   dimIDs,
		DimFQNs:  dimFQNs,
		Sep:      defaultSep(g.ds.Format),
		Endian:   g.ds.Endian,
		Storage:  StorageChunked,
	}
	g.vars = append(g.vars, v)
	g.varIdx[name] = v
	g.ds.lookup.put(v)
	return v, nil
}

// Variable looks up a variable scoped directly to this group by simple
// name.
func (g *Group) Variable(name string) (*Variable, bool) {
	v, ok := g.varIdx[name]
	return v, ok
}

// AddAttribute attaches an attribute to this group (see Variable's
// AddAttribute for the variable-as-container case; both funnel through
// the attr package's inference rules at a higher layer).
func (g *Group) AddAttribute(a *Attribute) error {
	if _, exists := g.attIdx[a.Name]; exists {
		return ncerr.New(ncerr.NameInUse, "attribute %q already exists on group %q", a.Name, g.path)
	}
	a.container = g
	g.atts = append(g.atts, a)
	g.attIdx[a.Name] = a
	return nil
}

// Attribute looks up an attribute attached to this group by name.
func (g *Group) Attribute(name string) (*Attribute, bool) {
	a, ok := g.attIdx[name]
	return a, ok
}

func defaultSep(f Format) byte {
	if f == FormatV3 {
		return '/'
	}
	return '.'
}
