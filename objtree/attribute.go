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

package objtree

import (
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
)

// reservedAttrs names attributes carrying special meaning rather than
// ordinary user data (spec section 3's Attribute entity). Hidden
// attributes are never stored as an ordinary attribute; read-only
// attributes may be read but not written through the normal attribute
// API.
var reservedAttrs = map[string]struct {
	hidden   bool
	readOnly bool
}{
	"_FillValue":                  {},
	"_ARRAY_DIMENSIONS":           {},
	"_NCProperties":               {hidden: true},
	"_nczarr_maxstrlen":           {hidden: true},
	"_nczarr_default_maxstrlen":   {hidden: true},
	"_Codecs":                     {readOnly: true},
	"_Filters":                    {readOnly: true},
	"_QuantizeBitGroom":           {},
	"_QuantizeGranularBR":         {},
	"_QuantizeBitRound":           {},
}

// IsReserved reports whether name carries NCZarr-reserved meaning.
func IsReserved(name string) bool {
	_, ok := reservedAttrs[name]
	return ok
}

// IsHidden reports whether a reserved attribute is never persisted as
// an ordinary attribute entry (it is instead folded into the owning
// object's own metadata document fields).
func IsHidden(name string) bool {
	return reservedAttrs[name].hidden
}

// IsReadOnly reports whether a reserved attribute may be read but
// rejects ordinary writes.
func IsReadOnly(name string) bool {
	return reservedAttrs[name].readOnly
}

// Attribute is (name, nctype, length, values) attached to a group or
// variable (spec section 3's Attribute entity).
type Attribute struct {
	Name   string
	Type   nctype.Type
	Length int
	Values *nczjson.Value

	// JSONConv marks an attribute stored under the JSON convention
	// (spec section 4.J rule 2): Values holds the stringified JSON
	// under NC_CHAR semantics for the default read path, while the
	// original complex value is only recovered by re-parsing it.
	JSONConv bool

	container object
}

// NewAttribute builds a detached attribute; attach it to a group or
// variable via their AddAttribute method.
func NewAttribute(name string, t nctype.Type, length int, values *nczjson.Value) *Attribute {
	return &Attribute{Name: name, Type: t, Length: length, Values: values}
}

func (a *Attribute) ObjectID() uint64   { return 0 }
func (a *Attribute) ObjectName() string { return a.Name }
func (a *Attribute) ObjectSort() Sort   { return SortAtt }
func (a *Attribute) ObjectParent() *Group {
	if a.container == nil {
		return nil
	}
	if g, ok := a.container.(*Group); ok {
		return g
	}
	if v, ok := a.container.(*Variable); ok {
		return v.owner
	}
	return nil
}

// Container returns the group or variable this attribute is attached
// to, as a *Group or *Variable, or nil if detached.
func (a *Attribute) Container() interface{} {
	return a.container
}
