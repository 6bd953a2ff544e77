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

package attr

import (
	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
	"github.com/nczarr-go/nczarr/objtree"
)

// Container is satisfied by both *objtree.Group and *objtree.Variable,
// the two attribute-holding entities (spec section 3).
type Container interface {
	AddAttribute(a *objtree.Attribute) error
}

// SetAttribute runs raw through the full inference/encode pipeline,
// intercepts any reserved-attribute side effect, and attaches the
// resulting objtree.Attribute to container (unless the name is hidden,
// per spec section 3's "some are hidden (not stored)"). declaredType
// may be nil to request inference.
//
// This is the single entry point spec section 4.J describes as
// "storing an attribute": JSON -> typed buffer (with range checking)
// -> reserved-attribute interception -> attachment.
func SetAttribute(container Container, name string, raw *nczjson.Value, declaredType *nctype.Type) (*objtree.Attribute, error) {
	enc, err := Encode(raw, declaredType)
	if err != nil {
		return nil, err
	}

	var canonical *nczjson.Value
	if enc.IsJSONConv {
		canonical = nczjson.NewString(enc.CharText)
	} else {
		canonical, err = Decode(enc.Type, enc.Buffer, false, "")
		if err != nil {
			return nil, err
		}
	}

	a := objtree.NewAttribute(name, enc.Type, enc.Buffer.Len(), canonical)
	a.JSONConv = enc.IsJSONConv

	if v, ok := container.(*objtree.Variable); ok {
		handled, err := ApplyReserved(v, name, enc.Type, canonical)
		if err != nil {
			return nil, err
		}
		if handled && objtree.IsHidden(name) {
			return a, nil
		}
	} else if objtree.IsHidden(name) {
		return a, nil
	}

	if objtree.IsReadOnly(name) {
		return nil, ncerr.New(ncerr.Permission, "attribute %q is read-only", name)
	}

	if err := container.AddAttribute(a); err != nil {
		return nil, err
	}
	return a, nil
}

// DecodeJSONConvention recovers the original complex JSON value from
// an attribute stored under the JSON convention, the "reading with
// JSON coercion" path of spec section 8 scenario 3. It is an error to
// call this on an attribute that does not carry the convention.
func DecodeJSONConvention(a *objtree.Attribute) (*nczjson.Value, error) {
	if !a.JSONConv {
		return nil, ncerr.New(ncerr.BadType, "attribute %q does not carry the JSON convention", a.Name)
	}
	s, err := a.Values.AsString()
	if err != nil {
		return nil, err
	}
	return nczjson.Parse(s)
}
