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

// ApplyReserved intercepts writes to reserved attribute names that
// have a side effect beyond ordinary storage. It reports handled=true
// when name was one of those; callers should still store the
// attribute normally afterward unless objtree.IsHidden(name).
//
// Currently only _FillValue has a side effect: it updates the
// variable's fill policy and invalidates any cached canonical fill
// chunk, per spec section 4.J ("_FillValue both sets the attribute
// and updates variable fill value, invalidating the cached fill
// chunk").
func ApplyReserved(v *objtree.Variable, name string, t nctype.Type, value *nczjson.Value) (handled bool, err error) {
	if !objtree.IsReserved(name) {
		return false, nil
	}
	switch name {
	case "_FillValue":
		if err := RangeCheckValue(t, value); err != nil {
			return true, ncerr.Wrap(ncerr.Range, err, "_FillValue out of range for variable type")
		}
		v.Fill = objtree.FillPolicy{NoFill: false, Value: value}
		v.InvalidateFillChunk()
		return true, nil
	default:
		return true, nil
	}
}

// RangeCheckValue range-checks every numeric element of value against
// t, used by ApplyReserved and available to callers validating a
// typed attribute value directly.
func RangeCheckValue(t nctype.Type, value *nczjson.Value) error {
	switch t {
	case nctype.Char, nctype.String, nctype.Double, nctype.JSON:
		return nil
	}
	for _, e := range elements(value) {
		if e.Kind != nczjson.KindInt {
			continue
		}
		if err := RangeCheck(t, e.Int); err != nil {
			return err
		}
	}
	return nil
}
