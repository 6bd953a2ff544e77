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

// Package attr implements the attribute value type-inference state
// machine: raw-json -> typed -> char-encoded -> complex-json. Each
// transition is a pure function over an nczjson.Value; nothing here
// touches storage.
package attr

import (
	"math"

	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
)

// State names a stage of the attribute value pipeline.
type State int

const (
	StateRawJSON State = iota
	StateTyped
	StateCharEncoded
	StateComplexJSON
)

// InferType chooses an nctype for v when none was declared, following
// spec section 4.J's rules in order:
//
//  1. an empty or null JSON array is illegal;
//  2. complex JSON (a dict, or an array with any non-atomic element)
//     becomes NC_JSON;
//  3. otherwise the single value or homogeneous array of atomic values
//     is typed by its Go kind, with integers widened to the smallest
//     signed/unsigned type that fits and single-character-string
//     arrays folding to NC_CHAR rather than NC_STRING.
func InferType(v *nczjson.Value) (nctype.Type, error) {
	if v == nil || v.Kind == nczjson.KindNull || v.Kind == nczjson.KindUndef {
		return 0, ncerr.New(ncerr.BadType, "attribute value is null or undefined")
	}
	if v.Kind == nczjson.KindArray && len(v.Array) == 0 {
		return 0, ncerr.New(ncerr.BadType, "attribute value is an empty array")
	}
	if v.IsComplex() {
		return nctype.JSON, nil
	}
	if v.Kind != nczjson.KindArray {
		if v.Kind == nczjson.KindString {
			// A single JSON string is a sequence of characters, not an
			// NC_STRING scalar (spec section 4.J rule 3).
			return nctype.Char, nil
		}
		return inferAtomicType(v)
	}

	// Homogeneous array of atomic values.
	allOneCharStrings := true
	var widest nctype.Type
	haveWidest := false
	for _, elem := range v.Array {
		if elem.Kind != nczjson.KindString || len(elem.Str) != 1 {
			allOneCharStrings = false
		}
		t, err := inferAtomicType(elem)
		if err != nil {
			return 0, err
		}
		if !haveWidest {
			widest = t
			haveWidest = true
			continue
		}
		widest = widenNumeric(widest, t)
	}
	if allOneCharStrings && v.Array[0].Kind == nczjson.KindString {
		return nctype.Char, nil
	}
	if widest == nctype.String {
		return nctype.String, nil
	}
	return widest, nil
}

func inferAtomicType(v *nczjson.Value) (nctype.Type, error) {
	switch v.Kind {
	case nczjson.KindInt:
		return smallestIntType(v.Int), nil
	case nczjson.KindDouble:
		return nctype.Double, nil
	case nczjson.KindBool:
		return nctype.UByte, nil
	case nczjson.KindString:
		return nctype.String, nil
	default:
		return 0, ncerr.New(ncerr.BadType, "attribute value of kind %v is not atomic", v.Kind)
	}
}

// smallestIntType picks the narrowest signed/unsigned 32- or 64-bit
// integer type that represents n exactly, per spec section 4.J rule 3.
func smallestIntType(n int64) nctype.Type {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return nctype.Int
	}
	if n >= 0 && n <= math.MaxUint32 {
		return nctype.UInt
	}
	return nctype.Int64
}

// widenNumeric promotes two inferred element types to the type that
// fits both, used when scanning a mixed-numeric-width array; per
// spec section 8's "mixed numeric widths promotes to the widest
// fitting signed/unsigned type" boundary behavior.
func widenNumeric(a, b nctype.Type) nctype.Type {
	if a == b {
		return a
	}
	rank := func(t nctype.Type) int {
		switch t {
		case nctype.Int:
			return 0
		case nctype.UInt:
			return 1
		case nctype.Int64:
			return 2
		case nctype.UInt64:
			return 3
		case nctype.Double:
			return 4
		case nctype.UByte:
			return -1
		default:
			return 5
		}
	}
	ra, rb := rank(a), rank(b)
	if ra < 0 || rb < 0 {
		// a bool mixed with a number is not a coherent scalar family;
		// fall back to the non-bool side, or UByte if both are bools.
		if ra < 0 && rb < 0 {
			return nctype.UByte
		}
		if ra < 0 {
			return b
		}
		return a
	}
	if ra > rb {
		return a
	}
	return b
}
