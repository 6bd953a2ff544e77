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
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
)

// Encoded is the result of running an attribute value through the
// full raw-json -> typed -> char-encoded -> complex-json pipeline.
type Encoded struct {
	Type       nctype.Type
	Buffer     *Buffer
	IsJSONConv bool   // true if this attribute carries the JSON-convention tag
	CharText   string // the stringified JSON when IsJSONConv is true
}

// Encode runs declaredType (or, if nil, a freshly inferred type)
// through the pipeline and returns the typed buffer ready for
// persistence. Complex JSON values are rerouted through the
// JSON-convention: stored as NC_CHAR carrying the stringified JSON,
// per spec section 4.J rule 2 and section 8 scenario 3.
func Encode(v *nczjson.Value, declaredType *nctype.Type) (*Encoded, error) {
	var t nctype.Type
	if declaredType != nil {
		t = *declaredType
	} else {
		inferred, err := InferType(v)
		if err != nil {
			return nil, err
		}
		t = inferred
	}

	if t == nctype.JSON {
		text := nczjson.Unparse(v)
		return &Encoded{
			Type:       nctype.Char,
			Buffer:     &Buffer{Type: nctype.Char, Chars: []byte(text)},
			IsJSONConv: true,
			CharText:   text,
		}, nil
	}

	buf, err := ToBuffer(t, v)
	if err != nil {
		return nil, err
	}
	return &Encoded{Type: t, Buffer: buf}, nil
}

// Decode reconstructs an nczjson.Value from a stored typed buffer,
// the inverse of Encode's non-JSON-convention path. If isJSONConv is
// true, charText is parsed back into the original JSON structure
// instead (spec section 8 scenario 3: "reading with JSON coercion
// returns the original dict").
func Decode(t nctype.Type, buf *Buffer, isJSONConv bool, charText string) (*nczjson.Value, error) {
	if isJSONConv {
		return nczjson.Parse(charText)
	}
	switch t {
	case nctype.Char:
		return nczjson.NewString(string(buf.Chars)), nil
	case nctype.String:
		if len(buf.Strings) == 1 {
			return nczjson.NewString(buf.Strings[0]), nil
		}
		vals := make([]*nczjson.Value, len(buf.Strings))
		for i, s := range buf.Strings {
			vals[i] = nczjson.NewString(s)
		}
		return nczjson.NewArray(vals...), nil
	case nctype.Double:
		return decodeNumeric(buf.Doubles, func(d float64) *nczjson.Value { return nczjson.NewDouble(d) })
	default:
		if signedType(t) {
			return decodeNumeric(buf.Ints, func(n int64) *nczjson.Value { return nczjson.NewInt(n) })
		}
		return decodeNumeric(buf.UInts, func(n uint64) *nczjson.Value { return nczjson.NewInt(int64(n)) })
	}
}

func decodeNumeric[T any](vals []T, toValue func(T) *nczjson.Value) (*nczjson.Value, error) {
	if len(vals) == 1 {
		return toValue(vals[0]), nil
	}
	out := make([]*nczjson.Value, len(vals))
	for i, v := range vals {
		out[i] = toValue(v)
	}
	return nczjson.NewArray(out...), nil
}
