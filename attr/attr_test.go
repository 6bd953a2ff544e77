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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
)

func mustParse(t *testing.T, s string) *nczjson.Value {
	t.Helper()
	v, err := nczjson.Parse(s)
	require.NoError(t, err)
	return v
}

func TestInferTypeSingleString(t *testing.T) {
	v := mustParse(t, `"hello"`)
	typ, err := InferType(v)
	require.NoError(t, err)
	assert.Equal(t, nctype.Char, typ)
}

func TestInferTypeArrayOfOneCharStringsIsChar(t *testing.T) {
	v := mustParse(t, `["h","e","l","l","o"]`)
	typ, err := InferType(v)
	require.NoError(t, err)
	assert.Equal(t, nctype.Char, typ)
}

func TestInferTypeArrayOfStringsIsNCString(t *testing.T) {
	v := mustParse(t, `["hello"]`)
	typ, err := InferType(v)
	require.NoError(t, err)
	assert.Equal(t, nctype.String, typ)
}

func TestInferTypeComplexJSON(t *testing.T) {
	v := mustParse(t, `{"k":1,"v":[1,2,3]}`)
	typ, err := InferType(v)
	require.NoError(t, err)
	assert.Equal(t, nctype.JSON, typ)
}

func TestInferTypeEmptyArrayIllegal(t *testing.T) {
	v := mustParse(t, `[]`)
	_, err := InferType(v)
	assert.Error(t, err)
}

func TestInferTypeIntegerWidening(t *testing.T) {
	small := mustParse(t, `42`)
	typ, err := InferType(small)
	require.NoError(t, err)
	assert.Equal(t, nctype.Int, typ)

	big := mustParse(t, `5000000000`)
	typ, err = InferType(big)
	require.NoError(t, err)
	assert.Equal(t, nctype.Int64, typ)
}

func TestInferTypeBoolean(t *testing.T) {
	v := mustParse(t, `true`)
	typ, err := InferType(v)
	require.NoError(t, err)
	assert.Equal(t, nctype.UByte, typ)
}

func TestEncodeScenario3JSONConvention(t *testing.T) {
	v := mustParse(t, `{"k":1,"v":[1,2,3]}`)
	enc, err := Encode(v, nil)
	require.NoError(t, err)
	assert.Equal(t, nctype.Char, enc.Type)
	assert.True(t, enc.IsJSONConv)

	back, err := Decode(enc.Type, enc.Buffer, true, enc.CharText)
	require.NoError(t, err)
	got, ok := back.Get("k")
	require.True(t, ok)
	n, err := got.AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestEncodeDecodeRoundTripCharVsString(t *testing.T) {
	single := mustParse(t, `"hello"`)
	enc, err := Encode(single, nil)
	require.NoError(t, err)
	assert.Equal(t, nctype.Char, enc.Type)
	assert.Equal(t, "hello", string(enc.Buffer.Chars))

	arr := mustParse(t, `["hello"]`)
	enc2, err := Encode(arr, nil)
	require.NoError(t, err)
	assert.Equal(t, nctype.String, enc2.Type)
	assert.Equal(t, []string{"hello"}, enc2.Buffer.Strings)
}

func TestRangeCheckRejectsOutOfRange(t *testing.T) {
	err := RangeCheck(nctype.Byte, 200)
	assert.Error(t, err)

	err = RangeCheck(nctype.UByte, 200)
	assert.NoError(t, err)
}

func TestToBufferIntRangeChecks(t *testing.T) {
	v := mustParse(t, `300`)
	_, err := ToBuffer(nctype.Byte, v)
	assert.Error(t, err)
}

func TestDecodeNumericRoundTrip(t *testing.T) {
	v := mustParse(t, `[1,2,3]`)
	typ, err := InferType(v)
	require.NoError(t, err)
	buf, err := ToBuffer(typ, v)
	require.NoError(t, err)

	back, err := Decode(typ, buf, false, "")
	require.NoError(t, err)
	assert.Equal(t, nczjson.KindArray, back.Kind)
	assert.Len(t, back.Array, 3)
}
