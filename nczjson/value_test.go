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

package nczjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAtomic(t *testing.T) {
	assert := assert.New(t)

	v, err := Parse("42")
	require.NoError(t, err)
	assert.Equal(KindInt, v.Kind)
	assert.Equal(int64(42), v.Int)

	v, err = Parse("42.5")
	require.NoError(t, err)
	assert.Equal(KindDouble, v.Kind)

	v, err = Parse(`"hello"`)
	require.NoError(t, err)
	assert.Equal("hello", v.Str)

	v, err = Parse("true")
	require.NoError(t, err)
	assert.True(v.Bool)

	v, err = Parse("null")
	require.NoError(t, err)
	assert.Equal(KindNull, v.Kind)
}

func TestParseArrayAndDict(t *testing.T) {
	assert := assert.New(t)

	v, err := Parse(`{"a":1,"b":[1,2,3],"c":{"d":true}}`)
	require.NoError(t, err)
	assert.Equal(KindDict, v.Kind)

	a, ok := v.Get("a")
	require.True(t, ok)
	assert.Equal(int64(1), a.Int)

	b, ok := v.Get("b")
	require.True(t, ok)
	assert.Len(b.Array, 3)

	// Dict preserves insertion order.
	assert.Equal("a", v.Dict[0].Key)
	assert.Equal("b", v.Dict[1].Key)
	assert.Equal("c", v.Dict[2].Key)
}

func TestRoundTripIntVsDouble(t *testing.T) {
	assert := assert.New(t)

	cases := []string{"0", "-1", "123456789", "3.14", "-2.5e10", "0.0"}
	for _, c := range cases {
		v, err := Parse(c)
		require.NoError(t, err)
		out, err := Parse(Unparse(v))
		require.NoError(t, err)
		assert.Equal(v.Kind, out.Kind, "kind mismatch for %q", c)
	}
}

func TestRoundTripPreservesDictOrder(t *testing.T) {
	assert := assert.New(t)

	v, err := Parse(`{"z":1,"a":2}`)
	require.NoError(t, err)
	rt, err := Parse(Unparse(v))
	require.NoError(t, err)

	// Order is preserved through the round trip, since Unparse walks
	// Dict in insertion order.
	assert.Equal(v.Dict[0].Key, rt.Dict[0].Key)
	assert.Equal(v.Dict[1].Key, rt.Dict[1].Key)
}

func TestIsComplex(t *testing.T) {
	assert := assert.New(t)

	v, _ := Parse(`{"k":1}`)
	assert.True(v.IsComplex())

	v, _ = Parse(`[1,2,3]`)
	assert.False(v.IsComplex())

	v, _ = Parse(`[1,[2,3]]`)
	assert.True(v.IsComplex())

	v, _ = Parse(`"hello"`)
	assert.False(v.IsComplex())
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("")
	assert.Error(err)

	_, err = Parse("{")
	assert.Error(err)

	_, err = Parse(`{"a":}`)
	assert.Error(err)

	_, err = Parse("[1,2")
	assert.Error(err)

	_, err = Parse("tru")
	assert.Error(err)
}

func TestSetReplacesInPlace(t *testing.T) {
	assert := assert.New(t)

	v := NewDict()
	v.Set("a", NewInt(1))
	v.Set("b", NewInt(2))
	v.Set("a", NewInt(99))

	assert.Len(v.Dict, 2)
	assert.Equal("a", v.Dict[0].Key)
	got, _ := v.Get("a")
	assert.Equal(int64(99), got.Int)
}

func TestAsFloatCoercesIntButNotString(t *testing.T) {
	assert := assert.New(t)

	f, err := NewInt(3).AsFloat()
	assert.NoError(err)
	assert.Equal(3.0, f)

	f, err = NewDouble(2.5).AsFloat()
	assert.NoError(err)
	assert.Equal(2.5, f)

	_, err = NewString("x").AsFloat()
	assert.Error(err)
}
