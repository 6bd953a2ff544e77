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

package ncspec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nczarr-go/nczarr/dispatch"
	"github.com/nczarr-go/nczarr/internal/ncerr"
)

func TestParseFileModeFragment(t *testing.T) {
	s, err := Parse("file:///tmp/t.nczarr#mode=nczarr,v2")
	require.NoError(t, err)
	assert.Equal(t, "file", s.Protocol)
	assert.Equal(t, "tmp/t.nczarr", s.Path)
	assert.False(t, s.PureZarr)
	assert.Equal(t, dispatch.ModePureZarrV2, s.Mode)
}

func TestParsePureZarrXArrayFragment(t *testing.T) {
	s, err := Parse("mem://anything#mode=zarr,xarray,v3")
	require.NoError(t, err)
	assert.True(t, s.PureZarr)
	assert.True(t, s.XArrayDims)
	assert.Equal(t, dispatch.ModePureZarrV3, s.Mode)
}

func TestParseNoFragmentDefaultsAuto(t *testing.T) {
	s, err := Parse("mem://anything")
	require.NoError(t, err)
	assert.Equal(t, dispatch.ModeAuto, s.Mode)
	assert.False(t, s.PureZarr)
	assert.False(t, s.XArrayDims)
}

func TestParseRejectsUnknownToken(t *testing.T) {
	_, err := Parse("mem://x#mode=bogus")
	require.Error(t, err)
	assert.Equal(t, ncerr.BadName, ncerr.KindOf(err))
}

func TestParseRejectsUnsupportedProtocol(t *testing.T) {
	_, err := Parse("ftp://x/y")
	require.Error(t, err)
	assert.Equal(t, ncerr.BadName, ncerr.KindOf(err))
}

func TestOpenMapMem(t *testing.T) {
	s, err := Parse("mem://anything")
	require.NoError(t, err)
	m, err := s.OpenMap(context.Background())
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestS3AndGCSBucketAndPrefix(t *testing.T) {
	s, err := Parse("s3://my-bucket/path/to/ds")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", s.Host)
	assert.Equal(t, "path/to/ds", s.Path)
}
