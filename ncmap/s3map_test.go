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

package ncmap

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is an in-memory stand-in for the s3Client interface, enough
// to exercise S3Map's key-prefixing and error-translation logic
// without a live bucket.
type fakeS3 struct {
	objects map[string][]byte
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	n := int64(len(data))
	return &s3.HeadObjectOutput{ContentLength: &n}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	prefix := aws.ToString(in.Prefix)
	seen := map[string]bool{}
	var out s3.ListObjectsV2Output
	for k := range f.objects {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := k[len(prefix):]
		if i := strings.Index(rest, "/"); i >= 0 {
			cp := prefix + rest[:i+1]
			if !seen[cp] {
				seen[cp] = true
				out.CommonPrefixes = append(out.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(cp)})
			}
			continue
		}
		key := k
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
	}
	return &out, nil
}

func newTestS3Map() *S3Map {
	return &S3Map{client: newFakeS3(), bucket: "test-bucket", prefix: "root"}
}

func TestS3MapWriteReadRoundTrip(t *testing.T) {
	m := newTestS3Map()
	ctx := context.Background()

	require.NoError(t, m.Write(ctx, "a/b.txt", []byte("hello")))

	ok, err := m.Exists(ctx, "a/b.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := m.Len(ctx, "a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), n)

	data, err := m.Read(ctx, "a/b.txt", 0, 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestS3MapMissingKeyIsEmptyObject(t *testing.T) {
	m := newTestS3Map()
	ctx := context.Background()

	ok, err := m.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = m.Len(ctx, "missing")
	require.Error(t, err)
	assert.True(t, Empty(err))

	_, err = m.Read(ctx, "missing", 0, 1)
	require.Error(t, err)
	assert.True(t, Empty(err))
}

func TestS3MapListAndDelete(t *testing.T) {
	m := newTestS3Map()
	ctx := context.Background()

	require.NoError(t, m.Write(ctx, "grp/.zgroup", []byte("{}")))
	require.NoError(t, m.Write(ctx, "grp/var/.zarray", []byte("{}")))

	names, err := m.List(ctx, "grp")
	require.NoError(t, err)
	sort.Strings(names)
	assert.Equal(t, []string{".zgroup", "var"}, names)

	require.NoError(t, m.Delete(ctx, "grp/.zgroup"))
	ok, err := m.Exists(ctx, "grp/.zgroup")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3MapTruncate(t *testing.T) {
	m := newTestS3Map()
	ctx := context.Background()

	require.NoError(t, m.Write(ctx, "ds/a", []byte("1")))
	require.NoError(t, m.Write(ctx, "ds/b", []byte("2")))

	require.NoError(t, m.Truncate(ctx, "ds"))

	names, err := m.List(ctx, "ds")
	require.NoError(t, err)
	assert.Empty(t, names)
}
