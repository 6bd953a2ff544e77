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
	"context"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/nczarr-go/nczarr/internal/ncerr"
)

// GCSMap is a Google Cloud Storage-backed Map, grounded on the teacher's
// GCSBlobstore (store/blobstore/blobstore_test.go's appendGCSTest):
// objects are addressed as prefix + key within one bucket.
type GCSMap struct {
	bucket *storage.BucketHandle
	prefix string
}

// NewGCSMap wraps an already-opened bucket handle, rooting every key
// under prefix.
func NewGCSMap(bucket *storage.BucketHandle, prefix string) *GCSMap {
	return &GCSMap{bucket: bucket, prefix: strings.TrimSuffix(prefix, "/")}
}

func (g *GCSMap) objName(key string) string {
	if g.prefix == "" {
		return key
	}
	return g.prefix + "/" + key
}

func (g *GCSMap) Exists(ctx context.Context, key string) (bool, error) {
	_, err := g.bucket.Object(g.objName(key)).Attrs(ctx)
	if err == storage.ErrObjectNotExist {
		return false, nil
	}
	if err != nil {
		return false, ncerr.Wrap(ncerr.Internal, err, "gcsmap: stat %q", key)
	}
	return true, nil
}

func (g *GCSMap) Len(ctx context.Context, key string) (uint64, error) {
	attrs, err := g.bucket.Object(g.objName(key)).Attrs(ctx)
	if err == storage.ErrObjectNotExist {
		return 0, ncerr.New(ncerr.EmptyObject, "key %q not found", key)
	}
	if err != nil {
		return 0, ncerr.Wrap(ncerr.Internal, err, "gcsmap: stat %q", key)
	}
	return uint64(attrs.Size), nil
}

func (g *GCSMap) Read(ctx context.Context, key string, offset, count uint64) ([]byte, error) {
	r, err := g.bucket.Object(g.objName(key)).NewRangeReader(ctx, int64(offset), int64(count))
	if err == storage.ErrObjectNotExist {
		return nil, ncerr.New(ncerr.EmptyObject, "key %q not found", key)
	}
	if err != nil {
		return nil, ncerr.Wrap(ncerr.Internal, err, "gcsmap: open %q", key)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ncerr.Wrap(ncerr.Internal, err, "gcsmap: read %q", key)
	}
	return data, nil
}

func (g *GCSMap) Write(ctx context.Context, key string, data []byte) error {
	w := g.bucket.Object(g.objName(key)).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return ncerr.Wrap(ncerr.Internal, err, "gcsmap: write %q", key)
	}
	if err := w.Close(); err != nil {
		return ncerr.Wrap(ncerr.Internal, err, "gcsmap: finalize write %q", key)
	}
	return nil
}

func (g *GCSMap) List(ctx context.Context, prefix string) ([]string, error) {
	full := g.objName(strings.TrimSuffix(prefix, "/")) + "/"
	it := g.bucket.Objects(ctx, &storage.Query{Prefix: full, Delimiter: "/"})
	var out []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, ncerr.Wrap(ncerr.Internal, err, "gcsmap: list %q", prefix)
		}
		name := attrs.Prefix
		if name == "" {
			name = attrs.Name
		}
		name = strings.TrimPrefix(name, full)
		name = strings.TrimSuffix(name, "/")
		if name != "" {
			out = append(out, name)
		}
	}
	return out, nil
}

func (g *GCSMap) Delete(ctx context.Context, key string) error {
	err := g.bucket.Object(g.objName(key)).Delete(ctx)
	if err != nil && err != storage.ErrObjectNotExist {
		return ncerr.Wrap(ncerr.Internal, err, "gcsmap: delete %q", key)
	}
	return nil
}

func (g *GCSMap) Truncate(ctx context.Context, rootURL string) error {
	names, err := g.List(ctx, rootURL)
	if err != nil {
		return err
	}
	for _, n := range names {
		if err := g.Delete(ctx, rootURL+"/"+n); err != nil {
			return err
		}
	}
	return nil
}

func (g *GCSMap) Close(ctx context.Context, del bool) error {
	if del {
		return g.Truncate(ctx, "")
	}
	return nil
}

func (g *GCSMap) CanList() bool { return true }
