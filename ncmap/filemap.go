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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/nczarr-go/nczarr/internal/ncerr"
)

// FileMap is a local-filesystem-backed Map, grounded on the teacher's
// LocalBlobstore (store/blobstore/blobstore_test.go's NewLocalBlobstore):
// writes land in a uuid-suffixed temp file in the same directory and are
// renamed into place, so a reader never observes a partially written
// value.
type FileMap struct {
	root string
}

// NewFileMap roots a Map at dir, creating it if necessary.
func NewFileMap(dir string) (*FileMap, error) {
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return nil, ncerr.Wrap(ncerr.Internal, err, "filemap: create root %q", dir)
	}
	return &FileMap{root: dir}, nil
}

func (f *FileMap) path(key string) string {
	return filepath.Join(f.root, filepath.FromSlash(key))
}

func (f *FileMap) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(f.path(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, ncerr.Wrap(ncerr.Internal, err, "filemap: stat %q", key)
}

func (f *FileMap) Len(_ context.Context, key string) (uint64, error) {
	fi, err := os.Stat(f.path(key))
	if os.IsNotExist(err) {
		return 0, ncerr.New(ncerr.EmptyObject, "key %q not found", key)
	}
	if err != nil {
		return 0, ncerr.Wrap(ncerr.Internal, err, "filemap: stat %q", key)
	}
	return uint64(fi.Size()), nil
}

func (f *FileMap) Read(_ context.Context, key string, offset, count uint64) ([]byte, error) {
	fh, err := os.Open(f.path(key))
	if os.IsNotExist(err) {
		return nil, ncerr.New(ncerr.EmptyObject, "key %q not found", key)
	}
	if err != nil {
		return nil, ncerr.Wrap(ncerr.Internal, err, "filemap: open %q", key)
	}
	defer fh.Close()

	if _, err := fh.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, ncerr.Wrap(ncerr.Internal, err, "filemap: seek %q", key)
	}
	buf := make([]byte, count)
	n, err := io.ReadFull(fh, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, ncerr.Wrap(ncerr.Internal, err, "filemap: read %q", key)
	}
	return buf[:n], nil
}

func (f *FileMap) Write(_ context.Context, key string, data []byte) error {
	dst := f.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o777); err != nil {
		return ncerr.Wrap(ncerr.Internal, err, "filemap: mkdir for %q", key)
	}
	tmp := dst + "." + uuid.New().String() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o666); err != nil {
		return ncerr.Wrap(ncerr.Internal, err, "filemap: write temp for %q", key)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return ncerr.Wrap(ncerr.Internal, err, "filemap: rename into place %q", key)
	}
	return nil
}

func (f *FileMap) List(_ context.Context, prefix string) ([]string, error) {
	dir := f.path(prefix)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, ncerr.Wrap(ncerr.Internal, err, "filemap: list %q", prefix)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".tmp") {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (f *FileMap) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return ncerr.Wrap(ncerr.Internal, err, "filemap: delete %q", key)
	}
	return nil
}

func (f *FileMap) Truncate(_ context.Context, rootURL string) error {
	if err := os.RemoveAll(f.path(rootURL)); err != nil {
		return ncerr.Wrap(ncerr.Internal, err, "filemap: truncate %q", rootURL)
	}
	return os.MkdirAll(f.path(rootURL), 0o777)
}

func (f *FileMap) Close(_ context.Context, del bool) error {
	if del {
		return os.RemoveAll(f.root)
	}
	return nil
}

func (f *FileMap) CanList() bool { return true }
