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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHTTPServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/dataset/.zgroup", func(w http.ResponseWriter, r *http.Request) {
		body := []byte(`{"zarr_format":2}`)
		w.Header().Set("Content-Length", "17")
		if r.Method == http.MethodHead {
			return
		}
		w.Write(body)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPMapReadExistingKey(t *testing.T) {
	srv := newTestHTTPServer(t)
	m := NewHTTPMap(srv.URL, nil)

	ok, err := m.Exists(context.Background(), "dataset/.zgroup")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := m.Len(context.Background(), "dataset/.zgroup")
	require.NoError(t, err)
	assert.Equal(t, uint64(17), n)

	data, err := m.Read(context.Background(), "dataset/.zgroup", 0, 17)
	require.NoError(t, err)
	assert.Equal(t, `{"zarr_format":2}`, string(data))
}

func TestHTTPMapMissingKeyIsEmptyObject(t *testing.T) {
	srv := newTestHTTPServer(t)
	m := NewHTTPMap(srv.URL, nil)

	ok, err := m.Exists(context.Background(), "dataset/.zarray")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = m.Read(context.Background(), "dataset/.zarray", 0, 4)
	require.Error(t, err)
	assert.True(t, Empty(err))
}

func TestHTTPMapRejectsMutation(t *testing.T) {
	m := NewHTTPMap("http://example.invalid", nil)
	assert.False(t, m.CanList())

	err := m.Write(context.Background(), "k", []byte("v"))
	assert.ErrorIs(t, err, CantWrite)

	_, err = m.List(context.Background(), "")
	assert.ErrorIs(t, err, CantList)

	err = m.Delete(context.Background(), "k")
	assert.ErrorIs(t, err, CantRemove)

	err = m.Truncate(context.Background(), "")
	assert.ErrorIs(t, err, CantRemove)
}
