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
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/nczarr-go/nczarr/internal/ncerr"
)

// HTTPMap is a read-only Map over a static HTTP(S) tree (spec.md §6:
// "at least one unlistable HTTP(S) backend"). It supports only
// Exists/Len/Read; List/Write/Delete/Truncate all fail with the
// CantList/CantWrite/CantRemove sentinels.
type HTTPMap struct {
	client  *http.Client
	baseURL string
}

// NewHTTPMap roots a read-only Map at baseURL. A nil client uses
// http.DefaultClient.
func NewHTTPMap(baseURL string, client *http.Client) *HTTPMap {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPMap{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (h *HTTPMap) url(key string) string {
	return h.baseURL + "/" + strings.TrimPrefix(key, "/")
}

func (h *HTTPMap) Exists(ctx context.Context, key string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.url(key), nil)
	if err != nil {
		return false, ncerr.Wrap(ncerr.Internal, err, "httpmap: build HEAD %q", key)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return false, ncerr.Wrap(ncerr.Internal, err, "httpmap: HEAD %q", key)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode >= 300 {
		return false, ncerr.New(ncerr.Internal, "httpmap: HEAD %q: status %d", key, resp.StatusCode)
	}
	return true, nil
}

func (h *HTTPMap) Len(ctx context.Context, key string) (uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.url(key), nil)
	if err != nil {
		return 0, ncerr.Wrap(ncerr.Internal, err, "httpmap: build HEAD %q", key)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return 0, ncerr.Wrap(ncerr.Internal, err, "httpmap: HEAD %q", key)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return 0, ncerr.New(ncerr.EmptyObject, "key %q not found", key)
	}
	if resp.StatusCode >= 300 {
		return 0, ncerr.New(ncerr.Internal, "httpmap: HEAD %q: status %d", key, resp.StatusCode)
	}
	n, err := strconv.ParseUint(resp.Header.Get("Content-Length"), 10, 64)
	if err != nil {
		return 0, ncerr.Wrap(ncerr.Internal, err, "httpmap: %q missing Content-Length", key)
	}
	return n, nil
}

func (h *HTTPMap) Read(ctx context.Context, key string, offset, count uint64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url(key), nil)
	if err != nil {
		return nil, ncerr.Wrap(ncerr.Internal, err, "httpmap: build GET %q", key)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+count-1))
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, ncerr.Wrap(ncerr.Internal, err, "httpmap: GET %q", key)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ncerr.New(ncerr.EmptyObject, "key %q not found", key)
	}
	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return nil, ncerr.New(ncerr.Internal, "httpmap: GET %q: status %d", key, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ncerr.Wrap(ncerr.Internal, err, "httpmap: read body %q", key)
	}
	return data, nil
}

func (h *HTTPMap) Write(context.Context, string, []byte) error {
	return CantWrite
}

func (h *HTTPMap) List(context.Context, string) ([]string, error) {
	return nil, CantList
}

func (h *HTTPMap) Delete(context.Context, string) error {
	return CantRemove
}

func (h *HTTPMap) Truncate(context.Context, string) error {
	return CantRemove
}

func (h *HTTPMap) Close(context.Context, bool) error {
	return nil
}

func (h *HTTPMap) CanList() bool { return false }
