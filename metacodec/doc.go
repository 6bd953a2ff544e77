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

package metacodec

import (
	"context"

	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/ncmap"
	"github.com/nczarr-go/nczarr/nczjson"
)

// ReadDoc reads key in full and parses it as a single nczjson
// document. A parse failure is reported as NotZarr (spec.md §4.B:
// "All metadata JSON is required to be well-formed; parse failure
// implies NOTZARR"); a missing key is reported as whatever
// ncmap.Map.Read itself returns (ncerr.EmptyObject).
func ReadDoc(ctx context.Context, m ncmap.Map, key string) (*nczjson.Value, error) {
	n, err := m.Len(ctx, key)
	if err != nil {
		return nil, err
	}
	buf, err := m.Read(ctx, key, 0, n)
	if err != nil {
		return nil, err
	}
	v, err := nczjson.Parse(string(buf))
	if err != nil {
		return nil, ncerr.Wrap(ncerr.NotZarr, err, "key %q is not well-formed JSON", key)
	}
	return v, nil
}

// WriteDoc renders v as compact JSON and writes it under key.
func WriteDoc(ctx context.Context, m ncmap.Map, key string, v *nczjson.Value) error {
	return m.Write(ctx, key, []byte(nczjson.Unparse(v)))
}
