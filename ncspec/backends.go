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
	"net/http"
	"sync"

	"cloud.google.com/go/storage"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/ncmap"
)

// memMaps holds the process-wide mem:// backing stores, keyed by
// host+path, so that repeated opens of the same mem:// URL (a Create
// followed by a later Open, as a real backend's durability would give
// you) see the same data instead of each getting a fresh empty map.
var memMaps sync.Map // string -> *ncmap.MemMap

// openMemMap returns the shared in-process MemMap for s's host/path,
// creating it the first time that name is seen.
func openMemMap(s *Spec) ncmap.Map {
	key := s.Host + "/" + s.Path
	actual, _ := memMaps.LoadOrStore(key, ncmap.NewMemMap())
	return actual.(*ncmap.MemMap)
}

// openGCSMap dials a GCS client using application-default credentials
// and roots a Map at s.Host (the bucket) / s.Path (the key prefix).
func openGCSMap(ctx context.Context, s *Spec) (ncmap.Map, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, ncerr.Wrap(ncerr.Internal, err, "ncspec: dialing gcs")
	}
	bucket := client.Bucket(s.Host)
	return ncmap.NewGCSMap(bucket, s.Path), nil
}

// openS3Map resolves the default AWS config (environment, shared
// config file, or instance role, in that order) and roots a Map at
// s.Host (the bucket) / s.Path (the key prefix).
func openS3Map(ctx context.Context, s *Spec) (ncmap.Map, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, ncerr.Wrap(ncerr.Internal, err, "ncspec: loading aws config")
	}
	client := s3.NewFromConfig(cfg)
	return ncmap.NewS3Map(client, s.Host, s.Path), nil
}

// openHTTPMap rebuilds the dataset's base URL (protocol + host + path,
// fragment dropped) and wraps it with the default HTTP client.
func openHTTPMap(s *Spec) (ncmap.Map, error) {
	base := s.Protocol + "://" + s.Host + "/" + s.Path
	return ncmap.NewHTTPMap(base, http.DefaultClient), nil
}
