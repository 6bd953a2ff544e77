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
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/nczarr-go/nczarr/internal/ncerr"
)

// s3Client is the subset of *s3.Client this package depends on, so
// tests can supply a fake without standing up a real bucket.
type s3Client interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Map is an S3-backed Map, grounded on the teacher's table-file
// persister (the NBS on-disk table format's S3 persistence path):
// the bucket holds one object per key, keys are rooted at prefix.
type S3Map struct {
	client s3Client
	bucket string
	prefix string
}

// NewS3Map wraps an already-configured S3 client for one bucket,
// rooting every key under prefix.
func NewS3Map(client *s3.Client, bucket, prefix string) *S3Map {
	return &S3Map{client: client, bucket: bucket, prefix: strings.TrimSuffix(prefix, "/")}
}

func (s *S3Map) objKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func isNoSuchKey(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	return errors.As(err, &nf)
}

func (s *S3Map) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objKey(key)),
	})
	if isNoSuchKey(err) {
		return false, nil
	}
	if err != nil {
		return false, ncerr.Wrap(ncerr.Internal, err, "s3map: head %q", key)
	}
	return true, nil
}

func (s *S3Map) Len(ctx context.Context, key string) (uint64, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objKey(key)),
	})
	if isNoSuchKey(err) {
		return 0, ncerr.New(ncerr.EmptyObject, "key %q not found", key)
	}
	if err != nil {
		return 0, ncerr.Wrap(ncerr.Internal, err, "s3map: head %q", key)
	}
	if out.ContentLength == nil {
		return 0, nil
	}
	return uint64(*out.ContentLength), nil
}

func (s *S3Map) Read(ctx context.Context, key string, offset, count uint64) ([]byte, error) {
	rng := fmt.Sprintf("bytes=%d-%d", offset, offset+count-1)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objKey(key)),
		Range:  aws.String(rng),
	})
	if isNoSuchKey(err) {
		return nil, ncerr.New(ncerr.EmptyObject, "key %q not found", key)
	}
	if err != nil {
		return nil, ncerr.Wrap(ncerr.Internal, err, "s3map: get %q", key)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, ncerr.Wrap(ncerr.Internal, err, "s3map: read body %q", key)
	}
	return data, nil
}

func (s *S3Map) Write(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objKey(key)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return ncerr.Wrap(ncerr.Internal, err, "s3map: put %q", key)
	}
	return nil
}

func (s *S3Map) List(ctx context.Context, prefix string) ([]string, error) {
	full := s.objKey(strings.TrimSuffix(prefix, "/")) + "/"
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(full),
		Delimiter: aws.String("/"),
	})
	if err != nil {
		return nil, ncerr.Wrap(ncerr.Internal, err, "s3map: list %q", prefix)
	}
	var names []string
	for _, cp := range out.CommonPrefixes {
		if cp.Prefix == nil {
			continue
		}
		n := strings.TrimSuffix(strings.TrimPrefix(*cp.Prefix, full), "/")
		if n != "" {
			names = append(names, n)
		}
	}
	for _, obj := range out.Contents {
		if obj.Key == nil {
			continue
		}
		n := strings.TrimPrefix(*obj.Key, full)
		if n != "" {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *S3Map) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objKey(key)),
	})
	if err != nil && !isNoSuchKey(err) {
		return ncerr.Wrap(ncerr.Internal, err, "s3map: delete %q", key)
	}
	return nil
}

func (s *S3Map) Truncate(ctx context.Context, rootURL string) error {
	names, err := s.List(ctx, rootURL)
	if err != nil {
		return err
	}
	for _, n := range names {
		if err := s.Delete(ctx, rootURL+"/"+n); err != nil {
			return err
		}
	}
	return nil
}

func (s *S3Map) Close(ctx context.Context, del bool) error {
	if del {
		return s.Truncate(ctx, "")
	}
	return nil
}

func (s *S3Map) CanList() bool { return true }
