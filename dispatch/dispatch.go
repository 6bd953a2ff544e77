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

// Package dispatch probes a root map key to decide which metadata
// codec a dataset speaks (spec.md §4.I): Zarr V3 if `zarr.json` is
// present, Zarr V2 if `.zgroup` is present, otherwise NOTZARR. The
// C-style dispatch table of function pointers the original design
// describes collapses into a single metacodec.FormatCodec interface
// value (spec.md §9) rather than a struct of function fields.
package dispatch

import (
	"context"

	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/metacodec"
	"github.com/nczarr-go/nczarr/ncmap"
	"github.com/nczarr-go/nczarr/objtree"
	"github.com/nczarr-go/nczarr/zarrv2"
	"github.com/nczarr-go/nczarr/zarrv3"
)

const (
	zarrJSON = "zarr.json"
	zgroup   = ".zgroup"
)

// Mode forces format selection for a create (write) path, where no
// existing metadata exists yet to probe.
type Mode int

const (
	// ModeAuto lets Create pick its default format, Zarr V3.
	ModeAuto Mode = iota
	// ModePureZarrV2 forces Zarr V2 on create, ignoring any probe.
	ModePureZarrV2
	// ModePureZarrV3 forces Zarr V3 on create, ignoring any probe.
	ModePureZarrV3
)

// Open probes m's root key and returns the FormatCodec and
// objtree.Format the dataset speaks. It never mutates m.
func Open(ctx context.Context, m ncmap.Map) (metacodec.FormatCodec, objtree.Format, error) {
	hasV3, err := m.Exists(ctx, zarrJSON)
	if err != nil {
		return nil, 0, err
	}
	if hasV3 {
		return zarrv3.New(), objtree.FormatV3, nil
	}

	hasV2, err := m.Exists(ctx, zgroup)
	if err != nil {
		return nil, 0, err
	}
	if hasV2 {
		return zarrv2.New(), objtree.FormatV2, nil
	}

	return nil, 0, ncerr.New(ncerr.NotZarr, "root key carries neither %q nor %q", zarrJSON, zgroup)
}

// Create selects the FormatCodec a brand-new dataset should write,
// honoring an explicit mode rather than probing an empty map.
func Create(mode Mode) (metacodec.FormatCodec, objtree.Format, error) {
	switch mode {
	case ModePureZarrV2:
		return zarrv2.New(), objtree.FormatV2, nil
	case ModePureZarrV3, ModeAuto:
		return zarrv3.New(), objtree.FormatV3, nil
	default:
		return nil, 0, ncerr.New(ncerr.Internal, "dispatch: unrecognized create mode %d", mode)
	}
}
