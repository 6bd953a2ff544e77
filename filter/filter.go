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

// Package filter implements the ordered filter/codec chain attached to a
// variable (spec.md §4.E): translation between the HDF5-style binary
// filter form and the Zarr JSON codec form, and application of the chain
// to chunk bytes on encode (write) and decode (read).
package filter

import (
	"github.com/nczarr-go/nczarr/codec"
	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/nczjson"
)

// Flags records what is known/present about one chain entry.
type Flags struct {
	VisibleDefined bool
	WorkingDefined bool
	NativePresent  bool
	Incomplete     bool
}

// Filter is one entry of a variable's filter chain.
type Filter struct {
	HDF5ID        string
	VisibleParams []uint32
	WorkingParams []uint32
	CodecID       string
	CodecJSON     *nczjson.Value
	Flags         Flags
	ChainIndex    int

	plugin codec.Plugin
}

// transcoder is the subset of codec.Plugin implementations that can
// actually transform chunk bytes (snappy and zstd satisfy it; the pseudo
// bytes codec does not, since its only effect is the endian swap the
// caller performs via iohelp, and the chain skips it).
type transcoder interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// Chain is an ordered list of Filters applied left-to-right on encode and
// right-to-left on decode.
type Chain struct {
	Filters []Filter
}

// FromHDF5 builds a chain entry from an HDF5 filter id + visible params,
// looking the plugin up in reg. If no plugin is registered, the entry is
// retained in INCOMPLETE state so its id/params are not lost on
// round-trip (spec.md §4.D/§4.E).
func FromHDF5(reg *codec.Registry, hdf5ID string, visibleParams []uint32) Filter {
	f := Filter{HDF5ID: hdf5ID, VisibleParams: visibleParams, Flags: Flags{VisibleDefined: len(visibleParams) > 0}}
	p, ok := reg.Lookup(hdf5ID)
	if !ok {
		f.Flags.Incomplete = true
		return f
	}
	f.Flags.NativePresent = true
	f.plugin = p
	codecJSON, err := p.HDF5ToCodec(visibleParams)
	if err != nil {
		f.Flags.Incomplete = true
		return f
	}
	f.CodecID = p.ID()
	f.CodecJSON = codecJSON
	return f
}

// FromCodecJSON builds a chain entry from a Zarr codec JSON entry
// (`{"name": ..., "configuration": {...}}` for V3, or `{"id": ...}` for
// V2 compressor/filters dicts). If no plugin matches, the filter is
// retained INCOMPLETE with the codec JSON preserved verbatim.
func FromCodecJSON(reg *codec.Registry, codecJSON *nczjson.Value) Filter {
	idVal, ok := codecJSON.Get("name")
	if !ok {
		idVal, ok = codecJSON.Get("id")
	}
	id := ""
	if ok {
		id, _ = idVal.AsString()
	}
	f := Filter{CodecID: id, CodecJSON: codecJSON}
	p, lookupOK := reg.Lookup(id)
	if !lookupOK {
		f.Flags.Incomplete = true
		return f
	}
	f.Flags.NativePresent = true
	f.plugin = p
	params, err := p.CodecToHDF5(codecJSON)
	if err != nil {
		f.Flags.Incomplete = true
		return f
	}
	f.HDF5ID = id
	f.WorkingParams = params
	f.Flags.WorkingDefined = len(params) > 0
	return f
}

// ToCodecJSON renders f back to its Zarr JSON form, verbatim when
// incomplete (preserving whatever was originally read), freshly derived
// from the plugin otherwise.
func (f Filter) ToCodecJSON() *nczjson.Value {
	if f.Flags.Incomplete || f.plugin == nil {
		return f.CodecJSON
	}
	v, err := f.plugin.HDF5ToCodec(f.VisibleParams)
	if err != nil {
		return f.CodecJSON
	}
	return v
}

// IsPseudoBytes reports whether f is the V3 mandatory "bytes" pseudo-filter.
func (f Filter) IsPseudoBytes() bool { return f.CodecID == "bytes" }

// Suppressed reports whether the chain renders its owning variable
// inaccessible for data I/O (spec.md §4.E): any incomplete non-pseudo
// filter is fatal; more than one pseudo-bytes entry is also fatal; and
// a variable-width type (fixedSize false) carrying any non-bytes
// filter is fatal, since compressing/transforming variable-length
// elements breaks the per-element framing those types rely on.
func (c Chain) Suppressed(fixedSize bool) bool {
	pseudoCount := 0
	nonBytes := false
	for _, f := range c.Filters {
		if f.IsPseudoBytes() {
			pseudoCount++
			continue
		}
		nonBytes = true
		if f.Flags.Incomplete {
			return true
		}
	}
	if !fixedSize && nonBytes {
		return true
	}
	return pseudoCount > 1
}

// Encode runs the chain forward (write path) over input, skipping the
// pseudo-bytes entry (handled separately by the I/O glue layer's
// endianness swap, not by a registered transform).
func (c Chain) Encode(input []byte) ([]byte, error) {
	data := input
	for _, f := range c.Filters {
		if f.IsPseudoBytes() {
			continue
		}
		if f.Flags.Incomplete {
			return nil, ncerr.New(ncerr.Filter, "cannot encode: filter %q has no matching plugin", f.HDF5ID)
		}
		tc, ok := f.plugin.(transcoder)
		if !ok {
			return nil, ncerr.New(ncerr.Filter, "plugin %q does not implement data transform", f.CodecID)
		}
		var err error
		data, err = tc.Encode(data)
		if err != nil {
			return nil, ncerr.Wrap(ncerr.Filter, err, "filter %q encode failed", f.CodecID)
		}
	}
	return data, nil
}

// Decode runs the chain in reverse (read path) over input.
func (c Chain) Decode(input []byte) ([]byte, error) {
	data := input
	for i := len(c.Filters) - 1; i >= 0; i-- {
		f := c.Filters[i]
		if f.IsPseudoBytes() {
			continue
		}
		if f.Flags.Incomplete {
			return nil, ncerr.New(ncerr.Filter, "cannot decode: filter %q has no matching plugin", f.HDF5ID)
		}
		tc, ok := f.plugin.(transcoder)
		if !ok {
			return nil, ncerr.New(ncerr.Filter, "plugin %q does not implement data transform", f.CodecID)
		}
		var err error
		data, err = tc.Decode(data)
		if err != nil {
			return nil, ncerr.Wrap(ncerr.Filter, err, "filter %q decode failed", f.CodecID)
		}
	}
	return data, nil
}

// BytesEndian returns the endian configuration of the chain's pseudo
// bytes entry, or ("", false) if the chain has none (a V2 chain, or a
// purezarr V3 array missing the mandatory entry — callers should treat
// the latter as an error at read time).
func BytesEndian(c Chain) (string, bool) {
	for _, f := range c.Filters {
		if f.IsPseudoBytes() && f.CodecJSON != nil {
			cfg, ok := f.CodecJSON.Get("configuration")
			if !ok {
				return "", false
			}
			e, ok := cfg.Get("endian")
			if !ok {
				return "", false
			}
			s, err := e.AsString()
			if err != nil {
				return "", false
			}
			return s, true
		}
	}
	return "", false
}
