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

package iohelp

import (
	"unsafe"

	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/nctype"
)

// HostEndian is the running process's native byte order, detected
// once at package init.
var HostEndian = detectHostEndian()

func detectHostEndian() nctype.Endian {
	var probe uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&probe))
	if b[0] == 1 {
		return nctype.Little
	}
	return nctype.Big
}

// ResolveEndian rewrites nctype.Native to the host's concrete
// endianness. Per spec section 9's open-question resolution, V3's
// `bytes` codec always carries a concrete endian even when the
// variable's declared endianness is native; V2's dtype string leaves
// native as-is (callers decide per format).
func ResolveEndian(e nctype.Endian) nctype.Endian {
	if e == nctype.Native {
		return HostEndian
	}
	return e
}

// SwapBytes reverses every elemSize-byte group of buf in place.
// elemSize must be 1, 2, 4, or 8 and evenly divide len(buf).
func SwapBytes(buf []byte, elemSize int) error {
	switch elemSize {
	case 1:
		return nil
	case 2, 4, 8:
	default:
		return ncerr.New(ncerr.Internal, "swapbytes: unsupported element size %d", elemSize)
	}
	if len(buf)%elemSize != 0 {
		return ncerr.New(ncerr.Internal, "swapbytes: buffer length %d not a multiple of element size %d", len(buf), elemSize)
	}
	for off := 0; off < len(buf); off += elemSize {
		lo, hi := off, off+elemSize-1
		for lo < hi {
			buf[lo], buf[hi] = buf[hi], buf[lo]
			lo++
			hi--
		}
	}
	return nil
}

// MaybeSwap swaps buf's elemSize-byte groups in place if fileEndian
// differs from the host's native order, leaving buf untouched
// otherwise. fileEndian must already be concrete (see ResolveEndian).
func MaybeSwap(buf []byte, elemSize int, fileEndian nctype.Endian) error {
	if fileEndian == nctype.Native {
		return ncerr.New(ncerr.Internal, "maybeswap: fileEndian must be resolved to little/big, not native")
	}
	if fileEndian == HostEndian {
		return nil
	}
	return SwapBytes(buf, elemSize)
}
