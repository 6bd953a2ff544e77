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

package nczjson

import (
	"strconv"
	"strings"
)

// Unparse renders v as compact JSON text. Dict key order follows
// insertion order; integers render without a decimal point so that
// Parse(Unparse(v)) reproduces v's Kind exactly (spec.md §8.1).
func Unparse(v *Value) string {
	var sb strings.Builder
	writeValue(&sb, v)
	return sb.String()
}

func writeValue(sb *strings.Builder, v *Value) {
	if v == nil {
		sb.WriteString("null")
		return
	}
	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindUndef:
		sb.WriteString("null")
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case KindDouble:
		s := strconv.FormatFloat(v.Double, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		sb.WriteString(s)
	case KindBool:
		if v.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindString:
		writeString(sb, v.Str)
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.Array {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeValue(sb, e)
		}
		sb.WriteByte(']')
	case KindDict:
		sb.WriteByte('{')
		for i, e := range v.Dict {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeString(sb, e.Key)
			sb.WriteByte(':')
			writeValue(sb, e.Value)
		}
		sb.WriteByte('}')
	}
}

func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				h := strconv.FormatInt(int64(r), 16)
				sb.WriteString(`\u` + strings.Repeat("0", 4-len(h)) + h)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}
