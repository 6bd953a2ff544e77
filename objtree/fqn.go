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

package objtree

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nczarr-go/nczarr/internal/cacheindex"
	"github.com/nczarr-go/nczarr/internal/ncerr"
)

const escapeChars = `\/.@`

// EscapeName backslash-escapes the characters that are meaningful in
// an FQN (`\`, `/`, `.`, `@`) so a simple name can be embedded as one
// path segment.
func EscapeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(escapeChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UnescapeName reverses EscapeName on one already-split path segment.
func UnescapeName(seg string) string {
	var b strings.Builder
	escaped := false
	for _, r := range seg {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SplitFQN splits path on unescaped '/', returning still-escaped
// segments (pass each through UnescapeName once split). Empty segments
// (from a leading or doubled separator) are dropped.
func SplitFQN(path string) []string {
	var segs []string
	var cur strings.Builder
	escaped := false
	for _, r := range path {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '/':
			segs = append(segs, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	segs = append(segs, cur.String())

	out := segs[:0]
	for _, s := range segs {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ValidateName enforces the Unicode-safe identifier rule: a name must
// be non-empty, free of NUL bytes, and already in Unicode NFC
// normal form (callers normalize before calling, so two names that
// render identically never silently collide under different
// encodings).
func ValidateName(name string) error {
	if name == "" {
		return ncerr.New(ncerr.BadName, "name must not be empty")
	}
	if strings.ContainsRune(name, 0) {
		return ncerr.New(ncerr.BadName, "name %q contains a NUL byte", name)
	}
	if normalized := norm.NFC.String(name); normalized != name {
		return ncerr.New(ncerr.BadName, "name %q is not in Unicode NFC normal form", name)
	}
	return nil
}

func segments(o object) []string {
	parent := o.ObjectParent()
	if parent == nil {
		return nil
	}
	return append(segments(parent), EscapeName(o.ObjectName()))
}

// MakeFQN builds the fully-qualified, escaped path identifying o from
// the dataset root.
func MakeFQN(o object) string {
	segs := segments(o)
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

// LocateFQN resolves fqn to the object of the given sort, reachable
// either from start (a relative path) or from start's dataset root
// (an absolute path beginning with '/'). It is the left inverse of
// MakeFQN: LocateFQN(g, MakeFQN(o), o.ObjectSort()) == o for every
// object o reachable from g's dataset root.
func LocateFQN(start *Group, fqn string, sort Sort) (object, error) {
	root := start
	rest := fqn
	if strings.HasPrefix(fqn, "/") {
		root = start.ds.Root
		rest = strings.TrimPrefix(fqn, "/")
	}

	segs := SplitFQN(rest)
	if len(segs) == 0 {
		if sort == SortGroup {
			return root, nil
		}
		return nil, ncerr.New(ncerr.NoSuchObject, "fqn %q: empty path does not name a %s", fqn, sort)
	}

	cur := root
	for _, seg := range segs[:len(segs)-1] {
		name := UnescapeName(seg)
		child, ok := cur.groupIdx[name]
		if !ok {
			return nil, ncerr.New(ncerr.NoSuchObject, "fqn %q: no group named %q under %q", fqn, name, cur.path)
		}
		cur = child
	}

	last := UnescapeName(segs[len(segs)-1])
	switch sort {
	case SortGroup:
		if g, ok := cur.groupIdx[last]; ok {
			return g, nil
		}
	case SortVar:
		if v, ok := cur.varIdx[last]; ok {
			return v, nil
		}
	case SortDim:
		if d, ok := cur.dimIdx[last]; ok {
			return d, nil
		}
	case SortAtt:
		if a, ok := cur.attIdx[last]; ok {
			return a, nil
		}
	}
	return nil, ncerr.New(ncerr.NoSuchObject, "fqn %q: no %s named %q under %q", fqn, sort, last, cur.path)
}

// fqnCache memoizes FQN -> object resolution behind internal/
// cacheindex's hashed LRU, the "K's FQN→object lookup cache" referred
// to in spec section 4.L.
type fqnCache struct {
	idx *cacheindex.Index
}

func newFQNCache() *fqnCache {
	return &fqnCache{idx: cacheindex.New()}
}

func (c *fqnCache) put(o object) {
	c.idx.Put(cacheindex.HashKey([]byte(MakeFQN(o))), o)
}

func (c *fqnCache) get(fqn string) (object, bool) {
	v, ok := c.idx.Get(cacheindex.HashKey([]byte(fqn)))
	if !ok {
		return nil, false
	}
	return v.(object), true
}
