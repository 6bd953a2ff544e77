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

import "context"

// Lookup resolves an absolute FQN to an object of the given sort,
// starting from the dataset's root group.
func (ds *Dataset) Lookup(fqn string, sort Sort) (interface{}, error) {
	return LocateFQN(ds.Root, fqn, sort)
}

// Walk calls fn for the dataset's root group and every group
// transitively beneath it, depth first, preorder.
func (ds *Dataset) Walk(fn func(*Group) error) error {
	return walkGroup(ds.Root, fn)
}

func walkGroup(g *Group, fn func(*Group) error) error {
	if err := fn(g); err != nil {
		return err
	}
	for _, child := range g.groups {
		if err := walkGroup(child, fn); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes every variable's dirty chunk cache entries, in
// group-tree order, then releases the dataset. Per spec section 3's
// Dataset lifecycle, close must flush all dirty groups/vars before
// returning.
func (ds *Dataset) Close(ctx context.Context) error {
	return ds.Walk(func(g *Group) error {
		for _, v := range g.vars {
			if v.Cache == nil {
				continue
			}
			if err := v.Cache.Flush(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
