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

// Dimension is (name, length, unlimited) scoped to its owning group.
// Two dimensions sharing a simple name in different groups are
// distinct; only the pair (owner, name) is unique.
type Dimension struct {
	id        uint64
	name      string
	length    uint64
	unlimited bool
	owner     *Group
}

func (d *Dimension) ObjectID() uint64     { return d.id }
func (d *Dimension) ObjectName() string   { return d.name }
func (d *Dimension) ObjectSort() Sort     { return SortDim }
func (d *Dimension) ObjectParent() *Group { return d.owner }

// Name returns the dimension's simple name.
func (d *Dimension) Name() string { return d.name }

// Length returns the dimension's current length.
func (d *Dimension) Length() uint64 { return d.length }

// Unlimited reports whether the dimension grows on write.
func (d *Dimension) Unlimited() bool { return d.unlimited }

// Owner returns the group this dimension is scoped to.
func (d *Dimension) Owner() *Group { return d.owner }

// SetLength updates the dimension's length, used when an unlimited
// dimension grows because a variable was extended along it.
func (d *Dimension) SetLength(n uint64) { d.length = n }
