// Copyright 2025 The IRMatch Authors
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

// Package match finds occurrences of a pattern graph inside a target graph.
//
// A pattern is an ordinary graph whose return node has a single input. The
// node producing that input is compared against every node of the target
// graph, including nodes in nested regions. Each such target node is called
// the anchor of the attempt. From the anchor, the comparison walks backward
// through producers: two nodes correspond if they have the same kind and
// arities and all their outputs and inputs correspond, and two values
// correspond if their producers correspond and they have the same number of
// uses.
//
// The parameter node of a pattern is a wildcard. Its outputs stand for
// values produced outside the pattern, so they correspond to any target
// value regardless of how it is produced or used. Likewise the values
// produced by the anchor itself may have uses outside the matched region.
//
// All target nodes of a match lie in the region of its anchor; matches never
// cross region boundaries. There is no backtracking: within one attempt a
// pattern node is paired with at most one target node, chosen by the walk.
package match

import "irmatch.dev/go/ir"

// Graph is the read-only view of a program graph needed for matching.
// It is implemented by [*ir.Graph].
//
// Implementations must return the same IDs and slices for the duration of a
// search, and all methods should be O(1).
type Graph interface {
	Root() ir.RegionID
	Return() ir.NodeID
	RegionNodes(r ir.RegionID) []ir.NodeID

	Kind(n ir.NodeID) ir.Kind
	Inputs(n ir.NodeID) []ir.ValueID
	Outputs(n ir.NodeID) []ir.ValueID
	Blocks(n ir.NodeID) []ir.RegionID
	Owner(n ir.NodeID) ir.RegionID

	Def(v ir.ValueID) ir.NodeID
	NumUses(v ir.ValueID) int
}

var _ Graph = (*ir.Graph)(nil)
