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

package match

import (
	"cmp"
	"slices"

	"irmatch.dev/go/ir"
)

// A Match is one occurrence of a pattern in a target graph.
//
// The maps hold the correspondences as they were when the attempt at
// Anchor succeeded. They are owned by the Match and must not be modified.
// Nodes and values reached only through the pattern's parameter node have
// no entry, as the wildcard does not constrain them.
type Match struct {
	// Anchor is the target node corresponding to the producer of the
	// pattern's output.
	Anchor ir.NodeID

	// Nodes maps pattern nodes to target nodes.
	Nodes map[ir.NodeID]ir.NodeID

	// Values maps pattern values to target values.
	Values map[ir.ValueID]ir.ValueID
}

// Node returns the target node corresponding to pattern node pn.
func (m *Match) Node(pn ir.NodeID) (ir.NodeID, bool) {
	tn, ok := m.Nodes[pn]
	return tn, ok
}

// Value returns the target value corresponding to pattern value pv.
func (m *Match) Value(pv ir.ValueID) (ir.ValueID, bool) {
	tv, ok := m.Values[pv]
	return tv, ok
}

// A NodePair is a single entry of a node correspondence.
type NodePair struct {
	Pattern, Target ir.NodeID
}

// A ValuePair is a single entry of a value correspondence.
type ValuePair struct {
	Pattern, Target ir.ValueID
}

// NodePairs returns the node correspondence ordered by pattern node.
func (m *Match) NodePairs() []NodePair {
	pairs := make([]NodePair, 0, len(m.Nodes))
	for p, t := range m.Nodes {
		pairs = append(pairs, NodePair{p, t})
	}
	slices.SortFunc(pairs, func(a, b NodePair) int {
		return cmp.Compare(a.Pattern, b.Pattern)
	})
	return pairs
}

// ValuePairs returns the value correspondence ordered by pattern value.
func (m *Match) ValuePairs() []ValuePair {
	pairs := make([]ValuePair, 0, len(m.Values))
	for p, t := range m.Values {
		pairs = append(pairs, ValuePair{p, t})
	}
	slices.SortFunc(pairs, func(a, b ValuePair) int {
		return cmp.Compare(a.Pattern, b.Pattern)
	})
	return pairs
}
