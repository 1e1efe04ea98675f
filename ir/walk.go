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

package ir

import (
	"github.com/mpvl/unique"
)

// A Tree is the region structure of a graph.
type Tree interface {
	Root() RegionID
	RegionNodes(r RegionID) []NodeID
	Blocks(n NodeID) []RegionID
}

// Walk calls f for each node of t that is a member of a region.
//
// Regions are visited through an explicit stack, starting with the root
// region. The nodes of a region are visited in order, and the regions owned
// by each node are pushed once the node itself has been visited. Hence all
// nodes of a region come before those of its subregions, and sibling
// subregions are visited last to first.
func Walk(t Tree, f func(n NodeID)) {
	stack := []RegionID{t.Root()}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range t.RegionNodes(r) {
			f(n)
			stack = append(stack, t.Blocks(n)...)
		}
	}
}

// A Summary describes the size and shape of a graph.
type Summary struct {
	Inputs  int `json:"inputs" yaml:"inputs"`
	Outputs int `json:"outputs" yaml:"outputs"`
	Nodes   int `json:"nodes" yaml:"nodes"` // excluding the parameter and return nodes
	Values  int `json:"values" yaml:"values"`
	Regions int `json:"regions" yaml:"regions"`

	// MaxDepth is the nesting depth of the most deeply nested region.
	MaxDepth int `json:"maxDepth" yaml:"maxDepth"`

	// Kinds lists the kinds of the graph's nodes, sorted and without
	// duplicates.
	Kinds []string `json:"kinds" yaml:"kinds"`
}

// Describe summarizes g.
func Describe(g *Graph) Summary {
	s := Summary{
		Inputs:  len(g.Params()),
		Outputs: len(g.Results()),
		Values:  g.NumValues(),
		Regions: g.NumRegions(),
		Kinds:   []string{},
	}
	Walk(g, func(n NodeID) {
		s.Nodes++
		s.Kinds = append(s.Kinds, g.Kind(n).String())
		for _, r := range g.Blocks(n) {
			s.MaxDepth = max(s.MaxDepth, g.Depth(r))
		}
	})
	unique.Sort(unique.StringSlice{P: &s.Kinds})
	return s
}
