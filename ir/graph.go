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

// Package ir defines a compact, arena-allocated program graph: nodes with
// ordered inputs and outputs, values connecting them, and regions (blocks)
// that nest below nodes to model control structures.
//
// All entities are addressed by small integer IDs. IDs are stable for the
// lifetime of a Graph and index directly into its arenas, which makes them
// cheap map keys for analyses such as pattern matching.
package ir

import (
	"fmt"
	"strings"
)

// NodeID identifies a node within a Graph.
type NodeID uint32

// ValueID identifies a value within a Graph.
type ValueID uint32

// RegionID identifies a region within a Graph.
type RegionID uint32

// Zero IDs are sentinels and never refer to an entity.
const (
	NoNode   NodeID   = 0
	NoValue  ValueID  = 0
	NoRegion RegionID = 0
)

func (id NodeID) IsValid() bool   { return id != NoNode }
func (id ValueID) IsValid() bool  { return id != NoValue }
func (id RegionID) IsValid() bool { return id != NoRegion }

// A Use is a single consumption of a value: the consuming node and the
// position of the value among that node's inputs.
type Use struct {
	User  NodeID
	Index int
}

type node struct {
	kind    Kind
	inputs  []ValueID
	outputs []ValueID
	owner   RegionID
	blocks  []RegionID
}

type value struct {
	def   NodeID
	index int
	uses  []Use
	name  string
}

type region struct {
	owner NodeID
	nodes []NodeID
}

// A Graph is a program graph with a single root region.
//
// Every graph has a parameter node, whose outputs are the graph's inputs,
// and a return node, whose inputs are the graph's outputs. Both are owned by
// the root region but are not part of its node list.
//
// A Graph is not safe for concurrent mutation. Once built, any number of
// goroutines may read it concurrently.
type Graph struct {
	nodes   []node
	values  []value
	regions []region

	root  RegionID
	param NodeID
	ret   NodeID
}

// New returns an empty graph: a root region, a parameter node without
// outputs, and a return node without inputs.
func New() *Graph {
	g := &Graph{
		nodes:   make([]node, 1, 16),
		values:  make([]value, 1, 16),
		regions: make([]region, 1, 4),
	}
	g.root = g.newRegion(NoNode)
	g.param = g.newNode(g.root, Param)
	g.ret = g.newNode(g.root, Return)
	return g
}

func (g *Graph) newRegion(owner NodeID) RegionID {
	id := RegionID(len(g.regions))
	g.regions = append(g.regions, region{owner: owner})
	return id
}

func (g *Graph) newNode(r RegionID, k Kind) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node{kind: k, owner: r})
	return id
}

func (g *Graph) newValue(def NodeID) ValueID {
	n := &g.nodes[def]
	id := ValueID(len(g.values))
	g.values = append(g.values, value{def: def, index: len(n.outputs)})
	n.outputs = append(n.outputs, id)
	return id
}

func (g *Graph) addUse(v ValueID, user NodeID, index int) {
	g.checkValue(v)
	g.values[v].uses = append(g.values[v].uses, Use{User: user, Index: index})
}

func (g *Graph) removeUse(v ValueID, user NodeID, index int) {
	uses := g.values[v].uses
	for i, u := range uses {
		if u.User == user && u.Index == index {
			g.values[v].uses = append(uses[:i:i], uses[i+1:]...)
			return
		}
	}
}

func (g *Graph) checkNode(n NodeID) {
	if n == NoNode || int(n) >= len(g.nodes) {
		panic(fmt.Sprintf("ir: invalid node %d", n))
	}
}

func (g *Graph) checkValue(v ValueID) {
	if v == NoValue || int(v) >= len(g.values) {
		panic(fmt.Sprintf("ir: invalid value %d", v))
	}
}

func (g *Graph) checkRegion(r RegionID) {
	if r == NoRegion || int(r) >= len(g.regions) {
		panic(fmt.Sprintf("ir: invalid region %d", r))
	}
}

// AddInput adds an input to the graph and returns the value representing it.
// The value is a new output of the parameter node.
func (g *Graph) AddInput(name string) ValueID {
	v := g.newValue(g.param)
	g.values[v].name = name
	return v
}

// AddNode appends a node of kind k consuming inputs to the end of region r.
// The node gets numOutputs fresh output values.
//
// It panics if k is a predeclared kind, which only the graph itself may
// create, or if any ID is invalid.
func (g *Graph) AddNode(r RegionID, k Kind, inputs []ValueID, numOutputs int) NodeID {
	g.checkRegion(r)
	if k.IsPredeclared() {
		panic(fmt.Sprintf("ir: cannot add node of kind %v", k))
	}
	n := g.newNode(r, k)
	g.regions[r].nodes = append(g.regions[r].nodes, n)
	for i, v := range inputs {
		g.addUse(v, n, i)
	}
	g.nodes[n].inputs = append([]ValueID(nil), inputs...)
	for i := 0; i < numOutputs; i++ {
		g.newValue(n)
	}
	return n
}

// Add is a shorthand for a single-output AddNode. It returns the output.
func (g *Graph) Add(r RegionID, k Kind, inputs ...ValueID) ValueID {
	n := g.AddNode(r, k, inputs, 1)
	return g.nodes[n].outputs[0]
}

// AddBlock creates a new, empty region owned by node n. The parameter and
// return nodes cannot own regions.
func (g *Graph) AddBlock(n NodeID) RegionID {
	g.checkNode(n)
	if g.nodes[n].kind.IsPredeclared() {
		panic(fmt.Sprintf("ir: %v node cannot own a region", g.nodes[n].kind))
	}
	r := g.newRegion(n)
	g.nodes[n].blocks = append(g.nodes[n].blocks, r)
	return r
}

// SetReturn replaces the inputs of the return node with vs.
func (g *Graph) SetReturn(vs ...ValueID) {
	ret := &g.nodes[g.ret]
	for i, v := range ret.inputs {
		g.removeUse(v, g.ret, i)
	}
	for i, v := range vs {
		g.addUse(v, g.ret, i)
	}
	ret.inputs = append([]ValueID(nil), vs...)
}

// SetName sets the debug name of v.
func (g *Graph) SetName(v ValueID, name string) {
	g.checkValue(v)
	g.values[v].name = name
}

// Root returns the root region.
func (g *Graph) Root() RegionID { return g.root }

// Param returns the parameter node.
func (g *Graph) Param() NodeID { return g.param }

// Return returns the return node.
func (g *Graph) Return() NodeID { return g.ret }

// Params returns the inputs of the graph.
func (g *Graph) Params() []ValueID { return g.nodes[g.param].outputs }

// Results returns the outputs of the graph.
func (g *Graph) Results() []ValueID { return g.nodes[g.ret].inputs }

// Kind returns the operator of n.
func (g *Graph) Kind(n NodeID) Kind { return g.nodes[n].kind }

// Inputs returns the values consumed by n, in order.
// The result must not be modified.
func (g *Graph) Inputs(n NodeID) []ValueID { return g.nodes[n].inputs }

// Outputs returns the values produced by n, in order.
// The result must not be modified.
func (g *Graph) Outputs(n NodeID) []ValueID { return g.nodes[n].outputs }

// Blocks returns the regions owned by n, in order.
func (g *Graph) Blocks(n NodeID) []RegionID { return g.nodes[n].blocks }

// Owner returns the region n belongs to.
func (g *Graph) Owner(n NodeID) RegionID { return g.nodes[n].owner }

// Def returns the node that produces v.
func (g *Graph) Def(v ValueID) NodeID { return g.values[v].def }

// OutputIndex returns the position of v among the outputs of Def(v).
func (g *Graph) OutputIndex(v ValueID) int { return g.values[v].index }

// Uses returns the consumers of v in the order they were added.
func (g *Graph) Uses(v ValueID) []Use { return g.values[v].uses }

// NumUses returns len(g.Uses(v)).
func (g *Graph) NumUses(v ValueID) int { return len(g.values[v].uses) }

// Name returns the debug name of v, or "" if it has none.
func (g *Graph) Name(v ValueID) string { return g.values[v].name }

// RegionNodes returns the nodes of r in order.
func (g *Graph) RegionNodes(r RegionID) []NodeID { return g.regions[r].nodes }

// RegionOwner returns the node that owns r, or NoNode for the root region.
func (g *Graph) RegionOwner(r RegionID) NodeID { return g.regions[r].owner }

// NumNodes reports the number of nodes, including the parameter and return
// nodes.
func (g *Graph) NumNodes() int { return len(g.nodes) - 1 }

// NumValues reports the number of values.
func (g *Graph) NumValues() int { return len(g.values) - 1 }

// NumRegions reports the number of regions, including the root.
func (g *Graph) NumRegions() int { return len(g.regions) - 1 }

// Depth returns the nesting depth of r; the root region has depth 0.
func (g *Graph) Depth(r RegionID) int {
	d := 0
	for n := g.regions[r].owner; n != NoNode; n = g.regions[g.nodes[n].owner].owner {
		d++
	}
	return d
}

// ValueString returns a printable reference to v: its name if it has one,
// otherwise its ID.
func (g *Graph) ValueString(v ValueID) string {
	if name := g.values[v].name; name != "" {
		return "%" + name
	}
	return fmt.Sprintf("%%%d", v)
}

// NodeString returns a one-line description of n, such as
// "%c = add(%b, %z)".
func (g *Graph) NodeString(n NodeID) string {
	var b strings.Builder
	nd := &g.nodes[n]
	for i, v := range nd.outputs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(g.ValueString(v))
	}
	if len(nd.outputs) > 0 {
		b.WriteString(" = ")
	}
	b.WriteString(nd.kind.String())
	b.WriteByte('(')
	for i, v := range nd.inputs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(g.ValueString(v))
	}
	b.WriteByte(')')
	return b.String()
}
