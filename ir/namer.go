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
	"fmt"
	"strconv"
	"strings"
)

// A Namer assigns unique names to the values of a graph, for output formats
// that refer to values by name. A value keeps its debug name unless that
// name was already handed out, in which case it is named after its ID.
type Namer struct {
	g     *Graph
	names map[ValueID]string
	used  map[string]bool
}

// NewNamer returns a Namer for g. Names are assigned in the order in which
// they are requested.
func NewNamer(g *Graph) *Namer {
	return &Namer{
		g:     g,
		names: map[ValueID]string{},
		used:  map[string]bool{},
	}
}

// Name returns the name of v, assigning one on first use.
func (n *Namer) Name(v ValueID) string {
	if s, ok := n.names[v]; ok {
		return s
	}
	s := n.g.Name(v)
	if s == "" || n.used[s] {
		s = strconv.Itoa(int(v))
		for i := 1; n.used[s]; i++ {
			s = fmt.Sprintf("%d.%d", v, i)
		}
	}
	n.used[s] = true
	n.names[v] = s
	return s
}

// Names returns the names of vs.
func (n *Namer) Names(vs []ValueID) []string {
	if len(vs) == 0 {
		return nil
	}
	s := make([]string, len(vs))
	for i, v := range vs {
		s[i] = n.Name(v)
	}
	return s
}

// NodeString is like [Graph.NodeString] but refers to values by their
// assigned names.
func (n *Namer) NodeString(id NodeID) string {
	var b strings.Builder
	outs := n.g.Outputs(id)
	for i, v := range outs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("%" + n.Name(v))
	}
	if len(outs) > 0 {
		b.WriteString(" = ")
	}
	b.WriteString(n.g.Kind(id).String())
	b.WriteByte('(')
	for i, v := range n.g.Inputs(id) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("%" + n.Name(v))
	}
	b.WriteByte(')')
	return b.String()
}
