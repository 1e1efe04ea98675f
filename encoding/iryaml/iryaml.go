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

// Package iryaml converts program graphs to and from YAML documents of the
// form
//
//	inputs: [x, y, z]
//	nodes:
//	  - kind: mul
//	    inputs: [x, y]
//	    outputs: [b]
//	  - kind: loop
//	    inputs: [b]
//	    outputs: [r]
//	    blocks:
//	      - nodes:
//	          - {kind: neg, inputs: [z], outputs: [n]}
//	outputs: [r]
//
// Values are referred to by name, with the same scoping rules as the text
// form of package irtext.
package iryaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"irmatch.dev/go/ir"
)

// File is the YAML representation of a graph.
type File struct {
	Inputs  []string `yaml:"inputs,flow,omitempty"`
	Nodes   []Node   `yaml:"nodes,omitempty"`
	Outputs []string `yaml:"outputs,flow"`
}

// Node is the YAML representation of a node.
type Node struct {
	Kind    string   `yaml:"kind"`
	Inputs  []string `yaml:"inputs,flow,omitempty"`
	Outputs []string `yaml:"outputs,flow,omitempty"`
	Blocks  []Block  `yaml:"blocks,omitempty"`
}

// Block is the YAML representation of a region.
type Block struct {
	Nodes []Node `yaml:"nodes"`
}

// Decode parses a single YAML document into a graph. Unknown fields are
// rejected.
func Decode(filename string, src []byte) (*ir.Graph, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty document", filename)
		}
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	g, err := Build(&f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return g, nil
}

// Build constructs the graph described by f.
func Build(f *File) (*ir.Graph, error) {
	b := &builder{g: ir.New()}
	b.open()
	for i, name := range f.Inputs {
		if err := b.define(fmt.Sprintf("inputs[%d]", i), name, b.g.AddInput(name)); err != nil {
			return nil, err
		}
	}
	if err := b.nodes("nodes", b.g.Root(), f.Nodes); err != nil {
		return nil, err
	}
	outs, err := b.resolve("outputs", f.Outputs)
	if err != nil {
		return nil, err
	}
	b.g.SetReturn(outs...)
	return b.g, nil
}

type builder struct {
	g      *ir.Graph
	scopes []map[string]ir.ValueID
}

func (b *builder) open()  { b.scopes = append(b.scopes, map[string]ir.ValueID{}) }
func (b *builder) close() { b.scopes = b.scopes[:len(b.scopes)-1] }

func (b *builder) lookup(name string) (ir.ValueID, bool) {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if v, ok := b.scopes[i][name]; ok {
			return v, true
		}
	}
	return ir.NoValue, false
}

func (b *builder) define(path, name string, v ir.ValueID) error {
	if name == "" {
		return fmt.Errorf("%s: empty value name", path)
	}
	if _, ok := b.lookup(name); ok {
		return fmt.Errorf("%s: value %q redefined", path, name)
	}
	b.scopes[len(b.scopes)-1][name] = v
	b.g.SetName(v, name)
	return nil
}

func (b *builder) resolve(path string, names []string) ([]ir.ValueID, error) {
	vs := make([]ir.ValueID, len(names))
	for i, name := range names {
		v, ok := b.lookup(name)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: undefined value %q", path, i, name)
		}
		vs[i] = v
	}
	return vs, nil
}

func (b *builder) nodes(path string, r ir.RegionID, nodes []Node) error {
	for i := range nodes {
		if err := b.node(fmt.Sprintf("%s[%d]", path, i), r, &nodes[i]); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) node(path string, r ir.RegionID, n *Node) error {
	if n.Kind == "" {
		return fmt.Errorf("%s: missing kind", path)
	}
	kind := ir.MakeKind(n.Kind)
	if kind.IsPredeclared() {
		return fmt.Errorf("%s: %s nodes cannot be declared", path, n.Kind)
	}
	inputs, err := b.resolve(path+".inputs", n.Inputs)
	if err != nil {
		return err
	}
	id := b.g.AddNode(r, kind, inputs, len(n.Outputs))
	for i, name := range n.Outputs {
		if err := b.define(fmt.Sprintf("%s.outputs[%d]", path, i), name, b.g.Outputs(id)[i]); err != nil {
			return err
		}
	}
	for i, blk := range n.Blocks {
		b.open()
		err := b.nodes(fmt.Sprintf("%s.blocks[%d].nodes", path, i), b.g.AddBlock(id), blk.Nodes)
		b.close()
		if err != nil {
			return err
		}
	}
	return nil
}

// Encode returns the YAML encoding of g.
func Encode(g *ir.Graph) ([]byte, error) {
	f := FromGraph(g)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromGraph returns the YAML representation of g. Values are named as by
// [ir.Namer].
func FromGraph(g *ir.Graph) *File {
	names := ir.NewNamer(g)
	f := &File{Inputs: names.Names(g.Params())}
	f.Nodes = fromRegion(g, names, g.Root())
	f.Outputs = names.Names(g.Results())
	if f.Outputs == nil {
		f.Outputs = []string{}
	}
	return f
}

func fromRegion(g *ir.Graph, names *ir.Namer, r ir.RegionID) []Node {
	var nodes []Node
	for _, n := range g.RegionNodes(r) {
		x := Node{
			Kind:    g.Kind(n).String(),
			Inputs:  names.Names(g.Inputs(n)),
			Outputs: names.Names(g.Outputs(n)),
		}
		for _, blk := range g.Blocks(n) {
			x.Blocks = append(x.Blocks, Block{Nodes: fromRegion(g, names, blk)})
		}
		nodes = append(nodes, x)
	}
	return nodes
}
