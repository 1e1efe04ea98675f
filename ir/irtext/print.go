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

package irtext

import (
	"bytes"
	"io"
	"strings"

	"irmatch.dev/go/ir"
)

// Format returns the text form of g.
//
// Values are printed with their debug names where those are unique, and
// with numeric names otherwise. A graph that uses a value outside the region
// defining it, which the text form does not allow, is printed as is and will
// not parse back.
func Format(g *ir.Graph) []byte {
	var buf bytes.Buffer
	_ = Fprint(&buf, g)
	return buf.Bytes()
}

// Fprint writes the text form of g to w.
func Fprint(w io.Writer, g *ir.Graph) error {
	p := &printer{g: g, names: ir.NewNamer(g)}
	p.printGraph()
	_, err := w.Write(p.buf.Bytes())
	return err
}

type printer struct {
	g     *ir.Graph
	buf   bytes.Buffer
	nest  int
	names *ir.Namer
}

func (p *printer) values(vs []ir.ValueID) {
	for i, v := range vs {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		p.buf.WriteByte('%')
		p.buf.WriteString(p.names.Name(v))
	}
}

func (p *printer) indent() {
	p.buf.WriteString(strings.Repeat("  ", p.nest))
}

func (p *printer) printGraph() {
	g := p.g
	p.buf.WriteString("graph(")
	p.values(g.Params())
	p.buf.WriteString("):\n")

	p.nest++
	p.printRegion(g.Root())
	p.indent()
	p.buf.WriteString("return (")
	p.values(g.Results())
	p.buf.WriteString(")\n")
	p.nest--
}

func (p *printer) printRegion(r ir.RegionID) {
	for _, n := range p.g.RegionNodes(r) {
		p.printNode(n)
	}
}

func (p *printer) printNode(n ir.NodeID) {
	g := p.g
	p.indent()
	if outs := g.Outputs(n); len(outs) > 0 {
		p.values(outs)
		p.buf.WriteString(" = ")
	}
	p.buf.WriteString(g.Kind(n).String())
	p.buf.WriteByte('(')
	p.values(g.Inputs(n))
	p.buf.WriteByte(')')

	for _, r := range g.Blocks(n) {
		p.buf.WriteByte(' ')
		if len(g.RegionNodes(r)) == 0 {
			p.buf.WriteString("{}")
			continue
		}
		p.buf.WriteString("{\n")
		p.nest++
		p.printRegion(r)
		p.nest--
		p.indent()
		p.buf.WriteByte('}')
	}
	p.buf.WriteByte('\n')
}
