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

// Package irtext reads and writes program graphs in a compact text form:
//
//	graph(%x, %y, %z):
//	  %b = mul(%x, %y)
//	  %c = add(%b, %z)
//	  %r = loop(%c) {
//	    %d = mul(%x, %c)
//	  }
//	  return (%c)
//
// The header names the graph inputs. Each statement defines a node: zero or
// more output values, the node's kind, its inputs, and optionally one or
// more braced regions owned by the node. Values are assigned exactly once
// and must be defined before they are used. Values defined inside a region
// are visible only within that region. Comments start with # and extend to
// the end of the line.
package irtext

import (
	"fmt"
	"os"

	"irmatch.dev/go/ir"
)

// ParseFile reads and parses the named file.
func ParseFile(filename string) (*ir.Graph, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(filename, src)
}

// Parse parses the graph in src. The filename is only used in error
// positions. The returned error, if any, is an [ErrorList].
func Parse(filename string, src []byte) (g *ir.Graph, err error) {
	p := &parser{g: ir.New()}
	p.scanner.init(filename, src, &p.errs)
	p.next()

	defer func() {
		if e := recover(); e != nil {
			if _, ok := e.(bailout); !ok {
				panic(e)
			}
		}
		p.errs.Sort()
		if err = p.errs.Err(); err != nil {
			g = nil
		}
	}()

	p.parseGraph()
	return p.g, nil
}

// bailout is used to abandon parsing after a syntax error. Semantic errors
// such as undefined values are collected and parsing continues.
type bailout struct{}

type parser struct {
	scanner scanner
	errs    ErrorList

	tok token
	pos Position
	lit string

	g      *ir.Graph
	scopes []map[string]ir.ValueID
}

func (p *parser) next() {
	p.tok, p.pos, p.lit = p.scanner.scan()
}

func (p *parser) errorf(pos Position, format string, args ...any) {
	p.errs.Add(pos, fmt.Sprintf(format, args...))
}

// syntaxError records an error at the current token and abandons parsing.
func (p *parser) syntaxError(want string) {
	found := p.tok.String()
	switch p.tok {
	case tokIdent:
		found = p.lit
	case tokValue:
		found = "%" + p.lit
	}
	p.errorf(p.pos, "expected %s, found %s", want, found)
	panic(bailout{})
}

func (p *parser) expect(tok token) Position {
	pos := p.pos
	if p.tok != tok {
		p.syntaxError(tok.String())
	}
	p.next()
	return pos
}

func (p *parser) expectKeyword(kw string) {
	if p.tok != tokIdent || p.lit != kw {
		p.syntaxError(fmt.Sprintf("%q", kw))
	}
	p.next()
}

func (p *parser) openScope()  { p.scopes = append(p.scopes, map[string]ir.ValueID{}) }
func (p *parser) closeScope() { p.scopes = p.scopes[:len(p.scopes)-1] }

// lookup returns the value named name. A value of ir.NoValue means the name
// was defined by a statement that had errors.
func (p *parser) lookup(name string) (ir.ValueID, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if v, ok := p.scopes[i][name]; ok {
			return v, true
		}
	}
	return ir.NoValue, false
}

func (p *parser) define(pos Position, name string, v ir.ValueID) {
	if _, ok := p.lookup(name); ok {
		p.errorf(pos, "%%%s redefined", name)
		return
	}
	p.scopes[len(p.scopes)-1][name] = v
	if v != ir.NoValue {
		p.g.SetName(v, name)
	}
}

type valueRef struct {
	pos  Position
	name string
}

// parseValueList parses a possibly empty, comma-separated list of values.
func (p *parser) parseValueList() []valueRef {
	var refs []valueRef
	if p.tok != tokValue {
		return nil
	}
	for {
		refs = append(refs, valueRef{p.pos, p.lit})
		p.next()
		if p.tok != tokComma {
			return refs
		}
		p.next()
		if p.tok != tokValue {
			p.syntaxError("value")
		}
	}
}

// resolve looks up refs. It reports whether all of them refer to usable
// values.
func (p *parser) resolve(refs []valueRef) ([]ir.ValueID, bool) {
	vs := make([]ir.ValueID, len(refs))
	ok := true
	for i, r := range refs {
		v, found := p.lookup(r.name)
		if !found {
			p.errorf(r.pos, "undefined value %%%s", r.name)
		}
		if v == ir.NoValue {
			ok = false
		}
		vs[i] = v
	}
	return vs, ok
}

// graph = "graph" "(" [values] ")" ":" body "return" "(" [values] ")" EOF
func (p *parser) parseGraph() {
	p.expectKeyword("graph")
	p.expect(tokLParen)
	params := p.parseValueList()
	p.expect(tokRParen)
	p.expect(tokColon)

	p.openScope()
	for _, r := range params {
		if _, ok := p.lookup(r.name); ok {
			p.errorf(r.pos, "%%%s redefined", r.name)
			continue
		}
		p.define(r.pos, r.name, p.g.AddInput(r.name))
	}

	p.parseBody(p.g.Root())

	p.expectKeyword("return")
	p.expect(tokLParen)
	results := p.parseValueList()
	p.expect(tokRParen)
	if vs, ok := p.resolve(results); ok {
		p.g.SetReturn(vs...)
	}
	p.expect(tokEOF)
	p.closeScope()
}

// parseBody parses statements into region r until a token that cannot
// start a statement.
func (p *parser) parseBody(r ir.RegionID) {
	for {
		switch {
		case p.tok == tokValue:
		case p.tok == tokIdent && p.lit != "return":
		default:
			return
		}
		p.parseStmt(r)
	}
}

// stmt = [values "="] kind "(" [values] ")" { "{" body "}" }
func (p *parser) parseStmt(r ir.RegionID) {
	var outs []valueRef
	if p.tok == tokValue {
		outs = p.parseValueList()
		p.expect(tokAssign)
	}

	kindPos := p.pos
	if p.tok != tokIdent {
		p.syntaxError("node kind")
	}
	name := p.lit
	p.next()

	p.expect(tokLParen)
	ins := p.parseValueList()
	p.expect(tokRParen)

	inputs, ok := p.resolve(ins)
	kind := ir.MakeKind(name)
	if kind.IsPredeclared() {
		p.errorf(kindPos, "%s nodes cannot be declared", name)
		ok = false
	}

	var n ir.NodeID
	if ok {
		n = p.g.AddNode(r, kind, inputs, len(outs))
	}
	for i, o := range outs {
		v := ir.NoValue
		if ok {
			v = p.g.Outputs(n)[i]
		}
		p.define(o.pos, o.name, v)
	}

	for p.tok == tokLBrace {
		p.next()
		// Keep parsing the region of a broken node to find further errors.
		// Its nodes go into a region owned by a placeholder.
		var block ir.RegionID
		if ok {
			block = p.g.AddBlock(n)
		} else {
			block = p.g.AddBlock(p.placeholder(r))
		}
		p.openScope()
		p.parseBody(block)
		p.closeScope()
		p.expect(tokRBrace)
	}
}

// placeholder returns a node that owns the regions of statements with
// errors. The graph is discarded when errors are reported, so it does not
// matter where it is placed.
func (p *parser) placeholder(r ir.RegionID) ir.NodeID {
	return p.g.AddNode(r, ir.MakeKind("irtext.invalid"), nil, 0)
}
