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

package ir_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"irmatch.dev/go/ir"
)

func TestWalk(t *testing.T) {
	g := ir.New()
	loop, op := ir.MakeKind("loop"), ir.MakeKind("op")

	a := g.AddNode(g.Root(), op, nil, 1)
	l1 := g.AddNode(g.Root(), loop, nil, 0)
	b1, b2 := g.AddBlock(l1), g.AddBlock(l1)
	b := g.AddNode(b1, op, nil, 0)
	c := g.AddNode(b2, loop, nil, 0)
	d := g.AddNode(g.AddBlock(c), op, nil, 0)
	e := g.AddNode(g.Root(), op, nil, 0)

	var got []ir.NodeID
	ir.Walk(g, func(n ir.NodeID) { got = append(got, n) })
	qt.Assert(t, qt.DeepEquals(got, []ir.NodeID{a, l1, e, c, d, b}))
}

func TestDescribe(t *testing.T) {
	g := ir.New()
	x := g.AddInput("x")
	mul, loop := ir.MakeKind("mul"), ir.MakeKind("loop")
	y := g.Add(g.Root(), mul, x, x)
	l := g.AddNode(g.Root(), loop, []ir.ValueID{y}, 1)
	body := g.AddBlock(l)
	g.Add(body, mul, y, y)
	g.SetReturn(g.Outputs(l)[0])

	qt.Assert(t, qt.DeepEquals(ir.Describe(g), ir.Summary{
		Inputs:   1,
		Outputs:  1,
		Nodes:    3,
		Values:   4,
		Regions:  2,
		MaxDepth: 1,
		Kinds:    []string{"loop", "mul"},
	}))
}

func TestDescribeEmpty(t *testing.T) {
	qt.Assert(t, qt.DeepEquals(ir.Describe(ir.New()), ir.Summary{
		Regions: 1,
		Kinds:   []string{},
	}))
}

func TestDescribeKindsUnsorted(t *testing.T) {
	g := ir.New()
	zz, aa := ir.MakeKind("zz"), ir.MakeKind("aa")
	g.AddNode(g.Root(), zz, nil, 0)
	g.AddNode(g.Root(), aa, nil, 0)
	g.AddNode(g.Root(), zz, nil, 0)

	qt.Assert(t, qt.DeepEquals(ir.Describe(g).Kinds, []string{"aa", "zz"}))
}
