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
	"testing"

	"github.com/go-quicktest/qt"
)

func TestMakeKind(t *testing.T) {
	qt.Assert(t, qt.Equals(MakeKind("param"), Param))
	qt.Assert(t, qt.Equals(MakeKind("return"), Return))

	mul := MakeKind("test::mul")
	qt.Assert(t, qt.Equals(MakeKind("test::mul"), mul))
	qt.Assert(t, qt.Not(qt.Equals(MakeKind("test::add"), mul)))
	qt.Assert(t, qt.Equals(mul.String(), "test::mul"))
	qt.Assert(t, qt.IsFalse(mul.IsPredeclared()))
	qt.Assert(t, qt.IsTrue(Param.IsPredeclared()))

	qt.Assert(t, qt.PanicMatches(func() { MakeKind("") }, "ir: empty kind name"))
}

func TestBuild(t *testing.T) {
	mul := MakeKind("mul")
	add := MakeKind("add")

	g := New()
	x := g.AddInput("x")
	y := g.AddInput("y")
	z := g.AddInput("z")
	b := g.Add(g.Root(), mul, x, y)
	c := g.Add(g.Root(), add, b, z)
	g.SetReturn(c)

	qt.Assert(t, qt.DeepEquals(g.Params(), []ValueID{x, y, z}))
	qt.Assert(t, qt.DeepEquals(g.Results(), []ValueID{c}))
	qt.Assert(t, qt.HasLen(g.RegionNodes(g.Root()), 2))
	qt.Assert(t, qt.Equals(g.NumNodes(), 4))
	qt.Assert(t, qt.Equals(g.NumValues(), 5))

	mulNode := g.Def(b)
	qt.Assert(t, qt.Equals(g.Kind(mulNode), mul))
	qt.Assert(t, qt.DeepEquals(g.Inputs(mulNode), []ValueID{x, y}))
	qt.Assert(t, qt.Equals(g.Owner(mulNode), g.Root()))
	qt.Assert(t, qt.Equals(g.Def(x), g.Param()))
	qt.Assert(t, qt.Equals(g.OutputIndex(y), 1))

	qt.Assert(t, qt.Equals(g.NumUses(b), 1))
	qt.Assert(t, qt.DeepEquals(g.Uses(c), []Use{{User: g.Return(), Index: 0}}))

	g.SetName(b, "b")
	qt.Assert(t, qt.Equals(g.NodeString(g.Def(c)), "%5 = add(%b, %z)"))
}

func TestSetReturnReplacesUses(t *testing.T) {
	g := New()
	x := g.AddInput("x")
	y := g.AddInput("y")
	g.SetReturn(x)
	qt.Assert(t, qt.Equals(g.NumUses(x), 1))
	g.SetReturn(y)
	qt.Assert(t, qt.Equals(g.NumUses(x), 0))
	qt.Assert(t, qt.Equals(g.NumUses(y), 1))
}

func TestBlocks(t *testing.T) {
	loop := MakeKind("loop")
	neg := MakeKind("neg")

	g := New()
	x := g.AddInput("x")
	l := g.AddNode(g.Root(), loop, []ValueID{x}, 1)
	body := g.AddBlock(l)
	inner := g.AddNode(body, loop, nil, 0)
	innerBody := g.AddBlock(inner)
	v := g.Add(innerBody, neg, x)

	qt.Assert(t, qt.DeepEquals(g.Blocks(l), []RegionID{body}))
	qt.Assert(t, qt.Equals(g.RegionOwner(body), l))
	qt.Assert(t, qt.Equals(g.RegionOwner(g.Root()), NoNode))
	qt.Assert(t, qt.Equals(g.Owner(g.Def(v)), innerBody))
	qt.Assert(t, qt.Equals(g.Depth(g.Root()), 0))
	qt.Assert(t, qt.Equals(g.Depth(body), 1))
	qt.Assert(t, qt.Equals(g.Depth(innerBody), 2))
	qt.Assert(t, qt.Equals(g.NumRegions(), 3))
	qt.Assert(t, qt.Equals(g.NumUses(x), 2))
}

func TestAddNodePanics(t *testing.T) {
	g := New()
	qt.Assert(t, qt.PanicMatches(func() {
		g.AddNode(g.Root(), Param, nil, 1)
	}, "ir: cannot add node of kind param"))
	qt.Assert(t, qt.PanicMatches(func() {
		g.Add(g.Root(), MakeKind("neg"), ValueID(99))
	}, "ir: invalid value 99"))
	qt.Assert(t, qt.PanicMatches(func() {
		g.AddNode(RegionID(7), MakeKind("neg"), nil, 0)
	}, "ir: invalid region 7"))
}

func TestValueString(t *testing.T) {
	g := New()
	v := g.Add(g.Root(), MakeKind("const"))
	qt.Assert(t, qt.Equals(g.ValueString(v), "%1"))
	g.SetName(v, "k")
	qt.Assert(t, qt.Equals(g.ValueString(v), "%k"))
	qt.Assert(t, qt.Equals(g.NodeString(g.Def(v)), "%k = const()"))
}
