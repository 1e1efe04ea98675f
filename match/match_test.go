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

package match_test

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/kr/pretty"

	"irmatch.dev/go/ir"
	"irmatch.dev/go/ir/irtext"
	"irmatch.dev/go/match"
)

const fma = `
graph(%x, %y, %z):
  %b = mul(%x, %y)
  %c = add(%b, %z)
  return (%c)
`

func parse(t *testing.T, src string) *ir.Graph {
	t.Helper()
	g, err := irtext.Parse("test.ir", []byte(src))
	qt.Assert(t, qt.IsNil(err))
	return g
}

// value returns the value of g named name.
func value(g *ir.Graph, name string) ir.ValueID {
	for v := ir.ValueID(1); int(v) <= g.NumValues(); v++ {
		if g.Name(v) == name {
			return v
		}
	}
	panic("no value %" + name)
}

// def returns the node producing the value named name.
func def(g *ir.Graph, name string) ir.NodeID {
	return g.Def(value(g, name))
}

func compile(t *testing.T, p *ir.Graph, cfg match.Config) *match.Matcher {
	t.Helper()
	m, err := match.Compile(p, &cfg)
	qt.Assert(t, qt.IsNil(err))
	return m
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		err  string
	}{{
		name: "ok",
		src:  fma,
	}, {
		name: "input",
		src:  "graph(%x): return (%x)",
	}, {
		name: "two outputs",
		src: `
graph(%x, %y):
  %a = neg(%x)
  return (%a, %y)`,
		err: "invalid pattern: node 2: pattern must return exactly one value; found 2",
	}, {
		name: "no output",
		src: `
graph(%x):
  %a = neg(%x)
  return ()`,
		err: "invalid pattern: node 2: pattern must return exactly one value; found 0",
	}, {
		name: "region",
		src: `
graph(%x):
  %r = loop(%x) {}
  return (%r)`,
		err: "invalid pattern: node 3: pattern nodes may not own regions",
	}}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := parse(t, tc.src)
			err := match.Validate(p)
			if tc.err == "" {
				qt.Assert(t, qt.IsNil(err))
				return
			}
			qt.Assert(t, qt.ErrorMatches(err, tc.err))
			qt.Assert(t, qt.ErrorIs(err, match.ErrInvalidPattern))
			var perr *match.PatternError
			qt.Assert(t, qt.ErrorAs(err, &perr))

			_, err = match.Compile(p, nil)
			qt.Assert(t, qt.ErrorIs(err, match.ErrInvalidPattern))
		})
	}
}

func TestFindMatchesInvalidPattern(t *testing.T) {
	p := parse(t, `
graph(%x, %y):
  %a = neg(%x)
  return (%a, %y)`)
	g := parse(t, fma)
	qt.Assert(t, qt.PanicMatches(func() {
		match.FindMatches(p, g)
	}, `invalid pattern: .*`))
}

func TestCorrespondence(t *testing.T) {
	p := parse(t, fma)
	g := parse(t, `
graph(%a, %b, %c):
  %m = mul(%a, %b)
  %s = add(%m, %c)
  return (%s)`)

	got := match.FindMatches(p, g)
	want := []match.Match{{
		Anchor: def(g, "s"),
		Nodes: map[ir.NodeID]ir.NodeID{
			def(p, "b"): def(g, "m"),
			def(p, "c"): def(g, "s"),
		},
		Values: map[ir.ValueID]ir.ValueID{
			value(p, "x"): value(g, "a"),
			value(p, "y"): value(g, "b"),
			value(p, "z"): value(g, "c"),
			value(p, "b"): value(g, "m"),
			value(p, "c"): value(g, "s"),
		},
	}}
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Errorf("unexpected matches:\n%s", diff)
	}
	qt.Assert(t, qt.IsNil(match.Verify(p, g, got[0])))

	tn, ok := got[0].Node(def(p, "b"))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(tn, def(g, "m")))
	_, ok = got[0].Node(p.Param())
	qt.Assert(t, qt.IsFalse(ok))
}

func TestUseCounts(t *testing.T) {
	p := parse(t, fma)

	t.Run("intermediate escapes", func(t *testing.T) {
		g := parse(t, `
graph(%a, %b, %c):
  %m = mul(%a, %b)
  %s = add(%m, %c)
  %u = neg(%m)
  return (%s, %u)`)
		m := compile(t, p, match.Config{})
		qt.Assert(t, qt.HasLen(m.Find(g), 0))
		qt.Assert(t, qt.Equals(m.Stats().UseCountMisses, 1))
	})

	t.Run("anchor output escapes", func(t *testing.T) {
		g := parse(t, `
graph(%a, %b, %c):
  %m = mul(%a, %b)
  %s = add(%m, %c)
  %u = neg(%s)
  %v = neg(%s)
  return (%u, %v)`)
		ms := match.FindMatches(p, g)
		qt.Assert(t, qt.HasLen(ms, 1))
		qt.Assert(t, qt.Equals(ms[0].Anchor, def(g, "s")))
	})

	t.Run("input shared", func(t *testing.T) {
		g := parse(t, `
graph(%a, %b, %c):
  %m = mul(%a, %b)
  %s = add(%m, %c)
  %t = add(%a, %b)
  %u = mul(%c, %c)
  return (%s, %t, %u)`)
		ms := match.FindMatches(p, g)
		qt.Assert(t, qt.HasLen(ms, 1))
	})
}

func TestMissingKind(t *testing.T) {
	p := parse(t, fma)
	g := parse(t, `
graph(%a):
  %b = neg(%a)
  %c = neg(%b)
  return (%c)`)

	m := compile(t, p, match.Config{})
	qt.Assert(t, qt.HasLen(m.Find(g), 0))

	s := m.Stats()
	qt.Assert(t, qt.Equals(s.Anchors, 2))
	qt.Assert(t, qt.Equals(s.NodeCompares, s.Anchors))
	qt.Assert(t, qt.Equals(s.ValueCompares, 0))
	qt.Assert(t, qt.Equals(s.StructureMisses, 2))
}

func TestWildcard(t *testing.T) {
	p := parse(t, `
graph(%x):
  %s = mul(%x, %x)
  return (%s)`)

	g := parse(t, `
graph(%a, %b):
  %c = load(%a)
  %d = mul(%c, %c)
  %e = mul(%a, %b)
  %f = mul(%d, %e)
  return (%f)`)

	m := compile(t, p, match.Config{})
	ms := m.Find(g)
	qt.Assert(t, qt.HasLen(ms, 1))
	qt.Assert(t, qt.Equals(ms[0].Anchor, def(g, "d")))

	tv, ok := ms[0].Value(value(p, "x"))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(tv, value(g, "c")))

	s := m.Stats()
	qt.Assert(t, qt.Equals(s.MemoConflicts, 2))
	qt.Assert(t, qt.Equals(s.WildcardHits, 3))
}

func TestRegions(t *testing.T) {
	p := parse(t, fma)

	t.Run("inside", func(t *testing.T) {
		g := parse(t, `
graph(%a, %b, %n):
  %r = loop(%n) {
    %m = mul(%a, %b)
    %s = add(%m, %n)
  }
  return (%r)`)
		ms := match.FindMatches(p, g)
		qt.Assert(t, qt.HasLen(ms, 1))
		qt.Assert(t, qt.Equals(g.Owner(ms[0].Anchor), g.Owner(def(g, "m"))))
	})

	t.Run("across", func(t *testing.T) {
		g := parse(t, `
graph(%a, %b, %n):
  %m = mul(%a, %b)
  %r = loop(%n) {
    %s = add(%m, %n)
  }
  return (%r)`)
		m := compile(t, p, match.Config{})
		qt.Assert(t, qt.HasLen(m.Find(g), 0))
		qt.Assert(t, qt.Equals(m.Stats().RegionMisses, 1))
	})
}

func TestMultipleOutputs(t *testing.T) {
	p := parse(t, `
graph(%x):
  %lo, %hi = split(%x)
  return (%hi)`)
	g := parse(t, `
graph(%v):
  %l, %h = split(%v)
  %w = neg(%h)
  return (%w)`)

	ms := match.FindMatches(p, g)
	qt.Assert(t, qt.HasLen(ms, 1))
	tv, _ := ms[0].Value(value(p, "hi"))
	qt.Assert(t, qt.Equals(tv, value(g, "h")))
	tv, _ = ms[0].Value(value(p, "lo"))
	qt.Assert(t, qt.Equals(tv, value(g, "l")))
	qt.Assert(t, qt.IsNil(match.Verify(p, g, ms[0])))
}

func TestInputPattern(t *testing.T) {
	p := parse(t, "graph(%x): return (%x)")
	g := parse(t, fma)

	ms := match.FindMatches(p, g)
	qt.Assert(t, qt.HasLen(ms, g.NumNodes()-2))
	for _, m := range ms {
		qt.Assert(t, qt.HasLen(m.Nodes, 0))
		qt.Assert(t, qt.HasLen(m.Values, 0))
		qt.Assert(t, qt.IsNil(match.Verify(p, g, m)))
	}
}

func TestAnchors(t *testing.T) {
	g := parse(t, `
graph():
  %a = a()
  %l1 = loop() {
    %b = b()
    %l2 = loop() {
      %c = c()
    }
  }
  %l3 = loop() {
    %d = d()
  }
  %e = e()
  %f = if() { %g = g() } { %h = h() }
  return ()`)

	var want []ir.NodeID
	for _, name := range []string{"a", "l1", "l3", "e", "f", "h", "g", "d", "b", "l2", "c"} {
		want = append(want, def(g, name))
	}
	qt.Assert(t, qt.DeepEquals(match.Anchors(g), want))
}

func TestMatchAt(t *testing.T) {
	p := parse(t, fma)
	g := parse(t, `
graph(%a, %b, %c):
  %m = mul(%a, %b)
  %s = add(%m, %c)
  return (%s)`)

	m := compile(t, p, match.Config{})
	_, ok := m.MatchAt(g, def(g, "m"))
	qt.Assert(t, qt.IsFalse(ok))

	x, ok := m.MatchAt(g, def(g, "s"))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.DeepEquals(x, m.Find(g)[0]))
}

func TestIdempotent(t *testing.T) {
	p := parse(t, fma)
	g := chains(30)
	m := compile(t, p, match.Config{})
	qt.Assert(t, qt.DeepEquals(m.Find(g), m.Find(g)))
}

func TestVerify(t *testing.T) {
	p := parse(t, fma)
	g := parse(t, `
graph(%a, %b, %c):
  %m1 = mul(%a, %b)
  %s1 = add(%m1, %c)
  %m2 = mul(%b, %c)
  %s2 = add(%m2, %a)
  return (%s1, %s2)`)

	ms := match.FindMatches(p, g)
	qt.Assert(t, qt.HasLen(ms, 2))
	for _, m := range ms {
		qt.Assert(t, qt.IsNil(match.Verify(p, g, m)))
	}

	bad := ms[0]
	bad.Anchor = ms[1].Anchor
	qt.Assert(t, qt.IsNotNil(match.Verify(p, g, bad)))

	bad = match.Match{Anchor: ms[0].Anchor, Nodes: ms[0].Nodes, Values: ms[1].Values}
	qt.Assert(t, qt.ErrorMatches(match.Verify(p, g, bad), `value \d+: produced by \d+, target value \d+ by \d+`))
}

func TestBudget(t *testing.T) {
	p := parse(t, fma)
	g := parse(t, `
graph(%a, %b, %c):
  %m = mul(%a, %b)
  %s = add(%m, %c)
  return (%s)`)

	// A successful attempt on this graph makes 12 comparisons.
	m := compile(t, p, match.Config{MaxVisits: 11})
	qt.Assert(t, qt.HasLen(m.Find(g), 0))
	qt.Assert(t, qt.Equals(m.Stats().BudgetExceeded, 1))

	m = compile(t, p, match.Config{MaxVisits: 12})
	qt.Assert(t, qt.HasLen(m.Find(g), 1))
	qt.Assert(t, qt.Equals(m.Stats().BudgetExceeded, 0))
	qt.Assert(t, qt.Equals(m.Stats().MaxVisits, 12))
}

func TestLog(t *testing.T) {
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	p := parse(t, fma)
	g := parse(t, `
graph(%a, %b, %c):
  %m = mul(%a, %b)
  %s = add(%m, %c)
  return (%s)`)

	m := compile(t, p, match.Config{LogLevel: 1})
	m.Find(g)
	qt.Assert(t, qt.Equals(buf.String(), "[anchor 4] match: 2 nodes, 5 values\n"))

	buf.Reset()
	m = compile(t, p, match.Config{LogLevel: 2})
	m.Find(g)
	qt.Assert(t, qt.StringContains(buf.String(), "[anchor 3] node 4: add/2->1 does not match mul/2->1 of target node 3\n"))
	qt.Assert(t, qt.StringContains(buf.String(), "[anchor 4] ... node 3: mul matches target node 3\n"))
}

// chains returns a graph with n multiply-add chains, every third of which
// has a negation between the multiply and the add. Every fifth chain opens
// a loop holding the chains that follow.
func chains(n int) *ir.Graph {
	g := ir.New()
	mul, add, neg, loop := ir.MakeKind("mul"), ir.MakeKind("add"), ir.MakeKind("neg"), ir.MakeKind("loop")
	a, b := g.AddInput("a"), g.AddInput("b")

	r := g.Root()
	var results []ir.ValueID
	for i := range n {
		x := g.Add(r, mul, a, b)
		if i%3 == 0 {
			x = g.Add(r, neg, x)
		}
		s := g.Add(r, add, x, b)
		results = append(results, s)
		if i%5 == 0 {
			l := g.AddNode(r, loop, []ir.ValueID{s}, 1)
			r = g.AddBlock(l)
		}
	}
	g.SetReturn(results...)
	return g
}

func TestFindParallel(t *testing.T) {
	p := parse(t, fma)
	g := chains(60)

	m := compile(t, p, match.Config{})
	want := m.Find(g)
	qt.Assert(t, qt.HasLen(want, 40))

	for _, workers := range []int{0, 1, 2, 3, 8, 1000} {
		got, err := m.FindParallel(context.Background(), g, workers)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.DeepEquals(got, want), qt.Commentf("workers: %d", workers))
	}

	anchors := int64(len(match.Anchors(g)))
	qt.Assert(t, qt.Equals(m.Stats().Anchors, 7*anchors))
	qt.Assert(t, qt.Equals(m.Stats().Matches, 7*40))
}

func TestFindParallelCanceled(t *testing.T) {
	p := parse(t, fma)
	g := chains(20)
	m := compile(t, p, match.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 4} {
		_, err := m.FindParallel(ctx, g, workers)
		qt.Assert(t, qt.ErrorIs(err, context.Canceled))
	}
}
