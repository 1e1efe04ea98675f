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
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"irmatch.dev/go/ir"
	"irmatch.dev/go/stats"
)

// A Matcher searches target graphs for a validated pattern.
//
// A Matcher may be used by multiple goroutines simultaneously; each search
// keeps its own state.
type Matcher struct {
	pattern Graph
	// exit is the pattern node producing the pattern's output. It is the
	// node compared against each anchor.
	exit ir.NodeID
	cfg  Config

	mu    sync.Mutex
	stats stats.Counts
}

// Compile validates pattern and returns a Matcher for it. A nil cfg selects
// the defaults of the IRMATCH_DEBUG environment variable.
//
// Errors describing an unusable pattern wrap [ErrInvalidPattern].
func Compile(pattern Graph, cfg *Config) (*Matcher, error) {
	if err := Validate(pattern); err != nil {
		return nil, err
	}
	m := &Matcher{pattern: pattern}
	if cfg != nil {
		m.cfg = *cfg
	} else {
		c, err := defaultConfig()
		if err != nil {
			return nil, err
		}
		m.cfg = c
	}
	out := pattern.Inputs(pattern.Return())[0]
	m.exit = pattern.Def(out)
	return m, nil
}

// MustCompile is like Compile but panics if the pattern is invalid.
// An invalid pattern is a programming error in the code that authored it.
func MustCompile(pattern Graph, cfg *Config) *Matcher {
	m, err := Compile(pattern, cfg)
	if err != nil {
		panic(err)
	}
	return m
}

// FindMatches returns all matches of pattern in target, in the order
// described by [Anchors]. It panics if pattern is not a valid pattern.
func FindMatches(pattern, target Graph) []Match {
	return MustCompile(pattern, nil).Find(target)
}

// Stats returns the counters accumulated by all searches of m so far.
func (m *Matcher) Stats() stats.Counts {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *Matcher) addStats(c stats.Counts) {
	m.mu.Lock()
	m.stats.Add(c)
	m.mu.Unlock()
}

// Find tries every node of target as an anchor and returns the matches in
// anchor order. A node is the anchor of at most one match, but may take part
// in any number of other matches; matches are neither deduplicated nor
// filtered for overlap.
func (m *Matcher) Find(target Graph) []Match {
	var counts stats.Counts
	var matches []Match
	ir.Walk(target, func(n ir.NodeID) {
		if x, ok := m.try(target, n, &counts); ok {
			matches = append(matches, x)
		}
	})
	m.addStats(counts)
	return matches
}

// MatchAt tries a single anchor.
func (m *Matcher) MatchAt(target Graph, anchor ir.NodeID) (Match, bool) {
	var counts stats.Counts
	x, ok := m.try(target, anchor, &counts)
	m.addStats(counts)
	return x, ok
}

// FindParallel is like Find, but tries anchors on up to workers goroutines.
// The result is identical to that of Find. FindParallel returns ctx.Err()
// if ctx is canceled before all anchors were tried.
func (m *Matcher) FindParallel(ctx context.Context, target Graph, workers int) ([]Match, error) {
	if workers <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return m.Find(target), nil
	}

	anchors := Anchors(target)
	results := make([]*Match, len(anchors))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	chunk := (len(anchors) + workers - 1) / workers
	for start := 0; start < len(anchors); start += chunk {
		end := min(start+chunk, len(anchors))
		g.Go(func() error {
			var counts stats.Counts
			defer func() { m.addStats(counts) }()
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if x, ok := m.try(target, anchors[i], &counts); ok {
					results[i] = &x
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var matches []Match
	for _, x := range results {
		if x != nil {
			matches = append(matches, *x)
		}
	}
	return matches, nil
}

// try runs a single anchor attempt with a fresh comparator.
func (m *Matcher) try(target Graph, anchor ir.NodeID, counts *stats.Counts) (Match, bool) {
	counts.Anchors++
	c := newComparator(m.pattern, target, anchor, &m.cfg, counts)
	ok := c.matchNode(m.exit, anchor)

	if c.visits > counts.MaxVisits {
		counts.MaxVisits = c.visits
	}
	if c.exhausted {
		counts.BudgetExceeded++
		return Match{}, false
	}
	if !ok {
		return Match{}, false
	}

	counts.Matches++
	x := Match{Anchor: anchor, Nodes: c.nodes, Values: c.values}
	if m.cfg.LogLevel > 0 {
		c.logf("match: %d nodes, %d values", len(x.Nodes), len(x.Values))
	}
	if m.cfg.Strict {
		if err := Verify(m.pattern, target, x); err != nil {
			panic(fmt.Sprintf("match: inconsistent match at anchor %d: %v", anchor, err))
		}
	}
	return x, true
}

// Anchors returns the nodes of g in the order in which a search tries them.
// See [ir.Walk] for the order.
func Anchors(g Graph) []ir.NodeID {
	var nodes []ir.NodeID
	ir.Walk(g, func(n ir.NodeID) { nodes = append(nodes, n) })
	return nodes
}
