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
	"irmatch.dev/go/ir"
	"irmatch.dev/go/stats"
)

// A comparator holds the state of a single anchor attempt. A new comparator
// is created for each anchor, so no correspondence can leak from one
// attempt into the next.
type comparator struct {
	p, t Graph

	anchor ir.NodeID
	region ir.RegionID

	// Correspondences from pattern to target. An entry is recorded before
	// the entities it connects are compared further, which makes revisits
	// through diamonds or cycles a consistency check instead of a
	// recursion. Entries are never overwritten.
	nodes  map[ir.NodeID]ir.NodeID
	values map[ir.ValueID]ir.ValueID

	budget    int64 // zero means unlimited
	visits    int64
	exhausted bool

	logLevel int
	depth    int

	stats *stats.Counts
}

func newComparator(p, t Graph, anchor ir.NodeID, cfg *Config, counts *stats.Counts) *comparator {
	return &comparator{
		p:        p,
		t:        t,
		anchor:   anchor,
		region:   t.Owner(anchor),
		nodes:    map[ir.NodeID]ir.NodeID{},
		values:   map[ir.ValueID]ir.ValueID{},
		budget:   int64(cfg.MaxVisits),
		logLevel: cfg.LogLevel,
		stats:    counts,
	}
}

// visit accounts for one comparison and reports whether the budget allows
// it.
func (c *comparator) visit() bool {
	if c.exhausted {
		return false
	}
	c.visits++
	if c.budget > 0 && c.visits > c.budget {
		c.exhausted = true
		if c.logLevel > 1 {
			c.logf("visit budget of %d exhausted", c.budget)
		}
		return false
	}
	return true
}

// matchValue reports whether pattern value pv corresponds to target value
// tv.
func (c *comparator) matchValue(pv, tv ir.ValueID) bool {
	if !c.visit() {
		return false
	}
	c.stats.ValueCompares++

	if m, ok := c.values[pv]; ok {
		c.stats.MemoHits++
		if m != tv {
			c.stats.MemoConflicts++
			c.tracef("value %d: already matched %d, not %d", pv, m, tv)
			return false
		}
		return true
	}

	// Values produced by the anchor leave the matched region, and values
	// produced by a parameter enter it. Either may have uses that the
	// pattern does not describe.
	if c.p.NumUses(pv) != c.t.NumUses(tv) &&
		c.t.Def(tv) != c.anchor &&
		c.p.Kind(c.p.Def(pv)) != ir.Param {
		c.stats.UseCountMisses++
		c.tracef("value %d: %d uses, target value %d has %d",
			pv, c.p.NumUses(pv), tv, c.t.NumUses(tv))
		return false
	}

	c.values[pv] = tv
	return c.matchNode(c.p.Def(pv), c.t.Def(tv))
}

// matchNode reports whether pattern node pn corresponds to target node tn.
// Outputs are compared before inputs.
func (c *comparator) matchNode(pn, tn ir.NodeID) bool {
	if !c.visit() {
		return false
	}
	c.stats.NodeCompares++

	if m, ok := c.nodes[pn]; ok {
		c.stats.MemoHits++
		if m != tn {
			c.stats.MemoConflicts++
			c.tracef("node %d: already matched %d, not %d", pn, m, tn)
			return false
		}
		return true
	}

	pk := c.p.Kind(pn)
	if pk == ir.Param {
		c.stats.WildcardHits++
		return true
	}

	if c.t.Owner(tn) != c.region {
		c.stats.RegionMisses++
		c.tracef("node %d: target node %d is outside region %d", pn, tn, c.region)
		return false
	}

	pOut, tOut := c.p.Outputs(pn), c.t.Outputs(tn)
	pIn, tIn := c.p.Inputs(pn), c.t.Inputs(tn)
	if tk := c.t.Kind(tn); pk != tk || len(pOut) != len(tOut) || len(pIn) != len(tIn) {
		c.stats.StructureMisses++
		c.tracef("node %d: %v/%d->%d does not match %v/%d->%d of target node %d",
			pn, pk, len(pIn), len(pOut), tk, len(tIn), len(tOut), tn)
		return false
	}

	c.nodes[pn] = tn
	c.tracef("node %d: %v matches target node %d", pn, pk, tn)

	c.depth++
	defer func() { c.depth-- }()

	for i, pv := range pOut {
		if !c.matchValue(pv, tOut[i]) {
			return false
		}
	}
	for i, pv := range pIn {
		if !c.matchValue(pv, tIn[i]) {
			return false
		}
	}
	return true
}

func (c *comparator) tracef(format string, args ...any) {
	if c.logLevel > 1 {
		c.logf(format, args...)
	}
}
