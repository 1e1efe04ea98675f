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

// Package stats holds counters describing the work done by a pattern
// search.
package stats

import (
	"strings"
	"sync"
	"text/template"
)

// Counts holds counters for key events during a pattern search.
type Counts struct {
	// Search counters

	// Anchors counts the target nodes tried as anchors.
	Anchors int64

	// Matches counts the anchors at which the pattern matched.
	Matches int64

	// Comparator counters
	//
	// NodeCompares and ValueCompares together measure the cost of a search.
	// With memoization each pattern node and value is compared at most once
	// per anchor, so their sum should stay close to Anchors times the size
	// of the pattern.

	NodeCompares  int64 // calls comparing a pattern node to a target node
	ValueCompares int64 // calls comparing a pattern value to a target value

	// MemoHits counts comparisons answered from an existing correspondence.
	MemoHits int64

	// WildcardHits counts comparisons of a pattern parameter node, which
	// match unconditionally.
	WildcardHits int64

	// Failure counters
	//
	// These break down the reasons for which an anchor attempt failed. Only
	// the first failure of an attempt is counted.

	RegionMisses    int64 // target node outside the anchor's region
	StructureMisses int64 // kind or arity mismatch
	UseCountMisses  int64 // differing number of uses
	MemoConflicts   int64 // correspondence already recorded differently

	// BudgetExceeded counts attempts abandoned because they exceeded the
	// configured visit budget.
	BudgetExceeded int64

	// MaxVisits is the largest number of comparisons made in a single
	// anchor attempt.
	MaxVisits int64
}

// Add accumulates other into c.
func (c *Counts) Add(other Counts) {
	c.Anchors += other.Anchors
	c.Matches += other.Matches

	c.NodeCompares += other.NodeCompares
	c.ValueCompares += other.ValueCompares
	c.MemoHits += other.MemoHits
	c.WildcardHits += other.WildcardHits

	c.RegionMisses += other.RegionMisses
	c.StructureMisses += other.StructureMisses
	c.UseCountMisses += other.UseCountMisses
	c.MemoConflicts += other.MemoConflicts
	c.BudgetExceeded += other.BudgetExceeded

	if other.MaxVisits > c.MaxVisits {
		c.MaxVisits = other.MaxVisits
	}
}

// Since returns the counts accumulated since start. MaxVisits is a peak and
// is returned as is.
func (c Counts) Since(start Counts) Counts {
	c.Anchors -= start.Anchors
	c.Matches -= start.Matches

	c.NodeCompares -= start.NodeCompares
	c.ValueCompares -= start.ValueCompares
	c.MemoHits -= start.MemoHits
	c.WildcardHits -= start.WildcardHits

	c.RegionMisses -= start.RegionMisses
	c.StructureMisses -= start.StructureMisses
	c.UseCountMisses -= start.UseCountMisses
	c.MemoConflicts -= start.MemoConflicts
	c.BudgetExceeded -= start.BudgetExceeded
	return c
}

// Visits reports the total number of comparator calls.
func (c Counts) Visits() int64 {
	return c.NodeCompares + c.ValueCompares
}

var stats = sync.OnceValue(func() *template.Template {
	return template.Must(template.New("stats").Parse(`{{"" -}}

Anchors: {{.Anchors}}
Matches: {{.Matches}}

NodeCompares:  {{.NodeCompares}}
ValueCompares: {{.ValueCompares}}
MemoHits:      {{.MemoHits}}
WildcardHits:  {{.WildcardHits}}
MaxVisits:     {{.MaxVisits}}{{if or .RegionMisses .StructureMisses .UseCountMisses .MemoConflicts}}
{{if .RegionMisses}}
RegionMisses:    {{.RegionMisses}}{{end}}{{if .StructureMisses}}
StructureMisses: {{.StructureMisses}}{{end}}{{if .UseCountMisses}}
UseCountMisses:  {{.UseCountMisses}}{{end}}{{if .MemoConflicts}}
MemoConflicts:   {{.MemoConflicts}}{{end}}{{end}}{{if .BudgetExceeded}}

BudgetExceeded: {{.BudgetExceeded}}{{end}}`))
})

func (c Counts) String() string {
	buf := &strings.Builder{}
	err := stats().Execute(buf, c)
	if err != nil {
		panic(err)
	}
	return buf.String()
}
