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

// Package report renders pattern matches for people and tools.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"irmatch.dev/go/ir"
	"irmatch.dev/go/match"
	"irmatch.dev/go/stats"
)

// Pair is one entry of a correspondence, rendered as source text.
type Pair struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Target  string `json:"target" yaml:"target"`
}

// Match is the rendered form of a [match.Match].
type Match struct {
	Anchor string `json:"anchor" yaml:"anchor"`
	// Depth is the nesting depth of the anchor's region.
	Depth  int    `json:"depth" yaml:"depth"`
	Nodes  []Pair `json:"nodes" yaml:"nodes"`
	Values []Pair `json:"values" yaml:"values"`
}

// Report is the result of one search.
type Report struct {
	Pattern string        `json:"pattern" yaml:"pattern"`
	Target  string        `json:"target" yaml:"target"`
	Matches []Match       `json:"matches" yaml:"matches"`
	Stats   *stats.Counts `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// Matches renders ms, which must be matches of pattern p in target t.
// Values of both graphs are named consistently across all matches.
func Matches(p, t *ir.Graph, ms []match.Match) []Match {
	pn, tn := ir.NewNamer(p), ir.NewNamer(t)
	// Name the pattern inputs first so that they keep their names.
	pn.Names(p.Params())

	out := make([]Match, 0, len(ms))
	for _, m := range ms {
		r := Match{
			Anchor: tn.NodeString(m.Anchor),
			Depth:  t.Depth(t.Owner(m.Anchor)),
			Nodes:  []Pair{},
			Values: []Pair{},
		}
		for _, e := range m.NodePairs() {
			r.Nodes = append(r.Nodes, Pair{pn.NodeString(e.Pattern), tn.NodeString(e.Target)})
		}
		for _, e := range m.ValuePairs() {
			r.Values = append(r.Values, Pair{"%" + pn.Name(e.Pattern), "%" + tn.Name(e.Target)})
		}
		out = append(out, r)
	}
	return out
}

// WriteText writes ms in a line-oriented form:
//
//	match 1: %s = add(%m, %r)
//	  nodes:
//	    %b = mul(%x, %y) => %m = mul(%p, %q)
//	  values:
//	    %b => %m
func WriteText(w io.Writer, ms []Match) error {
	var buf bytes.Buffer
	if len(ms) == 0 {
		buf.WriteString("no matches\n")
	}
	for i, m := range ms {
		fmt.Fprintf(&buf, "match %d: %s\n", i+1, m.Anchor)
		if m.Depth > 0 {
			fmt.Fprintf(&buf, "  depth: %d\n", m.Depth)
		}
		buf.WriteString("  nodes:\n")
		for _, p := range m.Nodes {
			fmt.Fprintf(&buf, "    %s => %s\n", p.Pattern, p.Target)
		}
		buf.WriteString("  values:\n")
		for _, p := range m.Values {
			fmt.Fprintf(&buf, "    %s => %s\n", p.Pattern, p.Target)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteYAML writes r as YAML.
func WriteYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
