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
	"fmt"
	"slices"

	"irmatch.dev/go/ir"
)

// Verify checks that m is a consistent match of pattern p in target t:
// corresponding nodes have equal kinds and arities and lie in the anchor's
// region, corresponding values are produced at the same output position of
// corresponding nodes, and the pattern output corresponds to an output of
// the anchor.
//
// Verify does not repeat the use-count checks made during the search.
func Verify(p, t Graph, m Match) error {
	region := t.Owner(m.Anchor)

	for _, e := range m.NodePairs() {
		pn, tn := e.Pattern, e.Target
		if t.Owner(tn) != region {
			return fmt.Errorf("node %d: target node %d not in anchor region %d", pn, tn, region)
		}
		if pk, tk := p.Kind(pn), t.Kind(tn); pk != tk {
			return fmt.Errorf("node %d: kind %v matched to %v", pn, pk, tk)
		}
		if len(p.Inputs(pn)) != len(t.Inputs(tn)) || len(p.Outputs(pn)) != len(t.Outputs(tn)) {
			return fmt.Errorf("node %d: arity differs from target node %d", pn, tn)
		}
	}

	for _, e := range m.ValuePairs() {
		pv, tv := e.Pattern, e.Target
		pd := p.Def(pv)
		if p.Kind(pd) == ir.Param {
			continue
		}
		td, ok := m.Nodes[pd]
		if !ok {
			return fmt.Errorf("value %d: producer %d has no correspondence", pv, pd)
		}
		if td != t.Def(tv) {
			return fmt.Errorf("value %d: produced by %d, target value %d by %d", pv, td, tv, t.Def(tv))
		}
		if slices.Index(p.Outputs(pd), pv) != slices.Index(t.Outputs(td), tv) {
			return fmt.Errorf("value %d: output position differs from target value %d", pv, tv)
		}
	}

	out := p.Inputs(p.Return())[0]
	if p.Kind(p.Def(out)) != ir.Param {
		if tv, ok := m.Values[out]; !ok || t.Def(tv) != m.Anchor {
			return fmt.Errorf("pattern output %d does not correspond to an output of anchor %d", out, m.Anchor)
		}
	}
	return nil
}
