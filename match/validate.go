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
	"errors"
	"fmt"

	"irmatch.dev/go/ir"
)

// ErrInvalidPattern is wrapped by all errors reporting that a graph cannot
// be used as a pattern.
var ErrInvalidPattern = errors.New("invalid pattern")

// A PatternError describes why a graph is not a valid pattern.
type PatternError struct {
	// Node is the offending pattern node.
	Node ir.NodeID
	// Reason describes the violated rule.
	Reason string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern: node %d: %s", e.Node, e.Reason)
}

func (e *PatternError) Is(err error) bool {
	return err == ErrInvalidPattern
}

// Validate reports whether p can be used as a pattern. A pattern must
//
//   - consist of a single region: no node may own a region, and
//   - have exactly one output: its return node has exactly one input.
//
// Validate does not check that distinct pattern values are free of aliasing
// or that producers are acyclic.
//
// TODO: reject patterns whose nodes may alias once the IR records effects.
func Validate(p Graph) error {
	if n := p.Return(); len(p.Blocks(n)) > 0 {
		return &PatternError{n, "pattern nodes may not own regions"}
	}
	for _, n := range p.RegionNodes(p.Root()) {
		if len(p.Blocks(n)) > 0 {
			return &PatternError{n, "pattern nodes may not own regions"}
		}
	}
	ret := p.Return()
	if k := len(p.Inputs(ret)); k != 1 {
		return &PatternError{ret, fmt.Sprintf("pattern must return exactly one value; found %d", k)}
	}
	return nil
}
