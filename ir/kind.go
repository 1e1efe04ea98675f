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
	"fmt"
	"sync"
)

// A Kind identifies the operator of a node. Kinds are interned: two kinds
// are the same operator if and only if they compare equal.
type Kind uint32

const (
	// InvalidKind is the zero Kind. No node carries it.
	InvalidKind Kind = iota

	// Param is the kind of a graph's parameter node. The outputs of the
	// parameter node are the inputs of the graph. In a pattern graph, a
	// Param node is a wildcard that stands for any producer.
	Param

	// Return is the kind of a graph's exit node. Its inputs are the outputs
	// of the graph.
	Return

	numPredeclared
)

// kindIndex maps kind names to their interned codes. It is shared by all
// graphs so that kinds of a pattern and a target compare by value.
type kindIndex struct {
	mu     sync.RWMutex
	byName map[string]Kind
	names  []string
}

var kinds = &kindIndex{
	byName: map[string]Kind{
		"param":  Param,
		"return": Return,
	},
	names: []string{"invalid", "param", "return"},
}

// MakeKind returns the interned Kind for the given operator name. The names
// "param" and "return" map to [Param] and [Return]. MakeKind panics if name
// is empty.
func MakeKind(name string) Kind {
	if name == "" {
		panic("ir: empty kind name")
	}
	kinds.mu.RLock()
	k, ok := kinds.byName[name]
	kinds.mu.RUnlock()
	if ok {
		return k
	}

	kinds.mu.Lock()
	defer kinds.mu.Unlock()
	if k, ok := kinds.byName[name]; ok {
		return k
	}
	k = Kind(len(kinds.names))
	kinds.byName[name] = k
	kinds.names = append(kinds.names, name)
	return k
}

// String returns the name with which k was interned.
func (k Kind) String() string {
	kinds.mu.RLock()
	defer kinds.mu.RUnlock()
	if int(k) < len(kinds.names) {
		return kinds.names[k]
	}
	return fmt.Sprintf("Kind(%d)", uint32(k))
}

// IsPredeclared reports whether k is one of the kinds with a fixed meaning.
func (k Kind) IsPredeclared() bool {
	return k < numPredeclared
}
