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

// Package irdebug holds the IRMATCH_DEBUG flags.
package irdebug

import (
	"sync"

	"irmatch.dev/go/internal/envflag"
)

// Flags holds the set of global IRMATCH_DEBUG flags. It is initialized by
// Init.
var Flags Config

// Config holds the set of known IRMATCH_DEBUG flags.
//
// When adding, deleting, or modifying entries below, update
// cmd/irmatch/cmd/help.go as well for `irmatch help environment`.
type Config struct {
	// LogMatch sets the log level for the matcher:
	//
	//	0: no logging
	//	1: log every successful anchor
	//	2: also log every comparison step
	LogMatch int

	// Strict re-verifies every match after it is found and panics if a
	// match breaks kind, arity, or region containment.
	Strict bool

	// Parallel is the default number of search workers used by the irmatch
	// command. Zero or one means a sequential search.
	Parallel int
}

// Init initializes Flags. It is not an init function so that tools can
// decide whether to honor the environment, and so that a malformed variable
// surfaces as an error rather than a panic.
func Init() error {
	return initOnce()
}

var initOnce = sync.OnceValue(func() error {
	return envflag.Init(&Flags, "IRMATCH_DEBUG")
})
