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
	"irmatch.dev/go/internal/irdebug"
)

// Config controls a Matcher. The zero value is a sequential, silent search
// without a visit budget.
type Config struct {
	// MaxVisits bounds the number of node and value comparisons made while
	// trying a single anchor. An attempt exceeding it is abandoned and
	// treated as a non-match. Zero means no bound.
	MaxVisits int

	// LogLevel enables logging of the search to the standard logger.
	// See [irdebug.Config.LogMatch] for the levels.
	LogLevel int

	// Strict re-verifies each match as it is found and panics if it is
	// inconsistent.
	Strict bool
}

// defaultConfig returns the configuration implied by IRMATCH_DEBUG.
func defaultConfig() (Config, error) {
	if err := irdebug.Init(); err != nil {
		return Config{}, err
	}
	return Config{
		LogLevel: irdebug.Flags.LogMatch,
		Strict:   irdebug.Flags.Strict,
	}, nil
}
