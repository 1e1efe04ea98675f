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

package irdebug

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestInit(t *testing.T) {
	t.Setenv("IRMATCH_DEBUG", "logmatch=2,strict,parallel=4")
	qt.Assert(t, qt.IsNil(Init()))
	qt.Assert(t, qt.Equals(Flags, Config{LogMatch: 2, Strict: true, Parallel: 4}))

	// Init only reads the environment once.
	t.Setenv("IRMATCH_DEBUG", "bogus")
	qt.Assert(t, qt.IsNil(Init()))
}
