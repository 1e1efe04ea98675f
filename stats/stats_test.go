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

package stats

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestStatsArithmetic(t *testing.T) {
	// Catch fields that were added but not handled by Add or Since.
	var s1 Counts
	s2 := randCounts()
	s1.Add(s2)
	qt.Assert(t, qt.Equals(s1, s2))

	diff := s2.Since(s1)
	diff.MaxVisits = 0
	qt.Assert(t, qt.Equals(diff, Counts{}))
}

func TestStatsAddMax(t *testing.T) {
	c := Counts{MaxVisits: 10}
	c.Add(Counts{MaxVisits: 3})
	qt.Assert(t, qt.Equals(c.MaxVisits, int64(10)))
	c.Add(Counts{MaxVisits: 12})
	qt.Assert(t, qt.Equals(c.MaxVisits, int64(12)))
}

func TestStatsString(t *testing.T) {
	s := randCounts().String()
	ct := reflect.TypeFor[Counts]()
	for i := range ct.NumField() {
		name := ct.Field(i).Name
		if !strings.Contains(s, name) {
			t.Errorf("string does not mention field %q", name)
		}
	}
}

func TestStatsStringOmitsZeroMisses(t *testing.T) {
	s := Counts{Anchors: 3, Matches: 1}.String()
	qt.Assert(t, qt.StringContains(s, "Anchors: 3"))
	qt.Assert(t, qt.IsFalse(strings.Contains(s, "RegionMisses")))
	qt.Assert(t, qt.IsFalse(strings.Contains(s, "BudgetExceeded")))
}

func TestVisits(t *testing.T) {
	c := Counts{NodeCompares: 4, ValueCompares: 5}
	qt.Assert(t, qt.Equals(c.Visits(), int64(9)))
}

// randCounts sets all the counts to random values >= 2.
func randCounts() Counts {
	s := new(Counts)
	sv := reflect.ValueOf(s).Elem()
	for i := range sv.NumField() {
		switch f := sv.Field(i).Addr().Interface().(type) {
		case *int64:
			*f = rand.Int64N(1000000) + 2
		default:
			panic(fmt.Errorf("unexpected field type at field %d", i))
		}
	}
	return *s
}
