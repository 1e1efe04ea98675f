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
	"log"
	"strings"
)

func init() {
	log.SetFlags(0)
}

// logf writes a log line indented by the comparator's recursion depth.
func (c *comparator) logf(format string, args ...any) {
	w := &strings.Builder{}
	fmt.Fprintf(w, "[anchor %d] ", c.anchor)
	for i := 0; i < c.depth; i++ {
		w.WriteString("... ")
	}
	fmt.Fprintf(w, format, args...)
	_ = log.Output(2, w.String())
}
