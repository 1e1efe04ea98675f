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

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"irmatch.dev/go/internal/irdebug"
	"irmatch.dev/go/internal/report"
	"irmatch.dev/go/match"
)

func newFindCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find PATTERN TARGET",
		Short: "find occurrences of a pattern in a graph",
		Long: `Find reports every occurrence of the pattern graph in the target graph.

Each node of the target is tried once as the anchor of a match: the node
corresponding to the producer of the pattern's output. Nodes of the root
region are tried first, followed by those of nested regions. Matches are
printed in that order.

The pattern's inputs match any value. Values computed inside the pattern
must not have uses outside of it, except for the value the pattern returns.
All matched nodes must lie in the region of the anchor.

Examples:

  $ irmatch find fma.ir prog.ir
  $ irmatch find --out json --stats fma.ir prog.yaml
`,
		Args: cobra.ExactArgs(2),
		RunE: mkRunE(c, runFind),
	}

	addOutFlag(cmd.Flags(), "text", "output format: text, json, or yaml")
	cmd.Flags().IntP(string(flagParallel), "j", 0,
		"number of goroutines trying anchors (default from IRMATCH_DEBUG, or 1)")
	cmd.Flags().Int(string(flagBudget), 0,
		"maximum number of comparisons per anchor; 0 means unlimited")
	cmd.Flags().Bool(string(flagStats), false, "print search statistics")
	return cmd
}

func runFind(cmd *Command, args []string) error {
	if err := irdebug.Init(); err != nil {
		return err
	}

	out := flagOut.String(cmd)
	switch out {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", out)
	}

	p, err := readGraph(cmd, args[0])
	exitOnErr(cmd, err, true)
	t, err := readGraph(cmd, args[1])
	exitOnErr(cmd, err, true)

	m, err := match.Compile(p, &match.Config{
		MaxVisits: flagBudget.Int(cmd),
		LogLevel:  irdebug.Flags.LogMatch,
		Strict:    irdebug.Flags.Strict,
	})
	exitOnErr(cmd, err, true)

	workers := irdebug.Flags.Parallel
	if flagParallel.IsSet(cmd) {
		workers = flagParallel.Int(cmd)
	}

	start := time.Now()
	ms, err := m.FindParallel(cmd.Context(), t, workers)
	if err != nil {
		return err
	}
	s := m.Stats()
	cmd.log.Info("search done",
		"anchors", s.Anchors,
		"matches", s.Matches,
		"workers", max(workers, 1),
		"elapsed", time.Since(start))

	r := &report.Report{
		Pattern: args[0],
		Target:  args[1],
		Matches: report.Matches(p, t, ms),
	}
	if flagStats.Bool(cmd) {
		r.Stats = &s
	}

	w := cmd.OutOrStdout()
	switch out {
	case "json":
		return report.WriteJSON(w, r)
	case "yaml":
		return report.WriteYAML(w, r)
	}
	if err := report.WriteText(w, r.Matches); err != nil {
		return err
	}
	if r.Stats != nil {
		fmt.Fprintf(w, "\n%v\n", r.Stats)
	}
	return nil
}
