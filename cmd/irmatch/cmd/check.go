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

	"github.com/spf13/cobra"

	"irmatch.dev/go/match"
)

func newCheckCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check PATTERN...",
		Short: "check that graphs are valid patterns",
		Long: `Check reports, for each named file, whether the graph it holds can be
used as a pattern. A pattern must return exactly one value, and none of
its nodes may own a region.

Check prints nothing for valid patterns and exits with a non-zero code if
any file could not be read or is not a valid pattern.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: mkRunE(c, runCheck),
	}
	return cmd
}

func runCheck(cmd *Command, args []string) error {
	for _, file := range args {
		g, err := readGraph(cmd, file)
		if err != nil {
			exitOnErr(cmd, err, false)
			continue
		}
		if err := match.Validate(g); err != nil {
			exitOnErr(cmd, fmt.Errorf("%s: %w", file, err), false)
			continue
		}
		cmd.log.Info("valid pattern", "file", file)
	}
	return nil
}
