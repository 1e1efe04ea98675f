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
	"github.com/spf13/cobra"
)

func newFmtCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "print a graph in canonical form",
		Long: `Fmt prints the graph held in FILE in canonical form: comments are
dropped, spacing is normalized, and values without a unique name are
numbered.

By default the graph is printed in the format of FILE. Use --out to
convert between the text and YAML forms.
`,
		Args: cobra.ExactArgs(1),
		RunE: mkRunE(c, runFmt),
	}
	addOutFlag(cmd.Flags(), "", "output format: text or yaml (default the format of FILE)")
	return cmd
}

func runFmt(cmd *Command, args []string) error {
	g, err := readGraph(cmd, args[0])
	exitOnErr(cmd, err, true)

	out := flagOut.String(cmd)
	if out == "" {
		out, _ = fileFormat(args[0])
	}
	return writeGraph(cmd.OutOrStdout(), g, out)
}
