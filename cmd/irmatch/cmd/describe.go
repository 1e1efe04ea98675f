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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"irmatch.dev/go/ir"
)

func newDescribeCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe FILE",
		Short: "summarize the shape of a graph",
		Long: `Describe prints the number of inputs, outputs, nodes, values, and
regions of a graph, the nesting depth of its regions, and the node kinds
it uses.
`,
		Args: cobra.ExactArgs(1),
		RunE: mkRunE(c, runDescribe),
	}
	addOutFlag(cmd.Flags(), "text", "output format: text, json, or yaml")
	return cmd
}

func runDescribe(cmd *Command, args []string) error {
	g, err := readGraph(cmd, args[0])
	exitOnErr(cmd, err, true)

	s := ir.Describe(g)
	w := cmd.OutOrStdout()
	switch out := flagOut.String(cmd); out {
	case "text":
		fmt.Fprintf(w, "inputs:  %d\n", s.Inputs)
		fmt.Fprintf(w, "outputs: %d\n", s.Outputs)
		fmt.Fprintf(w, "nodes:   %d\n", s.Nodes)
		fmt.Fprintf(w, "values:  %d\n", s.Values)
		fmt.Fprintf(w, "regions: %d\n", s.Regions)
		fmt.Fprintf(w, "depth:   %d\n", s.MaxDepth)
		fmt.Fprintf(w, "kinds:   %s\n", strings.Join(s.Kinds, " "))
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", out)
	}
	return nil
}
