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
	"strings"

	"github.com/spf13/cobra"
)

// newHelpCmd is largely borrowed from cobra, but reports unknown topics
// on the error output.
func newHelpCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "help [command]",
		Short: "show help text for a command or topic",
		Run: func(_ *cobra.Command, args []string) {
			cmd, rest, err := c.Root().Find(args)
			found := cmd != nil && err == nil && len(rest) == 0
			if found && cmd.Name() == "help" {
				cmd, found = nil, false
			}
			if !found {
				fmt.Fprintf(c.Stderr(), "Unknown help topic: %s\n", strings.Join(args, " "))
				if cmd == nil {
					cmd = c.Root()
				}
				cobra.CheckErr(cmd.Usage())
				return
			}
			cobra.CheckErr(cmd.Help())
		},
	}
	return cmd
}

var helpTopics = []*cobra.Command{
	environmentHelp,
	formatsHelp,
}

var environmentHelp = &cobra.Command{
	Use:   "environment",
	Short: "environment variables",
	Long: `
The irmatch command consults environment variables for configuration.
If an environment variable is unset or empty, sensible default setting is used.

	IRMATCH_DEBUG
		Comma-separated list of debug flags to enable or disable, such as:

		logmatch=N
			Log the search to stderr. Level 1 logs every match,
			level 2 also logs every comparison step.
		strict
			Check every match for consistency as it is found and
			panic if one is not.
		parallel=N
			Try anchors on N goroutines unless --parallel is given.

IRMATCH_DEBUG is a comma-separated list of key-value strings, where the
value is a boolean "true" or "1" if omitted. For example:

	IRMATCH_DEBUG=logmatch=1,strict

Other environment variables:

	LC_ALL, LANG
		The language in which error messages are printed.
`[1:],
}

var formatsHelp = &cobra.Command{
	Use:   "formats",
	Short: "graph file formats",
	Long: `
Graphs are stored in one of two forms, selected by the file extension.

Files ending in .ir hold the text form:

	# fused multiply-add
	graph(%x, %y, %z):
	  %b = mul(%x, %y)
	  %c = add(%b, %z)
	  %r = loop(%c) {
	    %d = mul(%x, %c)
	  }
	  return (%c)

A graph lists its inputs, a sequence of nodes, and the values it returns.
Each node names the values it defines, its kind, and the values it uses,
and may be followed by any number of nested regions in braces. A value
must be defined before it is used, and values defined in a region are only
visible within that region. The kinds "param" and "return" are reserved.
Comments start with # and run to the end of the line.

Files ending in .yaml or .yml hold the same graph as YAML:

	inputs: [x, y, z]
	nodes:
	  - kind: mul
	    inputs: [x, y]
	    outputs: [b]
	  - kind: add
	    inputs: [b, z]
	    outputs: [c]
	  - kind: loop
	    inputs: [c]
	    outputs: [r]
	    blocks:
	      - nodes:
	          - {kind: mul, inputs: [x, c], outputs: [d]}
	outputs: [c]

Use 'irmatch fmt --out' to convert between the two forms.
`[1:],
}
