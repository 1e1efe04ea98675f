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
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"irmatch.dev/go/encoding/iryaml"
	"irmatch.dev/go/ir"
	"irmatch.dev/go/ir/irtext"
)

func getLang() language.Tag {
	loc := os.Getenv("LC_ALL")
	if loc == "" {
		loc = os.Getenv("LANG")
	}
	loc = strings.Split(loc, ".")[0]
	return language.Make(loc)
}

// exitOnErr prints err to the error output of cmd. If fatal is set, it then
// terminates the command.
func exitOnErr(cmd *Command, err error, fatal bool) {
	if err == nil {
		return
	}

	// Link x/text as our localizer.
	p := message.NewPrinter(getLang())

	w := &bytes.Buffer{}
	var list irtext.ErrorList
	if errors.As(err, &list) {
		for _, e := range list {
			p.Fprintf(w, "%v\n", e)
		}
	} else {
		p.Fprintf(w, "%v\n", err)
	}

	_, _ = cmd.Stderr().Write(w.Bytes())
	if fatal {
		exit()
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Keep the output stable for comparisons.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// Graph formats, determined by file extension.
const (
	formatText = "text"
	formatYAML = "yaml"
)

func fileFormat(filename string) (string, error) {
	switch ext := filepath.Ext(filename); ext {
	case ".ir":
		return formatText, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("%s: unknown graph file type %q (want .ir, .yaml, or .yml)", filename, ext)
	}
}

// readGraph reads the graph stored in filename.
func readGraph(cmd *Command, filename string) (*ir.Graph, error) {
	format, err := fileFormat(filename)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var g *ir.Graph
	switch format {
	case formatText:
		g, err = irtext.Parse(filename, src)
	case formatYAML:
		g, err = iryaml.Decode(filename, src)
	}
	if err != nil {
		return nil, err
	}
	cmd.log.Info("read graph",
		"file", filename,
		"nodes", g.NumNodes(),
		"elapsed", time.Since(start))
	return g, nil
}

// writeGraph writes g in the given format.
func writeGraph(w io.Writer, g *ir.Graph, format string) error {
	switch format {
	case formatText:
		return irtext.Fprint(w, g)
	case formatYAML:
		b, err := iryaml.Encode(g)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}
