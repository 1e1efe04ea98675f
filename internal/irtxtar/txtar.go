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

// Package irtxtar runs golden tests stored in txtar archives. It should only
// be imported by _test.go files.
package irtxtar

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"

	"irmatch.dev/go/encoding/iryaml"
	"irmatch.dev/go/ir"
	"irmatch.dev/go/ir/irtext"
)

// UpdateGoldenFiles determines whether golden sections are rewritten when
// they differ from the test output.
var UpdateGoldenFiles = os.Getenv("IRMATCH_UPDATE") != ""

// A TxTarTest represents a test run over all txtar files rooted in a given
// directory.
type TxTarTest struct {
	// Root is the directory holding the .txtar files.
	Root string

	// Name is a unique name for this test. The golden section for this test
	// is out/<name>.
	Name string

	// If Update is true, differing out/<name> sections are rewritten.
	Update bool

	// Skip maps tests to skip to their skip message.
	Skip map[string]string
}

// A Test represents a single test based on a .txtar file.
//
// A Test embeds *testing.T and should be used to report errors. Output
// written to the Test is compared against its golden section.
type Test struct {
	*testing.T

	Archive *txtar.Archive

	// Dir is the absolute path of the directory holding the archive.
	Dir string

	prefix   string
	buf      *bytes.Buffer
	outFiles []file
}

type file struct {
	name string
	buf  *bytes.Buffer
}

func (t *Test) Write(b []byte) (n int, err error) {
	if t.buf == nil {
		t.buf = &bytes.Buffer{}
		t.outFiles = append(t.outFiles, file{t.prefix, t.buf})
	}
	return t.buf.Write(b)
}

// Writer returns a Writer for the golden section out/<test name>/<name>.
func (t *Test) Writer(name string) io.Writer {
	if name == "" {
		return t
	}
	name = path.Join(t.prefix, name)
	for _, f := range t.outFiles {
		if f.name == name {
			return f.buf
		}
	}
	w := &bytes.Buffer{}
	t.outFiles = append(t.outFiles, file{name, w})
	return w
}

// HasTag reports whether the archive comment has a line "#key".
func (t *Test) HasTag(key string) bool {
	prefix := []byte("#" + key)
	s := bufio.NewScanner(bytes.NewReader(t.Archive.Comment))
	for s.Scan() {
		if bytes.Equal(bytes.TrimSpace(s.Bytes()), prefix) {
			return true
		}
	}
	return false
}

// Value returns the value of a line "#key: value" in the archive comment.
func (t *Test) Value(key string) (value string, ok bool) {
	prefix := []byte("#" + key + ":")
	s := bufio.NewScanner(bytes.NewReader(t.Archive.Comment))
	for s.Scan() {
		b := s.Bytes()
		if bytes.HasPrefix(b, prefix) {
			return string(bytes.TrimSpace(b[len(prefix):])), true
		}
	}
	return "", false
}

// File returns the contents of the named archive file, failing the test if
// there is none.
func (t *Test) File(name string) []byte {
	t.Helper()
	for _, f := range t.Archive.Files {
		if f.Name == name {
			return f.Data
		}
	}
	t.Fatalf("no file %q in archive", name)
	return nil
}

// Graph parses the named archive file as a graph, in text form for .ir
// files and YAML for .yaml files.
func (t *Test) Graph(name string) *ir.Graph {
	t.Helper()
	g, err := t.ParseGraph(name)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// ParseGraph is like Graph but returns the parse error.
func (t *Test) ParseGraph(name string) (*ir.Graph, error) {
	src := t.File(name)
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return iryaml.Decode(name, src)
	default:
		return irtext.Parse(name, src)
	}
}

// Run runs f for each .txtar file in x.Root or its subdirectories.
func (x *TxTarTest) Run(t *testing.T, f func(tc *Test)) {
	dir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	err = filepath.WalkDir(x.Root, func(fullpath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(fullpath) != ".txtar" {
			return nil
		}

		str := filepath.ToSlash(fullpath)
		p := strings.Index(str, "testdata/")
		testName := strings.TrimSuffix(str[p+len("testdata/"):], ".txtar")

		t.Run(testName, func(t *testing.T) {
			a, err := txtar.ParseFile(fullpath)
			if err != nil {
				t.Fatalf("error parsing txtar file: %v", err)
			}

			tc := &Test{
				T:       t,
				Archive: a,
				Dir:     filepath.Dir(filepath.Join(dir, fullpath)),
				prefix:  path.Join("out", x.Name),
			}

			if tc.HasTag("skip") {
				t.Skip()
			}
			if msg, ok := x.Skip[testName]; ok {
				t.Skip(msg)
			}

			f(tc)

			update := false
			for _, sub := range tc.outFiles {
				var gold *txtar.File
				for i, f := range a.Files {
					if f.Name == sub.name {
						gold = &a.Files[i]
					}
				}

				result := sub.buf.Bytes()

				switch {
				case gold == nil:
					a.Files = append(a.Files, txtar.File{Name: sub.name})
					gold = &a.Files[len(a.Files)-1]

				case bytes.Equal(gold.Data, result):
					continue
				}

				if x.Update || UpdateGoldenFiles {
					update = true
					gold.Data = result
					continue
				}

				t.Errorf("result for %s differs: (-want +got)\n%s",
					sub.name,
					cmp.Diff(string(gold.Data), string(result)))
			}

			if update {
				if err := os.WriteFile(fullpath, txtar.Format(a), 0o644); err != nil {
					t.Fatal(err)
				}
			}
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
