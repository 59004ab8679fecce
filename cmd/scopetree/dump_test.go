// Copyright 2018 The CUE Authors
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

package main

import (
	"bytes"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/txtar"
)

// TestDumpGolden runs dump against every testdata/*.txtar fixture. Each
// fixture has an "in" file (the scope script) and an "out" file (the
// expected Pformat output); "args" is optional, one flag per line.
func TestDumpGolden(t *testing.T) {
	err := filepath.WalkDir("testdata", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".txtar" {
			return nil
		}

		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(name, func(t *testing.T) {
			a, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}
			files := map[string]string{}
			for _, f := range a.Files {
				files[f.Name] = string(f.Data)
			}

			in, ok := files["in"]
			if !ok {
				t.Fatal("fixture is missing an \"in\" file")
			}
			want, ok := files["out"]
			if !ok {
				t.Fatal("fixture is missing an \"out\" file")
			}

			var args []string
			for _, line := range strings.Split(strings.TrimSpace(files["args"]), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					args = append(args, line)
				}
			}
			args = append([]string{"dump"}, args...)

			cmd := newRootCmd()
			cmd.SetArgs(args)
			cmd.SetIn(strings.NewReader(in))
			var out bytes.Buffer
			cmd.SetOut(&out)
			if err := cmd.Execute(); err != nil {
				t.Fatal(err)
			}

			if out.String() != want {
				t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", out.String(), want)
			}
		})
	})
	if err != nil {
		t.Fatal(err)
	}
}
