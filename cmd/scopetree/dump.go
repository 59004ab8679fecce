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
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"scopeql.dev/compiler/internal/scopequery"
)

func newDumpCmd() *cobra.Command {
	var pathsOnly bool
	var debugFormat bool

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "parse a scope script and print the resulting tree",
		Long: `dump reads a scope script (or stdin, if no file is given), builds the
scope tree it describes, and prints it.

A script is a sequence of lines, indentation marking which fence a line
nests under:

	fence               start a fenced branch
	ns=TAG               tag the branch active at this indentation
	User.friends.name     attach a path`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			root, err := scopequery.Parse(string(src))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if pathsOnly {
				for _, n := range root.GetAllPathNodes(false) {
					fmt.Fprintln(out, n.Name())
				}
				return nil
			}
			if debugFormat {
				fmt.Fprintln(out, root.Pdebugformat())
				return nil
			}
			fmt.Fprintln(out, root.Pformat())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&pathsOnly, "paths-only", false, "print only the attached path ids, one per line")
	flags.BoolVar(&debugFormat, "debug", false, "print the debug format, including node identity and namespaces")

	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}
