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

// Command scopetree builds a query scope tree from a small line-oriented
// DSL (see internal/scopequery) and prints it, exercising the engine end
// to end from a shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scopeql.dev/compiler/internal/scopedebug"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scopetree",
		Short:         "build and inspect query scope trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return scopedebug.Init()
		},
	}
	root.AddCommand(newDumpCmd())
	return root
}
