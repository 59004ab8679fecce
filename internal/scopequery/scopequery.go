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

// Package scopequery implements the tiny, line-oriented DSL the scopetree
// CLI reads to build a tree without hand-writing Go: one directive per
// line, indentation marking which fence a line's directive nests under.
//
// Three kinds of line:
//
//	fence             start a new fenced branch, nested under the last
//	                  fence (or the root) whose own line is less indented
//	ns=TAG            tag the branch active at this indentation with TAG
//	User.friends.name attach a path, relative to the branch active at
//	                  this indentation; "@" marks a trailing link property
//	                  (User.friends@since)
//
// Blank lines and lines starting with "#" are ignored.
package scopequery

import (
	"fmt"
	"strings"

	"github.com/google/shlex"

	"scopeql.dev/compiler/internal/core/scopetree"
	"scopeql.dev/compiler/pathid"
)

// Error is a positional diagnostic from Parse. Unlike cue/errors.Error, it
// carries a line number rather than a token position: the DSL has no
// lexer in the cue/scanner sense, just one shlex-split word per line, so
// there is no richer position to report.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func errf(line int, format string, args ...any) error {
	return &Error{Line: line, Msg: fmt.Sprintf(format, args...)}
}

type frame struct {
	depth int
	node  *scopetree.Node
}

// Parse builds a scope tree from src and returns its root. The root is
// always a fresh, fenced node (scopetree.NewRoot), matching the engine's
// own invariant that a tree's root is a fence.
func Parse(src string) (*scopetree.Node, error) {
	root := scopetree.NewRoot()
	stack := []frame{{depth: -1, node: root}}

	for i, raw := range strings.Split(src, "\n") {
		line := i + 1
		depth, rest := indentOf(raw)
		rest = strings.TrimSpace(rest)
		if rest == "" || strings.HasPrefix(rest, "#") {
			continue
		}

		for len(stack) > 1 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
		ctx := stack[len(stack)-1].node

		tokens, err := shlex.Split(rest)
		if err != nil {
			return nil, errf(line, "tokenizing: %v", err)
		}
		if len(tokens) != 1 {
			return nil, errf(line, "expected exactly one directive, got %d", len(tokens))
		}
		tok := tokens[0]

		switch {
		case tok == "fence":
			f := ctx.AttachFence()
			stack = append(stack, frame{depth: depth, node: f})

		case strings.HasPrefix(tok, "ns="):
			tag := tok[len("ns="):]
			if tag == "" {
				return nil, errf(line, "empty namespace tag")
			}
			ctx.Namespaces[tag] = true

		default:
			id, err := parsePath(tok)
			if err != nil {
				return nil, errf(line, "%v", err)
			}
			ctx.AttachPath(id)
		}
	}

	return root, nil
}

// indentOf splits off line's leading indentation, counting either a tab or
// a pair of spaces as one depth level.
func indentOf(line string) (depth int, rest string) {
	i := 0
	for i < len(line) {
		switch {
		case line[i] == '\t':
			depth++
			i++
		case line[i] == ' ' && i+1 < len(line) && line[i+1] == ' ':
			depth++
			i += 2
		case line[i] == ' ':
			i++
		default:
			return depth, line[i:]
		}
	}
	return depth, line[i:]
}

// parsePath converts a dotted path expression into a PathId: the first
// segment is a type step, interior segments are link steps, and the final
// segment is a property step — unless the expression has a trailing
// "@name" link-property suffix, in which case the last dotted segment is a
// link step and "name" becomes the terminal link-property step.
func parsePath(expr string) (pathid.PathId, error) {
	base, linkProp, hasLinkProp := strings.Cut(expr, "@")
	if hasLinkProp && linkProp == "" {
		return pathid.PathId{}, fmt.Errorf("empty link property name in %q", expr)
	}

	parts := strings.Split(base, ".")
	sels := make([]pathid.Selector, 0, len(parts)+1)
	for i, p := range parts {
		if p == "" {
			return pathid.PathId{}, fmt.Errorf("empty path segment in %q", expr)
		}
		kind := pathid.Link
		switch {
		case i == 0:
			kind = pathid.Type
		case i == len(parts)-1 && !hasLinkProp:
			kind = pathid.Property
		}
		sels = append(sels, pathid.Selector{Name: p, Kind: kind})
	}
	if hasLinkProp {
		sels = append(sels, pathid.Selector{Name: linkProp, Kind: pathid.LinkProperty})
	}
	return pathid.New(sels...), nil
}
