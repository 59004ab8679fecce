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

package scopequery_test

import (
	"errors"
	"strings"
	"testing"

	"scopeql.dev/compiler/internal/scopequery"
	"scopeql.dev/compiler/pathid"
)

// mkPath mirrors scopequery's own (unexported) parsePath, so tests can
// assert visibility without reaching into the package's internals.
func mkPath(expr string) pathid.PathId {
	base, linkProp, hasLinkProp := strings.Cut(expr, "@")
	parts := strings.Split(base, ".")
	sels := make([]pathid.Selector, 0, len(parts)+1)
	for i, p := range parts {
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
	return pathid.New(sels...)
}

func TestParseSimplePath(t *testing.T) {
	root, err := scopequery.Parse("User.friends.name\n")
	if err != nil {
		t.Fatal(err)
	}
	if root.FindVisible(mkPath("User.friends.name"), nil) == nil {
		t.Fatal("expected User.friends.name visible")
	}
}

func TestParseFenceIndentation(t *testing.T) {
	src := `
fence
  User.friends.name
User.friends.name
`
	root, err := scopequery.Parse(src)
	if err != nil {
		t.Fatal(err)
	}

	// The fence blocks dedup, so the dedented line gives root its own copy
	// of the path next to the fence.
	if len(root.Children) != 2 {
		t.Fatalf("expected two children (the fence and root's own User), got %d", len(root.Children))
	}
	fences := 0
	for c := range root.Children {
		if !c.Fenced {
			continue
		}
		fences++
		if c.FindVisible(mkPath("User.friends.name"), nil) == nil {
			t.Fatal("expected path attached inside the fence to be visible from it")
		}
	}
	if fences != 1 {
		t.Fatalf("expected exactly one fenced child of root, got %d", fences)
	}
}

func TestParseNamespace(t *testing.T) {
	src := `
fence
  ns=v1
  User.name
`
	root, err := scopequery.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	for c := range root.Children {
		if !c.Namespaces["v1"] {
			t.Fatalf("expected fence to carry namespace tag v1, got %v", c.Namespaces)
		}
	}
}

func TestParseLinkProperty(t *testing.T) {
	root, err := scopequery.Parse("User.friends@since\n")
	if err != nil {
		t.Fatal(err)
	}
	if root.IsEmpty() {
		t.Fatal("expected a non-empty tree")
	}
}

func TestParseCommentsAndBlankLines(t *testing.T) {
	src := "\n# a comment\n\nUser.name\n"
	root, err := scopequery.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if root.FindVisible(mkPath("User.name"), nil) == nil {
		t.Fatal("expected User.name visible")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"empty segment", "User..name\n"},
		{"empty namespace", "ns=\n"},
		{"multiple tokens", "User.name User.age\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := scopequery.Parse(tc.src)
			if err == nil {
				t.Fatal("expected an error")
			}
			var qerr *scopequery.Error
			if !errors.As(err, &qerr) {
				t.Fatalf("expected a *scopequery.Error, got %T", err)
			}
		})
	}
}
