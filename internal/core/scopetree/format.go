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

package scopetree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mpvl/unique"
)

// Pformat renders a stable, deterministic representation of the subtree
// rooted at n, suitable for golden-file comparison in tests. Children are
// sorted by their own formatted text; empty non-path branches are omitted.
func (n *Node) Pformat() string {
	if len(n.Children) > 0 {
		var childFormats []string
		for c := range n.Children {
			if cf := c.Pformat(); cf != "" {
				childFormats = append(childFormats, cf)
			}
		}
		if len(childFormats) > 0 {
			sort.Strings(childFormats)
			return fmt.Sprintf("%q: {\n%s\n}", n.Name(), indent(strings.Join(childFormats, ",\n")))
		}
	}

	if n.PathId != nil {
		return fmt.Sprintf("%q", n.Name())
	}
	return ""
}

// debugID lazily assigns and returns a stable, random identity for n, used
// only by Pdebugformat. A freshly minted v4 UUID stands in for the Python
// original's id(self): it is at least as stable a label across a single
// debugging session, and unlike a raw pointer it survives being printed
// next to another process's dump without looking like an address.
func (n *Node) debugID() string {
	if n.dbgID == "" {
		n.dbgID = uuid.NewString()[:8]
	}
	return n.dbgID
}

func (n *Node) debugName() string {
	return fmt.Sprintf("%s 0x%s", n.Name(), n.debugID())
}

// Pdebugformat renders the subtree rooted at n including node identity and
// namespace annotations, for use in debugging. Unlike Pformat it does not
// omit empty branches, and its children are not sorted purely for
// determinism (namespaces are sorted for readability, but two structurally
// identical trees are not guaranteed to produce byte-identical debug
// output, since each node's identity is randomly assigned).
func (n *Node) Pdebugformat() string {
	label := n.debugName()
	if ns := sortedNamespaces(n.Namespaces); len(ns) > 0 {
		label = fmt.Sprintf("%s ns=%s", label, strings.Join(ns, ","))
	}

	if len(n.Children) == 0 {
		return fmt.Sprintf("%q", label)
	}

	var childFormats []string
	for c := range n.Children {
		childFormats = append(childFormats, c.Pdebugformat())
	}
	return fmt.Sprintf("%q: {\n%s\n}", label, indent(strings.Join(childFormats, ",\n")))
}

// sortedNamespaces returns the tags in ns deduplicated and sorted, using
// the same sort-then-dedupe idiom the rest of the pack reaches for instead
// of a hand-rolled map-to-slice loop.
func sortedNamespaces(ns map[string]bool) []string {
	tags := make([]string, 0, len(ns))
	for tag := range ns {
		tags = append(tags, tag)
	}
	unique.Strings(&tags)
	return tags
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}
