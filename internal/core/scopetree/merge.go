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
	"log"

	"github.com/kr/pretty"

	"scopeql.dev/compiler/internal/scopedebug"
	"scopeql.dev/compiler/pathid"
)

// AttachPath attaches a scope subtree representing id to n.
//
// It builds a freshly-rooted candidate subtree from id's structural
// prefixes and folds it into n via AttachSubtree. A link-property prefix
// (IsLinkPropPath) attaches as a sibling of the link it annotates rather
// than as its descendant, because both describe the same navigation step,
// just read from the link itself versus from the object at its far end;
// the pointer-marker prefix that IterPrefixes emits immediately before it
// (IsPtrPath) exists only to flag this and never becomes a node of its own.
//
// Unlike the original, this implementation walks id.IterPrefixes(true) in
// the order the contract of pathid.PathId promises (root first, full path
// last) rather than reversing it: our PathId, unlike the external one the
// Python scopetree.py merely consumed, is defined by this module, so its
// IterPrefixes already returns prefixes in construction order and no
// reversal is needed (see DESIGN.md, Open Questions, item 7). The result
// is that each prefix node is the parent of the next longer prefix, with
// the full path as the deepest node. Resolving the sibling
// rule without that reversal takes one extra step: by the time the ptr
// marker is seen, the preceding link's node has already been descended
// into, so the link-property prefix attaches under that link node's own
// parent (lastChild.Parent) rather than under the current descent cursor.
func (n *Node) AttachPath(id pathid.PathId) {
	subtree := newNode(nil, true)
	parent := subtree
	var lastChild *Node
	isLprop := false

	for _, prefix := range id.IterPrefixes(true) {
		if prefix.IsPtrPath() {
			isLprop = true
			continue
		}

		prefix := prefix
		attachTo := parent
		if isLprop && lastChild != nil {
			attachTo = lastChild.Parent
		}

		child := newNode(&prefix, false)
		attachTo.AttachChild(child)

		if !isLprop {
			parent = child
		}
		isLprop = false
		lastChild = child
	}

	n.AttachSubtree(subtree)
}

// AddPath is a backward-compatible alias for AttachPath.
func (n *Node) AddPath(id pathid.PathId) { n.AttachPath(id) }

// AttachSubtree folds an already-built, balanced subtree into n, maintaining
// the tree's invariants: a path already visible from n is deduplicated, an
// unfenced path that already occurs in n's unfenced descendants has that
// occurrence unnested to n (matched with any trailing namespace tag the
// candidate subtree declares stripped; the promoted node's own PathId is not
// changed), and everything else is attached as a direct remainder, with
// those tags stripped from its paths.
//
// node is expected to be a balanced scope tree and may be mutated or
// consumed by this call.
func (n *Node) AttachSubtree(node *Node) {
	if node.PathId != nil {
		wrapper := newNode(nil, true)
		wrapper.AttachChild(node)
		node = wrapper
	}

	dns := node.DescendantNamespaces()
	logMergeValue("descendant namespaces", dns)

	for _, d := range node.StrictDescendants() {
		if d.PathId != nil {
			if v := n.FindVisible(*d.PathId, dns); v != nil {
				logMerge("destroy %s: already visible as %s", d.Name(), v.Name())
				d.Destroy()
				continue
			}
			if d.ParentFence() == node {
				stripped := d.PathId.StripNamespace(dns)
				if u := n.UnnestDescendants(stripped); u != nil {
					logMerge("unnest %s to %s", d.Name(), n.Name())
					continue
				}
			}
		}

		if d.Parent == node {
			for _, pd := range d.PathDescendants() {
				toStrip := map[string]bool{}
				for _, tag := range pd.PathId.Namespace() {
					if dns[tag] {
						toStrip[tag] = true
					}
				}
				stripped := pd.PathId.StripNamespace(toStrip)
				pd.PathId = &stripped
			}
			logMerge("attach remainder %s under %s", d.Name(), n.Name())
			n.AttachChild(d)
		}
	}
}

// AttachBranch is a backward-compatible alias for AttachSubtree.
func (n *Node) AttachBranch(node *Node) { n.AttachSubtree(node) }

// FindVisible returns the visible node for id from n's point of view, or
// nil. It walks n's ancestor chain, checking each ancestor itself and its
// direct children for equality under the combined namespace set (namespaces
// union the namespace tags accumulated along that walk).
func (n *Node) FindVisible(id pathid.PathId, namespaces map[string]bool) *Node {
	for _, an := range n.AncestorsAndNamespaces() {
		combined := unionNamespaces(namespaces, an.Namespaces)
		if pathsEqual(an.Node.PathId, &id, combined) {
			return an.Node
		}
		for c := range an.Node.Children {
			if pathsEqual(c.PathId, &id, combined) {
				return c
			}
		}
	}
	return nil
}

// UnnestDescendants scans n's unfenced descendants for nodes with a PathId
// exactly equal to id (no namespace tolerance: the caller has already
// stripped). If any are found, the first survives and is reparented
// directly under n; the rest are destroyed. UnnestDescendant (singular) is
// an alias, matching the naming split spec.md §9 records between the two
// copies of the original.
func (n *Node) UnnestDescendants(id pathid.PathId) *Node {
	var matches []*Node
	for _, d := range n.StrictUnfencedDescendants() {
		if d.PathId != nil && d.PathId.Equal(id) {
			matches = append(matches, d)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	for _, d := range matches[1:] {
		d.Destroy()
	}
	n.AttachChild(matches[0])
	return matches[0]
}

// UnnestDescendant is an alias for UnnestDescendants.
func (n *Node) UnnestDescendant(id pathid.PathId) *Node { return n.UnnestDescendants(id) }

func unionNamespaces(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

// pathsEqual implements the namespace-aware equality find_visible uses:
// both ids must be non-nil, and if either id's outermost (last) namespace
// tag is in namespaces, one level of namespace is peeled from that id
// before the structural comparison. This is the only place namespace
// semantics alter PathId comparison; it is not a full namespace quotient,
// and is deliberately not recursive (see SPEC_FULL.md/spec.md §4.3.3).
func pathsEqual(a, b *pathid.PathId, namespaces map[string]bool) bool {
	if a == nil || b == nil {
		return false
	}
	x, y := *a, *b
	if len(namespaces) > 0 {
		if ns := x.Namespace(); len(ns) > 0 && namespaces[ns[len(ns)-1]] {
			x = x.ReplaceNamespace(ns[:len(ns)-1])
		}
		if ns := y.Namespace(); len(ns) > 0 && namespaces[ns[len(ns)-1]] {
			y = y.ReplaceNamespace(ns[:len(ns)-1])
		}
	}
	return x.Equal(y)
}

func logMerge(format string, args ...any) {
	if !scopedebug.Flags.LogMerge {
		return
	}
	log.Printf("scopetree: %s", fmt.Sprintf(format, args...))
}

// logMergeValue logs a pretty-printed dump of v, used for the namespace
// sets AttachSubtree computes while folding a candidate subtree in.
func logMergeValue(label string, v any) {
	if !scopedebug.Flags.LogMerge {
		return
	}
	log.Printf("scopetree: %s: %s", label, pretty.Sprint(v))
}
