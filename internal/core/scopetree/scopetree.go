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

// Package scopetree implements the query scope tree: the data structure a
// declarative query compiler uses to track, for every path expression that
// appears in a query, the lexical region in which it is visible. See
// SPEC_FULL.md for the full design.
package scopetree

import (
	"fmt"

	"scopeql.dev/compiler/internal/scopedebug"
	"scopeql.dev/compiler/pathid"
)

// A Node is a node in the scope tree. The parent of a node owns it
// exclusively; Parent is a non-owning back-reference maintained alongside
// Children by AttachChild/RemoveSubtree. Unlike the Python original, which
// needs a weakref to avoid keeping a deallocated parent alive through a
// refcount cycle, a plain pointer is sufficient here: Go's garbage collector
// already reclaims a detached subtree once nothing reachable from a root
// refers to it, and a child can never keep its former parent alive on its
// own (see internal/core/adt.Vertex.Parent for the same reasoning in the
// teacher's own value tree).
type Node struct {
	// PathId is set for path nodes and nil for branch/fence nodes.
	PathId *pathid.PathId

	// Fenced marks this node as a scope boundary: unnesting does not reach
	// paths beneath it. FindVisible still walks up past it to every ancestor.
	Fenced bool

	// Optional records that the path this node represents is optional.
	// The tree only carries this flag; it is opaque to merging.
	Optional bool

	// ProtectParent records that this subtree must not influence its
	// parent's scope. The tree only carries this flag; it is opaque to
	// merging.
	ProtectParent bool

	// Namespaces is the set of namespace tags declared on this branch.
	// When a candidate subtree containing this branch is folded in by
	// AttachSubtree, these tags are ignored when looking for visible or
	// unnestable duplicates, and they are stripped from the paths it
	// attaches as remainders. A path that UnnestDescendants promotes out
	// from under this branch keeps its namespace unchanged.
	Namespaces map[string]bool

	// Children is this node's children. Order is not semantically
	// meaningful; pformat imposes a deterministic order on output.
	Children map[*Node]bool

	Parent *Node

	// dbgID is a lazily assigned debug identity, used only by
	// pdebugformat. See format.go.
	dbgID string
}

// NewRoot returns a fresh, fenced, empty root node, per spec.md §6's
// new_root constructor and §3.2 invariant 6 ("root node is a fence").
func NewRoot() *Node {
	return &Node{Fenced: true, Children: map[*Node]bool{}, Namespaces: map[string]bool{}}
}

func newNode(id *pathid.PathId, fenced bool) *Node {
	return &Node{PathId: id, Fenced: fenced, Children: map[*Node]bool{}, Namespaces: map[string]bool{}}
}

// Name renders a short label for the node, used by the pretty-printers.
func (n *Node) Name() string {
	if n.PathId == nil {
		if n.Fenced {
			return "FENCE"
		}
		return "BRANCH"
	}
	s := n.PathId.String()
	if n.Optional {
		s += " [OPT]"
	}
	return s
}

// assertf panics with a formatted message when scopedebug.Flags.Strict is
// set. The structural checks in setParent, RemoveSubtree and Collapse panic
// directly instead; every failure the engine raises indicates a bug in the
// calling compiler stage, never a recoverable runtime condition (see
// SPEC_FULL.md §4.1).
func assertf(format string, args ...any) {
	if scopedebug.Flags.Strict {
		panic(fmt.Sprintf(format, args...))
	}
}

// setParent detaches n from its current parent, if any, and attaches it to
// parent (or leaves it detached, if parent is nil). It is the single place
// that mutates both Node.Parent and the owning Children map, which keeps
// invariants P1/P2 (parent/child coherence, single parent) trivially true.
func (n *Node) setParent(parent *Node) {
	if parent == n.Parent {
		return
	}
	if n.Parent != nil {
		delete(n.Parent.Children, n)
	}
	if parent != nil {
		if scopedebug.Flags.Strict {
			for a := parent; a != nil; a = a.Parent {
				if a == n {
					panic("scopetree: attaching a node under its own descendant would create a cycle")
				}
			}
		}
		parent.Children[n] = true
	}
	n.Parent = parent
}

// AttachChild attaches child to n. This is a low-level primitive: it
// performs no visibility or duplicate checks. Callers that need the tree's
// merge invariants preserved use AttachSubtree instead.
func (n *Node) AttachChild(child *Node) {
	child.setParent(n)
}

// AttachFence creates and attaches an empty fenced node.
func (n *Node) AttachFence() *Node {
	fence := newNode(nil, true)
	n.AttachChild(fence)
	return fence
}

// AddFence is a backward-compatible alias for AttachFence.
func (n *Node) AddFence() *Node { return n.AttachFence() }

// Destroy removes n from the tree, unlinking it from its parent. The
// subtree rooted at n becomes an independent tree.
func (n *Node) Destroy() {
	if n.Parent != nil {
		n.Parent.RemoveSubtree(n)
	}
}

// RemoveSubtree removes the given child from n. It panics (a structural
// violation, see SPEC_FULL.md §4.1) if child is not currently a child of n.
func (n *Node) RemoveSubtree(child *Node) {
	if !n.Children[child] {
		panic(fmt.Sprintf("scopetree: %s is not a child of %s", child.Name(), n.Name()))
	}
	child.setParent(nil)
}

// RemoveChild is a backward-compatible alias for RemoveSubtree.
func (n *Node) RemoveChild(child *Node) { n.RemoveSubtree(child) }

// Collapse removes n, reattaching its children to n's parent. It panics if
// n is the root (has no parent).
func (n *Node) Collapse() {
	parent := n.Parent
	if parent == nil {
		panic("scopetree: cannot collapse the root node")
	}

	var subtree *Node
	if n.PathId != nil {
		subtree = newNode(nil, false)
		for child := range snapshotChildren(n) {
			subtree.AttachChild(child)
		}
	} else {
		subtree = n
	}
	parent.AttachSubtree(subtree)
	n.Destroy()
}

// Unfence is a backward-compatible alias: node.Unfence() == node.Collapse().
func (n *Node) Unfence() { n.Collapse() }

// IsEmpty reports whether no path node exists anywhere under n.
func (n *Node) IsEmpty() bool {
	if n.PathId != nil {
		return false
	}
	if len(n.Children) == 0 {
		return true
	}
	for c := range n.Children {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// GetAllVisible returns the set of path ids reachable from n's ancestor
// chain: n itself (if a path node) and, for every branch ancestor, its
// direct path children. PathId holds slices and so cannot be a Go map key
// directly; the set is keyed by its stable String() rendering instead.
func (n *Node) GetAllVisible() map[string]pathid.PathId {
	paths := map[string]pathid.PathId{}
	for _, a := range n.Ancestors() {
		if a.PathId != nil {
			paths[a.PathId.String()] = *a.PathId
		} else {
			for c := range a.Children {
				if c.PathId != nil {
					paths[c.PathId.String()] = *c.PathId
				}
			}
		}
	}
	return paths
}

// snapshotChildren returns a copy of n.Children, taken eagerly so callers
// can safely mutate parentage while iterating the result. Several of the
// surgical operations below (AttachSubtree in particular) reparent nodes
// mid-traversal; iterating the live map while doing so would be undefined.
func snapshotChildren(n *Node) map[*Node]bool {
	cp := make(map[*Node]bool, len(n.Children))
	for c := range n.Children {
		cp[c] = true
	}
	return cp
}
