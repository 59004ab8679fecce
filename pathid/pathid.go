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

// Package pathid defines PathId, the immutable structural identifier of a
// navigation path used by the scope tree to track visibility of path
// expressions within a query.
package pathid

import "strings"

// Kind distinguishes the role a Selector plays within a path.
type Kind uint8

const (
	// Type identifies an object type, e.g. the root step of "User.name".
	Type Kind = iota
	// Link traverses a pointer/edge to another object, e.g. ".friends".
	Link
	// Property reads a scalar property of an object, e.g. ".name".
	Property
	// LinkProperty reads a property carried by a link itself rather than
	// by the object at its far end, e.g. ".friends@since". A LinkProperty
	// selector is always the final selector of a PathId: this package
	// does not model navigation past a link property.
	LinkProperty
)

// A Selector is one structural step of a path.
type Selector struct {
	Name string
	Kind Kind
}

// PathId is the immutable structural identifier of a navigation path, plus
// the namespace stack under which it was constructed. Two PathIds with
// identical selectors and ptr flag are structurally equal regardless of
// namespace; namespace participates only in the scope tree's own
// find-visible equality (see internal/core/scopetree).
type PathId struct {
	selectors []Selector
	ptr       bool
	namespace []string
}

// New creates a PathId from a sequence of selectors with an empty namespace.
func New(selectors ...Selector) PathId {
	return PathId{selectors: append([]Selector(nil), selectors...)}
}

// IsZero reports whether p is the zero PathId (no selectors).
func (p PathId) IsZero() bool {
	return len(p.selectors) == 0
}

// Equal reports whether p and other have the same structural identity.
// Namespace is deliberately excluded: callers that need namespace-aware
// comparison use the scope tree's find-visible logic instead.
func (p PathId) Equal(other PathId) bool {
	if p.ptr != other.ptr || len(p.selectors) != len(other.selectors) {
		return false
	}
	for i, s := range p.selectors {
		if s != other.selectors[i] {
			return false
		}
	}
	return true
}

// Namespace returns the namespace stack, most recent last.
func (p PathId) Namespace() []string {
	return p.namespace
}

// ReplaceNamespace returns a copy of p with its namespace stack replaced.
func (p PathId) ReplaceNamespace(ns []string) PathId {
	p.namespace = append([]string(nil), ns...)
	return p
}

// StripNamespace removes the trailing namespace entries that are contained
// in tags, stopping at the first entry that is not. It is idempotent:
// stripping the same tag set twice in a row is the same as stripping it once.
func (p PathId) StripNamespace(tags map[string]bool) PathId {
	n := len(p.namespace)
	for n > 0 && tags[p.namespace[n-1]] {
		n--
	}
	if n == len(p.namespace) {
		return p
	}
	return p.ReplaceNamespace(p.namespace[:n])
}

// IsPtrPath reports whether p is a pointer-marker prefix: a sentinel,
// non-attaching prefix produced by IterPrefixes immediately before a
// LinkProperty prefix, flagging that the following prefix is a
// link-property navigation.
func (p PathId) IsPtrPath() bool {
	return p.ptr
}

// IsLinkPropPath reports whether p's final selector reads a property of a
// link rather than of a target object.
func (p PathId) IsLinkPropPath() bool {
	if len(p.selectors) == 0 {
		return false
	}
	return p.selectors[len(p.selectors)-1].Kind == LinkProperty
}

// IterPrefixes enumerates each structural prefix of p exactly once, from
// the root navigation step to the full path. When includePtr is true, a
// pointer-marker prefix (IsPtrPath true) is inserted immediately before
// every LinkProperty prefix.
func (p PathId) IterPrefixes(includePtr bool) []PathId {
	var out []PathId
	for i := 1; i <= len(p.selectors); i++ {
		last := p.selectors[i-1]
		if includePtr && last.Kind == LinkProperty {
			out = append(out, PathId{
				selectors: append([]Selector(nil), p.selectors[:i-1]...),
				ptr:       true,
				namespace: p.namespace,
			})
		}
		out = append(out, PathId{
			selectors: append([]Selector(nil), p.selectors[:i]...),
			namespace: p.namespace,
		})
	}
	return out
}

// String renders a stable, human-readable form of p, used by the scope
// tree's pretty-printers.
func (p PathId) String() string {
	var b strings.Builder
	for _, ns := range p.namespace {
		b.WriteByte('[')
		b.WriteString(ns)
		b.WriteByte(']')
	}
	for i, s := range p.selectors {
		switch s.Kind {
		case Type:
			b.WriteString(s.Name)
		case Link, Property:
			b.WriteByte('.')
			b.WriteString(s.Name)
		case LinkProperty:
			b.WriteByte('@')
			b.WriteString(s.Name)
		}
		_ = i
	}
	if p.ptr {
		b.WriteString("~ptr")
	}
	return b.String()
}
