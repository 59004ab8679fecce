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

// Package scopedebug holds the set of SCOPETREE_DEBUG flags recognized by
// the scope tree engine and its CLI frontend.
package scopedebug

import (
	"sync"

	"scopeql.dev/compiler/internal/envflag"
)

// Flags holds the current set of SCOPETREE_DEBUG flags. It is initialized
// lazily by Init.
var Flags Config

// Config holds the set of known SCOPETREE_DEBUG flags.
type Config struct {
	// Strict enables extra invariant assertions in the scope tree engine,
	// such as a non-cyclicity check in AttachChild. RemoveSubtree's check
	// that its argument is a child runs whether or not Strict is set. It
	// should be on in development and in tests, and may
	// be left off in production where the cost of a redundant check is
	// not worth paying on a hot path that has already been exercised by
	// the former.
	Strict bool `envflag:"default:true"`

	// LogMerge causes AttachSubtree to log each destroy/unnest/attach
	// decision it makes while folding a candidate subtree into the
	// master tree.
	LogMerge bool
}

// Init initializes Flags from the SCOPETREE_DEBUG environment variable.
func Init() error {
	return initOnce()
}

var initOnce = sync.OnceValue(func() error {
	return envflag.Init(&Flags, "SCOPETREE_DEBUG")
})
