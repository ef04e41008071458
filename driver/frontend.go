//  Copyright (c) 2023 Uber Technologies, Inc.
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

// Package driver glues the pipeline together: it parses base/left/right
// with whichever registered Frontend claims the file extension, runs
// the matcher three times, the merger once, and the renderer once, and
// writes the merge result to disk.
package driver

import (
	"fmt"

	"github.com/ctmerge/ctmerge/cst"
)

// Frontend is the contract a language plugin offers the driver: it
// recognizes a file extension and turns source text into a cst.Node.
// This mirrors the sub-analyzer plugin shape the repository's original
// equivalence analyzer used (one implementation per file format,
// selected by extension), generalized from "decide equivalence" to
// "produce a CST".
type Frontend interface {
	// Extensions lists the file extensions (dot-prefixed, e.g. ".go")
	// this front end can parse.
	Extensions() []string
	// Parse parses source (the full file contents) into a CST root,
	// drawing node identities from ids. Callers comparing multiple
	// trees together (base/left/right) must share one ids instance
	// across every Parse call in that comparison: matching keys a node
	// by its raw identity, and two independently-started generators
	// would assign the same small integers to unrelated nodes in
	// different trees.
	Parse(source string, ext string, ids *cst.IDGen) (cst.Node, error)
}

// Registry dispatches a file extension to the Frontend that claims it.
type Registry struct {
	byExt map[string]Frontend
}

// NewRegistry builds a Registry from a list of frontends, indexing each
// by every extension it reports. A later frontend silently overrides
// an earlier one for the same extension.
func NewRegistry(frontends ...Frontend) *Registry {
	r := &Registry{byExt: make(map[string]Frontend)}
	for _, f := range frontends {
		for _, ext := range f.Extensions() {
			r.byExt[ext] = f
		}
	}
	return r
}

// Parse dispatches to the frontend registered for ext.
func (r *Registry) Parse(source, ext string, ids *cst.IDGen) (cst.Node, error) {
	f, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("driver: no parser frontend registered for extension %q", ext)
	}
	return f.Parse(source, ext, ids)
}
