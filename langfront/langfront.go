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

// Package langfront adapts the tree-sitter reference parser front end
// (package treesitter, configured per-language by package parserconfig)
// to the driver.Frontend interface, so the CLI can register it in a
// driver.Registry alongside any other language's front end.
package langfront

import (
	"fmt"

	"github.com/ctmerge/ctmerge/cst"
	"github.com/ctmerge/ctmerge/driver"
	"github.com/ctmerge/ctmerge/gomodfront"
	"github.com/ctmerge/ctmerge/parserconfig"
	"github.com/ctmerge/ctmerge/treesitter"
)

// TreeSitter is a driver.Frontend backed by the bundled tree-sitter
// grammars. One instance holds one language's compiled Config;
// DefaultRegistry builds the set the CLI actually needs.
type TreeSitter struct {
	ext    string
	config *parserconfig.Config
}

// New loads the bundled configuration for language and pairs it with
// the tree-sitter grammar registered for ext (e.g. ("java", ".java")).
// extra lets a caller override or add identifier extractors beyond
// parserconfig.DefaultRegistry without forking the bundled YAML.
func New(language, ext string, extra parserconfig.Registry) (*TreeSitter, error) {
	config, err := parserconfig.Load(language, extra)
	if err != nil {
		return nil, fmt.Errorf("langfront: loading %q configuration: %w", language, err)
	}
	return &TreeSitter{ext: ext, config: config}, nil
}

func (f *TreeSitter) Extensions() []string { return []string{f.ext} }

func (f *TreeSitter) Parse(source, ext string, ids *cst.IDGen) (cst.Node, error) {
	return treesitter.Parse(source, ext, f.config, ids)
}

// DefaultRegistry builds a driver.Registry covering every language
// bundled with parserconfig (Java, the CLI's reference configuration,
// and Go) plus the go.mod front end, which is grounded on a different
// library (golang.org/x/mod/modfile) since go.mod isn't a tree-sitter
// grammar shipped with this repository.
func DefaultRegistry() (*driver.Registry, error) {
	javaFront, err := New("java", treesitter.JavaExt, nil)
	if err != nil {
		return nil, err
	}
	goFront, err := New("go", treesitter.GoExt, nil)
	if err != nil {
		return nil, err
	}
	return driver.NewRegistry(javaFront, goFront, gomodfront.Frontend{}), nil
}
