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

// Package parserconfig describes, per language, how a parser front end
// should shape the concrete syntax trees it builds: which grammar
// kinds are opaque, which have unordered children, where unordered
// blocks end, and how to derive an identifier tuple for a node. The
// core (matcher, merger, renderer) only ever consumes the resulting
// cst.Node trees; it never talks to a parser front end directly.
package parserconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Child is one direct child of a node being considered for identifier
// extraction: its grammar kind and its rendered source text
// (cst.Node.Contents()). Extractors select children by Kind rather
// than by fixed position, since optional siblings (modifiers,
// annotations, type parameters) shift a name or parameter list to a
// different index depending on what else is present.
type Child struct {
	Kind string
	Text string
}

// IdentifierExtractor derives the identifier tuple for a node of a
// particular kind, given that node's already-built direct children. It
// returns nil if the node has no determinable identifier. Extractors
// are registered by name (see Registry) because they close over
// front-end-specific node representations and cannot themselves be
// serialized into YAML.
type IdentifierExtractor func(children []Child) []string

// Config is a parser configuration for one language, as described in
// §4.1 of the merge specification.
type Config struct {
	// Language is a human-readable name, e.g. "java".
	Language string `yaml:"language"`
	// StopAt lists grammar kinds whose interior should not be
	// expanded; they are exposed to the core as opaque terminals.
	StopAt []string `yaml:"stop_at"`
	// UnorderedKinds lists grammar kinds whose children are
	// semantically unordered.
	UnorderedKinds []string `yaml:"unordered_kinds"`
	// BlockEndDelimiters lists terminal lexemes that mark the end of
	// an unordered block (e.g. "}").
	BlockEndDelimiters []string `yaml:"block_end_delimiters"`
	// IdentifierExtractorNames maps a grammar kind to the name of a
	// registered IdentifierExtractor.
	IdentifierExtractorNames map[string]string `yaml:"identifier_extractors"`
	// Delimiters maps a grammar kind to its opening/closing lexeme
	// pair, for kinds that bound an unordered block.
	Delimiters map[string][2]string `yaml:"delimiters"`

	stopAt         map[string]bool
	unorderedKinds map[string]bool
	blockEnds      map[string]bool
	extractors     map[string]IdentifierExtractor
}

// Registry maps extractor names to implementations. A Config's
// IdentifierExtractorNames are resolved against a Registry at Compile
// time so that YAML-defined configs can reference Go-implemented
// extractors by name.
type Registry map[string]IdentifierExtractor

// Parse reads a YAML-encoded Config from data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parserconfig: parsing config: %w", err)
	}
	return &cfg, nil
}

// Compile resolves the Config's extractor names against reg and builds
// the lookup sets used by IsStopAt, IsUnordered and IsBlockEnd. It must
// be called once before the Config is used by a parser front end.
func (c *Config) Compile(reg Registry) error {
	c.stopAt = toSet(c.StopAt)
	c.unorderedKinds = toSet(c.UnorderedKinds)
	c.blockEnds = toSet(c.BlockEndDelimiters)

	c.extractors = make(map[string]IdentifierExtractor, len(c.IdentifierExtractorNames))
	for kind, name := range c.IdentifierExtractorNames {
		extractor, ok := reg[name]
		if !ok {
			return fmt.Errorf("parserconfig: unknown identifier extractor %q for kind %q", name, kind)
		}
		c.extractors[kind] = extractor
	}
	return nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// IsStopAt reports whether kind should be treated as an opaque
// terminal.
func (c *Config) IsStopAt(kind string) bool { return c.stopAt[kind] }

// IsUnordered reports whether kind's children are semantically
// unordered.
func (c *Config) IsUnordered(kind string) bool { return c.unorderedKinds[kind] }

// IsBlockEnd reports whether lexeme marks the end of an unordered
// block.
func (c *Config) IsBlockEnd(lexeme string) bool { return c.blockEnds[lexeme] }

// ExtractorFor returns the identifier extractor registered for kind,
// or nil if none was configured.
func (c *Config) ExtractorFor(kind string) IdentifierExtractor { return c.extractors[kind] }

// DelimitersFor returns the opening/closing lexeme pair configured for
// kind, and whether one was configured.
func (c *Config) DelimitersFor(kind string) (open, close string, ok bool) {
	pair, ok := c.Delimiters[kind]
	if !ok {
		return "", "", false
	}
	return pair[0], pair[1], true
}
