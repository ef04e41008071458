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

package parserconfig

import (
	_ "embed"
	"fmt"
)

//go:embed java.yaml
var javaConfigYAML []byte

//go:embed go.yaml
var goConfigYAML []byte

// firstOfKind returns the Text of the first child whose Kind is kind,
// and whether one was found.
func firstOfKind(children []Child, kind string) (string, bool) {
	for _, c := range children {
		if c.Kind == kind {
			return c.Text, true
		}
	}
	return "", false
}

// firstOfAnyKind tries each kind in priority order against children,
// returning the Text of the first match across all candidates. It
// exists because the same grammatical role (e.g. "this node's name")
// is spelled with a different tree-sitter node kind depending on
// context: a Go method's name is a field_identifier, a plain
// function's name is an identifier.
func firstOfAnyKind(children []Child, kinds ...string) (string, bool) {
	for _, kind := range kinds {
		if text, ok := firstOfKind(children, kind); ok {
			return text, true
		}
	}
	return "", false
}

// DefaultRegistry returns the identifier extractors shared by the
// reference Java configuration and the bundled Go configuration. Every
// extractor here picks its children by grammar kind, never by fixed
// position: optional modifiers, annotations and type parameters shift
// where a name or parameter list lands among a node's direct children,
// so positional indexing would silently pick up the wrong sibling as
// soon as one of those optional nodes is present.
func DefaultRegistry() Registry {
	return Registry{
		// method_name_and_param_types identifies a Java method or
		// constructor by its name (an "identifier" child) plus the
		// full rendered text of its "formal_parameters" child, so two
		// overloads with the same name but different parameter lists
		// still get distinct identifiers.
		"method_name_and_param_types": func(children []Child) []string {
			name, ok := firstOfKind(children, "identifier")
			if !ok || name == "" {
				return nil
			}
			id := []string{name}
			if params, ok := firstOfKind(children, "formal_parameters"); ok {
				id = append(id, params)
			}
			return id
		},
		// method_name_and_receiver identifies a Go method by its name
		// (a "field_identifier" child) plus the rendered text of its
		// receiver "parameter_list" (the first one: Go places the
		// receiver list before the argument list).
		"method_name_and_receiver": func(children []Child) []string {
			name, ok := firstOfAnyKind(children, "field_identifier", "identifier")
			if !ok || name == "" {
				return nil
			}
			id := []string{name}
			if receiver, ok := firstOfKind(children, "parameter_list"); ok {
				id = append(id, receiver)
			}
			return id
		},
		// class_name identifies a Java class or interface by its
		// "identifier" child, ignoring preceding modifiers/keywords
		// and trailing type parameters/body.
		"class_name": func(children []Child) []string {
			name, ok := firstOfKind(children, "identifier")
			if !ok || name == "" {
				return nil
			}
			return []string{name}
		},
		// type_name identifies a Go type declaration by its
		// "type_identifier" child.
		"type_name": func(children []Child) []string {
			name, ok := firstOfKind(children, "type_identifier")
			if !ok || name == "" {
				return nil
			}
			return []string{name}
		},
		// field_name identifies a field by whichever name-bearing
		// child its grammar uses: Go struct fields carry a
		// "field_identifier" directly; Java fields carry a
		// "variable_declarator", whose rendered text is just the bare
		// name for a field with no initializer.
		"field_name": func(children []Child) []string {
			name, ok := firstOfAnyKind(children, "field_identifier", "variable_declarator", "identifier")
			if !ok || name == "" {
				return nil
			}
			return []string{name}
		},
		// imported_fqn identifies a Java import by its qualified name,
		// preferring the multi-segment "scoped_identifier" form and
		// falling back to a bare "identifier" for a single-segment
		// import.
		"imported_fqn": func(children []Child) []string {
			fqn, ok := firstOfAnyKind(children, "scoped_identifier", "identifier")
			if !ok || fqn == "" {
				return nil
			}
			return []string{fqn}
		},
		// imported_path identifies a Go import spec by its quoted path
		// string, ignoring a preceding alias/dot/blank identifier.
		"imported_path": func(children []Child) []string {
			path, ok := firstOfAnyKind(children, "interpreted_string_literal", "raw_string_literal")
			if !ok || path == "" {
				return nil
			}
			return []string{path}
		},
		// function_name identifies a Go top-level function by its
		// "identifier" child.
		"function_name": func(children []Child) []string {
			name, ok := firstOfKind(children, "identifier")
			if !ok || name == "" {
				return nil
			}
			return []string{name}
		},
	}
}

// Load parses and compiles the bundled configuration for language,
// merging extra into the registry (extra extractors win on name
// collision, so callers can override a default without forking the
// whole registry).
func Load(language string, extra Registry) (*Config, error) {
	var data []byte
	switch language {
	case "java":
		data = javaConfigYAML
	case "go":
		data = goConfigYAML
	default:
		return nil, fmt.Errorf("parserconfig: no bundled configuration for language %q", language)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	reg := DefaultRegistry()
	for name, fn := range extra {
		reg[name] = fn
	}
	if err := cfg.Compile(reg); err != nil {
		return nil, err
	}
	return cfg, nil
}
