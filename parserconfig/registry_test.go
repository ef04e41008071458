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

package parserconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctmerge/ctmerge/parserconfig"
)

func extractor(t *testing.T, name string) parserconfig.IdentifierExtractor {
	t.Helper()
	reg := parserconfig.DefaultRegistry()
	fn, ok := reg[name]
	require.True(t, ok, "no default extractor registered as %q", name)
	return fn
}

// TestMethodNameAndParamTypesIgnoresModifiers pins the fix for
// positional extraction: a preceding "modifiers" or "type" sibling
// must not be mistaken for the method's name.
func TestMethodNameAndParamTypesIgnoresModifiers(t *testing.T) {
	fn := extractor(t, "method_name_and_param_types")

	withModifiers := fn([]parserconfig.Child{
		{Kind: "modifiers", Text: "public"},
		{Kind: "type_identifier", Text: "void"},
		{Kind: "identifier", Text: "a"},
		{Kind: "formal_parameters", Text: "()"},
	})
	assert.Equal(t, []string{"a", "()"}, withModifiers)

	bare := fn([]parserconfig.Child{
		{Kind: "type_identifier", Text: "void"},
		{Kind: "identifier", Text: "b"},
		{Kind: "formal_parameters", Text: "(int x)"},
	})
	assert.Equal(t, []string{"b", "(int x)"}, bare)

	assert.NotEqual(t, withModifiers, bare)
}

func TestMethodNameAndReceiverPrefersFieldIdentifier(t *testing.T) {
	fn := extractor(t, "method_name_and_receiver")

	id := fn([]parserconfig.Child{
		{Kind: "parameter_list", Text: "(t *T)"},
		{Kind: "field_identifier", Text: "Foo"},
		{Kind: "parameter_list", Text: "(x int)"},
	})
	assert.Equal(t, []string{"Foo", "(t *T)"}, id)
}

func TestClassNameSkipsKeywordsAndBody(t *testing.T) {
	fn := extractor(t, "class_name")

	id := fn([]parserconfig.Child{
		{Kind: "modifiers", Text: "public"},
		{Kind: "class", Text: "class"},
		{Kind: "identifier", Text: "Widget"},
		{Kind: "class_body", Text: "{}"},
	})
	assert.Equal(t, []string{"Widget"}, id)
}

func TestFieldNameUsesVariableDeclaratorForJava(t *testing.T) {
	fn := extractor(t, "field_name")

	id := fn([]parserconfig.Child{
		{Kind: "modifiers", Text: "private"},
		{Kind: "type_identifier", Text: "int"},
		{Kind: "variable_declarator", Text: "x"},
		{Kind: ";", Text: ";"},
	})
	assert.Equal(t, []string{"x"}, id)
}

func TestFieldNameUsesFieldIdentifierForGo(t *testing.T) {
	fn := extractor(t, "field_name")

	id := fn([]parserconfig.Child{
		{Kind: "field_identifier", Text: "A"},
		{Kind: "type_identifier", Text: "int"},
	})
	assert.Equal(t, []string{"A"}, id)
}

func TestImportedFqnPrefersScopedIdentifier(t *testing.T) {
	fn := extractor(t, "imported_fqn")

	id := fn([]parserconfig.Child{
		{Kind: "import", Text: "import"},
		{Kind: "scoped_identifier", Text: "java.util.List"},
		{Kind: ";", Text: ";"},
	})
	assert.Equal(t, []string{"java.util.List"}, id)
}

func TestImportedPathUsesStringLiteralNotAlias(t *testing.T) {
	fn := extractor(t, "imported_path")

	id := fn([]parserconfig.Child{
		{Kind: "package_identifier", Text: "alias"},
		{Kind: "interpreted_string_literal", Text: `"fmt"`},
	})
	assert.Equal(t, []string{`"fmt"`}, id)
}

func TestFunctionNameReturnsNilWithoutIdentifier(t *testing.T) {
	fn := extractor(t, "function_name")

	assert.Nil(t, fn([]parserconfig.Child{{Kind: "parameter_list", Text: "()"}}))
}
