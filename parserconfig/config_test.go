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

func TestLoadJavaBundledConfig(t *testing.T) {
	cfg, err := parserconfig.Load("java", nil)
	require.NoError(t, err)

	assert.True(t, cfg.IsUnordered("class_body"))
	assert.False(t, cfg.IsUnordered("method_declaration"))
	assert.True(t, cfg.IsStopAt("comment"))
	assert.True(t, cfg.IsBlockEnd("}"))

	open, closeLex, ok := cfg.DelimitersFor("class_body")
	require.True(t, ok)
	assert.Equal(t, "{", open)
	assert.Equal(t, "}", closeLex)
}

func TestLoadUnknownLanguage(t *testing.T) {
	_, err := parserconfig.Load("cobol", nil)
	assert.Error(t, err)
}

func TestCompileRejectsUnknownExtractor(t *testing.T) {
	cfg, err := parserconfig.Parse([]byte(`
language: test
identifier_extractors:
  widget: does_not_exist
`))
	require.NoError(t, err)

	err = cfg.Compile(parserconfig.Registry{})
	assert.ErrorContains(t, err, "does_not_exist")
}

func TestExtraRegistryOverridesDefault(t *testing.T) {
	called := false
	cfg, err := parserconfig.Load("java", parserconfig.Registry{
		"class_name": func(children []parserconfig.Child) []string {
			called = true
			return nil
		},
	})
	require.NoError(t, err)

	extractor := cfg.ExtractorFor("class_declaration")
	require.NotNil(t, extractor)
	extractor([]parserconfig.Child{{Kind: "identifier", Text: "C"}})
	assert.True(t, called)
}
