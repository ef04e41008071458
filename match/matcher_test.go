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

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctmerge/ctmerge/cst"
)

func term(ids *cst.IDGen, kind, value string) *cst.Terminal {
	return cst.NewTerminal(ids.Next(), kind, value, cst.Position{}, cst.Position{}, "")
}

func nonTerm(ids *cst.IDGen, kind string, children ...cst.Node) *cst.NonTerminal {
	return cst.NewNonTerminal(ids.Next(), kind, children, cst.Position{}, cst.Position{}, "")
}

func TestMatchRejectsDifferentKinds(t *testing.T) {
	ids := &cst.IDGen{}
	a := term(ids, "identifier", "x")
	b := term(ids, "number_literal", "1")

	_, _, ok := Match(a, b)
	assert.False(t, ok)
}

func TestMatchRejectsTerminalAgainstNonTerminal(t *testing.T) {
	ids := &cst.IDGen{}
	a := term(ids, "block", "x")
	b := nonTerm(ids, "block")

	_, _, ok := Match(a, b)
	assert.False(t, ok)
}

func TestMatchTerminalsRequireExactValue(t *testing.T) {
	ids := &cst.IDGen{}
	a := term(ids, "identifier", "x")
	b := term(ids, "identifier", "x")
	c := term(ids, "identifier", "y")

	_, exact, ok := Match(a, b)
	require.True(t, ok)
	assert.True(t, exact.IsPerfectMatch)
	assert.Equal(t, 1, exact.Score)

	// Same kind, different value: not a candidate pair at all.
	_, _, ok = Match(a, c)
	assert.False(t, ok)
}

func TestMatchNonTerminalsRejectMismatchedIdentifiers(t *testing.T) {
	ids := &cst.IDGen{}
	a := nonTerm(ids, "method_declaration", term(ids, "identifier", "foo"))
	a.SetIdentifier([]string{"foo", "()"})
	b := nonTerm(ids, "method_declaration", term(ids, "identifier", "bar"))
	b.SetIdentifier([]string{"bar", "()"})

	_, _, ok := Match(a, b)
	assert.False(t, ok)
}

func TestMatchOrderedIdenticalChildrenIsPerfectMatch(t *testing.T) {
	ids := &cst.IDGen{}
	left := nonTerm(ids, "argument_list", term(ids, "identifier", "a"), term(ids, "identifier", "b"))
	right := nonTerm(ids, "argument_list", term(ids, "identifier", "a"), term(ids, "identifier", "b"))

	matchings, entry, ok := Match(left, right)
	require.True(t, ok)
	assert.True(t, entry.IsPerfectMatch)

	m, found := matchings.Find(left.Children()[0])
	require.True(t, found)
	assert.Equal(t, right.Children()[0], m.Partner)
}

func TestMatchOrderedPreservesOrderAcrossInsertion(t *testing.T) {
	ids := &cst.IDGen{}
	a1, a2 := term(ids, "identifier", "a"), term(ids, "identifier", "b")
	left := nonTerm(ids, "argument_list", a1, a2)

	b1 := term(ids, "identifier", "a")
	inserted := term(ids, "identifier", "z")
	b2 := term(ids, "identifier", "b")
	right := nonTerm(ids, "argument_list", b1, inserted, b2)

	matchings, _, ok := Match(left, right)
	require.True(t, ok)

	m1, found := matchings.Find(a1)
	require.True(t, found)
	assert.Same(t, b1, m1.Partner)

	m2, found := matchings.Find(a2)
	require.True(t, found)
	assert.Same(t, b2, m2.Partner)

	_, found = matchings.Find(inserted)
	assert.False(t, found)
}

func TestMatchUnorderedByIdentifier(t *testing.T) {
	ids := &cst.IDGen{}
	foo := nonTerm(ids, "method_declaration", term(ids, "identifier", "foo"))
	foo.SetIdentifier([]string{"foo", "()"})
	bar := nonTerm(ids, "method_declaration", term(ids, "identifier", "bar"))
	bar.SetIdentifier([]string{"bar", "()"})
	left := nonTerm(ids, "class_body", foo, bar)
	left.SetUnordered(true)

	bar2 := nonTerm(ids, "method_declaration", term(ids, "identifier", "bar"))
	bar2.SetIdentifier([]string{"bar", "()"})
	foo2 := nonTerm(ids, "method_declaration", term(ids, "identifier", "foo"))
	foo2.SetIdentifier([]string{"foo", "()"})
	// reordered relative to left: bar before foo.
	right := nonTerm(ids, "class_body", bar2, foo2)
	right.SetUnordered(true)

	matchings, entry, ok := Match(left, right)
	require.True(t, ok)
	// "foobar" vs "barfoo": reordered children do not render identically.
	assert.False(t, entry.IsPerfectMatch)

	m, found := matchings.Find(foo)
	require.True(t, found)
	assert.Same(t, foo2, m.Partner)

	m, found = matchings.Find(bar)
	require.True(t, found)
	assert.Same(t, bar2, m.Partner)
}

func TestMatchUnorderedFallsBackToAssignment(t *testing.T) {
	ids := &cst.IDGen{}
	// No identifiers: falls back to the Hungarian assignment path.
	a1 := nonTerm(ids, "field_declaration", term(ids, "identifier", "x"))
	a2 := nonTerm(ids, "field_declaration", term(ids, "identifier", "y"))
	left := nonTerm(ids, "field_declaration_list", a1, a2)
	left.SetUnordered(true)

	b1 := nonTerm(ids, "field_declaration", term(ids, "identifier", "y"))
	b2 := nonTerm(ids, "field_declaration", term(ids, "identifier", "x"))
	right := nonTerm(ids, "field_declaration_list", b1, b2)
	right.SetUnordered(true)

	matchings, entry, ok := Match(left, right)
	require.True(t, ok)
	// "xy" vs "yx": reordered children do not render identically.
	assert.False(t, entry.IsPerfectMatch)

	m, found := matchings.Find(a1)
	require.True(t, found)
	assert.Same(t, b2, m.Partner)

	m, found = matchings.Find(a2)
	require.True(t, found)
	assert.Same(t, b1, m.Partner)
}

// TestMatchUnorderedRequiresBothSides pins §4.2's "both sides declared
// unordered" gate: a pair where only one side is marked unordered must
// go through the ordered (LCS) matcher, not the assignment path. The
// assignment path could pair both swapped children (crossing indices
// are fine for it); the LCS path can only take one of the two crossing
// pairs, since its indices must increase on both sides together.
func TestMatchUnorderedRequiresBothSides(t *testing.T) {
	ids := &cst.IDGen{}
	a1 := term(ids, "identifier", "x")
	a2 := term(ids, "identifier", "y")
	left := nonTerm(ids, "field_declaration_list", a1, a2)
	left.SetUnordered(true)

	b1 := term(ids, "identifier", "y")
	b2 := term(ids, "identifier", "x")
	right := nonTerm(ids, "field_declaration_list", b1, b2) // right stays ordered

	matchings, _, ok := Match(left, right)
	require.True(t, ok)

	_, a1Found := matchings.Find(a1)
	_, a2Found := matchings.Find(a2)
	assert.False(t, a1Found && a2Found, "the ordered matcher cannot pair both crossing children at once")
}
