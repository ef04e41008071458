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

package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctmerge/ctmerge/cst"
	"github.com/ctmerge/ctmerge/mergedtree"
	"github.com/ctmerge/ctmerge/render"
)

func classBody(ids *cst.IDGen, members ...cst.Node) *cst.NonTerminal {
	children := append([]cst.Node{term(ids, "{", "{")}, members...)
	children = append(children, term(ids, "}", "}"))
	nt := nonTerm(ids, "class_body", children...)
	nt.SetUnordered(true)
	nt.SetDelimiters(&cst.Delimiters{Start: "{", End: "}"})
	return nt
}

func methodDecl(ids *cst.IDGen, name, body string) *cst.NonTerminal {
	m := nonTerm(ids, "method_declaration", term(ids, "identifier", name), term(ids, "return_statement", body))
	m.SetIdentifier([]string{name, "()"})
	return m
}

// TestMergeReorderOnlyPreservesLeftOrder mirrors scenario 4: the class
// body is unordered, left reorders two methods, right is untouched.
// Expected: no conflict, output follows left's order.
func TestMergeReorderOnlyPreservesLeftOrder(t *testing.T) {
	ids := &cst.IDGen{}
	a := methodDecl(ids, "a", "return 1;")
	b := methodDecl(ids, "b", "return 2;")
	base := classBody(ids, a, b)

	a2 := methodDecl(ids, "a", "return 1;")
	b2 := methodDecl(ids, "b", "return 2;")
	left := classBody(ids, b2, a2) // reordered: b before a

	a3 := methodDecl(ids, "a", "return 1;")
	b3 := methodDecl(ids, "b", "return 2;")
	right := classBody(ids, a3, b3)

	baseLeft, baseRight, leftRight := matchAll(t, base, left, right)
	merged, err := Merge(base, left, right, baseLeft, baseRight, leftRight, nil)
	require.NoError(t, err)
	assert.False(t, render.HasConflict(merged))

	nt := merged.(*mergedtree.NonTerminal)
	var order []string
	for _, c := range nt.Children {
		if inner, ok := c.(*mergedtree.NonTerminal); ok && inner.Kind == "method_declaration" {
			ident := inner.Children[0].(*mergedtree.Terminal).Value
			order = append(order, ident)
		}
	}
	assert.Equal(t, []string{"b", "a"}, order)
}

// TestMergeDeleteVsModify mirrors scenario 6: left deletes a method,
// right changes its body. Expected: a one-sided conflict holding the
// right-hand modification.
func TestMergeDeleteVsModify(t *testing.T) {
	ids := &cst.IDGen{}
	m := methodDecl(ids, "m", "return X;")
	base := classBody(ids, m)

	left := classBody(ids) // m deleted

	rightM := methodDecl(ids, "m", "return Y;")
	right := classBody(ids, rightM)

	baseLeft, baseRight, leftRight := matchAll(t, base, left, right)
	merged, err := Merge(base, left, right, baseLeft, baseRight, leftRight, nil)
	require.NoError(t, err)
	assert.True(t, render.HasConflict(merged))

	nt := merged.(*mergedtree.NonTerminal)
	var found *mergedtree.Conflict
	for _, c := range nt.Children {
		if conflict, ok := c.(*mergedtree.Conflict); ok {
			found = conflict
		}
	}
	require.NotNil(t, found)
	assert.Nil(t, found.Left)
	assert.NotNil(t, found.Right)
}

// TestMergeUnorderedPass2NewlyPairedChildTakesRightAsOwnBase pins the
// resolved Open Question for the unordered merger's Pass 2 (None,
// Some(lMatch)) case: a child right and left agree on, but base never
// saw, is merged with the right child standing in as its own base
// rather than looking up a base via left's base-matching. Left's copy
// sits past an early block-end delimiter so pass one never reaches it.
func TestMergeUnorderedPass2NewlyPairedChildTakesRightAsOwnBase(t *testing.T) {
	ids := &cst.IDGen{}
	base := classBody(ids) // base never had this method at all

	left := nonTerm(ids, "class_body", term(ids, "{", "{"), term(ids, "}", "}"), methodDecl(ids, "n", "return 1;"))
	left.SetUnordered(true)
	left.SetDelimiters(&cst.Delimiters{Start: "{", End: "}"})
	right := classBody(ids, methodDecl(ids, "n", "return 1;"))

	baseLeft, baseRight, leftRight := matchAll(t, base, left, right)
	merged, err := Merge(base, left, right, baseLeft, baseRight, leftRight, nil)
	require.NoError(t, err)
	assert.False(t, render.HasConflict(merged))

	nt := merged.(*mergedtree.NonTerminal)
	var found bool
	for _, c := range nt.Children {
		if inner, ok := c.(*mergedtree.NonTerminal); ok && inner.Kind == "method_declaration" {
			found = true
			assert.Equal(t, "return 1;", inner.Children[1].(*mergedtree.Terminal).Value)
		}
	}
	assert.True(t, found, "expected the newly-paired method to appear in the merge")
}

// TestMergeUnorderedPass2UsesRealBaseMatch pins Pass 2's (Some(bMatch),
// Some(lMatch)) case: a right child pass one never reaches (because
// its left partner sits past an early, spurious block-end delimiter)
// must still merge against its real base counterpart rather than
// against itself, or left's and right's independent edits can never
// surface as a conflict.
func TestMergeUnorderedPass2UsesRealBaseMatch(t *testing.T) {
	ids := &cst.IDGen{}
	base := classBody(ids, methodDecl(ids, "m", "return X;"))

	leftEdited := methodDecl(ids, "m", "return Y;")
	left := nonTerm(ids, "class_body", term(ids, "{", "{"), term(ids, "}", "}"), leftEdited)
	left.SetUnordered(true)
	left.SetDelimiters(&cst.Delimiters{Start: "{", End: "}"})

	right := classBody(ids, methodDecl(ids, "m", "return Z;"))

	baseLeft, baseRight, leftRight := matchAll(t, base, left, right)
	merged, err := Merge(base, left, right, baseLeft, baseRight, leftRight, nil)
	require.NoError(t, err)
	assert.True(t, render.HasConflict(merged), "left and right both diverged from base and from each other")
}

func TestMergeClassBodyClosingDelimiterReemitted(t *testing.T) {
	ids := &cst.IDGen{}
	base := classBody(ids)
	left := classBody(ids)
	right := classBody(ids)

	baseLeft, baseRight, leftRight := matchAll(t, base, left, right)
	merged, err := Merge(base, left, right, baseLeft, baseRight, leftRight, nil)
	require.NoError(t, err)

	nt := merged.(*mergedtree.NonTerminal)
	last := nt.Children[len(nt.Children)-1].(*mergedtree.Terminal)
	assert.Equal(t, "}", last.Value)
}
