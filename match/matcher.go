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

import "github.com/ctmerge/ctmerge/cst"

// rootMatchBonus rewards a NonTerminal pair for matching at all, on top
// of whatever their children contribute. It keeps two same-kind
// subtrees with no matching children (e.g. both freshly inserted, one
// edited right after) from scoring identically to no match at all.
const rootMatchBonus = 1

// Match attempts to pair node a with node b, recursively matching their
// descendants. It returns ok=false when the fast-rejection test fails
// (different kinds, or one Terminal and one NonTerminal): such a pair
// is never a candidate match, regardless of content.
func Match(a, b cst.Node) (matchings *Matchings, entry Entry, ok bool) {
	if a.Kind() != b.Kind() {
		return nil, Entry{}, false
	}
	switch av := a.(type) {
	case *cst.Terminal:
		bv, ok := b.(*cst.Terminal)
		if !ok {
			return nil, Entry{}, false
		}
		return matchTerminals(av, bv)
	case *cst.NonTerminal:
		bv, ok := b.(*cst.NonTerminal)
		if !ok {
			return nil, Entry{}, false
		}
		return matchNonTerminals(av, bv)
	default:
		return nil, Entry{}, false
	}
}

// matchTerminals implements the fast-rejection test and scoring for a
// Terminal pair in one step: get_identifier(terminal) is (kind, value),
// and kind is already known equal by the caller, so the only remaining
// condition for the pair to "possibly correspond" is that their values
// match exactly too. A terminal pair that fails this is not a
// candidate at all, not a zero-score match.
//
// This diverges cosmetically from the original, which records a
// same-kind/different-value pair as an explicit score-0 matching
// rather than no entry at all. The two are behaviorally equivalent
// here: a score-0 terminal is never selected by the ordered/unordered
// child-assignment step, so Find reports no match either way. It only
// shows up at all in the degenerate case of matching two bare
// terminals as the whole tree.
func matchTerminals(a, b *cst.Terminal) (*Matchings, Entry, bool) {
	if a.Value() != b.Value() {
		return nil, Entry{}, false
	}
	entry := Entry{Score: 1, IsPerfectMatch: true}
	return Single(a, b, entry), entry, true
}

func matchNonTerminals(a, b *cst.NonTerminal) (*Matchings, Entry, bool) {
	if !identifiersCompatible(a.Identifier(), b.Identifier()) {
		return nil, Entry{}, false
	}

	var children *Matchings
	var childScore int
	if a.Unordered() && b.Unordered() {
		children, childScore = matchUnordered(a.Children(), b.Children())
	} else {
		children, childScore = matchOrdered(a.Children(), b.Children())
	}

	entry := Entry{
		Score:          childScore + rootMatchBonus,
		IsPerfectMatch: cst.ContentsEqual(a, b),
	}

	result := Empty()
	result.Extend(children)
	result.Put(a, b, entry)
	return result, entry, true
}

// identifiersCompatible implements the NonTerminal half of the fast
// rejection test: two NonTerminals can possibly correspond only if
// they both carry an identifier tuple and it is equal, or neither
// carries one (kind equality is checked separately by the caller).
func identifiersCompatible(a, b []string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
