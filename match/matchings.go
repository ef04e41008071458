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

// Package match computes, for a pair of cst.Node trees, a correspondence
// between their nodes together with a similarity score and a
// perfect-match flag (§4.2 of the merge specification).
package match

import "github.com/ctmerge/ctmerge/cst"

// Entry is the value half of a matching: the similarity score for a
// pair of nodes, and whether the pair is a perfect match (their
// subtrees render to identical source text).
type Entry struct {
	Score          int
	IsPerfectMatch bool
}

// Matching is the result of looking a single node up in a Matchings
// collection: its partner on the other side, plus the shared Entry.
type Matching struct {
	Partner        cst.Node
	Score          int
	IsPerfectMatch bool
}

// pairKey is an unordered pair of node identities: pairKey{a, b} and
// pairKey{b, a} must hash and compare equal, so we normalize by sorting
// on construction.
type pairKey struct{ lo, hi int }

func newPairKey(a, b cst.Node) pairKey {
	ai, bi := a.ID(), b.ID()
	if ai > bi {
		ai, bi = bi, ai
	}
	return pairKey{lo: ai, hi: bi}
}

// Matchings holds a pair-keyed map of matching entries and an
// individual lookup mapping every matched node to its partner. Both
// views are derived from the same underlying set and are kept in sync
// by every mutating method on this type; there is no way to update one
// without the other.
type Matchings struct {
	entries    map[pairKey]Entry
	nodesByKey map[pairKey][2]cst.Node
	individual map[int]cst.Node
}

// Empty returns a Matchings collection with no entries.
func Empty() *Matchings {
	return &Matchings{
		entries:    make(map[pairKey]Entry),
		nodesByKey: make(map[pairKey][2]cst.Node),
		individual: make(map[int]cst.Node),
	}
}

// Single returns a Matchings collection holding exactly one entry.
func Single(a, b cst.Node, entry Entry) *Matchings {
	m := Empty()
	m.Put(a, b, entry)
	return m
}

// Put records (or overwrites) the matching entry for the unordered
// pair (a, b), extending the individual lookup for both directions.
func (m *Matchings) Put(a, b cst.Node, entry Entry) {
	key := newPairKey(a, b)
	m.entries[key] = entry
	m.nodesByKey[key] = [2]cst.Node{a, b}
	m.individual[a.ID()] = b
	m.individual[b.ID()] = a
}

// Get returns the matching entry recorded for (a, b), if any.
func (m *Matchings) Get(a, b cst.Node) (Entry, bool) {
	entry, ok := m.entries[newPairKey(a, b)]
	return entry, ok
}

// Find returns the Matching for node (its partner plus the shared
// entry), if node has been matched to anything.
func (m *Matchings) Find(node cst.Node) (Matching, bool) {
	partner, ok := m.individual[node.ID()]
	if !ok {
		return Matching{}, false
	}
	entry, ok := m.entries[newPairKey(node, partner)]
	if !ok {
		return Matching{}, false
	}
	return Matching{Partner: partner, Score: entry.Score, IsPerfectMatch: entry.IsPerfectMatch}, true
}

// Extend merges other into m in place. Both the pair-keyed map and the
// individual lookup are extended together, preserving the invariant
// that they stay in sync.
func (m *Matchings) Extend(other *Matchings) {
	if other == nil {
		return
	}
	for key, entry := range other.entries {
		m.entries[key] = entry
		nodes := other.nodesByKey[key]
		m.nodesByKey[key] = nodes
		m.individual[nodes[0].ID()] = nodes[1]
		m.individual[nodes[1].ID()] = nodes[0]
	}
}

// Len returns the number of distinct matched pairs.
func (m *Matchings) Len() int { return len(m.entries) }
