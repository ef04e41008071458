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

// direction records which cell an optimal dp entry was derived from, so
// the table can be walked backwards to recover the chosen pairs.
type direction uint8

const (
	dirNone direction = iota
	dirLeft           // best came from skipping a right-hand child (dp[i][j-1])
	dirTop            // best came from skipping a left-hand child (dp[i-1][j])
	dirDiag           // best came from matching a[i-1] with b[j-1]
)

// pairCache memoizes Match(a[i], b[j]) for an ordered child list pair,
// since the DP below may probe the same cell from two directions.
type pairCache struct {
	a, b []cst.Node
	memo map[[2]int]*pairResult
}

type pairResult struct {
	matchings *Matchings
	entry     Entry
	ok        bool
}

func newPairCache(a, b []cst.Node) *pairCache {
	return &pairCache{a: a, b: b, memo: make(map[[2]int]*pairResult)}
}

func (c *pairCache) at(i, j int) *pairResult {
	key := [2]int{i, j}
	if r, ok := c.memo[key]; ok {
		return r
	}
	matchings, entry, ok := Match(c.a[i], c.b[j])
	r := &pairResult{matchings: matchings, entry: entry, ok: ok}
	c.memo[key] = r
	return r
}

// matchOrdered matches two ordered children lists using a longest-
// common-subsequence-style dynamic program: it chooses a subsequence of
// index pairs (i, j) with i and j both increasing, maximizing the sum
// of matched-pair scores. Unlike classic LCS, a "match" here is scored
// (not boolean), so skipping two otherwise-matchable children in favor
// of a single higher-scoring pair elsewhere is allowed.
//
// Ties are broken by preferring to skip a right-hand child (Left) over
// skipping a left-hand child (Top) over taking the diagonal match
// (Diag), keeping the walk deterministic across equal-scoring choices.
func matchOrdered(a, b []cst.Node) (*Matchings, int) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return Empty(), 0
	}

	cache := newPairCache(a, b)
	dp := make([][]int, n+1)
	dir := make([][]direction, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
		dir[i] = make([]direction, m+1)
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			left := dp[i][j-1]
			top := dp[i-1][j]

			diag := -1
			pair := cache.at(i-1, j-1)
			if pair.ok {
				diag = dp[i-1][j-1] + pair.entry.Score
			}

			best := left
			bestDir := dirLeft
			if top > best {
				best, bestDir = top, dirTop
			}
			if diag > best {
				best, bestDir = diag, dirDiag
			}

			dp[i][j] = best
			dir[i][j] = bestDir
		}
	}

	result := Empty()
	i, j := n, m
	for i > 0 && j > 0 {
		switch dir[i][j] {
		case dirDiag:
			pair := cache.at(i-1, j-1)
			result.Extend(pair.matchings)
			i--
			j--
		case dirTop:
			i--
		default: // dirLeft
			j--
		}
	}

	return result, dp[n][m]
}
