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

import "math"

// maxWeightAssignment solves the square assignment problem, returning
// for each row i the column assigned to it, such that the sum of
// weight[i][assignment[i]] is maximized. weight must be square (n x n).
//
// This is the Kuhn-Munkres (Hungarian) algorithm, O(n^3), implemented
// against a cost matrix (it minimizes), so weights are negated on the
// way in. Rows and columns are 1-indexed internally, matching the
// textbook formulation of the algorithm with potentials u, v and the
// augmenting-path array p/way; index 0 is the dummy source.
//
// No suitable assignment-problem solver exists among this repository's
// dependencies or the broader example corpus, so this is a from-scratch
// standard-library implementation.
func maxWeightAssignment(weight [][]int) []int {
	n := len(weight)
	if n == 0 {
		return nil
	}

	const inf = math.MaxInt32

	cost := make([][]int, n+1)
	for i := range cost {
		cost[i] = make([]int, n+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= n; j++ {
			cost[i][j] = -weight[i-1][j-1]
		}
	}

	u := make([]int, n+1)
	v := make([]int, n+1)
	p := make([]int, n+1) // p[j] = row currently assigned to column j
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]int, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0][j] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	assignment := make([]int, n)
	for j := 1; j <= n; j++ {
		if p[j] != 0 {
			assignment[p[j]-1] = j - 1
		}
	}
	return assignment
}
