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

package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/ctmerge/ctmerge/cst"
	"github.com/ctmerge/ctmerge/match"
	"github.com/ctmerge/ctmerge/merge"
	"github.com/ctmerge/ctmerge/render"
)

// Config names the three inputs and the merge output, as accepted on
// the CLI surface.
type Config struct {
	BasePath  string
	LeftPath  string
	RightPath string
	MergePath string

	// Registry resolves a file extension to a parser frontend. The
	// extension is taken from MergePath (all four paths are expected to
	// share the same language).
	Registry *Registry

	// Log, when non-nil, collects one diagnostic chunk for every
	// NonTerminal the merger produces.
	Log *merge.ChunkLog
}

// Result is what Run reports back to the caller, independent of
// whether a conflict was produced — per the CLI contract a
// conflict-free and a conflicted run are both exit code 0.
type Result struct {
	// ShortCircuited is true when Run took the base==left or base==right
	// fast path instead of invoking the matcher and merger.
	ShortCircuited bool
	// HasConflict is true when the written output contains one or more
	// conflict regions.
	HasConflict bool
}

// Run executes the full base/left/right merge pipeline described by
// cfg and writes the result to cfg.MergePath.
func Run(cfg Config) (Result, error) {
	baseSrc, err := os.ReadFile(cfg.BasePath)
	if err != nil {
		return Result{}, fmt.Errorf("driver: reading base input: %w", err)
	}
	leftSrc, err := os.ReadFile(cfg.LeftPath)
	if err != nil {
		return Result{}, fmt.Errorf("driver: reading left input: %w", err)
	}
	rightSrc, err := os.ReadFile(cfg.RightPath)
	if err != nil {
		return Result{}, fmt.Errorf("driver: reading right input: %w", err)
	}

	// Short-circuit before invoking the core: a side identical to base
	// contributed no edits, so the other side's text is already the
	// correct merge result.
	if string(baseSrc) == string(leftSrc) {
		if err := writeFile(cfg.MergePath, rightSrc); err != nil {
			return Result{}, err
		}
		return Result{ShortCircuited: true}, nil
	}
	if string(baseSrc) == string(rightSrc) {
		if err := writeFile(cfg.MergePath, leftSrc); err != nil {
			return Result{}, err
		}
		return Result{ShortCircuited: true}, nil
	}

	ext := filepath.Ext(cfg.MergePath)

	// All three trees share one IDGen: matching keys nodes by their
	// raw identity, so base, left and right must draw from the same
	// counter or unrelated nodes in different trees could be assigned
	// the same small integer and collide in the matcher's lookups.
	ids := &cst.IDGen{}

	// Parse all three inputs before giving up, aggregating failures, so
	// a caller fixing unparseable input sees every broken side at once
	// instead of one at a time across repeated runs.
	baseTree, baseErr := cfg.Registry.Parse(string(baseSrc), ext, ids)
	if baseErr != nil {
		baseErr = &ParseError{Which: SideBase, Path: cfg.BasePath, Reason: baseErr}
	}
	leftTree, leftErr := cfg.Registry.Parse(string(leftSrc), ext, ids)
	if leftErr != nil {
		leftErr = &ParseError{Which: SideLeft, Path: cfg.LeftPath, Reason: leftErr}
	}
	rightTree, rightErr := cfg.Registry.Parse(string(rightSrc), ext, ids)
	if rightErr != nil {
		rightErr = &ParseError{Which: SideRight, Path: cfg.RightPath, Reason: rightErr}
	}
	if err := multierr.Combine(baseErr, leftErr, rightErr); err != nil {
		return Result{}, err
	}

	baseLeft, _, ok := match.Match(baseTree, leftTree)
	if !ok {
		baseLeft = match.Empty()
	}
	baseRight, _, ok := match.Match(baseTree, rightTree)
	if !ok {
		baseRight = match.Empty()
	}
	leftRight, _, ok := match.Match(leftTree, rightTree)
	if !ok {
		leftRight = match.Empty()
	}

	merged, err := merge.Merge(baseTree, leftTree, rightTree, baseLeft, baseRight, leftRight, cfg.Log)
	if err != nil {
		return Result{}, err
	}

	rendered := render.Render(merged)
	if err := writeFile(cfg.MergePath, []byte(rendered)); err != nil {
		return Result{}, err
	}

	return Result{HasConflict: render.HasConflict(merged)}, nil
}

// DiffConfig names the two inputs to a standalone match computation,
// independent of any merge.
type DiffConfig struct {
	LeftPath  string
	RightPath string
	Registry  *Registry
}

// DiffResult reports the top-level matching entry between the two
// parsed roots, if the fast-rejection test let them correspond at all.
type DiffResult struct {
	Matched        bool
	Score          int
	IsPerfectMatch bool
}

// Diff parses the two inputs and runs the matcher once between them,
// reporting only the root-level outcome. It exists alongside Run for
// callers that want to inspect how similar two revisions are without
// performing a three-way merge.
func Diff(cfg DiffConfig) (DiffResult, error) {
	leftSrc, err := os.ReadFile(cfg.LeftPath)
	if err != nil {
		return DiffResult{}, fmt.Errorf("driver: reading left input: %w", err)
	}
	rightSrc, err := os.ReadFile(cfg.RightPath)
	if err != nil {
		return DiffResult{}, fmt.Errorf("driver: reading right input: %w", err)
	}

	ids := &cst.IDGen{}
	leftTree, err := cfg.Registry.Parse(string(leftSrc), filepath.Ext(cfg.LeftPath), ids)
	if err != nil {
		return DiffResult{}, &ParseError{Which: SideLeft, Path: cfg.LeftPath, Reason: err}
	}
	rightTree, err := cfg.Registry.Parse(string(rightSrc), filepath.Ext(cfg.RightPath), ids)
	if err != nil {
		return DiffResult{}, &ParseError{Which: SideRight, Path: cfg.RightPath, Reason: err}
	}

	_, entry, ok := match.Match(leftTree, rightTree)
	if !ok {
		return DiffResult{}, nil
	}
	return DiffResult{Matched: true, Score: entry.Score, IsPerfectMatch: entry.IsPerfectMatch}, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("driver: writing merge output: %w", err)
	}
	return nil
}
