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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ctmerge/ctmerge/driver"
	"github.com/ctmerge/ctmerge/langfront"
	"github.com/ctmerge/ctmerge/merge"
)

var mergeFlags = struct {
	basePath    *string
	leftPath    *string
	rightPath   *string
	mergePath   *string
	printChunks *bool
}{}

func init() {
	mergeFlags.basePath = rootCmd.Flags().String("base-path", "", "common ancestor file (required)")
	mergeFlags.leftPath = rootCmd.Flags().String("left-path", "", "left revision file (required)")
	mergeFlags.rightPath = rootCmd.Flags().String("right-path", "", "right revision file (required)")
	mergeFlags.mergePath = rootCmd.Flags().String("merge-path", "", "output path for the merge result (required)")
	mergeFlags.printChunks = rootCmd.Flags().Bool("print-chunks", false, "print a debug log of stable/unstable merge chunks to stdout")
	for _, name := range []string{"base-path", "left-path", "right-path", "merge-path"} {
		if err := rootCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

func runMerge(cmd *cobra.Command, args []string) error {
	registry, err := langfront.DefaultRegistry()
	if err != nil {
		return fmt.Errorf("ctmerge: %w", err)
	}

	var log *merge.ChunkLog
	if *mergeFlags.printChunks {
		log = merge.NewChunkLog()
	}

	cfg := driver.Config{
		BasePath:  *mergeFlags.basePath,
		LeftPath:  *mergeFlags.leftPath,
		RightPath: *mergeFlags.rightPath,
		MergePath: *mergeFlags.mergePath,
		Registry:  registry,
		Log:       log,
	}

	// Exit code is 0 whether or not the result contains conflicts; a
	// conflicted merge is still a successful run from the CLI's
	// perspective. Only a hard failure (bad paths, unparseable input,
	// an irreconcilable structural mismatch) returns a non-zero exit.
	_, err = driver.Run(cfg)
	if err != nil {
		return err
	}

	if log != nil {
		printChunkLog(cmd, log)
	}
	return nil
}

func printChunkLog(cmd *cobra.Command, log *merge.ChunkLog) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "--- merge chunk log ---")
	for i, chunk := range log.Chunks() {
		kind := "stable"
		if chunk.Kind == merge.ChunkUnstable {
			kind = "unstable"
		}
		parent := chunk.Parent
		if parent == "" {
			parent = "-"
		}
		fmt.Fprintf(out, "#%d %s parent=%s size=%d %s\n", i+1, kind, parent, chunk.Size, chunk.Comment)
	}
	fmt.Fprintln(out, "--- end merge chunk log ---")
}
