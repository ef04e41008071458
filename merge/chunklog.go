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

// ChunkKind classifies a contiguous run of matched children the
// ordered or unordered merger processed in one pass, for diagnostics
// only: it has no bearing on the merge outcome.
type ChunkKind int

const (
	// ChunkStable means the run merged without introducing a conflict.
	ChunkStable ChunkKind = iota
	// ChunkUnstable means the run contains at least one conflict.
	ChunkUnstable
)

// Chunk is one recorded region of a merge.
type Chunk struct {
	Kind    ChunkKind
	Parent  string // kind of the enclosing NonTerminal, "" at the root
	Size    int    // number of children the chunk covers
	Comment string // short human-readable note on why this region was decided the way it was
}

// ChunkLog accumulates Chunks during a merge. It is purely an
// observability aid: nothing in the merge algorithm branches on its
// presence or contents, and a nil *ChunkLog is always safe to use
// (every method is a no-op on a nil receiver).
type ChunkLog struct {
	chunks []Chunk
}

// NewChunkLog returns an empty, ready-to-use ChunkLog.
func NewChunkLog() *ChunkLog {
	return &ChunkLog{}
}

func (l *ChunkLog) record(parent string, kind ChunkKind, size int, comment string) {
	if l == nil {
		return
	}
	l.chunks = append(l.chunks, Chunk{Kind: kind, Parent: parent, Size: size, Comment: comment})
}

// Chunks returns every chunk recorded so far, in recording order. Nil
// receiver returns nil.
func (l *ChunkLog) Chunks() []Chunk {
	if l == nil {
		return nil
	}
	return l.chunks
}
