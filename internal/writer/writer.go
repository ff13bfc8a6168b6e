// Copyright © 2023 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package writer implements a sequential writer: workers finish games
// in whatever order the scheduler pleases, but the PGN and sample
// files must read in job order, so out-of-order completions are held
// back until every lower index has been flushed.
package writer

import (
	"io"
	"sort"
	"sync"
)

// SeqWriter reorders Push-ed strings by index before writing them to
// the underlying writer. It is safe for concurrent use.
type SeqWriter struct {
	mu sync.Mutex

	out    io.Writer
	queued []seqString
	next   int
}

type seqString struct {
	idx int
	str string
}

// New returns a SeqWriter flushing to out, starting at index 0.
func New(out io.Writer) *SeqWriter {
	return &SeqWriter{out: out}
}

// Push hands the writer the output of job idx. Every index must be
// pushed exactly once. The push, and any flushing it unblocks, happen
// under the writer's mutex.
func (w *SeqWriter) Push(idx int, str string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	at := sort.Search(len(w.queued), func(i int) bool {
		return w.queued[i].idx > idx
	})
	w.queued = append(w.queued, seqString{})
	copy(w.queued[at+1:], w.queued[at:])
	w.queued[at] = seqString{idx: idx, str: str}

	// flush the longest sequential head
	flushed := 0
	for _, q := range w.queued {
		if q.idx != w.next {
			break
		}
		if _, err := io.WriteString(w.out, q.str); err != nil {
			return err
		}
		w.next++
		flushed++
	}
	w.queued = w.queued[:copy(w.queued, w.queued[flushed:])]

	return nil
}
