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

// Package tournament enumerates the games of a match into a job queue
// and accumulates their results per engine pair.
package tournament

import (
	"sync"

	"laptudirm.com/x/arbiter/internal/game"
)

// Job is one game to play: which two engines, in which round, at what
// position within the round, and whether to swap who moves first.
type Job struct {
	E1, E2 int // engine indices; E1's point of view scores the pair
	Pair   int // result-accumulator index

	Round, Game int
	Reverse     bool
}

// pair accumulates one engine pair's win/draw/loss record under its
// own mutex, indexed loss/draw/win from E1's point of view.
type pair struct {
	mu  sync.Mutex
	wld [3]int
}

// Queue is the thread-safe job queue of a whole match. Jobs are
// enumerated up front; workers pop them in order.
type Queue struct {
	mu   sync.Mutex
	next int

	jobs  []Job
	pairs []pair
}

// NewQueue enumerates every job of a match between the given number of
// engines: in round-robin mode all pairs (i, j) with i < j, in
// gauntlet mode the pairs (0, j), each pair playing games games per
// round with colors alternating game to game.
func NewQueue(engines, rounds, games int, gauntlet bool) *Queue {
	q := &Queue{}

	type matchup struct{ e1, e2 int }
	var matchups []matchup

	if gauntlet {
		for e2 := 1; e2 < engines; e2++ {
			matchups = append(matchups, matchup{0, e2})
		}
	} else {
		for e1 := 0; e1 < engines-1; e1++ {
			for e2 := e1 + 1; e2 < engines; e2++ {
				matchups = append(matchups, matchup{e1, e2})
			}
		}
	}

	q.pairs = make([]pair, len(matchups))

	for round := 0; round < rounds; round++ {
		added := 0 // games already added to this round
		for pi, m := range matchups {
			for g := 0; g < games; g++ {
				q.jobs = append(q.jobs, Job{
					E1: m.e1, E2: m.e2, Pair: pi,
					Round: round, Game: added,
					Reverse: g%2 == 1,
				})
				added++
			}
		}
	}

	return q
}

// Pop atomically takes the next job. idx is the job's global index,
// which orders all output; ok is false once the queue is exhausted or
// stopped.
func (q *Queue) Pop() (j Job, idx int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.next >= len(q.jobs) {
		return Job{}, 0, false
	}

	idx = q.next
	q.next++
	return q.jobs[idx], idx, true
}

// AddResult records one outcome for a pair, from E1's point of view,
// and returns the pair's updated totals.
func (q *Queue) AddResult(pairIdx int, outcome game.Result) [3]int {
	p := &q.pairs[pairIdx]

	p.mu.Lock()
	defer p.mu.Unlock()

	p.wld[outcome]++
	return p.wld
}

// Results returns a snapshot of every pair's record.
func (q *Queue) Results() [][3]int {
	wld := make([][3]int, len(q.pairs))
	for i := range q.pairs {
		q.pairs[i].mu.Lock()
		wld[i] = q.pairs[i].wld
		q.pairs[i].mu.Unlock()
	}
	return wld
}

// Len returns the total number of jobs.
func (q *Queue) Len() int {
	return len(q.jobs)
}

// Done reports whether every job has been handed out.
func (q *Queue) Done() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.next >= len(q.jobs)
}

// Stop ends the match early: jobs not yet popped are abandoned. Used
// by SPRT termination.
func (q *Queue) Stop() {
	q.mu.Lock()
	q.next = len(q.jobs)
	q.mu.Unlock()
}
