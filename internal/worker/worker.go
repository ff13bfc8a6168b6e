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

// Package worker implements the worker pool: each worker owns its
// engine sessions and a watchdog deadline, and loops popping jobs,
// playing one game per job, and appending the results to the shared
// writers and counters.
package worker

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/mitchellh/colorstring"
	"github.com/schollz/progressbar/v3"

	"laptudirm.com/x/arbiter/internal/deadline"
	"laptudirm.com/x/arbiter/internal/engine"
	"laptudirm.com/x/arbiter/internal/game"
	"laptudirm.com/x/arbiter/internal/openings"
	"laptudirm.com/x/arbiter/internal/report"
	"laptudirm.com/x/arbiter/internal/sprt"
	"laptudirm.com/x/arbiter/internal/tournament"
	"laptudirm.com/x/arbiter/internal/tui"
	"laptudirm.com/x/arbiter/internal/util"
	"laptudirm.com/x/arbiter/internal/writer"
)

// Env is the shared state a worker operates against. Everything in it
// is either immutable for the duration of the run or synchronizes
// itself.
type Env struct {
	Queue    *tournament.Queue
	Openings *openings.Source
	Engines  []*engine.Config
	Game     *game.Config

	PGN          *writer.SeqWriter // nil without -pgn
	PGNVerbosity int
	Samples      *writer.SeqWriter // nil without -sample

	SPRT *sprt.Params // nil without -sprt

	Report    *report.Report          // nil without -report
	Dashboard *tui.Dashboard          // nil without -tui
	Progress  *progressbar.ProgressBar // nil with -tui or redirected stdout
	Colorize  bool

	// SPRTDecision is set once when the test concludes; a concluded
	// test ends the run with a nonzero exit code.
	SPRTDecision atomic.Value // string
}

// Worker is one worker thread's state.
type Worker struct {
	ID       int
	Deadline deadline.Deadline

	log  *os.File
	seed util.PRNG
	wld  [3]int // this worker's outcomes, from each job's E1 pov
}

// Pool is the set of workers of a run plus the global result totals.
type Pool struct {
	mu      sync.Mutex
	workers []*Worker
	wg      sync.WaitGroup
	busy    atomic.Int32
}

// NewPool creates n workers. With logging enabled each worker opens
// its own transcript file, which also receives the raw dialog of its
// engines.
func NewPool(n int, logging bool) (*Pool, error) {
	p := &Pool{}

	for i := 0; i < n; i++ {
		w := &Worker{ID: i + 1}
		w.seed.Seed(uint64(i + 1))

		if logging {
			log, err := os.Create(fmt.Sprintf("arbiter.%d.log", w.ID))
			if err != nil {
				return nil, fmt.Errorf("worker: %w", err)
			}
			w.log = log
		}

		p.workers = append(p.workers, w)
	}

	return p, nil
}

// Workers returns the pool's workers, for deadline polling.
func (p *Pool) Workers() []*Worker {
	return p.workers
}

// Start launches one goroutine per worker.
func (p *Pool) Start(env *Env) {
	for _, w := range p.workers {
		p.wg.Add(1)
		p.busy.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			defer p.busy.Add(-1)
			w.run(p, env)
		}(w)
	}
}

// Busy returns the number of workers still running.
func (p *Pool) Busy() int {
	return int(p.busy.Load())
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// TotalWLD sums every worker's record under the pool mutex.
func (p *Pool) TotalWLD() [3]int {
	p.mu.Lock()
	defer p.mu.Unlock()

	var total [3]int
	for _, w := range p.workers {
		for i, n := range w.wld {
			total[i] += n
		}
	}
	return total
}

func (p *Pool) addResult(w *Worker, outcome game.Result) {
	p.mu.Lock()
	w.wld[outcome]++
	p.mu.Unlock()
}

// run is the worker loop: pop a job, ensure the job's two engine
// sessions are alive, play the game, and publish its output. Any
// engine or I/O failure aborts the whole run; there is no retry.
func (w *Worker) run(pool *Pool, env *Env) {
	defer w.close()

	// engine sessions, created on first use and kept for the rest of
	// the worker's life
	sessions := make([]*engine.Engine, len(env.Engines))

	session := func(i int) *engine.Engine {
		if sessions[i] == nil {
			var log io.Writer
			if w.log != nil {
				log = w.log
			}

			var err error
			if sessions[i], err = engine.New(env.Engines[i], engine.UCI, &w.Deadline, log); err != nil {
				w.die(err)
			}
		}
		return sessions[i]
	}

	defer func() {
		for _, s := range sessions {
			if s != nil {
				if err := s.Quit(); err != nil {
					w.die(err)
				}
			}
		}
	}()

	// game config with this worker's warning sink
	gcfg := *env.Game
	gcfg.Warn = func(format string, args ...any) {
		if env.Dashboard == nil {
			w.printf(fmt.Sprintf("[%d] WARNING: %s\n", w.ID, fmt.Sprintf(format, args...)))
		}
		if w.log != nil {
			fmt.Fprintf(w.log, "WARNING: "+format+"\n", args...)
		}
	}

	for {
		job, idx, ok := env.Queue.Pop()
		if !ok {
			break
		}

		fen, err := env.Openings.Get(idx)
		if err != nil {
			w.die(err)
		}

		g, err := game.New(fen, job.Round, job.Game, &gcfg)
		if err != nil {
			w.die(err)
		}

		players := [2]game.Player{session(job.E1), session(job.E2)}
		eo := [2]*engine.Config{env.Engines[job.E1], env.Engines[job.E2]}

		outcome, err := g.Play(players, eo, job.Reverse, &w.seed)
		if err != nil {
			w.die(err)
		}

		if env.PGN != nil {
			if err := env.PGN.Push(idx, g.PGN(env.PGNVerbosity)); err != nil {
				w.die(err)
			}
		}
		if env.Samples != nil {
			if err := env.Samples.Push(idx, g.ExportSamples()); err != nil {
				w.die(err)
			}
		}

		w.report(pool, env, g, job, players, outcome)
	}
}

// report publishes one finished game: the one-line summary, the
// pair's running score, the SPRT update, and the dashboard/report
// refresh.
func (w *Worker) report(pool *Pool, env *Env, g *game.Game, job tournament.Job, players [2]game.Player, outcome game.Result) {
	result, reason := g.Decode()

	console := env.Dashboard == nil

	summary := fmt.Sprintf("[%d] %s vs %s: %s (%s)", w.ID, g.Names[0], g.Names[1], result, reason)
	if env.Colorize {
		color := "[yellow]"
		switch outcome {
		case game.ResultWin:
			color = "[green]"
		case game.ResultLoss:
			color = "[red]"
		}
		summary = colorstring.Color(color + summary + "[reset]")
	}
	if console {
		w.printf(summary + "\n")
	}

	wld := env.Queue.AddResult(job.Pair, outcome)
	pool.addResult(w, outcome)

	e1, e2 := players[0].Name(), players[1].Name()
	n := wld[0] + wld[1] + wld[2]
	if console {
		w.printf(fmt.Sprintf("Score of %s vs %s: %d - %d - %d  [%.3f] %d\n",
			e1, e2, wld[game.ResultWin], wld[game.ResultLoss], wld[game.ResultDraw],
			(float64(wld[game.ResultWin])+0.5*float64(wld[game.ResultDraw]))/float64(n), n))
	}

	var llr, lower, upper float64
	if env.SPRT != nil {
		lower, upper = env.SPRT.Bounds()
		llr = env.SPRT.LLR(wld)

		switch {
		case llr > upper:
			env.SPRTDecision.Store(fmt.Sprintf("SPRT: LLR = %.3f [%.3f,%.3f]. H1 accepted.", llr, lower, upper))
			env.Queue.Stop()
		case llr < lower:
			env.SPRTDecision.Store(fmt.Sprintf("SPRT: LLR = %.3f [%.3f,%.3f]. H0 accepted.", llr, lower, upper))
			env.Queue.Stop()
		case console && n%2 == 0:
			w.printf(fmt.Sprintf("SPRT: LLR = %.3f [%.3f,%.3f]\n", llr, lower, upper))
		}
	}

	if env.Progress != nil {
		_ = env.Progress.Add(1)
	}

	if env.Report != nil {
		total := pool.TotalWLD()
		env.Report.Record(total, llr)
	}

	if env.Dashboard != nil {
		env.Dashboard.SetWorker(w.ID, fmt.Sprintf("%s vs %s: %s (%s)",
			g.Names[0], g.Names[1], result, reason))
		env.Dashboard.SetScore(env.Queue.Results())
	}
}

// printf writes one line to stdout under the print mutex, so lines
// from concurrent workers never interleave.
var printMu sync.Mutex

func (w *Worker) printf(line string) {
	printMu.Lock()
	fmt.Print(line)
	printMu.Unlock()
}

// die aborts the run. Worker errors are not recoverable: masking an
// engine failure would corrupt the very measurement this tool exists
// to make.
func (w *Worker) die(err error) {
	fmt.Fprintf(os.Stderr, "[%d] %v\n", w.ID, err)
	os.Exit(1)
}

func (w *Worker) close() {
	if w.log != nil {
		_ = w.log.Close()
	}
}
