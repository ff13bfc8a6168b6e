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

// Arbiter runs matches between UCI chess engines and reports which is
// stronger.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"laptudirm.com/x/arbiter/internal/build"
	"laptudirm.com/x/arbiter/internal/cli"
	"laptudirm.com/x/arbiter/internal/openings"
	"laptudirm.com/x/arbiter/internal/report"
	"laptudirm.com/x/arbiter/internal/tournament"
	"laptudirm.com/x/arbiter/internal/tui"
	"laptudirm.com/x/arbiter/internal/worker"
	"laptudirm.com/x/arbiter/internal/writer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	opts, err := cli.Parse(os.Args[1:])
	if err != nil {
		return err
	}

	fmt.Printf("Arbiter %s\n", build.Version)

	source, err := openings.Open(opts.Openings)
	if err != nil {
		return err
	}
	defer source.Close()

	queue := tournament.NewQueue(len(opts.Engines), opts.Rounds, opts.Games, opts.Gauntlet)

	env := &worker.Env{
		Queue:    queue,
		Openings: source,
		Engines:  opts.Engines,
		Game:     opts.GameConfig(),

		PGNVerbosity: opts.PGNVerbosity,
		SPRT:         opts.SPRT,
	}

	if opts.PGN != "" {
		file, err := os.Create(opts.PGN)
		if err != nil {
			return err
		}
		defer file.Close()
		env.PGN = writer.New(file)
	}

	if opts.SampleRate > 0 {
		file, err := os.Create(opts.SampleFile)
		if err != nil {
			return err
		}
		defer file.Close()
		env.Samples = writer.New(file)
	}

	if opts.Report != "" {
		env.Report = report.New(opts.SPRT != nil)
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	var dashboard *tui.Dashboard
	switch {
	case opts.TUI && tui.Usable():
		if dashboard, err = tui.New(opts.Concurrency, pairLabels(opts)); err != nil {
			return err
		}
		env.Dashboard = dashboard
	case interactive:
		env.Colorize = true
		env.Progress = progressbar.NewOptions(queue.Len(),
			progressbar.OptionSetDescription("games"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)
	}

	pool, err := worker.NewPool(opts.Concurrency, opts.Log)
	if err != nil {
		return err
	}

	pool.Start(env)

	done := make(chan struct{})
	if dashboard != nil {
		go func() {
			dashboard.Run(done)
			dashboard.Close()
		}()
	}

	// The watchdog: poll every worker's deadline until all workers
	// have exited. The first overdue deadline aborts the run; an
	// unresponsive engine is not something this tool works around.
	for pool.Busy() > 0 {
		time.Sleep(100 * time.Millisecond)

		for _, w := range pool.Workers() {
			if engine, late, overdue := w.Deadline.Overdue(time.Now()); overdue {
				if dashboard != nil {
					dashboard.Close()
				}
				return fmt.Errorf("[%d] engine %s is unresponsive (%v past deadline)", w.ID, engine, late)
			}
		}
	}

	pool.Wait()
	close(done)

	if env.Report != nil {
		if err := env.Report.WriteHTML(opts.Report); err != nil {
			return err
		}
	}

	// a concluded SPRT stops the match and exits nonzero, like any
	// other early termination
	if decision := env.SPRTDecision.Load(); decision != nil {
		return fmt.Errorf("%s", decision)
	}

	return nil
}

// pairLabels builds the dashboard's one label per enumerated pair,
// mirroring the queue's pair order.
func pairLabels(opts *cli.Options) []string {
	name := func(i int) string {
		if opts.Engines[i].Name != "" {
			return opts.Engines[i].Name
		}
		return opts.Engines[i].Cmd
	}

	var labels []string
	if opts.Gauntlet {
		for e2 := 1; e2 < len(opts.Engines); e2++ {
			labels = append(labels, fmt.Sprintf("%s vs %s", name(0), name(e2)))
		}
	} else {
		for e1 := 0; e1 < len(opts.Engines)-1; e1++ {
			for e2 := e1 + 1; e2 < len(opts.Engines); e2++ {
				labels = append(labels, fmt.Sprintf("%s vs %s", name(e1), name(e2)))
			}
		}
	}
	return labels
}
