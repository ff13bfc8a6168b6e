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

// Package tui renders a live dashboard of a running match: one box
// per worker showing its current game, and a table of per-pair
// scores. The dashboard is presentation only; it reads shared state
// through the same snapshots as the console reporter and never feeds
// anything back into the run.
package tui

import (
	"fmt"
	"os"
	"sync"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/term"
)

// Usable reports whether a dashboard can run at all: stdout must be a
// terminal.
func Usable() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Dashboard is the live match view. SetWorker and SetScore may be
// called from any worker; rendering happens on the Run goroutine.
type Dashboard struct {
	mu sync.Mutex

	pairs   []string // "e1 vs e2" labels, one per pair
	workers []*widgets.Paragraph
	score   *widgets.Table
	grid    *ui.Grid
}

// New initializes the terminal and builds the dashboard layout for
// the given worker count and pair labels.
func New(workerCount int, pairs []string) (*Dashboard, error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	d := &Dashboard{pairs: pairs}

	for i := 0; i < workerCount; i++ {
		p := widgets.NewParagraph()
		p.Title = fmt.Sprintf("worker %d", i+1)
		p.Text = "idle"
		d.workers = append(d.workers, p)
	}

	d.score = widgets.NewTable()
	d.score.Title = "score"
	d.score.Rows = d.scoreRows(make([][3]int, len(pairs)))
	d.score.RowSeparator = false

	d.grid = ui.NewGrid()
	width, height := ui.TerminalDimensions()
	d.grid.SetRect(0, 0, width, height)

	var rows []interface{}
	for _, w := range d.workers {
		rows = append(rows, ui.NewRow(1.0/float64(workerCount+1), w))
	}
	rows = append(rows, ui.NewRow(1.0/float64(workerCount+1), d.score))
	d.grid.Set(rows...)

	return d, nil
}

// SetWorker updates one worker's box with its latest game line. Long
// lines are wrapped to the box width.
func (d *Dashboard) SetWorker(id int, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id < 1 || id > len(d.workers) {
		return
	}

	box := d.workers[id-1]
	width := box.Inner.Dx()
	if width <= 0 {
		width = 78
	}
	box.Text = wordwrap.WrapString(text, uint(width))
}

// SetScore updates the pair score table from a queue snapshot.
func (d *Dashboard) SetScore(wld [][3]int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.score.Rows = d.scoreRows(wld)
}

func (d *Dashboard) scoreRows(wld [][3]int) [][]string {
	rows := [][]string{{"pair", "wins", "losses", "draws"}}
	for i, label := range d.pairs {
		var w, l, dr int
		if i < len(wld) {
			w, l, dr = wld[i][2], wld[i][0], wld[i][1]
		}
		rows = append(rows, []string{
			label,
			fmt.Sprintf("%d", w),
			fmt.Sprintf("%d", l),
			fmt.Sprintf("%d", dr),
		})
	}
	return rows
}

// Run renders the dashboard until done closes or the user quits it
// with q or Ctrl-C. Quitting the dashboard does not stop the match;
// it only returns the terminal.
func (d *Dashboard) Run(done <-chan struct{}) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	events := ui.PollEvents()
	d.render()

	for {
		select {
		case <-done:
			return
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				return
			case "<Resize>":
				payload := e.Payload.(ui.Resize)
				d.mu.Lock()
				d.grid.SetRect(0, 0, payload.Width, payload.Height)
				d.mu.Unlock()
				d.render()
			}
		case <-ticker.C:
			d.render()
		}
	}
}

func (d *Dashboard) render() {
	d.mu.Lock()
	ui.Render(d.grid)
	d.mu.Unlock()
}

// Close returns the terminal to its normal state.
func (d *Dashboard) Close() {
	ui.Close()
}
