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

// Package report renders a finished match as an HTML chart: the
// running score percentage over completed games, plus the SPRT
// log-likelihood ratio when a test is running.
package report

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Report accumulates one data point per completed game.
type Report struct {
	mu sync.Mutex

	sprt   bool
	scores []opts.LineData
	llrs   []opts.LineData
	games  []string
}

// New returns an empty report; sprt controls whether an LLR series is
// recorded alongside the score.
func New(sprt bool) *Report {
	return &Report{sprt: sprt}
}

// Record appends the state after one completed game: the global WLD
// totals (indexed loss/draw/win) and, if applicable, the current LLR.
func (r *Report) Record(wld [3]int, llr float64) {
	n := wld[0] + wld[1] + wld[2]
	if n == 0 {
		return
	}
	score := (float64(wld[2]) + 0.5*float64(wld[1])) / float64(n)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.games = append(r.games, fmt.Sprintf("%d", n))
	r.scores = append(r.scores, opts.LineData{Value: score * 100})
	if r.sprt {
		r.llrs = append(r.llrs, opts.LineData{Value: llr})
	}
}

// WriteHTML renders the recorded series as a line chart to path.
func (r *Report) WriteHTML(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "match progress"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "games"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "score %"}),
	)

	line.SetXAxis(r.games).AddSeries("score %", r.scores)
	if r.sprt {
		line.AddSeries("LLR", r.llrs)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer file.Close()

	if err := line.Render(file); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
