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

// Package engine implements one session with a chess engine child
// process: the protocol handshake, option setting, and the
// position/go/bestmove cycle of a game, every blocking read bracketed
// by the owning worker's watchdog deadline.
package engine

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"laptudirm.com/x/arbiter/internal/deadline"
	"laptudirm.com/x/arbiter/internal/process"
)

// handshakeHeadroom bounds the uci..uciok dialogue and every isready
// sync; goHeadroom is the grace window an engine gets to answer a stop
// after its search time is up.
const (
	handshakeHeadroom = time.Second
	goHeadroom        = time.Second
)

// ScoreMate is the sentinel magnitude for forced-mate scores: an
// engine reporting mate in n is recorded as ±(ScoreMate - n), far
// outside any centipawn range.
const ScoreMate = math.MaxInt32

// Config tells a session how to start and limit one engine.
type Config struct {
	Cmd  string
	Name string

	// Options are setoption pairs, applied in the order given.
	Options []Option

	// search limits; zero means unlimited
	Depth     int
	Nodes     int64
	MoveTime  int64 // msec
	Time      int64 // msec
	Increment int64 // msec
	MovesToGo int
}

// Option is one UCI option assignment.
type Option struct {
	Name, Value string
}

// HasTimeControl reports whether any wall-clock limit applies, as
// opposed to only depth/nodes bounds.
func (c *Config) HasTimeControl() bool {
	return c.Time != 0 || c.Increment != 0 || c.MoveTime != 0
}

// Info accumulates what the engine reported while searching one move.
type Info struct {
	Score int
	Depth int
	Time  int64 // msec actually spent
	PV    string
}

// Engine is a live engine session. It is owned by exactly one worker;
// nothing in it is safe for concurrent use.
type Engine struct {
	name string

	proc     *process.Process
	proto    Protocol
	log      io.Writer
	deadline *deadline.Deadline
}

// New spawns the configured engine and performs the protocol
// handshake, all under the handshake deadline: an engine that cannot
// introduce itself within a second is treated as unresponsive.
func New(cfg *Config, proto Protocol, dl *deadline.Deadline, log io.Writer) (*Engine, error) {
	if cfg.Cmd == "" {
		return nil, fmt.Errorf("engine: missing command")
	}

	command, args := process.SplitCommand(cfg.Cmd)

	var stderr io.Writer
	if log != nil {
		stderr = log
	}

	proc, err := process.New(command, args, stderr)
	if err != nil {
		return nil, fmt.Errorf("engine %q: %w", cfg.Cmd, err)
	}

	e := &Engine{
		name:     cfg.Name,
		proc:     proc,
		proto:    proto,
		log:      log,
		deadline: dl,
	}
	if e.name == "" {
		e.name = cfg.Cmd
	}

	e.setDeadline(time.Now().Add(handshakeHeadroom))
	defer e.clearDeadline()

	if err := e.writeLine("uci"); err != nil {
		return nil, err
	}

	for {
		line, err := e.readLine()
		if err != nil {
			return nil, err
		}
		if line == "uciok" {
			break
		}

		// without a configured name, the engine's self-reported one
		// becomes the display name
		if cfg.Name == "" {
			if id, ok := strings.CutPrefix(line, "id name "); ok {
				e.name = strings.TrimSpace(id)
			}
		}
	}

	for _, opt := range cfg.Options {
		if err := e.SetOption(opt.Name, opt.Value); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Name returns the engine's display name: the configured one, the
// name the engine introduced itself with, or its command line, in
// that order of preference.
func (e *Engine) Name() string {
	return e.name
}

// SetOption assigns one engine option.
func (e *Engine) SetOption(name, value string) error {
	return e.writeLine("setoption name " + name + " value " + value)
}

// NewGame tells the engine to reset its game state.
func (e *Engine) NewGame() error {
	return e.writeLine("ucinewgame")
}

// Position hands the engine the position to search from, encoded per
// the session's protocol.
func (e *Engine) Position(fen string, moves []string) error {
	return e.writeLine(e.proto.FormatPosition(fen, moves))
}

// Sync blocks until the engine has processed everything sent so far,
// under the sync deadline.
func (e *Engine) Sync() error {
	e.setDeadline(time.Now().Add(handshakeHeadroom))
	defer e.clearDeadline()

	if err := e.writeLine("isready"); err != nil {
		return err
	}

	for {
		line, err := e.readLine()
		if err != nil {
			return err
		}
		if line == "readyok" {
			return nil
		}
	}
}

// maxBudget caps the per-move budget so converting it to a deadline
// cannot overflow; a depth/nodes-only search passes an "unlimited"
// budget far beyond it.
const maxBudget = int64(1) << 40 // msec, roughly 35 years

// Search runs one go/bestmove cycle. timeLeft is the engine's budget
// in msec; on return it holds what remains, possibly negative when the
// engine overshot. The watchdog deadline is the budget plus a grace
// window, within which an engine that missed its budget must still
// respond to the stop command; ok is false if it produced no bestmove
// by its budget even after stop, which the caller scores as a time
// loss either way.
func (e *Engine) Search(lim Limits, timeLeft *int64) (best string, info Info, ok bool, err error) {
	budget := *timeLeft
	if budget > maxBudget {
		budget = maxBudget
	}

	start := time.Now()
	limit := start.Add(time.Duration(budget) * time.Millisecond)

	e.setDeadline(limit.Add(goHeadroom))
	defer e.clearDeadline()

	if err = e.writeLine(e.proto.FormatGo(lim)); err != nil {
		return "", info, false, err
	}

	for *timeLeft >= 0 && !ok {
		var line string
		if line, err = e.readLine(); err != nil {
			return "", info, false, err
		}
		*timeLeft = time.Until(limit).Milliseconds()

		if m, found := e.proto.ParseBestmove(line); found {
			best, ok = m, true
		} else {
			parseInfo(line, &info)
		}
	}

	// Budget exhausted without a bestmove: send stop, and give the
	// engine its grace window to flush one out. The game is a time
	// loss regardless; the deadline stays armed to catch an engine
	// that ignores the stop too.
	if !ok {
		if err = e.writeLine("stop"); err != nil {
			return "", info, false, err
		}
		for {
			var line string
			if line, err = e.readLine(); err != nil {
				return "", info, false, err
			}
			if _, found := e.proto.ParseBestmove(line); found {
				break
			}
		}
	}

	info.Time = time.Since(start).Milliseconds()
	return best, info, ok, nil
}

// Quit asks the engine to exit and tears the session down.
func (e *Engine) Quit() error {
	if err := e.writeLine("quit"); err != nil {
		return err
	}
	return e.proc.Terminate()
}

// parseInfo scans an info line for the score, depth and pv fields.
// Anything else is ignored.
func parseInfo(line string, info *Info) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "info" {
		return
	}

	for i := 1; i < len(fields); i++ {
		switch fields[i] {
		case "depth":
			if i+1 < len(fields) {
				if d, err := strconv.Atoi(fields[i+1]); err == nil {
					info.Depth = d
				}
				i++
			}

		case "score":
			if i+2 < len(fields) {
				n, err := strconv.Atoi(fields[i+2])
				if err != nil {
					break
				}
				switch fields[i+1] {
				case "cp":
					info.Score = n
				case "mate":
					// mate in n maps to the signed sentinel range
					if n >= 0 {
						info.Score = ScoreMate - n
					} else {
						info.Score = -ScoreMate - n
					}
				}
				i += 2
			}

		case "pv":
			// the pv is everything to the end of the line
			info.PV = strings.Join(fields[i+1:], " ")
			return
		}
	}
}

// setDeadline arms the worker's watchdog for this engine, recording
// the fact in the transcript so an overdue run can be reconstructed.
func (e *Engine) setDeadline(expires time.Time) {
	e.deadline.Set(e.name, expires)
	if e.log != nil {
		fmt.Fprintf(e.log, "deadline: %s must respond by %s\n", e.name, expires.Format(time.TimeOnly))
	}
}

func (e *Engine) clearDeadline() {
	e.deadline.Clear()
	if e.log != nil {
		fmt.Fprintf(e.log, "deadline: %s responded in time\n", e.name)
	}
}

func (e *Engine) readLine() (string, error) {
	line, err := e.proc.ReadLine()
	if err != nil {
		return "", fmt.Errorf("engine %s: %w", e.name, err)
	}
	if e.log != nil {
		fmt.Fprintf(e.log, "%s -> %s\n", e.name, line)
	}
	return line, nil
}

func (e *Engine) writeLine(line string) error {
	if err := e.proc.WriteLine(line); err != nil {
		return fmt.Errorf("engine %s: %w", e.name, err)
	}
	if e.log != nil {
		fmt.Fprintf(e.log, "%s <- %s\n", e.name, line)
	}
	return nil
}
