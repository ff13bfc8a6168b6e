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

// Package cli parses arbiter's command line. The grammar has
// repeatable compound flags (-engine and -each carry their own
// key=value sublanguages), so the arguments are tokenized by hand
// rather than through the flag package.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"laptudirm.com/x/arbiter/internal/engine"
	"laptudirm.com/x/arbiter/internal/game"
	"laptudirm.com/x/arbiter/internal/openings"
	"laptudirm.com/x/arbiter/internal/sprt"
)

// Options is everything the command line configures.
type Options struct {
	Concurrency int
	Games       int
	Rounds      int

	Repeat   bool
	Gauntlet bool
	Log      bool
	TUI      bool

	DrawCount, DrawScore     int
	ResignCount, ResignScore int

	PGN          string
	PGNVerbosity int

	SampleRate      float64
	SampleResolvePV bool
	SampleFile      string

	SPRT *sprt.Params

	Openings openings.Config

	Report string

	Engines []*engine.Config
}

// Parse turns the argument list (without the program name) into
// Options. Any syntax or range problem is an error; nothing is
// best-effort.
func Parse(args []string) (*Options, error) {
	o := &Options{
		Concurrency:  1,
		Games:        1,
		Rounds:       1,
		PGNVerbosity: 3,
	}

	each := &engine.Config{}
	eachSet := false

	for i := 0; i < len(args); i++ {
		var err error

		switch args[i] {
		case "-repeat":
			o.Repeat = true
			o.Openings.Repeat = true
		case "-gauntlet":
			o.Gauntlet = true
		case "-log":
			o.Log = true
		case "-tui":
			o.TUI = true

		case "-concurrency":
			if o.Concurrency, err = intValue(args, &i); err != nil {
				return nil, err
			}
		case "-games":
			if o.Games, err = intValue(args, &i); err != nil {
				return nil, err
			}
		case "-rounds":
			if o.Rounds, err = intValue(args, &i); err != nil {
				return nil, err
			}

		case "-draw":
			if err = parseAdjudication(args, &i, &o.DrawCount, &o.DrawScore); err != nil {
				return nil, err
			}
		case "-resign":
			if err = parseAdjudication(args, &i, &o.ResignCount, &o.ResignScore); err != nil {
				return nil, err
			}

		case "-engine":
			eo := &engine.Config{}
			if err = parseEngine(args, &i, eo); err != nil {
				return nil, err
			}
			o.Engines = append(o.Engines, eo)
		case "-each":
			if err = parseEngine(args, &i, each); err != nil {
				return nil, err
			}
			eachSet = true

		case "-openings":
			if err = parseOpenings(args, &i, &o.Openings); err != nil {
				return nil, err
			}

		case "-pgn":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("cli: missing value for -pgn")
			}
			i++
			o.PGN = args[i]
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				if o.PGNVerbosity, err = strconv.Atoi(args[i]); err != nil {
					return nil, fmt.Errorf("cli: invalid -pgn verbosity %q", args[i])
				}
			}

		case "-sample":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("cli: missing value for -sample")
			}
			i++
			if err = parseSample(args[i], o); err != nil {
				return nil, err
			}

		case "-sprt":
			o.SPRT = &sprt.Params{Alpha: 0.05, Beta: 0.05}
			if err = parseSPRT(args, &i, o.SPRT); err != nil {
				return nil, err
			}

		case "-report":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("cli: missing value for -report")
			}
			i++
			o.Report = args[i]

		default:
			return nil, fmt.Errorf("cli: unknown option %q", args[i])
		}
	}

	if eachSet {
		for _, eo := range o.Engines {
			applyDefaults(eo, each)
		}
	}

	switch {
	case len(o.Engines) < 2:
		return nil, fmt.Errorf("cli: at least 2 engines are needed")
	case o.SPRT != nil && len(o.Engines) != 2:
		return nil, fmt.Errorf("cli: only 2 engines for SPRT")
	case o.Concurrency < 1:
		return nil, fmt.Errorf("cli: concurrency must be at least 1")
	case o.Games < 1 || o.Rounds < 1:
		return nil, fmt.Errorf("cli: games and rounds must be at least 1")
	}

	for _, eo := range o.Engines {
		if eo.Cmd == "" {
			return nil, fmt.Errorf("cli: missing command to start engine")
		}
	}

	return o, nil
}

// GameConfig assembles the per-game adjudication and sampling
// settings from the parsed options.
func (o *Options) GameConfig() *game.Config {
	return &game.Config{
		DrawCount:       o.DrawCount,
		DrawScore:       o.DrawScore,
		ResignCount:     o.ResignCount,
		ResignScore:     o.ResignScore,
		SampleRate:      o.SampleRate,
		SampleResolvePV: o.SampleResolvePV,
	}
}

// parseEngine consumes the key=value tokens of one -engine or -each
// flag, up to the next dash flag.
func parseEngine(args []string, i *int, eo *engine.Config) error {
	for *i+1 < len(args) && !strings.HasPrefix(args[*i+1], "-") {
		*i++
		token := args[*i]

		key, value, found := strings.Cut(token, "=")
		if !found {
			return fmt.Errorf("cli: illegal syntax %q", token)
		}

		var err error
		switch {
		case key == "cmd":
			eo.Cmd = value
		case key == "name":
			eo.Name = value
		case strings.HasPrefix(key, "option."):
			eo.Options = append(eo.Options, engine.Option{
				Name:  strings.TrimPrefix(key, "option."),
				Value: value,
			})
		case key == "depth":
			if eo.Depth, err = strconv.Atoi(value); err != nil {
				return fmt.Errorf("cli: invalid depth %q", value)
			}
		case key == "nodes":
			if eo.Nodes, err = strconv.ParseInt(value, 10, 64); err != nil {
				return fmt.Errorf("cli: invalid nodes %q", value)
			}
		case key == "st":
			seconds, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("cli: invalid st %q", value)
			}
			eo.MoveTime = int64(seconds * 1000)
		case key == "tc":
			if err = parseTimeControl(value, eo); err != nil {
				return err
			}
		default:
			return fmt.Errorf("cli: illegal syntax %q", token)
		}
	}
	return nil
}

// parseTimeControl parses "time+inc" or "movestogo/time+inc", with
// time and inc given in seconds.
func parseTimeControl(s string, eo *engine.Config) error {
	left, right, hasInc := strings.Cut(s, "+")

	var increment float64
	var err error
	if hasInc {
		if increment, err = strconv.ParseFloat(right, 64); err != nil {
			return fmt.Errorf("cli: invalid tc increment %q", right)
		}
	}

	if mtg, rest, found := strings.Cut(left, "/"); found {
		if eo.MovesToGo, err = strconv.Atoi(mtg); err != nil {
			return fmt.Errorf("cli: invalid tc movestogo %q", mtg)
		}
		left = rest
	}

	seconds, err := strconv.ParseFloat(left, 64)
	if err != nil {
		return fmt.Errorf("cli: invalid tc time %q", left)
	}

	eo.Time = int64(seconds * 1000)
	eo.Increment = int64(increment * 1000)
	return nil
}

func parseOpenings(args []string, i *int, cfg *openings.Config) error {
	for *i+1 < len(args) && !strings.HasPrefix(args[*i+1], "-") {
		*i++
		token := args[*i]

		key, value, found := strings.Cut(token, "=")
		if !found {
			return fmt.Errorf("cli: illegal token in -openings: %q", token)
		}

		switch key {
		case "file":
			cfg.File = value
		case "order":
			switch value {
			case "random":
				cfg.Random = true
			case "sequential":
				cfg.Random = false
			default:
				return fmt.Errorf("cli: invalid order for -openings: %q", value)
			}
		case "srand":
			seed, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return fmt.Errorf("cli: invalid srand %q", value)
			}
			cfg.Seed = seed
		case "format":
			switch value {
			case "fen", "epd":
				cfg.Format = openings.FormatFEN
			case "pgn":
				cfg.Format = openings.FormatPGN
			default:
				return fmt.Errorf("cli: invalid format for -openings: %q", value)
			}
		default:
			return fmt.Errorf("cli: illegal token in -openings: %q", token)
		}
	}
	return nil
}

// parseSample parses "rate[,y|n[,file]]".
func parseSample(s string, o *Options) error {
	fields := strings.Split(s, ",")

	rate, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || rate < 0 || rate > 1 {
		return fmt.Errorf("cli: sample rate %q must be between 0 and 1", fields[0])
	}
	o.SampleRate = rate

	if len(fields) > 1 {
		o.SampleResolvePV = fields[1] == "y"
	}

	o.SampleFile = "sample.csv"
	if len(fields) > 2 {
		o.SampleFile = fields[2]
	}
	return nil
}

func parseSPRT(args []string, i *int, p *sprt.Params) error {
	for *i+1 < len(args) && !strings.HasPrefix(args[*i+1], "-") {
		*i++
		token := args[*i]

		key, value, found := strings.Cut(token, "=")
		if !found {
			return fmt.Errorf("cli: illegal token in -sprt: %q", token)
		}

		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("cli: invalid value in -sprt: %q", token)
		}

		switch key {
		case "elo0":
			p.Elo0 = f
		case "elo1":
			p.Elo1 = f
		case "alpha":
			p.Alpha = f
		case "beta":
			p.Beta = f
		default:
			return fmt.Errorf("cli: illegal token in -sprt: %q", token)
		}
	}

	if err := p.Validate(); err != nil {
		return fmt.Errorf("cli: %w", err)
	}
	return nil
}

func parseAdjudication(args []string, i *int, count, score *int) error {
	flag := args[*i]
	if *i+2 >= len(args) {
		return fmt.Errorf("cli: missing parameter(s) for %q", flag)
	}

	var err error
	if *count, err = strconv.Atoi(args[*i+1]); err != nil {
		return fmt.Errorf("cli: invalid count for %q: %q", flag, args[*i+1])
	}
	if *score, err = strconv.Atoi(args[*i+2]); err != nil {
		return fmt.Errorf("cli: invalid score for %q: %q", flag, args[*i+2])
	}
	*i += 2
	return nil
}

func intValue(args []string, i *int) (int, error) {
	if *i+1 >= len(args) {
		return 0, fmt.Errorf("cli: missing value for %q", args[*i])
	}
	*i++
	n, err := strconv.Atoi(args[*i])
	if err != nil {
		return 0, fmt.Errorf("cli: invalid value for %q: %q", args[*i-1], args[*i])
	}
	return n, nil
}

// applyDefaults copies the -each defaults into an engine config for
// every field the engine did not set itself. The -each options are
// placed before the engine's own, so an engine's own setting of the
// same option is sent last and wins.
func applyDefaults(eo, each *engine.Config) {
	if eo.Cmd == "" {
		eo.Cmd = each.Cmd
	}
	if eo.Name == "" {
		eo.Name = each.Name
	}
	eo.Options = append(append([]engine.Option(nil), each.Options...), eo.Options...)
	if eo.Time == 0 {
		eo.Time = each.Time
	}
	if eo.Increment == 0 {
		eo.Increment = each.Increment
	}
	if eo.MoveTime == 0 {
		eo.MoveTime = each.MoveTime
	}
	if eo.Nodes == 0 {
		eo.Nodes = each.Nodes
	}
	if eo.Depth == 0 {
		eo.Depth = each.Depth
	}
	if eo.MovesToGo == 0 {
		eo.MovesToGo = each.MovesToGo
	}
}
