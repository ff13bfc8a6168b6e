package cli_test

import (
	"strings"
	"testing"

	"laptudirm.com/x/arbiter/internal/cli"
	"laptudirm.com/x/arbiter/internal/openings"
)

func split(s string) []string {
	return strings.Fields(s)
}

func TestParse(t *testing.T) {
	opts, err := cli.Parse(split(
		"-engine cmd=./e1 name=one option.Hash=16 tc=40/60+0.6 " +
			"-engine cmd=./e2 depth=12 " +
			"-each option.Threads=2 nodes=50000 " +
			"-concurrency 4 -games 2 -rounds 3 -repeat -log " +
			"-draw 8 10 -resign 4 500 " +
			"-openings file=book.epd order=random srand=42 " +
			"-pgn out.pgn 2 -sample 0.25,y,data.csv"))
	if err != nil {
		t.Fatal(err)
	}

	if opts.Concurrency != 4 || opts.Games != 2 || opts.Rounds != 3 {
		t.Errorf("wrong run shape: %d/%d/%d", opts.Concurrency, opts.Games, opts.Rounds)
	}
	if !opts.Repeat || !opts.Log || opts.Gauntlet {
		t.Errorf("wrong flags: repeat=%v log=%v gauntlet=%v", opts.Repeat, opts.Log, opts.Gauntlet)
	}
	if opts.DrawCount != 8 || opts.DrawScore != 10 || opts.ResignCount != 4 || opts.ResignScore != 500 {
		t.Errorf("wrong adjudication settings")
	}
	if opts.PGN != "out.pgn" || opts.PGNVerbosity != 2 {
		t.Errorf("wrong pgn settings: %q verbosity %d", opts.PGN, opts.PGNVerbosity)
	}
	if opts.SampleRate != 0.25 || !opts.SampleResolvePV || opts.SampleFile != "data.csv" {
		t.Errorf("wrong sample settings")
	}
	if opts.Openings.File != "book.epd" || !opts.Openings.Random || opts.Openings.Seed != 42 {
		t.Errorf("wrong openings settings")
	}
	if !opts.Openings.Repeat {
		t.Errorf("-repeat did not reach the opening source")
	}

	if len(opts.Engines) != 2 {
		t.Fatalf("parsed %d engines, want 2", len(opts.Engines))
	}

	e1, e2 := opts.Engines[0], opts.Engines[1]
	if e1.Cmd != "./e1" || e1.Name != "one" {
		t.Errorf("wrong engine 1 identity: %q %q", e1.Cmd, e1.Name)
	}
	if e1.Time != 60000 || e1.Increment != 600 || e1.MovesToGo != 40 {
		t.Errorf("wrong tc: time=%d inc=%d mtg=%d", e1.Time, e1.Increment, e1.MovesToGo)
	}
	if e2.Depth != 12 {
		t.Errorf("wrong engine 2 depth: %d", e2.Depth)
	}

	// -each applies to both engines
	for i, eo := range opts.Engines {
		if eo.Nodes != 50000 {
			t.Errorf("engine %d missed -each nodes: %d", i, eo.Nodes)
		}
		found := false
		for _, opt := range eo.Options {
			if opt.Name == "Threads" && opt.Value == "2" {
				found = true
			}
		}
		if !found {
			t.Errorf("engine %d missed -each option.Threads", i)
		}
	}
	for _, opt := range e1.Options {
		if opt.Name == "Hash" && opt.Value != "16" {
			t.Errorf("engine 1 lost its own option.Hash")
		}
	}
}

func TestParseOpeningsFormat(t *testing.T) {
	opts, err := cli.Parse(split(
		"-engine cmd=e1 -engine cmd=e2 -openings file=book.pgn format=pgn order=sequential"))
	if err != nil {
		t.Fatal(err)
	}
	if opts.Openings.Format != openings.FormatPGN {
		t.Errorf("format=pgn not parsed")
	}
}

func TestParseSPRT(t *testing.T) {
	opts, err := cli.Parse(split(
		"-engine cmd=e1 -engine cmd=e2 -sprt elo0=0 elo1=5 alpha=0.05 beta=0.1"))
	if err != nil {
		t.Fatal(err)
	}
	p := opts.SPRT
	if p == nil || p.Elo0 != 0 || p.Elo1 != 5 || p.Alpha != 0.05 || p.Beta != 0.1 {
		t.Errorf("wrong sprt params: %+v", p)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{"no engines", "-games 2"},
		{"one engine", "-engine cmd=e1"},
		{"engine without cmd", "-engine name=x -engine cmd=e2"},
		{"unknown flag", "-engine cmd=e1 -engine cmd=e2 -frobnicate"},
		{"bad engine key", "-engine cmd=e1 bogus=1 -engine cmd=e2"},
		{"missing draw params", "-engine cmd=e1 -engine cmd=e2 -draw 8"},
		{"bad sample rate", "-engine cmd=e1 -engine cmd=e2 -sample 1.5"},
		{"sprt needs two engines", "-engine cmd=e1 -engine cmd=e2 -engine cmd=e3 -sprt elo0=0 elo1=5"},
		{"invalid sprt", "-engine cmd=e1 -engine cmd=e2 -sprt elo0=5 elo1=0"},
		{"bad openings order", "-engine cmd=e1 -engine cmd=e2 -openings order=chaotic"},
		{"zero concurrency", "-engine cmd=e1 -engine cmd=e2 -concurrency 0"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := cli.Parse(split(test.args)); err == nil {
				t.Errorf("parse of %q succeeded, want error", test.args)
			}
		})
	}
}
