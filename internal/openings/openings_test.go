package openings_test

import (
	"os"
	"path/filepath"
	"testing"

	"laptudirm.com/x/arbiter/internal/openings"
	"laptudirm.com/x/arbiter/pkg/position"
)

func writeBook(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.epd")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSequential(t *testing.T) {
	path := writeBook(t,
		"fen-zero ; id one\n"+
			"fen-one\n"+
			"fen-two ;comment\n")

	src, err := openings.Open(openings.Config{File: path})
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	want := []string{"fen-zero", "fen-one", "fen-two", "fen-zero", "fen-one"}
	for n, fen := range want {
		got, err := src.Get(n)
		if err != nil {
			t.Fatal(err)
		}
		if got != fen {
			t.Errorf("Get(%d) = %q, want %q", n, got, fen)
		}
	}
}

func TestRepeat(t *testing.T) {
	path := writeBook(t, "a\nb\nc\n")

	src, err := openings.Open(openings.Config{File: path, Repeat: true})
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	for n := 0; n < 6; n += 2 {
		first, _ := src.Get(n)
		second, _ := src.Get(n + 1)
		if first != second {
			t.Errorf("repeat pair %d: %q != %q", n, first, second)
		}
	}

	a, _ := src.Get(0)
	b, _ := src.Get(2)
	if a == b {
		t.Errorf("distinct pairs got the same opening %q", a)
	}
}

func TestShuffleDeterminism(t *testing.T) {
	path := writeBook(t, "a\nb\nc\nd\ne\nf\ng\nh\n")

	read := func() []string {
		src, err := openings.Open(openings.Config{File: path, Random: true, Seed: 7})
		if err != nil {
			t.Fatal(err)
		}
		defer src.Close()

		var fens []string
		for n := 0; n < 8; n++ {
			fen, err := src.Get(n)
			if err != nil {
				t.Fatal(err)
			}
			fens = append(fens, fen)
		}
		return fens
	}

	first, second := read(), read()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("same seed produced different orders at %d: %q vs %q", i, first[i], second[i])
		}
	}

	seen := make(map[string]bool)
	for _, fen := range first {
		if seen[fen] {
			t.Errorf("opening %q served twice in one cycle", fen)
		}
		seen[fen] = true
	}
}

func TestEmptySource(t *testing.T) {
	src, err := openings.Open(openings.Config{})
	if err != nil {
		t.Fatal(err)
	}

	fen, err := src.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if fen != position.StartFEN {
		t.Errorf("empty source returned %q, want the starting position", fen)
	}
}
