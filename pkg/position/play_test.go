package position_test

import (
	"testing"

	"laptudirm.com/x/arbiter/pkg/position"
)

// testFENs is a small suite covering castling both ways, en passant,
// promotions, pins and checks, plus a Chess960 setup.
var testFENs = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"1r3kr1/pppppppp/8/8/8/8/PPPPPPPP/1R3KR1 w BGbg - 0 1",
}

// TestIncrementalKey plays every legal move of every test position a
// few plies deep and checks that the incrementally maintained Zobrist
// key always matches a from-scratch recomputation (a reparse of the
// emitted FEN).
func TestIncrementalKey(t *testing.T) {
	for _, fen := range testFENs {
		t.Run(fen, func(t *testing.T) {
			p, err := position.FromFEN(fen)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			checkKeys(t, p, 3)
		})
	}
}

func checkKeys(t *testing.T, p *position.Position, depth int) {
	t.Helper()

	for _, m := range p.GenerateMoves() {
		next := p.Play(m)

		// a reparse recomputes the key from scratch
		fresh, err := position.FromFEN(next.FEN())
		if err != nil {
			t.Fatalf("emitted fen %q does not reparse: %v", next.FEN(), err)
		}

		if fresh.Key != next.Key {
			t.Errorf("move %s on %s: incremental key %x, recomputed %x",
				m, p.FEN(), next.Key, fresh.Key)
			continue
		}

		if depth > 1 {
			checkKeys(t, p.Play(m), depth-1)
		}
	}
}

// TestPlayHistory checks that Play never mutates its receiver.
func TestPlayHistory(t *testing.T) {
	p, err := position.FromFEN(position.StartFEN)
	if err != nil {
		t.Fatal(err)
	}

	before := p.FEN()
	key := p.Key
	for _, m := range p.GenerateMoves() {
		_ = p.Play(m)
	}

	if p.FEN() != before || p.Key != key {
		t.Errorf("Play mutated its receiver: %s -> %s", before, p.FEN())
	}
}
