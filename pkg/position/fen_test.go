package position_test

import (
	"testing"

	"laptudirm.com/x/arbiter/pkg/position"
)

func TestFENRoundTrip(t *testing.T) {
	tests := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2",
		"r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQ1RK1 b kq - 5 4",
		"rnbq1rk1/ppp1bppp/4pn2/3p2B1/2PP4/2N2N2/PP2PPPP/R2QKB1R w KQ - 6 6",
		"rnbqkbnr/ppp2ppp/8/2Ppp3/8/8/PP1PPPPP/RNBQKBNR w KQkq d6 0 3",
		"rnbqkbnr/pp1ppppp/8/8/2pPP3/5N2/PPP2PPP/RNBQKB1R b KQkq d3 0 3",
		"rn3rk1/pbp1qpp1/1p5p/3p4/3P4/3BPN2/PP3PPP/R2Q1RK1 b - - 3 12",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		// Chess960: king f1, rooks b1/g1, rights as file letters
		"1r3kr1/pppppppp/8/8/8/8/PPPPPPPP/1R3KR1 w BGbg - 0 1",
	}

	for n, test := range tests {
		t.Run(test, func(t *testing.T) {
			p, err := position.FromFEN(test)
			if err != nil {
				t.Fatalf("test %d: parse failed: %v", n, err)
			}

			if newFEN := p.FEN(); test != newFEN {
				t.Errorf("test %d: wrong fen\n%s\n%s\n", n, test, newFEN)
			}
		})
	}
}

func TestFENOptionalTails(t *testing.T) {
	p, err := position.FromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	want := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	if fen := p.FEN(); fen != want {
		t.Errorf("wrong fen\n%s\n%s\n", want, fen)
	}
}

func TestFENRejects(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"too few fields", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq"},
		{"bad piece", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1"},
		{"rank too wide", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"rank too narrow", "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"missing rank", "rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"two same-color kings", "8/2k5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"},
		{"no white king", "rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQ1BNR w - - 0 1"},
		{"bad side to move", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1"},
		{"castling right without rook", "rnbqkbn1/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN1 w Kk - 0 1"},
		{"pawn on back rank", "rnbqkbnP/ppppppp1/8/8/8/8/PPPPPPP1/RNBQKBNR w - - 0 1"},
		{"nine pawns", "rnbqkbnr/pppppppp/8/8/8/P7/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"impossible en passant rank", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e4 0 1"},
		{"en passant without pawn", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq e3 0 1"},
		{"occupied en passant origin", "rnbqkbnr/ppp1pppp/8/3p4/3P4/8/PPPNPPPP/R1BQKBNR b KQkq d3 0 1"},
		{"negative half-move clock", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1"},
		{"half-move clock at limit", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 100 1"},
		{"half-move clock past limit", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 120 1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := position.FromFEN(test.fen); err == nil {
				t.Errorf("parse of %q succeeded, want error", test.fen)
			}
		})
	}
}

func TestChess960Detection(t *testing.T) {
	tests := []struct {
		fen  string
		want bool
	}{
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", false},
		{"rn3rk1/pbp1qpp1/1p5p/3p4/3P4/3BPN2/PP3PPP/R2Q1RK1 b - - 3 12", false},
		{"1r3kr1/pppppppp/8/8/8/8/PPPPPPPP/1R3KR1 w BGbg - 0 1", true},
		{"rkr5/pppppppp/8/8/8/8/PPPPPPPP/RKR5 w CAca - 0 1", true},
	}

	for _, test := range tests {
		t.Run(test.fen, func(t *testing.T) {
			p, err := position.FromFEN(test.fen)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if p.Chess960 != test.want {
				t.Errorf("Chess960 = %v, want %v", p.Chess960, test.want)
			}
		})
	}
}
