package position_test

import (
	"testing"

	"laptudirm.com/x/arbiter/pkg/position"
)

func TestPerft(t *testing.T) {
	tests := []struct {
		fen    string
		depth  int
		leaves int64
	}{
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", 5, 4865609},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0", 4, 4085603},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0", 5, 674624},
		{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0", 4, 422333},
		{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1", 4, 2103487},
		{"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0", 4, 3894594},
		// Chess960
		{"r1k1r2q/p1ppp1pp/8/8/8/8/P1PPP1PP/R1K1R2Q w KQkq - 0", 5, 7096972},
	}

	for _, test := range tests {
		t.Run(test.fen, func(t *testing.T) {
			p, err := position.FromFEN(test.fen)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}

			if leaves := position.Perft(p, test.depth); leaves != test.leaves {
				t.Errorf("perft(%d) = %d, want %d", test.depth, leaves, test.leaves)
			}
		})
	}
}
