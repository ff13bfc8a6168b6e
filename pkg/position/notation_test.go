package position_test

import (
	"testing"

	"laptudirm.com/x/arbiter/pkg/position"
)

// TestLANBijection round-trips every legal move of every test position
// through its long algebraic form, in both standard and Chess960 mode.
func TestLANBijection(t *testing.T) {
	for _, fen := range testFENs {
		t.Run(fen, func(t *testing.T) {
			p, err := position.FromFEN(fen)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}

			for _, m := range p.GenerateMoves() {
				lan := p.MoveToLAN(m)

				back, err := p.MoveFromLAN(lan)
				if err != nil {
					t.Errorf("lan %q of move %s does not parse: %v", lan, m, err)
					continue
				}
				if back != m {
					t.Errorf("lan %q: round trip %s -> %s", lan, m, back)
				}
			}
		})
	}
}

// TestSANUnique checks that SAN output is unique among the legal moves
// of a position, which is what makes it parseable at all.
func TestSANUnique(t *testing.T) {
	for _, fen := range testFENs {
		t.Run(fen, func(t *testing.T) {
			p, err := position.FromFEN(fen)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}

			seen := make(map[string]string)
			for _, m := range p.GenerateMoves() {
				san := p.MoveToSAN(m)
				if prev, ok := seen[san]; ok {
					t.Errorf("san %q is ambiguous: %s and %s", san, prev, m.String())
				}
				seen[san] = m.String()
			}
		})
	}
}

func TestSAN(t *testing.T) {
	tests := []struct {
		fen  string
		lan  string
		want string
	}{
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "e2e4", "e4"},
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "g1f3", "Nf3"},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", "d5e6", "dxe6"},
		{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", "d7c8q", "dxc8=Q"},
		{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", "d7c8n", "dxc8=N"},
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "b1c3", "Nc3"},
		// same-rank knights disambiguate by file, same-file by rank
		{"5k2/8/8/8/8/8/8/N1N1K3 w - - 0 1", "a1b3", "Nab3"},
		{"5k2/8/8/N7/8/8/8/N3K3 w - - 0 1", "a1b3", "N1b3"},
		// Chess960 kingside castle, king f1 rook g1
		{"1r3kr1/pppppppp/8/8/8/8/PPPPPPPP/1R3KR1 w BGbg - 0 1", "f1g1", "O-O"},
	}

	for _, test := range tests {
		t.Run(test.fen+" "+test.lan, func(t *testing.T) {
			p, err := position.FromFEN(test.fen)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}

			m, err := p.MoveFromLAN(test.lan)
			if err != nil {
				t.Fatalf("lan %q does not parse: %v", test.lan, err)
			}

			if san := p.MoveToSAN(m); san != test.want {
				t.Errorf("san of %s = %q, want %q", test.lan, san, test.want)
			}
		})
	}
}
