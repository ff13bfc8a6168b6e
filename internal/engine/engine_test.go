package engine

import "testing"

func TestParseInfo(t *testing.T) {
	tests := []struct {
		line  string
		score int
		depth int
		pv    string
	}{
		{"info depth 12 score cp 35 nodes 1000 pv e2e4 e7e5", 35, 12, "e2e4 e7e5"},
		{"info score cp -210 depth 8", -210, 8, ""},
		{"info depth 20 score mate 3 pv d8h4", ScoreMate - 3, 20, "d8h4"},
		{"info depth 20 score mate -5", -ScoreMate + 5, 20, ""},
		{"info string nothing of interest", 0, 0, ""},
		{"bestmove e2e4", 0, 0, ""},
	}

	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			var info Info
			parseInfo(test.line, &info)

			if info.Score != test.score || info.Depth != test.depth || info.PV != test.pv {
				t.Errorf("parsed %+v, want score=%d depth=%d pv=%q",
					info, test.score, test.depth, test.pv)
			}
		})
	}
}

func TestUCIGo(t *testing.T) {
	tests := []struct {
		lim  Limits
		want string
	}{
		{Limits{}, "go"},
		{Limits{Depth: 10}, "go depth 10"},
		{Limits{Nodes: 5000, MoveTime: 100}, "go nodes 5000 movetime 100"},
		{
			Limits{UseClock: true, WTime: 60000, WInc: 600, BTime: 55000, BInc: 600, MovesToGo: 38},
			"go wtime 60000 winc 600 btime 55000 binc 600 movestogo 38",
		},
	}

	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			if got := uciGo(test.lim); got != test.want {
				t.Errorf("uciGo = %q, want %q", got, test.want)
			}
		})
	}
}

func TestUCIPosition(t *testing.T) {
	fen := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

	if got, want := uciPosition(fen, nil), "position fen "+fen; got != want {
		t.Errorf("uciPosition = %q, want %q", got, want)
	}

	got := uciPosition(fen, []string{"e2e4", "e7e5"})
	want := "position fen " + fen + " moves e2e4 e7e5"
	if got != want {
		t.Errorf("uciPosition = %q, want %q", got, want)
	}
}

func TestUCIBestmove(t *testing.T) {
	if m, ok := uciBestmove("bestmove e2e4 ponder e7e5"); !ok || m != "e2e4" {
		t.Errorf("uciBestmove = %q, %v", m, ok)
	}
	if _, ok := uciBestmove("info depth 1"); ok {
		t.Error("info line parsed as bestmove")
	}
	if _, ok := uciBestmove("bestmove"); ok {
		t.Error("bare bestmove parsed as bestmove")
	}
}
