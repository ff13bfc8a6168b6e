package game_test

import (
	"strings"
	"testing"

	"laptudirm.com/x/arbiter/internal/engine"
	"laptudirm.com/x/arbiter/internal/game"
	"laptudirm.com/x/arbiter/internal/util"
	"laptudirm.com/x/arbiter/pkg/position"
)

// stub is a scriptable in-process player. Its zero value answers every
// search with a random legal move and a zero score; the hooks bend it
// into the various misbehaving engines the driver must handle.
type stub struct {
	name string
	rng  util.PRNG
	pos  *position.Position

	// optional behavior overrides
	script    []string // play these LAN moves first, then random
	played    int
	score     int
	burnClock bool // overshoot the time budget every move
}

func newStub(name string, seed uint64) *stub {
	s := &stub{name: name}
	s.rng.Seed(seed)
	return s
}

func (s *stub) Name() string                  { return s.name }
func (s *stub) SetOption(_, _ string) error   { return nil }
func (s *stub) NewGame() error                { return nil }
func (s *stub) Sync() error                   { return nil }

func (s *stub) Position(fen string, moves []string) error {
	pos, err := position.FromFEN(fen)
	if err != nil {
		return err
	}
	for _, lan := range moves {
		m, err := pos.MoveFromLAN(lan)
		if err != nil {
			return err
		}
		pos = pos.Play(m)
	}
	s.pos = pos
	return nil
}

func (s *stub) Search(_ engine.Limits, timeLeft *int64) (string, engine.Info, bool, error) {
	if s.burnClock {
		*timeLeft = -1
	}

	info := engine.Info{Score: s.score, Depth: 1}

	if s.played < len(s.script) {
		lan := s.script[s.played]
		s.played++
		return lan, info, true, nil
	}

	moves := s.pos.GenerateMoves()
	m := moves[int(s.rng.Uint64()%uint64(len(moves)))]
	return s.pos.MoveToLAN(m), info, true, nil
}

func noLimits() [2]*engine.Config {
	return [2]*engine.Config{{Depth: 1}, {Depth: 1}}
}

func play(t *testing.T, g *game.Game, players [2]game.Player, eo [2]*engine.Config, reverse bool) game.Result {
	t.Helper()

	var rng util.PRNG
	rng.Seed(1)

	result, err := g.Play(players, eo, reverse, &rng)
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func TestCheckmate(t *testing.T) {
	white := newStub("white", 1)
	white.script = []string{"f2f3", "g2g4"}
	black := newStub("black", 2)
	black.script = []string{"e7e5", "d8h4"}

	g, err := game.New(position.StartFEN, 0, 0, &game.Config{})
	if err != nil {
		t.Fatal(err)
	}

	result := play(t, g, [2]game.Player{white, black}, noLimits(), false)

	if g.State() != game.StateCheckmate {
		t.Fatalf("state = %v, want checkmate", g.State())
	}
	if result != game.ResultLoss {
		t.Errorf("result = %v, want loss for the first player", result)
	}

	res, reason := g.Decode()
	if res != "0-1" || reason != "checkmate" {
		t.Errorf("decoded %q (%q), want 0-1 (checkmate)", res, reason)
	}

	pgn := g.PGN(1)
	if !strings.Contains(pgn, "Qh4#") {
		t.Errorf("pgn lacks the mating move:\n%s", pgn)
	}
	if !strings.Contains(pgn, "[Result \"0-1\"]") || !strings.Contains(pgn, "[PlyCount \"4\"]") {
		t.Errorf("pgn has wrong tags:\n%s", pgn)
	}
}

func TestTimeLoss(t *testing.T) {
	sleeper := newStub("sleeper", 1)
	sleeper.burnClock = true
	opponent := newStub("opponent", 2)

	g, err := game.New(position.StartFEN, 0, 0, &game.Config{})
	if err != nil {
		t.Fatal(err)
	}

	eo := [2]*engine.Config{{Time: 100}, {Time: 100}}
	result := play(t, g, [2]game.Player{sleeper, opponent}, eo, false)

	if g.State() != game.StateTimeLoss {
		t.Fatalf("state = %v, want time loss", g.State())
	}
	if result != game.ResultLoss {
		t.Errorf("result = %v, want loss for the sleeper", result)
	}

	res, reason := g.Decode()
	if res != "0-1" || reason != "time forfeit" {
		t.Errorf("decoded %q (%q), want 0-1 (time forfeit)", res, reason)
	}
}

func TestIllegalMove(t *testing.T) {
	cheater := newStub("cheater", 1)
	cheater.script = []string{"e9e9"}
	opponent := newStub("opponent", 2)

	g, err := game.New(position.StartFEN, 0, 0, &game.Config{})
	if err != nil {
		t.Fatal(err)
	}

	result := play(t, g, [2]game.Player{cheater, opponent}, noLimits(), false)

	if g.State() != game.StateIllegalMove {
		t.Fatalf("state = %v, want illegal move", g.State())
	}
	if result != game.ResultLoss {
		t.Errorf("result = %v, want loss for the cheater", result)
	}

	if _, reason := g.Decode(); reason != "rules infraction" {
		t.Errorf("reason = %q, want rules infraction", reason)
	}
}

func TestDrawAdjudication(t *testing.T) {
	// both engines report 0 every ply; with -draw 8 10 the game is
	// adjudicated after 16 zero-score plies
	a, b := newStub("a", 1), newStub("b", 2)

	g, err := game.New(position.StartFEN, 0, 0, &game.Config{DrawCount: 8, DrawScore: 10})
	if err != nil {
		t.Fatal(err)
	}

	result := play(t, g, [2]game.Player{a, b}, noLimits(), false)

	if g.State() != game.StateDrawAdjudication {
		t.Fatalf("state = %v, want draw adjudication", g.State())
	}
	if result != game.ResultDraw {
		t.Errorf("result = %v, want draw", result)
	}

	res, reason := g.Decode()
	if res != "1/2-1/2" || reason != "adjudication" {
		t.Errorf("decoded %q (%q), want 1/2-1/2 (adjudication)", res, reason)
	}

	// the 16th qualifying score ends the game before its move is
	// played, so 15 plies make it onto the board
	if !strings.Contains(g.PGN(0), "[PlyCount \"15\"]") {
		t.Errorf("adjudication fired at the wrong ply:\n%s", g.PGN(0))
	}
}

func TestResignAdjudication(t *testing.T) {
	loser := newStub("loser", 1)
	loser.score = -600
	winner := newStub("winner", 2)

	g, err := game.New(position.StartFEN, 0, 0, &game.Config{ResignCount: 4, ResignScore: 500})
	if err != nil {
		t.Fatal(err)
	}

	result := play(t, g, [2]game.Player{loser, winner}, noLimits(), false)

	if g.State() != game.StateResign {
		t.Fatalf("state = %v, want resign", g.State())
	}
	if result != game.ResultLoss {
		t.Errorf("result = %v, want loss for the resigner", result)
	}

	if _, reason := g.Decode(); reason != "adjudication" {
		t.Errorf("reason = %q, want adjudication", reason)
	}
}

// TestDeterminism plays the same matchup twice with identically seeded
// random movers and checks the PGN is byte for byte the same.
func TestDeterminism(t *testing.T) {
	run := func() string {
		g, err := game.New(position.StartFEN, 0, 0, &game.Config{DrawCount: 0})
		if err != nil {
			t.Fatal(err)
		}

		players := [2]game.Player{newStub("a", 11), newStub("b", 22)}
		play(t, g, players, noLimits(), false)
		return g.PGN(3)
	}

	if first, second := run(), run(); first != second {
		t.Errorf("identical seeds produced different games:\n%s\nvs\n%s", first, second)
	}
}

// TestReverse swaps who moves first and checks the name tags follow.
func TestReverse(t *testing.T) {
	// with reverse, b moves first and so plays White
	a, b := newStub("a", 1), newStub("b", 2)
	b.script = []string{"e2e4"}
	a.script = []string{"e7e5"}

	g, err := game.New(position.StartFEN, 0, 0, &game.Config{})
	if err != nil {
		t.Fatal(err)
	}
	play(t, g, [2]game.Player{a, b}, noLimits(), true)

	// with reverse, player b moves first, and from the start position
	// the first mover is White
	if g.Names[0] != "b" || g.Names[1] != "a" {
		t.Errorf("names = %v, want b as White, a as Black", g.Names)
	}
}
