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

// Package game drives a single game between two engines: it alternates
// plies, enforces the rules of chess, runs the two clocks, applies the
// configured adjudication rules, and renders the finished game as PGN
// and training samples.
package game

import (
	"fmt"
	"math"
	"strings"

	"laptudirm.com/x/arbiter/internal/engine"
	"laptudirm.com/x/arbiter/internal/util"
	"laptudirm.com/x/arbiter/pkg/move"
	"laptudirm.com/x/arbiter/pkg/piece"
	"laptudirm.com/x/arbiter/pkg/position"
)

// State is how a game ended. The order is meaningful: every losing
// state sorts before stateSeparator, every drawing state after, so
// scoring a finished game is a single comparison.
type State int

const (
	StateNone State = iota // in progress

	// lost by the side to move
	StateCheckmate
	StateTimeLoss
	StateIllegalMove
	StateResign

	stateSeparator

	// drawn
	StateStalemate
	StateThreefold
	StateFiftyMoves
	StateInsufficientMaterial
	StateDrawAdjudication
)

// Result is a game outcome from some point of view, numbered so that
// it doubles as the WLD counter index.
type Result int

const (
	ResultLoss Result = iota
	ResultDraw
	ResultWin
)

// Player is the face a game sees of an engine session. Its methods
// mirror the session's; the indirection exists so tests can drive a
// game with an in-process stub instead of a child process.
type Player interface {
	Name() string
	SetOption(name, value string) error
	NewGame() error
	Position(fen string, moves []string) error
	Sync() error
	Search(lim engine.Limits, timeLeft *int64) (best string, info engine.Info, ok bool, err error)
}

// Config carries the game-level adjudication and sampling settings,
// shared by every game of a run.
type Config struct {
	// Adjudicate a draw after DrawCount consecutive plies from both
	// sides scored within ±DrawScore; adjudicate a loss after
	// ResignCount consecutive plies one side scored at or below
	// -ResignScore.
	DrawCount, DrawScore     int
	ResignCount, ResignScore int

	// SampleRate is the Bernoulli probability of recording a training
	// sample each ply. SampleResolvePV samples the end of the
	// reported principal variation instead of the played position.
	SampleRate      float64
	SampleResolvePV bool

	// Warn, if set, receives diagnostics that do not end the game,
	// like an illegal move inside a PV.
	Warn func(format string, args ...any)
}

func (c *Config) warn(format string, args ...any) {
	if c.Warn != nil {
		c.Warn(format, args...)
	}
}

// Sample is one recorded training position.
type Sample struct {
	Pos    *position.Position
	Score  int
	Result Result // from the sampled side to move's point of view
}

// Game is one game: its full position history (entry 0 is the opening
// FEN), per-ply search infos, and eventually a terminal state.
type Game struct {
	Round, Index int // round and game-within-round, 0-based

	// Names of the engines by the color they play in this game.
	Names [piece.NColor]string

	cfg     *Config
	pos     []*position.Position
	infos   []engine.Info
	samples []Sample
	state   State
}

// New starts a game from an opening FEN.
func New(fen string, round, index int, cfg *Config) (*Game, error) {
	p, err := position.FromFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	return &Game{
		Round: round,
		Index: index,
		cfg:   cfg,
		pos:   []*position.Position{p},
	}, nil
}

// State returns the game's terminal state, StateNone while running.
func (g *Game) State() State {
	return g.state
}

// Samples returns the recorded training samples of a finished game.
func (g *Game) Samples() []Sample {
	return g.samples
}

// Play plays the game out. players[reverse] moves first, which is not
// necessarily White: the opening FEN decides that. eo supplies each
// player's search limits. The returned Result is from players[0]'s
// point of view.
//
// An error means the run is broken (engine I/O failed); every outcome
// of the game itself, time losses and rule infractions included, is a
// State, not an error.
func (g *Game) Play(players [2]Player, eo [2]*engine.Config, reverse bool, rng *util.PRNG) (Result, error) {
	first := b2i(reverse)

	for color := piece.White; color < piece.NColor; color++ {
		g.Names[color] = players[int(color)^int(g.pos[0].Turn)^first].Name()
	}

	for i := 0; i < 2; i++ {
		if g.pos[0].Chess960 {
			if err := players[i].SetOption("UCI_Chess960", "true"); err != nil {
				return ResultLoss, err
			}
		}
		if err := players[i].NewGame(); err != nil {
			return ResultLoss, err
		}
		if err := players[i].Sync(); err != nil {
			return ResultLoss, err
		}
	}

	timeLeft := [2]int64{eo[0].Time, eo[1].Time}
	resignPlies := [2]int{}
	drawPlies := 0

	played := move.Null
	ei := first // players[ei] has the move

	for ply := 0; ; ei, ply = 1-ei, ply+1 {
		if played != move.Null {
			g.pos = append(g.pos, g.pos[ply-1].Play(played))
		}
		cur := g.pos[ply]

		moves := cur.GenerateMoves()
		if g.state = g.applyChessRules(cur, moves); g.state != StateNone {
			break
		}

		if err := g.sendPosition(players[ei], ply); err != nil {
			return ResultLoss, err
		}
		if err := players[ei].Sync(); err != nil {
			return ResultLoss, err
		}

		// wind the mover's clock forward
		switch {
		case eo[ei].MoveTime != 0:
			// movetime is special: it overrides movestogo, time and
			// increment
			timeLeft[ei] = eo[ei].MoveTime
		case eo[ei].Time != 0 || eo[ei].Increment != 0:
			timeLeft[ei] += eo[ei].Increment
			if mtg := eo[ei].MovesToGo; mtg != 0 && ply > 1 && (ply/2)%mtg == 0 {
				timeLeft[ei] += eo[ei].Time
			}
		default:
			// depth/nodes only: no wall-clock bound
			timeLeft[ei] = math.MaxInt64 / 2
		}

		best, info, ok, err := players[ei].Search(g.limits(cur, eo, ei, &timeLeft), &timeLeft[ei])
		if err != nil {
			return ResultLoss, err
		}
		g.infos = append(g.infos, info)

		resolved := g.resolvePV(cur, info.PV, players[ei].Name())

		if !ok {
			g.state = StateTimeLoss
			break
		}

		m, lanErr := cur.MoveFromLAN(best)
		if lanErr != nil || !contains(moves, m) {
			g.state = StateIllegalMove
			break
		}

		if eo[ei].HasTimeControl() && timeLeft[ei] < 0 {
			g.state = StateTimeLoss
			break
		}

		if g.cfg.DrawCount != 0 && abs(info.Score) <= g.cfg.DrawScore {
			if drawPlies++; drawPlies >= 2*g.cfg.DrawCount {
				g.state = StateDrawAdjudication
				break
			}
		} else {
			drawPlies = 0
		}

		if g.cfg.ResignCount != 0 && info.Score <= -g.cfg.ResignScore {
			if resignPlies[ei]++; resignPlies[ei] >= g.cfg.ResignCount {
				g.state = StateResign
				break
			}
		} else {
			resignPlies[ei] = 0
		}

		if rng != nil && g.cfg.SampleRate > 0 && prngf(rng) <= g.cfg.SampleRate {
			sample := Sample{Pos: cur, Score: info.Score}
			if g.cfg.SampleResolvePV {
				sample.Pos = resolved
			}

			// a sample that PV resolution could not steer out of
			// check is discarded
			if !g.cfg.SampleResolvePV || !sample.Pos.InCheck() {
				g.samples = append(g.samples, sample)
			}
		}

		played = m
	}

	// result from White's point of view, then per-sample and
	// per-player conversions
	wpov := ResultDraw
	if g.state < stateSeparator {
		wpov = ResultWin
		if g.last().Turn == piece.White {
			wpov = ResultLoss
		}
	}

	for i := range g.samples {
		g.samples[i].Result = wpov
		if g.samples[i].Pos.Turn == piece.Black {
			g.samples[i].Result = ResultWin - wpov
		}
	}

	if g.state < stateSeparator {
		// the player on the move has lost
		if ei == 0 {
			return ResultLoss, nil
		}
		return ResultWin, nil
	}
	return ResultDraw, nil
}

// sendPosition issues the position command, truncated to the last
// rule50 reset: the FEN of that position plus the moves since, which
// is equivalent to the full history but shorter.
func (g *Game) sendPosition(p Player, ply int) error {
	ply0 := ply - g.pos[ply].Rule50
	if ply0 < 0 {
		ply0 = 0
	}

	var moves []string
	for i := ply0 + 1; i <= ply; i++ {
		moves = append(moves, g.pos[i-1].MoveToLAN(g.pos[i].LastMove))
	}

	return p.Position(g.pos[ply0].FEN(), moves)
}

// limits assembles the go-command limits for the player ei about to
// move from cur.
func (g *Game) limits(cur *position.Position, eo [2]*engine.Config, ei int, timeLeft *[2]int64) engine.Limits {
	lim := engine.Limits{
		Nodes:    eo[ei].Nodes,
		Depth:    eo[ei].Depth,
		MoveTime: eo[ei].MoveTime,
	}

	if eo[ei].Time != 0 || eo[ei].Increment != 0 {
		// map player indices onto clock colors: the mover's color is
		// cur.Turn, so player ei^Turn holds the white clock
		wi := ei ^ int(cur.Turn)
		bi := wi ^ 1

		lim.UseClock = true
		lim.WTime, lim.WInc = timeLeft[wi], eo[wi].Increment
		lim.BTime, lim.BInc = timeLeft[bi], eo[bi].Increment
	}

	if mtg := eo[ei].MovesToGo; mtg != 0 {
		ply := len(g.pos) - 1
		lim.MovesToGo = mtg - (ply/2)%mtg
	}

	return lim
}

// applyChessRules decides whether the position ends the game by rule:
// mate and stalemate, the fifty-move rule, insufficient material, and
// threefold repetition within the rule50 window.
func (g *Game) applyChessRules(cur *position.Position, moves []move.Move) State {
	if len(moves) == 0 {
		if cur.InCheck() {
			return StateCheckmate
		}
		return StateStalemate
	}

	if cur.Rule50 >= 100 {
		return StateFiftyMoves
	}

	if cur.IsInsufficientMaterial() {
		return StateInsufficientMaterial
	}

	// scan same-side predecessors within the rule50 window for two
	// earlier occurrences of this position
	ply := len(g.pos) - 1
	repetitions := 1
	for i := 4; i <= cur.Rule50 && i <= ply; i += 2 {
		if g.pos[ply-i].Key == cur.Key {
			if repetitions++; repetitions >= 3 {
				return StateThreefold
			}
		}
	}

	return StateNone
}

// resolvePV walks the reported principal variation from cur and
// returns the last position along it that is not in check (or cur
// itself). An illegal move inside a PV is a warning, not an error: the
// PV is truncated there and the game goes on.
func (g *Game) resolvePV(cur *position.Position, pv, name string) *position.Position {
	resolved := cur
	p := cur

	for _, lan := range strings.Fields(pv) {
		m, err := p.MoveFromLAN(lan)
		if err != nil || !contains(p.GenerateMoves(), m) {
			g.cfg.warn("illegal move %q in pv from %s", lan, name)
			break
		}

		p = p.Play(m)
		if !p.InCheck() {
			resolved = p
		}
	}

	return resolved
}

// Decode renders the terminal state as the PGN Result and Termination
// tag values.
func (g *Game) Decode() (result, reason string) {
	loserWhite := g.last().Turn == piece.White

	switch g.state {
	case StateNone:
		return "*", "unterminated"
	case StateCheckmate:
		return decodeLoss(loserWhite), "checkmate"
	case StateTimeLoss:
		return decodeLoss(loserWhite), "time forfeit"
	case StateIllegalMove:
		return decodeLoss(loserWhite), "rules infraction"
	case StateResign:
		return decodeLoss(loserWhite), "adjudication"
	case StateStalemate:
		return "1/2-1/2", "stalemate"
	case StateThreefold:
		return "1/2-1/2", "3-fold repetition"
	case StateFiftyMoves:
		return "1/2-1/2", "50 moves rule"
	case StateInsufficientMaterial:
		return "1/2-1/2", "insufficient material"
	case StateDrawAdjudication:
		return "1/2-1/2", "adjudication"
	default:
		panic("game: invalid state")
	}
}

func decodeLoss(loserWhite bool) string {
	if loserWhite {
		return "0-1"
	}
	return "1-0"
}

func (g *Game) last() *position.Position {
	return g.pos[len(g.pos)-1]
}

func contains(moves []move.Move, m move.Move) bool {
	for _, legal := range moves {
		if legal == m {
			return true
		}
	}
	return false
}

// prngf draws a float in [0, 1).
func prngf(rng *util.PRNG) float64 {
	return float64(rng.Uint64()>>11) / (1 << 53)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
