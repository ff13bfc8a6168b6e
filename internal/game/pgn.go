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

package game

import (
	"fmt"
	"strings"

	"laptudirm.com/x/arbiter/internal/engine"
	"laptudirm.com/x/arbiter/pkg/piece"
)

// PGN renders a finished game as one PGN block, trailing blank line
// included. Verbosity controls the move text: 0 emits the tag pairs
// and the result token only, 1 adds the moves, 2 adds {score/depth} comments, and 3 adds the
// per-move thinking time.
func (g *Game) PGN(verbosity int) string {
	var pgn strings.Builder

	fmt.Fprintf(&pgn, "[Round \"%d.%d\"]\n", g.Round+1, g.Index+1)
	fmt.Fprintf(&pgn, "[White \"%s\"]\n", g.Names[piece.White])
	fmt.Fprintf(&pgn, "[Black \"%s\"]\n", g.Names[piece.Black])

	result, reason := g.Decode()
	fmt.Fprintf(&pgn, "[Result \"%s\"]\n", result)
	fmt.Fprintf(&pgn, "[Termination \"%s\"]\n", reason)
	fmt.Fprintf(&pgn, "[FEN \"%s\"]\n", g.pos[0].FEN())

	if g.pos[0].Chess960 {
		pgn.WriteString("[Variant \"Chess960\"]\n")
	}

	plies := len(g.pos) - 1
	fmt.Fprintf(&pgn, "[PlyCount \"%d\"]\n", plies)

	if verbosity > 0 {
		pgn.WriteByte('\n')

		pliesPerLine := 16
		switch verbosity {
		case 2:
			pliesPerLine = 6
		case 3:
			pliesPerLine = 5
		}

		for ply := 1; ply <= plies; ply++ {
			before := g.pos[ply-1]

			if before.Turn == piece.White {
				fmt.Fprintf(&pgn, "%d. ", before.FullMove)
			} else if ply == 1 {
				fmt.Fprintf(&pgn, "%d... ", before.FullMove)
			}

			pgn.WriteString(before.MoveToSAN(g.pos[ply].LastMove))

			if verbosity >= 2 {
				pgn.WriteString(comment(g.infos[ply-1], verbosity))
			}

			if ply%pliesPerLine == 0 {
				pgn.WriteByte('\n')
			} else {
				pgn.WriteByte(' ')
			}
		}
	}

	pgn.WriteString(result)
	pgn.WriteString("\n\n")
	return pgn.String()
}

// comment formats a per-move annotation: {score/depth}, with scores in
// the mate sentinel range shown as M<plies>, plus the move time at
// verbosity 3.
func comment(info engine.Info, verbosity int) string {
	var score string
	switch {
	case info.Score > engine.ScoreMate/2:
		score = fmt.Sprintf("M%d", engine.ScoreMate-info.Score)
	case info.Score < -engine.ScoreMate/2:
		score = fmt.Sprintf("-M%d", info.Score+engine.ScoreMate)
	default:
		score = fmt.Sprintf("%d", info.Score)
	}

	if verbosity >= 3 {
		return fmt.Sprintf(" {%s/%d %dms}", score, info.Depth, info.Time)
	}
	return fmt.Sprintf(" {%s/%d}", score, info.Depth)
}
