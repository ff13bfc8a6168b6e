// Copyright © 2022 Rak Laptudirm <raklaptudirm@gmail.com>
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

// Package attacks precomputes and serves attack bitboards for every
// piece type. Leaper attacks (king, knight, pawn) are plain lookup
// tables filled once at init; slider attacks (bishop, rook, queen) are
// served through magic bitboard indexing, the magics for which are
// searched for at init instead of hardcoded, following the style of
// the engine this tournament runner drives games between.
package attacks

import (
	"laptudirm.com/x/arbiter/pkg/bitboard"
	"laptudirm.com/x/arbiter/pkg/piece"
	"laptudirm.com/x/arbiter/pkg/square"
)

// King[s] and Knight[s] are the raw attack sets of a king/knight
// placed on s, ignoring occupancy.
var King [square.N]bitboard.Board
var Knight [square.N]bitboard.Board

// Pawn[c][s] is the set of squares a pawn of color c on s attacks
// (diagonal captures only, not the push square).
var Pawn [piece.NColor][square.N]bitboard.Board

var knightOffsets = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var kingOffsets = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

func leaperAttacks(s square.Square, offsets [8][2]int) bitboard.Board {
	var b bitboard.Board
	file, rank := int(s.File()), int(s.Rank())

	for _, o := range offsets {
		f, r := file+o[0], rank+o[1]
		if f >= 0 && f < 8 && r >= 0 && r < 8 {
			b.Set(square.From(square.File(f), square.Rank(r)))
		}
	}

	return b
}

func pawnAttacks(s square.Square, c piece.Color) bitboard.Board {
	rankStep := 1
	if c == piece.Black {
		rankStep = -1
	}

	var b bitboard.Board
	file, rank := int(s.File()), int(s.Rank())
	for _, fileStep := range [2]int{-1, 1} {
		f, r := file+fileStep, rank+rankStep
		if f >= 0 && f < 8 && r >= 0 && r < 8 {
			b.Set(square.From(square.File(f), square.Rank(r)))
		}
	}

	return b
}

func init() {
	for s := square.A1; s <= square.H8; s++ {
		King[s] = leaperAttacks(s, kingOffsets)
		Knight[s] = leaperAttacks(s, knightOffsets)
		Pawn[piece.White][s] = pawnAttacks(s, piece.White)
		Pawn[piece.Black][s] = pawnAttacks(s, piece.Black)
	}
}
