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

package position

import (
	"laptudirm.com/x/arbiter/pkg/attacks"
	"laptudirm.com/x/arbiter/pkg/bitboard"
	"laptudirm.com/x/arbiter/pkg/piece"
	"laptudirm.com/x/arbiter/pkg/square"
)

// calculateMetadata recomputes the Attacked, Checkers and Pinned
// bitboards for the current side to move. It must run after every
// board mutation; every public constructor and Play do so.
func (p *Position) calculateMetadata() {
	us := p.Turn
	them := us.Other()
	king := p.KingSquare(us)

	// Occupancy with our king removed: a slider checking the king is
	// seen to attack the squares behind it too, so the king cannot
	// retreat along the checking ray.
	occ := p.Occupied() &^ (p.ByPiece[piece.King] & p.ByColor[us])

	var attacked bitboard.Board

	pawns := p.PiecesOf(piece.Pawn, them)
	attacked |= pawns.Up(them).East() | pawns.Up(them).West()

	for b := p.PiecesOf(piece.Knight, them); b != bitboard.Empty; {
		attacked |= attacks.Knight[b.Pop()]
	}

	attacked |= attacks.King[p.KingSquare(them)]

	for b := p.PiecesOf(piece.Rook, them) | p.PiecesOf(piece.Queen, them); b != bitboard.Empty; {
		attacked |= attacks.Rook(b.Pop(), occ)
	}
	for b := p.PiecesOf(piece.Bishop, them) | p.PiecesOf(piece.Queen, them); b != bitboard.Empty; {
		attacked |= attacks.Bishop(b.Pop(), occ)
	}

	p.Attacked = attacked
	p.Checkers = p.attackersTo(king, p.Occupied(), them)
	p.Pinned = p.pinned(king, us)
}

// attackersTo returns the pieces of color by which attack s given the
// board occupancy occ.
func (p *Position) attackersTo(s square.Square, occ bitboard.Board, by piece.Color) bitboard.Board {
	return attacks.Pawn[by.Other()][s]&p.PiecesOf(piece.Pawn, by) |
		attacks.Knight[s]&p.PiecesOf(piece.Knight, by) |
		attacks.King[s]&p.PiecesOf(piece.King, by) |
		attacks.Rook(s, occ)&(p.PiecesOf(piece.Rook, by)|p.PiecesOf(piece.Queen, by)) |
		attacks.Bishop(s, occ)&(p.PiecesOf(piece.Bishop, by)|p.PiecesOf(piece.Queen, by))
}

// pinned returns the pieces of color us pinned against the king on
// king: for every enemy slider aligned with the king, if the squares
// between them contain exactly one piece and that piece is ours, it
// may only move along the pinning ray.
func (p *Position) pinned(king square.Square, us piece.Color) bitboard.Board {
	them := us.Other()
	occ := p.Occupied()

	snipers := attacks.Rook(king, bitboard.Empty)&(p.PiecesOf(piece.Rook, them)|p.PiecesOf(piece.Queen, them)) |
		attacks.Bishop(king, bitboard.Empty)&(p.PiecesOf(piece.Bishop, them)|p.PiecesOf(piece.Queen, them))

	var pinned bitboard.Board
	for snipers != bitboard.Empty {
		sniper := snipers.Pop()
		blockers := bitboard.Segment[sniper][king] & occ
		if !blockers.Several() && blockers&p.ByColor[us] != bitboard.Empty {
			pinned |= blockers
		}
	}
	return pinned
}
