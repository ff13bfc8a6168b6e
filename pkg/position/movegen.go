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
	"laptudirm.com/x/arbiter/pkg/move"
	"laptudirm.com/x/arbiter/pkg/piece"
	"laptudirm.com/x/arbiter/pkg/square"
)

// MaxMoves is the maximum number of legal moves any chess position can
// have; the slice GenerateMoves returns never outgrows it.
const MaxMoves = 256

// GenerateMoves returns every legal move in the current position. An
// empty slice means checkmate or stalemate, depending on InCheck.
func (p *Position) GenerateMoves() []move.Move {
	moves := make([]move.Move, 0, 64)

	us := p.Turn
	king := p.KingSquare(us)

	// King moves are legal whenever the destination is not attacked;
	// Attacked is computed with the king removed from the board, so
	// retreating along a checking ray is correctly excluded.
	for b := attacks.King[king] &^ p.ByColor[us] &^ p.Attacked; b != bitboard.Empty; {
		moves = append(moves, move.New(king, b.Pop(), piece.None))
	}

	// In double check only the king may move.
	if p.Checkers.Several() {
		return moves
	}

	// Everything else must land on a target square: with a lone
	// checker, the checker's square or a square blocking its ray;
	// unchecked, anything not occupied by a friendly piece.
	var targets bitboard.Board
	if p.Checkers != bitboard.Empty {
		targets = bitboard.Segment[king][p.Checkers.FirstOne()] | p.Checkers
	} else {
		targets = ^p.ByColor[us]
	}

	p.genPawnMoves(&moves, targets)
	p.genPieceMoves(&moves, targets)

	if p.Checkers == bitboard.Empty {
		p.genCastlingMoves(&moves)
	}

	return moves
}

func (p *Position) genPieceMoves(moves *[]move.Move, targets bitboard.Board) {
	us := p.Turn
	king := p.KingSquare(us)
	occ := p.Occupied()

	for _, t := range [4]piece.Type{piece.Knight, piece.Bishop, piece.Rook, piece.Queen} {
		for b := p.PiecesOf(t, us); b != bitboard.Empty; {
			from := b.Pop()

			allowed := targets
			if p.Pinned.IsSet(from) {
				if p.InCheck() {
					// a pinned piece can neither block nor capture
					// the checker
					continue
				}
				allowed &= bitboard.Ray[king][from]
			}

			var att bitboard.Board
			switch t {
			case piece.Knight:
				att = attacks.Knight[from]
			case piece.Bishop:
				att = attacks.Bishop(from, occ)
			case piece.Rook:
				att = attacks.Rook(from, occ)
			case piece.Queen:
				att = attacks.Queen(from, occ)
			}

			for att &= allowed; att != bitboard.Empty; {
				*moves = append(*moves, move.New(from, att.Pop(), piece.None))
			}
		}
	}
}

func (p *Position) genPawnMoves(moves *[]move.Move, targets bitboard.Board) {
	us, them := p.Turn, p.Turn.Other()
	king := p.KingSquare(us)
	occ := p.Occupied()

	up := square.Square(8)
	doubleRank := square.Rank2
	promoRank := square.Rank8
	if us == piece.Black {
		up = -8
		doubleRank = square.Rank7
		promoRank = square.Rank1
	}

	for b := p.PiecesOf(piece.Pawn, us); b != bitboard.Empty; {
		from := b.Pop()

		allowed := targets
		if p.Pinned.IsSet(from) {
			if p.InCheck() {
				continue
			}
			allowed &= bitboard.Ray[king][from]
		}

		dests := attacks.Pawn[us][from] & p.ByColor[them]

		if !occ.IsSet(from + up) {
			dests.Set(from + up)
			if from.Rank() == doubleRank && !occ.IsSet(from+2*up) {
				dests.Set(from + 2*up)
			}
		}

		for dests &= allowed; dests != bitboard.Empty; {
			to := dests.Pop()
			if to.Rank() == promoRank {
				for _, promo := range piece.Promotions {
					*moves = append(*moves, move.New(from, to, promo))
				}
			} else {
				*moves = append(*moves, move.New(from, to, piece.None))
			}
		}

		if p.EPSquare != square.None && attacks.Pawn[us][from].IsSet(p.EPSquare) &&
			p.epIsLegal(from, allowed, up) {
			*moves = append(*moves, move.New(from, p.EPSquare, piece.None))
		}
	}
}

// epIsLegal vets an en passant capture by the pawn on from. allowed is
// the pawn's pin/check target mask, up the pawn's push direction.
func (p *Position) epIsLegal(from square.Square, allowed bitboard.Board, up square.Square) bool {
	us, them := p.Turn, p.Turn.Other()
	king := p.KingSquare(us)
	captured := p.EPSquare - up

	// Under check the capture must either take the checking pawn
	// itself or land on the blocking mask; unchecked, it must stay on
	// the pin ray like any other pawn move.
	if p.InCheck() {
		if p.Checkers != bitboard.Squares[captured] && !allowed.IsSet(p.EPSquare) {
			return false
		}
	} else if !allowed.IsSet(p.EPSquare) {
		return false
	}

	// Both pawns leave the capture rank at once, which can uncover a
	// rook or queen check no pin tracks: retest with the two pawns
	// gone and the capturer on the en passant square.
	occ := p.Occupied()
	occ.Unset(from)
	occ.Unset(captured)
	occ.Set(p.EPSquare)

	sliders := p.PiecesOf(piece.Rook, them) | p.PiecesOf(piece.Queen, them)
	return attacks.Rook(king, occ)&bitboard.Ranks[king.Rank()]&sliders == bitboard.Empty
}

func (p *Position) genCastlingMoves(moves *[]move.Move) {
	us := p.Turn
	king := p.KingSquare(us)
	occ := p.Occupied()

	for rooks := p.CastleRooks & p.ByColor[us]; rooks != bitboard.Empty; {
		rook := rooks.Pop()
		if p.Pinned.IsSet(rook) {
			continue
		}

		backRank := king.Rank()
		kingTo := square.From(square.FileC, backRank)
		rookTo := square.From(square.FileD, backRank)
		if rook > king {
			kingTo = square.From(square.FileG, backRank)
			rookTo = square.From(square.FileF, backRank)
		}

		// every square the king or rook crosses or lands on must be
		// empty, the two castlers themselves excepted
		path := bitboard.Segment[king][rook] | bitboard.Segment[king][kingTo] |
			bitboard.Segment[rook][rookTo]
		path.Set(kingTo)
		path.Set(rookTo)
		if occ&^bitboard.Squares[king]&^bitboard.Squares[rook]&path != bitboard.Empty {
			continue
		}

		// the king's path, origin and target inclusive, must be safe
		kingPath := bitboard.Segment[king][kingTo]
		kingPath.Set(king)
		kingPath.Set(kingTo)
		if kingPath&p.Attacked != bitboard.Empty {
			continue
		}

		*moves = append(*moves, move.New(king, rook, piece.None))
	}
}
