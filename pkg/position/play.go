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
	"laptudirm.com/x/arbiter/pkg/zobrist"
)

// Play returns the position after m is played on p. The receiver is
// never mutated: the game history stays a slice of intact positions,
// which repetition detection and PGN emission both depend on.
//
// m must be a move GenerateMoves would return for p; feeding anything
// else is undefined.
func (p *Position) Play(m move.Move) *Position {
	next := *p
	pos := &next

	us, them := p.Turn, p.Turn.Other()
	from, to := m.From(), m.To()
	moved := p.PieceOn[from]
	epBefore := p.EPSquare

	pos.Rule50++
	if pos.Rule50 > 100 {
		pos.Rule50 = 100
	}

	if pos.EPSquare != square.None {
		pos.Key ^= zobrist.EnPassant[pos.EPSquare.File()]
		pos.EPSquare = square.None
	}

	oldRooks := pos.CastleRooks

	// King landing on its own rook is the castling encoding, standard
	// and Chess960 alike.
	if moved.Is(piece.King) && p.PieceOn[to].IsColor(us) {
		pos.playCastling(from, to, us)
	} else {
		pos.playRegular(m, moved, epBefore, us, them)
	}

	if pos.CastleRooks != oldRooks {
		pos.Key ^= zobrist.CastlingKey(uint64(oldRooks)) ^ zobrist.CastlingKey(uint64(pos.CastleRooks))
	}

	pos.Turn = them
	pos.Key ^= zobrist.SideToMove
	if us == piece.Black {
		pos.FullMove++
	}
	pos.LastMove = m

	pos.calculateMetadata()
	return pos
}

// playCastling moves the king to the g/c file and the rook it
// "captured" to the f/d file of the shared back rank.
func (p *Position) playCastling(king, rook square.Square, us piece.Color) {
	// drop the mover's rights while its rooks are still on their home
	// squares in the color mask
	p.CastleRooks &^= p.ByColor[us]

	backRank := king.Rank()

	kingTo := square.From(square.FileC, backRank)
	rookTo := square.From(square.FileD, backRank)
	if rook > king {
		kingTo = square.From(square.FileG, backRank)
		rookTo = square.From(square.FileF, backRank)
	}

	p.clearSquare(king)
	p.clearSquare(rook)
	p.setSquare(kingTo, piece.New(piece.King, us))
	p.setSquare(rookTo, piece.New(piece.Rook, us))
}

func (p *Position) playRegular(m move.Move, moved piece.Piece, epBefore square.Square, us, them piece.Color) {
	from, to := m.From(), m.To()

	if p.PieceOn[to] != piece.NoPiece {
		p.clearSquare(to)
		p.Rule50 = 0
		// capturing a castle rook removes that right
		p.CastleRooks.Unset(to)
	}

	p.clearSquare(from)
	p.setSquare(to, moved)

	// moving a castle rook off its home square drops the right
	p.CastleRooks.Unset(from)

	up := square.Square(8)
	if us == piece.Black {
		up = -8
	}

	switch moved.Type() {
	case piece.Pawn:
		p.Rule50 = 0

		switch {
		case to == from+2*up:
			// Record the en passant square only when an enemy pawn
			// could actually capture there; a spurious ep square
			// would make otherwise identical positions hash apart.
			ep := from + up
			if attacks.Pawn[us][ep]&p.PiecesOf(piece.Pawn, them) != bitboard.Empty {
				p.EPSquare = ep
				p.Key ^= zobrist.EnPassant[ep.File()]
			}

		case to == epBefore:
			// en passant: the captured pawn is one square behind the
			// landing square
			p.clearSquare(to - up)
		}

		if to.Rank() == square.Rank1 || to.Rank() == square.Rank8 {
			p.clearSquare(to)
			p.setSquare(to, piece.New(m.Promotion(), us))
		}

	case piece.King:
		// any king move drops both of the mover's castling rights
		p.CastleRooks &^= p.ByColor[us]
	}
}
