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
	"fmt"
	"strings"

	"laptudirm.com/x/arbiter/pkg/attacks"
	"laptudirm.com/x/arbiter/pkg/bitboard"
	"laptudirm.com/x/arbiter/pkg/move"
	"laptudirm.com/x/arbiter/pkg/piece"
	"laptudirm.com/x/arbiter/pkg/square"
)

// MoveToLAN serializes a legal move of p into the long algebraic form
// UCI engines exchange. In standard chess a castling move serializes
// as the king's two-square jump; in Chess960 it stays king-takes-rook.
func (p *Position) MoveToLAN(m move.Move) string {
	from, to := m.From(), m.To()

	if !p.Chess960 && p.PieceOn[from].Is(piece.King) && p.PieceOn[to].IsColor(p.Turn) {
		file := square.FileC
		if to > from {
			file = square.FileG
		}
		to = square.From(file, from.Rank())
	}

	lan := from.String() + to.String()
	if m.IsPromotion() {
		lan += promotionLAN(m.Promotion())
	}
	return lan
}

// MoveFromLAN parses long algebraic notation against p, undoing the
// standard-chess castling serialization MoveToLAN applies. The result
// is not validated beyond its syntax; callers must check it against
// GenerateMoves before playing it.
func (p *Position) MoveFromLAN(lan string) (move.Move, error) {
	if len(lan) < 4 || len(lan) > 5 {
		return move.Null, fmt.Errorf("position: invalid lan move %q", lan)
	}

	from, okFrom := parseSquare(lan[0:2])
	to, okTo := parseSquare(lan[2:4])
	if !okFrom || !okTo {
		return move.Null, fmt.Errorf("position: invalid lan move %q", lan)
	}

	promotion := piece.None
	if len(lan) == 5 {
		switch lan[4] {
		case 'q':
			promotion = piece.Queen
		case 'r':
			promotion = piece.Rook
		case 'b':
			promotion = piece.Bishop
		case 'n':
			promotion = piece.Knight
		default:
			return move.Null, fmt.Errorf("position: invalid promotion in lan move %q", lan)
		}
	}

	// In standard chess a two-file king jump is castling; resolve it
	// to the king-takes-rook encoding. A Chess960 engine already sends
	// king-takes-rook, which needs no translation.
	if !p.Chess960 && p.PieceOn[from] == piece.New(piece.King, p.Turn) &&
		!p.PieceOn[to].IsColor(p.Turn) && fileDistance(from, to) == 2 {
		rooks := p.CastleRooks & p.ByColor[p.Turn]
		if to > from {
			rooks &= ^(bitboard.Squares[from] - 1)
		} else {
			rooks &= bitboard.Squares[from] - 1
		}
		if rooks == bitboard.Empty {
			return move.Null, fmt.Errorf("position: castling move %q without castling rights", lan)
		}
		to = rooks.FirstOne()
	}

	return move.New(from, to, promotion), nil
}

func fileDistance(a, b square.Square) int {
	d := int(a.File()) - int(b.File())
	if d < 0 {
		d = -d
	}
	return d
}

// MoveToSAN serializes a legal move of p into Standard Algebraic
// Notation, including the trailing + or # for checks and mates.
func (p *Position) MoveToSAN(m move.Move) string {
	from, to := m.From(), m.To()
	moved := p.PieceOn[from]

	var san strings.Builder

	switch {
	case moved.Is(piece.King) && p.PieceOn[to].IsColor(p.Turn):
		if to > from {
			san.WriteString("O-O")
		} else {
			san.WriteString("O-O-O")
		}

	case moved.Is(piece.Pawn):
		if p.PieceOn[to] != piece.NoPiece || to == p.EPSquare {
			san.WriteString(from.File().String())
			san.WriteByte('x')
		}
		san.WriteString(to.String())
		if m.IsPromotion() {
			san.WriteByte('=')
			san.WriteString(piece.New(m.Promotion(), piece.White).String())
		}

	default:
		san.WriteString(piece.New(moved.Type(), piece.White).String())
		san.WriteString(p.disambiguation(m))
		if p.PieceOn[to] != piece.NoPiece {
			san.WriteByte('x')
		}
		san.WriteString(to.String())
	}

	next := p.Play(m)
	if next.InCheck() {
		if len(next.GenerateMoves()) == 0 {
			san.WriteByte('#')
		} else {
			san.WriteByte('+')
		}
	}

	return san.String()
}

// disambiguation returns the from-square qualifier SAN needs when
// another piece of the same type could also reach the destination:
// the origin file if unique among the contesters, else the origin
// rank, else both.
func (p *Position) disambiguation(m move.Move) string {
	from, to := m.From(), m.To()
	t := p.PieceOn[from].Type()
	us := p.Turn
	king := p.KingSquare(us)
	occ := p.Occupied()

	var contesters bitboard.Board
	switch t {
	case piece.Knight:
		contesters = attacks.Knight[to] & p.PiecesOf(piece.Knight, us)
	case piece.Bishop:
		contesters = attacks.Bishop(to, occ) & p.PiecesOf(piece.Bishop, us)
	case piece.Rook:
		contesters = attacks.Rook(to, occ) & p.PiecesOf(piece.Rook, us)
	case piece.Queen:
		contesters = attacks.Queen(to, occ) & p.PiecesOf(piece.Queen, us)
	default:
		return "" // kings and pawns never need disambiguation
	}
	contesters.Unset(from)

	// a contester pinned off the destination's ray could not actually
	// make the move, so it forces no qualifier
	for b := contesters; b != bitboard.Empty; {
		s := b.Pop()
		if p.Pinned.IsSet(s) && !bitboard.Ray[king][s].IsSet(to) {
			contesters.Unset(s)
		}
	}

	if contesters == bitboard.Empty {
		return ""
	}

	sameFile, sameRank := false, false
	for b := contesters; b != bitboard.Empty; {
		s := b.Pop()
		if s.File() == from.File() {
			sameFile = true
		}
		if s.Rank() == from.Rank() {
			sameRank = true
		}
	}

	switch {
	case !sameFile:
		return from.File().String()
	case !sameRank:
		return from.Rank().String()
	default:
		return from.File().String() + from.Rank().String()
	}
}

func promotionLAN(t piece.Type) string {
	return strings.ToLower(piece.New(t, piece.White).String())
}
