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

// Package move implements a packed move representation: 6 bits for
// the origin square, 6 for the destination, and 4 for the promotion
// piece type (piece.None as the "no promotion" sentinel). Castling is
// encoded as the king "capturing" its own rook, which needs no
// separate flag and works identically for standard and Chess960
// castling rights.
package move

import (
	"fmt"

	"laptudirm.com/x/arbiter/pkg/piece"
	"laptudirm.com/x/arbiter/pkg/square"
)

// Move is a packed from:6,to:6,promotion:4 chess move.
type Move uint16

// Null is the zero move, a1a1 with a zero promotion field (which
// decodes as a Knight, since piece.None is not zero). It never appears as
// a legal move (From == To is impossible) so it doubles as a sentinel
// for "no move".
const Null Move = 0

// New packs a move from its origin, destination and promotion piece
// type. Pass piece.None for promo when the move is not a promotion.
func New(from, to square.Square, promo piece.Type) Move {
	return Move(from) | Move(to)<<6 | Move(promo)<<12
}

// From returns the move's origin square.
func (m Move) From() square.Square {
	return square.Square(m & 0x3f)
}

// To returns the move's destination square. For a castling move this
// is the square of the king's own rook, not the king's final square.
func (m Move) To() square.Square {
	return square.Square((m >> 6) & 0x3f)
}

// Promotion returns the move's promotion piece type, or piece.None if
// the move is not a promotion.
func (m Move) Promotion() piece.Type {
	return piece.Type((m >> 12) & 0xf)
}

// IsPromotion reports whether m promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Promotion() != piece.None
}

// String returns the move's UCI long algebraic form, from+to plus a
// lowercase promotion letter if any. This does not resolve castling's
// king-captures-rook encoding to the king's actual destination square
// since that needs Chess960-awareness the move alone doesn't carry;
// use Position.MoveToLAN for that.
func (m Move) String() string {
	s := fmt.Sprintf("%s%s", m.From(), m.To())
	if m.IsPromotion() {
		s += promotionLetters[m.Promotion()]
	}
	return s
}

var promotionLetters = map[piece.Type]string{
	piece.Queen:  "q",
	piece.Rook:   "r",
	piece.Bishop: "b",
	piece.Knight: "n",
}
