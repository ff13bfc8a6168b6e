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

// Package piece implements representations of all the chess pieces and
// colors, and related utility functions.
//
// The King, Queen, Rook, Knight, Bishop, and Pawn are represented by the
// K, Q, R, N, B, and P strings respectively, with uppercase for white and
// lower case for black.
//
// The strings w, and b are used for representing the White and Black
// colors respectively.
package piece

// NewColor creates an instance of color from the given id.
func NewColor(id string) Color {
	switch id {
	case "w":
		return White
	case "b":
		return Black
	default:
		panic("piece.NewColor: invalid color id " + id)
	}
}

// Color represents the color of a Piece.
type Color int8

// various piece colors
const (
	White Color = iota
	Black

	NColor = 2
)

func (c Color) Other() Color {
	return c ^ Black
}

// String converts a Color to it's string representation.
func (c Color) String() string {
	switch c {
	case Black:
		return "b"
	case White:
		return "w"
	default:
		panic("piece.Color.String: invalid color")
	}
}

func New(t Type, c Color) Piece {
	if t == None {
		return NoPiece
	}
	return Piece(c<<3) + Piece(t) + 1
}

// NewFromString creates an instance of Piece from the given piece id.
func NewFromString(id string) Piece {
	switch id {
	case "K":
		return WhiteKing
	case "Q":
		return WhiteQueen
	case "R":
		return WhiteRook
	case "N":
		return WhiteKnight
	case "B":
		return WhiteBishop
	case "P":
		return WhitePawn
	case "k":
		return BlackKing
	case "q":
		return BlackQueen
	case "r":
		return BlackRook
	case "n":
		return BlackKnight
	case "b":
		return BlackBishop
	case "p":
		return BlackPawn
	default:
		panic("piece.NewFromString: invalid piece id " + id)
	}
}

// Type represents a piece type, independent of color. None is placed
// last rather than at zero so it can double as the "no promotion"
// sentinel in a packed Move without aliasing Knight.
type Type int8

// various chess piece types
const (
	Knight Type = iota
	Bishop
	Rook
	Queen
	King
	Pawn

	None Type = 6

	NType = 6
)

func (t Type) String() string {
	if t == None {
		return "-"
	}
	return Piece(t+1).String()
}

// Piece represents a chess piece.
type Piece int8

const (
	NoPiece Piece = 0

	WhiteKnight Piece = Piece(Knight) + 1
	WhiteBishop Piece = Piece(Bishop) + 1
	WhiteRook   Piece = Piece(Rook) + 1
	WhiteQueen  Piece = Piece(Queen) + 1
	WhiteKing   Piece = Piece(King) + 1
	WhitePawn   Piece = Piece(Pawn) + 1

	BlackKnight Piece = Piece(Knight) + 1 + 8
	BlackBishop Piece = Piece(Bishop) + 1 + 8
	BlackRook   Piece = Piece(Rook) + 1 + 8
	BlackQueen  Piece = Piece(Queen) + 1 + 8
	BlackKing   Piece = Piece(King) + 1 + 8
	BlackPawn   Piece = Piece(Pawn) + 1 + 8

	N = 16
)

var Promotions = []Type{
	Queen, Rook, Bishop, Knight,
}

// String converts a Piece into it's string representation.
func (p Piece) String() string {
	pieces := [...]string{
		NoPiece:     " ",
		WhiteKnight: "N",
		WhiteBishop: "B",
		WhiteRook:   "R",
		WhiteQueen:  "Q",
		WhiteKing:   "K",
		WhitePawn:   "P",
		BlackKnight: "n",
		BlackBishop: "b",
		BlackRook:   "r",
		BlackQueen:  "q",
		BlackKing:   "k",
		BlackPawn:   "p",
	}

	return pieces[p]
}

// Type returns the piece type of the given Piece.
func (p Piece) Type() Type {
	if p == NoPiece {
		return None
	}
	return Type(p&7) - 1
}

// Color returns the piece color of the given Piece.
func (p Piece) Color() Color {
	if p == NoPiece {
		panic("piece.Piece.Color: NoPiece has no color")
	}

	return Color(p >> 3)
}

// Is checks if the type of the given Piece matches the given type.
func (p Piece) Is(target Type) bool {
	return p.Type() == target
}

// IsColor checks if the color of the given Piece matches the given Color.
func (p Piece) IsColor(target Color) bool {
	return p != NoPiece && p.Color() == target
}
