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

// Package position implements a chess position: its board state, the
// legal moves available from it, and the FEN/LAN/SAN notations used
// to exchange it with a UCI engine and record it in a game log.
package position

import (
	"laptudirm.com/x/arbiter/pkg/bitboard"
	"laptudirm.com/x/arbiter/pkg/move"
	"laptudirm.com/x/arbiter/pkg/piece"
	"laptudirm.com/x/arbiter/pkg/square"
	"laptudirm.com/x/arbiter/pkg/zobrist"
)

// Position is a complete, self-contained chess position. It is a
// plain value type: playing a move copies the receiver rather than
// mutating and undoing it, which keeps the tournament runner's
// per-ply history a simple slice of values.
type Position struct {
	ByColor [piece.NColor]bitboard.Board
	ByPiece [piece.NType]bitboard.Board
	PieceOn [square.N]piece.Piece

	// CastleRooks is the bitboard of rook home squares the side to
	// move's opponent and mover still have the right to castle with.
	// Indexing rights by rook square, rather than by 4 fixed flags,
	// is what lets this represent Chess960 castling rights.
	CastleRooks bitboard.Board

	Key zobrist.Key

	// Checkers is the set of enemy pieces currently checking the
	// side to move's king. Attacked is the set of squares attacked
	// by the side to move's opponent, computed with the side to
	// move's king removed from the board so a checking ray is seen
	// to extend past the king's current square. Pinned is the set of
	// the side to move's own pieces pinned against its king.
	Checkers bitboard.Board
	Attacked bitboard.Board
	Pinned   bitboard.Board

	LastMove move.Move

	Turn     piece.Color
	EPSquare square.Square
	Rule50   int
	FullMove int

	// Chess960 selects the Chess960 notation: castling moves are read
	// and written in LAN as king-takes-rook, and FEN castling rights
	// as rook file letters. Castling legality is the same in both
	// modes; move generation always allows the king and rook to pass
	// through each other's squares.
	Chess960 bool
}

// New returns the standard chess starting position.
func New() *Position {
	p, err := FromFEN(StartFEN)
	if err != nil {
		panic("position.New: " + err.Error())
	}
	return p
}

// StartFEN is the FEN of the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Clone returns an independent copy of p.
func (p *Position) Clone() *Position {
	c := *p
	return &c
}

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c piece.Color) square.Square {
	return (p.ByColor[c] & p.ByPiece[piece.King]).FirstOne()
}

// ColorOn returns the color of the piece on s, if any; the boolean is
// false if s is empty.
func (p *Position) ColorOn(s square.Square) (piece.Color, bool) {
	switch {
	case p.ByColor[piece.White].IsSet(s):
		return piece.White, true
	case p.ByColor[piece.Black].IsSet(s):
		return piece.Black, true
	default:
		return piece.White, false
	}
}

// Occupied returns the bitboard of all occupied squares.
func (p *Position) Occupied() bitboard.Board {
	return p.ByColor[piece.White] | p.ByColor[piece.Black]
}

// Pieces returns the bitboard of every piece of type t, either color.
func (p *Position) Pieces(t piece.Type) bitboard.Board {
	return p.ByPiece[t]
}

// PiecesOf returns the bitboard of every piece of type t and color c.
func (p *Position) PiecesOf(t piece.Type, c piece.Color) bitboard.Board {
	return p.ByPiece[t] & p.ByColor[c]
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.Checkers != bitboard.Empty
}

// setSquare places piece pc on square s, updating occupancy, the
// mailbox and the position's Zobrist key. s must currently be empty.
func (p *Position) setSquare(s square.Square, pc piece.Piece) {
	p.ByColor[pc.Color()].Set(s)
	p.ByPiece[pc.Type()].Set(s)
	p.PieceOn[s] = pc
	p.Key ^= zobrist.PieceSquare[pc][s]
}

// clearSquare removes whatever piece occupies s, updating occupancy,
// the mailbox and the Zobrist key. s must currently be occupied.
func (p *Position) clearSquare(s square.Square) {
	pc := p.PieceOn[s]
	p.ByColor[pc.Color()].Unset(s)
	p.ByPiece[pc.Type()].Unset(s)
	p.PieceOn[s] = piece.NoPiece
	p.Key ^= zobrist.PieceSquare[pc][s]
}

// IsInsufficientMaterial reports whether the position is a dead draw
// by material: at most three pieces on the board in total and no pawn,
// rook or queen among them (K vs K, K+N vs K, K+B vs K).
func (p *Position) IsInsufficientMaterial() bool {
	if p.ByPiece[piece.Pawn]|p.ByPiece[piece.Rook]|p.ByPiece[piece.Queen] != bitboard.Empty {
		return false
	}
	return p.Occupied().Count() <= 3
}
