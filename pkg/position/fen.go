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
	"strconv"
	"strings"

	"laptudirm.com/x/arbiter/pkg/bitboard"
	"laptudirm.com/x/arbiter/pkg/piece"
	"laptudirm.com/x/arbiter/pkg/square"
	"laptudirm.com/x/arbiter/pkg/zobrist"
)

// FromFEN parses a FEN string into a Position. The half-move clock and
// full-move number fields are optional; everything else is mandatory.
// Castling rights accept both the standard KQkq letters and Chess960
// per-file letters (A-H/a-h). Chess960 mode is detected automatically
// from the castling setup; callers that know better (a "-chess960"
// style of flag) may set the Chess960 field afterwards.
//
// The parsed position is validated: a FEN that encodes an impossible
// or inconsistent position is rejected with an error, never returned.
func FromFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("position: fen %q: expected at least 4 fields, found %d", fen, len(fields))
	}

	p := &Position{EPSquare: square.None}

	// field 1: piece placement
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("position: fen %q: expected 8 ranks, found %d", fen, len(ranks))
	}

	for i, rankStr := range ranks {
		r := square.Rank(7 - i) // fen lists rank 8 first
		f := square.FileA

		for _, c := range rankStr {
			if c >= '1' && c <= '8' {
				f += square.File(c - '0')
				continue
			}

			if f > square.FileH {
				return nil, fmt.Errorf("position: fen %q: rank %s is too wide", fen, r)
			}

			pc, ok := pieceFromFEN(c)
			if !ok {
				return nil, fmt.Errorf("position: fen %q: invalid piece %q", fen, c)
			}

			p.setSquare(square.From(f, r), pc)
			f++
		}

		if f != square.FileH+1 {
			return nil, fmt.Errorf("position: fen %q: rank %s has wrong width", fen, r)
		}
	}

	if p.PiecesOf(piece.King, piece.White).Count() != 1 ||
		p.PiecesOf(piece.King, piece.Black).Count() != 1 {
		return nil, fmt.Errorf("position: fen %q: each side must have exactly one king", fen)
	}

	// field 2: side to move
	switch fields[1] {
	case "w":
		p.Turn = piece.White
	case "b":
		p.Turn = piece.Black
		p.Key ^= zobrist.SideToMove
	default:
		return nil, fmt.Errorf("position: fen %q: invalid side to move %q", fen, fields[1])
	}

	// field 3: castling rights
	if fields[2] != "-" {
		for _, c := range fields[2] {
			rook, err := p.castleRookFromFEN(c)
			if err != nil {
				return nil, fmt.Errorf("position: fen %q: %w", fen, err)
			}
			p.CastleRooks.Set(rook)
		}
	}
	p.Key ^= zobrist.CastlingKey(uint64(p.CastleRooks))
	p.Chess960 = p.detectChess960()

	// field 4: en passant square
	if fields[3] != "-" {
		ep, ok := parseSquare(fields[3])
		if !ok {
			return nil, fmt.Errorf("position: fen %q: invalid en passant square %q", fen, fields[3])
		}
		if err := p.checkEnPassant(ep); err != nil {
			return nil, fmt.Errorf("position: fen %q: %w", fen, err)
		}
		p.EPSquare = ep
		p.Key ^= zobrist.EnPassant[ep.File()]
	}

	// field 5 (optional): half-move clock
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("position: fen %q: invalid half-move clock %q", fen, fields[4])
		}
		if n >= 100 {
			return nil, fmt.Errorf("position: fen %q: half-move clock %d is at or past the fifty-move limit", fen, n)
		}
		p.Rule50 = n
	}

	// field 6 (optional): full-move number
	p.FullMove = 1
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("position: fen %q: invalid full-move number %q", fen, fields[5])
		}
		p.FullMove = n
	}

	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("position: fen %q: %w", fen, err)
	}

	p.calculateMetadata()
	return p, nil
}

// castleRookFromFEN resolves one castling-rights letter to the square
// of the rook it grants castling with.
func (p *Position) castleRookFromFEN(c rune) (square.Square, error) {
	var color piece.Color
	var file square.File
	outermost := false
	kingside := false

	switch {
	case c == 'K' || c == 'Q':
		color, outermost, kingside = piece.White, true, c == 'K'
	case c == 'k' || c == 'q':
		color, outermost, kingside = piece.Black, true, c == 'k'
	case c >= 'A' && c <= 'H':
		color, file = piece.White, square.File(c-'A')
	case c >= 'a' && c <= 'h':
		color, file = piece.Black, square.File(c-'a')
	default:
		return square.None, fmt.Errorf("invalid castling rights letter %q", c)
	}

	backRank := square.Rank1
	if color == piece.Black {
		backRank = square.Rank8
	}

	if outermost {
		// standard K/Q letters: the outermost rook on the king's
		// kingside/queenside, which in Chess960-derived setups need
		// not be on the a/h file.
		king := p.KingSquare(color)
		rooks := p.PiecesOf(piece.Rook, color) & bitboard.Ranks[backRank]
		if kingside {
			rooks &= ^(bitboard.Squares[king] - 1) // squares >= king
			if rooks == bitboard.Empty {
				return square.None, fmt.Errorf("no kingside rook for castling rights %q", c)
			}
			return rooks.LastOne(), nil
		}
		rooks &= bitboard.Squares[king] - 1 // squares < king
		if rooks == bitboard.Empty {
			return square.None, fmt.Errorf("no queenside rook for castling rights %q", c)
		}
		return rooks.FirstOne(), nil
	}

	rook := square.From(file, backRank)
	if !p.PiecesOf(piece.Rook, color).IsSet(rook) {
		return square.None, fmt.Errorf("no rook on %s for castling rights %q", rook, c)
	}
	return rook, nil
}

// detectChess960 reports whether the castling setup requires Chess960
// rules: a castling rook off the a/h files, or a castling king off the
// e file.
func (p *Position) detectChess960() bool {
	for rooks := p.CastleRooks; rooks != bitboard.Empty; {
		rook := rooks.Pop()
		if rook.File() != square.FileA && rook.File() != square.FileH {
			return true
		}

		color := piece.White
		if rook.Rank() == square.Rank8 {
			color = piece.Black
		}
		if p.KingSquare(color).File() != square.FileE {
			return true
		}
	}
	return false
}

// checkEnPassant verifies that ep is a geometrically possible en
// passant square for the side to move: the pushed pawn sits one rank
// beyond it, and both the ep square and the pawn's origin are empty.
func (p *Position) checkEnPassant(ep square.Square) error {
	pusher := p.Turn.Other()

	var wantRank square.Rank
	var pawn, origin square.Square
	if pusher == piece.White {
		wantRank, pawn, origin = square.Rank3, ep+8, ep-8
	} else {
		wantRank, pawn, origin = square.Rank6, ep-8, ep+8
	}

	switch {
	case ep.Rank() != wantRank:
		return fmt.Errorf("en passant square %s on wrong rank", ep)
	case p.PieceOn[ep] != piece.NoPiece:
		return fmt.Errorf("en passant square %s is occupied", ep)
	case p.PieceOn[origin] != piece.NoPiece:
		return fmt.Errorf("en passant origin %s is occupied", origin)
	case p.PieceOn[pawn] != piece.New(piece.Pawn, pusher):
		return fmt.Errorf("no double-pushed pawn behind en passant square %s", ep)
	}
	return nil
}

// validate checks the position invariants a legal chess position must
// satisfy and which the placement parser alone cannot guarantee.
func (p *Position) validate() error {
	if p.ByColor[piece.White]&p.ByColor[piece.Black] != bitboard.Empty {
		return fmt.Errorf("white and black occupancy overlap")
	}

	backRanks := bitboard.Ranks[square.Rank1] | bitboard.Ranks[square.Rank8]
	if p.ByPiece[piece.Pawn]&backRanks != bitboard.Empty {
		return fmt.Errorf("pawn on a back rank")
	}

	for c := piece.White; c <= piece.Black; c++ {
		if p.ByColor[c].Count() > 16 {
			return fmt.Errorf("%s has more than 16 pieces", c)
		}
		if p.PiecesOf(piece.Pawn, c).Count() > 8 {
			return fmt.Errorf("%s has more than 8 pawns", c)
		}
		if p.PiecesOf(piece.Queen, c).Count() > 9 {
			return fmt.Errorf("%s has more than 9 queens", c)
		}
		for _, t := range [3]piece.Type{piece.Knight, piece.Bishop, piece.Rook} {
			if p.PiecesOf(t, c).Count() > 10 {
				return fmt.Errorf("%s has too many pieces of type %s", c, t)
			}
		}

		if err := p.validateCastleRooks(c); err != nil {
			return err
		}
	}

	return nil
}

func (p *Position) validateCastleRooks(c piece.Color) error {
	backRank := square.Rank1
	if c == piece.Black {
		backRank = square.Rank8
	}

	rooks := p.CastleRooks & p.ByColor[c]
	if rooks&^(p.PiecesOf(piece.Rook, c)&bitboard.Ranks[backRank]) != bitboard.Empty {
		return fmt.Errorf("%s castling rights without a back-rank rook", c)
	}

	king := p.KingSquare(c)
	if rooks.Several() && (king < rooks.FirstOne() || king > rooks.LastOne()) {
		return fmt.Errorf("%s king is not between its castling rooks", c)
	}
	if rooks != bitboard.Empty && king.Rank() != backRank {
		return fmt.Errorf("%s castling rights with the king off the back rank", c)
	}
	return nil
}

// FEN serializes p back into FEN. The half-move clock and full-move
// number are always emitted, even when the parsed source omitted them.
func (p *Position) FEN() string {
	var fen strings.Builder

	for r := square.Rank8; r >= square.Rank1; r-- {
		empty := 0
		for f := square.FileA; f <= square.FileH; f++ {
			pc := p.PieceOn[square.From(f, r)]
			if pc == piece.NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				fen.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			fen.WriteString(pc.String())
		}
		if empty > 0 {
			fen.WriteString(strconv.Itoa(empty))
		}
		if r != square.Rank1 {
			fen.WriteByte('/')
		}
	}

	fen.WriteByte(' ')
	fen.WriteString(p.Turn.String())
	fen.WriteByte(' ')
	fen.WriteString(p.castlingFEN())
	fen.WriteByte(' ')
	fen.WriteString(p.EPSquare.String())
	fen.WriteByte(' ')
	fen.WriteString(strconv.Itoa(p.Rule50))
	fen.WriteByte(' ')
	fen.WriteString(strconv.Itoa(p.FullMove))

	return fen.String()
}

func (p *Position) castlingFEN() string {
	if p.CastleRooks == bitboard.Empty {
		return "-"
	}

	var s strings.Builder
	for _, c := range [2]piece.Color{piece.White, piece.Black} {
		king := p.KingSquare(c)
		rooks := p.CastleRooks & p.ByColor[c]

		var letters []byte
		if p.Chess960 {
			// per-file letters, a through h
			for rooks != bitboard.Empty {
				letters = append(letters, byte('A'+rooks.Pop().File()))
			}
		} else {
			// conventional KQ order
			if rooks&^(bitboard.Squares[king]-1) != bitboard.Empty {
				letters = append(letters, 'K')
			}
			if rooks&(bitboard.Squares[king]-1) != bitboard.Empty {
				letters = append(letters, 'Q')
			}
		}

		for _, letter := range letters {
			if c == piece.Black {
				letter += 'a' - 'A'
			}
			s.WriteByte(letter)
		}
	}
	return s.String()
}

// parseSquare is a non-panicking version of square.New for text that
// arrives from outside the process.
func parseSquare(s string) (square.Square, bool) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return square.None, false
	}
	return square.From(square.File(s[0]-'a'), square.Rank(s[1]-'1')), true
}

func pieceFromFEN(c rune) (piece.Piece, bool) {
	switch c {
	case 'K', 'Q', 'R', 'B', 'N', 'P', 'k', 'q', 'r', 'b', 'n', 'p':
		return piece.NewFromString(string(c)), true
	default:
		return piece.NoPiece, false
	}
}
