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

// Package square declares constants representing every square on a
// chessboard, and related utility functions.
//
// Squares are represented using the algebraic notation.
// https://www.chessprogramming.org/Algebraic_Chess_Notation
// The null square is represented using the "-" symbol. Square indices
// run a1..h8 with index = 8*rank + file, rank 0 being White's back
// rank, so that one step towards rank 8 is always +8.
package square

import "fmt"

// New creates a new instance of a Square from the given identifier.
func New(id string) Square {
	switch {
	case id == "-":
		return None
	case len(id) != 2:
		panic("square.New: invalid square id " + id)
	}

	return From(File(id[0]-'a'), Rank(id[1]-'1'))
}

// From creates a new instance of a Square from the given file and rank.
func From(file File, rank Rank) Square {
	return Square(int(rank)*8 + int(file))
}

// Square represents a square on a chessboard.
type Square int8

// None represents the absence of a square, used e.g. for the en
// passant field of a position when no capture is possible.
const None Square = -1

// N is the number of squares on a chessboard.
const N = 64

// constants representing every square, in a1..h8 order.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1

	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2

	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3

	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4

	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5

	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6

	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7

	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// String converts a square into it's algebraic string representation.
func (s Square) String() string {
	if s == None {
		return "-"
	}

	return fmt.Sprintf("%s%s", s.File(), s.Rank())
}

// File returns the file of the given square.
func (s Square) File() File {
	return File(s % 8)
}

// Rank returns the rank of the given square.
func (s Square) Rank() Rank {
	return Rank(s / 8)
}

// File represents a file (column) on a chessboard, a..h as 0..7.
type File int8

// constants representing every file.
const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

// String converts a file into it's algebraic representation.
func (f File) String() string {
	return string(rune('a' + f))
}

// Rank represents a rank (row) on a chessboard, 1..8 as 0..7.
type Rank int8

// constants representing every rank.
const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

// String converts a rank into it's algebraic representation.
func (r Rank) String() string {
	return fmt.Sprintf("%d", int(r)+1)
}
