// Copyright © 2022 Rak Laptudirm <rak@laptudirm.com>
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

// Package bitboard implements a 64-bit bitboard and other related
// functions for manipulating them.
package bitboard

import (
	"math/bits"

	"laptudirm.com/x/arbiter/pkg/piece"
	"laptudirm.com/x/arbiter/pkg/square"
)

// Board is a 64-bit bitboard, one bit per square, bit i set meaning
// square i (square.Square(i)) is occupied/attacked/whatever the
// bitboard in question represents.
type Board uint64

// Empty and Universe are the all-zero and all-one boards.
const (
	Empty    Board = 0
	Universe Board = 0xffffffffffffffff
)

// String returns an 8x8 human readable representation of b, rank 8
// first, matching how a board diagram is normally printed.
func (b Board) String() string {
	var str string
	for rank := square.Rank8; rank >= square.Rank1; rank-- {
		for file := square.FileA; file <= square.FileH; file++ {
			if b.IsSet(square.From(file, rank)) {
				str += "1"
			} else {
				str += "0"
			}
			if file == square.FileH {
				str += "\n"
			} else {
				str += " "
			}
		}
	}
	return str
}

// Up shifts b towards c's forward direction: increasing ranks for
// White, decreasing ranks for Black.
func (b Board) Up(c piece.Color) Board {
	if c == piece.White {
		return b.North()
	}
	return b.South()
}

// Down shifts b away from c's forward direction.
func (b Board) Down(c piece.Color) Board {
	if c == piece.White {
		return b.South()
	}
	return b.North()
}

// North shifts b towards rank 8.
func (b Board) North() Board { return b << 8 }

// South shifts b towards rank 1.
func (b Board) South() Board { return b >> 8 }

// East shifts b towards file h.
func (b Board) East() Board { return (b &^ Files[square.FileH]) << 1 }

// West shifts b towards file a.
func (b Board) West() Board { return (b &^ Files[square.FileA]) >> 1 }

// Pop returns the least significant set square of b and clears it.
func (b *Board) Pop() square.Square {
	sq := b.FirstOne()
	*b &= *b - 1
	return sq
}

// Count returns the number of set squares in b.
func (b Board) Count() int {
	return bits.OnesCount64(uint64(b))
}

// FirstOne returns the least significant set square of b.
func (b Board) FirstOne() square.Square {
	return square.Square(bits.TrailingZeros64(uint64(b)))
}

// LastOne returns the most significant set square of b.
func (b Board) LastOne() square.Square {
	return square.Square(63 - bits.LeadingZeros64(uint64(b)))
}

// Several reports whether b has more than one square set.
func (b Board) Several() bool {
	return b&(b-1) != 0
}

// IsSet reports whether s is set in b.
func (b Board) IsSet(s square.Square) bool {
	return b&Squares[s] != 0
}

// Set sets s in b. Setting square.None is a no-op.
func (b *Board) Set(s square.Square) {
	if s == square.None {
		return
	}
	*b |= Squares[s]
}

// Unset clears s in b. Clearing square.None is a no-op.
func (b *Board) Unset(s square.Square) {
	if s == square.None {
		return
	}
	*b &^= Squares[s]
}
