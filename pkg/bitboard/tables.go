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

package bitboard

import "laptudirm.com/x/arbiter/pkg/square"

// Squares[s] is the singleton bitboard containing only s.
var Squares [square.N]Board

// Files[f] and Ranks[r] are the bitboards of an entire file/rank.
var Files [8]Board
var Ranks [8]Board

// Ray[s1][s2] is the full line through s1 and s2, extended to both
// board edges, if the two squares share a rank, file or diagonal;
// Empty otherwise (including s1 == s2).
//
// Segment[s1][s2] is the set of squares strictly between s1 and s2 on
// that same line, or Empty if they are not aligned.
//
// Both are used for pin and check-blocking detection, and for
// castling's empty-path test.
var Ray [square.N][square.N]Board
var Segment [square.N][square.N]Board

var directions = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

func init() {
	mask := Board(1)
	for s := square.A1; s <= square.H8; s++ {
		Squares[s] = mask
		mask <<= 1
	}

	for f := square.FileA; f <= square.FileH; f++ {
		var b Board
		for r := square.Rank1; r <= square.Rank8; r++ {
			b.Set(square.From(f, r))
		}
		Files[f] = b
	}

	for r := square.Rank1; r <= square.Rank8; r++ {
		var b Board
		for f := square.FileA; f <= square.FileH; f++ {
			b.Set(square.From(f, r))
		}
		Ranks[r] = b
	}

	for s1 := square.A1; s1 <= square.H8; s1++ {
		for _, d := range directions {
			file, rank := int(s1.File()), int(s1.Rank())

			// the full board-spanning line through s1 along d, both
			// directions, shared by every s2 found on it below.
			line := lineThrough(s1, d)

			var segment Board
			f, r := file+d[0], rank+d[1]
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				s2 := square.From(square.File(f), square.Rank(r))

				Segment[s1][s2] = segment
				Ray[s1][s2] = line

				segment.Set(s2)
				f += d[0]
				r += d[1]
			}
		}
	}
}

// lineThrough walks from s1 to both board edges along ±d, returning
// the full line including s1 itself.
func lineThrough(s1 square.Square, d [2]int) Board {
	var b Board
	b.Set(s1)
	for _, sign := range [2]int{1, -1} {
		f, r := int(s1.File())+sign*d[0], int(s1.Rank())+sign*d[1]
		for f >= 0 && f < 8 && r >= 0 && r < 8 {
			b.Set(square.From(square.File(f), square.Rank(r)))
			f += sign * d[0]
			r += sign * d[1]
		}
	}
	return b
}
