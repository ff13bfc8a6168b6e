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

// Package zobrist holds the random key tables used to maintain a
// Position's incremental hash. Keys are generated once at init with
// the same xorshift64star generator and seed Stockfish uses, so a
// position's hash is reproducible across runs for a given build.
package zobrist

import (
	"math/bits"

	"laptudirm.com/x/arbiter/internal/util"
	"laptudirm.com/x/arbiter/pkg/piece"
	"laptudirm.com/x/arbiter/pkg/square"
)

type Key uint64

var PieceSquare [piece.N][square.N]Key
var EnPassant [8]Key

// Castling holds one key per square a castling rook could start on;
// a position's castling key is the XOR of the keys of every square
// still set in its rook mask. Indexing by square, not by a small set
// of flag combinations, is what lets this support Chess960 castling
// rights (an arbitrary rook start file) without a redesign.
var Castling [square.N]Key

var SideToMove Key

func init() {
	var rng util.PRNG
	rng.Seed(1070372) // seed used by Stockfish

	for p := 0; p < piece.N; p++ {
		for s := square.A1; s <= square.H8; s++ {
			PieceSquare[p][s] = Key(rng.Uint64())
		}
	}

	for f := square.FileA; f <= square.FileH; f++ {
		EnPassant[f] = Key(rng.Uint64())
	}

	for s := square.A1; s <= square.H8; s++ {
		Castling[s] = Key(rng.Uint64())
	}

	SideToMove = Key(rng.Uint64())
}

// CastlingKey returns the XOR of the castling keys of every rook
// square set in the given bitboard-encoded castling rights mask. It
// takes a uint64 rather than pkg/bitboard.Board, so this package does
// not depend on pkg/bitboard.
func CastlingKey(rookMask uint64) Key {
	var k Key
	for rookMask != 0 {
		s := square.Square(bits.TrailingZeros64(rookMask))
		k ^= Castling[s]
		rookMask &= rookMask - 1
	}
	return k
}
