// Copyright © 2023 Rak Laptudirm <rak@laptudirm.com>
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

package openings

import (
	"io"

	"github.com/notnil/chess"
)

// readPGNBook extracts one opening FEN per game of a PGN collection:
// the position reached after the game's recorded moves. Books built
// from short opening lines (the usual case) thus contribute the line's
// final position; a book of full games contributes final positions,
// which is almost never what the user wants, but that is their call.
func readPGNBook(r io.Reader) ([]string, error) {
	games, err := chess.GamesFromPGN(r)
	if err != nil {
		return nil, err
	}

	fens := make([]string, 0, len(games))
	for _, game := range games {
		fens = append(fens, game.Position().String())
	}
	return fens, nil
}
