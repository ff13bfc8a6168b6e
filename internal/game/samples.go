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

package game

import (
	"fmt"
	"strings"
)

// ExportSamples renders the game's training samples as CSV lines of
// the form FEN,score,result, the result being 0/1/2 for a loss, draw
// or win from the sampled side to move's point of view.
func (g *Game) ExportSamples() string {
	var out strings.Builder
	for _, s := range g.samples {
		fmt.Fprintf(&out, "%s,%d,%d\n", s.Pos.FEN(), s.Score, s.Result)
	}
	return out.String()
}
