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

package engine

import (
	"strconv"
	"strings"
)

// Limits is the union of search bounds for one move: any combination
// of node count, depth, fixed move time, and the two-sided clock.
type Limits struct {
	Nodes    int64
	Depth    int
	MoveTime int64 // msec

	UseClock     bool
	WTime, WInc  int64 // msec
	BTime, BInc  int64 // msec
	MovesToGo    int
}

// Protocol is the capability set a wire protocol must provide to drive
// a game: building the position and go commands, and recognizing the
// move the engine settled on. Everything else an engine says is either
// the handshake (handled by New) or free-form info.
type Protocol struct {
	Name string

	FormatPosition func(fen string, moves []string) string
	FormatGo       func(lim Limits) string
	ParseBestmove  func(line string) (move string, ok bool)
}

// UCI is the Universal Chess Interface, the protocol spoken by nearly
// every current engine and the only one arbiter ships.
var UCI = Protocol{
	Name:           "uci",
	FormatPosition: uciPosition,
	FormatGo:       uciGo,
	ParseBestmove:  uciBestmove,
}

func uciPosition(fen string, moves []string) string {
	var cmd strings.Builder
	cmd.WriteString("position fen ")
	cmd.WriteString(fen)

	if len(moves) > 0 {
		cmd.WriteString(" moves")
		for _, m := range moves {
			cmd.WriteByte(' ')
			cmd.WriteString(m)
		}
	}
	return cmd.String()
}

func uciGo(lim Limits) string {
	var cmd strings.Builder
	cmd.WriteString("go")

	if lim.Nodes != 0 {
		cmd.WriteString(" nodes ")
		cmd.WriteString(strconv.FormatInt(lim.Nodes, 10))
	}
	if lim.Depth != 0 {
		cmd.WriteString(" depth ")
		cmd.WriteString(strconv.Itoa(lim.Depth))
	}
	if lim.MoveTime != 0 {
		cmd.WriteString(" movetime ")
		cmd.WriteString(strconv.FormatInt(lim.MoveTime, 10))
	}
	if lim.UseClock {
		cmd.WriteString(" wtime ")
		cmd.WriteString(strconv.FormatInt(lim.WTime, 10))
		cmd.WriteString(" winc ")
		cmd.WriteString(strconv.FormatInt(lim.WInc, 10))
		cmd.WriteString(" btime ")
		cmd.WriteString(strconv.FormatInt(lim.BTime, 10))
		cmd.WriteString(" binc ")
		cmd.WriteString(strconv.FormatInt(lim.BInc, 10))
	}
	if lim.MovesToGo != 0 {
		cmd.WriteString(" movestogo ")
		cmd.WriteString(strconv.Itoa(lim.MovesToGo))
	}
	return cmd.String()
}

func uciBestmove(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) >= 2 && fields[0] == "bestmove" {
		return fields[1], true
	}
	return "", false
}
