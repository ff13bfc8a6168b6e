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

// Package openings implements a thread-safe cursor over an opening
// book: a file of FEN/EPD lines, or a PGN collection, handing each
// game of a match its starting position.
package openings

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"laptudirm.com/x/arbiter/internal/util"
	"laptudirm.com/x/arbiter/pkg/position"
)

// Format selects how the opening file's bytes are interpreted.
type Format int

const (
	// FormatFEN covers both FEN and EPD files: one opening per line,
	// everything before the first semicolon taken as the FEN.
	FormatFEN Format = iota

	// FormatPGN reads a PGN collection; each game contributes the
	// position reached after its recorded moves.
	FormatPGN
)

// Config describes an opening source.
type Config struct {
	File   string
	Format Format
	Random bool
	Seed   uint64

	// Repeat makes consecutive even/odd indices return the same
	// opening, so the two games of a color-swapped pair start alike.
	Repeat bool
}

// Source serves opening FENs by logical game index. All access to the
// underlying file is serialized by one mutex; the critical section is
// a seek plus one line read.
type Source struct {
	mu sync.Mutex

	file  *os.File
	index []int64  // line-start offsets, FEN/EPD files
	fens  []string // pre-extracted FENs, PGN files

	repeat bool
}

// Open builds the source: the file is scanned once to index the start
// offset of every line (or, for PGN, to extract every game's final
// position), and the index is optionally shuffled. A Config with no
// file yields a source that always returns the starting position.
func Open(cfg Config) (*Source, error) {
	s := &Source{repeat: cfg.Repeat}
	if cfg.File == "" {
		return s, nil
	}

	file, err := os.Open(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("openings: %w", err)
	}

	if cfg.Format == FormatPGN {
		s.fens, err = readPGNBook(file)
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, fmt.Errorf("openings: %w", err)
		}
		if len(s.fens) == 0 {
			return nil, fmt.Errorf("openings: %s contains no games", cfg.File)
		}
	} else {
		s.file = file
		if s.index, err = indexLines(file); err != nil {
			return nil, fmt.Errorf("openings: %w", err)
		}
		if len(s.index) == 0 {
			return nil, fmt.Errorf("openings: %s contains no openings", cfg.File)
		}
	}

	if cfg.Random {
		s.shuffle(cfg.Seed)
	}

	return s, nil
}

// indexLines records the file offset of the start of every line.
func indexLines(file *os.File) ([]int64, error) {
	var index []int64
	var offset int64

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	for scanner.Scan() {
		index = append(index, offset)
		offset += int64(len(scanner.Bytes())) + 1
	}
	return index, scanner.Err()
}

// shuffle Fisher-Yates shuffles the opening order with a seeded PRNG,
// so a randomized match is still reproducible from its seed.
func (s *Source) shuffle(seed uint64) {
	if seed == 0 {
		seed = uint64(time.Now().UnixMilli())
	}

	var rng util.PRNG
	rng.Seed(seed)

	n := len(s.index)
	swap := func(i, j int) { s.index[i], s.index[j] = s.index[j], s.index[i] }
	if s.fens != nil {
		n = len(s.fens)
		swap = func(i, j int) { s.fens[i], s.fens[j] = s.fens[j], s.fens[i] }
	}

	for i := n - 1; i > 0; i-- {
		swap(i, int(rng.Uint64()%uint64(i+1)))
	}
}

// Get returns the opening for logical game index n. Indices wrap
// around the book; with Repeat enabled indices 2k and 2k+1 return the
// same opening.
func (s *Source) Get(n int) (string, error) {
	if s.repeat {
		n /= 2
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fens != nil {
		return s.fens[n%len(s.fens)], nil
	}

	if s.file == nil {
		return position.StartFEN, nil
	}

	if _, err := s.file.Seek(s.index[n%len(s.index)], 0); err != nil {
		return "", fmt.Errorf("openings: %w", err)
	}

	line, err := bufio.NewReader(s.file).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("openings: %w", err)
	}

	// the FEN is the first semicolon-separated field (EPD opcodes and
	// comments follow it)
	fen := strings.TrimRight(line, "\r\n")
	if at := strings.IndexByte(fen, ';'); at >= 0 {
		fen = fen[:at]
	}
	return strings.TrimSpace(fen), nil
}

// Close releases the underlying file, if any.
func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
