/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package games

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

var (
	ErrNilTable           = errors.New("nil results table")
	ErrMissingSchema      = errors.New("results table lacks required columns")
	ErrOpponentOutOfRange = errors.New("opponent start number out of range")
	ErrBadStartNumber     = errors.New("invalid start number")
)

// CellError describes a round cell, or a whole row when Round is 0, that
// could not be turned into a game.
type CellError struct {
	Round int
	// Row is the zero-based row position within the table.
	Row  int
	Cell string
	Err  error
}

func (e *CellError) Error() string {
	if e.Round == 0 {
		return fmt.Sprintf("row %d: %v", e.Row+1, e.Err)
	}
	return fmt.Sprintf("row %d round %d cell %q: %v", e.Row+1, e.Round,
		e.Cell, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// Reconstruction is the outcome of turning one results table into games.
type Reconstruction struct {
	Games   []GameRecord
	Skipped []*CellError
}

// Reconstruct turns every player's round cells into White/Black games.
// Each game is listed in both players' rows; only the occurrence in the row
// of the player with the smaller start number is kept. The opponent row is
// found by position: start number n is row n-1. Games are sorted with
// SortGames.
//
// A nil table yields ErrNilTable and a table lacking the start number,
// name, rating or federation column yields ErrMissingSchema; both produce
// no games. Cells whose opponent cannot be resolved are reported in
// Skipped.
func Reconstruct(t *ResultsTable) (Reconstruction, error) {
	var out Reconstruction

	if t == nil {
		return out, ErrNilTable
	}
	if missing := t.MissingColumns(); len(missing) > 0 {
		return out, fmt.Errorf("%w: %v", ErrMissingSchema,
			strings.Join(missing, ", "))
	}

	rounds := t.RoundCount()
	s := t.Schema
	out.Games = make([]GameRecord, 0)

	for i, row := range t.Rows {
		startNum, err := ParseStartNumber(fieldText(row, s.StartNumber))
		if err != nil {
			out.Skipped = append(out.Skipped, &CellError{Row: i, Err: err})
			continue
		}
		player := t.side(row, startNum)
		tournamentURL := fieldText(row, s.TournamentURL)

		for r := 1; r <= rounds; r++ {
			col := RoundColumn(r)
			if !t.hasColumn(col) {
				break
			}
			cell, _ := row.Get(col)
			tok, ok := ParseRoundCell(cell)
			if !ok {
				continue
			}
			if tok.Opponent <= startNum {
				continue
			}

			oppIdx := tok.Opponent - 1
			if oppIdx >= len(t.Rows) {
				out.Skipped = append(out.Skipped, &CellError{
					Round: r,
					Row:   i,
					Cell:  cell,
					Err: fmt.Errorf("%w: %d > %d players",
						ErrOpponentOutOfRange, tok.Opponent, len(t.Rows)),
				})
				continue
			}
			opponent := t.side(t.Rows[oppIdx], tok.Opponent)

			game := GameRecord{
				Round:         r,
				Result:        tok.CanonicalResult(),
				TournamentURL: tournamentURL,
			}
			if tok.Color == White {
				game.White, game.Black = player, opponent
			} else {
				game.White, game.Black = opponent, player
			}
			out.Games = append(out.Games, game)
		}
	}

	SortGames(out.Games)

	return out, nil
}

// BuildGames is Reconstruct with skipped cells logged as warnings.
func BuildGames(t *ResultsTable) ([]GameRecord, error) {
	rec, err := Reconstruct(t)
	if err != nil {
		return nil, err
	}
	for _, skipped := range rec.Skipped {
		log.Printf("warning: skipping %v", skipped)
	}

	return rec.Games, nil
}

// BuildAllGames reconstructs every per-tournament table and returns all
// games sorted with SortGames. Tables that cannot be reconstructed are
// logged and skipped.
func BuildAllGames(tables []*ResultsTable) []GameRecord {
	all := make([]GameRecord, 0)
	for _, t := range tables {
		games, err := BuildGames(t)
		if err != nil {
			log.Printf("warning: %v: %v", tableName(t), err)
			continue
		}
		all = append(all, games...)
	}
	SortGames(all)

	return all
}

func tableName(t *ResultsTable) string {
	if t == nil || len(t.Rows) == 0 {
		return "<empty table>"
	}
	if u := fieldText(t.Rows[0], t.Schema.TournamentURL); u != "" {
		return u
	}
	return "<unknown tournament>"
}
