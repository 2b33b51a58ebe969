/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mikeb26/chessresults-scraper/chessresults"
	"github.com/mikeb26/chessresults-scraper/games"
	"github.com/mikeb26/chessresults-scraper/internal"
)

// TournamentColumns is the header of the discovery file.
var TournamentColumns = []string{"end_date", "start_date", "country", "name", "url"}

// WriteRecords writes records as CSV. The header is the union of all
// records' fields in first-seen order; absent fields become empty cells.
func WriteRecords(w io.Writer, records []chessresults.Record) error {
	columns := chessresults.UnionKeys(records)

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i], _ = rec.Get(col)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// ReadRecords reads a CSV written by WriteRecords. Empty cells read back as
// absent fields.
func ReadRecords(r io.Reader) ([]string, []chessresults.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	header = dedupHeader(header)

	records := make([]chessresults.Record, 0)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		var rec chessresults.Record
		for i, col := range header {
			if i < len(row) && row[i] != "" {
				rec.Set(col, row[i])
			} else {
				rec.SetAbsent(col)
			}
		}
		records = append(records, rec)
	}

	return header, records, nil
}

// dedupHeader renames repeated or empty header cells so every column
// survives the trip into a Record.
func dedupHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int)
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		if h == "" {
			h = fmt.Sprintf("col_%d", i)
		}
		if n := seen[h]; n > 0 {
			seen[h] = n + 1
			h = fmt.Sprintf("%v.%d", h, n)
		} else {
			seen[h] = 1
		}
		out[i] = h
	}
	return out
}

// WriteGames writes games under the fixed GameColumns header, which is
// emitted even when there are no games.
func WriteGames(w io.Writer, gameList []games.GameRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(games.GameColumns); err != nil {
		return err
	}
	for _, g := range gameList {
		if err := cw.Write(g.Row()); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// ReadGames reads a games CSV. Columns may appear in any order but all of
// GameColumns must be present.
func ReadGames(r io.Reader) ([]games.GameRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	pos, err := columnPositions(header, games.GameColumns)
	if err != nil {
		return nil, err
	}

	gameList := make([]games.GameRecord, 0)
	ordered := make([]string, len(games.GameColumns))
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for i, p := range pos {
			ordered[i] = ""
			if p < len(row) {
				ordered[i] = row[p]
			}
		}
		g, err := games.GameFromRow(ordered)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		gameList = append(gameList, g)
	}

	return gameList, nil
}

func columnPositions(header []string, want []string) ([]int, error) {
	idx := make(map[string]int)
	for i, h := range header {
		idx[strings.TrimPrefix(h, "\ufeff")] = i
	}
	pos := make([]int, len(want))
	var missing []string
	for i, col := range want {
		p, ok := idx[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		pos[i] = p
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %v", strings.Join(missing, ", "))
	}
	return pos, nil
}

// WriteTournaments writes discovery tuples, with the header only when
// withHeader is set so that later search windows can append to the same
// file.
func WriteTournaments(w io.Writer, refs []chessresults.TournamentRef,
	withHeader bool) error {

	cw := csv.NewWriter(w)
	if withHeader {
		if err := cw.Write(TournamentColumns); err != nil {
			return err
		}
	}
	for _, ref := range refs {
		err := cw.Write([]string{ref.EndDate, ref.StartDate, ref.Country,
			ref.Name, ref.URL})
		if err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// ReadTournaments reads a discovery file written by WriteTournaments.
func ReadTournaments(r io.Reader) ([]chessresults.TournamentRef, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	pos, err := columnPositions(header, TournamentColumns)
	if err != nil {
		return nil, err
	}

	refs := make([]chessresults.TournamentRef, 0)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		cell := func(i int) string {
			if pos[i] < len(row) {
				return strings.TrimSpace(row[pos[i]])
			}
			return ""
		}

		ref := chessresults.TournamentRef{
			EndDate:   cell(0),
			StartDate: cell(1),
			Country:   cell(2),
			Name:      cell(3),
			URL:       cell(4),
		}
		if t, err := internal.ParseDateOrZero(ref.StartDate); err == nil {
			ref.Start = t
		}
		if t, err := internal.ParseDateOrZero(ref.EndDate); err == nil {
			ref.End = t
		}
		refs = append(refs, ref)
	}

	return refs, nil
}
