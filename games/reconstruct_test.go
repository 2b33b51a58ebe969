/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package games

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/mikeb26/chessresults-scraper/chessresults"
)

// record builds a row from alternating key, value pairs.
func record(kv ...string) chessresults.Record {
	var rec chessresults.Record
	for i := 0; i+1 < len(kv); i += 2 {
		rec.Set(kv[i], kv[i+1])
	}
	return rec
}

func player(nr int, name string, rounds ...string) chessresults.Record {
	rec := record(
		"Nr", fmt.Sprint(nr),
		"Nazwisko", name,
		"Rg", fmt.Sprint(1500+nr),
		"Fed", "POL",
	)
	for i, cell := range rounds {
		rec.Set(RoundColumn(i+1), cell)
	}
	rec.Set(chessresults.TournamentURLField, "tnr1.aspx")
	return rec
}

func TestReconstructThreePlayers(t *testing.T) {
	rows := []chessresults.Record{
		player(1, "Alpha", "2w1"),
		player(2, "Bravo", "1b0"),
		player(3, "Charlie", ""),
	}

	games, err := BuildGames(NewResultsTable(nil, rows))
	if err != nil {
		t.Fatalf("BuildGames: %v", err)
	}

	want := []GameRecord{{
		Round:         1,
		White:         Side{StartNumber: 1, Fed: "POL", Name: "Alpha", Rating: "1501"},
		Black:         Side{StartNumber: 2, Fed: "POL", Name: "Bravo", Rating: "1502"},
		Result:        "1-0",
		TournamentURL: "tnr1.aspx",
	}}
	if !reflect.DeepEqual(games, want) {
		t.Errorf("games = %+v; want %+v", games, want)
	}
}

func TestReconstructPolarityFlip(t *testing.T) {
	rows := make([]chessresults.Record, 7)
	for i := range rows {
		rows[i] = player(i+1, fmt.Sprintf("P%d", i+1), "", "")
	}
	rows[2] = player(3, "A", "", "7w0")
	rows[6] = player(7, "G", "", "3b1")

	rec, err := Reconstruct(NewResultsTable(nil, rows))
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if len(rec.Games) != 1 {
		t.Fatalf("expected a single game, got %+v", rec.Games)
	}
	g := rec.Games[0]
	if g.Round != 2 || g.White.Name != "A" || g.Black.Name != "G" || g.Result != "0-1" {
		t.Errorf("unexpected game %+v", g)
	}
	if g.White.StartNumber != 3 || g.Black.StartNumber != 7 {
		t.Errorf("start numbers %d/%d", g.White.StartNumber, g.Black.StartNumber)
	}

	// the same game seen only from the higher start number's row is not
	// emitted
	rows[2] = player(3, "A", "", "")
	rec, err = Reconstruct(NewResultsTable(nil, rows))
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if len(rec.Games) != 0 {
		t.Errorf("expected no games, got %+v", rec.Games)
	}
}

func TestReconstructBlackRowFlipsResult(t *testing.T) {
	rows := []chessresults.Record{
		player(1, "Alpha", "2b1", "2w½"),
		player(2, "Bravo", "1w0", "1b½"),
	}

	rec, err := Reconstruct(NewResultsTable(nil, rows))
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if len(rec.Games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(rec.Games))
	}
	r1 := rec.Games[0]
	if r1.White.Name != "Bravo" || r1.Black.Name != "Alpha" || r1.Result != "0-1" {
		t.Errorf("round 1 = %+v", r1)
	}
	r2 := rec.Games[1]
	if r2.White.Name != "Alpha" || r2.Result != "1/2-1/2" {
		t.Errorf("round 2 = %+v", r2)
	}
}

func TestReconstructDedup(t *testing.T) {
	// 4-player round robin, every pairing listed by both players
	cells := [][]string{
		{"4w1", "3b½", "2w0"},
		{"3b1", "4w1", "1b1"},
		{"2w0", "1w½", "4b0"},
		{"1b0", "2b0", "3w1"},
	}
	rows := make([]chessresults.Record, len(cells))
	tokens := 0
	for i, c := range cells {
		rows[i] = player(i+1, fmt.Sprintf("P%d", i+1), c...)
		for _, cell := range c {
			if _, ok := ParseRoundCell(cell); ok {
				tokens++
			}
		}
	}

	rec, err := Reconstruct(NewResultsTable(nil, rows))
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if len(rec.Games) != tokens/2 {
		t.Errorf("expected %d games, got %d", tokens/2, len(rec.Games))
	}

	seen := make(map[string]bool)
	for _, g := range rec.Games {
		lo, hi := g.White.StartNumber, g.Black.StartNumber
		if lo > hi {
			lo, hi = hi, lo
		}
		key := fmt.Sprintf("%d:%d-%d", g.Round, lo, hi)
		if seen[key] {
			t.Errorf("game %v emitted twice", key)
		}
		seen[key] = true
	}
}

func TestReconstructMissingSchema(t *testing.T) {
	var rows []chessresults.Record
	for i := 1; i <= 2; i++ {
		rows = append(rows, record("Nr", fmt.Sprint(i), "Nazwisko", "X",
			"Fed", "POL", "1.Rd", "2w1"))
	}

	rec, err := Reconstruct(NewResultsTable(nil, rows))
	if !errors.Is(err, ErrMissingSchema) {
		t.Fatalf("expected ErrMissingSchema, got %v", err)
	}
	if len(rec.Games) != 0 {
		t.Errorf("expected no games, got %d", len(rec.Games))
	}

	all := BuildAllGames([]*ResultsTable{NewResultsTable(nil, rows)})
	if len(all) != 0 {
		t.Errorf("BuildAllGames should skip the table, got %d games", len(all))
	}
}

func TestReconstructNilTable(t *testing.T) {
	if _, err := Reconstruct(nil); !errors.Is(err, ErrNilTable) {
		t.Errorf("expected ErrNilTable, got %v", err)
	}
	if _, err := BuildGames(nil); !errors.Is(err, ErrNilTable) {
		t.Errorf("expected ErrNilTable, got %v", err)
	}
}

func TestReconstructOpponentOutOfRange(t *testing.T) {
	rows := []chessresults.Record{
		player(1, "Alpha", "9w1", "2b0"),
		player(2, "Bravo", "", "1w1"),
	}

	rec, err := Reconstruct(NewResultsTable(nil, rows))
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if len(rec.Games) != 1 || rec.Games[0].Round != 2 {
		t.Errorf("expected only the round 2 game, got %+v", rec.Games)
	}
	if len(rec.Skipped) != 1 {
		t.Fatalf("expected one skipped cell, got %v", rec.Skipped)
	}
	skipped := rec.Skipped[0]
	if !errors.Is(skipped, ErrOpponentOutOfRange) {
		t.Errorf("skipped cell err = %v", skipped)
	}
	if skipped.Round != 1 || skipped.Row != 0 || skipped.Cell != "9w1" {
		t.Errorf("unexpected skipped cell %+v", skipped)
	}
}

func TestReconstructZeroRounds(t *testing.T) {
	rows := []chessresults.Record{player(1, "Alpha"), player(2, "Bravo")}

	rec, err := Reconstruct(NewResultsTable(nil, rows))
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if rec.Games == nil || len(rec.Games) != 0 {
		t.Errorf("expected an empty, non-nil game list, got %#v", rec.Games)
	}
}

func TestReconstructStopsAtMissingRound(t *testing.T) {
	rows := []chessresults.Record{
		record("Nr", "1", "Nazwisko", "Alpha", "Rg", "1", "Fed", "POL",
			"1.Rd", "2w1", "3.Rd", "2b1"),
		record("Nr", "2", "Nazwisko", "Bravo", "Rg", "2", "Fed", "POL",
			"1.Rd", "1b0", "3.Rd", "1w0"),
	}

	table := NewResultsTable(nil, rows)
	if table.RoundCount() != 3 {
		t.Fatalf("RoundCount = %d; want 3", table.RoundCount())
	}
	rec, err := Reconstruct(table)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if len(rec.Games) != 1 || rec.Games[0].Round != 1 {
		t.Errorf("rounds after a gap should be ignored, got %+v", rec.Games)
	}
}

func TestReconstructBadStartNumber(t *testing.T) {
	rows := []chessresults.Record{
		player(1, "Alpha", "2w1"),
		player(2, "Bravo", "1b0"),
		record("Nr", "", "Nazwisko", "Sedzia", "Rg", "", "Fed", "", "1.Rd", "1w1"),
	}

	rec, err := Reconstruct(NewResultsTable(nil, rows))
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if len(rec.Games) != 1 {
		t.Errorf("expected 1 game, got %d", len(rec.Games))
	}
	if len(rec.Skipped) != 1 || !errors.Is(rec.Skipped[0], ErrBadStartNumber) {
		t.Errorf("expected the judge row to be skipped, got %v", rec.Skipped)
	}
}

func TestReconstructFloatStartNumbers(t *testing.T) {
	rows := []chessresults.Record{
		record("Nr", "1.0", "Nazwisko", "Alpha", "Rg", "1800.0", "Fed", "CZE",
			"1.Rd", "2w1/2"),
		record("Nr", "2.0", "Nazwisko", "Bravo", "Rg", "1700.0", "Fed", "SVK",
			"1.Rd", "1b1/2"),
	}

	rec, err := Reconstruct(NewResultsTable(nil, rows))
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if len(rec.Games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(rec.Games))
	}
	g := rec.Games[0]
	if g.White.StartNumber != 1 || g.Black.StartNumber != 2 || g.Result != "1/2-1/2" {
		t.Errorf("unexpected game %+v", g)
	}
}

func TestReconstructSortsByRoundThenWhite(t *testing.T) {
	rows := []chessresults.Record{
		player(1, "Zulu", "3w1", "2b0"),
		player(2, "Yankee", "4b1", "1w1"),
		player(3, "Xray", "1b0", "4w1"),
		player(4, "Alpha", "2w0", "3b0"),
	}

	rec, err := Reconstruct(NewResultsTable(nil, rows))
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}

	var got []string
	for _, g := range rec.Games {
		got = append(got, fmt.Sprintf("%d:%v", g.Round, g.White.Name))
	}
	want := []string{"1:Alpha", "1:Zulu", "2:Xray", "2:Yankee"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v; want %v", got, want)
	}
}

func TestReconstructCustomSchema(t *testing.T) {
	rows := []chessresults.Record{
		record("SNo", "1", "Name", "Alpha", "Rtg", "2000", "FED", "ENG", "1.Rd", "2w+"),
		record("SNo", "2", "Name", "Bravo", "Rtg", "1900", "FED", "SCO", "1.Rd", "1b-"),
	}
	table := NewResultsTable(nil, rows)
	table.Schema = Schema{StartNumber: "SNo", Name: "Name", Rating: "Rtg",
		Federation: "FED", TournamentURL: chessresults.TournamentURLField}

	rec, err := Reconstruct(table)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if len(rec.Games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(rec.Games))
	}
	g := rec.Games[0]
	if g.Result != "+" || g.White.Fed != "ENG" || g.TournamentURL != "" {
		t.Errorf("unexpected game %+v", g)
	}
}
