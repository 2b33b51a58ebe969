/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package games

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Side is one player of a game as listed in the results table.
type Side struct {
	StartNumber int
	Fed         string
	Name        string
	Rating      string
}

// GameRecord is a single game reconstructed from a results table.
type GameRecord struct {
	Round int
	White Side
	Black Side
	// Result from White's perspective: "1-0", "0-1", "1/2-1/2", or the
	// symbol printed on the site when it has no canonical form.
	Result        string
	TournamentURL string
}

// GameColumns is the fixed column order of the games CSV.
var GameColumns = []string{
	"Round",
	"WhiteStartNumber",
	"WhiteFed",
	"WhiteName",
	"WhiteRating",
	"BlackStartNumber",
	"BlackFed",
	"BlackName",
	"BlackRating",
	"Result",
	"tournament_url",
}

// Row renders g in GameColumns order.
func (g GameRecord) Row() []string {
	return []string{
		strconv.Itoa(g.Round),
		strconv.Itoa(g.White.StartNumber),
		g.White.Fed,
		g.White.Name,
		g.White.Rating,
		strconv.Itoa(g.Black.StartNumber),
		g.Black.Fed,
		g.Black.Name,
		g.Black.Rating,
		g.Result,
		g.TournamentURL,
	}
}

// GameFromRow is the inverse of Row.
func GameFromRow(row []string) (GameRecord, error) {
	if len(row) != len(GameColumns) {
		return GameRecord{}, fmt.Errorf("expected %d columns, got %d",
			len(GameColumns), len(row))
	}

	var g GameRecord
	var err error
	if g.Round, err = strconv.Atoi(strings.TrimSpace(row[0])); err != nil {
		return GameRecord{}, fmt.Errorf("bad round %q: %w", row[0], err)
	}
	if g.White.StartNumber, err = ParseStartNumber(row[1]); err != nil {
		return GameRecord{}, err
	}
	if g.Black.StartNumber, err = ParseStartNumber(row[5]); err != nil {
		return GameRecord{}, err
	}
	g.White.Fed = row[2]
	g.White.Name = row[3]
	g.White.Rating = row[4]
	g.Black.Fed = row[6]
	g.Black.Name = row[7]
	g.Black.Rating = row[8]
	g.Result = row[9]
	g.TournamentURL = row[10]

	return g, nil
}

// SortGames orders games by round and then by White's name, keeping the
// relative order of ties.
func SortGames(games []GameRecord) {
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].Round != games[j].Round {
			return games[i].Round < games[j].Round
		}
		return games[i].White.Name < games[j].White.Name
	})
}

// FormatGames renders games as an aligned plain text table, one line per
// game.
func FormatGames(games []GameRecord) string {
	headers := []string{"Rd", "White", "Rtg", "Result", "Black", "Rtg"}

	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{
			fmt.Sprintf("%d.", g.Round),
			sideLabel(g.White),
			g.White.Rating,
			g.Result,
			sideLabel(g.Black),
			g.Black.Rating,
		})
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len([]rune(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := len([]rune(cell)); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		var line strings.Builder
		for i, cell := range cells {
			line.WriteString(cell)
			line.WriteString(strings.Repeat(" ", colWidths[i]-len([]rune(cell))+2))
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteString("\n")
	}

	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}

	return sb.String()
}

func sideLabel(s Side) string {
	if s.Fed == "" {
		return fmt.Sprintf("%v (%d)", s.Name, s.StartNumber)
	}
	return fmt.Sprintf("%v (%d, %v)", s.Name, s.StartNumber, s.Fed)
}
