/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package games

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mikeb26/chessresults-scraper/chessresults"
)

// Schema names the results table columns the reconstructor reads.
type Schema struct {
	StartNumber   string
	Name          string
	Rating        string
	Federation    string
	TournamentURL string
}

// DefaultSchema matches the Polish (lan=3) rendering of chess-results.
var DefaultSchema = Schema{
	StartNumber:   "Nr",
	Name:          "Nazwisko",
	Rating:        "Rg",
	Federation:    "Fed",
	TournamentURL: chessresults.TournamentURLField,
}

func (s Schema) required() []string {
	return []string{s.StartNumber, s.Name, s.Rating, s.Federation}
}

// ResultsTable is the round-results table of a single tournament. Row i
// must belong to the player with start number i+1, which is how
// chess-results orders its cross tables.
type ResultsTable struct {
	Columns []string
	Rows    []chessresults.Record
	Schema  Schema
}

// NewResultsTable builds a table over rows using DefaultSchema. When
// columns is empty the column list is the union of the rows' fields in
// first-seen order.
func NewResultsTable(columns []string,
	rows []chessresults.Record) *ResultsTable {

	if len(columns) == 0 {
		columns = chessresults.UnionKeys(rows)
	}
	return &ResultsTable{
		Columns: columns,
		Rows:    rows,
		Schema:  DefaultSchema,
	}
}

func (t *ResultsTable) hasColumn(label string) bool {
	for _, c := range t.Columns {
		if c == label {
			return true
		}
	}
	return false
}

// MissingColumns returns the schema columns absent from the table.
func (t *ResultsTable) MissingColumns() []string {
	var missing []string
	for _, col := range t.Schema.required() {
		if !t.hasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

var roundColumnRE = regexp.MustCompile(`^(\d+)\.Rd$`)

// RoundCount returns the largest n over the "<n>.Rd" column labels, or 0
// when the table has no round columns.
func (t *ResultsTable) RoundCount() int {
	rounds := 0
	for _, c := range t.Columns {
		m := roundColumnRE.FindStringSubmatch(strings.TrimSpace(c))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n > rounds {
			rounds = n
		}
	}
	return rounds
}

// RoundColumn is the label of round r.
func RoundColumn(r int) string {
	return fmt.Sprintf("%d.Rd", r)
}

func fieldText(row chessresults.Record, label string) string {
	v, _ := row.Get(label)
	return strings.TrimSpace(v)
}

func (t *ResultsTable) side(row chessresults.Record, startNum int) Side {
	return Side{
		StartNumber: startNum,
		Fed:         fieldText(row, t.Schema.Federation),
		Name:        fieldText(row, t.Schema.Name),
		Rating:      fieldText(row, t.Schema.Rating),
	}
}

// ParseStartNumber accepts "7" as well as "7.0", which is what start
// numbers look like after a round trip through float-typed CSV columns.
func ParseStartNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%w: %q", ErrBadStartNumber, s)
	}
	return int(f), nil
}

// SplitByTournament splits an aggregated results table, such as a whole
// country's results file, into one table per tournament_url value in
// order of first appearance. Rows without a tournament_url form their own
// table. Each table keeps only the columns that hold a value in at least
// one of its rows, so a tournament published without ratings lacks the
// rating column even when other tournaments of the country have it.
func SplitByTournament(columns []string, rows []chessresults.Record,
	schema Schema) []*ResultsTable {

	if len(columns) == 0 {
		columns = chessresults.UnionKeys(rows)
	}

	var tables []*ResultsTable
	byURL := make(map[string]*ResultsTable)
	for _, row := range rows {
		key, _ := row.Get(schema.TournamentURL)
		t, ok := byURL[key]
		if !ok {
			t = &ResultsTable{Schema: schema}
			byURL[key] = t
			tables = append(tables, t)
		}
		t.Rows = append(t.Rows, row)
	}
	for _, t := range tables {
		t.Columns = presentColumns(columns, t.Rows)
	}

	return tables
}

func presentColumns(columns []string, rows []chessresults.Record) []string {
	var out []string
	for _, col := range columns {
		for _, row := range rows {
			if _, ok := row.Get(col); ok {
				out = append(out, col)
				break
			}
		}
	}
	return out
}
