/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package chessresults

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StartListHeading is the h2 text chess-results prints above the start list
// in the Polish (lan=3) rendering.
const StartListHeading = "Lista startowa"

// Structural absence diagnostics. A page returning one of these simply has
// nothing to contribute; callers log it and move on.
var (
	ErrNoSection = errors.New("section not found")
	ErrNoHeader  = errors.New("no header row found")
	ErrNoTable   = errors.New("no " + TableSelector + " table found")
)

// PageOptions controls which part of a page is parsed and how cells are
// read.
type PageOptions struct {
	// Section restricts parsing to the first element matching this CSS
	// selector. Empty means the whole document.
	Section string
	// Heading, when set, must appear in an h2 inside the parsed scope.
	Heading string
	// LinkAware stores anchor targets under <label>_url.
	LinkAware bool
}

var (
	// ResultsPage parses the full results table (art=5).
	ResultsPage = PageOptions{}

	// StartListPage parses the start list in div#F7 of a tournament's main
	// page, keeping player profile links.
	StartListPage = PageOptions{
		Section:   "div#F7",
		Heading:   StartListHeading,
		LinkAware: true,
	}
)

// ParsePage extracts one Record per data row of the page's CRs1 table and
// tags each with sourceID under tournament_url. Header rows, rows with fewer
// than two cells and entirely blank rows are skipped. A missing section,
// heading, header or table yields no records and one of ErrNoSection,
// ErrNoHeader or ErrNoTable.
func ParsePage(doc *goquery.Document, sourceID string,
	opts PageOptions) ([]Record, error) {

	if doc == nil {
		return nil, fmt.Errorf("chessresults: nil document for %v", sourceID)
	}

	scope := doc.Selection
	if opts.Section != "" {
		scope = doc.Find(opts.Section).First()
		if scope.Length() == 0 {
			return nil, fmt.Errorf("%w: %v", ErrNoSection, opts.Section)
		}
	}
	if opts.Heading != "" && !hasHeading(scope, opts.Heading) {
		return nil, fmt.Errorf("%w: no %q heading", ErrNoSection, opts.Heading)
	}

	cm := DetectColumns(scope)
	if cm.Empty() {
		return nil, ErrNoHeader
	}

	table := scope.Find(TableSelector).First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	records := make([]Record, 0)
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if isHeaderRow(row) {
			return
		}
		if row.Find("td").Length() < 2 {
			return
		}

		rec := ExtractRow(row, cm, opts.LinkAware)
		if rec.Blank() {
			return
		}
		rec.Set(TournamentURLField, sourceID)
		records = append(records, rec)
	})

	return records, nil
}

func hasHeading(scope *goquery.Selection, heading string) bool {
	found := false
	scope.Find("h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.Contains(strings.TrimSpace(h.Text()), heading) {
			found = true
			return false
		}
		return true
	})
	return found
}
