/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package chessresults

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/chessresults-scraper/internal"
)

// SearchPageSize is the largest number of rows the tournament search form
// returns; a full page means the date window has to be narrowed.
const SearchPageSize = 2000

// TournamentRef is one row of the tournament search results.
type TournamentRef struct {
	Name    string
	Country string
	// raw YYYY/MM/DD text as shown by the site
	StartDate string
	EndDate   string
	// parsed dates; zero when the site shows a bogus date
	Start time.Time
	End   time.Time
	// relative link to the tournament page, empty if the row has none
	URL string
}

// ParseSearchResults extracts tournaments from a rendered search results
// page (table.CRs2). The first row carrying td cells is the header.
func ParseSearchResults(doc *goquery.Document) []TournamentRef {
	var refs []TournamentRef

	rows := doc.Find("table.CRs2 tr").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("td").Length() > 0
	})
	rows.Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cols := row.Find("td")
		// 0=No, 1=Name, 2=Country, 5=Start, 6=End
		if cols.Length() < 7 {
			return
		}

		ref := TournamentRef{
			Name:      internal.NormalizeName(cols.Eq(1).Text()),
			Country:   strings.TrimSpace(cols.Eq(2).Text()),
			StartDate: strings.TrimSpace(cols.Eq(5).Text()),
			EndDate:   strings.TrimSpace(cols.Eq(6).Text()),
		}
		if href, ok := cols.Eq(1).Find("a").First().Attr("href"); ok {
			ref.URL = href
		}
		ref.Start = parseSearchDate(ref.StartDate)
		ref.End = parseSearchDate(ref.EndDate)

		refs = append(refs, ref)
	})

	return refs
}

// ParseSearchResultsReader is ParseSearchResults over raw HTML, such as a
// search results page saved from a browser.
func ParseSearchResultsReader(r io.Reader) ([]TournamentRef, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return ParseSearchResults(doc), nil
}

func parseSearchDate(s string) time.Time {
	t, err := internal.ParseDateOrZero(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// NextSearchEnd decides whether another search window is needed after a
// query returned refs. If the page was full, the next window ends one day
// before the last valid end date seen. ok is false when the range is
// exhausted or no row carries a usable date.
func NextSearchEnd(refs []TournamentRef) (end time.Time, ok bool) {
	if len(refs) < SearchPageSize {
		return time.Time{}, false
	}
	for i := len(refs) - 1; i >= 0; i-- {
		if !refs[i].End.IsZero() {
			return refs[i].End.AddDate(0, 0, -1), true
		}
	}
	return time.Time{}, false
}

// FormatSearchDate renders t the way the search form's date inputs expect.
func FormatSearchDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// GroupURLsByCountry returns each country's distinct, non-empty tournament
// URLs in first-seen order.
func GroupURLsByCountry(refs []TournamentRef) map[string][]string {
	out := make(map[string][]string)
	seen := make(map[string]bool)
	for _, ref := range refs {
		if ref.URL == "" {
			continue
		}
		key := ref.Country + "\x00" + ref.URL
		if seen[key] {
			continue
		}
		seen[key] = true
		out[ref.Country] = append(out[ref.Country], ref.URL)
	}
	return out
}

// SortedCountries returns the keys of a country grouping in lexical order.
func SortedCountries[T any](byCountry map[string]T) []string {
	countries := make([]string, 0, len(byCountry))
	for c := range byCountry {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	return countries
}
