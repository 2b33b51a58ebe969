/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package chessresults

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// TableSelector matches the player/results table on chess-results pages.
	TableSelector = "table.CRs1"

	// Header rows are marked with one of two classes depending on the page
	// type; results pages use the first, start lists the second.
	HeaderPrimary  = "CRng1b"
	HeaderFallback = "CRg1b"
)

// ColumnMap maps header labels to zero-based cell indices in header order.
// It is built once per page by DetectColumns and is read-only afterwards.
type ColumnMap struct {
	labels []string
	index  map[string]int
}

// NewColumnMap builds a ColumnMap from header cell texts. Blank labels are
// replaced by col_<position>. A repeated non-blank label keeps its first
// position in Labels() but maps to the later index.
func NewColumnMap(headers []string) ColumnMap {
	cm := ColumnMap{index: make(map[string]int, len(headers))}
	for i, h := range headers {
		label := strings.TrimSpace(h)
		if label == "" {
			label = fmt.Sprintf("col_%d", i)
		}
		if _, ok := cm.index[label]; !ok {
			cm.labels = append(cm.labels, label)
		}
		cm.index[label] = i
	}

	return cm
}

// Len returns the number of distinct labels.
func (cm ColumnMap) Len() int {
	return len(cm.labels)
}

// Empty reports whether no header row was found.
func (cm ColumnMap) Empty() bool {
	return len(cm.labels) == 0
}

// Labels returns the labels in header order.
func (cm ColumnMap) Labels() []string {
	out := make([]string, len(cm.labels))
	copy(out, cm.labels)
	return out
}

// Index returns the cell index for label.
func (cm ColumnMap) Index(label string) (int, bool) {
	idx, ok := cm.index[label]
	return idx, ok
}

// DetectColumns locates the header row of the CRs1 table within sel and
// returns its column map. sel may be a whole document, a page section or
// the table itself. The primary header marker is tried first, then the
// fallback; an empty map means the page has no usable table.
func DetectColumns(sel *goquery.Selection) ColumnMap {
	header := findHeaderRow(sel, HeaderPrimary)
	if header.Length() == 0 {
		header = findHeaderRow(sel, HeaderFallback)
	}
	if header.Length() == 0 {
		return ColumnMap{}
	}

	var headers []string
	header.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, cell.Text())
	})

	return NewColumnMap(headers)
}

func findHeaderRow(sel *goquery.Selection, marker string) *goquery.Selection {
	if sel.Is(TableSelector) {
		return sel.Find("tr." + marker).First()
	}
	return sel.Find(TableSelector + " tr." + marker).First()
}

func isHeaderRow(row *goquery.Selection) bool {
	return row.HasClass(HeaderPrimary) || row.HasClass(HeaderFallback)
}
