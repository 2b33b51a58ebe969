/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package chessresults

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractRow builds a Record from the td cells of row according to cm. Cells
// beyond the end of a short row are recorded as absent. In link-aware mode a
// cell containing an anchor yields the anchor text under the label and its
// href under label+"_url".
func ExtractRow(row *goquery.Selection, cm ColumnMap, linkAware bool) Record {
	var rec Record
	cells := row.Find("td")

	for _, label := range cm.labels {
		idx := cm.index[label]
		if idx >= cells.Length() {
			rec.SetAbsent(label)
			continue
		}

		cell := cells.Eq(idx)
		if linkAware {
			if a := cell.Find("a").First(); a.Length() > 0 {
				href, _ := a.Attr("href")
				rec.Set(label, strings.TrimSpace(a.Text()))
				rec.Set(label+URLSuffix, href)
				continue
			}
		}
		rec.Set(label, strings.TrimSpace(cell.Text()))
	}

	return rec
}
