/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package chessresults

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func TestDetectColumnsPrimary(t *testing.T) {
	doc := mustDoc(t, `<table class="CRs1">
<tr class="CRng1b"><td>Nr</td><td>Nazwisko</td><td>Rg</td><td>Fed</td><td>1.Rd</td></tr>
<tr class="CRng1"><td>1</td><td>Kowalski, Jan</td><td>2100</td><td>POL</td><td>2w1</td></tr>
</table>`)

	cm := DetectColumns(doc.Selection)
	want := []string{"Nr", "Nazwisko", "Rg", "Fed", "1.Rd"}
	if !reflect.DeepEqual(cm.Labels(), want) {
		t.Fatalf("labels = %v; want %v", cm.Labels(), want)
	}
	for i, label := range want {
		if idx, ok := cm.Index(label); !ok || idx != i {
			t.Errorf("Index(%q) = %d,%v; want %d", label, idx, ok, i)
		}
	}
}

func TestDetectColumnsFallbackMatchesPrimary(t *testing.T) {
	cells := `<th>Nr</th><th></th><th>Name</th><th>FED</th><th>Rtg</th>`
	primary := mustDoc(t, `<table class="CRs1"><tr class="CRng1b">`+cells+`</tr></table>`)
	fallback := mustDoc(t, `<table class="CRs1"><tr class="CRg1b">`+cells+`</tr></table>`)

	p := DetectColumns(primary.Selection)
	f := DetectColumns(fallback.Selection)
	if !reflect.DeepEqual(p, f) {
		t.Errorf("fallback map %+v differs from primary %+v", f, p)
	}
	if p.Len() != 5 {
		t.Errorf("expected 5 columns, got %d", p.Len())
	}
}

func TestDetectColumnsPrefersPrimary(t *testing.T) {
	doc := mustDoc(t, `<table class="CRs1">
<tr class="CRg1b"><th>Old</th><th>Header</th></tr>
<tr class="CRng1b"><th>Nr</th><th>Name</th></tr>
</table>`)

	cm := DetectColumns(doc.Selection)
	if !reflect.DeepEqual(cm.Labels(), []string{"Nr", "Name"}) {
		t.Errorf("expected primary header to win, got %v", cm.Labels())
	}
}

func TestDetectColumnsBlankLabels(t *testing.T) {
	doc := mustDoc(t, `<table class="CRs1"><tr class="CRng1b">
<td>Rk.</td><td>SNo</td><td>&nbsp;</td><td>Name</td><td>Rtg</td><td> </td><td>Pts.</td>
</tr></table>`)

	cm := DetectColumns(doc.Selection)
	for label, want := range map[string]int{"col_2": 2, "col_5": 5, "Name": 3} {
		if idx, ok := cm.Index(label); !ok || idx != want {
			t.Errorf("Index(%q) = %d,%v; want %d", label, idx, ok, want)
		}
	}
	if cm.Len() != 7 {
		t.Errorf("expected 7 labels, got %d: %v", cm.Len(), cm.Labels())
	}
}

func TestDetectColumnsDuplicateLabelLaterWins(t *testing.T) {
	cm := NewColumnMap([]string{"Nr", "Name", "Pts.", "Name"})
	if idx, _ := cm.Index("Name"); idx != 3 {
		t.Errorf("duplicate label should map to later index, got %d", idx)
	}
	if !reflect.DeepEqual(cm.Labels(), []string{"Nr", "Name", "Pts."}) {
		t.Errorf("unexpected label order %v", cm.Labels())
	}
}

func TestDetectColumnsMissing(t *testing.T) {
	cases := map[string]string{
		"no table":      `<p>Nothing here</p>`,
		"no header row": `<table class="CRs1"><tr class="CRng1"><td>1</td><td>x</td></tr></table>`,
		"other table":   `<table class="CRs2"><tr class="CRng1b"><td>Nr</td></tr></table>`,
	}
	for name, html := range cases {
		t.Run(name, func(t *testing.T) {
			cm := DetectColumns(mustDoc(t, html).Selection)
			if !cm.Empty() {
				t.Errorf("expected empty map, got %v", cm.Labels())
			}
		})
	}
}

func TestDetectColumnsOnTableSelection(t *testing.T) {
	doc := mustDoc(t, `<div><table class="CRs1"><tr class="CRg1b"><th>Nr</th><th>Name</th></tr></table></div>`)

	cm := DetectColumns(doc.Find(TableSelector).First())
	if cm.Len() != 2 {
		t.Errorf("expected detection on the table itself, got %v", cm.Labels())
	}
}

func TestColumnMapLabelsIsCopy(t *testing.T) {
	cm := NewColumnMap([]string{"Nr", "Name"})
	labels := cm.Labels()
	labels[0] = "changed"
	if cm.Labels()[0] != "Nr" {
		t.Errorf("ColumnMap was mutated through Labels()")
	}
}
