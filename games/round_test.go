/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package games

import "testing"

func TestParseRoundCell(t *testing.T) {
	tests := []struct {
		in     string
		wantOk bool
		want   RoundToken
	}{
		{in: "16w1", wantOk: true, want: RoundToken{16, White, "1"}},
		{in: "21b½", wantOk: true, want: RoundToken{21, Black, "½"}},
		{in: "3b1/2", wantOk: true, want: RoundToken{3, Black, "1/2"}},
		{in: " 8w0 ", wantOk: true, want: RoundToken{8, White, "0"}},
		{in: "5w+", wantOk: true, want: RoundToken{5, White, "+"}},
		{in: "5b-", wantOk: true, want: RoundToken{5, Black, "-"}},
		{in: "12w", wantOk: true, want: RoundToken{12, White, ""}},
		{in: "12wx", wantOk: true, want: RoundToken{12, White, ""}},
		{in: "4b1 (forfeit)", wantOk: true, want: RoundToken{4, Black, "1"}},
		{in: "", wantOk: false},
		{in: "   ", wantOk: false},
		{in: "nan", wantOk: false},
		{in: "NaN", wantOk: false},
		{in: "-1", wantOk: false},
		{in: "spw1", wantOk: false},
		{in: "w1", wantOk: false},
		{in: "0w1", wantOk: false},
		{in: "x16w1", wantOk: false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseRoundCell(tc.in)
			if ok != tc.wantOk {
				t.Fatalf("ParseRoundCell(%q) ok = %v; want %v", tc.in, ok, tc.wantOk)
			}
			if ok && got != tc.want {
				t.Errorf("ParseRoundCell(%q) = %+v; want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestRoundTokenKind(t *testing.T) {
	tests := map[string]OutcomeKind{
		"":    OutcomeNone,
		"1":   OutcomeWin,
		"0":   OutcomeLoss,
		"½":   OutcomeDraw,
		"1/2": OutcomeDraw,
		"+":   OutcomeOther,
		"-":   OutcomeOther,
	}
	for outcome, want := range tests {
		tok := RoundToken{Opponent: 1, Outcome: outcome}
		if got := tok.Kind(); got != want {
			t.Errorf("Kind(%q) = %v; want %v", outcome, got, want)
		}
	}
}

func TestCanonicalResult(t *testing.T) {
	tests := []struct {
		color   Color
		outcome string
		want    string
	}{
		{White, "1", "1-0"},
		{White, "0", "0-1"},
		{White, "½", "1/2-1/2"},
		{White, "1/2", "1/2-1/2"},
		{Black, "1", "0-1"},
		{Black, "0", "1-0"},
		{Black, "½", "1/2-1/2"},
		{White, "+", "+"},
		{Black, "-", "-"},
		{Black, "", ""},
	}

	for _, tc := range tests {
		tok := RoundToken{Opponent: 2, Color: tc.color, Outcome: tc.outcome}
		if got := tok.CanonicalResult(); got != tc.want {
			t.Errorf("%v %q: got %q; want %q", tc.color, tc.outcome, got, tc.want)
		}
	}
}

func TestColorString(t *testing.T) {
	if White.String() != "white" || Black.String() != "black" {
		t.Errorf("unexpected color names %v %v", White, Black)
	}
}
