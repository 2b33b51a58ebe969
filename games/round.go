/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package games

import (
	"regexp"
	"strconv"
	"strings"
)

// Color is the side a player had in one round.
type Color int

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "unknown"
	}
}

// OutcomeKind classifies the outcome symbol of a round cell.
type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeWin
	OutcomeLoss
	OutcomeDraw
	// forfeits and any other symbol
	OutcomeOther
)

// RoundToken is a parsed round cell such as "16w1" or "21b½".
type RoundToken struct {
	// Opponent is the opponent's start number.
	Opponent int
	Color    Color
	// Outcome is the result symbol from this player's perspective exactly
	// as printed, or "" when the cell carries none.
	Outcome string
}

// opponent number, color, optional outcome; anything after is ignored
var roundCellRE = regexp.MustCompile(`^(\d+)([wb])(1/2|½|[10+\-])?`)

// ParseRoundCell parses the text of one "<n>.Rd" cell. ok is false for
// empty cells, "nan" placeholders, byes and anything else that does not
// name an opponent.
func ParseRoundCell(text string) (tok RoundToken, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "nan") {
		return RoundToken{}, false
	}

	m := roundCellRE.FindStringSubmatch(text)
	if m == nil {
		return RoundToken{}, false
	}
	opp, err := strconv.Atoi(m[1])
	if err != nil || opp <= 0 {
		return RoundToken{}, false
	}

	tok = RoundToken{Opponent: opp, Color: White, Outcome: m[3]}
	if m[2] == "b" {
		tok.Color = Black
	}

	return tok, true
}

func (tok RoundToken) Kind() OutcomeKind {
	switch tok.Outcome {
	case "":
		return OutcomeNone
	case "1":
		return OutcomeWin
	case "0":
		return OutcomeLoss
	case "½", "1/2":
		return OutcomeDraw
	default:
		return OutcomeOther
	}
}

// CanonicalResult renders the outcome from White's perspective: "1-0",
// "0-1" or "1/2-1/2". Symbols without a canonical form are returned as
// printed.
func (tok RoundToken) CanonicalResult() string {
	switch tok.Kind() {
	case OutcomeDraw:
		return "1/2-1/2"
	case OutcomeWin:
		if tok.Color == Black {
			return "0-1"
		}
		return "1-0"
	case OutcomeLoss:
		if tok.Color == Black {
			return "1-0"
		}
		return "0-1"
	default:
		return tok.Outcome
	}
}
