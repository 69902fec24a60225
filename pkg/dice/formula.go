package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultFormula is the safe fallback for input that cannot be parsed.
// The engine feeds a live narration loop, so bad input degrades to a
// plain d20 instead of failing.
const DefaultFormula = "1d20"

// ModifierPlaceholder marks a formula whose modifier must be substituted
// by the caller from the character sheet (e.g. "1d20+modifier").
const ModifierPlaceholder = "modifier"

var (
	formulaPattern   = regexp.MustCompile(`^(\d+)d(\d+)((?:[+-]\d+)*)$`)
	looseDicePattern = regexp.MustCompile(`^(\d+)d(\d+)((?:[+-]\d+)*)`)
	modifierPattern  = regexp.MustCompile(`[+-]\d+`)
)

// Formula is a parsed dice expression: count, die size, and a net
// integer modifier folded from any number of +n/-n terms.
type Formula struct {
	Count    int `json:"count"`
	Sides    int `json:"sides"`
	Modifier int `json:"modifier"`
}

// Parse interprets a dice expression like "2d6+3". It never fails:
// unrecognized input returns the parsed DefaultFormula, and a valid dice
// term with a non-numeric tail (such as "1d20+modifier") keeps the dice
// term and drops the tail.
func Parse(s string) Formula {
	cleaned := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))

	m := formulaPattern.FindStringSubmatch(cleaned)
	if m == nil {
		// Salvage a leading dice term from input like "1d20+dex"
		// or "2d6 fire damage".
		if loose := looseDicePattern.FindStringSubmatch(cleaned); loose != nil {
			m = []string{loose[0], loose[1], loose[2], loose[3]}
		} else {
			return Formula{Count: 1, Sides: 20}
		}
	}

	count, _ := strconv.Atoi(m[1])
	sides, _ := strconv.Atoi(m[2])
	if count < 1 || sides < 1 {
		return Formula{Count: 1, Sides: 20}
	}

	modifier := 0
	for _, term := range modifierPattern.FindAllString(m[3], -1) {
		n, err := strconv.Atoi(term)
		if err != nil {
			continue
		}
		modifier += n
	}

	return Formula{Count: count, Sides: sides, Modifier: modifier}
}

// String renders the formula in normalized form, e.g. "2d6+3", "1d20-1",
// or "3d8" when the modifier is zero.
func (f Formula) String() string {
	if f.Modifier == 0 {
		return fmt.Sprintf("%dd%d", f.Count, f.Sides)
	}
	return fmt.Sprintf("%dd%d%+d", f.Count, f.Sides, f.Modifier)
}

// IsD20 reports whether the formula is a single d20 term, the only shape
// eligible for the advantage/disadvantage reroll rule.
func (f Formula) IsD20() bool {
	return f.Count == 1 && f.Sides == 20
}

// HasPlaceholder reports whether a raw formula string carries the
// unresolved modifier placeholder and still needs character-sheet
// substitution before rolling.
func HasPlaceholder(s string) bool {
	return strings.Contains(strings.ToLower(s), ModifierPlaceholder)
}

// Valid reports whether s matches the strict formula grammar
// <count>d<sides>[(+|-)n]* without salvage or fallback.
func Valid(s string) bool {
	cleaned := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	return formulaPattern.MatchString(cleaned)
}
