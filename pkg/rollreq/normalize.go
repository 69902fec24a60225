package rollreq

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jwebster45206/roll-engine/pkg/dice"
)

var (
	bareIntPattern   = regexp.MustCompile(`^[+-]?\d+$`)
	abilityRefTokens = []string{
		"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma",
		"str", "dex", "con", "int", "wis", "cha",
		"modifier", "mod", "prof", "proficiency",
	}
)

// NormalizeFormula coerces an extracted formula string into the strict
// grammar. Bare integers become a d20 with that modifier, a dice term
// with an unresolved ability reference ("1d20+dex") becomes the
// placeholder form "1d20+modifier" for the caller to substitute from
// the character sheet, and anything unparseable falls back to a plain
// d20.
func NormalizeFormula(s string) string {
	cleaned := strings.ToLower(strings.TrimSpace(s))
	if cleaned == "" {
		return dice.DefaultFormula
	}

	if bareIntPattern.MatchString(cleaned) {
		n, err := strconv.Atoi(strings.TrimPrefix(cleaned, "+"))
		if err != nil || n == 0 {
			return dice.DefaultFormula
		}
		return dice.DefaultFormula + dice.FormatModifier(n)
	}

	// A lone ability name carries no dice term at all.
	for _, tok := range abilityRefTokens {
		if cleaned == tok {
			return dice.DefaultFormula + "+" + dice.ModifierPlaceholder
		}
	}

	if hasAbilityRef(cleaned) {
		base := dice.Parse(cleaned)
		base.Modifier = 0
		return base.String() + "+" + dice.ModifierPlaceholder
	}

	return dice.Parse(cleaned).String()
}

// hasAbilityRef reports whether a formula leans on a symbolic modifier
// instead of a number, e.g. "1d20+dex" or "1d20 + modifier".
func hasAbilityRef(s string) bool {
	for _, tok := range abilityRefTokens {
		if idx := strings.Index(s, tok); idx >= 0 {
			// Only count the token when it follows a sign, so skill
			// words in a purpose fragment do not trigger it.
			for i := idx - 1; i >= 0; i-- {
				switch s[i] {
				case ' ':
					continue
				case '+', '-':
					return true
				}
				break
			}
		}
	}
	return false
}
