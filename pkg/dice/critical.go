package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var diceTermPattern = regexp.MustCompile(`(\d+)d(\d+)`)

// CriticalDamageFormula doubles the dice in a damage formula while
// leaving flat modifiers alone, per the standard critical-hit rule:
// "2d6+3" becomes "4d6+3". Every dice term in the string is doubled, so
// mixed damage like "1d8+2d6+3" becomes "2d8+4d6+3". Unparseable input
// passes through unchanged.
func CriticalDamageFormula(formula string) string {
	cleaned := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(formula), " ", ""))
	if !diceTermPattern.MatchString(cleaned) {
		return formula
	}
	return diceTermPattern.ReplaceAllStringFunc(cleaned, func(term string) string {
		m := diceTermPattern.FindStringSubmatch(term)
		count, err := strconv.Atoi(m[1])
		if err != nil || count < 1 {
			return term
		}
		return fmt.Sprintf("%dd%s", count*2, m[2])
	})
}
