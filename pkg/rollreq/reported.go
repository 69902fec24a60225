package rollreq

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Default target numbers used when a request carries none, matching the
// narrator prompt contract.
const (
	DefaultCheckDC = 12
	DefaultSaveDC  = 13
	DefaultAC      = 13
)

// Patterns for a player reporting a roll outcome in prose. Ordered so
// an explicit total beats a bare number: "rolled 1d20+3 = 15" must
// yield 15, not 1.
var reportedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`=\s*(\d+)\b`),
	regexp.MustCompile(`\btotal\s*[:=]?\s*(\d+)\b`),
	regexp.MustCompile(`\bi rolled (?:a |an )?(\d+)\b`),
	regexp.MustCompile(`\brolled[^\d]*(\d+)\b`),
	regexp.MustCompile(`\bgot (?:a |an )?(\d+)\b`),
}

// ParseReportedRoll scans player text for a claimed roll total, e.g.
// "I rolled 15" or "1d20+3 = 14". Returns false when the text reports
// no number at all.
func ParseReportedRoll(text string) (int, bool) {
	lower := strings.ToLower(text)
	for _, re := range reportedPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return n, true
		}
	}
	return 0, false
}

// Followup renders the outcome line for a resolved total against the
// request's target number, for splicing back into narration context.
// Attacks compare against AC, everything with a DC against that, and
// rolls with no target number report the bare total.
func Followup(req Request, total int) string {
	switch {
	case req.Kind == KindAttack:
		ac := req.AC
		if ac == 0 {
			ac = DefaultAC
		}
		return fmt.Sprintf("%s: %d vs AC %d %s", label(req), total, ac, hitOrMiss(total >= ac))
	case req.DC > 0:
		return fmt.Sprintf("%s: %d vs DC %d %s", label(req), total, req.DC, successOrFailure(total >= req.DC))
	case req.Kind == KindSave:
		return fmt.Sprintf("%s: %d vs DC %d %s", label(req), total, DefaultSaveDC, successOrFailure(total >= DefaultSaveDC))
	case req.Kind == KindCheck || req.Kind == KindSkillCheck:
		return fmt.Sprintf("%s: %d vs DC %d %s", label(req), total, DefaultCheckDC, successOrFailure(total >= DefaultCheckDC))
	default:
		return fmt.Sprintf("%s: %d", label(req), total)
	}
}

func label(req Request) string {
	if req.Purpose != "" {
		return req.Purpose
	}
	return string(req.Kind)
}

func hitOrMiss(hit bool) string {
	if hit {
		return "(hit)"
	}
	return "(miss)"
}

func successOrFailure(ok bool) string {
	if ok {
		return "(success)"
	}
	return "(failure)"
}
