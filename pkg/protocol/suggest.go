package protocol

// SuggestCorrection returns a best-effort rewrite of the message that
// addresses the single highest-severity issue in the report. The result
// is advisory text for the caller to show or feed back to the narrator,
// never applied silently. A clean report returns the text unchanged.
func SuggestCorrection(text string, report Report) string {
	worst := worstIssue(report.Issues)
	if worst == nil {
		return text
	}

	switch worst.Kind {
	case IssueMissingAttackRoll:
		return "Make an attack roll (AC 13) first. " + text
	case IssueMissingInitiative:
		return "Roll initiative (1d20+dex)! " + text
	case IssueMissingArmorClass:
		if loc := attackCue.FindStringIndex(text); loc != nil {
			return text[:loc[1]] + " (AC 13)" + text[loc[1]:]
		}
		return text + " (AC 13)"
	case IssueMissingDifficultyClass:
		return text + " (DC 12)"
	default:
		return text
	}
}

func worstIssue(issues []Issue) *Issue {
	var worst *Issue
	for i := range issues {
		if worst == nil || severityRank[issues[i].Severity] > severityRank[worst.Severity] {
			worst = &issues[i]
		}
	}
	return worst
}
