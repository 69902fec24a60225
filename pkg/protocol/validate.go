// Package protocol checks a narrator message against the table-rule
// sequencing contract: initiative opens combat, attacks precede damage,
// and every attack or check names its target number. Findings are
// advisory; the session layer decides whether to surface them or ask
// the narrator to try again.
package protocol

import (
	"regexp"
	"strings"
)

// Severity ranks an issue. Critical issues break the resolution
// sequence; high issues leave a roll without a target number; medium
// and low are narration-quality nits.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

var severityRank = map[Severity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
}

// IssueKind identifies which protocol rule a message broke.
type IssueKind string

const (
	IssueMissingAttackRoll      IssueKind = "missing_attack_roll"
	IssueMissingArmorClass      IssueKind = "missing_armor_class"
	IssueMissingDifficultyClass IssueKind = "missing_difficulty_class"
	IssueMissingDamageModifier  IssueKind = "missing_damage_modifier"
	IssueMissingInitiative      IssueKind = "missing_initiative"
)

// Issue is one finding, with a concrete suggestion the caller can show
// or apply. Issues never block execution by themselves.
type Issue struct {
	Kind       IssueKind `json:"kind"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
}

// Report is the outcome of validating one narrator message. IsValid
// reflects Issues only; Warnings are informational.
type Report struct {
	IsValid  bool    `json:"is_valid"`
	Issues   []Issue `json:"issues"`
	Warnings []Issue `json:"warnings"`
}

// Detection cues. These mirror the extractor's phrasing vocabulary but
// stay local so the validator remains standalone.
var (
	attackCue     = regexp.MustCompile(`(?i)\b(?:make an attack(?: roll)?|attack roll|roll to hit|roll an attack|spell attack)\b`)
	damageCue     = regexp.MustCompile(`(?i)\b(?:roll(?: the)? damage|damage roll|roll \d+d\d+[^.]{0,20}damage)\b`)
	checkCue      = regexp.MustCompile(`(?i)\b(?:[a-z]+ check|roll for [a-z]+|ability check|skill check)\b`)
	saveCue       = regexp.MustCompile(`(?i)\b(?:saving throw|[a-z]+ save)\b`)
	initiativeCue = regexp.MustCompile(`(?i)\b(?:roll (?:for )?initiative|initiative roll|initiative \(|initiative!)`)
	combatCue     = regexp.MustCompile(`(?i)\b(?:combat begins|combat starts|battle begins|initiative|attacks? you|lunges at you|draws? (?:his|her|their|its) weapon)\b`)

	acCue       = regexp.MustCompile(`(?i)\b(?:ac|armou?r class) ?:? ?\d+\b`)
	dcCue       = regexp.MustCompile(`(?i)\b(?:dc|difficulty class) ?:? ?\d+\b`)
	modifierCue = regexp.MustCompile(`(?i)(?:[+-] ?\d+|\b(?:str|dex|con|int|wis|cha|strength|dexterity|constitution|intelligence|wisdom|charisma|modifier)\b)`)
)

// Validate checks one narrator message for sequencing and completeness.
// It never errors: garbled text simply matches no cue and comes back
// valid.
func Validate(text string) Report {
	report := Report{Issues: []Issue{}, Warnings: []Issue{}}

	damageLoc := damageCue.FindStringIndex(text)
	attackLoc := attackCue.FindStringIndex(text)

	// Damage may only be requested once an attack roll has resolved,
	// which within a single message means the attack ask comes first.
	if damageLoc != nil && (attackLoc == nil || attackLoc[0] > damageLoc[0]) {
		report.Issues = append(report.Issues, Issue{
			Kind:       IssueMissingAttackRoll,
			Severity:   SeverityCritical,
			Message:    "damage roll requested without resolving an attack roll first",
			Suggestion: "request an attack roll against the target's AC before asking for damage",
		})
	}

	if attackLoc != nil && !acCue.MatchString(text) {
		report.Issues = append(report.Issues, Issue{
			Kind:       IssueMissingArmorClass,
			Severity:   SeverityHigh,
			Message:    "attack roll requested without a target AC",
			Suggestion: "state the target's armor class, e.g. \"(AC 13)\"",
		})
	}

	hasDC := dcCue.MatchString(text)
	if hasCheckCue(text) && !hasDC {
		report.Issues = append(report.Issues, Issue{
			Kind:       IssueMissingDifficultyClass,
			Severity:   SeverityHigh,
			Message:    "ability or skill check requested without a DC",
			Suggestion: "state the difficulty class, e.g. \"(DC 12)\"",
		})
	}
	if saveCue.MatchString(text) && !hasDC {
		report.Issues = append(report.Issues, Issue{
			Kind:       IssueMissingDifficultyClass,
			Severity:   SeverityHigh,
			Message:    "saving throw requested without a DC",
			Suggestion: "state the difficulty class, e.g. \"(DC 13)\"",
		})
	}

	if damageLoc != nil && !modifierCue.MatchString(text) {
		report.Warnings = append(report.Warnings, Issue{
			Kind:       IssueMissingDamageModifier,
			Severity:   SeverityMedium,
			Message:    "damage roll has no ability modifier or numeric bonus",
			Suggestion: "include the damage modifier, e.g. \"2d6+3\"",
		})
	}

	if combatCue.MatchString(text) && !initiativeCue.MatchString(text) {
		report.Issues = append(report.Issues, Issue{
			Kind:       IssueMissingInitiative,
			Severity:   SeverityCritical,
			Message:    "combat has started without an initiative roll",
			Suggestion: "request initiative before resolving any combat action, e.g. \"Roll initiative (1d20+dex)!\"",
		})
	}

	report.IsValid = len(report.Issues) == 0
	return report
}

// hasCheckCue reports whether the text asks for an ability or skill
// check. "roll for initiative" and "roll for damage" share the surface
// shape of "roll for <skill>" and are excluded here; they belong to
// other rules.
func hasCheckCue(text string) bool {
	for _, m := range checkCue.FindAllString(text, -1) {
		lower := strings.ToLower(m)
		if strings.Contains(lower, "initiative") ||
			strings.Contains(lower, "damage") ||
			strings.Contains(lower, "attack") {
			continue
		}
		return true
	}
	return false
}
