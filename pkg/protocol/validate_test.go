package protocol

import (
	"strings"
	"testing"
)

func issueKinds(issues []Issue) []IssueKind {
	kinds := make([]IssueKind, 0, len(issues))
	for _, i := range issues {
		kinds = append(kinds, i.Kind)
	}
	return kinds
}

func TestValidateDamageWithoutAttack(t *testing.T) {
	report := Validate("Roll damage")
	if report.IsValid {
		t.Error("damage with no attack should be invalid")
	}
	if len(report.Issues) != 1 {
		t.Fatalf("expected exactly 1 issue, got %v", issueKinds(report.Issues))
	}
	issue := report.Issues[0]
	if issue.Kind != IssueMissingAttackRoll {
		t.Errorf("kind = %q, want missing_attack_roll", issue.Kind)
	}
	if issue.Severity != SeverityCritical {
		t.Errorf("severity = %q, want critical", issue.Severity)
	}
}

func TestValidateDamageAfterAttack(t *testing.T) {
	report := Validate("Make an attack roll (AC 14). On a hit, roll damage (2d6+3).")
	for _, i := range report.Issues {
		if i.Kind == IssueMissingAttackRoll {
			t.Errorf("attack precedes damage, should not flag: %+v", i)
		}
	}
	if !report.IsValid {
		t.Errorf("expected valid, got issues %v", issueKinds(report.Issues))
	}
}

func TestValidateDamageBeforeAttack(t *testing.T) {
	report := Validate("Roll damage (2d6+3), then make an attack roll (AC 14).")
	found := false
	for _, i := range report.Issues {
		if i.Kind == IssueMissingAttackRoll {
			found = true
		}
	}
	if !found {
		t.Errorf("damage before attack should flag missing_attack_roll, got %v", issueKinds(report.Issues))
	}
}

func TestValidateAttackWithoutAC(t *testing.T) {
	report := Validate("The orc closes in. Make an attack roll.")
	if report.IsValid {
		t.Error("attack without AC should be invalid")
	}
	kinds := issueKinds(report.Issues)
	if len(kinds) != 1 || kinds[0] != IssueMissingArmorClass {
		t.Errorf("issues = %v, want [missing_armor_class]", kinds)
	}
	if report.Issues[0].Severity != SeverityHigh {
		t.Errorf("severity = %q, want high", report.Issues[0].Severity)
	}
}

func TestValidateCheckWithoutDC(t *testing.T) {
	report := Validate("Make a perception check.")
	kinds := issueKinds(report.Issues)
	if len(kinds) != 1 || kinds[0] != IssueMissingDifficultyClass {
		t.Errorf("issues = %v, want [missing_difficulty_class]", kinds)
	}
}

func TestValidateSaveWithoutDC(t *testing.T) {
	report := Validate("Make a wisdom saving throw.")
	kinds := issueKinds(report.Issues)
	if len(kinds) != 1 || kinds[0] != IssueMissingDifficultyClass {
		t.Errorf("issues = %v, want [missing_difficulty_class]", kinds)
	}
}

func TestValidateCheckWithDC(t *testing.T) {
	report := Validate("Make a perception check (DC 14).")
	if !report.IsValid {
		t.Errorf("check with DC should be valid, got %v", issueKinds(report.Issues))
	}
}

func TestValidateDamageModifierWarning(t *testing.T) {
	report := Validate("Make an attack roll (AC 13). Then roll damage.")
	if !report.IsValid {
		t.Errorf("warnings must not affect validity, got issues %v", issueKinds(report.Issues))
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Kind != IssueMissingDamageModifier {
		t.Errorf("warnings = %v, want [missing_damage_modifier]", issueKinds(report.Warnings))
	}
	if report.Warnings[0].Severity != SeverityMedium {
		t.Errorf("severity = %q, want medium", report.Warnings[0].Severity)
	}
}

func TestValidateCombatWithoutInitiative(t *testing.T) {
	report := Validate("Combat begins!")
	if report.IsValid {
		t.Error("combat start without initiative should be invalid")
	}
	kinds := issueKinds(report.Issues)
	if len(kinds) != 1 || kinds[0] != IssueMissingInitiative {
		t.Errorf("issues = %v, want [missing_initiative]", kinds)
	}
	if report.Issues[0].Severity != SeverityCritical {
		t.Errorf("severity = %q, want critical", report.Issues[0].Severity)
	}
}

func TestValidateCombatWithInitiative(t *testing.T) {
	report := Validate("Combat begins! Roll initiative (1d20+dex)")
	if !report.IsValid {
		t.Errorf("expected valid, got %v", issueKinds(report.Issues))
	}
}

func TestValidatePlainNarration(t *testing.T) {
	texts := []string{
		"",
		"The tavern is warm, and an old bard tunes a battered lute.",
		"You find a dusty key beneath the floorboards.",
	}
	for _, text := range texts {
		report := Validate(text)
		if !report.IsValid || len(report.Warnings) != 0 {
			t.Errorf("Validate(%q) = %+v, want clean", text, report)
		}
	}
}

func TestValidateIdempotent(t *testing.T) {
	text := "Roll damage"
	first := Validate(text)
	second := Validate(text)
	if len(first.Issues) != len(second.Issues) || first.IsValid != second.IsValid {
		t.Errorf("validation differs between runs: %+v vs %+v", first, second)
	}
}

func TestSuggestCorrection(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		contains string
	}{
		{
			name:     "missing attack roll prepends the ask",
			text:     "Roll damage",
			contains: "Make an attack roll (AC 13) first.",
		},
		{
			name:     "missing initiative prepends the ask",
			text:     "Combat begins!",
			contains: "Roll initiative (1d20+dex)!",
		},
		{
			name:     "missing AC qualifies the attack phrase",
			text:     "Make an attack roll.",
			contains: "Make an attack roll (AC 13)",
		},
		{
			name:     "missing DC appends a placeholder",
			text:     "Make a stealth check.",
			contains: "(DC 12)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Validate(tt.text)
			got := SuggestCorrection(tt.text, report)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("SuggestCorrection(%q) = %q, want it to contain %q", tt.text, got, tt.contains)
			}
		})
	}
}

func TestSuggestCorrectionCleanReport(t *testing.T) {
	text := "The road winds through quiet hills."
	if got := SuggestCorrection(text, Validate(text)); got != text {
		t.Errorf("clean report should return text unchanged, got %q", got)
	}
}

func TestSuggestCorrectionPicksHighestSeverity(t *testing.T) {
	// Damage-before-attack (critical) and check-without-DC (high) in one
	// message: the rewrite must address the critical issue.
	text := "Roll damage, and make a perception check."
	got := SuggestCorrection(text, Validate(text))
	if !strings.Contains(got, "Make an attack roll (AC 13) first.") {
		t.Errorf("expected the critical issue addressed, got %q", got)
	}
}
