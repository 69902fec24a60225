package dice

import (
	"testing"
)

func TestExtractInline(t *testing.T) {
	text := "The bridge creaks. [DICE:1d20+3 dexterity save] Hold steady or fall."

	directives := ExtractInline(text)
	if len(directives) != 1 {
		t.Fatalf("Expected 1 directive, got %d", len(directives))
	}

	d := directives[0]
	if d.Formula != "1d20+3" {
		t.Errorf("Expected formula 1d20+3, got %q", d.Formula)
	}
	if d.Purpose != "dexterity save" {
		t.Errorf("Expected purpose %q, got %q", "dexterity save", d.Purpose)
	}
	if text[d.Start:d.End] != "[DICE:1d20+3 dexterity save]" {
		t.Errorf("Span does not cover the directive: %q", text[d.Start:d.End])
	}
}

func TestExtractInlineMultiple(t *testing.T) {
	text := "[DICE:1d20+5 attack] and then [DICE:2d6+3 damage]"

	directives := ExtractInline(text)
	if len(directives) != 2 {
		t.Fatalf("Expected 2 directives, got %d", len(directives))
	}
	if directives[0].Purpose != "attack" || directives[1].Purpose != "damage" {
		t.Errorf("Expected document order, got %q then %q",
			directives[0].Purpose, directives[1].Purpose)
	}
	if directives[0].End > directives[1].Start {
		t.Error("Expected non-overlapping ordered spans")
	}
}

func TestExtractInlineNormalizesFormula(t *testing.T) {
	directives := ExtractInline("[dice: 2D6 + 3 fire damage]")
	if len(directives) != 1 {
		t.Fatalf("Expected 1 directive, got %d", len(directives))
	}
	if directives[0].Formula != "2d6+3" {
		t.Errorf("Expected normalized 2d6+3, got %q", directives[0].Formula)
	}
	if directives[0].Purpose != "fire damage" {
		t.Errorf("Expected purpose %q, got %q", "fire damage", directives[0].Purpose)
	}
}

func TestExtractInlineNone(t *testing.T) {
	if directives := ExtractInline("Nothing to roll here."); directives != nil {
		t.Errorf("Expected nil, got %v", directives)
	}
	// A bracket block without a dice term is not a directive.
	if directives := ExtractInline("[DICE:fireball]"); directives != nil {
		t.Errorf("Expected nil for malformed directive, got %v", directives)
	}
}

func TestExtractInlineEmptyPurpose(t *testing.T) {
	directives := ExtractInline("[DICE:1d6]")
	if len(directives) != 1 {
		t.Fatalf("Expected 1 directive, got %d", len(directives))
	}
	if directives[0].Purpose != "" {
		t.Errorf("Expected empty purpose, got %q", directives[0].Purpose)
	}
}

func TestStripInline(t *testing.T) {
	text := "You spot movement. [DICE:1d20+2 perception check] The shadows shift."

	stripped := StripInline(text)
	expected := "You spot movement. The shadows shift."
	if stripped != expected {
		t.Errorf("StripInline() = %q, expected %q", stripped, expected)
	}

	plain := "No directives at all."
	if result := StripInline(plain); result != plain {
		t.Errorf("Expected pass-through, got %q", result)
	}
}
