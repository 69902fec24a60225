package rollreq

import (
	"testing"
)

func TestExtractStructuredBlock(t *testing.T) {
	text := `The goblin snarls and lunges at you!

[ROLL_REQUESTS]
[{"type":"attack","formula":"1d20+5","purpose":"Shortsword attack","ac":14},
 {"type":"damage","formula":"1d6+3","purpose":"Shortsword damage"}]`

	reqs := Extract(text)
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d: %+v", len(reqs), reqs)
	}
	for i, r := range reqs {
		if r.Confidence != 1.0 {
			t.Errorf("request %d confidence = %v, want 1.0", i, r.Confidence)
		}
		if r.Origin != OriginStructured {
			t.Errorf("request %d origin = %q, want structured", i, r.Origin)
		}
	}
	if reqs[0].Kind != KindAttack || reqs[0].AC != 14 {
		t.Errorf("first request = %+v, want attack vs AC 14", reqs[0])
	}
	if reqs[1].Kind != KindDamage || reqs[1].Formula != "1d6+3" {
		t.Errorf("second request = %+v, want 1d6+3 damage", reqs[1])
	}
}

func TestExtractStructuredSuppressesHeuristics(t *testing.T) {
	// The prose would trigger the attack and initiative heuristics, but
	// a parseable block means heuristics never run.
	text := `Combat begins! Roll initiative, then make an attack roll.

[ROLL_REQUESTS]
[{"type":"initiative","formula":"1d20+2","purpose":"Roll initiative"}]`

	reqs := Extract(text)
	if len(reqs) != 1 {
		t.Fatalf("expected exactly the structured request, got %d: %+v", len(reqs), reqs)
	}
	if reqs[0].Origin != OriginStructured || reqs[0].Kind != KindInitiative {
		t.Errorf("got %+v, want structured initiative", reqs[0])
	}
}

func TestExtractMalformedBlockFallsBackToHeuristics(t *testing.T) {
	text := `Make an attack roll against AC 15.

[ROLL_REQUESTS]
this is not json`

	reqs := Extract(text)
	if len(reqs) != 1 {
		t.Fatalf("expected 1 heuristic request, got %d: %+v", len(reqs), reqs)
	}
	if reqs[0].Origin != OriginHeuristic || reqs[0].Kind != KindAttack {
		t.Errorf("got %+v, want heuristic attack", reqs[0])
	}
}

func TestExtractAttackWithAC(t *testing.T) {
	reqs := Extract("Make an attack roll against AC 15.")
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d: %+v", len(reqs), reqs)
	}
	r := reqs[0]
	if r.Kind != KindAttack {
		t.Errorf("kind = %q, want attack", r.Kind)
	}
	if r.AC != 15 {
		t.Errorf("ac = %d, want 15", r.AC)
	}
}

func TestExtractSkillCheckWithDC(t *testing.T) {
	reqs := Extract("Roll for Perception (DC 14).")
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d: %+v", len(reqs), reqs)
	}
	r := reqs[0]
	if r.Kind != KindSkillCheck {
		t.Errorf("kind = %q, want skill_check", r.Kind)
	}
	if r.Purpose != "Perception check" {
		t.Errorf("purpose = %q, want Perception check", r.Purpose)
	}
	if r.DC != 14 {
		t.Errorf("dc = %d, want 14", r.DC)
	}
}

func TestExtractEmptyText(t *testing.T) {
	for _, text := range []string{"", "The tavern is warm and loud.", "You walk north."} {
		if reqs := Extract(text); len(reqs) != 0 {
			t.Errorf("Extract(%q) = %+v, want none", text, reqs)
		}
	}
}

func TestExtractDeduplicates(t *testing.T) {
	// Both sentences produce the same (formula, purpose) pair.
	text := "Roll for stealth. I need a stealth check now."
	reqs := Extract(text)
	if len(reqs) != 1 {
		t.Fatalf("expected deduplicated single request, got %d: %+v", len(reqs), reqs)
	}
}

func TestExtractOrderedByConfidence(t *testing.T) {
	text := "Roll initiative! Then roll 2d6 for bludgeoning."
	reqs := Extract(text)
	if len(reqs) < 2 {
		t.Fatalf("expected 2 requests, got %d: %+v", len(reqs), reqs)
	}
	for i := 1; i < len(reqs); i++ {
		if reqs[i].Confidence > reqs[i-1].Confidence {
			t.Errorf("requests out of confidence order: %+v", reqs)
		}
	}
	if reqs[0].Kind != KindInitiative {
		t.Errorf("highest-confidence request = %+v, want initiative", reqs[0])
	}
}

func TestExtractThresholdFilters(t *testing.T) {
	text := "Roll 2d6 for bludgeoning."
	if reqs := ExtractWithThreshold(text, 0.6); len(reqs) != 1 {
		t.Fatalf("catch-all at 0.7 should survive a 0.6 cutoff, got %+v", reqs)
	}
	if reqs := ExtractWithThreshold(text, 0.8); len(reqs) != 0 {
		t.Errorf("catch-all at 0.7 should be filtered by a 0.8 cutoff, got %+v", reqs)
	}
}

func TestExtractIdempotent(t *testing.T) {
	text := "Make an attack roll against AC 15, then roll damage (2d6+3)."
	first := Extract(text)
	second := Extract(text)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("request %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "text before block is kept",
			input:    "The goblin attacks!\n\n[ROLL_REQUESTS]\n[{\"type\":\"attack\"}]\nIf you hit, it dies.",
			expected: "The goblin attacks!",
		},
		{
			name:     "no block passes through",
			input:    "The tavern is warm and loud.",
			expected: "The tavern is warm and loud.",
		},
		{
			name:     "empty text",
			input:    "",
			expected: "",
		},
		{
			name:     "block at start leaves nothing",
			input:    "[ROLL_REQUESTS]\n[]",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input); got != tt.expected {
				t.Errorf("Truncate() = %q, want %q", got, tt.expected)
			}
		})
	}
}
