package participant

import (
	"testing"

	"github.com/jwebster45206/roll-engine/pkg/condition"
)

func TestModifier(t *testing.T) {
	tests := []struct {
		score    int
		expected int
	}{
		{1, -5}, {3, -4}, {5, -3}, {7, -2}, {8, -1}, {9, -1},
		{10, 0}, {11, 0}, {12, 1}, {14, 2}, {15, 2}, {16, 3},
		{18, 4}, {20, 5}, {30, 10},
	}

	for _, tt := range tests {
		if result := Modifier(tt.score); result != tt.expected {
			t.Errorf("Modifier(%d) = %d, expected %d", tt.score, result, tt.expected)
		}
	}
}

func TestStatsModifierByName(t *testing.T) {
	stats := Stats5e{Strength: 16, Dexterity: 14, Constitution: 12,
		Intelligence: 10, Wisdom: 13, Charisma: 8}

	tests := []struct {
		ability  string
		expected int
	}{
		{"strength", 3},
		{"str", 3},
		{"Dexterity", 2},
		{"DEX", 2},
		{"constitution", 1},
		{"wisdom", 1},
		{"charisma", -1},
		{"luck", 0},
	}

	for _, tt := range tests {
		if result := stats.Modifier(tt.ability); result != tt.expected {
			t.Errorf("Modifier(%q) = %d, expected %d", tt.ability, result, tt.expected)
		}
	}
}

func TestNewParticipant(t *testing.T) {
	p := NewParticipant("pc-1", "Mirela")

	if p.ID != "pc-1" || p.Name != "Mirela" {
		t.Errorf("Unexpected identity: %s %s", p.ID, p.Name)
	}
	if p.Level != 1 {
		t.Errorf("Expected level 1, got %d", p.Level)
	}
	if p.Stats != DefaultStats {
		t.Errorf("Expected flat scores, got %+v", p.Stats)
	}
	if p.AC != 10 || p.HP != 10 || p.MaxHP != 10 {
		t.Errorf("Unexpected defenses: AC %d HP %d/%d", p.AC, p.HP, p.MaxHP)
	}
}

func TestDerivedFormulas(t *testing.T) {
	p := NewParticipant("pc-1", "Mirela")
	p.Level = 5
	p.Stats.Strength = 16
	p.Stats.Dexterity = 14
	p.Weapon = "longsword"

	if f := p.AttackFormula(); f != "1d20+6" {
		t.Errorf("AttackFormula() = %q, expected 1d20+6", f)
	}
	if f := p.DamageFormula(); f != "1d8+3" {
		t.Errorf("DamageFormula() = %q, expected 1d8+3", f)
	}
	if f := p.CriticalDamageFormula(); f != "2d8+3" {
		t.Errorf("CriticalDamageFormula() = %q, expected 2d8+3", f)
	}
	if f := p.InitiativeFormula(); f != "1d20+2" {
		t.Errorf("InitiativeFormula() = %q, expected 1d20+2", f)
	}

	// A rogue with a finesse blade attacks off Dexterity.
	p.Weapon = "rapier"
	p.Stats.Dexterity = 18
	if f := p.AttackFormula(); f != "1d20+7" {
		t.Errorf("AttackFormula() = %q, expected 1d20+7", f)
	}
	if f := p.DamageFormula(); f != "1d8+4" {
		t.Errorf("DamageFormula() = %q, expected 1d8+4", f)
	}
}

func TestConditionManagement(t *testing.T) {
	p := NewParticipant("pc-1", "Mirela")

	p.AddCondition(condition.Condition{Type: condition.Poisoned, Source: "spider bite"})
	if !p.HasCondition(condition.Poisoned) {
		t.Fatal("Expected poisoned after AddCondition")
	}

	// Same type replaces instead of stacking.
	p.AddCondition(condition.Condition{Type: condition.Poisoned, Source: "tainted wine"})
	if len(p.Conditions) != 1 {
		t.Errorf("Expected 1 condition, got %d", len(p.Conditions))
	}
	if p.Conditions[0].Source != "tainted wine" {
		t.Errorf("Expected replacement, got source %q", p.Conditions[0].Source)
	}

	p.RemoveCondition(condition.Poisoned)
	if p.HasCondition(condition.Poisoned) {
		t.Error("Expected poisoned removed")
	}
}

func TestExhaustionManagement(t *testing.T) {
	p := NewParticipant("pc-1", "Mirela")

	p.SetExhaustion(2)
	if level := p.ExhaustionLevel(); level != 2 {
		t.Errorf("Expected level 2, got %d", level)
	}

	// AddCondition with an exhaustion entry goes through the track.
	p.AddCondition(condition.Condition{Type: condition.Exhaustion, Level: 4})
	if level := p.ExhaustionLevel(); level != 4 {
		t.Errorf("Expected level 4, got %d", level)
	}
	count := 0
	for _, c := range p.Conditions {
		if c.Type == condition.Exhaustion {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected a single exhaustion entry, got %d", count)
	}

	p.SetExhaustion(0)
	if p.HasCondition(condition.Exhaustion) {
		t.Error("Expected exhaustion cleared at level 0")
	}
}

func TestRollModifiers(t *testing.T) {
	attacker := NewParticipant("pc-1", "Mirela")
	attacker.AddCondition(condition.Condition{Type: condition.Poisoned})

	outcome := attacker.RollModifiers(condition.RollKindAttack, nil)
	if !outcome.Disadvantage {
		t.Error("Expected a poisoned attacker at disadvantage")
	}

	// The target's conditions fold in. Restrained grants the attacker
	// advantage, which cancels against the poison.
	target := NewParticipant("npc-1", "Bandit")
	target.AddCondition(condition.Condition{Type: condition.Restrained})

	outcome = attacker.RollModifiers(condition.RollKindAttack, target)
	if outcome.Advantage || outcome.Disadvantage {
		t.Error("Expected opposing effects to cancel")
	}
	if !outcome.CanceledOut {
		t.Error("Expected CanceledOut recorded")
	}
}
