package dice

import (
	"testing"
)

func TestRollPlain(t *testing.T) {
	roller := NewRollerWithSource(NewScriptedSource(4, 5))

	result := roller.Roll("2d6+3", Options{Purpose: "damage"})

	if result.Total != 12 {
		t.Errorf("Expected total 12, got %d", result.Total)
	}
	if len(result.Dice) != 2 {
		t.Fatalf("Expected 2 dice, got %d", len(result.Dice))
	}
	if result.Dice[0].Value != 4 || result.Dice[1].Value != 5 {
		t.Errorf("Expected dice [4 5], got [%d %d]", result.Dice[0].Value, result.Dice[1].Value)
	}
	if result.Formula != "2d6+3" {
		t.Errorf("Expected formula 2d6+3, got %q", result.Formula)
	}
	if result.Modifier != 3 {
		t.Errorf("Expected modifier 3, got %d", result.Modifier)
	}
	if result.Purpose != "damage" {
		t.Errorf("Expected purpose damage, got %q", result.Purpose)
	}
	if result.NaturalRoll != 0 {
		t.Errorf("Expected no natural roll for d6, got %d", result.NaturalRoll)
	}
	if result.Critical || result.CriticalMiss {
		t.Error("d6 rolls must never be critical")
	}
	if result.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("Expected a roll ID")
	}
	if result.RolledAt.IsZero() {
		t.Error("Expected a roll timestamp")
	}
}

func TestRollAdvantageKeepsHighest(t *testing.T) {
	roller := NewRollerWithSource(NewScriptedSource(8, 15))

	result := roller.Roll("1d20+2", Options{Advantage: true})

	if result.Total != 17 {
		t.Errorf("Expected total 17 (15+2), got %d", result.Total)
	}
	if len(result.Dice) != 2 {
		t.Fatalf("Expected 2 dice under advantage, got %d", len(result.Dice))
	}
	if !result.Advantage || result.Disadvantage {
		t.Error("Expected advantage to be recorded")
	}
}

func TestRollDisadvantageKeepsLowest(t *testing.T) {
	roller := NewRollerWithSource(NewScriptedSource(8, 15))

	result := roller.Roll("1d20+2", Options{Disadvantage: true})

	if result.Total != 10 {
		t.Errorf("Expected total 10 (8+2), got %d", result.Total)
	}
	if result.Advantage || !result.Disadvantage {
		t.Error("Expected disadvantage to be recorded")
	}
}

func TestRollAdvantageAndDisadvantageCancel(t *testing.T) {
	roller := NewRollerWithSource(NewScriptedSource(8, 15))

	result := roller.Roll("1d20", Options{Advantage: true, Disadvantage: true})

	if len(result.Dice) != 1 {
		t.Fatalf("Expected 1 die when advantage cancels, got %d", len(result.Dice))
	}
	if result.Total != 8 {
		t.Errorf("Expected total 8, got %d", result.Total)
	}
	if result.Advantage || result.Disadvantage {
		t.Error("Canceled advantage must not be recorded on the result")
	}
}

func TestRollAdvantageIgnoredForNonD20(t *testing.T) {
	roller := NewRollerWithSource(NewScriptedSource(3, 4))

	result := roller.Roll("2d6", Options{Advantage: true})

	if len(result.Dice) != 2 {
		t.Fatalf("Expected 2d6 to roll 2 dice, got %d", len(result.Dice))
	}
	if result.Total != 7 {
		t.Errorf("Expected total 7, got %d", result.Total)
	}
	if result.Advantage {
		t.Error("Advantage must not apply to damage dice")
	}
}

// The natural roll is the raw face of the first d20 rolled, even when
// the keep-highest selection discards it.
func TestNaturalRollIsFirstDie(t *testing.T) {
	roller := NewRollerWithSource(NewScriptedSource(8, 20))

	result := roller.Roll("1d20", Options{Advantage: true})

	if result.Total != 20 {
		t.Errorf("Expected advantage to keep the 20, got total %d", result.Total)
	}
	if result.NaturalRoll != 8 {
		t.Errorf("Expected natural roll 8 from the first die, got %d", result.NaturalRoll)
	}
	if result.Critical {
		t.Error("A kept 20 on the second die must not mark a critical")
	}
}

func TestRollCritical(t *testing.T) {
	roller := NewRollerWithSource(NewScriptedSource(20))

	result := roller.Roll("1d20+5", Options{})

	if result.NaturalRoll != 20 {
		t.Errorf("Expected natural 20, got %d", result.NaturalRoll)
	}
	if !result.Critical {
		t.Error("Expected critical on natural 20")
	}
	if result.CriticalMiss {
		t.Error("Natural 20 must not be a critical miss")
	}
	if !result.Dice[0].Critical {
		t.Error("Expected the die itself to carry the critical flag")
	}
	if result.Total != 25 {
		t.Errorf("Expected total 25, got %d", result.Total)
	}
}

func TestRollCriticalMiss(t *testing.T) {
	roller := NewRollerWithSource(NewScriptedSource(1))

	result := roller.Roll("1d20+5", Options{})

	if result.NaturalRoll != 1 {
		t.Errorf("Expected natural 1, got %d", result.NaturalRoll)
	}
	if !result.CriticalMiss {
		t.Error("Expected critical miss on natural 1")
	}
	if result.Critical {
		t.Error("Natural 1 must not be a critical")
	}
}

func TestRollInvalidFormulaFallsBack(t *testing.T) {
	roller := NewRollerWithSource(NewScriptedSource(11))

	result := roller.Roll("swing wildly", Options{})

	if result.Formula != "1d20" {
		t.Errorf("Expected fallback formula 1d20, got %q", result.Formula)
	}
	if result.Total != 11 {
		t.Errorf("Expected total 11, got %d", result.Total)
	}
}

func TestRollNegativeModifierFloor(t *testing.T) {
	roller := NewRollerWithSource(NewScriptedSource(1))

	result := roller.Roll("1d4-3", Options{})

	// Totals may go negative; the engine reports raw arithmetic and
	// leaves clamping to the game layer.
	if result.Total != -2 {
		t.Errorf("Expected total -2, got %d", result.Total)
	}
}

func TestSeededSourceIsDeterministic(t *testing.T) {
	first := NewRollerWithSource(NewSeededSource(42))
	second := NewRollerWithSource(NewSeededSource(42))

	for i := 0; i < 10; i++ {
		a := first.Roll("3d8+1", Options{})
		b := second.Roll("3d8+1", Options{})
		if a.Total != b.Total {
			t.Fatalf("Roll %d differed: %d vs %d", i, a.Total, b.Total)
		}
	}
}

func TestCryptoSourceInRange(t *testing.T) {
	roller := NewRoller()

	for i := 0; i < 200; i++ {
		result := roller.Roll("1d6", Options{})
		if result.Total < 1 || result.Total > 6 {
			t.Fatalf("1d6 rolled %d, out of range", result.Total)
		}
	}
}

func TestScriptedSourceWrapsAround(t *testing.T) {
	roller := NewRollerWithSource(NewScriptedSource(2, 3))

	first := roller.Roll("2d6", Options{})
	second := roller.Roll("2d6", Options{})
	if first.Total != second.Total {
		t.Errorf("Expected the script to wrap, got %d then %d", first.Total, second.Total)
	}
}
