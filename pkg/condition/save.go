package condition

import (
	"fmt"

	"github.com/jwebster45206/roll-engine/pkg/dice"
)

// DefaultSaveDC applies when a condition carries no save DC of its own.
const DefaultSaveDC = 10

// RollSave attempts a saving throw to end one active condition. The
// save is a d20 plus the caller's modifier against the condition's
// SaveDC, with the actor's full condition set applied to the roll: an
// exhausted creature at level 3 saves at disadvantage, a restrained one
// auto-fails the Dexterity save entirely.
//
// On success the condition is removed from the returned set. When the
// condition is not active there is nothing to escape: passed is true,
// no dice are rolled, and the set comes back unchanged.
func RollSave(active []Condition, target Type, kind RollKind, modifier int, roller *dice.Roller) (bool, dice.Result, []Condition) {
	idx := -1
	for i, c := range active {
		if c.Type == target {
			idx = i
			break
		}
	}
	if idx == -1 {
		return true, dice.Result{}, active
	}

	if roller == nil {
		roller = dice.NewRoller()
	}

	outcome := Resolve(active, kind, ResolveOptions{})
	result := roller.Roll(fmt.Sprintf("1d20%s", dice.FormatModifier(modifier)), dice.Options{
		Advantage:    outcome.Advantage,
		Disadvantage: outcome.Disadvantage,
		Purpose:      fmt.Sprintf("save vs %s", target),
	})

	dc := active[idx].SaveDC
	if dc <= 0 {
		dc = DefaultSaveDC
	}

	passed := !outcome.AutoFail && result.Total >= dc
	if !passed {
		return false, result, active
	}

	remaining := make([]Condition, 0, len(active)-1)
	remaining = append(remaining, active[:idx]...)
	remaining = append(remaining, active[idx+1:]...)
	return true, result, remaining
}
