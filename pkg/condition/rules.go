package condition

import (
	"fmt"
	"strings"
)

// Effect is one condition's contribution to a roll. Resolve folds the
// effects of every active condition: advantage, disadvantage, auto-fail,
// crit confirmation and action denial combine by OR, bonuses by sum.
type Effect struct {
	Advantage    bool
	Disadvantage bool
	Bonus        int
	AutoFail     bool
	CritConfirm  bool
	ActionDenied bool
	Note         string
}

// none is the empty effect for kinds a condition does not touch.
var none = Effect{}

// ruleContext carries the roll being made and the cross-participant
// facts a rule may need.
type ruleContext struct {
	kind       RollKind
	melee      bool
	targetName string
}

// activeRoll reports whether the kind is something the participant
// initiates. Saves and defense rolls are reactions and stay rollable
// for a creature that cannot act.
func (ctx ruleContext) activeRoll() bool {
	return ctx.kind.IsAttack() || ctx.kind.IsCheck()
}

// ruleFunc computes a single condition's effect on one roll made by the
// participant carrying it. What a defender's conditions grant an
// attacker lives in targetRule.
type ruleFunc func(c Condition, ctx ruleContext) Effect

// cannotAct is the shared rule for the incapacitated family: every
// active roll automatically fails.
func cannotAct(t Type) Effect {
	return Effect{
		AutoFail:     true,
		ActionDenied: true,
		Note:         fmt.Sprintf("%s: cannot take actions", t),
	}
}

var ruleTable = map[Type]ruleFunc{
	Blinded: func(c Condition, ctx ruleContext) Effect {
		if ctx.kind.IsAttack() {
			return Effect{Disadvantage: true, Note: "blinded: attack rolls have disadvantage"}
		}
		return none
	},
	Charmed: func(c Condition, ctx ruleContext) Effect {
		if !ctx.kind.IsAttack() {
			return none
		}
		if c.Source != "" && strings.EqualFold(c.Source, ctx.targetName) {
			return Effect{
				AutoFail:     true,
				ActionDenied: true,
				Note:         "charmed: cannot attack the charmer",
			}
		}
		return none
	},
	Deafened: func(c Condition, ctx ruleContext) Effect {
		if ctx.kind == RollKindHearingCheck {
			return Effect{AutoFail: true, Note: "deafened: hearing-dependent rolls automatically fail"}
		}
		return none
	},
	Frightened: func(c Condition, ctx ruleContext) Effect {
		if ctx.kind.IsAttack() {
			return Effect{Disadvantage: true, Note: "frightened: disadvantage on attacks while the source of fear is present"}
		}
		return none
	},
	// Grappled zeroes speed on application, a movement side effect the
	// caller tracks. No roll modifier.
	Grappled: func(c Condition, ctx ruleContext) Effect {
		return none
	},
	Incapacitated: func(c Condition, ctx ruleContext) Effect {
		if ctx.activeRoll() {
			return cannotAct(Incapacitated)
		}
		return none
	},
	Invisible: func(c Condition, ctx ruleContext) Effect {
		if ctx.kind.IsAttack() {
			return Effect{Advantage: true, Note: "invisible: attack rolls have advantage"}
		}
		return none
	},
	Paralyzed: func(c Condition, ctx ruleContext) Effect {
		switch {
		case ctx.activeRoll():
			return cannotAct(Paralyzed)
		case ctx.kind == RollKindStrengthSave || ctx.kind == RollKindDexteritySave:
			return Effect{AutoFail: true, Note: "paralyzed: automatically fails Strength and Dexterity saves"}
		}
		return none
	},
	Petrified: func(c Condition, ctx ruleContext) Effect {
		if ctx.activeRoll() {
			return cannotAct(Petrified)
		}
		return none
	},
	Poisoned: func(c Condition, ctx ruleContext) Effect {
		if ctx.kind.IsAttack() || ctx.kind.IsCheck() {
			return Effect{Disadvantage: true, Note: "poisoned: disadvantage on attack rolls and ability checks"}
		}
		return none
	},
	Prone: func(c Condition, ctx ruleContext) Effect {
		if ctx.kind == RollKindRangedAttack {
			return Effect{Disadvantage: true, Note: "prone: ranged attacks have disadvantage"}
		}
		return none
	},
	Restrained: func(c Condition, ctx ruleContext) Effect {
		switch ctx.kind {
		case RollKindDefense:
			return Effect{Disadvantage: true, Note: "restrained: defense rolls have disadvantage"}
		case RollKindDexteritySave:
			return Effect{AutoFail: true, Note: "restrained: automatically fails Dexterity saves"}
		}
		return none
	},
	Stunned: func(c Condition, ctx ruleContext) Effect {
		switch {
		case ctx.activeRoll():
			return cannotAct(Stunned)
		case ctx.kind == RollKindStrengthSave || ctx.kind == RollKindDexteritySave:
			return Effect{AutoFail: true, Note: "stunned: automatically fails Strength and Dexterity saves"}
		}
		return none
	},
	Unconscious: func(c Condition, ctx ruleContext) Effect {
		switch {
		case ctx.activeRoll():
			return cannotAct(Unconscious)
		case ctx.kind == RollKindDefense:
			return Effect{
				Disadvantage: true,
				CritConfirm:  ctx.melee,
				Note:         "unconscious: defense rolls have disadvantage",
			}
		}
		return none
	},
	Exhaustion: exhaustionRule,
	// Surprised is descriptive at this layer. The turn orchestrator
	// enforces the lost turn.
	Surprised: func(c Condition, ctx ruleContext) Effect {
		if ctx.kind.IsAttack() {
			return Effect{Note: "surprised: cannot act on the first turn of combat"}
		}
		return none
	},
}

// exhaustionRule applies the cumulative track: level 1 hits ability
// checks, level 3 adds attack rolls and saving throws. Levels 2, 4, 5
// and 6 carry no roll modifier; their penalties are surfaced through
// ExhaustionPenalties.
func exhaustionRule(c Condition, ctx ruleContext) Effect {
	level := clampExhaustion(c.Level)
	if level == 0 {
		return none
	}
	if ctx.kind.IsCheck() {
		return Effect{Disadvantage: true, Note: fmt.Sprintf("exhaustion %d: disadvantage on ability checks", level)}
	}
	if level >= 3 && (ctx.kind.IsAttack() || ctx.kind.IsSave()) {
		return Effect{Disadvantage: true, Note: fmt.Sprintf("exhaustion %d: disadvantage on attack rolls and saving throws", level)}
	}
	return none
}

// targetRule computes what a condition on the DEFENDER grants whoever
// attacks them. melee reports whether the attacker is within reach,
// which gates the prone rule and crit confirmation.
func targetRule(c Condition, melee bool) Effect {
	switch c.Type {
	case Blinded:
		return Effect{Advantage: true, Note: "target blinded: attacks against it have advantage"}
	case Invisible:
		return Effect{Disadvantage: true, Note: "target invisible: attacks against it have disadvantage"}
	case Paralyzed:
		e := Effect{Advantage: true, Note: "target paralyzed: attacks against it have advantage"}
		if melee {
			e.CritConfirm = true
			e.Note = "target paralyzed: melee hits are critical"
		}
		return e
	case Petrified:
		return Effect{Advantage: true, Note: "target petrified: attacks against it have advantage"}
	case Prone:
		if melee {
			return Effect{Advantage: true, Note: "target prone: melee attacks have advantage"}
		}
		return none
	case Restrained:
		return Effect{Advantage: true, Note: "target restrained: attacks against it have advantage"}
	case Stunned:
		return Effect{Advantage: true, Note: "target stunned: attacks against it have advantage"}
	case Unconscious:
		e := Effect{Advantage: true, Note: "target unconscious: attacks against it have advantage"}
		if melee {
			e.CritConfirm = true
			e.Note = "target unconscious: melee hits are critical"
		}
		return e
	}
	return none
}
