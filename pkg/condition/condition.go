// Package condition resolves how active status conditions change a roll.
// The rule set is a closed table: every supported condition has one rule
// entry, and unknown conditions resolve to no effect so a bad narration
// can never break a session.
package condition

import (
	"sort"
	"strings"
)

// Type identifies a status condition.
type Type string

// Standard conditions plus the leveled exhaustion track.
const (
	Blinded       Type = "blinded"
	Charmed       Type = "charmed"
	Deafened      Type = "deafened"
	Frightened    Type = "frightened"
	Grappled      Type = "grappled"
	Incapacitated Type = "incapacitated"
	Invisible     Type = "invisible"
	Paralyzed     Type = "paralyzed"
	Petrified     Type = "petrified"
	Poisoned      Type = "poisoned"
	Prone         Type = "prone"
	Restrained    Type = "restrained"
	Stunned       Type = "stunned"
	Unconscious   Type = "unconscious"
	Exhaustion    Type = "exhaustion"
	Surprised     Type = "surprised"
)

var knownTypes = map[Type]bool{
	Blinded: true, Charmed: true, Deafened: true, Frightened: true,
	Grappled: true, Incapacitated: true, Invisible: true, Paralyzed: true,
	Petrified: true, Poisoned: true, Prone: true, Restrained: true,
	Stunned: true, Unconscious: true, Exhaustion: true, Surprised: true,
}

// ParseType maps a free-text condition name to its Type. Unknown names
// return an empty Type, which every resolver treats as a no-op.
func ParseType(name string) Type {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	if !knownTypes[t] {
		return ""
	}
	return t
}

// Valid reports whether the type is in the supported set.
func (t Type) Valid() bool {
	return knownTypes[t]
}

// Types returns every supported condition type, sorted by name.
func Types() []Type {
	out := make([]Type, 0, len(knownTypes))
	for t := range knownTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Condition is one active condition on a participant. Level is only
// meaningful for exhaustion (1-6). SaveDC of zero means the standard
// DC 10 applies when a save is attempted.
type Condition struct {
	Type        Type   `json:"type"`
	Description string `json:"description,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Level       int    `json:"level,omitempty"`
	SaveDC      int    `json:"save_dc,omitempty"`
	Source      string `json:"source,omitempty"`
}

// RollKind identifies what kind of roll is being modified.
type RollKind string

const (
	RollKindAttack           RollKind = "attack"
	RollKindMeleeAttack      RollKind = "melee_attack"
	RollKindRangedAttack     RollKind = "ranged_attack"
	RollKindDefense          RollKind = "defense"
	RollKindAbilityCheck     RollKind = "ability_check"
	RollKindInitiative       RollKind = "initiative"
	RollKindHearingCheck     RollKind = "hearing_check"
	RollKindStrengthSave     RollKind = "strength_save"
	RollKindDexteritySave    RollKind = "dexterity_save"
	RollKindConstitutionSave RollKind = "constitution_save"
	RollKindIntelligenceSave RollKind = "intelligence_save"
	RollKindWisdomSave       RollKind = "wisdom_save"
	RollKindCharismaSave     RollKind = "charisma_save"
)

// IsAttack reports whether the kind is any attack roll.
func (k RollKind) IsAttack() bool {
	return k == RollKindAttack || k == RollKindMeleeAttack || k == RollKindRangedAttack
}

// IsSave reports whether the kind is a saving throw.
func (k RollKind) IsSave() bool {
	switch k {
	case RollKindStrengthSave, RollKindDexteritySave, RollKindConstitutionSave,
		RollKindIntelligenceSave, RollKindWisdomSave, RollKindCharismaSave:
		return true
	}
	return false
}

// IsCheck reports whether the kind is an ability check. Initiative is a
// Dexterity check and hearing is a Perception check, so both count.
func (k RollKind) IsCheck() bool {
	return k == RollKindAbilityCheck || k == RollKindInitiative || k == RollKindHearingCheck
}
