// Package participant models the actors a session rolls for: player
// characters, NPCs and monsters alike. A participant carries the stats
// the dice engine derives formulas from and the active conditions the
// resolver folds into each roll.
package participant

import (
	"strings"

	"github.com/jwebster45206/roll-engine/pkg/condition"
	"github.com/jwebster45206/roll-engine/pkg/dice"
)

// Stats5e represents the six core D&D 5e ability scores
type Stats5e struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Modifier converts an ability score to its modifier with floor
// semantics, so a score of 7 yields -2, not -1.
func Modifier(score int) int {
	m := score - 10
	if m < 0 {
		return (m - 1) / 2
	}
	return m / 2
}

// Modifier returns the modifier for a named ability. Unknown names
// return 0.
func (s Stats5e) Modifier(ability string) int {
	switch strings.ToLower(strings.TrimSpace(ability)) {
	case "strength", "str":
		return Modifier(s.Strength)
	case "dexterity", "dex":
		return Modifier(s.Dexterity)
	case "constitution", "con":
		return Modifier(s.Constitution)
	case "intelligence", "int":
		return Modifier(s.Intelligence)
	case "wisdom", "wis":
		return Modifier(s.Wisdom)
	case "charisma", "cha":
		return Modifier(s.Charisma)
	}
	return 0
}

// DefaultStats is the flat array a participant starts with before any
// scores are assigned.
var DefaultStats = Stats5e{
	Strength: 10, Dexterity: 10, Constitution: 10,
	Intelligence: 10, Wisdom: 10, Charisma: 10,
}

// Participant is one actor in a session.
type Participant struct {
	ID          string                `json:"id"`
	Name        string                `json:"name,omitempty"`
	Class       string                `json:"class,omitempty"`
	Race        string                `json:"race,omitempty"`
	Pronouns    string                `json:"pronouns,omitempty"`
	Description string                `json:"description,omitempty"`
	Level       int                   `json:"level,omitempty"`
	Stats       Stats5e               `json:"stats,omitempty"`
	HP          int                   `json:"hp,omitempty"`
	MaxHP       int                   `json:"max_hp,omitempty"`
	AC          int                   `json:"ac,omitempty"`
	Speed       int                   `json:"speed,omitempty"`
	Weapon      string                `json:"weapon,omitempty"`
	Inventory   []string              `json:"inventory,omitempty"`
	Conditions  []condition.Condition `json:"conditions,omitempty"`
}

// NewParticipant returns a level 1 participant with flat scores and
// baseline defenses, ready to be customized.
func NewParticipant(id, name string) *Participant {
	return &Participant{
		ID:    id,
		Name:  name,
		Level: 1,
		Stats: DefaultStats,
		HP:    10,
		MaxHP: 10,
		AC:    10,
		Speed: 30,
	}
}

// AbilityModifier returns the participant's modifier for a named
// ability.
func (p *Participant) AbilityModifier(ability string) int {
	return p.Stats.Modifier(ability)
}

// ProficiencyBonus returns the standard bonus for the participant's
// level.
func (p *Participant) ProficiencyBonus() int {
	return dice.ProficiencyBonus(p.Level)
}

// AttackFormula derives the attack roll for the participant's equipped
// weapon. An empty weapon attacks improvised.
func (p *Participant) AttackFormula() string {
	return dice.WeaponAttackFormula(p.Weapon,
		Modifier(p.Stats.Strength), Modifier(p.Stats.Dexterity), p.Level)
}

// DamageFormula derives the damage roll for the equipped weapon.
func (p *Participant) DamageFormula() string {
	return dice.WeaponDamageFormula(p.Weapon,
		Modifier(p.Stats.Strength), Modifier(p.Stats.Dexterity))
}

// CriticalDamageFormula derives the damage roll for a critical hit,
// with the weapon dice doubled.
func (p *Participant) CriticalDamageFormula() string {
	return dice.CriticalDamageFormula(p.DamageFormula())
}

// InitiativeFormula derives the initiative roll, a Dexterity check.
func (p *Participant) InitiativeFormula() string {
	return "1d20" + dice.FormatModifier(Modifier(p.Stats.Dexterity))
}

// HasCondition reports whether a condition of the given type is active.
func (p *Participant) HasCondition(t condition.Type) bool {
	for _, c := range p.Conditions {
		if c.Type == t {
			return true
		}
	}
	return false
}

// AddCondition puts a condition on the participant. A condition of the
// same type replaces the existing entry, and exhaustion goes through the
// leveled track so the single-entry rule holds.
func (p *Participant) AddCondition(c condition.Condition) {
	if c.Type == condition.Exhaustion {
		p.Conditions = condition.WithExhaustion(p.Conditions, c.Level)
		return
	}
	for i, existing := range p.Conditions {
		if existing.Type == c.Type {
			p.Conditions[i] = c
			return
		}
	}
	p.Conditions = append(p.Conditions, c)
}

// RemoveCondition clears every condition of the given type.
func (p *Participant) RemoveCondition(t condition.Type) {
	out := p.Conditions[:0]
	for _, c := range p.Conditions {
		if c.Type != t {
			out = append(out, c)
		}
	}
	p.Conditions = out
}

// ExhaustionLevel returns the participant's current exhaustion level.
func (p *Participant) ExhaustionLevel() int {
	return condition.ExhaustionLevel(p.Conditions)
}

// SetExhaustion sets the exhaustion level directly, clamped to the
// track. Level 0 clears it.
func (p *Participant) SetExhaustion(level int) {
	p.Conditions = condition.WithExhaustion(p.Conditions, level)
}

// RollModifiers resolves the participant's conditions, and the
// target's when one is given, into the net modifiers for a roll.
func (p *Participant) RollModifiers(kind condition.RollKind, target *Participant) condition.Outcome {
	opts := condition.ResolveOptions{}
	if target != nil {
		opts.Target = target.Conditions
		opts.TargetName = target.Name
		if opts.TargetName == "" {
			opts.TargetName = target.ID
		}
	}
	return condition.Resolve(p.Conditions, kind, opts)
}
