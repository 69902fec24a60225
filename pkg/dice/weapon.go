package dice

import (
	"fmt"
	"strings"
)

// Weapon describes one entry in the standard weapon table: its base
// damage die, the two-handed die for versatile weapons, and the
// properties that decide which ability modifier applies.
type Weapon struct {
	Name      string `json:"name"`
	Damage    string `json:"damage"`
	Versatile string `json:"versatile,omitempty"`
	Finesse   bool   `json:"finesse,omitempty"`
	Ranged    bool   `json:"ranged,omitempty"`
}

// improvised is the fallback for weapons not in the table.
var improvised = Weapon{Name: "improvised", Damage: "1d4"}

var weaponTable = map[string]Weapon{
	"club":           {Name: "club", Damage: "1d4"},
	"dagger":         {Name: "dagger", Damage: "1d4", Finesse: true},
	"greatclub":      {Name: "greatclub", Damage: "1d8"},
	"handaxe":        {Name: "handaxe", Damage: "1d6"},
	"javelin":        {Name: "javelin", Damage: "1d6"},
	"mace":           {Name: "mace", Damage: "1d6"},
	"quarterstaff":   {Name: "quarterstaff", Damage: "1d6", Versatile: "1d8"},
	"sickle":         {Name: "sickle", Damage: "1d4"},
	"spear":          {Name: "spear", Damage: "1d6", Versatile: "1d8"},
	"light crossbow": {Name: "light crossbow", Damage: "1d8", Ranged: true},
	"dart":           {Name: "dart", Damage: "1d4", Finesse: true, Ranged: true},
	"shortbow":       {Name: "shortbow", Damage: "1d6", Ranged: true},
	"sling":          {Name: "sling", Damage: "1d4", Ranged: true},
	"battleaxe":      {Name: "battleaxe", Damage: "1d8", Versatile: "1d10"},
	"flail":          {Name: "flail", Damage: "1d8"},
	"glaive":         {Name: "glaive", Damage: "1d10"},
	"greataxe":       {Name: "greataxe", Damage: "1d12"},
	"greatsword":     {Name: "greatsword", Damage: "2d6"},
	"halberd":        {Name: "halberd", Damage: "1d10"},
	"lance":          {Name: "lance", Damage: "1d12"},
	"longsword":      {Name: "longsword", Damage: "1d8", Versatile: "1d10"},
	"maul":           {Name: "maul", Damage: "2d6"},
	"morningstar":    {Name: "morningstar", Damage: "1d8"},
	"pike":           {Name: "pike", Damage: "1d10"},
	"rapier":         {Name: "rapier", Damage: "1d8", Finesse: true},
	"scimitar":       {Name: "scimitar", Damage: "1d6", Finesse: true},
	"shortsword":     {Name: "shortsword", Damage: "1d6", Finesse: true},
	"trident":        {Name: "trident", Damage: "1d6", Versatile: "1d8"},
	"war pick":       {Name: "war pick", Damage: "1d8"},
	"warhammer":      {Name: "warhammer", Damage: "1d8", Versatile: "1d10"},
	"whip":           {Name: "whip", Damage: "1d4", Finesse: true},
	"hand crossbow":  {Name: "hand crossbow", Damage: "1d6", Ranged: true},
	"heavy crossbow": {Name: "heavy crossbow", Damage: "1d10", Ranged: true},
	"longbow":        {Name: "longbow", Damage: "1d8", Ranged: true},
}

// LookupWeapon finds a weapon by name, case-insensitively. Unknown names
// return the improvised fallback and ok=false.
func LookupWeapon(name string) (Weapon, bool) {
	w, ok := weaponTable[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return improvised, false
	}
	return w, true
}

// WeaponNames returns the names in the weapon table, for validation and
// console completion. Order is unspecified.
func WeaponNames() []string {
	names := make([]string, 0, len(weaponTable))
	for name := range weaponTable {
		names = append(names, name)
	}
	return names
}

// abilityModifier picks the modifier a weapon attacks with: the higher
// of Strength and Dexterity for finesse weapons, Dexterity for ranged,
// Strength otherwise.
func (w Weapon) abilityModifier(strMod, dexMod int) int {
	switch {
	case w.Finesse:
		if dexMod > strMod {
			return dexMod
		}
		return strMod
	case w.Ranged:
		return dexMod
	default:
		return strMod
	}
}

// DamageFormula derives the one-handed damage formula for the weapon,
// e.g. "1d8+3" for a longsword with +3 Strength.
func (w Weapon) DamageFormula(strMod, dexMod int) string {
	return w.Damage + FormatModifier(w.abilityModifier(strMod, dexMod))
}

// VersatileDamageFormula derives the two-handed damage formula. Weapons
// without a versatile die use the base die.
func (w Weapon) VersatileDamageFormula(strMod, dexMod int) string {
	die := w.Versatile
	if die == "" {
		die = w.Damage
	}
	return die + FormatModifier(w.abilityModifier(strMod, dexMod))
}

// AttackFormula derives the attack roll for the weapon: 1d20 plus the
// weapon's ability modifier plus the proficiency bonus for the level.
func (w Weapon) AttackFormula(strMod, dexMod, level int) string {
	return "1d20" + FormatModifier(w.abilityModifier(strMod, dexMod)+ProficiencyBonus(level))
}

// WeaponDamageFormula derives the damage formula for a weapon by name.
// Unknown weapons fall back to an improvised 1d4 with the Strength
// modifier.
func WeaponDamageFormula(name string, strMod, dexMod int) string {
	w, _ := LookupWeapon(name)
	return w.DamageFormula(strMod, dexMod)
}

// WeaponAttackFormula derives the attack roll formula for a weapon by
// name at the given character level.
func WeaponAttackFormula(name string, strMod, dexMod, level int) string {
	w, _ := LookupWeapon(name)
	return w.AttackFormula(strMod, dexMod, level)
}

// ProficiencyBonus returns the standard proficiency bonus for a level:
// +2 at level 1, rising by one every four levels. Levels below 1 are
// treated as level 1.
func ProficiencyBonus(level int) int {
	if level < 1 {
		level = 1
	}
	return 2 + ((level - 1) / 4)
}

// FormatModifier renders a modifier with an explicit sign, or an empty
// string for zero, so it can be appended directly to a dice term.
func FormatModifier(mod int) string {
	if mod == 0 {
		return ""
	}
	return fmt.Sprintf("%+d", mod)
}
