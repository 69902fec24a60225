package dice

import (
	"time"

	"github.com/google/uuid"
)

// Options shape a single roll. Advantage and disadvantage only apply to
// single-d20 formulas; when both are set they cancel and the roll is
// made plain.
type Options struct {
	Advantage    bool   `json:"advantage,omitempty"`
	Disadvantage bool   `json:"disadvantage,omitempty"`
	Purpose      string `json:"purpose,omitempty"`
	Actor        string `json:"actor,omitempty"`
	Secret       bool   `json:"secret,omitempty"`
}

// Die is one physical die outcome within a roll.
type Die struct {
	Sides    int  `json:"sides"`
	Value    int  `json:"value"`
	Critical bool `json:"critical,omitempty"`
}

// Result is the full record of one resolved roll. Dice preserves the
// order the dice were rolled in; under advantage or disadvantage both
// d20s appear even though only one counts toward Total.
type Result struct {
	ID           uuid.UUID `json:"id"`
	Formula      string    `json:"formula"`
	Total        int       `json:"total"`
	Dice         []Die     `json:"dice"`
	Modifier     int       `json:"modifier"`
	Advantage    bool      `json:"advantage,omitempty"`
	Disadvantage bool      `json:"disadvantage,omitempty"`
	NaturalRoll  int       `json:"natural_roll,omitempty"`
	Critical     bool      `json:"critical,omitempty"`
	CriticalMiss bool      `json:"critical_miss,omitempty"`
	Purpose      string    `json:"purpose,omitempty"`
	Actor        string    `json:"actor,omitempty"`
	Secret       bool      `json:"secret,omitempty"`
	RolledAt     time.Time `json:"rolled_at"`
}

// Roller resolves dice formulas against a randomness source.
type Roller struct {
	src Source
}

// NewRoller returns a roller backed by crypto/rand.
func NewRoller() *Roller {
	return &Roller{src: NewCryptoSource()}
}

// NewRollerWithSource returns a roller backed by the given source.
// Tests pass a scripted source; replay tooling passes a seeded one.
func NewRollerWithSource(src Source) *Roller {
	if src == nil {
		src = NewCryptoSource()
	}
	return &Roller{src: src}
}

// Roll resolves a formula string. It never fails: an unparseable formula
// falls back to a plain d20, and advantage/disadvantage are ignored for
// anything but a single-d20 roll.
//
// The natural roll is the raw face of the first d20 rolled, before the
// keep-highest or keep-lowest selection. A natural 20 marks the result
// critical and a natural 1 marks it a critical miss.
func (r *Roller) Roll(formula string, opts Options) Result {
	f := Parse(formula)

	adv := opts.Advantage && !opts.Disadvantage
	dis := opts.Disadvantage && !opts.Advantage
	if !f.IsD20() {
		adv, dis = false, false
	}

	result := Result{
		ID:           uuid.New(),
		Formula:      f.String(),
		Modifier:     f.Modifier,
		Advantage:    adv,
		Disadvantage: dis,
		Purpose:      opts.Purpose,
		Actor:        opts.Actor,
		Secret:       opts.Secret,
		RolledAt:     time.Now().UTC(),
	}

	if adv || dis {
		first := r.rollDie(f.Sides)
		second := r.rollDie(f.Sides)
		result.Dice = []Die{first, second}

		kept := first.Value
		if adv && second.Value > kept {
			kept = second.Value
		}
		if dis && second.Value < kept {
			kept = second.Value
		}
		result.Total = kept + f.Modifier
		result.NaturalRoll = first.Value
	} else {
		total := 0
		result.Dice = make([]Die, 0, f.Count)
		for i := 0; i < f.Count; i++ {
			d := r.rollDie(f.Sides)
			result.Dice = append(result.Dice, d)
			total += d.Value
		}
		result.Total = total + f.Modifier
		if f.Sides == 20 {
			result.NaturalRoll = result.Dice[0].Value
		}
	}

	if f.Sides == 20 && result.NaturalRoll > 0 {
		result.Critical = result.NaturalRoll == 20
		result.CriticalMiss = result.NaturalRoll == 1
	}
	return result
}

func (r *Roller) rollDie(sides int) Die {
	v := r.src.Intn(sides) + 1
	return Die{
		Sides:    sides,
		Value:    v,
		Critical: sides == 20 && v == 20,
	}
}

var defaultRoller = NewRoller()

// Roll resolves a formula with the package default crypto-backed roller.
func Roll(formula string, opts Options) Result {
	return defaultRoller.Roll(formula, opts)
}
