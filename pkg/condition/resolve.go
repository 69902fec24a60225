package condition

// ResolveOptions carry the cross-participant context for a roll.
type ResolveOptions struct {
	// Target holds the defender's conditions when resolving an attack.
	Target []Condition
	// TargetName identifies the defender, so a charmed attacker can be
	// stopped from striking the charmer recorded in Condition.Source.
	TargetName string
	// MeleeRange reports whether the attacker is within melee reach,
	// which gates the prone and auto-crit target rules. A
	// RollKindMeleeAttack implies it.
	MeleeRange bool
}

// Outcome is the net modifier set for one roll after every active
// condition has been folded in. Advantage and Disadvantage are already
// net: when both sides were present they cancel and CanceledOut records
// that a plain roll was the result of opposing effects.
type Outcome struct {
	Advantage    bool     `json:"advantage"`
	Disadvantage bool     `json:"disadvantage"`
	CanceledOut  bool     `json:"canceled_out,omitempty"`
	Bonus        int      `json:"bonus,omitempty"`
	AutoFail     bool     `json:"auto_fail,omitempty"`
	CritConfirm  bool     `json:"crit_confirm,omitempty"`
	ActionDenied bool     `json:"action_denied,omitempty"`
	Notes        []string `json:"notes,omitempty"`
}

// Resolve folds the actor's active conditions, and the defender's when
// an attack is being made, into one Outcome for the given roll kind.
// Unknown or zero-value conditions contribute nothing; the function
// never fails.
func Resolve(active []Condition, kind RollKind, opts ResolveOptions) Outcome {
	ctx := ruleContext{
		kind:       kind,
		melee:      opts.MeleeRange || kind == RollKindMeleeAttack,
		targetName: opts.TargetName,
	}

	var out Outcome
	var adv, dis bool

	fold := func(e Effect) {
		adv = adv || e.Advantage
		dis = dis || e.Disadvantage
		out.Bonus += e.Bonus
		out.AutoFail = out.AutoFail || e.AutoFail
		out.CritConfirm = out.CritConfirm || e.CritConfirm
		out.ActionDenied = out.ActionDenied || e.ActionDenied
		if e.Note != "" {
			out.Notes = append(out.Notes, e.Note)
		}
	}

	for _, c := range active {
		rule, ok := ruleTable[c.Type]
		if !ok {
			continue
		}
		fold(rule(c, ctx))
	}
	if kind.IsAttack() {
		for _, c := range opts.Target {
			fold(targetRule(c, ctx.melee))
		}
	}

	// One net cancellation at the end, never per condition pair.
	switch {
	case adv && dis:
		out.CanceledOut = true
	case adv:
		out.Advantage = true
	case dis:
		out.Disadvantage = true
	}
	return out
}
