package dice

// AdvantageSource is one game effect voting on how a roll is made, such
// as a condition on the actor or on the target.
type AdvantageSource struct {
	Name         string `json:"name"`
	Advantage    bool   `json:"advantage,omitempty"`
	Disadvantage bool   `json:"disadvantage,omitempty"`
}

// AdvantageState is the net outcome of every advantage source in play.
// Advantage wins only when at least one source grants it and none
// imposes disadvantage, and vice versa. When both sides are present the
// roll is made plain and CanceledOut records why.
type AdvantageState struct {
	Advantage    bool     `json:"advantage"`
	Disadvantage bool     `json:"disadvantage"`
	CanceledOut  bool     `json:"canceled_out"`
	Grants       []string `json:"grants,omitempty"`
	Hindrances   []string `json:"hindrances,omitempty"`
}

// ResolveAdvantage folds any number of advantage sources into the net
// state for a roll. A source may grant both at once (some conditions
// do); it then contributes to both sides.
func ResolveAdvantage(sources ...AdvantageSource) AdvantageState {
	state := AdvantageState{}
	for _, src := range sources {
		if src.Advantage {
			state.Grants = append(state.Grants, src.Name)
		}
		if src.Disadvantage {
			state.Hindrances = append(state.Hindrances, src.Name)
		}
	}

	hasAdv := len(state.Grants) > 0
	hasDis := len(state.Hindrances) > 0
	switch {
	case hasAdv && hasDis:
		state.CanceledOut = true
	case hasAdv:
		state.Advantage = true
	case hasDis:
		state.Disadvantage = true
	}
	return state
}

// Apply copies the net state onto roll options, leaving the other
// option fields untouched.
func (s AdvantageState) Apply(opts Options) Options {
	opts.Advantage = s.Advantage
	opts.Disadvantage = s.Disadvantage
	return opts
}
