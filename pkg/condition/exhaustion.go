package condition

// MaxExhaustion is the top of the exhaustion track. Level 6 is death.
const MaxExhaustion = 6

func clampExhaustion(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxExhaustion {
		return MaxExhaustion
	}
	return level
}

// ExhaustionLevel returns the current exhaustion level in a condition
// set, or zero when none is present.
func ExhaustionLevel(conds []Condition) int {
	for _, c := range conds {
		if c.Type == Exhaustion {
			return clampExhaustion(c.Level)
		}
	}
	return 0
}

// WithExhaustion returns the condition set with exhaustion set to the
// given level. The set holds at most one exhaustion entry: an existing
// entry is replaced, levels clamp to [0, 6], and level 0 removes the
// entry entirely.
func WithExhaustion(conds []Condition, level int) []Condition {
	level = clampExhaustion(level)

	out := make([]Condition, 0, len(conds)+1)
	for _, c := range conds {
		if c.Type == Exhaustion {
			continue
		}
		out = append(out, c)
	}
	if level > 0 {
		out = append(out, Condition{
			Type:  Exhaustion,
			Level: level,
		})
	}
	return out
}

// AddExhaustion raises (or with a negative delta lowers) the exhaustion
// level, clamped to the track.
func AddExhaustion(conds []Condition, delta int) []Condition {
	return WithExhaustion(conds, ExhaustionLevel(conds)+delta)
}

var exhaustionTrack = []string{
	"disadvantage on ability checks",
	"speed halved",
	"disadvantage on attack rolls and saving throws",
	"hit point maximum halved",
	"speed reduced to 0",
	"death",
}

// ExhaustionPenalties returns the cumulative penalties in effect at a
// level. Level 2 includes the level 1 penalty and so on; level 0 returns
// nothing.
func ExhaustionPenalties(level int) []string {
	level = clampExhaustion(level)
	if level == 0 {
		return nil
	}
	out := make([]string, level)
	copy(out, exhaustionTrack[:level])
	return out
}
