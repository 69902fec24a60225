// Package rollreq extracts roll requests from narrator text. A narrator
// that follows the message protocol appends a structured block the
// engine parses directly; for free-form narration an ordered battery of
// text heuristics recovers the intended rolls with a confidence score
// per pattern.
package rollreq

import "strings"

// Kind classifies a roll request.
type Kind string

const (
	KindAttack     Kind = "attack"
	KindDamage     Kind = "damage"
	KindCheck      Kind = "check"
	KindSave       Kind = "save"
	KindInitiative Kind = "initiative"
	KindSkillCheck Kind = "skill_check"
)

// ParseKind maps a wire type string to a Kind. Unrecognized types fall
// back to a generic check so a creative narrator cannot produce an
// unplayable request.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindAttack:
		return KindAttack
	case KindDamage:
		return KindDamage
	case KindCheck:
		return KindCheck
	case KindSave:
		return KindSave
	case KindInitiative:
		return KindInitiative
	case KindSkillCheck:
		return KindSkillCheck
	}
	return KindCheck
}

// Origin records which stage of the pipeline produced a request.
type Origin string

const (
	OriginStructured Origin = "structured"
	OriginHeuristic  Origin = "heuristic"
)

// Request is one roll the narrator asked for. DC and AC are zero when
// the text names no target number; Confidence is 1.0 for structured
// requests and a fixed per-pattern constant for heuristic ones.
type Request struct {
	Kind         Kind    `json:"type"`
	Formula      string  `json:"formula"`
	Purpose      string  `json:"purpose,omitempty"`
	DC           int     `json:"dc,omitempty"`
	AC           int     `json:"ac,omitempty"`
	Advantage    bool    `json:"advantage,omitempty"`
	Disadvantage bool    `json:"disadvantage,omitempty"`
	Confidence   float64 `json:"confidence"`
	Origin       Origin  `json:"origin,omitempty"`
}

// Key identifies a request for deduplication: two requests asking for
// the same formula with the same purpose are the same ask.
func (r Request) Key() string {
	return r.Formula + "|" + strings.ToLower(strings.TrimSpace(r.Purpose))
}
