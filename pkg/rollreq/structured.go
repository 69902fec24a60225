package rollreq

import (
	"encoding/json"
	"strings"
)

// Marker opens a structured roll-request block: the marker on its own,
// followed by a JSON array of request objects. Everything after the
// first marker is narrator bookkeeping, not prose for the player.
const Marker = "[ROLL_REQUESTS]"

// structuredRequest is the wire shape of one entry in a structured
// block, matching the narrator's prompt contract.
type structuredRequest struct {
	Type         string `json:"type"`
	Formula      string `json:"formula"`
	Purpose      string `json:"purpose"`
	DC           int    `json:"dc,omitempty"`
	AC           int    `json:"ac,omitempty"`
	Advantage    bool   `json:"advantage,omitempty"`
	Disadvantage bool   `json:"disadvantage,omitempty"`
}

// parseStructured collects every parseable structured block in the
// text. A block that is not valid JSON is skipped; the caller falls
// back to heuristics only when no block parses at all.
func parseStructured(text string) []Request {
	var out []Request

	rest := text
	for {
		idx := strings.Index(rest, Marker)
		if idx == -1 {
			break
		}
		rest = rest[idx+len(Marker):]

		var entries []structuredRequest
		dec := json.NewDecoder(strings.NewReader(rest))
		if err := dec.Decode(&entries); err != nil {
			continue
		}
		for _, e := range entries {
			out = append(out, Request{
				Kind:         ParseKind(e.Type),
				Formula:      NormalizeFormula(e.Formula),
				Purpose:      strings.TrimSpace(e.Purpose),
				DC:           e.DC,
				AC:           e.AC,
				Advantage:    e.Advantage,
				Disadvantage: e.Disadvantage,
				Confidence:   1.0,
				Origin:       OriginStructured,
			})
		}
	}
	return out
}

// Truncate returns the prose that precedes the first structured block,
// which is what the player should see. Text without a block passes
// through whole.
func Truncate(text string) string {
	if idx := strings.Index(text, Marker); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}
