package rollreq

import "sort"

// DefaultMinConfidence is the cutoff below which heuristic matches are
// dropped. The per-pattern constants sit well above it; only a future
// speculative pattern would land near the line.
const DefaultMinConfidence = 0.5

// Extract recovers every roll request in a narrator message. Structured
// blocks always win: when at least one block parses, its requests are
// returned with confidence 1.0 and no heuristic runs at all. Only when
// no block is present does the text battery fire. Results are sorted by
// confidence, deduplicated by (formula, purpose), and filtered to the
// default confidence cutoff. Empty or unparseable text yields an empty
// slice, never an error.
func Extract(text string) []Request {
	return ExtractWithThreshold(text, DefaultMinConfidence)
}

// ExtractWithThreshold is Extract with a caller-supplied confidence
// cutoff, for deployments that tune the filter against their own
// narrator corpus.
func ExtractWithThreshold(text string, minConfidence float64) []Request {
	reqs := parseStructured(text)
	if len(reqs) == 0 {
		reqs = runHeuristics(text)
	}

	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].Confidence > reqs[j].Confidence
	})

	seen := make(map[string]bool, len(reqs))
	out := make([]Request, 0, len(reqs))
	for _, r := range reqs {
		if r.Confidence <= minConfidence {
			continue
		}
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		out = append(out, r)
	}
	return out
}
