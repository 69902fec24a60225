package dice

import (
	"regexp"
	"strings"
)

// InlineDirective is one [DICE:...] marker found in narration text. The
// narrator embeds these to request a roll mid-sentence, e.g.
// "[DICE:1d20+3 perception check]".
type InlineDirective struct {
	Formula string `json:"formula"`
	Purpose string `json:"purpose"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

var (
	inlinePattern = regexp.MustCompile(`(?i)\[DICE:\s*([0-9]+d[0-9]+(?:\s*[+-]\s*[0-9]+)*)\s*([^\]]*)\]`)
	doubledSpaces = regexp.MustCompile(`[ \t]{2,}`)
)

// ExtractInline scans text for [DICE:...] directives and returns them in
// document order with their byte spans, so callers can strip or replace
// the markers in place. Text without directives returns nil.
func ExtractInline(text string) []InlineDirective {
	matches := inlinePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	directives := make([]InlineDirective, 0, len(matches))
	for _, m := range matches {
		formula := strings.ReplaceAll(text[m[2]:m[3]], " ", "")
		purpose := strings.TrimSpace(text[m[4]:m[5]])
		directives = append(directives, InlineDirective{
			Formula: Parse(formula).String(),
			Purpose: purpose,
			Start:   m[0],
			End:     m[1],
		})
	}
	return directives
}

// StripInline removes every [DICE:...] directive from text, collapsing
// any doubled spaces the removal leaves behind.
func StripInline(text string) string {
	if !inlinePattern.MatchString(text) {
		return text
	}
	stripped := inlinePattern.ReplaceAllString(text, "")
	stripped = doubledSpaces.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(stripped)
}
