package rollreq

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/roll-engine/pkg/dice"
)

// Per-pattern confidence constants. Structured blocks are 1.0; the
// battery is tuned so explicit phrasing outranks inference and the
// catch-all stays just above the default filter.
const (
	confInitiative    = 0.98
	confExplicitCheck = 0.97
	confExplicitSave  = 0.96
	confAttack        = 0.95
	confDamage        = 0.94
	confCritBoost     = 0.04
	confSpellAttack   = 0.93
	confSkillCheck    = 0.92
	confSkillSynonym  = 0.85
	confCatchAll      = 0.70
)

// Skills recognized by the named-skill pattern.
var skillVocabulary = []string{
	"stealth", "perception", "investigation", "athletics", "acrobatics",
	"insight", "persuasion", "deception", "intimidation", "survival",
	"arcana", "history", "religion", "nature", "medicine", "performance",
	"sleight of hand", "animal handling",
}

// skillSynonyms maps free-text action verbs to the skill they imply,
// in priority order. The battery consults it only when no literal
// skill name matched, and emits at most one request from it.
var skillSynonyms = []struct {
	skill string
	cue   *regexp.Regexp
}{
	{"stealth", synonymCue("sneak", "sneaking", "sneakily", "quiet", "quietly", "hide", "hidden", "shadows", "creep", "silently", "tiptoe")},
	{"deception", synonymCue("diversion", "distract", "distracting", "bluff", "mislead", "decoy")},
	{"athletics", synonymCue("throw", "toss", "hurl", "shove", "lift", "climb", "jump", "grapple")},
	{"acrobatics", synonymCue("tumble", "flip", "balance", "dodge", "roll away")},
	{"persuasion", synonymCue("persuade", "convince", "appeal", "negotiate", "bargain", "charm")},
	{"intimidation", synonymCue("intimidate", "threaten", "menace", "coerce", "scare")},
	{"investigation", synonymCue("search", "examine", "inspect", "analyze", "study", "look over")},
	{"perception", synonymCue("look", "listen", "scan", "spot", "notice", "observe", "hear")},
	{"sleight of hand", synonymCue("pickpocket", "palm", "conceal", "snatch", "nimble fingers")},
	{"survival", synonymCue("track", "forage", "navigate", "trail")},
}

func synonymCue(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Attack-roll spells recognized for nicer purpose text.
var spellTable = map[string]bool{
	"fire bolt":      true,
	"eldritch blast": true,
	"guiding bolt":   true,
	"scorching ray":  true,
	"ray of frost":   true,
	"shocking grasp": true,
	"chill touch":    true,
	"witch bolt":     true,
	"thorn whip":     true,
	"produce flame":  true,
	"inflict wounds": true,
	"magic missile":  true,
}

var (
	attackPhrase = regexp.MustCompile(`\b(?:make an attack(?: roll)?|attack roll|roll to hit|please roll attack|roll an attack)\b`)
	spellPhrase  = regexp.MustCompile(`\bcasts?\s+([^.,!?;:\n]+)`)
	spellAttack  = regexp.MustCompile(`\b(?:make a spell attack|spell attack roll)\b`)
	initCue      = regexp.MustCompile(`\b(?:roll (?:for )?initiative|initiative roll|initiative!)`)
	explicitRoll = regexp.MustCompile(`\b([a-z]+(?: [a-z]+)?) (check|saving throw|save)\b[^()]{0,12}\((\d+d\d+(?: ?[+-] ?\d+)*)\)`)
	damageCue    = regexp.MustCompile(`\b(?:roll )?(?:critical |crit )?damage(?: roll)?\b`)
	catchAllRoll = regexp.MustCompile(`\broll (?:a |an )?(\d+d\d+(?: ?[+-] ?\d+)*)\b( for ([a-z][a-z '\-]{0,30}))?`)

	savePhrase   = regexp.MustCompile(`\bsaving throw\b`)

	acValue   = regexp.MustCompile(`\b(?:ac|armou?r class) ?:? ?(\d+)\b`)
	dcValue   = regexp.MustCompile(`\b(?:dc|difficulty class) ?:? ?(\d+)\b`)
	diceGroup = regexp.MustCompile(`\d+d\d+(?: ?[+-] ?\d+)*`)
	parenDice = regexp.MustCompile(`\((\d+d\d+(?: ?[+-] ?\d+)*)\)`)
	critCue   = regexp.MustCompile(`\bcrit(?:ical)?\b`)
)

// placeholderD20 is the formula emitted when the caller must fill in
// the character-sheet modifier.
var placeholderD20 = dice.DefaultFormula + "+" + dice.ModifierPlaceholder

func title(s string) string {
	return cases.Title(language.AmericanEnglish).String(s)
}

// span is a half-open byte range in the lowered text.
type span struct {
	start, end int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

// claims tracks spans already matched by a higher-priority pattern.
type claims []span

func (c *claims) take(s span) {
	*c = append(*c, s)
}

func (c claims) free(s span) bool {
	for _, taken := range c {
		if taken.overlaps(s) {
			return false
		}
	}
	return true
}

// window returns the slice of text around a span, clamped to the text,
// along with the offset of the slice start.
func window(text string, s span, before, after int) (string, int) {
	lo := s.start - before
	if lo < 0 {
		lo = 0
	}
	hi := s.end + after
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi], lo
}

func scrapeInt(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n := 0
	for _, ch := range m[1] {
		n = n*10 + int(ch-'0')
	}
	return n
}

// runHeuristics applies the ordered battery over lowered narrator text.
// Each pattern only fires on spans no earlier pattern has claimed.
func runHeuristics(text string) []Request {
	lower := strings.ToLower(text)

	var taken claims
	var out []Request

	add := func(s span, req Request) {
		req.Origin = OriginHeuristic
		taken.take(s)
		out = append(out, req)
	}

	// Attack phrasing. The weapon, if any, is looked up in a bounded
	// window to give the purpose a name; an AC nearby becomes the
	// target number.
	for _, loc := range attackPhrase.FindAllStringIndex(lower, -1) {
		s := span{loc[0], loc[1]}
		if !taken.free(s) {
			continue
		}
		win, _ := window(lower, s, 40, 80)
		purpose := "Attack roll"
		if weapon := findWeapon(win); weapon != "" {
			purpose = title(weapon) + " attack"
		}
		add(s, Request{
			Kind:       KindAttack,
			Formula:    placeholderD20,
			Purpose:    purpose,
			AC:         scrapeInt(acValue, win),
			Confidence: confAttack,
		})
	}

	// Spell attacks, by explicit phrase or "cast <spell>".
	for _, loc := range spellAttack.FindAllStringIndex(lower, -1) {
		s := span{loc[0], loc[1]}
		if !taken.free(s) {
			continue
		}
		win, _ := window(lower, s, 40, 80)
		add(s, Request{
			Kind:       KindAttack,
			Formula:    placeholderD20,
			Purpose:    "Spell attack",
			AC:         scrapeInt(acValue, win),
			Confidence: confSpellAttack,
		})
	}
	for _, m := range spellPhrase.FindAllStringSubmatchIndex(lower, -1) {
		s := span{m[0], m[1]}
		if !taken.free(s) {
			continue
		}
		spell := spellName(lower[m[2]:m[3]])
		if spell == "" {
			continue
		}
		win, _ := window(lower, s, 20, 80)
		add(span{m[0], m[2] + len(spell)}, Request{
			Kind:       KindAttack,
			Formula:    placeholderD20,
			Purpose:    title(spell) + " spell attack",
			AC:         scrapeInt(acValue, win),
			Confidence: confSpellAttack,
		})
	}

	// Initiative. The formula defaults to the Dexterity placeholder
	// unless the narrator spelled one out in parentheses.
	for _, loc := range initCue.FindAllStringIndex(lower, -1) {
		s := span{loc[0], loc[1]}
		if !taken.free(s) {
			continue
		}
		formula := placeholderD20
		win, _ := window(lower, s, 0, 30)
		if m := parenDice.FindStringSubmatch(win); m != nil {
			formula = NormalizeFormula(m[1])
		}
		add(s, Request{
			Kind:       KindInitiative,
			Formula:    formula,
			Purpose:    "Roll initiative",
			Confidence: confInitiative,
		})
	}

	// Checks and saves with an explicit parenthetical formula.
	for _, m := range explicitRoll.FindAllStringSubmatchIndex(lower, -1) {
		s := span{m[0], m[1]}
		if !taken.free(s) {
			continue
		}
		name := stripArticles(lower[m[2]:m[3]])
		rollWord := lower[m[4]:m[5]]
		formula := NormalizeFormula(lower[m[6]:m[7]])
		win, _ := window(lower, s, 0, 40)
		dc := scrapeInt(dcValue, win)

		if rollWord == "check" {
			add(s, Request{
				Kind:       KindCheck,
				Formula:    formula,
				Purpose:    title(name) + " check",
				DC:         dc,
				Confidence: confExplicitCheck,
			})
		} else {
			add(s, Request{
				Kind:       KindSave,
				Formula:    formula,
				Purpose:    title(name) + " saving throw",
				DC:         dc,
				Confidence: confExplicitSave,
			})
		}
	}

	// Named skills without dice.
	for _, skill := range skillVocabulary {
		re := skillCue(skill)
		for _, loc := range re.FindAllStringIndex(lower, -1) {
			s := span{loc[0], loc[1]}
			if !taken.free(s) {
				continue
			}
			win, _ := window(lower, s, 0, 60)
			add(s, Request{
				Kind:       KindSkillCheck,
				Formula:    placeholderD20,
				Purpose:    title(skill) + " check",
				DC:         scrapeInt(dcValue, win),
				Confidence: confSkillCheck,
			})
		}
	}

	// Verb-synonym fallback: an action verb implies a skill when the
	// narration never named one and no check has been extracted yet.
	// "throw" inside "saving throw" is not an action verb.
	if !hasCheckRequest(out) {
		var saves claims
		for _, loc := range savePhrase.FindAllStringIndex(lower, -1) {
			saves.take(span{loc[0], loc[1]})
		}
	synonyms:
		for _, syn := range skillSynonyms {
			for _, loc := range syn.cue.FindAllStringIndex(lower, -1) {
				s := span{loc[0], loc[1]}
				if !taken.free(s) || !saves.free(s) {
					continue
				}
				win, _ := window(lower, s, 0, 60)
				add(s, Request{
					Kind:       KindSkillCheck,
					Formula:    placeholderD20,
					Purpose:    title(syn.skill) + " check",
					DC:         scrapeInt(dcValue, win),
					Confidence: confSkillSynonym,
				})
				break synonyms
			}
		}
	}

	// Damage phrasing. The dice come from the nearest explicit group;
	// a damage ask with no dice anywhere near it is dropped rather
	// than guessed.
	for _, loc := range damageCue.FindAllStringIndex(lower, -1) {
		s := span{loc[0], loc[1]}
		if !taken.free(s) {
			continue
		}
		win, off := window(lower, s, 50, 50)
		dloc := diceGroup.FindStringIndex(win)
		if dloc == nil {
			continue
		}
		claimed := span{off + dloc[0], off + dloc[1]}
		if claimed.start > s.start {
			claimed.start = s.start
		}
		if claimed.end < s.end {
			claimed.end = s.end
		}

		conf := confDamage
		purpose := "Damage roll"
		if critCue.MatchString(win) {
			conf += confCritBoost
			purpose = "Critical damage"
		}
		add(claimed, Request{
			Kind:       KindDamage,
			Formula:    NormalizeFormula(win[dloc[0]:dloc[1]]),
			Purpose:    purpose,
			Confidence: conf,
		})
	}

	// Generic catch-all: "roll <dice> [for <purpose>]".
	for _, m := range catchAllRoll.FindAllStringSubmatchIndex(lower, -1) {
		s := span{m[0], m[1]}
		if !taken.free(s) {
			continue
		}
		formula := NormalizeFormula(lower[m[2]:m[3]])
		purpose := "Dice roll"
		kind := KindCheck
		if m[6] >= 0 {
			purpose = title(trimPurpose(lower[m[6]:m[7]]))
			if strings.Contains(lower[m[6]:m[7]], "damage") {
				kind = KindDamage
			}
		}
		win, _ := window(lower, s, 0, 40)
		add(s, Request{
			Kind:       kind,
			Formula:    formula,
			Purpose:    purpose,
			DC:         scrapeInt(dcValue, win),
			AC:         scrapeInt(acValue, win),
			Confidence: confCatchAll,
		})
	}

	return out
}

// hasCheckRequest reports whether the battery already produced a check
// of either kind, which suppresses the synonym fallback.
func hasCheckRequest(reqs []Request) bool {
	for _, r := range reqs {
		if r.Kind == KindCheck || r.Kind == KindSkillCheck {
			return true
		}
	}
	return false
}

// findWeapon returns the first weapon-table name mentioned in the
// window, or empty.
func findWeapon(win string) string {
	best := ""
	bestIdx := len(win)
	for _, name := range dice.WeaponNames() {
		if idx := strings.Index(win, name); idx >= 0 && idx < bestIdx {
			best, bestIdx = name, idx
		}
	}
	return best
}

// spellName extracts a spell from the words following "cast". Known
// spells match up to three words; anything else keeps at most two words
// of the phrase as a best-effort name.
func spellName(tail string) string {
	words := strings.Fields(tail)
	if len(words) == 0 {
		return ""
	}
	// Drop a possessive lead-in such as "cast your fire bolt".
	switch words[0] {
	case "a", "an", "the", "your", "my", "their":
		words = words[1:]
	}
	if len(words) == 0 {
		return ""
	}
	for n := 3; n >= 1; n-- {
		if len(words) < n {
			continue
		}
		candidate := strings.Join(words[:n], " ")
		if spellTable[candidate] {
			return candidate
		}
	}
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}

func stripArticles(s string) string {
	for _, art := range []string{"a ", "an ", "the ", "your ", "my "} {
		if strings.HasPrefix(s, art) {
			return strings.TrimSpace(strings.TrimPrefix(s, art))
		}
	}
	return s
}

// trimPurpose bounds a free-text purpose capture to a few words.
func trimPurpose(s string) string {
	words := strings.Fields(s)
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(words, " ")
}

var skillCues = map[string]*regexp.Regexp{}

func init() {
	for _, skill := range skillVocabulary {
		quoted := regexp.QuoteMeta(skill)
		skillCues[skill] = regexp.MustCompile(
			`\b(?:` + quoted + ` check|roll (?:for )?` + quoted + `)\b`)
	}
}

func skillCue(skill string) *regexp.Regexp {
	return skillCues[skill]
}
