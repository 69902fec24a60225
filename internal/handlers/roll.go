package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/roll-engine/internal/services"
	"github.com/jwebster45206/roll-engine/pkg/condition"
	"github.com/jwebster45206/roll-engine/pkg/dice"
	"github.com/jwebster45206/roll-engine/pkg/participant"
	"github.com/jwebster45206/roll-engine/pkg/rollreq"
)

// PromptDequeuer pops the pending prompt a roll resolves, keeping
// prompt delivery at-most-once.
type PromptDequeuer interface {
	Dequeue(ctx context.Context, sessionID uuid.UUID) (rollreq.Request, bool, error)
}

// RollRequestBody is a player executing one roll. Formula is optional:
// when empty or carrying the modifier placeholder, the engine derives
// it from the participant's sheet.
type RollRequestBody struct {
	ParticipantID string      `json:"participant_id"`
	TargetID      string      `json:"target_id,omitempty"`
	Kind          rollreq.Kind `json:"kind"`
	Formula       string      `json:"formula,omitempty"`
	Purpose       string      `json:"purpose,omitempty"`
	DC            int         `json:"dc,omitempty"`
	AC            int         `json:"ac,omitempty"`
	Advantage     bool        `json:"advantage,omitempty"`
	Disadvantage  bool        `json:"disadvantage,omitempty"`
	Secret        bool        `json:"secret,omitempty"`
}

// RollResponse is the executed roll plus the condition modifiers that
// shaped it and an outcome line for the narration context.
type RollResponse struct {
	SessionID uuid.UUID         `json:"session_id"`
	Result    dice.Result       `json:"result"`
	Modifiers condition.Outcome `json:"modifiers"`
	Followup  string            `json:"followup,omitempty"`
}

// RollHandler executes POST /v1/sessions/{id}/roll.
type RollHandler struct {
	storage services.Storage
	prompts PromptDequeuer
	roller  *dice.Roller
	logger  *slog.Logger
}

// NewRollHandler creates the handler. prompts may be nil; roller may be
// nil to use the production crypto-backed roller.
func NewRollHandler(storage services.Storage, prompts PromptDequeuer, roller *dice.Roller, logger *slog.Logger) *RollHandler {
	if roller == nil {
		roller = dice.NewRoller()
	}
	return &RollHandler{
		storage: storage,
		prompts: prompts,
		roller:  roller,
		logger:  logger,
	}
}

func (h *RollHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	path = strings.TrimSuffix(path, "/roll")
	id, err := uuid.Parse(strings.Trim(path, "/"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var body RollRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.ParticipantID == "" {
		writeError(w, http.StatusBadRequest, "Participant ID is required")
		return
	}

	s, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "session_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if s == nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	actor, ok := s.Participant(body.ParticipantID)
	if !ok {
		writeError(w, http.StatusNotFound, "Participant not found")
		return
	}
	var target *participant.Participant
	if body.TargetID != "" {
		target, _ = s.Participant(body.TargetID)
	}

	formula := deriveFormula(body, actor)
	kind := conditionRollKind(body.Kind, body.Purpose, actor)
	modifiers := actor.RollModifiers(kind, target)

	// The player's requested flags and the condition outcome are two
	// independent advantage sources; net state decides the actual roll.
	state := dice.ResolveAdvantage(
		dice.AdvantageSource{Advantage: body.Advantage, Disadvantage: body.Disadvantage, Name: "requested"},
		dice.AdvantageSource{Advantage: modifiers.Advantage, Disadvantage: modifiers.Disadvantage, Name: "conditions"},
	)

	opts := state.Apply(dice.Options{
		Purpose: body.Purpose,
		Actor:   actor.Name,
		Secret:  body.Secret,
	})
	result := h.roller.Roll(formula, opts)

	s.LogRoll(result)
	if err := h.storage.SaveSession(r.Context(), s); err != nil {
		h.logger.Error("Failed to save session", "error", err, "session_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to save roll")
		return
	}

	// Resolving a roll consumes the pending prompt it answered.
	if h.prompts != nil {
		if _, _, err := h.prompts.Dequeue(r.Context(), id); err != nil {
			h.logger.Warn("Failed to consume pending prompt", "error", err, "session_id", id)
		}
	}

	resp := RollResponse{
		SessionID: id,
		Result:    result,
		Modifiers: modifiers,
	}
	total := result.Total
	if modifiers.AutoFail {
		// An auto-failed roll is still rolled and logged, but the
		// outcome line reports the failure regardless of the total.
		resp.Followup = body.Purpose + ": automatic failure"
		if body.Purpose == "" {
			resp.Followup = string(body.Kind) + ": automatic failure"
		}
	} else if body.DC > 0 || body.AC > 0 || body.Kind == rollreq.KindAttack {
		resp.Followup = rollreq.Followup(rollreq.Request{
			Kind:    body.Kind,
			Purpose: body.Purpose,
			DC:      body.DC,
			AC:      body.AC,
		}, total)
	}

	h.logger.Debug("Roll executed",
		"session_id", id,
		"participant_id", body.ParticipantID,
		"formula", formula,
		"total", result.Total)

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Error encoding roll response", "error", err)
	}
}

// deriveFormula resolves the formula to roll: an explicit concrete
// formula wins; a missing or placeholder formula comes from the
// participant's sheet by roll kind.
func deriveFormula(body RollRequestBody, actor *participant.Participant) string {
	if body.Formula != "" && !dice.HasPlaceholder(body.Formula) {
		return body.Formula
	}

	switch body.Kind {
	case rollreq.KindAttack:
		return actor.AttackFormula()
	case rollreq.KindDamage:
		return actor.DamageFormula()
	case rollreq.KindInitiative:
		return actor.InitiativeFormula()
	case rollreq.KindSave, rollreq.KindCheck, rollreq.KindSkillCheck:
		ability := abilityFromPurpose(body.Purpose)
		if ability == "" {
			return dice.DefaultFormula
		}
		return dice.DefaultFormula + dice.FormatModifier(actor.AbilityModifier(ability))
	default:
		return dice.DefaultFormula
	}
}

// skillAbilities maps each skill to its governing ability, for filling
// in the placeholder modifier of a skill-check prompt.
var skillAbilities = map[string]string{
	"athletics":       "strength",
	"acrobatics":      "dexterity",
	"sleight of hand": "dexterity",
	"stealth":         "dexterity",
	"arcana":          "intelligence",
	"history":         "intelligence",
	"investigation":   "intelligence",
	"nature":          "intelligence",
	"religion":        "intelligence",
	"animal handling": "wisdom",
	"insight":         "wisdom",
	"medicine":        "wisdom",
	"perception":      "wisdom",
	"survival":        "wisdom",
	"deception":       "charisma",
	"intimidation":    "charisma",
	"performance":     "charisma",
	"persuasion":      "charisma",
}

var abilityNames = []string{
	"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma",
}

// abilityFromPurpose recovers the governing ability from purpose text
// like "Strength check", "Dexterity saving throw", or "Stealth check".
func abilityFromPurpose(purpose string) string {
	lower := strings.ToLower(purpose)
	for _, name := range abilityNames {
		if strings.Contains(lower, name) {
			return name
		}
	}
	for skill, ability := range skillAbilities {
		if strings.Contains(lower, skill) {
			return ability
		}
	}
	return ""
}

// conditionRollKind maps a request kind to the resolver's roll kind.
// Attack melee/ranged split comes from the equipped weapon; saves are
// split by the ability named in the purpose.
func conditionRollKind(kind rollreq.Kind, purpose string, actor *participant.Participant) condition.RollKind {
	switch kind {
	case rollreq.KindAttack:
		if w, ok := dice.LookupWeapon(actor.Weapon); ok && w.Ranged {
			return condition.RollKindRangedAttack
		}
		return condition.RollKindMeleeAttack
	case rollreq.KindInitiative:
		return condition.RollKindInitiative
	case rollreq.KindSave:
		switch abilityFromPurpose(purpose) {
		case "strength":
			return condition.RollKindStrengthSave
		case "dexterity":
			return condition.RollKindDexteritySave
		case "constitution":
			return condition.RollKindConstitutionSave
		case "intelligence":
			return condition.RollKindIntelligenceSave
		case "charisma":
			return condition.RollKindCharismaSave
		default:
			return condition.RollKindWisdomSave
		}
	case rollreq.KindCheck, rollreq.KindSkillCheck:
		return condition.RollKindAbilityCheck
	default:
		return condition.RollKindAbilityCheck
	}
}
