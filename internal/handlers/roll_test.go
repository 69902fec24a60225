package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/roll-engine/internal/services"
	"github.com/jwebster45206/roll-engine/pkg/condition"
	"github.com/jwebster45206/roll-engine/pkg/dice"
	"github.com/jwebster45206/roll-engine/pkg/participant"
	"github.com/jwebster45206/roll-engine/pkg/rollreq"
	"github.com/jwebster45206/roll-engine/pkg/session"
)

// newRollFixture stores a session with one finesse fighter (dex +3,
// level 1, rapier) and returns the pieces a roll test needs.
func newRollFixture(t *testing.T, faces ...int) (*services.MockStorage, *session.Session, *RollHandler) {
	t.Helper()

	storage := services.NewMockStorage()
	s := session.New("test")
	p := participant.NewParticipant("pc-1", "Mira")
	p.Weapon = "rapier"
	p.Stats.Dexterity = 16
	s.AddParticipant(p)
	assert.NoError(t, storage.SaveSession(context.Background(), s))

	roller := dice.NewRollerWithSource(dice.NewScriptedSource(faces...))
	handler := NewRollHandler(storage, nil, roller, testLogger())
	return storage, s, handler
}

func postRoll(t *testing.T, handler *RollHandler, sessionID uuid.UUID, body RollRequestBody) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sessionID.String()+"/roll", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRollHandler_AttackRoll(t *testing.T) {
	_, s, handler := newRollFixture(t, 15)

	rec := postRoll(t, handler, s.ID, RollRequestBody{
		ParticipantID: "pc-1",
		Kind:          rollreq.KindAttack,
		Purpose:       "Rapier attack",
		AC:            14,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp RollResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	// Rapier is finesse: dex +3 plus proficiency +2 on a face of 15.
	assert.Equal(t, "1d20+5", resp.Result.Formula)
	assert.Equal(t, 20, resp.Result.Total)
	assert.Equal(t, 15, resp.Result.NaturalRoll)
	assert.Equal(t, "Rapier attack: 20 vs AC 14 (hit)", resp.Followup)
}

func TestRollHandler_ExplicitFormulaWins(t *testing.T) {
	_, s, handler := newRollFixture(t, 4, 2)

	rec := postRoll(t, handler, s.ID, RollRequestBody{
		ParticipantID: "pc-1",
		Kind:          rollreq.KindDamage,
		Formula:       "2d6+3",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp RollResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "2d6+3", resp.Result.Formula)
	assert.Equal(t, 9, resp.Result.Total)
}

func TestRollHandler_PlaceholderFormulaDerived(t *testing.T) {
	_, s, handler := newRollFixture(t, 10)

	rec := postRoll(t, handler, s.ID, RollRequestBody{
		ParticipantID: "pc-1",
		Kind:          rollreq.KindSkillCheck,
		Formula:       "1d20+modifier",
		Purpose:       "Stealth check",
		DC:            12,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp RollResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	// Stealth is a Dexterity skill: +3 from the sheet.
	assert.Equal(t, "1d20+3", resp.Result.Formula)
	assert.Equal(t, 13, resp.Result.Total)
	assert.Equal(t, "Stealth check: 13 vs DC 12 (success)", resp.Followup)
}

func TestRollHandler_ConditionDisadvantage(t *testing.T) {
	storage, s, handler := newRollFixture(t, 15, 8)

	p, _ := s.Participant("pc-1")
	p.AddCondition(condition.Condition{Type: condition.Blinded})
	assert.NoError(t, storage.SaveSession(context.Background(), s))

	rec := postRoll(t, handler, s.ID, RollRequestBody{
		ParticipantID: "pc-1",
		Kind:          rollreq.KindAttack,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp RollResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.True(t, resp.Modifiers.Disadvantage)
	assert.True(t, resp.Result.Disadvantage)
	// Keep-lowest: faces 15 and 8 resolve to 8 plus the +5 attack bonus.
	assert.Equal(t, 13, resp.Result.Total)
	assert.Len(t, resp.Result.Dice, 2)
}

func TestRollHandler_RequestedAdvantage(t *testing.T) {
	_, s, handler := newRollFixture(t, 6, 17)

	rec := postRoll(t, handler, s.ID, RollRequestBody{
		ParticipantID: "pc-1",
		Kind:          rollreq.KindAttack,
		Advantage:     true,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp RollResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	// No conditions in play: the player's requested advantage carries.
	// Keep-highest: faces 6 and 17 resolve to 17 plus the +5 attack bonus.
	assert.True(t, resp.Result.Advantage)
	assert.False(t, resp.Result.Disadvantage)
	assert.Len(t, resp.Result.Dice, 2)
	assert.Equal(t, 22, resp.Result.Total)
}

func TestRollHandler_RequestedAdvantageCanceledByCondition(t *testing.T) {
	storage, s, handler := newRollFixture(t, 15)

	p, _ := s.Participant("pc-1")
	p.AddCondition(condition.Condition{Type: condition.Poisoned})
	assert.NoError(t, storage.SaveSession(context.Background(), s))

	rec := postRoll(t, handler, s.ID, RollRequestBody{
		ParticipantID: "pc-1",
		Kind:          rollreq.KindAttack,
		Advantage:     true,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp RollResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	// Requested advantage against poisoned disadvantage: plain roll.
	assert.False(t, resp.Result.Advantage)
	assert.False(t, resp.Result.Disadvantage)
	assert.Len(t, resp.Result.Dice, 1)
}

func TestRollHandler_AutoFail(t *testing.T) {
	storage, s, handler := newRollFixture(t, 15)

	p, _ := s.Participant("pc-1")
	p.AddCondition(condition.Condition{Type: condition.Paralyzed})
	assert.NoError(t, storage.SaveSession(context.Background(), s))

	rec := postRoll(t, handler, s.ID, RollRequestBody{
		ParticipantID: "pc-1",
		Kind:          rollreq.KindAttack,
		Purpose:       "Rapier attack",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp RollResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Modifiers.AutoFail)
	assert.Equal(t, "Rapier attack: automatic failure", resp.Followup)
}

func TestRollHandler_TargetConditionsApply(t *testing.T) {
	storage, s, handler := newRollFixture(t, 15)

	target := participant.NewParticipant("npc-1", "Goblin")
	target.AddCondition(condition.Condition{Type: condition.Restrained})
	s.AddParticipant(target)
	assert.NoError(t, storage.SaveSession(context.Background(), s))

	rec := postRoll(t, handler, s.ID, RollRequestBody{
		ParticipantID: "pc-1",
		TargetID:      "npc-1",
		Kind:          rollreq.KindAttack,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp RollResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	// Attacks against a restrained target have advantage.
	assert.True(t, resp.Modifiers.Advantage)
	assert.True(t, resp.Result.Advantage)
}

func TestRollHandler_RollIsLogged(t *testing.T) {
	storage, s, handler := newRollFixture(t, 15)

	rec := postRoll(t, handler, s.ID, RollRequestBody{
		ParticipantID: "pc-1",
		Kind:          rollreq.KindInitiative,
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	saved, err := storage.LoadSession(context.Background(), s.ID)
	assert.NoError(t, err)
	assert.Len(t, saved.RollLog, 1)
	assert.Equal(t, "1d20+3", saved.RollLog[0].Formula)
}

func TestRollHandler_ConsumesPendingPrompt(t *testing.T) {
	storage := services.NewMockStorage()
	s := session.New("test")
	s.AddParticipant(participant.NewParticipant("pc-1", "Mira"))
	assert.NoError(t, storage.SaveSession(context.Background(), s))

	queue := newFakePromptQueue()
	queue.prompts[s.ID] = []rollreq.Request{
		{Kind: rollreq.KindAttack, Formula: "1d20+5", Confidence: 1.0},
		{Kind: rollreq.KindDamage, Formula: "1d6+3", Confidence: 1.0},
	}

	roller := dice.NewRollerWithSource(dice.NewScriptedSource(15))
	handler := NewRollHandler(storage, queue, roller, testLogger())

	rec := postRoll(t, handler, s.ID, RollRequestBody{
		ParticipantID: "pc-1",
		Kind:          rollreq.KindAttack,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, queue.prompts[s.ID], 1)
	assert.Equal(t, rollreq.KindDamage, queue.prompts[s.ID][0].Kind)
}

func TestRollHandler_Errors(t *testing.T) {
	_, s, handler := newRollFixture(t, 15)

	// Unknown session.
	rec := postRoll(t, handler, uuid.New(), RollRequestBody{ParticipantID: "pc-1", Kind: rollreq.KindAttack})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Unknown participant.
	rec = postRoll(t, handler, s.ID, RollRequestBody{ParticipantID: "nobody", Kind: rollreq.KindAttack})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Missing participant ID.
	rec = postRoll(t, handler, s.ID, RollRequestBody{Kind: rollreq.KindAttack})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Wrong method.
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+s.ID.String()+"/roll", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
