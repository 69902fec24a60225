// Package session holds the state of one play session: its
// participants and a bounded log of executed rolls. The engine core is
// stateless; this is the record the surrounding application persists
// between narrator turns.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/roll-engine/pkg/dice"
	"github.com/jwebster45206/roll-engine/pkg/participant"
)

// RollLogLimit bounds the roll history kept per session. Older rolls
// fall off the front; the narration context never needs more than the
// recent window.
const RollLogLimit = 50

// Session is one table of players sharing a narrator.
type Session struct {
	ID           uuid.UUID                           `json:"id"`
	Name         string                              `json:"name,omitempty"`
	Participants map[string]*participant.Participant `json:"participants,omitempty"`
	RollLog      []dice.Result                       `json:"roll_log,omitempty"`
	CreatedAt    time.Time                           `json:"created_at"`
	UpdatedAt    time.Time                           `json:"updated_at"`
}

// New creates an empty session with a fresh ID.
func New(name string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           uuid.New(),
		Name:         name,
		Participants: make(map[string]*participant.Participant),
		RollLog:      make([]dice.Result, 0),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AddParticipant registers a participant, replacing any existing entry
// with the same ID.
func (s *Session) AddParticipant(p *participant.Participant) {
	if p == nil {
		return
	}
	if s.Participants == nil {
		s.Participants = make(map[string]*participant.Participant)
	}
	s.Participants[p.ID] = p
	s.Touch()
}

// Participant looks up a participant by ID.
func (s *Session) Participant(id string) (*participant.Participant, bool) {
	p, ok := s.Participants[id]
	return p, ok
}

// RemoveParticipant drops a participant. Unknown IDs are a no-op.
func (s *Session) RemoveParticipant(id string) {
	delete(s.Participants, id)
	s.Touch()
}

// LogRoll appends a roll result, trimming the log to RollLogLimit.
func (s *Session) LogRoll(r dice.Result) {
	s.RollLog = append(s.RollLog, r)
	if len(s.RollLog) > RollLogLimit {
		s.RollLog = s.RollLog[len(s.RollLog)-RollLogLimit:]
	}
	s.Touch()
}

// LastRoll returns the most recent roll, if any.
func (s *Session) LastRoll() (dice.Result, bool) {
	if len(s.RollLog) == 0 {
		return dice.Result{}, false
	}
	return s.RollLog[len(s.RollLog)-1], true
}

// Touch bumps the modification timestamp.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
