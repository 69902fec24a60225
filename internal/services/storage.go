package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/roll-engine/pkg/session"
)

// HealthChecker defines basic health check capabilities
type HealthChecker interface {
	// Ping tests the service connection
	Ping(ctx context.Context) error
}

// Closer defines cleanup capabilities
type Closer interface {
	// Close closes the service connection
	Close() error
}

// Storage defines the interface for session persistence
type Storage interface {
	HealthChecker
	Closer

	// SaveSession saves a session keyed by its ID
	SaveSession(ctx context.Context, s *session.Session) error

	// LoadSession retrieves a session by ID
	// Returns nil if the session doesn't exist
	LoadSession(ctx context.Context, id uuid.UUID) (*session.Session, error)

	// DeleteSession removes a session by ID
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// ListSessions returns the IDs of every stored session
	ListSessions(ctx context.Context) ([]uuid.UUID, error)
}
