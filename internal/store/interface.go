// Package store defines persistence for the reader's book collection and profile.
//
// State lives in two whole records: the book collection under KeyBooks and the
// profile under KeyProfile. Writers replace records wholesale; SaveSnapshot
// replaces both in one transaction.
package store

import (
	"context"

	"github.com/nightstandapp/nightstand-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Book collection. A missing record reads as an empty collection.
	LoadBooks(ctx context.Context) ([]domain.Book, error)
	SaveBooks(ctx context.Context, books []domain.Book) error
	ClearBooks(ctx context.Context) error

	// Profile. A missing record returns ErrProfileNotFound.
	LoadProfile(ctx context.Context) (*domain.UserProfile, error)
	SaveProfile(ctx context.Context, profile *domain.UserProfile) error
	ClearProfile(ctx context.Context) error

	// Both records together.
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
	Clear(ctx context.Context) error
}

// Snapshot is a consistent view of both records. A nil Profile means no
// profile has been created; saving such a snapshot removes the profile record.
type Snapshot struct {
	Books   []domain.Book       `json:"books"`
	Profile *domain.UserProfile `json:"userProfile,omitempty"`
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{Books: make([]domain.Book, len(s.Books))}
	for i := range s.Books {
		c.Books[i] = *s.Books[i].Clone()
	}
	if s.Profile != nil {
		c.Profile = s.Profile.Clone()
	}
	return c
}

// EventEmitter is the interface for emitting change events.
// Services use it to broadcast changes without depending on the SSE implementation.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}
