package store

import (
	"encoding/json"
	"fmt"

	"github.com/nightstandapp/nightstand-server/internal/domain"
)

// Record keys. Both backends use the same keys and JSON encoding, so a record
// written by one decodes in the other.
const (
	KeyBooks   = "books"
	KeyProfile = "user_profile"
)

// EncodeBooks serializes the collection. A nil slice encodes as [].
func EncodeBooks(books []domain.Book) ([]byte, error) {
	if books == nil {
		books = []domain.Book{}
	}
	data, err := json.Marshal(books)
	if err != nil {
		return nil, fmt.Errorf("marshal books: %w", err)
	}
	return data, nil
}

// DecodeBooks parses a stored collection. Empty or null data is an empty collection.
func DecodeBooks(data []byte) ([]domain.Book, error) {
	books := []domain.Book{}
	if len(data) == 0 {
		return books, nil
	}
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, ErrCorrupt.WithCause(fmt.Errorf("decode %s: %w", KeyBooks, err))
	}
	if books == nil {
		books = []domain.Book{}
	}
	return books, nil
}

// EncodeProfile serializes the profile.
func EncodeProfile(p *domain.UserProfile) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	return data, nil
}

// DecodeProfile parses a stored profile.
func DecodeProfile(data []byte) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, ErrCorrupt.WithCause(fmt.Errorf("decode %s: %w", KeyProfile, err))
	}
	return &p, nil
}

// EncodeSnapshot serializes both records; profile is nil when the snapshot has none.
func EncodeSnapshot(snap *Snapshot) (books, profile []byte, err error) {
	if books, err = EncodeBooks(snap.Books); err != nil {
		return nil, nil, err
	}
	if snap.Profile != nil {
		if profile, err = EncodeProfile(snap.Profile); err != nil {
			return nil, nil, err
		}
	}
	return books, profile, nil
}

// DecodeSnapshot parses both raw records; a nil rawProfile means no profile.
func DecodeSnapshot(rawBooks, rawProfile []byte) (*Snapshot, error) {
	books, err := DecodeBooks(rawBooks)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Books: books}
	if rawProfile != nil {
		if snap.Profile, err = DecodeProfile(rawProfile); err != nil {
			return nil, err
		}
	}
	return snap, nil
}
