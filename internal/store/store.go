package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/nightstandapp/nightstand-server/internal/domain"
)

// Badger is the default Store, backed by an embedded Badger database.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ Store = (*Badger)(nil)

// New opens (or creates) a Badger store in the directory at path.
func New(path string, logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Every write is a whole-record replacement; make it durable
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}
	return &Badger{db: db, logger: logger}, nil
}

// Close gracefully closes the database connection.
func (s *Badger) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// get returns the raw value at key, or nil if absent.
func get(txn *badger.Txn, key string) ([]byte, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (s *Badger) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

func (s *Badger) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(fn)
}

// LoadBooks reads the whole collection.
func (s *Badger) LoadBooks(ctx context.Context) ([]domain.Book, error) {
	var raw []byte
	err := s.view(ctx, func(txn *badger.Txn) error {
		var err error
		raw, err = get(txn, KeyBooks)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	return DecodeBooks(raw)
}

// SaveBooks replaces the whole collection.
func (s *Badger) SaveBooks(ctx context.Context, books []domain.Book) error {
	data, err := EncodeBooks(books)
	if err != nil {
		return err
	}
	if err := s.update(ctx, func(txn *badger.Txn) error {
		return txn.Set([]byte(KeyBooks), data)
	}); err != nil {
		return fmt.Errorf("save books: %w", err)
	}
	return nil
}

// ClearBooks deletes the collection record.
func (s *Badger) ClearBooks(ctx context.Context) error {
	if err := s.update(ctx, func(txn *badger.Txn) error {
		return txn.Delete([]byte(KeyBooks))
	}); err != nil {
		return fmt.Errorf("clear books: %w", err)
	}
	return nil
}

// LoadProfile reads the profile. Returns ErrProfileNotFound if none exists.
func (s *Badger) LoadProfile(ctx context.Context) (*domain.UserProfile, error) {
	var raw []byte
	err := s.view(ctx, func(txn *badger.Txn) error {
		var err error
		raw, err = get(txn, KeyProfile)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if raw == nil {
		return nil, ErrProfileNotFound
	}
	return DecodeProfile(raw)
}

// SaveProfile replaces the profile.
func (s *Badger) SaveProfile(ctx context.Context, profile *domain.UserProfile) error {
	data, err := EncodeProfile(profile)
	if err != nil {
		return err
	}
	if err := s.update(ctx, func(txn *badger.Txn) error {
		return txn.Set([]byte(KeyProfile), data)
	}); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// ClearProfile deletes the profile record.
func (s *Badger) ClearProfile(ctx context.Context) error {
	if err := s.update(ctx, func(txn *badger.Txn) error {
		return txn.Delete([]byte(KeyProfile))
	}); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}

// LoadSnapshot reads both records from a single read transaction.
func (s *Badger) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	var rawBooks, rawProfile []byte
	err := s.view(ctx, func(txn *badger.Txn) error {
		var err error
		if rawBooks, err = get(txn, KeyBooks); err != nil {
			return err
		}
		rawProfile, err = get(txn, KeyProfile)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return DecodeSnapshot(rawBooks, rawProfile)
}

// SaveSnapshot replaces both records in one transaction: either both are
// written or neither is.
func (s *Badger) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	books, profile, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	err = s.update(ctx, func(txn *badger.Txn) error {
		if err := txn.Set([]byte(KeyBooks), books); err != nil {
			return err
		}
		if profile == nil {
			return txn.Delete([]byte(KeyProfile))
		}
		return txn.Set([]byte(KeyProfile), profile)
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Clear deletes both records in one transaction.
func (s *Badger) Clear(ctx context.Context) error {
	err := s.update(ctx, func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(KeyBooks)); err != nil {
			return err
		}
		return txn.Delete([]byte(KeyProfile))
	})
	if err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	if s.logger != nil {
		s.logger.Warn("store cleared")
	}
	return nil
}
