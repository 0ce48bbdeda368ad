package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/conorfennell/hipo/internal/domain"
)

// cardsKey is the single key the whole collection lives under. Every Save
// replaces the value wholesale, which is exactly the last-writer-wins model
// the rest of the tool assumes.
const cardsKey = "hipo/cards/v1"

// BadgerStore keeps the card collection in an embedded Badger database.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLogger adapts slog to Badger's internal logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenBadger opens (or creates) a Badger database for card storage.
func OpenBadger(opts Options) (*BadgerStore, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, errors.New("badger storage requires a path")
		}
		bopts = badger.DefaultOptions(opts.Path)
	}

	if opts.Logger != nil {
		bopts = bopts.WithLogger(&badgerLogger{logger: opts.Logger})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BadgerStore{db: db, logger: logger}, nil
}

// Load reads the stored collection. A missing key or an undecodable value
// yields an empty collection rather than an error.
func (s *BadgerStore) Load(ctx context.Context) ([]domain.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cardsKey))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []domain.Card{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cards: %w", err)
	}

	var cards []domain.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		s.logger.Warn("stored cards are unreadable, starting empty", "error", err)
		return []domain.Card{}, nil
	}
	return cards, nil
}

// Save overwrites the stored collection with the given cards.
func (s *BadgerStore) Save(ctx context.Context, cards []domain.Card) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("failed to encode cards: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(cardsKey), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to write cards: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
