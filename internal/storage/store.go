package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/conorfennell/hipo/internal/domain"
)

// Store persists the card collection as a unit. Save fully overwrites the
// stored collection (last writer wins); Load returns an empty collection
// when nothing is stored or the stored data is unreadable.
type Store interface {
	Load(ctx context.Context) ([]domain.Card, error)
	Save(ctx context.Context, cards []domain.Card) error
	Close() error
}

// Options selects and configures a storage driver.
type Options struct {
	Driver   string // "badger" or "sqlite"
	Path     string // directory (badger) or database file (sqlite)
	InMemory bool   // badger only; used by tests
	Logger   *slog.Logger
}

// Open creates a Store for the configured driver.
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "badger":
		return OpenBadger(opts)
	case "sqlite":
		return OpenSQLite(opts.Path, opts.Logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
