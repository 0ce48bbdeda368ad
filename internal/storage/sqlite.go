package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/conorfennell/hipo/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

const schema = `
-- The 'cards' table stores one row per saved note plus its review state.
-- 'position' preserves the collection order (newest first).
CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    content TEXT NOT NULL,
    title TEXT NOT NULL,
    summary TEXT NOT NULL,
    keywords TEXT NOT NULL, -- JSON array of strings
    question TEXT NOT NULL,
    created_at INTEGER NOT NULL,     -- unix milliseconds
    next_review_at INTEGER NOT NULL, -- unix milliseconds
    interval REAL NOT NULL,
    review_count INTEGER NOT NULL,
    status TEXT NOT NULL
);
`

// SQLiteStore keeps the card collection in a SQLite database.
type SQLiteStore struct {
	conn   *sql.DB
	logger *slog.Logger
}

// OpenSQLite creates a new database connection and ensures the schema is up
// to date.
func OpenSQLite(dsn string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{conn: db, logger: logger}, nil
}

// Load reads the stored collection in position order. Rows that fail to
// decode are skipped with a warning so one bad row cannot wedge the tool.
func (s *SQLiteStore) Load(ctx context.Context) ([]domain.Card, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, content, title, summary, keywords, question,
		       created_at, next_review_at, interval, review_count, status
		FROM cards ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	cards := []domain.Card{}
	for rows.Next() {
		var (
			c            domain.Card
			keywordsJSON string
			createdAt    int64
			nextReviewAt int64
			status       string
		)
		if err := rows.Scan(
			&c.ID,
			&c.Content,
			&c.Title,
			&c.Summary,
			&keywordsJSON,
			&c.Question,
			&createdAt,
			&nextReviewAt,
			&c.Interval,
			&c.ReviewCount,
			&status,
		); err != nil {
			s.logger.Warn("skipping unreadable card row", "error", err)
			continue
		}
		if err := json.Unmarshal([]byte(keywordsJSON), &c.Keywords); err != nil {
			s.logger.Warn("skipping card with unreadable keywords", "id", c.ID, "error", err)
			continue
		}
		c.CreatedAt = time.UnixMilli(createdAt)
		c.NextReviewAt = time.UnixMilli(nextReviewAt)
		c.Status = domain.Status(status)
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read card rows: %w", err)
	}
	return cards, nil
}

// Save replaces the stored collection with the given cards in one
// transaction.
func (s *SQLiteStore) Save(ctx context.Context, cards []domain.Card) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("failed to clear cards: %w", err)
	}

	for i, c := range cards {
		keywords := c.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		keywordsJSON, err := json.Marshal(keywords)
		if err != nil {
			return fmt.Errorf("failed to encode keywords for card %s: %w", c.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cards (id, position, content, title, summary, keywords, question,
			                   created_at, next_review_at, interval, review_count, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			c.ID,
			i,
			c.Content,
			c.Title,
			c.Summary,
			string(keywordsJSON),
			c.Question,
			c.CreatedAt.UnixMilli(),
			c.NextReviewAt.UnixMilli(),
			c.Interval,
			c.ReviewCount,
			string(c.Status),
		); err != nil {
			return fmt.Errorf("failed to insert card %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cards: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
