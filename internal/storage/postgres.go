package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/deusflow/dailydigest/internal/logger"
)

// PostgresHistory keeps sent links in PostgreSQL. It is used instead of the
// JSON file when a database URL is configured.
type PostgresHistory struct {
	db         *sql.DB
	maxEntries int
}

// SentLink is a stored history row.
type SentLink struct {
	Link   string
	SentAt time.Time
}

// NewPostgresHistory connects, pings and creates the schema if needed.
func NewPostgresHistory(ctx context.Context, connectionString string, maxEntries int) (*PostgresHistory, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	ph := &PostgresHistory{db: db, maxEntries: maxEntries}

	if err := ph.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("PostgreSQL history connected")
	return ph, nil
}

func (ph *PostgresHistory) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sent_links (
		id BIGSERIAL PRIMARY KEY,
		link TEXT UNIQUE NOT NULL,
		sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_sent_links_sent_at ON sent_links(sent_at);
	`

	if _, err := ph.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Load returns every stored link, oldest first.
func (ph *PostgresHistory) Load(ctx context.Context) (*SentLog, error) {
	rows, err := ph.db.QueryContext(ctx, `SELECT link FROM sent_links ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return NewSentLog(links...), nil
}

// Commit inserts links and keeps only the newest maxEntries rows, in one transaction.
func (ph *PostgresHistory) Commit(ctx context.Context, links []string) error {
	tx, err := ph.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sent_links (link, sent_at)
		VALUES ($1, NOW())
		ON CONFLICT (link) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, link := range NewSentLog(links...).Links() {
		if _, err := stmt.ExecContext(ctx, link); err != nil {
			return fmt.Errorf("failed to mark as sent: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM sent_links
		WHERE id NOT IN (SELECT id FROM sent_links ORDER BY id DESC LIMIT $1)
	`, ph.maxEntries)
	if err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logger.Debug("Trimmed history", "rows", n)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

// Recent returns the newest limit rows, newest first.
func (ph *PostgresHistory) Recent(ctx context.Context, limit int) ([]SentLink, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := ph.db.QueryContext(ctx, `
		SELECT link, sent_at
		FROM sent_links
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SentLink
	for rows.Next() {
		var item SentLink
		if err := rows.Scan(&item.Link, &item.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Close closes the database connection.
func (ph *PostgresHistory) Close() error {
	if ph.db != nil {
		return ph.db.Close()
	}
	return nil
}
