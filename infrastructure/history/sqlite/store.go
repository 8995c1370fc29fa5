// ABOUTME: SQLite-backed recent search history for persistence across restarts
// ABOUTME: Inserts each search and deletes rows beyond the configured capacity

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultCapacity is how many entries are kept when none is configured
const DefaultCapacity = 50

// Store implements interfaces.HistoryStore using SQLite
type Store struct {
	db       *sql.DB
	filePath string
	capacity int
}

// NewStore opens (or creates) the history database at filePath
func NewStore(filePath string, capacity int) (*Store, error) {
	if filePath == "" {
		filePath = "history.db"
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	store := &Store{db: db, filePath: filePath, capacity: capacity}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates the history table if it doesn't exist
func (s *Store) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS recent_searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			searched_at INTEGER NOT NULL,
			result_count INTEGER NOT NULL,
			bestseller_count INTEGER NOT NULL,
			trending_count INTEGER NOT NULL
		);
	`
	_, err := s.db.Exec(query)
	return err
}

// Append records a search and drops the oldest rows beyond capacity
func (s *Store) Append(ctx context.Context, entry domain.RecentSearch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recent_searches (query, searched_at, result_count, bestseller_count, trending_count)
		VALUES (?, ?, ?, ?, ?)
	`, entry.Query, entry.Timestamp.UnixNano(), entry.ResultCount, entry.BestsellerCount, entry.TrendingCount)
	if err != nil {
		return fmt.Errorf("failed to insert recent search: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM recent_searches
		WHERE id NOT IN (SELECT id FROM recent_searches ORDER BY id DESC LIMIT ?)
	`, s.capacity)
	if err != nil {
		return fmt.Errorf("failed to trim recent searches: %w", err)
	}

	return tx.Commit()
}

// List returns up to limit entries, most recent first
func (s *Store) List(ctx context.Context, limit int) ([]domain.RecentSearch, error) {
	if limit <= 0 || limit > s.capacity {
		limit = s.capacity
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT query, searched_at, result_count, bestseller_count, trending_count
		FROM recent_searches ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent searches: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.RecentSearch, 0, limit)
	for rows.Next() {
		var entry domain.RecentSearch
		var searchedAt int64
		if err := rows.Scan(&entry.Query, &searchedAt, &entry.ResultCount, &entry.BestsellerCount, &entry.TrendingCount); err != nil {
			return nil, fmt.Errorf("failed to scan recent search: %w", err)
		}
		entry.Timestamp = time.Unix(0, searchedAt).UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM recent_searches").Scan(&count)
	return count, err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
