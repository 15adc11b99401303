package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/codetrail/codetrail/internal/logger"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

// Store defines the interface for session record persistence.
type Store interface {
	SaveRecord(rec *Record) error
	RecentRecords(limit int) ([]*Record, error)
	CleanupOldRecords(ttl time.Duration) (int64, error)
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-backed session store. An empty path
// defaults to ~/.codetrail/sessions.db.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, ".codetrail", "sessions.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	// WAL mode for better concurrency with a tracker running alongside.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Debug().
		Str("path", dbPath).
		Msg("Opened session store")

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		work_dir TEXT,
		branch TEXT,
		last_commit TEXT,
		diff TEXT,
		files TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_records_created ON records(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRecord stores a session record.
func (s *SQLiteStore) SaveRecord(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filesJSON, err := json.Marshal(rec.Files)
	if err != nil {
		return fmt.Errorf("failed to marshal file list: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO records (id, created_at, work_dir, branch, last_commit, diff, files)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Timestamp.Unix(),
		rec.WorkDir,
		rec.Branch,
		rec.LastCommit,
		rec.Diff,
		string(filesJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to store session record: %w", err)
	}

	return nil
}

// RecentRecords returns the most recent records, newest first.
func (s *SQLiteStore) RecentRecords(limit int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, created_at, work_dir, branch, last_commit, diff, files
		 FROM records
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query session records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*Record
	for rows.Next() {
		var rec Record
		var createdAt int64
		var filesJSON sql.NullString

		if err := rows.Scan(&rec.ID, &createdAt, &rec.WorkDir, &rec.Branch, &rec.LastCommit, &rec.Diff, &filesJSON); err != nil {
			return nil, fmt.Errorf("failed to scan session record: %w", err)
		}

		rec.Timestamp = time.Unix(createdAt, 0)
		if filesJSON.Valid && filesJSON.String != "" {
			if err := json.Unmarshal([]byte(filesJSON.String), &rec.Files); err != nil {
				logger.Debug().Err(err).Msg("Failed to unmarshal file list")
			}
		}

		records = append(records, &rec)
	}

	return records, rows.Err()
}

// CleanupOldRecords removes records older than the given TTL.
func (s *SQLiteStore) CleanupOldRecords(ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-ttl).Unix()

	result, err := s.db.Exec("DELETE FROM records WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old records: %w", err)
	}

	deleted, _ := result.RowsAffected()
	if deleted > 0 {
		logger.Debug().
			Int64("deleted", deleted).
			Str("ttl", ttl.String()).
			Msg("Cleaned up old session records")
	}

	return deleted, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
