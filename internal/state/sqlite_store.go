package state

import (
	"database/sql"
	"fmt"
	"freegames/internal/models"
	"freegames/internal/providers"
	json "github.com/goccy/go-json"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps one row per scope. Save rewrites the table in a single
// transaction so a crash never leaves a half written snapshot behind.
type SQLiteStore struct {
	db     *sql.DB
	logger providers.Logger
	now    func() time.Time
}

func NewSQLiteStore(path string, logger providers.Logger) (*SQLiteStore, error) {
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS scope_state (
		scope_id TEXT PRIMARY KEY,
		state_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger, now: time.Now}, nil
}

func (s *SQLiteStore) Load() (*models.Snapshot, error) {
	rows, err := s.db.Query(`SELECT scope_id, state_json FROM scope_state`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := s.now().UTC()
	snapshot := models.NewSnapshot()
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var sc storedScope
		if err := json.Unmarshal([]byte(raw), &sc); err != nil {
			s.logger.Warnf(providers.TypeApp, "Skipping unreadable state row for scope %s: %s", id, err)
			continue
		}
		snapshot.Scopes[id], _ = sc.toScopeState(id, now)
	}
	return snapshot, rows.Err()
}

func (s *SQLiteStore) Save(snapshot *models.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err = tx.Exec(`DELETE FROM scope_state`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO scope_state (scope_id, state_json, updated_at) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	updatedAt := s.now().UTC().Format(time.RFC3339Nano)
	for id, st := range snapshot.Scopes {
		data, err := json.Marshal(st)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode scope %s: %w", id, err)
		}
		if _, err = stmt.Exec(id, string(data), updatedAt); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
