package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// GetEntry retrieves the cached entry for path. It returns nil without an
// error when there is none.
func (s *SQLiteStore) GetEntry(path string) (*Entry, error) {
	if s.db == nil {
		return nil, errNotOpen
	}

	e := &Entry{}
	var updated int64
	err := s.db.QueryRowContext(ctx(),
		`SELECT path, key, code, states, mutations, wrapped, effects, memos, updated_at
		 FROM entries WHERE path = ?`, path,
	).Scan(&e.Path, &e.Key, &e.Code, &e.States, &e.Mutations, &e.Wrapped, &e.Effects, &e.Memos, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	e.UpdatedAt = time.UnixMilli(updated).UTC()
	return e, nil
}

// PutEntry inserts or replaces the entry for e.Path.
func (s *SQLiteStore) PutEntry(e *Entry) error {
	if s.db == nil {
		return errNotOpen
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx(),
		`INSERT INTO entries (path, key, code, states, mutations, wrapped, effects, memos, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   key = excluded.key,
		   code = excluded.code,
		   states = excluded.states,
		   mutations = excluded.mutations,
		   wrapped = excluded.wrapped,
		   effects = excluded.effects,
		   memos = excluded.memos,
		   updated_at = excluded.updated_at`,
		e.Path, e.Key, e.Code, e.States, e.Mutations, e.Wrapped, e.Effects, e.Memos, e.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to put entry: %w", err)
	}
	s.logger.Debug("stored entry", slog.String("path", e.Path))
	return nil
}

// DeleteEntry removes the entry for path.
func (s *SQLiteStore) DeleteEntry(path string) error {
	if s.db == nil {
		return errNotOpen
	}
	if _, err := s.db.ExecContext(ctx(), `DELETE FROM entries WHERE path = ?`, path); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// ClearEntries removes every entry and returns how many there were.
func (s *SQLiteStore) ClearEntries() (int64, error) {
	if s.db == nil {
		return 0, errNotOpen
	}
	res, err := s.db.ExecContext(ctx(), `DELETE FROM entries`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear entries: %w", err)
	}
	return res.RowsAffected()
}

// CountEntries returns the number of cached entries.
func (s *SQLiteStore) CountEntries() (int64, error) {
	if s.db == nil {
		return 0, errNotOpen
	}
	var n int64
	if err := s.db.QueryRowContext(ctx(), `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}
