package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/stadtaev/escaperoom/internal/game"
	"github.com/stadtaev/escaperoom/internal/rooms"
)

// SQLiteStore persists sessions, room content, leaderboard scores, and admin
// accounts. Session snapshots and rooms are stored as JSONB documents.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Sessions

func (s *SQLiteStore) SaveSession(ctx context.Context, id string, snap game.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions (id, data, updated_at)
		VALUES (?, jsonb(?), ?)
	`, id, string(data), snap.LastUpdated)
	return err
}

// sessionProbe checks structural validity before the snapshot is trusted:
// a record without a numeric remaining-time field is treated as absent.
type sessionProbe struct {
	TimeLeftMs *int64 `json:"timeLeftMs"`
}

func (s *SQLiteStore) LoadSession(ctx context.Context, id string, maxAge time.Duration) (game.Snapshot, error) {
	var data string
	var updatedAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT json(data), updated_at FROM sessions WHERE id = ?
	`, id).Scan(&data, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return game.Snapshot{}, err
	}

	var probe sessionProbe
	if err := json.Unmarshal([]byte(data), &probe); err != nil || probe.TimeLeftMs == nil {
		return game.Snapshot{}, ErrNotFound
	}

	if time.Since(time.UnixMilli(updatedAt)) > maxAge {
		// Stale restore is a policy outcome, not an error: drop the record
		// and report it absent so the caller starts fresh.
		s.ClearSession(ctx, id)
		return game.Snapshot{}, ErrNotFound
	}

	var snap game.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return game.Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (s *SQLiteStore) ClearSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// Rooms

func (s *SQLiteStore) ListRooms(ctx context.Context) ([]rooms.Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT json(data) FROM rooms ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []rooms.Room
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r rooms.Room
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (s *SQLiteStore) ReplaceRooms(ctx context.Context, list []rooms.Room) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms`); err != nil {
		return err
	}
	for i, r := range list {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rooms (position, data) VALUES (?, jsonb(?))
		`, i, string(data)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Leaderboard

func (s *SQLiteStore) AddScore(ctx context.Context, e ScoreEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (name, seconds_remaining, created_on)
		VALUES (?, ?, ?)
	`, e.Name, e.SecondsRemaining, e.Date)
	return err
}

func (s *SQLiteStore) ListScores(ctx context.Context) ([]ScoreEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, seconds_remaining, created_on
		FROM scores
		ORDER BY seconds_remaining DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		if err := rows.Scan(&e.Name, &e.SecondsRemaining, &e.Date); err != nil {
			return nil, err
		}
		scores = append(scores, e)
	}
	return scores, rows.Err()
}

// Admin auth

func (s *SQLiteStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	var adminID, passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM admins WHERE email = ?
	`, email).Scan(&adminID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return adminID, passwordHash, err
}

func (s *SQLiteStore) EnsureAdmin(ctx context.Context, email, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash)
		VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET password_hash = excluded.password_hash
	`, uuid.NewString(), email, passwordHash)
	return err
}

func (s *SQLiteStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	sessionID := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (id, admin_id) VALUES (?, ?)
	`, sessionID, adminID)
	return sessionID, err
}

func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var sess adminSession
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.AdminID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, ErrNotFound
	}
	return sess, err
}

// Ensure SQLiteStore implements Store at compile time.
var _ Store = (*SQLiteStore)(nil)
