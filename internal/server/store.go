package server

import (
	"context"
	"errors"
	"time"

	"github.com/stadtaev/escaperoom/internal/game"
	"github.com/stadtaev/escaperoom/internal/rooms"
)

var ErrNotFound = errors.New("not found")

type adminSession struct {
	AdminID string
	Email   string
}

// ScoreEntry is one leaderboard row, created on a win and never mutated.
type ScoreEntry struct {
	Name             string `json:"name"`
	SecondsRemaining int64  `json:"secondsRemaining"`
	Date             string `json:"date"`
}

type Store interface {
	// Sessions. LoadSession returns ErrNotFound for absent, structurally
	// invalid, or stale records; stale records are removed on the way out.
	SaveSession(ctx context.Context, id string, snap game.Snapshot) error
	LoadSession(ctx context.Context, id string, maxAge time.Duration) (game.Snapshot, error)
	ClearSession(ctx context.Context, id string) error

	// Room content, ordered by position.
	ListRooms(ctx context.Context) ([]rooms.Room, error)
	ReplaceRooms(ctx context.Context, list []rooms.Room) error

	// Leaderboard.
	AddScore(ctx context.Context, e ScoreEntry) error
	ListScores(ctx context.Context) ([]ScoreEntry, error)

	// Admin auth.
	AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error)
	EnsureAdmin(ctx context.Context, email, passwordHash string) error
	CreateAdminSession(ctx context.Context, adminID string) (string, error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
}
