package server

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/stadtaev/escaperoom/internal/rooms"
)

// SeedRooms populates the room list on first start. Idempotent: does
// nothing if rooms already exist. A rooms file takes precedence over the
// built-in defaults; a missing or malformed file falls back silently.
func SeedRooms(ctx context.Context, logger *slog.Logger, store Store, roomsPath string) error {
	existing, err := store.ListRooms(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	list := rooms.LoadFile(roomsPath)
	source := "file"
	if list == nil {
		list = rooms.Defaults()
		source = "defaults"
	}
	if err := rooms.Validate(list); err != nil {
		return fmt.Errorf("seed rooms: %w", err)
	}

	if err := store.ReplaceRooms(ctx, list); err != nil {
		return err
	}
	logger.Info("rooms seeded", "count", len(list), "source", source)
	return nil
}

// SeedAdmin ensures an admin account exists with the given credentials.
// No-op when either value is blank.
func SeedAdmin(ctx context.Context, logger *slog.Logger, store Store, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	if err := store.EnsureAdmin(ctx, email, string(hash)); err != nil {
		return err
	}
	logger.Info("admin account ensured", "email", email)
	return nil
}
