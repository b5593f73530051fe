package server

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stadtaev/escaperoom/internal/rooms"
)

func TestSeedRoomsDefaults(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	if err := SeedRooms(ctx, testLogger(), store, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}

	list, err := store.ListRooms(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != len(rooms.Defaults()) {
		t.Errorf("expected %d default rooms, got %d", len(rooms.Defaults()), len(list))
	}
}

func TestSeedRoomsFromFile(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "rooms.json")
	data, _ := json.Marshal(testRoomList())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := SeedRooms(ctx, testLogger(), store, path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	list, _ := store.ListRooms(ctx)
	if len(list) != 3 || list[0].Title != "Room 1" {
		t.Errorf("expected the file's rooms, got %v", list)
	}
}

func TestSeedRoomsIdempotent(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	if err := store.ReplaceRooms(ctx, testRoomList()); err != nil {
		t.Fatalf("pre-seed: %v", err)
	}
	if err := SeedRooms(ctx, testLogger(), store, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Existing rooms are never overwritten by seeding.
	list, _ := store.ListRooms(ctx)
	if len(list) != 3 {
		t.Errorf("expected existing 3 rooms untouched, got %d", len(list))
	}
}

func TestSeedAdminSkipsBlankCredentials(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	if err := SeedAdmin(ctx, testLogger(), store, "", ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := store.AdminByEmail(ctx, ""); err == nil {
		t.Error("expected no admin created for blank credentials")
	}
}
