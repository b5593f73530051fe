package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stadtaev/escaperoom/internal/game"
)

func TestSessionRoundTrip(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	snap := game.Snapshot{
		TimeLeftMs:  (12 * time.Minute).Milliseconds(),
		Current:     2,
		Solved:      map[int]bool{0: true, 1: true},
		HintsUsed:   map[int]bool{1: true},
		LastUpdated: time.Now().UnixMilli(),
	}
	if err := store.SaveSession(ctx, "s1", snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.LoadSession(ctx, "s1", time.Hour)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.TimeLeftMs != snap.TimeLeftMs || got.Current != 2 {
		t.Errorf("unexpected snapshot: %+v", got)
	}
	if !got.Solved[0] || !got.Solved[1] || got.Solved[2] {
		t.Errorf("unexpected solved flags: %v", got.Solved)
	}
	if !got.HintsUsed[1] {
		t.Errorf("unexpected hint flags: %v", got.HintsUsed)
	}

	// Save again under the same id overwrites.
	snap.Current = 0
	if err := store.SaveSession(ctx, "s1", snap); err != nil {
		t.Fatalf("resave: %v", err)
	}
	got, _ = store.LoadSession(ctx, "s1", time.Hour)
	if got.Current != 0 {
		t.Errorf("expected overwrite, got current %d", got.Current)
	}
}

func TestLoadSessionAbsent(t *testing.T) {
	store, _ := setupStore(t)

	if _, err := store.LoadSession(context.Background(), "nope", time.Hour); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadSessionStaleIsDeleted(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	snap := game.Snapshot{
		TimeLeftMs:  1000,
		LastUpdated: time.Now().Add(-2 * time.Hour).UnixMilli(),
	}
	if err := store.SaveSession(ctx, "old", snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := store.LoadSession(ctx, "old", time.Hour); !errors.Is(err, ErrNotFound) {
		t.Fatalf("stale load: expected ErrNotFound, got %v", err)
	}

	// The stale record is gone even for a caller with a laxer window.
	if _, err := store.LoadSession(ctx, "old", 24*time.Hour); !errors.Is(err, ErrNotFound) {
		t.Errorf("after stale load: expected record deleted, got %v", err)
	}
}

func TestLoadSessionStructurallyInvalid(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	// A record without the remaining-time field is not a session.
	_, err := db.ExecContext(ctx, `
		INSERT INTO sessions (id, data, updated_at) VALUES (?, jsonb(?), ?)
	`, "junk", `{"current": 1}`, time.Now().UnixMilli())
	if err != nil {
		t.Fatalf("insert junk: %v", err)
	}

	if _, err := store.LoadSession(ctx, "junk", time.Hour); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for invalid record, got %v", err)
	}
}

func TestClearSession(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	snap := game.Snapshot{TimeLeftMs: 1000, LastUpdated: time.Now().UnixMilli()}
	if err := store.SaveSession(ctx, "s1", snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.ClearSession(ctx, "s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.LoadSession(ctx, "s1", time.Hour); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after clear, got %v", err)
	}

	// Clearing an absent session is not an error.
	if err := store.ClearSession(ctx, "s1"); err != nil {
		t.Errorf("double clear: %v", err)
	}
}

func TestRoomsRoundTrip(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	list, err := store.ListRooms(ctx)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no rooms initially, got %d", len(list))
	}

	if err := store.ReplaceRooms(ctx, testRoomList()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	list, err = store.ListRooms(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 rooms, got %d", len(list))
	}
	// Order is by position, not insertion luck.
	if list[0].Title != "Room 1" || list[2].Title != "Room 3" {
		t.Errorf("unexpected order: %q, %q, %q", list[0].Title, list[1].Title, list[2].Title)
	}
	if len(list[0].Answers) != 2 {
		t.Errorf("expected answers preserved, got %v", list[0].Answers)
	}
}

func TestScoresOrderedBestFirst(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	entries := []ScoreEntry{
		{Name: "Mid", SecondsRemaining: 300, Date: "2026-08-28"},
		{Name: "Best", SecondsRemaining: 900, Date: "2026-08-29"},
		{Name: "Worst", SecondsRemaining: 30, Date: "2026-08-29"},
	}
	for _, e := range entries {
		if err := store.AddScore(ctx, e); err != nil {
			t.Fatalf("add %q: %v", e.Name, err)
		}
	}

	scores, err := store.ListScores(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	want := []string{"Best", "Mid", "Worst"}
	for i, name := range want {
		if scores[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, scores[i].Name)
		}
	}
}

func TestEnsureAdminUpdatesHash(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	if err := store.EnsureAdmin(ctx, "a@b.c", "hash1"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	id1, hash, err := store.AdminByEmail(ctx, "a@b.c")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if hash != "hash1" {
		t.Errorf("expected hash1, got %q", hash)
	}

	// Re-ensuring with a new hash rotates the credential, keeps the account.
	if err := store.EnsureAdmin(ctx, "a@b.c", "hash2"); err != nil {
		t.Fatalf("re-ensure: %v", err)
	}
	id2, hash, _ := store.AdminByEmail(ctx, "a@b.c")
	if hash != "hash2" {
		t.Errorf("expected hash2, got %q", hash)
	}
	if id1 != id2 {
		t.Errorf("expected stable admin id, got %q then %q", id1, id2)
	}
}

func TestAdminSessions(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	if err := store.EnsureAdmin(ctx, "a@b.c", "hash"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	adminID, _, _ := store.AdminByEmail(ctx, "a@b.c")

	sessionID, err := store.CreateAdminSession(ctx, adminID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	sess, err := store.AdminFromSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("from session: %v", err)
	}
	if sess.Email != "a@b.c" || sess.AdminID != adminID {
		t.Errorf("unexpected session: %+v", sess)
	}

	if err := store.DeleteAdminSession(ctx, sessionID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := store.AdminFromSession(ctx, sessionID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
