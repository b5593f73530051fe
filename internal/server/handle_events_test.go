package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stadtaev/escaperoom/internal/game"
)

func TestHandleEventsStreams(t *testing.T) {
	store, _ := setupStore(t)
	if err := store.ReplaceRooms(context.Background(), testRoomList()); err != nil {
		t.Fatalf("seed rooms: %v", err)
	}

	broker := NewBroker()
	reg := NewRegistry(store, broker, testLogger(), testGameConfig(), time.Hour, "")
	t.Cleanup(reg.Close)

	token, _, err := reg.Start(context.Background())
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	h := handleEvents(reg, broker)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/game/events?token="+token, nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h(rec, req)
		close(done)
	}()

	// Give the handler time to subscribe before publishing.
	time.Sleep(20 * time.Millisecond)
	broker.Publish(token, game.Event{Type: game.EventRoomSolved, Room: 0, TimeLeftMs: 1000, Phase: "playing"})
	time.Sleep(20 * time.Millisecond)

	cancel()
	<-done

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("content-type = %q, want text/event-stream", got)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "event: state") {
		t.Errorf("body missing SSE event framing: %q", body)
	}
	if !strings.Contains(body, game.EventRoomSolved) {
		t.Errorf("body missing published event: %q", body)
	}
}

func TestHandleEventsRejectsMissingToken(t *testing.T) {
	store, _ := setupStore(t)
	broker := NewBroker()
	reg := NewRegistry(store, broker, testLogger(), testGameConfig(), time.Hour, "")
	t.Cleanup(reg.Close)

	h := handleEvents(reg, broker)

	req := httptest.NewRequest(http.MethodGet, "/api/game/events", nil)
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/game/events?token=bogus", nil)
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", rec.Code)
	}
}
