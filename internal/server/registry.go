package server

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stadtaev/escaperoom/internal/game"
	"github.com/stadtaev/escaperoom/internal/rooms"
	"github.com/stadtaev/escaperoom/internal/verify"
)

// liveSession pairs a running machine with the room list it was started
// against. Room edits only affect sessions started afterwards.
type liveSession struct {
	machine        *game.Machine
	rooms          []rooms.Room
	scoreSubmitted bool
}

// Registry owns the live machines, keyed by session token. A token that is
// not in memory is restored from the store if a fresh-enough snapshot
// exists, so a server restart resumes sessions instead of resetting them.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*liveSession

	store     Store
	broker    *Broker
	logger    *slog.Logger
	gameCfg   game.Config
	maxAge    time.Duration
	verifyURL string
}

func NewRegistry(store Store, broker *Broker, logger *slog.Logger, gameCfg game.Config, maxAge time.Duration, verifyURL string) *Registry {
	return &Registry{
		sessions:  make(map[string]*liveSession),
		store:     store,
		broker:    broker,
		logger:    logger,
		gameCfg:   gameCfg,
		maxAge:    maxAge,
		verifyURL: verifyURL,
	}
}

// Start creates a fresh session with a new token and the full time budget.
func (r *Registry) Start(ctx context.Context) (string, *liveSession, error) {
	list, err := r.store.ListRooms(ctx)
	if err != nil {
		return "", nil, err
	}

	token := uuid.NewString()
	sess := r.newSession(token, list)
	sess.machine.Start()

	r.mu.Lock()
	r.sessions[token] = sess
	r.mu.Unlock()
	return token, sess, nil
}

// Get returns the live session for token, restoring it from a persisted
// snapshot when necessary. Absent or stale snapshots yield ErrNotFound.
func (r *Registry) Get(ctx context.Context, token string) (*liveSession, error) {
	r.mu.Lock()
	sess, ok := r.sessions[token]
	r.mu.Unlock()
	if ok {
		return sess, nil
	}

	snap, err := r.store.LoadSession(ctx, token, r.maxAge)
	if err != nil {
		return nil, err
	}

	list, err := r.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring the lock.
	if sess, ok := r.sessions[token]; ok {
		return sess, nil
	}

	sess = r.newSession(token, list)
	sess.machine.Resume(snap)
	r.sessions[token] = sess
	return sess, nil
}

// MarkScoreSubmitted records that the session posted its leaderboard entry.
// Returns false if the entry was already submitted.
func (r *Registry) MarkScoreSubmitted(sess *liveSession) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess.scoreSubmitted {
		return false
	}
	sess.scoreSubmitted = true
	return true
}

// Close stops every live countdown. Used on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, sess := range r.sessions {
		sess.machine.Stop()
		delete(r.sessions, token)
	}
}

func (r *Registry) newSession(token string, list []rooms.Room) *liveSession {
	return &liveSession{
		machine: game.New(
			r.gameCfg,
			len(list),
			r.newVerifier(list),
			storeSaver{store: r.store, id: token, logger: r.logger},
			brokerSink{broker: r.broker, id: token},
		),
		rooms: list,
	}
}

func (r *Registry) newVerifier(list []rooms.Room) verify.Verifier {
	if r.verifyURL != "" {
		return verify.NewClient(r.verifyURL)
	}
	return verify.NewLocal(verify.FromRooms(answerLists(list), os.Getenv))
}

func answerLists(list []rooms.Room) [][]string {
	lists := make([][]string, len(list))
	for i, room := range list {
		lists[i] = room.Answers
	}
	return lists
}

// storeSaver adapts Store to game.Saver. Persistence is a soft deterrent
// against timer resets, not a correctness requirement, so failures are
// logged and swallowed.
type storeSaver struct {
	store  Store
	id     string
	logger *slog.Logger
}

func (s storeSaver) Save(snap game.Snapshot) {
	if err := s.store.SaveSession(context.Background(), s.id, snap); err != nil {
		s.logger.Warn("session save failed", "session", s.id, "error", err)
	}
}

func (s storeSaver) Clear() {
	if err := s.store.ClearSession(context.Background(), s.id); err != nil {
		s.logger.Warn("session clear failed", "session", s.id, "error", err)
	}
}

// brokerSink adapts Broker to game.Sink.
type brokerSink struct {
	broker *Broker
	id     string
}

func (b brokerSink) Publish(e game.Event) {
	b.broker.Publish(b.id, e)
}
