// Package game implements the authoritative room-progression state machine
// and its countdown. All mutations are funneled through one mutex-guarded
// entry point per operation, whether they originate from a player action or
// a timer tick.
package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stadtaev/escaperoom/internal/verify"
)

// Phase is the lifecycle state of a session.
type Phase int

const (
	Playing Phase = iota
	Won
	Lost
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return "unknown"
}

// Terminal reports whether all further inputs are rejected.
func (p Phase) Terminal() bool {
	return p == Won || p == Lost
}

var (
	ErrNotPlaying     = errors.New("game is not in play")
	ErrWrongRoom      = errors.New("not the active room")
	ErrRoomOutOfRange = errors.New("room index out of range")
	ErrAlreadySolved  = errors.New("room already solved")
	ErrCheckPending   = errors.New("a check for this room is already in flight")
	ErrNotSolved      = errors.New("room is not solved yet")
)

// Snapshot is the persisted session record.
type Snapshot struct {
	TimeLeftMs  int64        `json:"timeLeftMs"`
	Current     int          `json:"current"`
	Solved      map[int]bool `json:"solved"`
	HintsUsed   map[int]bool `json:"hintsUsed"`
	LastUpdated int64        `json:"lastUpdated"`
}

// Event is published to the presentation layer on every observable change.
type Event struct {
	Type       string `json:"type"`
	Room       int    `json:"room"`
	TimeLeftMs int64  `json:"timeLeftMs"`
	Phase      string `json:"phase"`
}

const (
	EventTick         = "tick"
	EventRoomSolved   = "room_solved"
	EventWrongAnswer  = "wrong_answer"
	EventHintRevealed = "hint_revealed"
	EventAdvanced     = "advanced"
	EventWon          = "won"
	EventLost         = "lost"
)

// Sink receives events. Publish must not block.
type Sink interface {
	Publish(Event)
}

// Saver persists session snapshots. Both methods are best-effort: the game
// keeps running in memory when storage fails.
type Saver interface {
	Save(Snapshot)
	Clear()
}

// Config carries the gameplay tunables.
type Config struct {
	Total       time.Duration
	HintPenalty time.Duration
	Tick        time.Duration
}

// Machine owns one session: the active room, solved and hint flags, and the
// countdown. Answer checking goes through a Verifier; a verifier error is a
// negative result, never a pass.
type Machine struct {
	mu        sync.Mutex
	cfg       Config
	roomCount int
	verifier  verify.Verifier
	saver     Saver
	sink      Sink

	phase     Phase
	current   int
	solved    map[int]bool
	hintsUsed map[int]bool
	inflight  map[int]bool

	finalSeconds int64
	countdown    *Countdown
}

func New(cfg Config, roomCount int, v verify.Verifier, saver Saver, sink Sink) *Machine {
	if cfg.Tick <= 0 {
		cfg.Tick = time.Second
	}
	m := &Machine{
		cfg:       cfg,
		roomCount: roomCount,
		verifier:  v,
		saver:     saver,
		sink:      sink,
		phase:     Playing,
		solved:    make(map[int]bool),
		hintsUsed: make(map[int]bool),
		inflight:  make(map[int]bool),
	}
	m.countdown = NewCountdown(cfg.Tick, m.handleTick, m.handleExpired)
	return m
}

// Start begins a fresh session with the full time budget.
func (m *Machine) Start() {
	m.countdown.Start(m.cfg.Total, m.cfg.Total)
}

// Resume restores a persisted session and restarts the countdown from the
// saved remaining time.
func (m *Machine) Resume(s Snapshot) {
	m.mu.Lock()
	m.current = s.Current
	if m.current < 0 || (m.roomCount > 0 && m.current >= m.roomCount) {
		m.current = 0
	}
	m.solved = make(map[int]bool, len(s.Solved))
	for k, v := range s.Solved {
		if v {
			m.solved[k] = true
		}
	}
	m.hintsUsed = make(map[int]bool, len(s.HintsUsed))
	for k, v := range s.HintsUsed {
		if v {
			m.hintsUsed[k] = true
		}
	}
	m.mu.Unlock()

	m.countdown.Start(m.cfg.Total, time.Duration(s.TimeLeftMs)*time.Millisecond)
}

// Stop halts the countdown without a phase transition. Used on shutdown.
func (m *Machine) Stop() {
	m.countdown.Stop()
}

// State is a read-only view for handlers.
type State struct {
	Phase        Phase
	TimeLeftMs   int64
	Current      int
	RoomCount    int
	Solved       map[int]bool
	HintsUsed    map[int]bool
	FinalSeconds int64
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		Phase:        m.phase,
		TimeLeftMs:   m.countdown.Remaining().Milliseconds(),
		Current:      m.current,
		RoomCount:    m.roomCount,
		Solved:       copyFlags(m.solved),
		HintsUsed:    copyFlags(m.hintsUsed),
		FinalSeconds: m.finalSeconds,
	}
}

// SubmitResult reports the outcome of an answer check.
type SubmitResult struct {
	Correct    bool
	Room       int
	LastRoom   bool
	TimeLeftMs int64
}

// SubmitAnswer checks an answer for the active room. At most one check per
// room may be in flight; the verification itself runs without the machine
// lock held so timer ticks are never blocked on the verifier. A result that
// arrives after the session reached a terminal phase is discarded.
func (m *Machine) SubmitAnswer(ctx context.Context, room int, answer string) (SubmitResult, error) {
	m.mu.Lock()
	if m.phase != Playing {
		m.mu.Unlock()
		return SubmitResult{}, ErrNotPlaying
	}
	if room < 0 || room >= m.roomCount {
		m.mu.Unlock()
		return SubmitResult{}, ErrRoomOutOfRange
	}
	if room != m.current {
		m.mu.Unlock()
		return SubmitResult{}, ErrWrongRoom
	}
	if m.solved[room] {
		m.mu.Unlock()
		return SubmitResult{}, ErrAlreadySolved
	}
	if m.inflight[room] {
		m.mu.Unlock()
		return SubmitResult{}, ErrCheckPending
	}
	m.inflight[room] = true
	m.mu.Unlock()

	ok, err := m.verifier.Verify(ctx, room, answer)
	if err != nil {
		// Fail closed: a verifier failure is an incorrect answer.
		ok = false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inflight, room)

	if m.phase != Playing {
		// Late arrival after win or loss: no mutation.
		return SubmitResult{}, ErrNotPlaying
	}

	res := SubmitResult{
		Correct:    ok,
		Room:       room,
		LastRoom:   room == m.roomCount-1,
		TimeLeftMs: m.countdown.Remaining().Milliseconds(),
	}
	if !ok {
		m.publish(Event{Type: EventWrongAnswer, Room: room, TimeLeftMs: res.TimeLeftMs, Phase: m.phase.String()})
		return res, nil
	}

	m.solved[room] = true
	m.saveLocked()
	m.publish(Event{Type: EventRoomSolved, Room: room, TimeLeftMs: res.TimeLeftMs, Phase: m.phase.String()})
	return res, nil
}

// HintResult reports whether the penalty was applied.
type HintResult struct {
	Applied    bool
	TimeLeftMs int64
}

// RequestHint marks the active room's hint as used and deducts the penalty.
// Asking again for a room whose hint was already used is a no-op, not an
// error, and costs nothing.
func (m *Machine) RequestHint(room int) (HintResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != Playing {
		return HintResult{}, ErrNotPlaying
	}
	if room < 0 || room >= m.roomCount {
		return HintResult{}, ErrRoomOutOfRange
	}
	if m.hintsUsed[room] {
		return HintResult{Applied: false, TimeLeftMs: m.countdown.Remaining().Milliseconds()}, nil
	}
	if room != m.current {
		return HintResult{}, ErrWrongRoom
	}

	m.hintsUsed[room] = true
	rem := m.countdown.ApplyPenalty(m.cfg.HintPenalty)
	m.saveLocked()
	m.publish(Event{Type: EventHintRevealed, Room: room, TimeLeftMs: rem.Milliseconds(), Phase: m.phase.String()})
	return HintResult{Applied: true, TimeLeftMs: rem.Milliseconds()}, nil
}

// AdvanceResult reports the room unlocked by an advance, or the win.
type AdvanceResult struct {
	Current int
	Won     bool
}

// Advance moves past a solved active room. Advancing past the last room wins
// the game. Advance is the only way current moves: solving a room never
// auto-advances.
func (m *Machine) Advance(room int) (AdvanceResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != Playing {
		return AdvanceResult{}, ErrNotPlaying
	}
	if room < 0 || room >= m.roomCount {
		return AdvanceResult{}, ErrRoomOutOfRange
	}
	if room != m.current {
		return AdvanceResult{}, ErrWrongRoom
	}
	if !m.solved[room] {
		return AdvanceResult{}, ErrNotSolved
	}

	if room+1 < m.roomCount {
		m.current = room + 1
		m.saveLocked()
		m.publish(Event{
			Type:       EventAdvanced,
			Room:       m.current,
			TimeLeftMs: m.countdown.Remaining().Milliseconds(),
			Phase:      m.phase.String(),
		})
		return AdvanceResult{Current: m.current}, nil
	}

	m.winLocked()
	return AdvanceResult{Current: m.current, Won: true}, nil
}

func (m *Machine) winLocked() {
	rem := m.countdown.Remaining()
	m.phase = Won
	m.finalSeconds = int64(rem / time.Second)
	m.countdown.Stop()
	if m.saver != nil {
		m.saver.Clear()
	}
	m.publish(Event{Type: EventWon, TimeLeftMs: rem.Milliseconds(), Phase: m.phase.String()})
}

// handleTick runs once per countdown interval: persist and broadcast the
// remaining time. Ticks after a terminal transition are ignored.
func (m *Machine) handleTick(rem time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != Playing {
		return
	}
	m.saveLocked()
	m.publish(Event{Type: EventTick, TimeLeftMs: rem.Milliseconds(), Phase: m.phase.String()})
}

// handleExpired transitions Playing to Lost regardless of progress.
func (m *Machine) handleExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != Playing {
		return
	}
	m.phase = Lost
	if m.saver != nil {
		m.saver.Clear()
	}
	m.publish(Event{Type: EventLost, Phase: m.phase.String()})
}

func (m *Machine) saveLocked() {
	if m.saver == nil {
		return
	}
	m.saver.Save(Snapshot{
		TimeLeftMs:  m.countdown.Remaining().Milliseconds(),
		Current:     m.current,
		Solved:      copyFlags(m.solved),
		HintsUsed:   copyFlags(m.hintsUsed),
		LastUpdated: time.Now().UnixMilli(),
	})
}

func (m *Machine) publish(e Event) {
	if m.sink != nil {
		m.sink.Publish(e)
	}
}

func copyFlags(src map[int]bool) map[int]bool {
	dst := make(map[int]bool, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
