package gapminder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionClosed = errors.New("session closed")

// Snapshot is the read-only view of a session handed to consumers.
type Snapshot struct {
	ID       string        `json:"id"`
	Filter   FilterState   `json:"filter"`
	Chart    ChartConfig   `json:"chart"`
	Playback PlaybackState `json:"playback"`
	Stats    Stats         `json:"stats"`
}

// Publisher broadcasts a committed mutation to interested parties
// (Redis in production, nil-safe in tests).
type Publisher func(ctx context.Context, eventType string, payload any)

// Session owns one client's FilterState, ChartConfig and PlaybackState.
// All mutations funnel through a single goroutine via do(), so they
// apply strictly in arrival order and no locking of the state itself is
// needed. The dataset is shared and immutable.
type Session struct {
	ID string

	ds        *Dataset
	tickEvery time.Duration
	publish   Publisher

	actions   chan func()
	closed    chan struct{}
	closeOnce sync.Once

	// Owned by the run goroutine. Never touched from outside do().
	filter     FilterState
	chart      ChartConfig
	playback   PlaybackState
	tickCancel context.CancelFunc
	subs       map[int]chan Snapshot
	nextSubID  int
}

func NewSession(ds *Dataset, tickEvery time.Duration, publish Publisher) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		ds:        ds,
		tickEvery: tickEvery,
		publish:   publish,
		actions:   make(chan func(), 16),
		closed:    make(chan struct{}),
		subs:      make(map[int]chan Snapshot),
		filter:    ds.DefaultFilter(),
		chart:     DefaultChartConfig(),
		playback:  PlaybackState{CurrentYear: ds.MaxYear()},
	}
	go s.run()
	return s
}

func (s *Session) run() {
	for {
		select {
		case fn := <-s.actions:
			fn()
		case <-s.closed:
			s.stop()
			for _, ch := range s.subs {
				close(ch)
			}
			return
		}
	}
}

// do executes fn on the owner goroutine and waits for it to finish.
func (s *Session) do(fn func()) error {
	done := make(chan struct{})
	select {
	case s.actions <- func() { fn(); close(done) }:
	case <-s.closed:
		return ErrSessionClosed
	}
	select {
	case <-done:
		return nil
	case <-s.closed:
		return ErrSessionClosed
	}
}

func (s *Session) snapshot() Snapshot {
	filtered := Apply(s.ds.Records, s.filter)
	return Snapshot{
		ID:       s.ID,
		Filter:   s.filter,
		Chart:    s.chart,
		Playback: s.playback,
		Stats:    ComputeStats(filtered, s.playback.CurrentYear),
	}
}

// notify fans the current snapshot out to subscribers and the publisher.
// Slow subscribers drop snapshots rather than stall the owner loop.
func (s *Session) notify(eventType string) {
	snap := s.snapshot()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	if s.publish != nil {
		s.publish(context.Background(), eventType, snap)
	}
}

// Snapshot returns the current state, including stats over the
// filtered set sliced at the current year.
func (s *Session) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := s.do(func() { snap = s.snapshot() })
	return snap, err
}

// UpdateFilter replaces the whole filter state. Ranges with min > max
// are repaired by swapping before commit, never rejected.
func (s *Session) UpdateFilter(f FilterState) (Snapshot, error) {
	var snap Snapshot
	err := s.do(func() {
		s.filter = f.Normalized()
		s.notify("session.updated")
		snap = s.snapshot()
	})
	return snap, err
}

// SetChart replaces the chart configuration. Callers validate first.
func (s *Session) SetChart(c ChartConfig) (Snapshot, error) {
	var snap Snapshot
	err := s.do(func() {
		s.chart = c
		s.notify("session.updated")
		snap = s.snapshot()
	})
	return snap, err
}

// Subscribe registers a snapshot channel notified on every committed
// mutation. The returned cancel removes the subscription; the channel
// is closed when the session closes.
func (s *Session) Subscribe() (<-chan Snapshot, func(), error) {
	ch := make(chan Snapshot, 8)
	var id int
	err := s.do(func() {
		id = s.nextSubID
		s.nextSubID++
		s.subs[id] = ch
	})
	if err != nil {
		return nil, nil, err
	}
	cancel := func() {
		_ = s.do(func() {
			if _, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(ch)
			}
		})
	}
	return ch, cancel, nil
}

// Close shuts the session down and cancels any running playback.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Sessions is a registry of live sessions keyed by ID.
type Sessions struct {
	mu sync.Mutex
	m  map[string]*Session
}

func NewSessions() *Sessions {
	return &Sessions{m: make(map[string]*Session)}
}

func (r *Sessions) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[s.ID] = s
}

func (r *Sessions) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[id]
	return s, ok
}

func (r *Sessions) Remove(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[id]
	if ok {
		delete(r.m, id)
	}
	return s, ok
}
