package gapminder

import (
	"context"
	"time"
)

// Playback: the session steps through the dataset's distinct years at a
// fixed cadence and halts at the final year rather than looping. The
// ticker goroutine never touches state directly; each tick is queued
// through do(), so a stop that lands first makes later ticks no-ops.

// StartPlayback begins advancing the current year once per tick
// interval. Starting at the final year leaves the session stopped.
func (s *Session) StartPlayback() (Snapshot, error) {
	var snap Snapshot
	err := s.do(func() {
		s.start()
		snap = s.snapshot()
	})
	return snap, err
}

func (s *Session) start() {
	if s.playback.IsPlaying {
		return
	}
	if _, ok := s.ds.NextYear(s.playback.CurrentYear); !ok {
		return
	}
	s.playback.IsPlaying = true
	ctx, cancel := context.WithCancel(context.Background())
	s.tickCancel = cancel
	go s.runTicker(ctx)
	s.notify("playback.started")
}

func (s *Session) runTicker(ctx context.Context) {
	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.do(s.advance); err != nil {
				return
			}
		}
	}
}

// advance moves the cursor to the next distinct year. Reaching the
// final year stops playback in the same action, so the cursor never
// wraps and never leaves the dataset's year set.
func (s *Session) advance() {
	if !s.playback.IsPlaying {
		return
	}
	next, ok := s.ds.NextYear(s.playback.CurrentYear)
	if !ok {
		s.stop()
		s.notify("playback.stopped")
		return
	}
	s.playback.CurrentYear = next
	if _, more := s.ds.NextYear(next); !more {
		s.stop()
	}
	s.notify("playback.tick")
}

// StopPlayback halts the ticker. Any tick already queued behind this
// action finds IsPlaying false and changes nothing.
func (s *Session) StopPlayback() (Snapshot, error) {
	var snap Snapshot
	err := s.do(func() {
		if s.playback.IsPlaying {
			s.stop()
			s.notify("playback.stopped")
		}
		snap = s.snapshot()
	})
	return snap, err
}

func (s *Session) stop() {
	if s.tickCancel != nil {
		s.tickCancel()
		s.tickCancel = nil
	}
	s.playback.IsPlaying = false
}

// Scrub moves the cursor to the dataset year nearest to year. Scrubbing
// while playing is allowed; the next tick advances from the new cursor.
func (s *Session) Scrub(year int) (Snapshot, error) {
	var snap Snapshot
	err := s.do(func() {
		s.playback.CurrentYear = s.ds.NearestYear(year)
		s.notify("playback.scrubbed")
		snap = s.snapshot()
	})
	return snap, err
}
