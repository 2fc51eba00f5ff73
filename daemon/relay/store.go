// Copyright (C) 2024-2025 solkit contributors
// This file is part of solkit
//
// solkit is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// solkit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with solkit.  If not, see <https://www.gnu.org/licenses/>.

package relay

import (
	"context"
	"errors"
	"time"

	"github.com/algorand/go-deadlock"
	"github.com/google/uuid"

	"github.com/solkit/solkit/util/metrics"
	"github.com/solkit/solkit/util/timers"
)

// ErrNotFound is returned for ids the store does not hold, including expired ones.
var ErrNotFound = errors.New("no partial transaction with that id")

type entry struct {
	encoded string
	expires time.Duration
}

// Store keeps encoded drafts in memory until they are deleted or expire.
type Store struct {
	mu      deadlock.Mutex
	entries map[string]entry
	ttl     time.Duration
	clock   timers.Clock

	stored  *metrics.Counter
	expired *metrics.Counter
}

// MakeStore creates a store whose entries live for ttl.
func MakeStore(ttl time.Duration, clock timers.Clock) *Store {
	if clock == nil {
		clock = timers.MakeMonotonicClock(time.Now())
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   clock,
		stored:  metrics.MakeCounter(metrics.RelayPartialsStored),
		expired: metrics.MakeCounter(metrics.RelayPartialsExpired),
	}
}

// RegisterMetrics adds the store counters to reg.
func (s *Store) RegisterMetrics(reg *metrics.Registry) error {
	if err := s.stored.Register(reg); err != nil {
		return err
	}
	return s.expired.Register(reg)
}

// Put stores encoded under a fresh id.
func (s *Store) Put(encoded string) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.entries[id] = entry{encoded: encoded, expires: s.clock.Since() + s.ttl}
	s.mu.Unlock()
	s.stored.Inc()
	return id
}

// Get returns the draft stored under id.
func (s *Store) Get(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || e.expires <= s.clock.Since() {
		return "", ErrNotFound
	}
	return e.encoded, nil
}

// Delete drops the draft stored under id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

// Len returns the number of drafts held, expired ones included until the next sweep.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops expired drafts and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Since()
	n := 0
	for id, e := range s.entries {
		if e.expires <= now {
			delete(s.entries, id)
			n++
		}
	}
	s.expired.AddUint64(uint64(n))
	return n
}

// SweepLoop sweeps every interval until ctx is done.
func (s *Store) SweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
