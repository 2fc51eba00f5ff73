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

package vanity

import (
	"sync/atomic"
	"time"

	"github.com/algorand/go-deadlock"

	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/logging"
	"github.com/solkit/solkit/util/metrics"
	"github.com/solkit/solkit/util/timers"
)

// Match is a keypair whose address satisfied the patterns, in the ledger's
// original-case base-58 forms.
type Match struct {
	Address    string `codec:"address"`
	PrivateKey string `codec:"privateKey"`
}

// Session owns one search: its patterns, randomness source, start time and
// the matches found so far.
type Session struct {
	patterns Patterns
	rng      crypto.RNG
	clock    timers.Clock
	log      logging.Logger

	attempts  atomic.Uint64
	generated *metrics.Counter
	matched   *metrics.Counter

	mu      deadlock.Mutex
	results []Match
}

// Option configures a Session.
type Option func(*Session) error

// WithClock replaces the monotonic clock used for Elapsed.
func WithClock(c timers.Clock) Option {
	return func(s *Session) error {
		s.clock = c
		return nil
	}
}

// WithLogger sets the logger matches are reported to.
func WithLogger(log logging.Logger) Option {
	return func(s *Session) error {
		s.log = log
		return nil
	}
}

// WithRegistry registers the session counters with reg.
func WithRegistry(reg *metrics.Registry) Option {
	return func(s *Session) error {
		if err := s.generated.Register(reg); err != nil {
			return err
		}
		return s.matched.Register(reg)
	}
}

// NewSession validates patterns and starts the session clock. Nothing is
// generated until Step is called.
func NewSession(patterns Patterns, rng crypto.RNG, opts ...Option) (*Session, error) {
	if err := patterns.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = crypto.SystemRNG
	}
	s := &Session{
		patterns:  patterns,
		rng:       rng,
		clock:     timers.MakeMonotonicClock(time.Now()),
		log:       logging.Base(),
		generated: metrics.MakeCounter(metrics.VanityKeysGenerated),
		matched:   metrics.MakeCounter(metrics.VanityMatches),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.clock = s.clock.Zero()
	return s, nil
}

// Patterns returns the patterns the session searches for.
func (s *Session) Patterns() Patterns {
	return s.patterns
}

// Step generates one keypair and records it when its address matches. It
// returns the new match, or nil when the keypair did not match.
func (s *Session) Step() (*Match, error) {
	kp, err := crypto.GenerateKeypair(s.rng)
	if err != nil {
		return nil, err
	}
	s.attempts.Add(1)
	s.generated.Inc()

	address := kp.PublicKey.String()
	if !Matches(address, s.patterns) {
		return nil, nil
	}
	m := Match{Address: address, PrivateKey: kp.PrivateKeyBase58()}
	s.mu.Lock()
	s.results = append(s.results, m)
	s.mu.Unlock()
	s.matched.Inc()
	s.log.With("attempts", s.attempts.Load()).Infof("found %s", address)
	return &m, nil
}

// Results returns a copy of the matches in the order they were found.
func (s *Session) Results() []Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Match(nil), s.results...)
}

// Attempts returns the number of keypairs generated so far.
func (s *Session) Attempts() uint64 {
	return s.attempts.Load()
}

// Elapsed returns the time since the session started.
func (s *Session) Elapsed() time.Duration {
	return s.clock.Since()
}
