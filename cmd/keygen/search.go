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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/solkit/solkit/config"
	"github.com/solkit/solkit/crypto"
	"github.com/solkit/solkit/keystore"
	"github.com/solkit/solkit/util/metrics"
	"github.com/solkit/solkit/vanity"
)

const keystoreSource = "vanity"

type searchOptions struct {
	starts      string
	ends        string
	match       string
	interval    time.Duration
	keystore    string
	metricsAddr string
}

// search is a configured runner plus whatever it holds open.
type search struct {
	runner   *vanity.Runner
	registry *metrics.Registry
	store    *keystore.Store
}

func (s *search) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// newSearch validates opts and wires a runner that draws to out, a terminal
// width columns wide when inPlace is set. Nothing is generated until the
// runner is started.
func newSearch(opts searchOptions, out io.Writer, inPlace bool, width int, rng crypto.RNG) (*search, error) {
	policy, err := vanity.ParseMatchPolicy(opts.match)
	if err != nil {
		return nil, err
	}
	patterns := vanity.ParsePatterns(opts.starts, opts.ends, policy)

	s := &search{registry: metrics.MakeRegistry()}
	session, err := vanity.NewSession(patterns, rng, vanity.WithLogger(log), vanity.WithRegistry(s.registry))
	if err != nil {
		return nil, err
	}
	s.runner = &vanity.Runner{
		Session:  session,
		Display:  vanity.NewWriterDisplay(out, inPlace, width),
		Interval: opts.interval,
	}

	if opts.keystore != "" {
		store, err := keystore.Open(opts.keystore)
		if err != nil {
			return nil, fmt.Errorf(errorOpenKeystore, opts.keystore, err)
		}
		s.store = store
		s.runner.OnMatch = s.persist
	}
	return s, nil
}

// persist writes a match to the keystore as soon as it is found.
func (s *search) persist(m vanity.Match) error {
	kp, err := config.ParseSecretKey(m.PrivateKey)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.store.Put(ctx, kp, keystoreSource)
}

func runSearch(parent context.Context, opts searchOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fd := int(os.Stdout.Fd())
	inPlace := terminal.IsTerminal(fd)
	width := 0
	if inPlace {
		if w, _, err := terminal.GetSize(fd); err == nil {
			width = w
		}
	}
	s, err := newSearch(opts, os.Stdout, inPlace, width, crypto.SystemRNG)
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.metricsAddr != "" {
		go func() {
			err := metrics.Serve(ctx, opts.metricsAddr, s.registry)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Warnf(warnMetricsStopped, err)
			}
		}()
	}

	if err := s.runner.Run(ctx); err != nil {
		return err
	}

	session := s.runner.Session
	found := len(session.Results())
	plural := "es"
	if found == 1 {
		plural = ""
	}
	summary := fmt.Sprintf(infoSearchStopped, session.Attempts(), vanity.FormatElapsed(session.Elapsed()), found, plural)
	if found > 0 {
		summary = color.GreenString(summary)
	}
	reportInfof("\n%s", summary)
	return nil
}
