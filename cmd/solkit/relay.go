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
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/algorand/go-deadlock"
	"github.com/spf13/cobra"

	"github.com/solkit/solkit/daemon/relay"
	"github.com/solkit/solkit/util/metrics"
)

var (
	relayListen      string
	relayTTL         time.Duration
	relayMetricsAddr string
)

func init() {
	relayCmd.AddCommand(relayServeCmd)
	relayServeCmd.Flags().StringVarP(&relayListen, "listen", "l", "", "Listen address (defaults to RelayAddress from config)")
	relayServeCmd.Flags().DurationVar(&relayTTL, "ttl", 0, "How long unclaimed drafts are kept (defaults to RelayTTLSeconds from config)")
	relayServeCmd.Flags().StringVar(&relayMetricsAddr, "metrics-addr", "", "Serve relay metrics on this address")
}

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the draft handoff relay",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		//If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
}

var relayServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Hold partially signed drafts until the counterparty collects them",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := ensureConfig()
		deadlock.Opts.Disable = !cfg.EnableDeadlockDetection

		rc := relay.Config{
			Address: cfg.RelayAddress,
			TTL:     time.Duration(cfg.RelayTTLSeconds) * time.Second,
		}
		if relayListen != "" {
			rc.Address = relayListen
		}
		if relayTTL > 0 {
			rc.TTL = relayTTL
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := relay.MakeStore(rc.TTL, nil)
		registry := metrics.MakeRegistry()
		if err := store.RegisterMetrics(registry); err != nil {
			reportErrorf(errorRequestFail, err)
		}
		server := relay.MakeServer(rc, store, log)
		if err := server.Start(ctx); err != nil {
			reportErrorf(errorRequestFail, err)
		}
		reportInfof(infoRelayListening, server.Addr())

		if relayMetricsAddr != "" {
			go func() {
				if err := metrics.Serve(ctx, relayMetricsAddr, registry); err != nil {
					log.Warnf("metrics endpoint stopped: %v", err)
				}
			}()
		}
		server.Wait()
	},
}
