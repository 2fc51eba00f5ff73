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

// Package metrics provides prometheus counters and the HTTP endpoint that serves them.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/algorand/go-deadlock"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ErrMetricServiceAlreadyRunning Generated when we call Start and the metric service is already running
	ErrMetricServiceAlreadyRunning = errors.New("MetricService is already running")
	// ErrMetricServiceNotRunning is not currently running
	ErrMetricServiceNotRunning = errors.New("MetricService not running")
	// ErrMetricUnableToRegister unable to register
	ErrMetricUnableToRegister = errors.New("Unable to register metric")
)

const shutdownGrace = 5 * time.Second

// ServiceConfig holds the endpoint a MetricService listens on.
type ServiceConfig struct {
	ListenAddress string
	// Path of the exposition endpoint, "/metrics" when empty.
	Path string
}

// MetricService represent a single running metric server instance
type MetricService struct {
	config   ServiceConfig
	registry *Registry

	runningMu deadlock.Mutex
	running   bool
	listener  net.Listener
	server    *http.Server
	done      chan struct{}
}

// MakeMetricService creates a new metrics server for registry at the given endpoint.
func MakeMetricService(config *ServiceConfig, registry *Registry) *MetricService {
	if registry == nil {
		registry = DefaultRegistry()
	}
	service := &MetricService{config: *config, registry: registry}
	if service.config.Path == "" {
		service.config.Path = "/metrics"
	}
	return service
}

// Router returns the routes served by the service.
func (service *MetricService) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle(service.config.Path, promhttp.HandlerFor(service.registry.Gatherer(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	return r
}

// Start binds the listen address and serves in the background until ctx is
// done or Shutdown is called.
func (service *MetricService) Start(ctx context.Context) error {
	service.runningMu.Lock()
	defer service.runningMu.Unlock()
	if service.running {
		return ErrMetricServiceAlreadyRunning
	}
	listener, err := net.Listen("tcp", service.config.ListenAddress)
	if err != nil {
		return err
	}
	service.listener = listener
	service.server = &http.Server{Handler: service.Router(), ReadHeaderTimeout: 10 * time.Second}
	service.done = make(chan struct{})
	service.running = true

	go func(server *http.Server, done chan struct{}) {
		defer close(done)
		server.Serve(listener)
	}(service.server, service.done)
	go func(done chan struct{}) {
		select {
		case <-ctx.Done():
			service.Shutdown()
		case <-done:
		}
	}(service.done)
	return nil
}

// Addr returns the bound address of a running service.
func (service *MetricService) Addr() net.Addr {
	service.runningMu.Lock()
	defer service.runningMu.Unlock()
	if !service.running {
		return nil
	}
	return service.listener.Addr()
}

// Shutdown the running server
func (service *MetricService) Shutdown() error {
	service.runningMu.Lock()
	defer service.runningMu.Unlock()
	if !service.running {
		return ErrMetricServiceNotRunning
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	err := service.server.Shutdown(ctx)
	<-service.done
	service.running = false
	return err
}

// Serve exposes registry on addr until ctx is done.
func Serve(ctx context.Context, addr string, registry *Registry) error {
	service := MakeMetricService(&ServiceConfig{ListenAddress: addr}, registry)
	if err := service.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	err := service.Shutdown()
	if errors.Is(err, ErrMetricServiceNotRunning) {
		return nil
	}
	return err
}
