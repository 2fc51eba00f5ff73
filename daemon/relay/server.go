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

// Package relay is an HTTP mailbox for partially signed drafts. An initiator
// posts a draft and gets an id back; the counterparty fetches it by id and
// deletes it once consumed. The relay never sees private keys and never alters
// a payload.
package relay

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/solkit/solkit/cosign"
	"github.com/solkit/solkit/logging"
	"github.com/solkit/solkit/protocol"
)

const (
	// PartialsPath is the collection endpoint.
	PartialsPath = "/v1/partials"

	maxBodySize = "64K"
)

// PostResponse is returned when a draft is accepted.
type PostResponse struct {
	ID string `codec:"id"`
}

// ErrorResponse carries a failure message.
type ErrorResponse struct {
	Message string `codec:"message"`
}

type handlers struct {
	store *Store
	log   logging.Logger
}

func writeJSON(c echo.Context, code int, obj interface{}) error {
	return c.Blob(code, echo.MIMEApplicationJSON, protocol.EncodeJSON(obj))
}

func writeError(c echo.Context, code int, err error) error {
	return writeJSON(c, code, ErrorResponse{Message: err.Error()})
}

// postPartial accepts a draft after checking it decodes and its signatures hold.
func (h *handlers) postPartial(c echo.Context) error {
	var out cosign.Phase1Output
	if err := protocol.NewJSONDecoder(c.Request().Body).Decode(&out); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if _, err := cosign.Inspect(out); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	id := h.store.Put(out.Encoded)
	h.log.With("id", id).Info("stored partial transaction")
	return writeJSON(c, http.StatusCreated, PostResponse{ID: id})
}

func (h *handlers) getPartial(c echo.Context) error {
	encoded, err := h.store.Get(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusNotFound, err)
	}
	return writeJSON(c, http.StatusOK, cosign.Phase1Output{Encoded: encoded})
}

func (h *handlers) deletePartial(c echo.Context) error {
	if err := h.store.Delete(c.Param("id")); err != nil {
		return writeError(c, http.StatusNotFound, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// NewRouter builds the relay routes over store.
func NewRouter(store *Store, log logging.Logger) *echo.Echo {
	if log == nil {
		log = logging.Base()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(makeLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxBodySize))

	h := &handlers{store: store, log: log}
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.POST(PartialsPath, h.postPartial)
	e.GET(PartialsPath+"/:id", h.getPartial)
	e.DELETE(PartialsPath+"/:id", h.deletePartial)
	return e
}

// Config holds the relay server settings.
type Config struct {
	Address       string
	TTL           time.Duration
	SweepInterval time.Duration
}

// Server runs the relay routes and the expiry sweep.
type Server struct {
	cfg      Config
	store    *Store
	log      logging.Logger
	server   *http.Server
	listener net.Listener
	done     chan struct{}
}

// MakeServer creates a server over store. When store is nil a fresh one with
// cfg.TTL is used.
func MakeServer(cfg Config, store *Store, log logging.Logger) *Server {
	if log == nil {
		log = logging.Base()
	}
	if store == nil {
		store = MakeStore(cfg.TTL, nil)
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	return &Server{cfg: cfg, store: store, log: log}
}

// Store returns the draft store behind the server.
func (s *Server) Store() *Store {
	return s.store
}

// Start binds the listen address and serves in the background until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	s.listener = listener
	s.server = &http.Server{Handler: NewRouter(s.store, s.log), ReadHeaderTimeout: 10 * time.Second}
	s.done = make(chan struct{})

	go s.store.SweepLoop(ctx, s.cfg.SweepInterval)
	go func() {
		defer close(s.done)
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorf("relay server stopped: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx)
	}()
	s.log.Infof("relay listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Wait blocks until the server has stopped serving.
func (s *Server) Wait() {
	<-s.done
}
