// Copyright 2024 Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"). You may not
// use this file except in compliance with the License. A copy of the
// License is located at
//
// http://aws.amazon.com/apache2.0/
//
// or in the "license" file accompanying this file. This file is distributed
// on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND,
// either express or implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package httpapi serves fingerprints over HTTP. Fingerprints never change,
// so responses are cacheable forever and carry the value as their ETag.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fpstore/fpagent/agent/codebase"
	"github.com/fpstore/fpagent/agent/fingerprint"
	"github.com/fpstore/fpagent/agent/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// StatusHeader reports whether the fingerprint was found or created.
	StatusHeader = "X-Fingerprint-Status"

	immutableCacheControl = "public, max-age=31536000, immutable"
	readHeaderTimeout     = 10 * time.Second
	shutdownTimeout       = 5 * time.Second
)

// FingerprintStore is the get-or-create operation served by the API.
type FingerprintStore interface {
	GetOrCreate(ctx context.Context, key string) (fingerprint.Result, error)
}

// Server routes fingerprint requests to a store.
type Server struct {
	log      log.T
	store    FingerprintStore
	resolver *codebase.Resolver
	router   chi.Router
}

// NewServer builds the router.
func NewServer(log log.T, store FingerprintStore, resolver *codebase.Resolver) *Server {
	s := &Server{log: log, store: store, resolver: resolver}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/fingerprints/*", s.handleFingerprint)

	s.router = r
	return s
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Infof("Serving fingerprints on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Infof("Shutting down fingerprint server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleFingerprint(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	key, err := s.resolver.Resolve(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.store.GetOrCreate(r.Context(), key)
	if err != nil {
		s.log.Errorf("Failed to serve fingerprint %s. %v", key, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	etag := fmt.Sprintf("%q", result.Value)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", immutableCacheControl)
	w.Header().Set(StatusHeader, result.Status.String())

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, result.Value)
}

// etagMatches implements the weak comparison If-None-Match asks for.
func etagMatches(header string, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debugf("[%s] %s %s %d %s", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
