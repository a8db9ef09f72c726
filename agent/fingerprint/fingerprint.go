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

// Package fingerprint reads the fingerprint stored for a key, or generates and
// stores one on first use. A stored fingerprint is never replaced.
package fingerprint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fpstore/fpagent/agent/fileutil/filelock"
	"github.com/fpstore/fpagent/agent/log"
	"github.com/fpstore/fpagent/agent/persistence"
	"golang.org/x/sync/singleflight"
)

// Status tells how GetOrCreate obtained the value.
type Status int

const (
	// Found means the value was already stored.
	Found Status = iota
	// Created means the value was generated and stored by this call.
	Created
)

func (s Status) String() string {
	if s == Created {
		return "created"
	}
	return "found"
}

// Result is the fingerprint of a key.
type Result struct {
	Key    string
	Value  string
	Status Status
}

// Option configures a Store.
type Option func(*Store)

// WithGenerator replaces the default timestamp generator.
func WithGenerator(generate Generator) Option {
	return func(s *Store) { s.generate = generate }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocker serializes get-or-create across processes sharing the backend.
func WithLocker(locker filelock.FileLocker) Option {
	return func(s *Store) { s.locker = locker }
}

// Store implements get-or-create on top of a persistence service. It is safe
// for concurrent use.
type Store struct {
	log      log.T
	service  persistence.Service
	generate Generator
	now      func() time.Time
	locker   filelock.FileLocker

	group singleflight.Group
	memo  *memo
}

// NewStore returns a store backed by service.
func NewStore(log log.T, service persistence.Service, opts ...Option) *Store {
	s := &Store{
		log:      log,
		service:  service,
		generate: TimestampGenerator,
		now:      time.Now,
		memo:     newMemo(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns the fingerprint stored under key, creating it on the
// first call. Once a value was returned for a key it is served from memory.
func (s *Store) GetOrCreate(ctx context.Context, key string) (Result, error) {
	if value, ok := s.memo.get(key); ok {
		return Result{Key: key, Value: value, Status: Found}, nil
	}

	// waiters share one call; the caller that started it leaving must not cancel it
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		if value, ok := s.memo.get(key); ok {
			return Result{Key: key, Value: value, Status: Found}, nil
		}
		result, err := s.getOrCreate(shared, key)
		if err != nil {
			return nil, err
		}
		s.memo.set(key, result.Value)
		return result, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Result{}, res.Err
		}
		return res.Val.(Result), nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (s *Store) getOrCreate(ctx context.Context, key string) (result Result, err error) {
	if s.locker != nil {
		if err = s.locker.Lock(ctx); err != nil {
			return Result{}, fmt.Errorf("Failed to lock fingerprint records for %s. %w", key, err)
		}
		defer func() {
			if unlockErr := s.locker.Unlock(); unlockErr != nil {
				s.log.Warnf("Failed to release fingerprint lock. %v", unlockErr)
			}
		}()
	}

	lookup := s.service.Lookup(ctx, key)
	switch lookup.Status {
	case persistence.StatusFound:
		if len(lookup.Value) > 0 {
			s.log.Debugf("Fingerprint found for %s", key)
			return Result{Key: key, Value: firstLine(lookup.Value), Status: Found}, nil
		}
		// a previous run reserved the record but never wrote it
		s.log.Warnf("Fingerprint record for %s is empty, writing a new value", key)
		return s.refill(ctx, key, s.generate(s.now()))
	case persistence.StatusNotFound:
		return s.create(ctx, key, s.generate(s.now()))
	default:
		return Result{}, fmt.Errorf("Failed to read fingerprint %s. %w", key, lookup.Err)
	}
}

func (s *Store) create(ctx context.Context, key string, value string) (Result, error) {
	err := s.service.Create(ctx, key, int64(len(value)))
	if errors.Is(err, persistence.ErrAlreadyExists) {
		s.log.Debugf("Fingerprint for %s was created concurrently, reading it back", key)
		return s.reread(ctx, key, value)
	}
	if err != nil {
		return Result{}, fmt.Errorf("Failed to create fingerprint %s. %w", key, err)
	}
	return s.store(ctx, key, value)
}

// reread returns the value of the writer that won the create race.
func (s *Store) reread(ctx context.Context, key string, value string) (Result, error) {
	lookup := s.service.Lookup(ctx, key)
	switch lookup.Status {
	case persistence.StatusFound:
		if len(lookup.Value) > 0 {
			return Result{Key: key, Value: firstLine(lookup.Value), Status: Found}, nil
		}
		return s.store(ctx, key, value)
	case persistence.StatusNotFound:
		return Result{}, fmt.Errorf("Fingerprint %s was removed while being created. %w", key, persistence.ErrNotFound)
	default:
		return Result{}, fmt.Errorf("Failed to read fingerprint %s. %w", key, lookup.Err)
	}
}

// refill writes value into an empty reservation. A reservation too small
// for value, left by another generator, is dropped and made again.
func (s *Store) refill(ctx context.Context, key string, value string) (Result, error) {
	result, err := s.store(ctx, key, value)
	if !errors.Is(err, persistence.ErrSizeExceeded) {
		return result, err
	}

	s.log.Warnf("Empty fingerprint record for %s is too small for a new value, reserving it again", key)
	if err = s.service.Delete(ctx, key); err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return Result{}, fmt.Errorf("Failed to drop empty fingerprint record %s. %w", key, err)
	}
	return s.create(ctx, key, value)
}

func (s *Store) store(ctx context.Context, key string, value string) (Result, error) {
	if err := s.service.Write(ctx, key, []byte(value)); err != nil {
		return Result{}, fmt.Errorf("Failed to write fingerprint %s. %w", key, err)
	}
	s.log.Infof("Created fingerprint for %s", key)
	return Result{Key: key, Value: value, Status: Created}, nil
}

// firstLine returns the record content up to the first line break.
func firstLine(data []byte) string {
	line := string(data)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSuffix(line, "\r")
}
