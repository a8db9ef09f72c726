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

// Package memory implements an in-process persistence backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/fpstore/fpagent/agent/persistence"
)

// Store keeps records in a map. Records do not survive the process.
type Store struct {
	lock    sync.RWMutex
	records map[string]persistence.Record
}

// NewStore returns an empty in-memory backend.
func NewStore() *Store {
	return &Store{records: make(map[string]persistence.Record)}
}

// Lookup returns a copy of the record data.
func (s *Store) Lookup(_ context.Context, key string) persistence.Lookup {
	if err := persistence.ValidateKey(key); err != nil {
		return persistence.Failed(err)
	}
	s.lock.RLock()
	defer s.lock.RUnlock()

	record, ok := s.records[key]
	if !ok {
		return persistence.NotFound()
	}
	return persistence.Found(append([]byte{}, record.Data...))
}

// Create reserves key.
func (s *Store) Create(_ context.Context, key string, maxSize int64) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	if err := persistence.ValidateSize(maxSize); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.records[key]; ok {
		return fmt.Errorf("%w: %s", persistence.ErrAlreadyExists, key)
	}
	s.records[key] = persistence.NewRecord(key, maxSize)
	return nil
}

// Write replaces the data of key.
func (s *Store) Write(_ context.Context, key string, data []byte) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	record, ok := s.records[key]
	if !ok {
		return fmt.Errorf("%w: %s", persistence.ErrNotFound, key)
	}
	if err := record.Fill(data); err != nil {
		return err
	}
	s.records[key] = record
	return nil
}

// Delete drops key.
func (s *Store) Delete(_ context.Context, key string) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.records[key]; !ok {
		return fmt.Errorf("%w: %s", persistence.ErrNotFound, key)
	}
	delete(s.records, key)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
