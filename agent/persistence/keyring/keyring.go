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

// Package keyring implements the persistence service on the operating system
// keyring (Keychain, Secret Service, KWallet, Windows credential manager) or
// an encrypted file keyring, through github.com/99designs/keyring.
package keyring

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/99designs/keyring"
	"github.com/fpstore/fpagent/agent/log"
	"github.com/fpstore/fpagent/agent/persistence"
)

// PasswordEnvVar holds the password of the encrypted file keyring.
const PasswordEnvVar = "FPAGENT_KEYRING_PASSWORD"

// Config selects the keyring to open.
type Config struct {
	ServiceName string
	FileDir     string
	// Backends restricts the keyring implementations tried; empty means all available.
	Backends []keyring.BackendType
}

// Store keeps one keyring item per record. Keyrings offer no compare-and-set,
// so creation is serialized inside the process only.
type Store struct {
	log  log.T
	lock sync.Mutex
	ring keyring.Keyring
}

// Open opens the keyring described by config.
func Open(log log.T, config Config) (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      config.ServiceName,
		AllowedBackends:  config.Backends,
		FileDir:          config.FileDir,
		FilePasswordFunc: passwordFunc(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring %s: %w", config.ServiceName, err)
	}
	return New(log, ring), nil
}

func passwordFunc() keyring.PromptFunc {
	if password, ok := os.LookupEnv(PasswordEnvVar); ok {
		return keyring.FixedStringPrompt(password)
	}
	return keyring.TerminalPrompt
}

// New wraps an opened keyring.
func New(log log.T, ring keyring.Keyring) *Store {
	return &Store{log: log, ring: ring}
}

// Lookup reads the item of key.
func (s *Store) Lookup(_ context.Context, key string) persistence.Lookup {
	if err := persistence.ValidateKey(key); err != nil {
		return persistence.Failed(err)
	}
	record, err := s.get(key)
	if err != nil {
		return persistence.FromRead(nil, err)
	}
	return persistence.Found(record.Data)
}

// Create sets an empty item for key unless one exists.
func (s *Store) Create(_ context.Context, key string, maxSize int64) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	if err := persistence.ValidateSize(maxSize); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	_, err := s.get(key)
	if err == nil {
		return fmt.Errorf("%w: %s", persistence.ErrAlreadyExists, key)
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		return err
	}
	return s.set(persistence.NewRecord(key, maxSize))
}

// Write replaces the data of key.
func (s *Store) Write(_ context.Context, key string, data []byte) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	record, err := s.get(key)
	if err != nil {
		return err
	}
	if err = record.Fill(data); err != nil {
		return err
	}
	return s.set(record)
}

// Delete removes the item of key.
func (s *Store) Delete(_ context.Context, key string) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, err := s.get(key); err != nil {
		return err
	}
	if err := s.ring.Remove(persistence.EncodeKey(key)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; keyrings hold no connection.
func (s *Store) Close() error {
	return nil
}

func (s *Store) get(key string) (persistence.Record, error) {
	item, err := s.ring.Get(persistence.EncodeKey(key))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return persistence.Record{}, fmt.Errorf("%w: %s", persistence.ErrNotFound, key)
	}
	if err != nil {
		return persistence.Record{}, fmt.Errorf("failed to get %s: %w", key, err)
	}
	record, err := persistence.DecodeRecord(item.Data)
	if err != nil {
		return persistence.Record{}, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return record, nil
}

func (s *Store) set(record persistence.Record) error {
	encoded, err := record.Encode()
	if err != nil {
		return err
	}
	err = s.ring.Set(keyring.Item{
		Key:         persistence.EncodeKey(record.Key),
		Data:        encoded,
		Label:       "fpagent fingerprint",
		Description: record.Key,
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", record.Key, err)
	}
	return nil
}
