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

// Package jetstream implements the persistence service on a NATS JetStream
// key-value bucket.
package jetstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fpstore/fpagent/agent/log"
	"github.com/fpstore/fpagent/agent/persistence"
	"github.com/nats-io/nats.go"
)

const connectTimeout = 5 * time.Second

// Store keeps one JSON envelope per key in the bucket.
type Store struct {
	log   log.T
	kv    nats.KeyValue
	close func()
}

// Open connects to url and binds to bucket, creating the bucket when missing.
func Open(log log.T, url string, bucket string) (*Store, error) {
	nc, err := nats.Connect(url,
		nats.Name("fpagent"),
		nats.Timeout(connectTimeout),
		nats.DisconnectErrHandler(func(c *nats.Conn, err error) {
			if err != nil {
				log.Warnf("Disconnected from jetstream: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to open jetstream context: %w", err)
	}

	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		log.Infof("Creating key-value bucket %s", bucket)
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      bucket,
			Description: "fpagent fingerprint records",
			Storage:     nats.FileStorage,
			History:     1,
			Replicas:    1,
		})
	}
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to bind bucket %s: %w", bucket, err)
	}

	return New(log, kv, nc.Close), nil
}

// New builds a store over an existing bucket handle. close may be nil.
func New(log log.T, kv nats.KeyValue, close func()) *Store {
	return &Store{log: log, kv: kv, close: close}
}

// Lookup reads the envelope of key.
func (s *Store) Lookup(_ context.Context, key string) persistence.Lookup {
	if err := persistence.ValidateKey(key); err != nil {
		return persistence.Failed(err)
	}
	record, _, err := s.get(key)
	if err != nil {
		return persistence.FromRead(nil, err)
	}
	return persistence.Found(record.Data)
}

// Create stores an empty envelope unless key holds a live value.
func (s *Store) Create(_ context.Context, key string, maxSize int64) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	if err := persistence.ValidateSize(maxSize); err != nil {
		return err
	}

	encoded, err := persistence.NewRecord(key, maxSize).Encode()
	if err != nil {
		return err
	}
	if _, err = s.kv.Create(persistence.EncodeKey(key), encoded); err != nil {
		if errors.Is(err, nats.ErrKeyExists) {
			return fmt.Errorf("%w: %s", persistence.ErrAlreadyExists, key)
		}
		return fmt.Errorf("failed to create %s: %w", key, err)
	}
	return nil
}

// Write updates key at the revision it was read at.
func (s *Store) Write(_ context.Context, key string, data []byte) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}

	record, revision, err := s.get(key)
	if err != nil {
		return err
	}
	if err = record.Fill(data); err != nil {
		return err
	}
	encoded, err := record.Encode()
	if err != nil {
		return err
	}

	if _, err = s.kv.Update(persistence.EncodeKey(key), encoded, revision); err != nil {
		if errors.Is(err, nats.ErrKeyExists) {
			return fmt.Errorf("%w: %s", persistence.ErrConflict, key)
		}
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete places a delete marker for key.
func (s *Store) Delete(_ context.Context, key string) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	if _, _, err := s.get(key); err != nil {
		return err
	}
	if err := s.kv.Delete(persistence.EncodeKey(key)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close closes the connection.
func (s *Store) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

func (s *Store) get(key string) (persistence.Record, uint64, error) {
	entry, err := s.kv.Get(persistence.EncodeKey(key))
	if err != nil {
		if errors.Is(err, nats.ErrKeyNotFound) {
			return persistence.Record{}, 0, fmt.Errorf("%w: %s", persistence.ErrNotFound, key)
		}
		return persistence.Record{}, 0, fmt.Errorf("failed to get %s: %w", key, err)
	}
	record, err := persistence.DecodeRecord(entry.Value())
	if err != nil {
		return persistence.Record{}, 0, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return record, entry.Revision(), nil
}
