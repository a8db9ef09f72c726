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

// Package etcd implements the persistence service on an etcd v3 cluster.
// Records are stored as JSON envelopes under <prefix>/<encoded key>.
package etcd

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/fpstore/fpagent/agent/log"
	"github.com/fpstore/fpagent/agent/persistence"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"
)

// kv is the subset of clientv3.KV used by the store.
type kv interface {
	Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error)
	Delete(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.DeleteResponse, error)
	Txn(ctx context.Context) clientv3.Txn
}

// Config describes how to reach the cluster.
type Config struct {
	Endpoints   []string
	Prefix      string
	DialTimeout time.Duration
}

// Store is an etcd backed persistence service.
type Store struct {
	log    log.T
	kv     kv
	closer io.Closer
	prefix string
}

// Open connects to the cluster described by config.
func Open(log log.T, config Config) (*Store, error) {
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   config.Endpoints,
		DialTimeout: config.DialTimeout,
		Logger:      zap.NewNop(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}
	log.Infof("Connecting to etcd %v", config.Endpoints)
	return New(log, client, client, config.Prefix), nil
}

// New builds a store over an existing client. closer may be nil.
func New(log log.T, client kv, closer io.Closer, prefix string) *Store {
	return &Store{log: log, kv: client, closer: closer, prefix: prefix}
}

func (s *Store) qualify(key string) string {
	return path.Join(s.prefix, persistence.EncodeKey(key))
}

// Lookup reads the envelope of key.
func (s *Store) Lookup(ctx context.Context, key string) persistence.Lookup {
	if err := persistence.ValidateKey(key); err != nil {
		return persistence.Failed(err)
	}
	record, _, err := s.get(ctx, key)
	if err != nil {
		return persistence.FromRead(nil, err)
	}
	return persistence.Found(record.Data)
}

// Create puts an empty envelope only if key has never been written.
func (s *Store) Create(ctx context.Context, key string, maxSize int64) error {
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

	qualifiedKey := s.qualify(key)
	resp, err := s.kv.Txn(ctx).
		If(clientv3.Compare(clientv3.Version(qualifiedKey), "=", 0)).
		Then(clientv3.OpPut(qualifiedKey, string(encoded))).
		Commit()
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", key, err)
	}
	if !resp.Succeeded {
		return fmt.Errorf("%w: %s", persistence.ErrAlreadyExists, key)
	}
	return nil
}

// Write replaces the data of key if it was not modified since it was read.
func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}

	record, revision, err := s.get(ctx, key)
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

	qualifiedKey := s.qualify(key)
	resp, err := s.kv.Txn(ctx).
		If(clientv3.Compare(clientv3.ModRevision(qualifiedKey), "=", revision)).
		Then(clientv3.OpPut(qualifiedKey, string(encoded))).
		Commit()
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if !resp.Succeeded {
		return fmt.Errorf("%w: %s", persistence.ErrConflict, key)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	resp, err := s.kv.Delete(ctx, s.qualify(key))
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	if resp.Deleted == 0 {
		return fmt.Errorf("%w: %s", persistence.ErrNotFound, key)
	}
	return nil
}

// Close closes the client.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *Store) get(ctx context.Context, key string) (persistence.Record, int64, error) {
	resp, err := s.kv.Get(ctx, s.qualify(key))
	if err != nil {
		return persistence.Record{}, 0, fmt.Errorf("failed to get %s: %w", key, err)
	}
	if len(resp.Kvs) == 0 {
		return persistence.Record{}, 0, fmt.Errorf("%w: %s", persistence.ErrNotFound, key)
	}
	record, err := persistence.DecodeRecord(resp.Kvs[0].Value)
	if err != nil {
		return persistence.Record{}, 0, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return record, resp.Kvs[0].ModRevision, nil
}
