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

package storage

import (
	"github.com/fpstore/fpagent/agent/context"
	"github.com/fpstore/fpagent/agent/persistence"
	"github.com/fpstore/fpagent/agent/persistence/etcd"
	"github.com/fpstore/fpagent/agent/persistence/jetstream"
	"github.com/fpstore/fpagent/agent/persistence/keyring"
	"github.com/fpstore/fpagent/agent/persistence/s3"
	"github.com/fpstore/fpagent/agent/persistence/sqlite"
)

// deps holds the constructors of the backends that need a server or a file.
var deps backendOpeners = defaultOpeners{}

type backendOpeners interface {
	openSQLite(ctx context.T, path string) (persistence.Service, error)
	openEtcd(ctx context.T, config etcd.Config) (persistence.Service, error)
	openJetStream(ctx context.T, url string, bucket string) (persistence.Service, error)
	openKeyring(ctx context.T, config keyring.Config) (persistence.Service, error)
	openS3(ctx context.T, config s3.Config) (persistence.Service, error)
}

type defaultOpeners struct{}

func (defaultOpeners) openSQLite(ctx context.T, path string) (persistence.Service, error) {
	store, err := sqlite.Open(ctx.Log(), path)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (defaultOpeners) openEtcd(ctx context.T, config etcd.Config) (persistence.Service, error) {
	store, err := etcd.Open(ctx.Log(), config)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (defaultOpeners) openJetStream(ctx context.T, url string, bucket string) (persistence.Service, error) {
	store, err := jetstream.Open(ctx.Log(), url, bucket)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (defaultOpeners) openKeyring(ctx context.T, config keyring.Config) (persistence.Service, error) {
	store, err := keyring.Open(ctx.Log(), config)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (defaultOpeners) openS3(ctx context.T, config s3.Config) (persistence.Service, error) {
	store, err := s3.Open(ctx.Log(), config)
	if err != nil {
		return nil, err
	}
	return store, nil
}
