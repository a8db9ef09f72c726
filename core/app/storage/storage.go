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

// Package storage opens the persistence backend selected in the configuration.
package storage

import (
	"fmt"
	"net/url"
	"time"

	"github.com/fpstore/fpagent/agent/appconfig"
	"github.com/fpstore/fpagent/agent/context"
	"github.com/fpstore/fpagent/agent/persistence"
	"github.com/fpstore/fpagent/agent/persistence/etcd"
	"github.com/fpstore/fpagent/agent/persistence/fsvault"
	"github.com/fpstore/fpagent/agent/persistence/keyring"
	"github.com/fpstore/fpagent/agent/persistence/memory"
	"github.com/fpstore/fpagent/agent/persistence/s3"
)

// Open returns the backend named by Storage.Backend. The caller closes it.
func Open(ctx context.T) (persistence.Service, error) {
	config := ctx.AppConfig()
	log := ctx.Log()

	log.Debugf("Opening %s backend", config.Storage.Backend)
	switch config.Storage.Backend {
	case appconfig.BackendMemory:
		return memory.NewStore(), nil
	case appconfig.BackendFsVault:
		return fsvault.NewVault(log, config.Storage.DataDir), nil
	case appconfig.BackendSQLite:
		return deps.openSQLite(ctx, config.SQLitePath())
	case appconfig.BackendEtcd:
		return deps.openEtcd(ctx, EtcdConfig(config))
	case appconfig.BackendJetStream:
		return deps.openJetStream(ctx, config.Storage.NatsURL, config.Storage.NatsBucket)
	case appconfig.BackendKeyring:
		return deps.openKeyring(ctx, KeyringConfig(config))
	case appconfig.BackendS3:
		s3Config, err := S3Config(config)
		if err != nil {
			return nil, err
		}
		return deps.openS3(ctx, s3Config)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", config.Storage.Backend)
	}
}

// EtcdConfig maps the storage settings onto the etcd client configuration.
func EtcdConfig(config appconfig.FpagentConfig) etcd.Config {
	return etcd.Config{
		Endpoints:   config.Storage.EtcdEndpoints,
		Prefix:      config.Storage.EtcdPrefix,
		DialTimeout: time.Duration(config.Storage.EtcdDialTimeoutSeconds) * time.Second,
	}
}

// KeyringConfig maps the storage settings onto the keyring configuration.
func KeyringConfig(config appconfig.FpagentConfig) keyring.Config {
	return keyring.Config{
		ServiceName: config.Storage.KeyringService,
		FileDir:     config.KeyringDir(),
	}
}

// S3Config returns the bucket settings. Without S3Bucket the location is
// taken from the codebase when it is an s3:// or S3 https URL; explicit
// region and prefix settings still win.
func S3Config(config appconfig.FpagentConfig) (s3.Config, error) {
	storage := config.Storage
	result := s3.Config{
		Bucket:   storage.S3Bucket,
		Region:   storage.S3Region,
		Prefix:   storage.S3Prefix,
		Endpoint: storage.S3Endpoint,
	}
	if result.Bucket != "" {
		return result, nil
	}

	codebase, err := url.Parse(config.Fingerprint.Codebase)
	if err != nil {
		return result, fmt.Errorf("invalid codebase %s: %w", config.Fingerprint.Codebase, err)
	}
	location, ok := s3.ParseLocation(codebase)
	if !ok {
		return result, fmt.Errorf("no S3 bucket configured and codebase %s is not an S3 location", config.Fingerprint.Codebase)
	}

	result.Bucket = location.Bucket
	if result.Region == "" {
		result.Region = location.Region
	}
	if result.Prefix == "" {
		result.Prefix = location.Prefix
	}
	return result, nil
}
