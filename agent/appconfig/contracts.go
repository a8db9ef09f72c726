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

package appconfig

// FingerprintCfg represents configuration of the fingerprint record.
type FingerprintCfg struct {
	// Codebase is the base URL resource names are resolved against.
	Codebase string `yaml:"Codebase"`
	// Name of the fingerprint resource relative to Codebase.
	Name string `yaml:"Name"`
	// Generator selects how new values are built: "timestamp" or "uuid".
	Generator string `yaml:"Generator"`
	// UseLockFile serializes get-or-create between processes sharing a data dir.
	UseLockFile bool `yaml:"UseLockFile"`
}

// StorageCfg represents configuration of the persistence backend.
type StorageCfg struct {
	Backend string `yaml:"Backend"`
	DataDir string `yaml:"DataDir"`

	SQLitePath string `yaml:"SQLitePath"`

	EtcdEndpoints          []string `yaml:"EtcdEndpoints"`
	EtcdPrefix             string   `yaml:"EtcdPrefix"`
	EtcdDialTimeoutSeconds int      `yaml:"EtcdDialTimeoutSeconds"`

	NatsURL    string `yaml:"NatsURL"`
	NatsBucket string `yaml:"NatsBucket"`

	KeyringService string `yaml:"KeyringService"`
	KeyringDir     string `yaml:"KeyringDir"`

	S3Bucket string `yaml:"S3Bucket"`
	S3Region string `yaml:"S3Region"`
	S3Prefix string `yaml:"S3Prefix"`
	// S3Endpoint points the client at an S3 compatible service.
	S3Endpoint string `yaml:"S3Endpoint"`
}

// HttpCfg represents configuration of the optional HTTP listener.
type HttpCfg struct {
	Address string `yaml:"Address"`
}

// LockCfg represents configuration of the cross-process lock.
type LockCfg struct {
	TimeoutSeconds int `yaml:"TimeoutSeconds"`
}

// LogCfg represents configuration of the logger.
type LogCfg struct {
	Dir   string `yaml:"Dir"`
	Level string `yaml:"Level"`
}

// FpagentConfig stores the fpagent configuration values.
type FpagentConfig struct {
	Fingerprint FingerprintCfg `yaml:"Fingerprint"`
	Storage     StorageCfg     `yaml:"Storage"`
	Http        HttpCfg        `yaml:"Http"`
	Lock        LockCfg        `yaml:"Lock"`
	Log         LogCfg         `yaml:"Log"`
}
