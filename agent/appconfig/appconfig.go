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

// Package appconfig manages the configuration of fpagent.
package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fpstore/fpagent/agent/jsonutil"
	"gopkg.in/yaml.v2"
)

var loadedConfig *FpagentConfig
var lock sync.RWMutex

var (
	statFile = os.Stat
	readFile = os.ReadFile
)

// Config loads the app configuration for fpagent.
// path overrides AppConfigPath when not empty. If reload is true, it loads
// the config afresh, otherwise it returns a previous loaded version, if any.
// A missing config file is not an error: the defaults are returned.
func Config(path string, reload bool) (FpagentConfig, error) {
	if reload || !isLoaded() {
		agentConfig := DefaultConfig()
		if path == "" {
			path = AppConfigPath
		}
		if _, err := statFile(path); err != nil {
			parser(&agentConfig)
			cache(agentConfig)
			return getCached(), nil
		}

		if err := unmarshalConfigFile(path, &agentConfig); err != nil {
			return DefaultConfig(), fmt.Errorf("Failed to unmarshal config override %s. %v", path, err)
		}
		parser(&agentConfig)
		cache(agentConfig)
	}
	return getCached(), nil
}

func unmarshalConfigFile(path string, dest *FpagentConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		content, err := readFile(path)
		if err != nil {
			return err
		}
		return yaml.UnmarshalStrict(content, dest)
	default:
		return jsonutil.UnmarshalFile(path, dest)
	}
}

func isLoaded() bool {
	lock.RLock()
	defer lock.RUnlock()
	return loadedConfig != nil
}

func cache(config FpagentConfig) {
	lock.Lock()
	defer lock.Unlock()
	loadedConfig = &config
}

func getCached() FpagentConfig {
	lock.RLock()
	defer lock.RUnlock()
	return *loadedConfig
}

// DefaultConfig returns default fpagent configuration
func DefaultConfig() FpagentConfig {
	return FpagentConfig{
		Fingerprint: FingerprintCfg{
			Codebase:  DefaultCodebase,
			Name:      DefaultFingerprintName,
			Generator: GeneratorTimestamp,
		},
		Storage: StorageCfg{
			Backend:                DefaultBackend,
			DataDir:                DefaultDataStorePath,
			EtcdPrefix:             DefaultEtcdPrefix,
			EtcdDialTimeoutSeconds: DefaultEtcdDialTimeoutSeconds,
			NatsURL:                DefaultNatsURL,
			NatsBucket:             DefaultNatsBucket,
			KeyringService:         DefaultKeyringService,
		},
		Http: HttpCfg{
			Address: DefaultHttpAddress,
		},
		Lock: LockCfg{
			TimeoutSeconds: DefaultLockTimeoutSeconds,
		},
		Log: LogCfg{
			Dir:   DefaultLogDir,
			Level: DefaultLogLevel,
		},
	}
}

// SQLitePath returns the configured database path or the default one under DataDir.
func (config FpagentConfig) SQLitePath() string {
	if config.Storage.SQLitePath != "" {
		return config.Storage.SQLitePath
	}
	return filepath.Join(config.Storage.DataDir, DefaultSQLiteFileName)
}

// LockFilePath returns the absolute path of the cross-process lock file.
func (config FpagentConfig) LockFilePath() (string, error) {
	return filepath.Abs(filepath.Join(config.Storage.DataDir, DefaultLockFileName))
}

// KeyringDir returns the directory used by the file keyring backend.
func (config FpagentConfig) KeyringDir() string {
	if config.Storage.KeyringDir != "" {
		return config.Storage.KeyringDir
	}
	return filepath.Join(config.Storage.DataDir, "Keyring")
}
