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

// Package bootstrap prepares the configuration and the data folder before
// the agent starts.
package bootstrap

import (
	"fmt"
	"runtime/debug"

	"github.com/fpstore/fpagent/agent/appconfig"
	"github.com/fpstore/fpagent/agent/context"
	"github.com/fpstore/fpagent/agent/fileutil"
	"github.com/fpstore/fpagent/agent/log"
)

// Overrides are command line values that replace configured ones when set.
type Overrides struct {
	Codebase string
	Name     string
	Backend  string
}

// IBootstrap is the interface for initializing the agent context.
type IBootstrap interface {
	Init(config appconfig.FpagentConfig, overrides Overrides) (context.T, error)
}

// Bootstrap is the implementation for initializing the agent context.
type Bootstrap struct {
	log              log.T
	hardenDataFolder func(dataDir string) error
}

// NewBootstrap returns a new instance for bootstrap.
func NewBootstrap(log log.T) IBootstrap {
	return &Bootstrap{
		log:              log,
		hardenDataFolder: fileutil.HardenDataFolder,
	}
}

// Init applies overrides to config, prepares the data folder when the
// backend keeps files there and returns the agent context.
func (bs *Bootstrap) Init(config appconfig.FpagentConfig, overrides Overrides) (ctx context.T, err error) {
	logger := bs.log
	defer func() {
		if msg := recover(); msg != nil {
			logger.Errorf("bootstrap init run panic: %v", msg)
			logger.Errorf("%s: %s", msg, debug.Stack())
			err = fmt.Errorf("bootstrap init panic: %v", msg)
		}
	}()

	if err = applyOverrides(&config, overrides); err != nil {
		return nil, err
	}
	logger.Debugf("Using %s backend, codebase %s", config.Storage.Backend, config.Fingerprint.Codebase)

	if usesDataDir(config) {
		if err = bs.hardenDataFolder(config.Storage.DataDir); err != nil {
			return nil, fmt.Errorf("failed to prepare data folder %s, %v", config.Storage.DataDir, err)
		}
	}

	return context.Default(logger, config, "[fpagent]"), nil
}

func applyOverrides(config *appconfig.FpagentConfig, overrides Overrides) error {
	if overrides.Codebase != "" {
		config.Fingerprint.Codebase = overrides.Codebase
	}
	if overrides.Name != "" {
		config.Fingerprint.Name = overrides.Name
	}
	if overrides.Backend != "" {
		if !isSupported(overrides.Backend) {
			return fmt.Errorf("unsupported storage backend %q, expected one of %v", overrides.Backend, appconfig.SupportedBackends)
		}
		config.Storage.Backend = overrides.Backend
	}
	return nil
}

func isSupported(backend string) bool {
	for _, b := range appconfig.SupportedBackends {
		if b == backend {
			return true
		}
	}
	return false
}

// usesDataDir reports whether anything configured writes under DataDir.
func usesDataDir(config appconfig.FpagentConfig) bool {
	if config.Fingerprint.UseLockFile {
		return true
	}
	switch config.Storage.Backend {
	case appconfig.BackendFsVault, appconfig.BackendSQLite, appconfig.BackendKeyring:
		return true
	}
	return false
}
