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

// Package app assembles the fingerprint agent from its configuration.
package app

import (
	gocontext "context"
	"runtime"
	"time"

	"github.com/fpstore/fpagent/agent/codebase"
	"github.com/fpstore/fpagent/agent/context"
	"github.com/fpstore/fpagent/agent/fileutil/filelock"
	"github.com/fpstore/fpagent/agent/fingerprint"
	"github.com/fpstore/fpagent/agent/httpapi"
	"github.com/fpstore/fpagent/agent/persistence"
	"github.com/fpstore/fpagent/agent/version"
)

// FingerprintAgent runs the operations offered on the command line.
type FingerprintAgent interface {
	// Key is the resolved key of the configured fingerprint resource.
	Key() string
	Fingerprint(ctx gocontext.Context) (fingerprint.Result, error)
	Clear(ctx gocontext.Context) error
	Serve(ctx gocontext.Context, addr string) error
	Stop()
}

// CoreAgent implements FingerprintAgent over one persistence backend.
type CoreAgent struct {
	context  context.T
	service  persistence.Service
	store    *fingerprint.Store
	resolver *codebase.Resolver
	key      string
}

// NewFingerprintAgent builds the agent. It takes ownership of service.
func NewFingerprintAgent(ctx context.T, service persistence.Service) (*CoreAgent, error) {
	config := ctx.AppConfig()
	log := ctx.Log()

	resolver, err := newResolver(config.Fingerprint.Codebase, config.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	key, err := resolver.Resolve(config.Fingerprint.Name)
	if err != nil {
		return nil, err
	}

	generate, err := fingerprint.GeneratorByName(config.Fingerprint.Generator)
	if err != nil {
		return nil, err
	}
	opts := []fingerprint.Option{fingerprint.WithGenerator(generate)}

	if config.Fingerprint.UseLockFile {
		lockPath, err := config.LockFilePath()
		if err != nil {
			return nil, err
		}
		locker, err := filelock.NewFileLocker(log, lockPath, time.Duration(config.Lock.TimeoutSeconds)*time.Second)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fingerprint.WithLocker(locker))
	}

	return &CoreAgent{
		context:  ctx,
		service:  service,
		store:    fingerprint.NewStore(log, service, opts...),
		resolver: resolver,
		key:      key,
	}, nil
}

func newResolver(base string, dataDir string) (*codebase.Resolver, error) {
	if base == "" {
		return codebase.FromDirectory(dataDir)
	}
	return codebase.NewResolver(base)
}

// Key returns the key of the configured resource.
func (agent *CoreAgent) Key() string {
	return agent.key
}

// Fingerprint returns the fingerprint of the configured resource, creating it on first use.
func (agent *CoreAgent) Fingerprint(ctx gocontext.Context) (fingerprint.Result, error) {
	return agent.store.GetOrCreate(ctx, agent.key)
}

// Clear deletes the stored fingerprint of the configured resource.
func (agent *CoreAgent) Clear(ctx gocontext.Context) error {
	if err := agent.service.Delete(ctx, agent.key); err != nil {
		return err
	}
	agent.context.Log().Infof("Fingerprint for %s has been removed.", agent.key)
	return nil
}

// Serve exposes the store over HTTP until ctx is cancelled.
func (agent *CoreAgent) Serve(ctx gocontext.Context, addr string) error {
	log := agent.context.Log()
	log.Infof("fpagent - %v", version.String())
	log.Infof("OS: %s, Arch: %s", runtime.GOOS, runtime.GOARCH)
	return httpapi.NewServer(log, agent.store, agent.resolver).ListenAndServe(ctx, addr)
}

// Stop releases the backend.
func (agent *CoreAgent) Stop() {
	log := agent.context.Log()
	if err := agent.service.Close(); err != nil {
		log.Warnf("Failed to close the storage backend. %v", err)
	}
	log.Flush()
}
