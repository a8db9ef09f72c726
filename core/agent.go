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

// Package main represents the entry point of fpagent.
package main

import (
	gocontext "context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/fpstore/fpagent/agent/appconfig"
	"github.com/fpstore/fpagent/agent/fingerprint"
	logger "github.com/fpstore/fpagent/agent/log"
	"github.com/fpstore/fpagent/core/app"
	"github.com/fpstore/fpagent/core/app/bootstrap"
	"github.com/fpstore/fpagent/core/app/storage"
)

const (
	configFlag   = "config"
	keyFlag      = "key"
	codebaseFlag = "codebase"
	backendFlag  = "backend"
	clearFlag    = "clear"
	serveFlag    = "serve"
	versionFlag  = "version"
)

var (
	configPath, keyName, codebaseURL, backendName, serveAddr string
	clearFingerprint, agentVersionFlag                       bool
)

// stdout receives the fingerprint line and nothing else.
var stdout io.Writer = os.Stdout

func start(log logger.T, config appconfig.FpagentConfig) (app.FingerprintAgent, error) {
	overrides := bootstrap.Overrides{Codebase: codebaseURL, Name: keyName, Backend: backendName}
	context, err := bootstrap.NewBootstrap(log).Init(config, overrides)
	if err != nil {
		return nil, err
	}

	service, err := storage.Open(context)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend, %v", context.AppConfig().Storage.Backend, err)
	}

	agent, err := app.NewFingerprintAgent(context, service)
	if err != nil {
		service.Close()
		return nil, err
	}
	return agent, nil
}

// Run as a single process. Failures are logged and the process still exits normally.
func run(log logger.T, config appconfig.FpagentConfig) {
	defer func() {
		if msg := recover(); msg != nil {
			log.Errorf("fpagent crashed with message %v!", msg)
			log.Errorf("%s: %s", msg, debug.Stack())
		}
	}()

	agent, err := start(log, config)
	if err != nil {
		log.Errorf("error occurred when starting fpagent: %v", err)
		return
	}
	defer agent.Stop()

	ctx, stop := signal.NotifyContext(gocontext.Background(), shutdownSignals...)
	defer stop()

	execute(ctx, log, agent)
}

func execute(ctx gocontext.Context, log logger.T, agent app.FingerprintAgent) {
	switch {
	case clearFingerprint:
		if err := agent.Clear(ctx); err != nil {
			log.Errorf("Failed to clear fingerprint %s. %v\n%s", agent.Key(), err, debug.Stack())
		}
	case serveAddr != "":
		if err := agent.Serve(ctx, serveAddr); err != nil {
			log.Errorf("Fingerprint server stopped. %v", err)
		}
	default:
		printFingerprint(ctx, log, agent)
	}
}

func printFingerprint(ctx gocontext.Context, log logger.T, agent app.FingerprintAgent) {
	result, err := agent.Fingerprint(ctx)
	if err != nil {
		log.Errorf("Failed to get fingerprint %s. %v\n%s", agent.Key(), err, debug.Stack())
		return
	}
	switch result.Status {
	case fingerprint.Found:
		fmt.Fprintf(stdout, "Fingerprint found: %s\n", result.Value)
	default:
		fmt.Fprintf(stdout, "Fingerprint created: %s\n", result.Value)
	}
}

func main() {
	// parse input parameters
	parseFlags()
	handleAgentVersionFlag()

	config, configErr := appconfig.Config(configPath, true)

	// initialize logger
	log := logger.Logger(config.Log.Dir, config.Log.Level)
	defer log.Close()
	defer log.Flush()

	if configErr != nil {
		log.Warnf("Using default configuration. %v", configErr)
	}

	run(log, config)
}
