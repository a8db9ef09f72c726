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

// Package log initializes the seelog based logger used across fpagent.
// It should be loaded once from main and the resulting log.T passed down.
package log

import (
	"fmt"
	"sync"

	"github.com/cihub/seelog"
)

const (
	LogFile   = "fpagent.log"
	ErrorFile = "errors.log"
)

// pkgMutex serializes calls to the underlying seelog logger.
var pkgMutex = new(sync.Mutex)

var (
	loadedLogger *T
	lock         sync.RWMutex
)

// Logger loads the logger from the seelog.xml override if one exists,
// otherwise from the default configuration for logDir.
// It returns the cached logger on subsequent calls.
func Logger(logDir string, minLevel string) T {
	if !isLoaded() {
		cache(initLogger(logDir, minLevel))
	}
	return getCached()
}

func isLoaded() bool {
	lock.RLock()
	defer lock.RUnlock()
	return loadedLogger != nil
}

func cache(logger T) {
	lock.Lock()
	defer lock.Unlock()
	loadedLogger = &logger
}

func getCached() T {
	lock.RLock()
	defer lock.RUnlock()
	return *loadedLogger
}

func withContext(logger seelog.LoggerInterface, context ...string) (contextLogger T) {
	contextLogger = &Wrapper{
		Format:   &ContextFormatFilter{Context: context},
		Delegate: logger,
		M:        pkgMutex,
	}

	// stack depth 2 prints the function calling the wrapper
	logger.SetAdditionalStackDepth(2)
	return contextLogger
}

// ContextFormatFilter prepends the logging context to every message.
type ContextFormatFilter struct {
	Context []string
}

// Filter adds the context at the beginning of the parameter slice.
func (f ContextFormatFilter) Filter(params ...interface{}) (newParams []interface{}) {
	newParams = make([]interface{}, 0, len(f.Context)+len(params))
	for _, c := range f.Context {
		newParams = append(newParams, c+" ")
	}
	return append(newParams, params...)
}

// Filterf adds the context in front of the format string.
func (f ContextFormatFilter) Filterf(format string, params ...interface{}) (newFormat string, newParams []interface{}) {
	for _, c := range f.Context {
		newFormat += c + " "
	}
	return newFormat + format, params
}

// initLoggerFromBytes initializes the logger using the specified configuration as bytes.
// A console-only logger is returned if the configuration cannot be parsed.
func initLoggerFromBytes(seelogConfig []byte) T {
	seelogger, err := seelog.LoggerFromConfigAsBytes(seelogConfig)
	if err != nil {
		fmt.Println("Error parsing logger config:", err)
		seelogger, _ = seelog.LoggerFromConfigAsBytes(consoleConfig(seelog.InfoStr))
	}
	return withContext(seelogger)
}
