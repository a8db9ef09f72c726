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

// Package context defines a type that carries context specific data such as the logger.
// Inspired by Google's http://godoc.org/golang.org/x/net/context
package context

import (
	"github.com/fpstore/fpagent/agent/appconfig"
	"github.com/fpstore/fpagent/agent/log"
)

// T transfers context specific data across different execution boundaries.
// Instead of adding the context to specific structs, we pass Context as the first
// parameter to the methods themselves.
type T interface {
	Log() log.T
	AppConfig() appconfig.FpagentConfig
	With(context string) T
	CurrentContext() []string
}

// Default returns a context that uses the given logger and appconfig.
func Default(logger log.T, config appconfig.FpagentConfig, contextList ...string) T {
	return &defaultContext{context: contextList, log: logger.WithContext(contextList...), appconfig: config}
}

type defaultContext struct {
	context   []string
	log       log.T
	appconfig appconfig.FpagentConfig
}

func (c *defaultContext) With(logContext string) T {
	contextSlice := make([]string, 0, len(c.context)+1)
	contextSlice = append(contextSlice, c.context...)
	contextSlice = append(contextSlice, logContext)
	return &defaultContext{
		context:   contextSlice,
		log:       c.log.WithContext(logContext),
		appconfig: c.appconfig,
	}
}

func (c *defaultContext) Log() log.T {
	return c.log
}

func (c *defaultContext) AppConfig() appconfig.FpagentConfig {
	return c.appconfig
}

func (c *defaultContext) CurrentContext() []string {
	return c.context
}
