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

//go:build darwin
// +build darwin

package log

import (
	"os"
)

const (
	// DefaultSeelogConfigFilePath specifies the seelog override location.
	DefaultSeelogConfigFilePath = "/opt/fpagent/seelog.xml"

	DefaultLogDir = "/var/log/fpagent"
)

var readFile = os.ReadFile

// initLogger prefers the seelog.xml override and falls back to the generated configuration.
func initLogger(logDir string, minLevel string) T {
	if logConfigBytes, err := readFile(DefaultSeelogConfigFilePath); err == nil {
		return initLoggerFromBytes(logConfigBytes)
	}
	return initLoggerFromBytes(loadLog(logDir, LogFile, minLevel))
}
