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

package appconfig

const (
	// DefaultProgramFolder is the default folder for fpagent on macOS
	DefaultProgramFolder = "/opt/fpagent/"

	// AppConfigPath is the path of the AppConfig
	AppConfigPath = DefaultProgramFolder + AppConfigFileName

	// DefaultDataStorePath represents the directory for storing fingerprint data
	DefaultDataStorePath = DefaultProgramFolder + "data/"

	// DefaultLogDir represents the directory for log files
	DefaultLogDir = "/var/log/fpagent"
)
