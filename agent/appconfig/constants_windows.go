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

//go:build windows
// +build windows

package appconfig

import (
	"os"
	"path/filepath"
)

// FpagentFolder is the path under program data and program files.
const FpagentFolder = "fpagent"

// DefaultProgramFolder is the folder holding the fpagent configuration.
var DefaultProgramFolder string

// AppConfigPath is the path of the AppConfig
var AppConfigPath string

// DefaultDataStorePath represents the directory for storing fingerprint data
var DefaultDataStorePath string

// DefaultLogDir represents the directory for log files
var DefaultLogDir string

func init() {
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = filepath.Join(os.Getenv("SystemDrive"), "ProgramData")
	}
	DefaultProgramFolder = filepath.Join(os.Getenv("ProgramFiles"), FpagentFolder)
	AppConfigPath = filepath.Join(DefaultProgramFolder, AppConfigFileName)
	DefaultDataStorePath = filepath.Join(programData, FpagentFolder, "Data")
	DefaultLogDir = filepath.Join(programData, FpagentFolder, "Logs")
}
