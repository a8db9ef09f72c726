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

// Parser contains logic for commandline handling flags
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fpstore/fpagent/agent/version"
)

// parseFlags displays flags and handles them
func parseFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flag.Usage = flagUsage
	registerFlags(flag.CommandLine)
	flag.Parse()
}

func registerFlags(fs *flag.FlagSet) {
	fs.StringVar(&configPath, configFlag, "", "")
	fs.StringVar(&keyName, keyFlag, "", "")
	fs.StringVar(&codebaseURL, codebaseFlag, "", "")
	fs.StringVar(&backendName, backendFlag, "", "")
	fs.StringVar(&serveAddr, serveFlag, "", "")
	fs.BoolVar(&clearFingerprint, clearFlag, false, "")
	fs.BoolVar(&agentVersionFlag, versionFlag, false, "")
}

// handles agent version flag.
// This function is without logger and will not print extra statements
func handleAgentVersionFlag() {
	if agentVersionFlag {
		fmt.Println("fpagent version: " + version.String())
		os.Exit(0)
	}
}

// flagUsage displays a command-line friendly usage message
func flagUsage() {
	fmt.Fprintln(os.Stderr, "\n\nCommand-line Usage:")
	fmt.Fprintln(os.Stderr, "\t-config  \tPath of the JSON or YAML configuration file\t(OPTIONAL)")
	fmt.Fprintln(os.Stderr, "\t-key     \tResource name resolved against the codebase, default fp.txt\t(OPTIONAL)")
	fmt.Fprintln(os.Stderr, "\t-codebase\tBase URL the resource name is resolved against\t(OPTIONAL)")
	fmt.Fprintln(os.Stderr, "\t-backend \tStorage backend: memory, fsvault, sqlite, etcd, jetstream, keyring or s3\t(OPTIONAL)")
	fmt.Fprintln(os.Stderr, "\n\t-clear   \tDeletes the stored fingerprint")
	fmt.Fprintln(os.Stderr, "\t-serve   \tServes fingerprints over HTTP on the given address")
	fmt.Fprintln(os.Stderr, "\t-version \tPrints the fpagent version")
}
