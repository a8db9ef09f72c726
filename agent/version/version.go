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

// Package version holds the fpagent release version.
package version

import "runtime"

// Version is overwritten at link time with -ldflags "-X ...version.Version=".
var Version = "1.0.0.0"

// BuildTime is the UTC build timestamp, also set at link time.
var BuildTime = "Not Available"

// String returns the release version with the build details.
func String() string {
	return Version + " (" + runtime.Version() + ", built " + BuildTime + ")"
}
