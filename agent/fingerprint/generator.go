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

package fingerprint

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fpstore/fpagent/agent/appconfig"
)

// Prefix starts every generated fingerprint.
const Prefix = "fp-"

// Generator produces a new fingerprint value.
type Generator func(now time.Time) string

// TimestampGenerator returns "fp-" followed by the epoch milliseconds of now.
func TimestampGenerator(now time.Time) string {
	return Prefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// UUIDGenerator returns "fp-" followed by a random version 4 UUID.
func UUIDGenerator(time.Time) string {
	return Prefix + newUUID()
}

// GeneratorByName maps a configured generator name to its implementation.
func GeneratorByName(name string) (Generator, error) {
	switch name {
	case "", appconfig.GeneratorTimestamp:
		return TimestampGenerator, nil
	case appconfig.GeneratorUUID:
		return UUIDGenerator, nil
	default:
		return nil, fmt.Errorf("unknown fingerprint generator %q", name)
	}
}
