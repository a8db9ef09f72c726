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
	"testing"
	"time"

	"github.com/fpstore/fpagent/agent/appconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampGenerator(t *testing.T) {
	assert.Equal(t, "fp-1700000000000", TimestampGenerator(time.UnixMilli(1700000000000)))
	assert.Regexp(t, `^fp-\d+$`, TimestampGenerator(time.Now()))
}

func TestUUIDGenerator(t *testing.T) {
	value := UUIDGenerator(time.Now())
	assert.Regexp(t, `^fp-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, value)
	assert.NotEqual(t, value, UUIDGenerator(time.Now()))
}

func TestUUIDGeneratorUsesDependency(t *testing.T) {
	defer func(orig func() string) { newUUID = orig }(newUUID)
	newUUID = func() string { return "979b554b-0d67-42c6-9730-48443b3016dd" }

	assert.Equal(t, "fp-979b554b-0d67-42c6-9730-48443b3016dd", UUIDGenerator(time.Time{}))
}

func TestGeneratorByName(t *testing.T) {
	now := time.UnixMilli(5)

	g, err := GeneratorByName(appconfig.GeneratorTimestamp)
	require.NoError(t, err)
	assert.Equal(t, "fp-5", g(now))

	g, err = GeneratorByName("")
	require.NoError(t, err)
	assert.Equal(t, "fp-5", g(now))

	g, err = GeneratorByName(appconfig.GeneratorUUID)
	require.NoError(t, err)
	assert.NotEqual(t, "fp-5", g(now))

	_, err = GeneratorByName("sha1")
	assert.Error(t, err)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "", firstLine(nil))
	assert.Equal(t, "fp-1", firstLine([]byte("fp-1")))
	assert.Equal(t, "fp-1", firstLine([]byte("fp-1\n")))
	assert.Equal(t, "fp-1", firstLine([]byte("fp-1\r\nfp-2")))
}
