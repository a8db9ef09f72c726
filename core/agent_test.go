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

package main

import (
	"bytes"
	gocontext "context"
	"errors"
	"flag"
	"testing"

	"github.com/fpstore/fpagent/agent/appconfig"
	"github.com/fpstore/fpagent/agent/fingerprint"
	"github.com/fpstore/fpagent/agent/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type agentMock struct {
	mock.Mock
}

func (m *agentMock) Key() string { return m.Called().String(0) }

func (m *agentMock) Fingerprint(ctx gocontext.Context) (fingerprint.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).(fingerprint.Result), args.Error(1)
}

func (m *agentMock) Clear(ctx gocontext.Context) error { return m.Called(ctx).Error(0) }

func (m *agentMock) Serve(ctx gocontext.Context, addr string) error {
	return m.Called(ctx, addr).Error(0)
}

func (m *agentMock) Stop() { m.Called() }

func captureStdout(t *testing.T) *bytes.Buffer {
	buf := &bytes.Buffer{}
	orig := stdout
	stdout = buf
	t.Cleanup(func() { stdout = orig })
	return buf
}

func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		configPath, keyName, codebaseURL, backendName, serveAddr = "", "", "", "", ""
		clearFingerprint, agentVersionFlag = false, false
	})
}

func TestPrintFingerprint(t *testing.T) {
	for _, tc := range []struct {
		status   fingerprint.Status
		expected string
	}{
		{fingerprint.Found, "Fingerprint found: fp-1700000000000\n"},
		{fingerprint.Created, "Fingerprint created: fp-1700000000000\n"},
	} {
		out := captureStdout(t)
		agent := &agentMock{}
		agent.On("Fingerprint", mock.Anything).Return(fingerprint.Result{Value: "fp-1700000000000", Status: tc.status}, nil)

		printFingerprint(gocontext.Background(), log.NewMockLog(), agent)
		assert.Equal(t, tc.expected, out.String())
	}
}

func TestPrintFingerprintFailureIsLogged(t *testing.T) {
	out := captureStdout(t)
	logMock := log.NewMockLog()
	agent := &agentMock{}
	agent.On("Key").Return("file:///fpagent/fp.txt")
	agent.On("Fingerprint", mock.Anything).Return(fingerprint.Result{}, errors.New("permission denied"))

	printFingerprint(gocontext.Background(), logMock, agent)
	assert.Empty(t, out.String())
	logMock.AssertCalled(t, "Errorf", mock.Anything, mock.Anything)
}

func TestExecuteClear(t *testing.T) {
	resetFlags(t)
	clearFingerprint = true
	agent := &agentMock{}
	agent.On("Clear", mock.Anything).Return(nil)

	execute(gocontext.Background(), log.NewMockLog(), agent)
	agent.AssertExpectations(t)
	agent.AssertNotCalled(t, "Fingerprint", mock.Anything)
}

func TestExecuteServe(t *testing.T) {
	resetFlags(t)
	serveAddr = "127.0.0.1:8000"
	agent := &agentMock{}
	agent.On("Serve", mock.Anything, "127.0.0.1:8000").Return(nil)

	execute(gocontext.Background(), log.NewMockLog(), agent)
	agent.AssertExpectations(t)
}

func TestRunWithMemoryBackend(t *testing.T) {
	resetFlags(t)
	out := captureStdout(t)
	backendName = appconfig.BackendMemory

	config := appconfig.DefaultConfig()
	config.Storage.DataDir = t.TempDir()
	run(log.NewMockLog(), config)

	assert.Regexp(t, `^Fingerprint created: fp-\d+\n$`, out.String())
}

func TestRunWithFsVaultKeepsValue(t *testing.T) {
	resetFlags(t)
	out := captureStdout(t)

	config := appconfig.DefaultConfig()
	config.Storage.DataDir = t.TempDir()
	run(log.NewMockLog(), config)
	first := out.String()
	require.Regexp(t, `^Fingerprint created: fp-\d+\n$`, first)

	out.Reset()
	run(log.NewMockLog(), config)
	assert.Equal(t, "Fingerprint found: "+first[len("Fingerprint created: "):], out.String())
}

func TestRunStartFailureExitsQuietly(t *testing.T) {
	resetFlags(t)
	out := captureStdout(t)
	backendName = "floppy"

	assert.NotPanics(t, func() { run(log.NewMockLog(), appconfig.DefaultConfig()) })
	assert.Empty(t, out.String())
}

func TestRegisterFlags(t *testing.T) {
	resetFlags(t)
	fs := flag.NewFlagSet("fpagent", flag.ContinueOnError)
	registerFlags(fs)

	require.NoError(t, fs.Parse([]string{"-key", "id.txt", "-codebase", "s3://bucket/app/", "-backend", "s3", "-clear"}))
	assert.Equal(t, "id.txt", keyName)
	assert.Equal(t, "s3://bucket/app/", codebaseURL)
	assert.Equal(t, "s3", backendName)
	assert.True(t, clearFingerprint)
	assert.Empty(t, serveAddr)
}
