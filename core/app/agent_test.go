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

package app

import (
	gocontext "context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/fpstore/fpagent/agent/appconfig"
	"github.com/fpstore/fpagent/agent/context"
	"github.com/fpstore/fpagent/agent/fingerprint"
	"github.com/fpstore/fpagent/agent/persistence"
	"github.com/fpstore/fpagent/agent/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// AgentTestSuite runs the agent over an in-memory backend.
type AgentTestSuite struct {
	suite.Suite
	config  appconfig.FpagentConfig
	service *memory.Store
}

func (suite *AgentTestSuite) SetupTest() {
	suite.config = appconfig.DefaultConfig()
	suite.config.Storage.Backend = appconfig.BackendMemory
	suite.config.Storage.DataDir = suite.T().TempDir()
	suite.service = memory.NewStore()
}

func (suite *AgentTestSuite) newAgent() *CoreAgent {
	agent, err := NewFingerprintAgent(context.NewMockDefaultWithConfig(suite.config), suite.service)
	suite.Require().NoError(err)
	return agent
}

func TestAgentTestSuite(t *testing.T) {
	suite.Run(t, new(AgentTestSuite))
}

func (suite *AgentTestSuite) TestKeyIsResolvedAgainstCodebase() {
	suite.config.Fingerprint.Codebase = "http://example.com/apps/demo/"
	suite.Equal("http://example.com/apps/demo/fp.txt", suite.newAgent().Key())
}

func (suite *AgentTestSuite) TestEmptyCodebaseUsesDataDir() {
	suite.config.Fingerprint.Codebase = ""
	expected := "file://" + filepath.ToSlash(suite.config.Storage.DataDir) + "/fp.txt"
	suite.Equal(expected, suite.newAgent().Key())
}

func (suite *AgentTestSuite) TestFingerprintCreatedThenFound() {
	result, err := suite.newAgent().Fingerprint(gocontext.Background())
	suite.Require().NoError(err)
	suite.Equal(fingerprint.Created, result.Status)
	suite.Regexp(regexp.MustCompile(`^fp-\d+$`), result.Value)

	again, err := suite.newAgent().Fingerprint(gocontext.Background())
	suite.Require().NoError(err)
	suite.Equal(fingerprint.Found, again.Status)
	suite.Equal(result.Value, again.Value)
}

func (suite *AgentTestSuite) TestUUIDGenerator() {
	suite.config.Fingerprint.Generator = appconfig.GeneratorUUID
	result, err := suite.newAgent().Fingerprint(gocontext.Background())
	suite.Require().NoError(err)
	suite.Regexp(regexp.MustCompile(`^fp-[0-9a-f-]{32,36}$`), result.Value)
}

func (suite *AgentTestSuite) TestUnknownGenerator() {
	suite.config.Fingerprint.Generator = "random"
	_, err := NewFingerprintAgent(context.NewMockDefaultWithConfig(suite.config), suite.service)
	suite.Error(err)
}

func (suite *AgentTestSuite) TestInvalidCodebase() {
	suite.config.Fingerprint.Codebase = "relative/path/"
	_, err := NewFingerprintAgent(context.NewMockDefaultWithConfig(suite.config), suite.service)
	suite.Error(err)
}

func (suite *AgentTestSuite) TestClear() {
	agent := suite.newAgent()
	_, err := agent.Fingerprint(gocontext.Background())
	suite.Require().NoError(err)

	suite.NoError(agent.Clear(gocontext.Background()))
	suite.Equal(persistence.StatusNotFound, suite.service.Lookup(gocontext.Background(), agent.Key()).Status)
	suite.ErrorIs(agent.Clear(gocontext.Background()), persistence.ErrNotFound)
}

func (suite *AgentTestSuite) TestLockFile() {
	suite.config.Fingerprint.UseLockFile = true
	agent := suite.newAgent()

	result, err := agent.Fingerprint(gocontext.Background())
	suite.Require().NoError(err)
	suite.Equal(fingerprint.Created, result.Status)
	suite.NoFileExists(filepath.Join(suite.config.Storage.DataDir, appconfig.DefaultLockFileName))
}

func (suite *AgentTestSuite) TestServeStopsOnCancel() {
	agent := suite.newAgent()
	ctx, cancel := gocontext.WithCancel(gocontext.Background())
	done := make(chan error, 1)
	go func() { done <- agent.Serve(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		suite.NoError(err)
	case <-time.After(5 * time.Second):
		suite.Fail("server did not stop")
	}
}

func TestStopClosesBackend(t *testing.T) {
	service := &closeRecorder{Service: memory.NewStore()}
	agent, err := NewFingerprintAgent(context.NewMockDefault(), service)
	require.NoError(t, err)

	agent.Stop()
	assert.True(t, service.closed)
}

type closeRecorder struct {
	persistence.Service
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.Service.Close()
}
