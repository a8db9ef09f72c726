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

package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fpstore/fpagent/agent/appconfig"
	"github.com/fpstore/fpagent/agent/context"
	"github.com/fpstore/fpagent/agent/persistence"
	"github.com/fpstore/fpagent/agent/persistence/etcd"
	"github.com/fpstore/fpagent/agent/persistence/fsvault"
	"github.com/fpstore/fpagent/agent/persistence/keyring"
	"github.com/fpstore/fpagent/agent/persistence/memory"
	"github.com/fpstore/fpagent/agent/persistence/s3"
	"github.com/fpstore/fpagent/agent/persistence/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type openersMock struct {
	mock.Mock
}

func (m *openersMock) openSQLite(_ context.T, path string) (persistence.Service, error) {
	args := m.Called(path)
	return args.Get(0).(persistence.Service), args.Error(1)
}

func (m *openersMock) openEtcd(_ context.T, config etcd.Config) (persistence.Service, error) {
	args := m.Called(config)
	return args.Get(0).(persistence.Service), args.Error(1)
}

func (m *openersMock) openJetStream(_ context.T, url string, bucket string) (persistence.Service, error) {
	args := m.Called(url, bucket)
	return args.Get(0).(persistence.Service), args.Error(1)
}

func (m *openersMock) openKeyring(_ context.T, config keyring.Config) (persistence.Service, error) {
	args := m.Called(config)
	return args.Get(0).(persistence.Service), args.Error(1)
}

func (m *openersMock) openS3(_ context.T, config s3.Config) (persistence.Service, error) {
	args := m.Called(config)
	return args.Get(0).(persistence.Service), args.Error(1)
}

type StorageTestSuite struct {
	suite.Suite
	openers *openersMock
	config  appconfig.FpagentConfig
	backend *memory.Store
}

func (suite *StorageTestSuite) SetupTest() {
	suite.openers = &openersMock{}
	deps = suite.openers
	suite.config = appconfig.DefaultConfig()
	suite.config.Storage.DataDir = suite.T().TempDir()
	suite.backend = memory.NewStore()
}

func (suite *StorageTestSuite) TearDownTest() {
	deps = defaultOpeners{}
}

func (suite *StorageTestSuite) open() (persistence.Service, error) {
	return Open(context.NewMockDefaultWithConfig(suite.config))
}

func (suite *StorageTestSuite) TestMemory() {
	suite.config.Storage.Backend = appconfig.BackendMemory
	svc, err := suite.open()
	suite.NoError(err)
	suite.IsType(&memory.Store{}, svc)
}

func (suite *StorageTestSuite) TestFsVault() {
	suite.config.Storage.Backend = appconfig.BackendFsVault
	svc, err := suite.open()
	suite.NoError(err)
	suite.IsType(&fsvault.Vault{}, svc)
}

func (suite *StorageTestSuite) TestSQLiteUsesDefaultPath() {
	suite.config.Storage.Backend = appconfig.BackendSQLite
	suite.openers.On("openSQLite", filepath.Join(suite.config.Storage.DataDir, appconfig.DefaultSQLiteFileName)).Return(suite.backend, nil)

	svc, err := suite.open()
	suite.NoError(err)
	suite.Equal(suite.backend, svc)
	suite.openers.AssertExpectations(suite.T())
}

func (suite *StorageTestSuite) TestEtcd() {
	suite.config.Storage.Backend = appconfig.BackendEtcd
	suite.config.Storage.EtcdEndpoints = []string{"10.0.0.1:2379"}
	suite.openers.On("openEtcd", etcd.Config{
		Endpoints:   []string{"10.0.0.1:2379"},
		Prefix:      appconfig.DefaultEtcdPrefix,
		DialTimeout: appconfig.DefaultEtcdDialTimeoutSeconds * time.Second,
	}).Return(suite.backend, nil)

	_, err := suite.open()
	suite.NoError(err)
	suite.openers.AssertExpectations(suite.T())
}

func (suite *StorageTestSuite) TestJetStream() {
	suite.config.Storage.Backend = appconfig.BackendJetStream
	suite.openers.On("openJetStream", appconfig.DefaultNatsURL, appconfig.DefaultNatsBucket).Return(suite.backend, nil)

	_, err := suite.open()
	suite.NoError(err)
	suite.openers.AssertExpectations(suite.T())
}

func (suite *StorageTestSuite) TestKeyring() {
	suite.config.Storage.Backend = appconfig.BackendKeyring
	suite.openers.On("openKeyring", keyring.Config{
		ServiceName: appconfig.DefaultKeyringService,
		FileDir:     filepath.Join(suite.config.Storage.DataDir, "Keyring"),
	}).Return(suite.backend, nil)

	_, err := suite.open()
	suite.NoError(err)
	suite.openers.AssertExpectations(suite.T())
}

func (suite *StorageTestSuite) TestS3FromCodebase() {
	suite.config.Storage.Backend = appconfig.BackendS3
	suite.config.Fingerprint.Codebase = "s3://fp-bucket/apps/demo/"
	suite.openers.On("openS3", s3.Config{Bucket: "fp-bucket", Prefix: "apps/demo"}).Return(suite.backend, nil)

	_, err := suite.open()
	suite.NoError(err)
	suite.openers.AssertExpectations(suite.T())
}

func (suite *StorageTestSuite) TestS3WithoutBucket() {
	suite.config.Storage.Backend = appconfig.BackendS3
	_, err := suite.open()
	suite.Error(err)
	suite.openers.AssertNotCalled(suite.T(), "openS3", mock.Anything)
}

func (suite *StorageTestSuite) TestUnsupportedBackend() {
	suite.config.Storage.Backend = "floppy"
	_, err := suite.open()
	suite.EqualError(err, `unsupported storage backend "floppy"`)
}

func TestStorageTestSuite(t *testing.T) {
	suite.Run(t, new(StorageTestSuite))
}

func TestOpenSQLiteFile(t *testing.T) {
	config := appconfig.DefaultConfig()
	config.Storage.Backend = appconfig.BackendSQLite
	config.Storage.DataDir = t.TempDir()

	svc, err := Open(context.NewMockDefaultWithConfig(config))
	require.NoError(t, err)
	defer svc.Close()
	assert.IsType(t, &sqlite.Store{}, svc)
	assert.FileExists(t, config.SQLitePath())
}

func TestS3Config(t *testing.T) {
	for _, tc := range []struct {
		name     string
		codebase string
		storage  appconfig.StorageCfg
		expected s3.Config
		wantErr  bool
	}{
		{
			name:     "explicit bucket",
			codebase: "file:///fpagent/",
			storage:  appconfig.StorageCfg{S3Bucket: "b", S3Region: "eu-west-1", S3Prefix: "p", S3Endpoint: "http://127.0.0.1:9000"},
			expected: s3.Config{Bucket: "b", Region: "eu-west-1", Prefix: "p", Endpoint: "http://127.0.0.1:9000"},
		},
		{
			name:     "virtual hosted codebase",
			codebase: "https://fp-bucket.s3.eu-central-1.amazonaws.com/app/",
			expected: s3.Config{Bucket: "fp-bucket", Region: "eu-central-1", Prefix: "app"},
		},
		{
			name:     "explicit region wins",
			codebase: "https://fp-bucket.s3.eu-central-1.amazonaws.com/app/",
			storage:  appconfig.StorageCfg{S3Region: "us-west-2"},
			expected: s3.Config{Bucket: "fp-bucket", Region: "us-west-2", Prefix: "app"},
		},
		{
			name:     "not an s3 codebase",
			codebase: "https://example.com/app/",
			wantErr:  true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			config := appconfig.DefaultConfig()
			config.Fingerprint.Codebase = tc.codebase
			config.Storage = tc.storage

			actual, err := S3Config(config)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}
