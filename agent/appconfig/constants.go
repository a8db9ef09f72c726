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

package appconfig

const (
	// AppConfigFileName is the default config file name.
	AppConfigFileName = "fpagent.json"

	// DefaultFingerprintName is the resource name the original codebase used.
	DefaultFingerprintName = "fp.txt"

	DefaultCodebase = "file:///fpagent/"

	GeneratorTimestamp = "timestamp"
	GeneratorUUID      = "uuid"

	BackendMemory    = "memory"
	BackendFsVault   = "fsvault"
	BackendSQLite    = "sqlite"
	BackendEtcd      = "etcd"
	BackendJetStream = "jetstream"
	BackendKeyring   = "keyring"
	BackendS3        = "s3"

	DefaultBackend = BackendFsVault

	DefaultNatsURL         = "nats://127.0.0.1:4222"
	DefaultNatsBucket      = "fingerprints"
	DefaultEtcdPrefix      = "/fpagent/records"
	DefaultKeyringService  = "fpagent"
	DefaultHttpAddress     = "127.0.0.1:8000"
	DefaultLogLevel        = "info"
	DefaultSQLiteFileName  = "fingerprints.db"
	DefaultLockFileName    = "fpagent.lock"
	DefaultVaultFolderName = "Vault"

	DefaultEtcdDialTimeoutSeconds    = 5
	DefaultEtcdDialTimeoutSecondsMin = 1
	DefaultEtcdDialTimeoutSecondsMax = 60

	DefaultLockTimeoutSeconds    = 10
	DefaultLockTimeoutSecondsMin = 1
	DefaultLockTimeoutSecondsMax = 300

	// ReadWriteAccess means read/write access for the owner only.
	ReadWriteAccess = 0600

	// ReadWriteExecuteAccess means read/write/execute access for the owner only.
	ReadWriteExecuteAccess = 0700
)

// SupportedBackends lists the accepted values of Storage.Backend.
var SupportedBackends = []string{
	BackendMemory,
	BackendFsVault,
	BackendSQLite,
	BackendEtcd,
	BackendJetStream,
	BackendKeyring,
	BackendS3,
}
