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

// The parser applies limits and assigns default values to config overrides.

package appconfig

import (
	"strings"
)

func parser(config *FpagentConfig) {
	config.Fingerprint.Codebase = getStringValue(config.Fingerprint.Codebase, DefaultCodebase)
	config.Fingerprint.Name = getStringValue(config.Fingerprint.Name, DefaultFingerprintName)
	config.Fingerprint.Generator = getEnumValue(
		config.Fingerprint.Generator,
		[]string{GeneratorTimestamp, GeneratorUUID},
		GeneratorTimestamp)

	config.Storage.Backend = getEnumValue(config.Storage.Backend, SupportedBackends, DefaultBackend)
	config.Storage.DataDir = getStringValue(config.Storage.DataDir, DefaultDataStorePath)
	config.Storage.EtcdPrefix = getStringValue(config.Storage.EtcdPrefix, DefaultEtcdPrefix)
	config.Storage.EtcdDialTimeoutSeconds = getNumericValue(
		config.Storage.EtcdDialTimeoutSeconds,
		DefaultEtcdDialTimeoutSecondsMin,
		DefaultEtcdDialTimeoutSecondsMax,
		DefaultEtcdDialTimeoutSeconds)
	config.Storage.NatsURL = getStringValue(config.Storage.NatsURL, DefaultNatsURL)
	config.Storage.NatsBucket = getStringValue(config.Storage.NatsBucket, DefaultNatsBucket)
	config.Storage.KeyringService = getStringValue(config.Storage.KeyringService, DefaultKeyringService)

	config.Http.Address = getStringValue(config.Http.Address, DefaultHttpAddress)

	config.Lock.TimeoutSeconds = getNumericValue(
		config.Lock.TimeoutSeconds,
		DefaultLockTimeoutSecondsMin,
		DefaultLockTimeoutSecondsMax,
		DefaultLockTimeoutSeconds)

	config.Log.Level = getStringValue(strings.ToLower(config.Log.Level), DefaultLogLevel)
}

func getStringValue(configValue string, defaultValue string) string {
	if strings.TrimSpace(configValue) == "" {
		return defaultValue
	}
	return configValue
}

func getNumericValue(configValue int, minValue int, maxValue int, defaultValue int) int {
	if configValue < minValue || configValue > maxValue {
		return defaultValue
	}
	return configValue
}

func getEnumValue(configValue string, allowed []string, defaultValue string) string {
	value := strings.ToLower(strings.TrimSpace(configValue))
	for _, a := range allowed {
		if value == a {
			return a
		}
	}
	return defaultValue
}
