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

package keyring

import (
	"context"
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/fpstore/fpagent/agent/log"
	"github.com/fpstore/fpagent/agent/persistence"
	"github.com/fpstore/fpagent/agent/persistence/persistencetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConformanceArrayKeyring(t *testing.T) {
	persistencetest.Run(t, func(t *testing.T) persistence.Service {
		return New(log.NewMockLog(), keyring.NewArrayKeyring(nil))
	})
}

func TestConformanceFileKeyring(t *testing.T) {
	t.Setenv(PasswordEnvVar, "test-password")
	persistencetest.Run(t, func(t *testing.T) persistence.Service {
		store, err := Open(log.NewMockLog(), Config{
			ServiceName: "fpagent-test",
			FileDir:     t.TempDir(),
			Backends:    []keyring.BackendType{keyring.FileBackend},
		})
		require.NoError(t, err)
		return store
	})
}

func TestItemsAreLabelled(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	store := New(log.NewMockLog(), ring)
	require.NoError(t, store.Create(context.Background(), "file:///fpagent/fp.txt", 16))

	item, err := ring.Get(persistence.EncodeKey("file:///fpagent/fp.txt"))
	require.NoError(t, err)
	assert.Equal(t, "file:///fpagent/fp.txt", item.Description)
}

type failingKeyring struct {
	keyring.Keyring
}

func (failingKeyring) Get(string) (keyring.Item, error) {
	return keyring.Item{}, errors.New("dbus: connection refused")
}

func TestKeyringErrorIsNotNotFound(t *testing.T) {
	store := New(log.NewMockLog(), failingKeyring{})

	lookup := store.Lookup(context.Background(), "k")
	assert.Equal(t, persistence.StatusError, lookup.Status)

	err := store.Create(context.Background(), "k", 8)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, persistence.ErrAlreadyExists)
}
