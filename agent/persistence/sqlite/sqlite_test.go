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

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fpstore/fpagent/agent/log"
	"github.com/fpstore/fpagent/agent/persistence"
	"github.com/fpstore/fpagent/agent/persistence/persistencetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConformanceMemory(t *testing.T) {
	persistencetest.Run(t, func(t *testing.T) persistence.Service {
		store, err := Open(log.NewMockLog(), ":memory:")
		require.NoError(t, err)
		return store
	})
}

func TestConformanceFile(t *testing.T) {
	persistencetest.Run(t, func(t *testing.T) persistence.Service {
		store, err := Open(log.NewMockLog(), filepath.Join(t.TempDir(), "db", "fingerprints.db"))
		require.NoError(t, err)
		return store
	})
}

func TestRecordsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fingerprints.db")

	first, err := Open(log.NewMockLog(), path)
	require.NoError(t, err)
	require.NoError(t, first.Create(ctx, "file:///fpagent/fp.txt", 16))
	require.NoError(t, first.Write(ctx, "file:///fpagent/fp.txt", []byte("fp-1700000000000")))
	require.NoError(t, first.Close())

	second, err := Open(log.NewMockLog(), path)
	require.NoError(t, err)
	defer second.Close()

	lookup := second.Lookup(ctx, "file:///fpagent/fp.txt")
	require.Equal(t, persistence.StatusFound, lookup.Status)
	assert.Equal(t, "fp-1700000000000", string(lookup.Value))
}

func TestLookupAfterCloseFails(t *testing.T) {
	store, err := Open(log.NewMockLog(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	lookup := store.Lookup(context.Background(), "k")
	assert.Equal(t, persistence.StatusError, lookup.Status)
	assert.Error(t, lookup.Err)
}

func TestLookupHonoursCancelledContext(t *testing.T) {
	store, err := Open(log.NewMockLog(), ":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, persistence.StatusError, store.Lookup(ctx, "k").Status)
}
