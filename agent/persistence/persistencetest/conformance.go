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

// Package persistencetest holds the checks every persistence backend must pass.
package persistencetest

import (
	"context"
	"testing"

	"github.com/fpstore/fpagent/agent/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty backend. The backend is closed by the caller.
type Factory func(t *testing.T) persistence.Service

const key = "file:///fpagent/fp.txt"

// Run executes the conformance checks against backends built by newService.
func Run(t *testing.T, newService Factory) {
	tests := []struct {
		name string
		run  func(t *testing.T, svc persistence.Service)
	}{
		{"LookupMissing", lookupMissing},
		{"CreateWriteLookup", createWriteLookup},
		{"DuplicateCreate", duplicateCreate},
		{"WriteMissing", writeMissing},
		{"WriteOversize", writeOversize},
		{"WriteOverwrites", writeOverwrites},
		{"Delete", deleteRecord},
		{"InvalidKey", invalidKey},
		{"DistinctKeys", distinctKeys},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newService(t)
			defer svc.Close()
			tc.run(t, svc)
		})
	}
}

func lookupMissing(t *testing.T, svc persistence.Service) {
	lookup := svc.Lookup(context.Background(), key)
	assert.Equal(t, persistence.StatusNotFound, lookup.Status)
	assert.NoError(t, lookup.Err)
}

func createWriteLookup(t *testing.T, svc persistence.Service) {
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, key, 16))

	lookup := svc.Lookup(ctx, key)
	require.Equal(t, persistence.StatusFound, lookup.Status, "lookup error: %v", lookup.Err)
	assert.Empty(t, lookup.Value)

	require.NoError(t, svc.Write(ctx, key, []byte("fp-1700000000000")))
	lookup = svc.Lookup(ctx, key)
	require.Equal(t, persistence.StatusFound, lookup.Status, "lookup error: %v", lookup.Err)
	assert.Equal(t, "fp-1700000000000", string(lookup.Value))
}

func duplicateCreate(t *testing.T, svc persistence.Service) {
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, key, 16))
	require.NoError(t, svc.Write(ctx, key, []byte("fp-1")))

	err := svc.Create(ctx, key, 16)
	assert.ErrorIs(t, err, persistence.ErrAlreadyExists)

	lookup := svc.Lookup(ctx, key)
	assert.Equal(t, "fp-1", string(lookup.Value))
}

func writeMissing(t *testing.T, svc persistence.Service) {
	err := svc.Write(context.Background(), key, []byte("fp-1"))
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func writeOversize(t *testing.T, svc persistence.Service) {
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, key, 4))
	require.NoError(t, svc.Write(ctx, key, []byte("fp-1")))

	err := svc.Write(ctx, key, []byte("fp-12"))
	assert.ErrorIs(t, err, persistence.ErrSizeExceeded)

	lookup := svc.Lookup(ctx, key)
	assert.Equal(t, "fp-1", string(lookup.Value))
}

func writeOverwrites(t *testing.T, svc persistence.Service) {
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, key, 8))
	require.NoError(t, svc.Write(ctx, key, []byte("first")))
	require.NoError(t, svc.Write(ctx, key, []byte("2nd")))

	lookup := svc.Lookup(ctx, key)
	assert.Equal(t, "2nd", string(lookup.Value))
}

func deleteRecord(t *testing.T, svc persistence.Service) {
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, key, 8))
	require.NoError(t, svc.Delete(ctx, key))

	assert.Equal(t, persistence.StatusNotFound, svc.Lookup(ctx, key).Status)
	assert.ErrorIs(t, svc.Delete(ctx, key), persistence.ErrNotFound)
	assert.NoError(t, svc.Create(ctx, key, 8))
}

func invalidKey(t *testing.T, svc persistence.Service) {
	ctx := context.Background()
	assert.ErrorIs(t, svc.Create(ctx, "", 8), persistence.ErrInvalidKey)
	assert.ErrorIs(t, svc.Write(ctx, "a\x00b", []byte("x")), persistence.ErrInvalidKey)
	assert.ErrorIs(t, svc.Delete(ctx, ""), persistence.ErrInvalidKey)

	lookup := svc.Lookup(ctx, "")
	assert.Equal(t, persistence.StatusError, lookup.Status)
	assert.ErrorIs(t, lookup.Err, persistence.ErrInvalidKey)
}

func distinctKeys(t *testing.T, svc persistence.Service) {
	ctx := context.Background()
	other := "file:///fpagent//fp.txt"
	require.NoError(t, svc.Create(ctx, key, 8))
	require.NoError(t, svc.Create(ctx, other, 8))
	require.NoError(t, svc.Write(ctx, key, []byte("one")))
	require.NoError(t, svc.Write(ctx, other, []byte("two")))

	assert.Equal(t, "one", string(svc.Lookup(ctx, key).Value))
	assert.Equal(t, "two", string(svc.Lookup(ctx, other).Value))
}
