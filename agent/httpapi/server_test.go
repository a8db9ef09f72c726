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

package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fpstore/fpagent/agent/codebase"
	"github.com/fpstore/fpagent/agent/fingerprint"
	"github.com/fpstore/fpagent/agent/log"
	"github.com/fpstore/fpagent/agent/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) GetOrCreate(context.Context, string) (fingerprint.Result, error) {
	return fingerprint.Result{}, errors.New("backend unavailable")
}

type panickingStore struct{}

func (panickingStore) GetOrCreate(context.Context, string) (fingerprint.Result, error) {
	panic("boom")
}

func newTestServer(t *testing.T, store FingerprintStore) *httptest.Server {
	resolver, err := codebase.NewResolver("http://example.com/app/")
	require.NoError(t, err)
	srv := httptest.NewServer(NewServer(log.NewMockLog(), store, resolver).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func newMemoryStore() *fingerprint.Store {
	clock := func() time.Time { return time.UnixMilli(1700000000000) }
	return fingerprint.NewStore(log.NewMockLog(), memory.NewStore(), fingerprint.WithClock(clock))
}

func get(t *testing.T, url string, header http.Header) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestGetFingerprintCreatesThenFinds(t *testing.T) {
	srv := newTestServer(t, newMemoryStore())

	resp, body := get(t, srv.URL+"/v1/fingerprints/fp.txt", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fp-1700000000000\n", body)
	assert.Equal(t, `"fp-1700000000000"`, resp.Header.Get("ETag"))
	assert.Equal(t, "public, max-age=31536000, immutable", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "created", resp.Header.Get(StatusHeader))

	resp, body = get(t, srv.URL+"/v1/fingerprints/fp.txt", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fp-1700000000000\n", body)
	assert.Equal(t, "found", resp.Header.Get(StatusHeader))
}

func TestIfNoneMatchReturnsNotModified(t *testing.T) {
	srv := newTestServer(t, newMemoryStore())

	resp, _ := get(t, srv.URL+"/v1/fingerprints/fp.txt", http.Header{"If-None-Match": {`W/"other", "fp-1700000000000"`}})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	assert.Equal(t, `"fp-1700000000000"`, resp.Header.Get("ETag"))

	resp, _ = get(t, srv.URL+"/v1/fingerprints/fp.txt", http.Header{"If-None-Match": {`"stale"`}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNestedNamesAreDistinctKeys(t *testing.T) {
	srv := newTestServer(t, newMemoryStore())

	resp, _ := get(t, srv.URL+"/v1/fingerprints/fp.txt", nil)
	assert.Equal(t, "created", resp.Header.Get(StatusHeader))
	resp, _ = get(t, srv.URL+"/v1/fingerprints/sub/fp.txt", nil)
	assert.Equal(t, "created", resp.Header.Get(StatusHeader))
}

func TestEmptyNameIsBadRequest(t *testing.T) {
	srv := newTestServer(t, newMemoryStore())

	resp, _ := get(t, srv.URL+"/v1/fingerprints/", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStoreErrorIsServerError(t *testing.T) {
	srv := newTestServer(t, failingStore{})

	resp, body := get(t, srv.URL+"/v1/fingerprints/fp.txt", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "backend unavailable")
}

func TestPanicIsRecovered(t *testing.T) {
	srv := newTestServer(t, panickingStore{})

	resp, _ := get(t, srv.URL+"/v1/fingerprints/fp.txt", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, failingStore{})

	resp, body := get(t, srv.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", body)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	resolver, err := codebase.NewResolver("file:///fpagent/")
	require.NoError(t, err)
	server := NewServer(log.NewMockLog(), newMemoryStore(), resolver)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestListenAndServeReportsBindError(t *testing.T) {
	resolver, err := codebase.NewResolver("file:///fpagent/")
	require.NoError(t, err)
	server := NewServer(log.NewMockLog(), newMemoryStore(), resolver)

	assert.Error(t, server.ListenAndServe(context.Background(), "127.0.0.1:-1"))
}

func TestEtagMatches(t *testing.T) {
	assert.True(t, etagMatches("*", `"x"`))
	assert.True(t, etagMatches(`W/"x"`, `"x"`))
	assert.True(t, etagMatches(`"a", "x"`, `"x"`))
	assert.False(t, etagMatches("", `"x"`))
	assert.False(t, etagMatches(`"y"`, `"x"`))
}
