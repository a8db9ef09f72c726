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

// Package filelock serializes fingerprint creation between processes that
// share a data directory.
package filelock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fpstore/fpagent/agent/backoffconfig"
	"github.com/fpstore/fpagent/agent/log"
	"github.com/nightlyone/lockfile"
)

// ErrLockTimeout is returned when the lock is still held by another process after the timeout.
var ErrLockTimeout = errors.New("timed out waiting for lock file")

// FileLocker is a cross-process mutex.
type FileLocker interface {
	Lock(ctx context.Context) error
	Unlock() error
}

// locker matches the subset of lockfile.Lockfile used here.
type locker interface {
	TryLock() error
	Unlock() error
}

type fileLocker struct {
	log     log.T
	path    string
	lock    locker
	timeout time.Duration
}

// NewFileLocker returns a FileLocker backed by a pid file at lockPath.
// lockPath must be absolute.
func NewFileLocker(log log.T, lockPath string, timeout time.Duration) (FileLocker, error) {
	lf, err := lockfile.New(lockPath)
	if err != nil {
		return nil, fmt.Errorf("Failed to create lock file handle %s. %v", lockPath, err)
	}
	return &fileLocker{log: log, path: lockPath, lock: lf, timeout: timeout}, nil
}

// Lock polls the lock file with exponential backoff until it is acquired,
// the timeout elapses or ctx is done.
func (fl *fileLocker) Lock(ctx context.Context) error {
	b, err := backoffconfig.LockAcquireBackoff(fl.timeout)
	if err != nil {
		return err
	}

	attempts := 0
	op := func() error {
		attempts++
		err := fl.lock.TryLock()
		if err == nil {
			return nil
		}
		if isTemporary(err) {
			fl.log.Debugf("Lock file %s is busy (attempt %d): %v", fl.path, attempts, err)
			return err
		}
		return &backoff.PermanentError{Err: err}
	}

	if err = backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if isTemporary(err) {
			return fmt.Errorf("%w: %s after %d attempts", ErrLockTimeout, fl.path, attempts)
		}
		return fmt.Errorf("Failed to lock %s. %v", fl.path, err)
	}
	fl.log.Debugf("Acquired lock file %s", fl.path)
	return nil
}

// Unlock releases the lock file.
func (fl *fileLocker) Unlock() error {
	if err := fl.lock.Unlock(); err != nil {
		return fmt.Errorf("Failed to unlock %s. %v", fl.path, err)
	}
	return nil
}

func isTemporary(err error) bool {
	var te interface{ Temporary() bool }
	return errors.As(err, &te) && te.Temporary()
}
