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

// Package backoffconfig builds the exponential backoff used while waiting on
// contended resources such as the fingerprint lock file.
package backoffconfig

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultMultiplier   = 2.0
	defaultJitterFactor = 0.2
	minLockInterval     = 10 * time.Millisecond
	maxLockInterval     = time.Second
)

// LockAcquireBackoff returns the backoff used while polling a busy lock file.
// The returned backoff stops once timeout has elapsed.
//
// The first interval is a twentieth of the timeout, bounded to
// [minLockInterval, maxLockInterval], so short timeouts still poll several times.
func LockAcquireBackoff(timeout time.Duration) (*backoff.ExponentialBackOff, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("lock timeout (%v) must be positive", timeout)
	}

	initialInterval, err := bound(timeout/20, minLockInterval, maxLockInterval)
	if err != nil {
		return nil, err
	}

	result := backoff.NewExponentialBackOff()
	result.InitialInterval = initialInterval
	result.MaxInterval = maxLockInterval
	result.Multiplier = defaultMultiplier
	result.RandomizationFactor = defaultJitterFactor
	result.MaxElapsedTime = timeout
	result.Reset()
	return result, nil
}

// bound returns value constrained to the range [min, max].
func bound(value time.Duration, min time.Duration, max time.Duration) (time.Duration, error) {
	if max < min {
		return value, fmt.Errorf("Invalid input. min (%v) is greater than max (%v)", min, max)
	}
	if value < min {
		return min, nil
	}
	if max < value {
		return max, nil
	}
	return value, nil
}
