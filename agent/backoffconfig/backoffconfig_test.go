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

package backoffconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type BackoffConfigTestSuite struct {
	suite.Suite
}

func TestBackoffConfigTestSuite(t *testing.T) {
	suite.Run(t, new(BackoffConfigTestSuite))
}

func (suite *BackoffConfigTestSuite) TestBound_ReturnsValueWhenInRange() {
	result, err := bound(50*time.Millisecond, minLockInterval, maxLockInterval)

	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), 50*time.Millisecond, result)
}

func (suite *BackoffConfigTestSuite) TestBound_ReturnsMinWhenValueLessThanMin() {
	result, err := bound(time.Millisecond, minLockInterval, maxLockInterval)

	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), minLockInterval, result)
}

func (suite *BackoffConfigTestSuite) TestBound_ReturnsMaxWhenValueGreaterThanMax() {
	result, err := bound(time.Minute, minLockInterval, maxLockInterval)

	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), maxLockInterval, result)
}

func (suite *BackoffConfigTestSuite) TestBound_ErrorsWhenRangeInverted() {
	_, err := bound(time.Second, maxLockInterval, minLockInterval)

	assert.Error(suite.T(), err)
}

func (suite *BackoffConfigTestSuite) TestLockAcquireBackoff_RejectsNonPositiveTimeout() {
	result, err := LockAcquireBackoff(0)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
}

func (suite *BackoffConfigTestSuite) TestLockAcquireBackoff_UsesTimeoutAsMaxElapsedTime() {
	result, err := LockAcquireBackoff(10 * time.Second)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 10*time.Second, result.MaxElapsedTime)
	assert.Equal(suite.T(), 500*time.Millisecond, result.InitialInterval)
	assert.Equal(suite.T(), maxLockInterval, result.MaxInterval)
}
