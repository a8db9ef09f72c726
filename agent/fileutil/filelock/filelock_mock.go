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

package filelock

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// FileLockerMock is a mock of FileLocker.
type FileLockerMock struct {
	mock.Mock
}

func (m *FileLockerMock) Lock(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *FileLockerMock) Unlock() error {
	return m.Called().Error(0)
}
