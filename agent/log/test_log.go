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

package log

import (
	"github.com/stretchr/testify/mock"
)

// Mock stands for a mocked log.
type Mock struct {
	mock.Mock
}

// NewMockLog returns an instance of Mock with default expectations set.
func NewMockLog() *Mock {
	log := new(Mock)
	log.On("Close").Return()
	log.On("Flush").Return()
	log.On("WithContext", mock.Anything).Return(log)
	for _, m := range []string{"Trace", "Debug", "Info"} {
		log.On(m, mock.Anything).Return()
		log.On(m+"f", mock.Anything, mock.Anything).Return()
	}
	for _, m := range []string{"Warn", "Error", "Critical"} {
		log.On(m, mock.Anything).Return(nil)
		log.On(m+"f", mock.Anything, mock.Anything).Return(nil)
	}
	return log
}

func (_m *Mock) WithContext(context ...string) T {
	ret := _m.Called(context)
	return ret.Get(0).(T)
}

func (_m *Mock) Tracef(format string, params ...interface{}) { _m.Called(format, params) }
func (_m *Mock) Debugf(format string, params ...interface{}) { _m.Called(format, params) }
func (_m *Mock) Infof(format string, params ...interface{})  { _m.Called(format, params) }

func (_m *Mock) Warnf(format string, params ...interface{}) error {
	return _m.Called(format, params).Error(0)
}

func (_m *Mock) Errorf(format string, params ...interface{}) error {
	return _m.Called(format, params).Error(0)
}

func (_m *Mock) Criticalf(format string, params ...interface{}) error {
	return _m.Called(format, params).Error(0)
}

func (_m *Mock) Trace(v ...interface{}) { _m.Called(v) }
func (_m *Mock) Debug(v ...interface{}) { _m.Called(v) }
func (_m *Mock) Info(v ...interface{})  { _m.Called(v) }

func (_m *Mock) Warn(v ...interface{}) error     { return _m.Called(v).Error(0) }
func (_m *Mock) Error(v ...interface{}) error    { return _m.Called(v).Error(0) }
func (_m *Mock) Critical(v ...interface{}) error { return _m.Called(v).Error(0) }

func (_m *Mock) Flush() { _m.Called() }
func (_m *Mock) Close() { _m.Called() }
