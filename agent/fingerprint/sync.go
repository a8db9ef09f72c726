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

package fingerprint

import (
	"sync"
)

// memo holds the values already returned by a store.
type memo struct {
	lock   sync.RWMutex
	values map[string]string
}

func newMemo() *memo {
	return &memo{values: make(map[string]string)}
}

func (m *memo) get(key string) (string, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	value, ok := m.values[key]
	return value, ok
}

func (m *memo) set(key string, value string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.values[key] = value
}
