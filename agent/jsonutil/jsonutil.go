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

// Package jsonutil contains various utilities for dealing with json data.
package jsonutil

import (
	"encoding/json"
)

// Marshal marshals an object to a json string.
func Marshal(obj interface{}) (result string, err error) {
	var resultB []byte
	if resultB, err = json.Marshal(obj); err != nil {
		return
	}
	return string(resultB), nil
}

// MarshalBytes marshals an object to json bytes.
func MarshalBytes(obj interface{}) ([]byte, error) {
	return json.Marshal(obj)
}

// UnmarshalFile reads the content of a file then Unmarshals the content to an object.
func UnmarshalFile(filePath string, dest interface{}) (err error) {
	content, err := ioUtil.ReadFile(filePath)
	if err != nil {
		return
	}
	return json.Unmarshal(content, dest)
}

// Unmarshal unmarshals the content in string format to an object.
func Unmarshal(jsonContent string, dest interface{}) (err error) {
	return json.Unmarshal([]byte(jsonContent), dest)
}

// UnmarshalBytes unmarshals raw json bytes to an object.
func UnmarshalBytes(content []byte, dest interface{}) error {
	return json.Unmarshal(content, dest)
}
