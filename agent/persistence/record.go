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

package persistence

import (
	"fmt"

	"github.com/fpstore/fpagent/agent/jsonutil"
)

// Record is the envelope used by backends that keep the reservation next to
// the data in a single value.
type Record struct {
	Key     string `json:"key"`
	MaxSize int64  `json:"maxSize"`
	Data    []byte `json:"data"`
}

// NewRecord returns an empty reservation for key.
func NewRecord(key string, maxSize int64) Record {
	return Record{Key: key, MaxSize: maxSize, Data: []byte{}}
}

// Fill replaces the record data, enforcing the reservation.
func (r *Record) Fill(data []byte) error {
	if int64(len(data)) > r.MaxSize {
		return fmt.Errorf("%w: %d bytes written to %s, %d reserved", ErrSizeExceeded, len(data), r.Key, r.MaxSize)
	}
	r.Data = append([]byte{}, data...)
	return nil
}

// Encode serializes the record.
func (r Record) Encode() ([]byte, error) {
	return jsonutil.MarshalBytes(r)
}

// DecodeRecord parses an encoded record.
func DecodeRecord(raw []byte) (Record, error) {
	var r Record
	if err := jsonutil.UnmarshalBytes(raw, &r); err != nil {
		return Record{}, fmt.Errorf("corrupted record: %v", err)
	}
	if r.Data == nil {
		r.Data = []byte{}
	}
	return r, nil
}
