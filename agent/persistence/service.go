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

// Package persistence defines the contract fingerprint backends implement:
// a record is reserved with a maximum size, written, read back and removed.
package persistence

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no record exists for a key.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned by Create when the key is already reserved.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrSizeExceeded is returned by Write when data is larger than the reservation.
	ErrSizeExceeded = errors.New("data exceeds the reserved record size")

	// ErrInvalidKey is returned for empty keys or keys containing a NUL byte.
	ErrInvalidKey = errors.New("invalid record key")

	// ErrConflict is returned when a record changed between read and write.
	ErrConflict = errors.New("record modified concurrently")
)

// Service is a persistence backend.
type Service interface {
	// Lookup reads the record stored under key.
	Lookup(ctx context.Context, key string) Lookup

	// Create reserves an empty record under key accepting at most maxSize bytes.
	Create(ctx context.Context, key string, maxSize int64) error

	// Write replaces the content of an existing record.
	Write(ctx context.Context, key string, data []byte) error

	// Delete removes the record stored under key.
	Delete(ctx context.Context, key string) error

	// Close releases the resources held by the backend.
	Close() error
}

// Status tells how a lookup ended.
type Status int

const (
	StatusError Status = iota
	StatusFound
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not found"
	default:
		return "error"
	}
}

// Lookup is the result of reading a record. Err is set only for StatusError.
type Lookup struct {
	Status Status
	Value  []byte
	Err    error
}

// Found builds a successful lookup.
func Found(value []byte) Lookup {
	return Lookup{Status: StatusFound, Value: value}
}

// NotFound builds a lookup for a missing record.
func NotFound() Lookup {
	return Lookup{Status: StatusNotFound}
}

// Failed builds a lookup that carries a backend error.
func Failed(err error) Lookup {
	return Lookup{Status: StatusError, Err: err}
}

// FromRead turns the usual (value, error) pair into a Lookup, mapping
// ErrNotFound to StatusNotFound.
func FromRead(value []byte, err error) Lookup {
	switch {
	case err == nil:
		return Found(value)
	case errors.Is(err, ErrNotFound):
		return NotFound()
	default:
		return Failed(err)
	}
}

// ValidateKey checks that key can be stored by every backend.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	if strings.IndexByte(key, 0) >= 0 {
		return fmt.Errorf("%w: key %q contains a NUL byte", ErrInvalidKey, key)
	}
	return nil
}

// ValidateSize rejects negative reservations.
func ValidateSize(maxSize int64) error {
	if maxSize < 0 {
		return fmt.Errorf("invalid record size %d", maxSize)
	}
	return nil
}

// EncodeKey maps key onto the alphabet accepted by key-value stores that
// restrict key characters.
func EncodeKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

// DecodeKey reverses EncodeKey.
func DecodeKey(encoded string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return string(b), nil
}
