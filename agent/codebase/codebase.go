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

// Package codebase turns resource names into the URL-like keys fingerprint
// records are stored under, relative to a base location.
package codebase

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrEmptyName is returned when no resource name is given.
var ErrEmptyName = errors.New("resource name is empty")

// Resolver resolves names against a fixed base URL.
type Resolver struct {
	base *url.URL
}

// NewResolver parses base, which must be an absolute URL.
func NewResolver(base string) (*Resolver, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid codebase %q: %v", base, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("codebase %q is not an absolute URL", base)
	}
	return &Resolver{base: u}, nil
}

// FromDirectory returns a resolver whose base is the file URL of dir.
func FromDirectory(dir string) (*Resolver, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid codebase directory %q: %v", dir, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		// windows drive letters
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return &Resolver{base: &url.URL{Scheme: "file", Path: p}}, nil
}

// Base returns the base URL.
func (r *Resolver) Base() *url.URL {
	cp := *r.base
	return &cp
}

// Resolve resolves name as a URL reference against the base.
func (r *Resolver) Resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyName
	}
	ref, err := url.Parse(name)
	if err != nil {
		return "", fmt.Errorf("invalid resource name %q: %v", name, err)
	}
	return r.base.ResolveReference(ref).String(), nil
}

// Resolve resolves name against base.
func Resolve(base string, name string) (string, error) {
	r, err := NewResolver(base)
	if err != nil {
		return "", err
	}
	return r.Resolve(name)
}
