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

//go:build windows
// +build windows

package fileutil

import (
	"fmt"

	acl "github.com/hectane/go-acl"
)

// Harden replaces the ACL of path with one granting access to the owner only.
func Harden(path string) (err error) {
	if _, err = fs.Stat(path); err != nil {
		return
	}
	if err = acl.Chmod(path, RWPermission); err != nil {
		return fmt.Errorf("Failed to apply ACL on %s. %v", path, err)
	}
	return nil
}
