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

//go:build darwin || freebsd || linux || netbsd || openbsd
// +build darwin freebsd linux netbsd openbsd

package fileutil

import (
	"os"
)

const (
	permissionMask os.FileMode = 0777
	dirPermission  os.FileMode = 0700
)

// Harden restricts path to its owner. Ownership is left untouched so the
// store works for unprivileged users as well as for root.
func Harden(path string) (err error) {
	var fi os.FileInfo
	if fi, err = fs.Stat(path); err != nil {
		return
	}

	want := os.FileMode(RWPermission)
	if fi.IsDir() {
		want = dirPermission
	}
	if fi.Mode()&permissionMask != want {
		if err = os.Chmod(path, want); err != nil {
			return
		}
	}
	return
}
