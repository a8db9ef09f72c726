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

package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	RWPermission = 0600
)

// HardenedWriteFile writes data to filename through a temporary file that is
// hardened before it is renamed into place, so readers never observe a
// partially written or world readable file.
func HardenedWriteFile(filename string, data []byte) (err error) {
	tmp := filename + ".tmp"
	if err = ioUtil.WriteFile(tmp, data, RWPermission); err != nil {
		return fmt.Errorf("Failed to write the file %s, %v", tmp, err)
	}
	defer func() {
		if err != nil {
			fs.Remove(tmp)
		}
	}()

	if err = Harden(tmp); err != nil {
		return
	}
	if err = fs.Rename(tmp, filename); err != nil {
		return fmt.Errorf("Failed to move %s into place, %v", filename, err)
	}
	return nil
}

// RecursivelyHarden hardens path and everything below it.
func RecursivelyHarden(path string) error {
	return filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		return Harden(p)
	})
}

// HardenDataFolder creates dataDir if needed and restricts it to its owner.
func HardenDataFolder(dataDir string) error {
	if err := MakeDirs(dataDir); err != nil {
		return err
	}
	return Harden(dataDir)
}
