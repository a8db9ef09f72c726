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

// Package fsvault implements the persistence service with file system storage.
// Every record lives in its own hardened file under the Store folder and the
// Manifest file maps keys to those files together with their reserved size.
package fsvault

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fpstore/fpagent/agent/appconfig"
	"github.com/fpstore/fpagent/agent/log"
	"github.com/fpstore/fpagent/agent/persistence"
)

const (
	manifestFileName = "Manifest"
	storeFolderName  = "Store"
)

type entry struct {
	File    string `json:"file"`
	MaxSize int64  `json:"maxSize"`
}

type manifest map[string]entry

// Vault is a file system backed persistence service.
type Vault struct {
	log  log.T
	lock sync.Mutex
	fs   fileSystem
	jh   jsonHandler

	initialized      bool
	vaultFolderPath  string
	manifestFilePath string
	storeFolderPath  string
}

// NewVault returns a vault rooted at <dataDir>/Vault.
func NewVault(log log.T, dataDir string) *Vault {
	vaultFolderPath := filepath.Join(dataDir, appconfig.DefaultVaultFolderName)
	return &Vault{
		log:              log,
		fs:               fs,
		jh:               jh,
		vaultFolderPath:  vaultFolderPath,
		manifestFilePath: filepath.Join(vaultFolderPath, manifestFileName),
		storeFolderPath:  filepath.Join(vaultFolderPath, storeFolderName),
	}
}

// Lookup reads the data file registered for key.
func (v *Vault) Lookup(_ context.Context, key string) persistence.Lookup {
	if err := persistence.ValidateKey(key); err != nil {
		return persistence.Failed(err)
	}

	v.lock.Lock()
	defer v.lock.Unlock()

	m, err := v.loadManifest()
	if err != nil {
		return persistence.Failed(err)
	}

	e, ok := m[key]
	if !ok {
		return persistence.NotFound()
	}

	p := v.dataPath(e)
	if !v.fs.Exists(p) {
		return persistence.Failed(fmt.Errorf("Data file of %s is missing.", key))
	}

	data, err := v.fs.ReadFile(p)
	if err != nil {
		return persistence.Failed(fmt.Errorf("Failed to read data file for %s. %w", key, err))
	}
	return persistence.Found(data)
}

// Create writes an empty data file for key and registers it in the manifest.
func (v *Vault) Create(_ context.Context, key string, maxSize int64) (err error) {
	if err = persistence.ValidateKey(key); err != nil {
		return
	}
	if err = persistence.ValidateSize(maxSize); err != nil {
		return
	}

	v.lock.Lock()
	defer v.lock.Unlock()

	var m manifest
	if m, err = v.loadManifest(); err != nil {
		return
	}

	if _, ok := m[key]; ok {
		return fmt.Errorf("%w: %s", persistence.ErrAlreadyExists, key)
	}

	e := entry{File: fileName(key), MaxSize: maxSize}
	p := v.dataPath(e)
	if err = v.fs.HardenedWriteFile(p, []byte{}); err != nil {
		return fmt.Errorf("Failed to write data file for %s. %w", key, err)
	}

	m[key] = e
	if err = v.saveManifest(m); err != nil {
		if rmErr := v.fs.Remove(p); rmErr != nil {
			v.log.Warnf("Failed to clean up data file %s. %v", p, rmErr)
		}
		return fmt.Errorf("Failed to save manifest when creating %s. %w", key, err)
	}

	v.log.Debugf("Reserved %d bytes for %s in %s", maxSize, key, e.File)
	return nil
}

// Write replaces the data file content of key.
func (v *Vault) Write(_ context.Context, key string, data []byte) (err error) {
	if err = persistence.ValidateKey(key); err != nil {
		return
	}

	v.lock.Lock()
	defer v.lock.Unlock()

	var m manifest
	if m, err = v.loadManifest(); err != nil {
		return
	}

	e, ok := m[key]
	if !ok {
		return fmt.Errorf("%w: %s", persistence.ErrNotFound, key)
	}
	if int64(len(data)) > e.MaxSize {
		return fmt.Errorf("%w: %d bytes written to %s, %d reserved", persistence.ErrSizeExceeded, len(data), key, e.MaxSize)
	}

	if err = v.fs.HardenedWriteFile(v.dataPath(e), data); err != nil {
		return fmt.Errorf("Failed to write data file for %s. %w", key, err)
	}
	return nil
}

// Delete unregisters key and removes its data file.
func (v *Vault) Delete(_ context.Context, key string) (err error) {
	if err = persistence.ValidateKey(key); err != nil {
		return
	}

	v.lock.Lock()
	defer v.lock.Unlock()

	var m manifest
	if m, err = v.loadManifest(); err != nil {
		return
	}

	e, ok := m[key]
	if !ok {
		return fmt.Errorf("%w: %s", persistence.ErrNotFound, key)
	}

	delete(m, key)
	if err = v.saveManifest(m); err != nil {
		return fmt.Errorf("Failed to save manifest when removing %s. %w", key, err)
	}

	if err = v.fs.Remove(v.dataPath(e)); err != nil {
		return fmt.Errorf("Failed to remove data file for %s. %w", key, err)
	}
	return nil
}

// Close is a no-op; every operation flushes to disk.
func (v *Vault) Close() error {
	return nil
}

func (v *Vault) dataPath(e entry) string {
	return filepath.Join(v.storeFolderPath, e.File)
}

// ensureInitialized creates and hardens the vault folders on first use.
func (v *Vault) ensureInitialized() (err error) {
	if v.initialized {
		return
	}

	// store folder is under vault folder, creating the deepest folder and
	// harden the top-level one.
	if err = v.fs.MakeDirs(v.storeFolderPath); err != nil {
		return fmt.Errorf("Failed to create vault folder. %v", err)
	}

	// setting permission for folders does not guarantee child files' permission.
	if err = v.fs.RecursivelyHarden(v.vaultFolderPath); err != nil {
		return fmt.Errorf("Failed to set permission for vault folder or its content. %v", err)
	}

	v.initialized = true
	return nil
}

// loadManifest reads the manifest on every call so records created by other
// processes sharing the data directory are visible.
func (v *Vault) loadManifest() (m manifest, err error) {
	if err = v.ensureInitialized(); err != nil {
		return
	}

	m = make(manifest)
	if !v.fs.Exists(v.manifestFilePath) {
		return
	}

	var content []byte
	if content, err = v.fs.ReadFile(v.manifestFilePath); err != nil {
		return nil, fmt.Errorf("Failed to load vault from file system. %v", err)
	}
	if err = v.jh.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("Failed to unmarshal vault manifest. %v", err)
	}
	return
}

func (v *Vault) saveManifest(m manifest) (err error) {
	var data []byte
	if data, err = v.jh.Marshal(m); err != nil {
		return fmt.Errorf("Failed to marshal manifest. %v", err)
	}

	if err = v.fs.HardenedWriteFile(v.manifestFilePath, data); err != nil {
		return fmt.Errorf("Failed to save manifest with hardened permission. %v", err)
	}
	return
}

// fileName maps key, which may contain path separators, to a flat file name.
func fileName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
