// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoCheckpoint is returned by LoadCheckpoint when nothing was saved.
var ErrNoCheckpoint = errors.New("no checkpoint found")

// CheckpointPath returns the checkpoint file for query inside stateDir.
// Queries are free text, so the file is named after a hash of the query.
func CheckpointPath(stateDir, query string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(query)))
	return filepath.Join(stateDir, "search-"+hex.EncodeToString(sum[:8])+".checkpoint")
}

// SaveCheckpoint atomically writes cp to path. Version, Checksum and, if
// unset, SavedAt are filled in.
func SaveCheckpoint(cp *Checkpoint, path string) error {
	cp.Version = CurrentVersion
	if cp.SavedAt.IsZero() {
		cp.SavedAt = time.Now().UTC()
	}

	checksum, err := calculateChecksum(cp)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	cp.Checksum = checksum

	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temporary checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to sync temporary checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary checkpoint: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to rename temporary checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads and verifies the checkpoint at path. A missing file
// yields ErrNoCheckpoint.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is derived from the state dir
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNoCheckpoint, path)
		}
		return nil, fmt.Errorf("failed to read checkpoint %s: %w", path, err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("checkpoint is corrupted (invalid JSON): %w", err)
	}

	if cp.Version != CurrentVersion {
		return nil, fmt.Errorf("checkpoint version (%d) is incompatible with current version (%d)",
			cp.Version, CurrentVersion)
	}

	want, err := calculateChecksum(&cp)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum for validation: %w", err)
	}
	if cp.Checksum != want {
		return nil, fmt.Errorf("checkpoint is corrupted (checksum mismatch)")
	}

	return &cp, nil
}

// DeleteCheckpoint removes the checkpoint at path. A missing file is not an error.
func DeleteCheckpoint(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}

// calculateChecksum hashes the JSON form of cp with Checksum cleared.
func calculateChecksum(cp *Checkpoint) (string, error) {
	c := *cp
	c.Checksum = ""

	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
