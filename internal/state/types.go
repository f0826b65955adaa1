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

import "time"

// CurrentVersion is the checkpoint schema version.
const CurrentVersion = 1

// Checkpoint records where an interrupted search stopped so it can be
// resumed without re-reading the pages already written.
type Checkpoint struct {
	// Version is the schema version, always CurrentVersion when saved.
	Version int `json:"version"`

	// Checksum is the SHA256 of the checkpoint with this field empty.
	Checksum string `json:"checksum"`

	// Query is the exact search expression. A checkpoint is only valid for
	// the query it was written for.
	Query     string `json:"query"`
	BatchSize int    `json:"batch_size"`

	// Cursor is the "after" value of the page that failed or was not yet
	// requested. Empty means the first page.
	Cursor string `json:"cursor"`

	// FetchID correlates the checkpoint with the metadata of the run.
	FetchID string `json:"fetch_id"`

	// Delivered counts records written before Cursor's page.
	Delivered int `json:"delivered"`

	SavedAt time.Time `json:"saved_at"`
}
