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

// Package metadata tracks and persists statistics about search runs: how
// many pull requests were written, how many pages were requested, and the
// number and date ranges covered. Metadata files live in the state
// directory next to resume checkpoints.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirseerhq/sirseer-search/internal/github"
)

// MethodVersion identifies the GraphQL search document in use.
const MethodVersion = "graphql-search-v1"

// Tracker collects statistics during a run. It is safe for concurrent use.
type Tracker struct {
	mu           sync.Mutex
	fetchID      string
	startTime    time.Time
	apiCallCount int
	issueCount   int
	prStats      PRStats
}

// PRStats holds the running range of pull requests seen.
type PRStats struct {
	TotalPRs int       // Total number of PRs processed
	FirstPR  int       // Lowest PR number seen
	LastPR   int       // Highest PR number seen
	OldestPR time.Time // Earliest creation date
	NewestPR time.Time // Latest creation date
}

// New starts a tracker with a fresh random fetch ID.
func New() *Tracker {
	return NewWithID(uuid.NewString())
}

// NewWithID starts a tracker that continues an earlier fetch ID, as a
// resumed run does.
func NewWithID(fetchID string) *Tracker {
	return &Tracker{
		fetchID:   fetchID,
		startTime: time.Now(),
	}
}

// FetchID returns the identifier shared by this run's checkpoint and metadata.
func (t *Tracker) FetchID() string {
	return t.fetchID
}

// RecordPage counts one search request. Its signature matches the
// fetcher's page hook.
func (t *Tracker) RecordPage(event github.PageEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.apiCallCount++
	t.issueCount = event.IssueCount
}

// UpdatePRStats folds one written pull request into the running statistics.
func (t *Tracker) UpdatePRStats(prNumber int, createdAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.prStats.TotalPRs++

	if t.prStats.FirstPR == 0 || prNumber < t.prStats.FirstPR {
		t.prStats.FirstPR = prNumber
	}
	if prNumber > t.prStats.LastPR {
		t.prStats.LastPR = prNumber
	}

	if t.prStats.OldestPR.IsZero() || createdAt.Before(t.prStats.OldestPR) {
		t.prStats.OldestPR = createdAt
	}
	if createdAt.After(t.prStats.NewestPR) {
		t.prStats.NewestPR = createdAt
	}
}

// Stats returns a snapshot of the pull request statistics.
func (t *Tracker) Stats() PRStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.prStats
}

// GenerateMetadata builds the record for the run. previous is set when the
// run resumed from a checkpoint.
func (t *Tracker) GenerateMetadata(searchVersion string, params FetchParams, previous *FetchRef) *FetchMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := time.Now()

	return &FetchMetadata{
		SearchVersion: searchVersion,
		MethodVersion: MethodVersion,
		FetchID:       t.fetchID,
		Parameters:    params,
		Results: FetchResults{
			TotalPRs:     t.prStats.TotalPRs,
			FirstPR:      t.prStats.FirstPR,
			LastPR:       t.prStats.LastPR,
			OldestPR:     t.prStats.OldestPR,
			NewestPR:     t.prStats.NewestPR,
			IssueCount:   t.issueCount,
			Duration:     completedAt.Sub(t.startTime).String(),
			APICallCount: t.apiCallCount,
			StartedAt:    t.startTime,
			CompletedAt:  completedAt,
		},
		Resumed:       previous != nil,
		PreviousFetch: previous,
	}
}

// SaveMetadata writes metadata to dir as
// search-metadata-{unix start}-{fetch id}.json and returns the file path.
// The file is written to a temporary name and renamed into place.
func SaveMetadata(metadata *FetchMetadata, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}

	name := fmt.Sprintf("search-metadata-%d-%s.json", metadata.Results.StartedAt.Unix(), metadata.FetchID)
	path := filepath.Join(dir, name)

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile) // #nosec G304 - path is built from the state dir
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}

	return path, nil
}

// LoadLatestMetadata returns the most recently completed run for query in
// dir, or nil if there is none.
func LoadLatestMetadata(dir, query string) (*FetchMetadata, error) {
	files, err := filepath.Glob(filepath.Join(dir, "search-metadata-*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata files: %w", err)
	}

	var latest *FetchMetadata
	for _, path := range files {
		md, err := readMetadata(path)
		if err != nil {
			return nil, err
		}
		if md.Parameters.Query != query {
			continue
		}
		if latest == nil || md.Results.CompletedAt.After(latest.Results.CompletedAt) {
			latest = md
		}
	}

	return latest, nil
}

func readMetadata(path string) (*FetchMetadata, error) {
	file, err := os.Open(path) // #nosec G304 - path comes from a glob of the state dir
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	var md FetchMetadata
	if err := json.NewDecoder(file).Decode(&md); err != nil {
		return nil, fmt.Errorf("failed to parse metadata %s: %w", path, err)
	}
	return &md, nil
}

// WriteMetadataToWriter writes metadata as indented JSON.
func WriteMetadataToWriter(metadata *FetchMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
