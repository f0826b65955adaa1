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

package metadata

import (
	"time"
)

// FetchMetadata is the audit record of one search run.
type FetchMetadata struct {
	SearchVersion string       `json:"search_version"`
	MethodVersion string       `json:"method_version"`
	FetchID       string       `json:"fetch_id"`
	Parameters    FetchParams  `json:"parameters"`
	Results       FetchResults `json:"results"`
	Resumed       bool         `json:"resumed"`
	PreviousFetch *FetchRef    `json:"previous_fetch,omitempty"`
}

// FetchParams captures the inputs of a run so it can be reproduced.
type FetchParams struct {
	Query     string `json:"query"`
	BatchSize int    `json:"batch_size"`
	// Limit is the --limit value, 0 when every match was requested.
	Limit int `json:"limit,omitempty"`
	// ResumeCursor is the cursor a resumed run started from.
	ResumeCursor string `json:"resume_cursor,omitempty"`
}

// FetchResults summarises what a run produced.
type FetchResults struct {
	TotalPRs     int       `json:"total_prs"`
	FirstPR      int       `json:"first_pr_number"`
	LastPR       int       `json:"last_pr_number"`
	OldestPR     time.Time `json:"oldest_pr_date"`
	NewestPR     time.Time `json:"newest_pr_date"`
	IssueCount   int       `json:"issue_count"`
	Duration     string    `json:"fetch_duration"`
	APICallCount int       `json:"api_calls_made"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
}

// FetchRef links a resumed run to the run whose checkpoint it used.
type FetchRef struct {
	FetchID string `json:"fetch_id"`
}
