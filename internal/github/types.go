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

package github

import (
	"errors"
	"fmt"
	"time"

	relaierrors "github.com/sirseerhq/sirseer-search/internal/errors"
)

// PullRequest is the flat record produced for every search result.
// This is the core data structure that gets serialized to NDJSON output.
// Records are values; slices inside a record must be treated as read-only.
type PullRequest struct {
	Number       int          `json:"number"`
	Title        string       `json:"title"`
	Repository   Repository   `json:"repository"`
	CreatedAt    time.Time    `json:"created_at"`
	URL          string       `json:"url"`
	Branches     Branches     `json:"branches"`
	Labels       []string     `json:"labels"`
	LatestCommit LatestCommit `json:"latest_commit"`
	Author       *Author      `json:"author"`
}

// Repository identifies the repository a pull request belongs to.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"` // owner/repo
}

// Branches holds the source (head) and target (base) branch names.
type Branches struct {
	Head string `json:"head"`
	Base string `json:"base"`
}

// LatestCommit describes the most recent commit of a pull request.
// Both fields are nil when the pull request has no commits. Statuses is nil
// when the commit reports no status at all and empty when the status has no
// contexts.
type LatestCommit struct {
	SHA      *string        `json:"sha"`
	Statuses []CommitStatus `json:"statuses"`
}

// CommitStatus is a single status context reported on a commit.
type CommitStatus struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// Author is the account that opened a pull request. Username is nil when
// GitHub reports no login (e.g. a deleted account).
type Author struct {
	Username   *string `json:"username"`
	ProfileURL string  `json:"profile_url"`
}

// InvalidRecordError reports a required field missing from a search result.
// It matches relaierrors.ErrInvalidRecord with errors.Is.
type InvalidRecordError struct {
	// Number of the pull request, zero if the number itself is missing.
	Number int
	// Field is the JSON path of the missing value, e.g. "author.profile_url".
	Field string
}

func (e *InvalidRecordError) Error() string {
	if e.Number == 0 {
		return fmt.Sprintf("%s: missing %s", relaierrors.ErrInvalidRecord, e.Field)
	}
	return fmt.Sprintf("%s: pull request #%d missing %s", relaierrors.ErrInvalidRecord, e.Number, e.Field)
}

// Is makes errors.Is(err, relaierrors.ErrInvalidRecord) succeed.
func (e *InvalidRecordError) Is(target error) bool {
	return target == relaierrors.ErrInvalidRecord
}

func missing(field string) *InvalidRecordError {
	return &InvalidRecordError{Field: field}
}

// Validate checks that every required field of the record is present.
func (pr PullRequest) Validate() error {
	if pr.Number <= 0 {
		return missing("number")
	}
	if pr.CreatedAt.IsZero() {
		return &InvalidRecordError{Number: pr.Number, Field: "created_at"}
	}
	if pr.URL == "" {
		return &InvalidRecordError{Number: pr.Number, Field: "url"}
	}

	checks := []func() error{
		pr.Repository.Validate,
		pr.Branches.Validate,
		pr.LatestCommit.Validate,
	}
	if pr.Author != nil {
		checks = append(checks, pr.Author.Validate)
	}
	for _, check := range checks {
		var ire *InvalidRecordError
		if err := check(); errors.As(err, &ire) {
			return &InvalidRecordError{Number: pr.Number, Field: ire.Field}
		}
	}
	return nil
}

// Validate checks both repository names are present.
func (r Repository) Validate() error {
	if r.Name == "" {
		return missing("repository.name")
	}
	if r.FullName == "" {
		return missing("repository.full_name")
	}
	return nil
}

// Validate checks both branch names are present.
func (b Branches) Validate() error {
	if b.Head == "" {
		return missing("branches.head")
	}
	if b.Base == "" {
		return missing("branches.base")
	}
	return nil
}

// Validate checks the commit statuses. A commit without a SHA may not carry statuses.
func (c LatestCommit) Validate() error {
	if c.SHA != nil && *c.SHA == "" {
		return missing("latest_commit.sha")
	}
	if c.SHA == nil && c.Statuses != nil {
		return missing("latest_commit.sha")
	}
	for _, s := range c.Statuses {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the context name and state are present.
func (s CommitStatus) Validate() error {
	if s.Name == "" {
		return missing("latest_commit.statuses.name")
	}
	if s.State == "" {
		return missing("latest_commit.statuses.state")
	}
	return nil
}

// Validate checks the profile URL is present. Username is optional.
func (a Author) Validate() error {
	if a.ProfileURL == "" {
		return missing("author.profile_url")
	}
	return nil
}

// PageEvent describes one fetched search page. It is passed to page hooks.
type PageEvent struct {
	Page        int
	After       string
	Edges       int
	HasNextPage bool
	EndCursor   string
	IssueCount  int
}
