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

import "context"

// Client defines the interface for executing the pull request search
// against GitHub. The query document is fixed by the implementation; callers
// only supply the variables. This interface allows for easy mocking in tests.
type Client interface {
	// SearchPullRequests executes one page of the search and returns the raw
	// result view. It either succeeds or returns an error; it never retries.
	SearchPullRequests(ctx context.Context, vars SearchVariables) (*SearchResult, error)
}

// SearchVariables are the GraphQL variables of the search query.
type SearchVariables struct {
	// Query is the GitHub search expression, e.g. "repo:acme/widget is:pr is:open".
	Query string

	// First is the page size.
	First int

	// After is the cursor of the previous page, nil for the first page.
	After *string
}

// AfterValue returns the cursor as a string, "" on the first page.
func (v SearchVariables) AfterValue() string {
	if v.After == nil {
		return ""
	}
	return *v.After
}
