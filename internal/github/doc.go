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

// Package github retrieves pull requests from GitHub's GraphQL search API and
// flattens every search hit into a PullRequest record.
//
// The package includes:
//   - A Client interface executing one search page, and a GraphQL
//     implementation using the shurcooL/graphql library
//   - ParseNode, which maps a raw search node onto a PullRequest
//   - Fetcher and Iterator, which hide cursor pagination behind a lazy stream
//   - Mock client for testing
//
// Basic usage:
//
//	client := github.NewGraphQLClient("your-github-token", "https://api.github.com/graphql")
//	it, err := github.NewFetcher(client).Fetch(ctx, "repo:golang/go is:pr is:open", 50)
//	if err != nil {
//	    // Handle error
//	}
//	for it.Next() {
//	    pr := it.PullRequest()
//	    // Process pull request
//	}
//	if err := it.Err(); err != nil {
//	    // Handle error
//	}
package github
