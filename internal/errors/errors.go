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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrInvalidQuery indicates GitHub rejected the search expression.
	// Maps to exit code 2.
	ErrInvalidQuery = errors.New("invalid search query")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrQueryComplexity indicates the GraphQL query exceeded GitHub's complexity budget.
	ErrQueryComplexity = errors.New("graphql query too complex")

	// ErrInvalidArgument indicates a caller passed an unusable search query or batch size.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTransport marks any failure of a search page request.
	// The classified cause (rate limit, network, ...) stays in the error chain.
	ErrTransport = errors.New("search request failed")

	// ErrInvalidRecord indicates a search result node is missing a required field.
	// Maps to exit code 4.
	ErrInvalidRecord = errors.New("invalid pull request record")
)
