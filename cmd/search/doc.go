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

// Package main implements the sirseer-search command-line interface.
//
// Usage:
//
//	sirseer-search fetch <query|saved-search> [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	sirseer-search fetch "repo:golang/go is:pr is:open label:NeedsFix" --output prs.ndjson
//
// A failed run leaves a checkpoint in the state directory; rerun the same
// command with --resume to continue from the page that failed.
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication, rate limit or rejected query
//   - 3: Network error
//   - 4: GitHub returned an incomplete pull request record
package main
