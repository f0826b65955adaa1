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

// Package state persists resume checkpoints for interrupted searches.
//
// A checkpoint is written atomically (temp file, fsync, rename) and carries
// a schema version and a SHA256 checksum so a truncated or hand-edited file
// is rejected instead of resuming from a bogus cursor.
//
// Example usage:
//
//	path := state.CheckpointPath(stateDir, query)
//	err := state.SaveCheckpoint(&state.Checkpoint{
//	    Query:  query,
//	    Cursor: transportErr.After,
//	}, path)
package state
