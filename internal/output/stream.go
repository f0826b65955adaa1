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

package output

import (
	"iter"

	"github.com/sirseerhq/sirseer-search/internal/github"
)

// Drain writes every record of seq to w and returns how many it wrote.
// A positive limit stops pulling once that many records are written, so no
// further pages are requested. The first error from seq or w ends the drain.
func Drain(w RecordWriter, seq iter.Seq2[github.PullRequest, error], limit int) (int, error) {
	written := 0
	for pr, err := range seq {
		if err != nil {
			return written, err
		}
		if err := w.Write(pr); err != nil {
			return written, err
		}
		written++
		if limit > 0 && written >= limit {
			break
		}
	}
	return written, nil
}
