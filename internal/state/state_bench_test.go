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

import (
	"path/filepath"
	"testing"
)

func BenchmarkSaveCheckpoint(b *testing.B) {
	path := filepath.Join(b.TempDir(), "bench.checkpoint")

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		cp := testCheckpoint()
		cp.Delivered = i
		if err := SaveCheckpoint(cp, path); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoadCheckpoint(b *testing.B) {
	path := filepath.Join(b.TempDir(), "bench.checkpoint")
	if err := SaveCheckpoint(testCheckpoint(), path); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := LoadCheckpoint(path); err != nil {
			b.Fatal(err)
		}
	}
}
