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
	"io"
	"path/filepath"
	"testing"
)

// BenchmarkWriter_Write benchmarks writing single records
func BenchmarkWriter_Write(b *testing.B) {
	w := NewWriter(io.Discard)
	pr := samplePR(1)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := w.Write(pr); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkWriter_Concurrent benchmarks concurrent writes
func BenchmarkWriter_Concurrent(b *testing.B) {
	w := NewWriter(io.Discard)
	pr := samplePR(1)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := w.Write(pr); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkFileWriter_Write writes 1000 records per iteration to a real file
func BenchmarkFileWriter_Write(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		w, err := NewFileWriter(filepath.Join(b.TempDir(), "bench.ndjson"))
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()

		for j := 1; j <= 1000; j++ {
			if err := w.Write(samplePR(j)); err != nil {
				b.Fatal(err)
			}
		}

		b.StopTimer()
		_ = w.Close()
		b.StartTimer()
	}
}
