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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirseerhq/sirseer-search/internal/github"
)

// Writer writes pull requests as NDJSON. It is safe for concurrent use.
type Writer struct {
	mu        sync.Mutex
	encoder   *json.Encoder
	count     int
	closeFunc func() error
}

// NewWriter creates a new NDJSON writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{encoder: json.NewEncoder(w)}
}

// NewFileWriter creates (or truncates) filename and writes NDJSON to it.
// The caller must call Close when done.
func NewFileWriter(filename string) (*Writer, error) {
	return openFileWriter(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
}

// NewAppendWriter opens filename for appending, creating it if needed.
// Resumed searches use it to continue an interrupted output file.
func NewAppendWriter(filename string) (*Writer, error) {
	return openFileWriter(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND)
}

func openFileWriter(filename string, flag int) (*Writer, error) {
	file, err := os.OpenFile(filename, flag, 0o644) // #nosec G302 G304 - user-chosen output file
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	return &Writer{
		encoder:   json.NewEncoder(file),
		closeFunc: file.Close,
	}, nil
}

// Write writes a single record as one NDJSON line.
func (w *Writer) Write(pr github.PullRequest) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(pr); err != nil {
		return fmt.Errorf("failed to write pull request #%d: %w", pr.Number, err)
	}

	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying file. It is a no-op for NewWriter.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closeFunc == nil {
		return nil
	}
	err := w.closeFunc()
	w.closeFunc = nil
	return err
}
