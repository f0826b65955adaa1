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
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	relaierrors "github.com/sirseerhq/sirseer-search/internal/errors"
	"github.com/sirseerhq/sirseer-search/internal/github"
)

func fetchAll(t *testing.T, mock *github.MockClient, batchSize int) *github.Iterator {
	t.Helper()
	it, err := github.NewFetcher(mock).Fetch(context.Background(), "repo:acme/widget is:pr", batchSize)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	return it
}

func TestDrain(t *testing.T) {
	mock := github.NewMockClientWithOptions(github.WithPages(
		github.NewMockPage(true, "c1", github.NewMockNode(1, "a"), github.NewMockNode(2, "b")),
		github.NewMockPage(false, "", github.NewMockNode(3, "c")),
	))

	var buf bytes.Buffer
	w := NewWriter(&buf)
	n, err := Drain(w, fetchAll(t, mock, 2).All(), 0)
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if n != 3 || w.Count() != 3 {
		t.Errorf("Drain wrote %d (count %d), want 3", n, w.Count())
	}

	prs := readLines(t, buf.String())
	for i, want := range []int{1, 2, 3} {
		if prs[i].Number != want {
			t.Errorf("line %d number = %d, want %d", i, prs[i].Number, want)
		}
	}
}

func TestDrain_LimitStopsFetching(t *testing.T) {
	mock := github.NewMockClientWithOptions(github.WithPages(
		github.NewMockPage(true, "c1", github.NewMockNode(1, "a"), github.NewMockNode(2, "b")),
		github.NewMockPage(false, "", github.NewMockNode(3, "c")),
	))

	var buf bytes.Buffer
	n, err := Drain(NewWriter(&buf), fetchAll(t, mock, 2).All(), 2)
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if n != 2 {
		t.Errorf("Drain wrote %d, want 2", n)
	}
	if mock.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1", mock.CallCount())
	}
}

func TestDrain_FetchError(t *testing.T) {
	mock := github.NewMockClientWithOptions(
		github.WithPages(
			github.NewMockPage(true, "c1", github.NewMockNode(1, "a"), github.NewMockNode(2, "b")),
			github.NewMockPage(false, "", github.NewMockNode(3, "c")),
		),
		github.WithErrorOnCall(2, fmt.Errorf("timeout: %w", relaierrors.ErrNetworkFailure)),
	)

	var buf bytes.Buffer
	n, err := Drain(NewWriter(&buf), fetchAll(t, mock, 2).All(), 0)
	if !errors.Is(err, relaierrors.ErrTransport) {
		t.Fatalf("Drain error = %v, want ErrTransport", err)
	}
	if n != 2 {
		t.Errorf("Drain wrote %d before failing, want 2", n)
	}
	if len(readLines(t, buf.String())) != 2 {
		t.Errorf("output lines = %d, want 2", len(readLines(t, buf.String())))
	}
}

func TestDrain_WriteError(t *testing.T) {
	mock := github.NewMockClient()

	n, err := Drain(NewWriter(failingWriter{}), fetchAll(t, mock, 10).All(), 0)
	if err == nil || n != 0 {
		t.Errorf("Drain = (%d, %v), want (0, error)", n, err)
	}
}
