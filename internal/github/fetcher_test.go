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

import (
	"context"
	"errors"
	"fmt"
	"testing"

	relaierrors "github.com/sirseerhq/sirseer-search/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const widgetQuery = "repo:acme/widget is:pr is:open"

func collect(t *testing.T, it *Iterator) []PullRequest {
	t.Helper()
	var prs []PullRequest
	for it.Next() {
		prs = append(prs, it.PullRequest())
	}
	return prs
}

func numbers(prs []PullRequest) []int {
	out := make([]int, len(prs))
	for i, pr := range prs {
		out[i] = pr.Number
	}
	return out
}

func TestFetch_TwoPages(t *testing.T) {
	mock := NewMockClientWithOptions(WithPages(
		NewMockPage(true, "c1", NewMockNode(10, "first"), NewMockNode(9, "second")),
		NewMockPage(false, "", NewMockNode(8, "third")),
	))

	it, err := NewFetcher(mock).Fetch(context.Background(), widgetQuery, 2)
	require.NoError(t, err)

	prs := collect(t, it)
	require.NoError(t, it.Err())

	assert.Equal(t, []int{10, 9, 8}, numbers(prs))
	require.Equal(t, 2, mock.CallCount())

	assert.Equal(t, widgetQuery, mock.Calls[0].Query)
	assert.Equal(t, 2, mock.Calls[0].First)
	assert.Nil(t, mock.Calls[0].After)

	require.NotNil(t, mock.Calls[1].After)
	assert.Equal(t, "c1", *mock.Calls[1].After)
	assert.Equal(t, 2, it.Pages())
}

func TestFetch_SinglePageStopsAfterOneCall(t *testing.T) {
	mock := NewMockClient()

	it, err := NewFetcher(mock).Fetch(context.Background(), "is:pr", 50)
	require.NoError(t, err)

	prs := collect(t, it)
	require.NoError(t, it.Err())
	assert.Len(t, prs, 3)
	assert.Equal(t, 1, mock.CallCount())

	// Exhausted iterators stay exhausted.
	assert.False(t, it.Next())
	assert.Equal(t, 1, mock.CallCount())
}

func TestFetch_ThreadsEveryCursor(t *testing.T) {
	mock := NewMockClientWithOptions(WithPages(
		NewMockPage(true, "c1", NewMockNode(1, "a")),
		NewMockPage(true, "c2", NewMockNode(2, "b")),
		NewMockPage(true, "c3", NewMockNode(3, "c")),
		NewMockPage(false, "c4", NewMockNode(4, "d")),
	))

	it, err := NewFetcher(mock).Fetch(context.Background(), "is:pr", 1)
	require.NoError(t, err)

	prs := collect(t, it)
	require.NoError(t, it.Err())
	assert.Equal(t, []int{1, 2, 3, 4}, numbers(prs))

	require.Equal(t, 4, mock.CallCount())
	for i, want := range []string{"c1", "c2", "c3"} {
		call := mock.Calls[i+1]
		require.NotNil(t, call.After, "call %d", i+2)
		assert.Equal(t, want, *call.After)
	}
}

func TestFetch_EmptyPageWithMoreResults(t *testing.T) {
	mock := NewMockClientWithOptions(WithPages(
		NewMockPage(true, "c1"),
		NewMockPage(false, "", NewMockNode(5, "after empty page")),
	))

	it, err := NewFetcher(mock).Fetch(context.Background(), "is:pr", 10)
	require.NoError(t, err)

	prs := collect(t, it)
	require.NoError(t, it.Err())
	assert.Equal(t, []int{5}, numbers(prs))
	assert.Equal(t, 2, mock.CallCount())
}

func TestFetch_EmptyResult(t *testing.T) {
	mock := NewMockClientWithOptions(WithPages(NewMockPage(false, "")))

	it, err := NewFetcher(mock).Fetch(context.Background(), "is:pr author:nobody", 10)
	require.NoError(t, err)

	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
	assert.Equal(t, 1, mock.CallCount())
}

func TestFetch_IsLazy(t *testing.T) {
	mock := NewMockClientWithOptions(WithPages(
		NewMockPage(true, "c1", NewMockNode(1, "a"), NewMockNode(2, "b")),
		NewMockPage(false, "", NewMockNode(3, "c")),
	))

	it, err := NewFetcher(mock).Fetch(context.Background(), "is:pr", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, mock.CallCount(), "no request before the first Next")

	require.True(t, it.Next())
	require.True(t, it.Next())
	assert.Equal(t, 1, mock.CallCount(), "second page not requested while first is being consumed")

	require.True(t, it.Next())
	assert.Equal(t, 2, mock.CallCount())
}

func TestFetch_BreakingAllStopsRequests(t *testing.T) {
	mock := NewMockClientWithOptions(WithPages(
		NewMockPage(true, "c1", NewMockNode(1, "a"), NewMockNode(2, "b")),
		NewMockPage(false, "", NewMockNode(3, "c")),
	))

	it, err := NewFetcher(mock).Fetch(context.Background(), "is:pr", 2)
	require.NoError(t, err)

	var got []int
	for pr, err := range it.All() {
		require.NoError(t, err)
		got = append(got, pr.Number)
		if len(got) == 1 {
			break
		}
	}

	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 1, mock.CallCount())
}

func TestFetch_TransportFailureAfterFirstPage(t *testing.T) {
	netErr := fmt.Errorf("connection reset: %w", relaierrors.ErrNetworkFailure)
	mock := NewMockClientWithOptions(
		WithPages(
			NewMockPage(true, "c1", NewMockNode(1, "a"), NewMockNode(2, "b")),
			NewMockPage(false, "", NewMockNode(3, "c")),
		),
		WithErrorOnCall(2, netErr),
	)

	it, err := NewFetcher(mock).Fetch(context.Background(), "is:pr", 2)
	require.NoError(t, err)

	var got []int
	var iterErr error
	for pr, err := range it.All() {
		if err != nil {
			iterErr = err
			break
		}
		got = append(got, pr.Number)
	}

	assert.Equal(t, []int{1, 2}, got)
	require.Error(t, iterErr)
	assert.ErrorIs(t, iterErr, relaierrors.ErrTransport)
	assert.ErrorIs(t, iterErr, relaierrors.ErrNetworkFailure)

	var te *TransportError
	require.ErrorAs(t, iterErr, &te)
	assert.Equal(t, 2, te.Page)
	assert.Equal(t, "c1", te.After)

	assert.False(t, it.Next())
	assert.Equal(t, 2, mock.CallCount())
}

func TestFetch_InvalidNodeStopsStream(t *testing.T) {
	broken := NewMockNode(2, "broken")
	broken.URL = ""
	mock := NewMockClientWithOptions(WithPages(
		NewMockPage(true, "c1", NewMockNode(1, "ok"), broken, NewMockNode(3, "never")),
		NewMockPage(false, "", NewMockNode(4, "never")),
	))

	it, err := NewFetcher(mock).Fetch(context.Background(), "is:pr", 3)
	require.NoError(t, err)

	prs := collect(t, it)
	assert.Equal(t, []int{1}, numbers(prs))
	assert.ErrorIs(t, it.Err(), relaierrors.ErrInvalidRecord)
	assert.NotErrorIs(t, it.Err(), relaierrors.ErrTransport)
	assert.Equal(t, 1, mock.CallCount())
}

func TestFetch_InvalidArguments(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		batchSize int
	}{
		{"empty query", "", 10},
		{"blank query", "   ", 10},
		{"zero batch", "is:pr", 0},
		{"negative batch", "is:pr", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockClient()
			it, err := NewFetcher(mock).Fetch(context.Background(), tt.query, tt.batchSize)

			assert.Nil(t, it)
			assert.ErrorIs(t, err, relaierrors.ErrInvalidArgument)
			assert.Equal(t, 0, mock.CallCount())
		})
	}
}

func TestFetch_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := NewMockClient()
	it, err := NewFetcher(mock).Fetch(ctx, "is:pr", 10)
	require.NoError(t, err)

	assert.False(t, it.Next())
	assert.True(t, errors.Is(it.Err(), context.Canceled))
}

func TestResume_StartsFromCursor(t *testing.T) {
	mock := NewMockClientWithOptions(WithPages(
		NewMockPage(false, "", NewMockNode(3, "c")),
	))

	it, err := NewFetcher(mock).Resume(context.Background(), "is:pr", 2, "c1")
	require.NoError(t, err)

	prs := collect(t, it)
	require.NoError(t, it.Err())
	assert.Equal(t, []int{3}, numbers(prs))

	require.Equal(t, 1, mock.CallCount())
	require.NotNil(t, mock.Calls[0].After)
	assert.Equal(t, "c1", *mock.Calls[0].After)
}

func TestResume_EmptyCursorStartsFromBeginning(t *testing.T) {
	mock := NewMockClient()

	it, err := NewFetcher(mock).Resume(context.Background(), "is:pr", 2, "")
	require.NoError(t, err)

	require.True(t, it.Next())
	assert.Nil(t, mock.Calls[0].After)
}

func TestIterator_ProgressAccessors(t *testing.T) {
	first := NewMockPage(true, "c1", NewMockNode(1, "a"))
	first.IssueCount = 2
	second := NewMockPage(false, "c2", NewMockNode(2, "b"))
	second.IssueCount = 2

	var events []PageEvent
	mock := NewMockClientWithOptions(WithPages(first, second))
	it, err := NewFetcher(mock, WithPageHook(func(e PageEvent) {
		events = append(events, e)
	})).Fetch(context.Background(), "is:pr", 1)
	require.NoError(t, err)

	assert.Equal(t, "", it.Cursor())
	assert.Equal(t, 0, it.Pages())

	require.True(t, it.Next())
	assert.Equal(t, 1, it.Pages())
	assert.Equal(t, 2, it.TotalCount())
	assert.Equal(t, "", it.Cursor())

	require.True(t, it.Next())
	assert.Equal(t, 2, it.Pages())
	assert.Equal(t, "c1", it.Cursor())

	assert.False(t, it.Next())
	require.NoError(t, it.Err())

	assert.Equal(t, []PageEvent{
		{Page: 1, After: "", Edges: 1, HasNextPage: true, EndCursor: "c1", IssueCount: 2},
		{Page: 2, After: "c1", Edges: 1, HasNextPage: false, EndCursor: "c2", IssueCount: 2},
	}, events)
}

func TestFetch_LogsEachPage(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core).Sugar()

	mock := NewMockClientWithOptions(WithPages(
		NewMockPage(true, "c1", NewMockNode(1, "a")),
		NewMockPage(false, "", NewMockNode(2, "b")),
	))

	it, err := NewFetcher(mock, WithLogger(logger)).Fetch(context.Background(), "is:pr", 1)
	require.NoError(t, err)
	collect(t, it)

	entries := logs.FilterMessage("fetched search page").All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[1].ContextMap()["page"])
}
