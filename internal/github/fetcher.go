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
	"fmt"
	"iter"
	"strings"

	relaierrors "github.com/sirseerhq/sirseer-search/internal/errors"
	"go.uber.org/zap"
)

// TransportError reports a failed search page request. The underlying
// classified error (rate limit, network, ...) is available via Unwrap, and
// the error also matches relaierrors.ErrTransport.
type TransportError struct {
	// Page is the 1-based number of the page that failed.
	Page int
	// After is the cursor the failed request was sent with, "" for the first page.
	// Resuming from it replays the failed page.
	After string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetching search page %d: %v", e.Page, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, relaierrors.ErrTransport) succeed.
func (e *TransportError) Is(target error) bool {
	return target == relaierrors.ErrTransport
}

// Fetcher turns the page-at-a-time Client into a single stream of pull requests.
type Fetcher struct {
	client   Client
	logger   *zap.SugaredLogger
	pageHook func(PageEvent)
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithLogger sets the logger used for per-page debug output.
func WithLogger(logger *zap.SugaredLogger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithPageHook registers a function called once for every page received.
func WithPageHook(hook func(PageEvent)) FetcherOption {
	return func(f *Fetcher) {
		f.pageHook = hook
	}
}

// NewFetcher creates a Fetcher on top of the given client.
func NewFetcher(client Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: client,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns an iterator over every pull request matching query.
// No request is made until the first call to Next; afterwards exactly one
// request is made each time the iterator moves past the end of a page.
func (f *Fetcher) Fetch(ctx context.Context, query string, batchSize int) (*Iterator, error) {
	return f.start(ctx, query, batchSize, nil)
}

// Resume is like Fetch but starts from the page following cursor, as
// recorded in TransportError.After or Iterator.Cursor.
func (f *Fetcher) Resume(ctx context.Context, query string, batchSize int, cursor string) (*Iterator, error) {
	if cursor == "" {
		return f.start(ctx, query, batchSize, nil)
	}
	return f.start(ctx, query, batchSize, &cursor)
}

func (f *Fetcher) start(ctx context.Context, query string, batchSize int, after *string) (*Iterator, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query must not be empty: %w", relaierrors.ErrInvalidArgument)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d: %w", batchSize, relaierrors.ErrInvalidArgument)
	}

	return &Iterator{
		ctx:       ctx,
		fetcher:   f,
		query:     query,
		batchSize: batchSize,
		after:     after,
		hasNext:   true,
	}, nil
}

// Iterator is a forward-only, non-restartable stream of pull requests.
// It is not safe for concurrent use.
type Iterator struct {
	ctx       context.Context
	fetcher   *Fetcher
	query     string
	batchSize int

	// after is the cursor the current page was requested with.
	after     *string
	endCursor *string
	hasNext   bool
	edges     []SearchEdge
	pos       int
	pages     int
	total     int

	current PullRequest
	err     error
	done    bool
}

// Next advances to the next pull request. It returns false when the stream
// is exhausted or an error occurred; check Err to tell the two apart.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}

	for it.pos >= len(it.edges) {
		if !it.hasNext {
			it.finish(nil)
			return false
		}
		if err := it.fetchPage(); err != nil {
			it.finish(err)
			return false
		}
	}

	node := it.edges[it.pos].Node.PullRequest
	it.edges[it.pos] = SearchEdge{}
	it.pos++

	pr, err := ParseNode(node)
	if err != nil {
		it.finish(err)
		return false
	}
	it.current = pr
	return true
}

func (it *Iterator) fetchPage() error {
	if it.pages > 0 {
		// The previous page is fully consumed; request the one after it.
		it.after = it.endCursor
	}

	page := it.pages + 1
	vars := SearchVariables{
		Query: it.query,
		First: it.batchSize,
		After: it.after,
	}

	result, err := it.fetcher.client.SearchPullRequests(it.ctx, vars)
	if err != nil {
		return &TransportError{Page: page, After: vars.AfterValue(), Err: err}
	}

	it.pages = page
	it.edges = result.Edges
	it.pos = 0
	it.hasNext = bool(result.PageInfo.HasNextPage)
	it.total = int(result.IssueCount)
	it.endCursor = nil
	if result.PageInfo.EndCursor != nil {
		cursor := string(*result.PageInfo.EndCursor)
		it.endCursor = &cursor
	}

	event := PageEvent{
		Page:        page,
		After:       vars.AfterValue(),
		Edges:       len(result.Edges),
		HasNextPage: it.hasNext,
		EndCursor:   result.PageInfo.Cursor(),
		IssueCount:  it.total,
	}
	it.fetcher.logger.Debugw("fetched search page",
		"page", event.Page,
		"edges", event.Edges,
		"has_next_page", event.HasNextPage,
		"issue_count", event.IssueCount)
	if it.fetcher.pageHook != nil {
		it.fetcher.pageHook(event)
	}

	return nil
}

func (it *Iterator) finish(err error) {
	it.done = true
	it.err = err
	it.edges = nil
	it.current = PullRequest{}
}

// PullRequest returns the record produced by the last successful call to Next.
func (it *Iterator) PullRequest() PullRequest {
	return it.current
}

// Err returns the error that stopped the iteration, or nil on a clean end.
func (it *Iterator) Err() error {
	return it.err
}

// All adapts the iterator to a range-over-func sequence. The sequence ends
// after yielding a non-nil error; breaking out of the loop stops fetching.
func (it *Iterator) All() iter.Seq2[PullRequest, error] {
	return func(yield func(PullRequest, error) bool) {
		for it.Next() {
			if !yield(it.PullRequest(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(PullRequest{}, err)
		}
	}
}

// Pages returns the number of pages fetched so far.
func (it *Iterator) Pages() int {
	return it.pages
}

// Cursor returns the cursor the current page was requested with, "" for the
// first page. Resuming from it replays the current page.
func (it *Iterator) Cursor() string {
	if it.after == nil {
		return ""
	}
	return *it.after
}

// TotalCount returns the issueCount GitHub reported with the latest page.
func (it *Iterator) TotalCount() int {
	return it.total
}
