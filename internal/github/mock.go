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
	"sync"
	"time"

	"github.com/shurcooL/graphql"
	relaierrors "github.com/sirseerhq/sirseer-search/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
// It serves Pages in order, one per call, and records every call.
type MockClient struct {
	mu sync.Mutex

	// Pages to return, one per call
	Pages []*SearchResult

	// Errors keyed by 1-based call number
	Errors map[int]error

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// Track calls for verification
	Calls []SearchVariables
}

// NewMockClient creates a new mock client serving a single page of test data
func NewMockClient() *MockClient {
	return &MockClient{
		Pages:  []*SearchResult{NewMockPage(false, "", generateTestNodes()...)},
		Errors: make(map[int]error),
	}
}

// SearchPullRequests implements the Client interface
func (m *MockClient) SearchPullRequests(ctx context.Context, vars SearchVariables) (*SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, vars)
	call := len(m.Calls)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", relaierrors.ErrInvalidToken)
	}

	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("network timeout: %w", relaierrors.ErrNetworkFailure)
	}

	if err, ok := m.Errors[call]; ok {
		return nil, err
	}

	if call > len(m.Pages) {
		return nil, fmt.Errorf("mock: unexpected call %d, only %d pages scripted", call, len(m.Pages))
	}

	return m.Pages[call-1], nil
}

// CallCount returns the number of SearchPullRequests calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// NewMockPage builds a search page from pull request nodes.
func NewMockPage(hasNext bool, endCursor string, nodes ...PullRequestNode) *SearchResult {
	page := &SearchResult{
		IssueCount: graphql.Int(len(nodes)),
		PageInfo: PageInfo{
			HasNextPage: graphql.Boolean(hasNext),
		},
		Edges: make([]SearchEdge, 0, len(nodes)),
	}
	if endCursor != "" {
		page.PageInfo.EndCursor = graphql.NewString(graphql.String(endCursor))
	}
	for _, n := range nodes {
		page.Edges = append(page.Edges, SearchEdge{Node: SearchNode{PullRequest: n}})
	}
	return page
}

// NewMockNode creates a fully populated pull request node for acme/widget.
func NewMockNode(number int, title string) PullRequestNode {
	var node PullRequestNode
	node.Number = graphql.Int(int32(number)) // #nosec G115 - test data
	node.Title = graphql.String(title)
	node.Repository.Name = "widget"
	node.Repository.NameWithOwner = "acme/widget"
	node.CreatedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(number) * time.Hour)
	node.URL = graphql.String(fmt.Sprintf("https://github.com/acme/widget/pull/%d", number))
	node.HeadRefName = graphql.String(fmt.Sprintf("feature/%d", number))
	node.BaseRefName = "main"
	node.Author = &AuthorNode{
		Login: graphql.NewString("octocat"),
		URL:   "https://github.com/octocat",
	}
	return node
}

// generateTestNodes creates sample pull request nodes for testing
func generateTestNodes() []PullRequestNode {
	return []PullRequestNode{
		NewMockNode(1234, "Add new feature for data processing"),
		NewMockNode(1233, "Fix memory leak in parser"),
		NewMockNode(1232, "Update documentation"),
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithPages sets the pages to serve, in call order
func WithPages(pages ...*SearchResult) MockClientOption {
	return func(m *MockClient) {
		m.Pages = pages
	}
}

// WithErrorOnCall makes the given 1-based call fail with err
func WithErrorOnCall(call int, err error) MockClientOption {
	return func(m *MockClient) {
		m.Errors[call] = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
