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
	"io"
	"net/http"
	"time"

	"github.com/shurcooL/graphql"
	relaierrors "github.com/sirseerhq/sirseer-search/internal/errors"
	"github.com/sirseerhq/sirseer-search/internal/giterror"
	"github.com/sirseerhq/sirseer-search/pkg/version"
	"golang.org/x/oauth2"
)

// maxResponseBytes caps a single GraphQL response body.
const maxResponseBytes = 10 * 1024 * 1024

// GraphQLClient implements the Client interface using GitHub's GraphQL API.
// It sends the fixed search document defined by searchQuery and maps API
// failures onto the sentinel errors in internal/errors.
type GraphQLClient struct {
	client    *graphql.Client
	inspector giterror.Inspector
}

// NewGraphQLClient creates a new GitHub GraphQL client with the provided token and endpoint.
// The client is configured with:
//   - Bearer authentication from a static oauth2 token source
//   - Custom GraphQL endpoint URL (e.g., for GitHub Enterprise)
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
//   - Connection pooling for consecutive page requests
func NewGraphQLClient(token string, endpoint string) *GraphQLClient {
	base := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return newGraphQLClient(token, endpoint, base)
}

func newGraphQLClient(token, endpoint string, base http.RoundTripper) *GraphQLClient {
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   &agentTransport{base: base},
		},
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
	}
}

// SearchPullRequests executes one page of the pull request search.
func (c *GraphQLClient) SearchPullRequests(ctx context.Context, vars SearchVariables) (*SearchResult, error) {
	var query searchQuery

	// after is declared as a nullable String; a nil pointer sends null.
	variables := map[string]interface{}{
		"query": graphql.String(vars.Query),
		"first": graphql.Int(int32(vars.First)), // #nosec G115 - page size is validated by the caller
		"after": (*graphql.String)(nil),
	}
	if vars.After != nil {
		variables["after"] = graphql.NewString(graphql.String(*vars.After))
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err)
	}

	return &query.Search, nil
}

// mapError maps GraphQL errors to our domain errors with actionable messages
func (c *GraphQLClient) mapError(err error) error {
	if err == nil {
		return nil
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w", relaierrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w", relaierrors.ErrInvalidToken)
	}

	if c.inspector.IsQueryError(err) {
		return fmt.Errorf("GitHub rejected the search query (%v): %w", err, relaierrors.ErrInvalidQuery)
	}

	if c.inspector.IsComplexityError(err) {
		return fmt.Errorf("GraphQL query complexity exceeded. Reducing batch size may help: %w", relaierrors.ErrQueryComplexity)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to GitHub API (%v): %w", err, relaierrors.ErrNetworkFailure)
	}

	return fmt.Errorf("failed to search pull requests: %w", err)
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// agentTransport sets the User-Agent and limits the response size.
// Authentication is added by the oauth2.Transport wrapping it.
type agentTransport struct {
	base http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *agentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", fmt.Sprintf("sirseer-search/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseBytes,
		}
	}

	return resp, nil
}
