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
	"time"

	"github.com/shurcooL/graphql"
)

// searchQuery is the GraphQL document sent for every page. shurcooL/graphql
// derives the query text from the struct shape and the graphql tags.
type searchQuery struct {
	Search SearchResult `graphql:"search(query: $query, type: ISSUE, first: $first, after: $after)"`
}

// SearchResult is a read-only view of one page of the search connection.
// It only exposes the fields the node parser consumes.
type SearchResult struct {
	IssueCount graphql.Int
	PageInfo   PageInfo
	Edges      []SearchEdge
}

// PageInfo carries the pagination state of a search page.
type PageInfo struct {
	HasNextPage graphql.Boolean
	EndCursor   *graphql.String
}

// SearchEdge wraps a single search hit.
type SearchEdge struct {
	Node SearchNode
}

// SearchNode is a search hit. Issues matched by the query decode into a
// zero-valued PullRequest and are rejected by the parser.
type SearchNode struct {
	PullRequest PullRequestNode `graphql:"... on PullRequest"`
}

// PullRequestNode mirrors the pull request fields requested from GitHub.
// Nullable objects are pointers so an absent value stays distinguishable
// from an empty one.
type PullRequestNode struct {
	Number     graphql.Int
	Title      graphql.String
	Repository struct {
		Name          graphql.String
		NameWithOwner graphql.String
	}
	CreatedAt   time.Time
	URL         graphql.String `graphql:"url"`
	HeadRefName graphql.String
	BaseRefName graphql.String

	Labels struct {
		Edges []struct {
			Node struct {
				Name graphql.String
			}
		}
	} `graphql:"labels(first: 10)"`

	// Only the trailing commit is requested; its status carries the checks.
	Commits struct {
		Edges []CommitEdge
	} `graphql:"commits(last: 1)"`

	Author *AuthorNode `graphql:"author"`
}

// CommitEdge wraps a pull request commit.
type CommitEdge struct {
	Node struct {
		Commit CommitNode `graphql:"commit"`
	}
}

// CommitNode is a git commit with its combined status.
type CommitNode struct {
	OID    graphql.String `graphql:"oid"`
	Status *struct {
		Contexts []StatusContextNode
	} `graphql:"status"`
}

// StatusContextNode is one status check on a commit.
type StatusContextNode struct {
	Context graphql.String
	State   graphql.String
}

// AuthorNode is the actor that opened the pull request.
type AuthorNode struct {
	Login *graphql.String `graphql:"login"`
	URL   graphql.String  `graphql:"url"`
}

// Cursor returns the end cursor of the page, or "" when GitHub sent null.
func (p PageInfo) Cursor() string {
	if p.EndCursor == nil {
		return ""
	}
	return string(*p.EndCursor)
}
