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

// ParseNode converts a raw search node into a PullRequest.
// Absent optional objects (author, commits, commit status) become nil
// instead of failing; a required field missing from a present object
// yields an *InvalidRecordError.
func ParseNode(node PullRequestNode) (PullRequest, error) {
	pr := PullRequest{
		Number:    int(node.Number),
		Title:     string(node.Title),
		CreatedAt: node.CreatedAt,
		URL:       string(node.URL),
		Repository: Repository{
			Name:     string(node.Repository.Name),
			FullName: string(node.Repository.NameWithOwner),
		},
		Branches: Branches{
			Head: string(node.HeadRefName),
			Base: string(node.BaseRefName),
		},
		Labels:       parseLabels(node),
		LatestCommit: parseLatestCommit(node.Commits.Edges),
		Author:       parseAuthor(node.Author),
	}

	if err := pr.Validate(); err != nil {
		return PullRequest{}, err
	}
	return pr, nil
}

func parseLabels(node PullRequestNode) []string {
	labels := make([]string, 0, len(node.Labels.Edges))
	for _, edge := range node.Labels.Edges {
		labels = append(labels, string(edge.Node.Name))
	}
	return labels
}

func parseLatestCommit(edges []CommitEdge) LatestCommit {
	if len(edges) == 0 {
		return LatestCommit{}
	}

	commit := edges[len(edges)-1].Node.Commit
	sha := string(commit.OID)
	latest := LatestCommit{SHA: &sha}

	if commit.Status != nil {
		latest.Statuses = make([]CommitStatus, 0, len(commit.Status.Contexts))
		for _, ctx := range commit.Status.Contexts {
			latest.Statuses = append(latest.Statuses, CommitStatus{
				Name:  string(ctx.Context),
				State: string(ctx.State),
			})
		}
	}

	return latest
}

func parseAuthor(author *AuthorNode) *Author {
	if author == nil {
		return nil
	}

	a := &Author{ProfileURL: string(author.URL)}
	if author.Login != nil {
		login := string(*author.Login)
		a.Username = &login
	}
	return a
}
