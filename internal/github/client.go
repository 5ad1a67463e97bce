// Package github is a minimal wrapper around GitHub's REST and GraphQL
// APIs, covering just the endpoints the sync service requires.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	apiBase     = "https://api.github.com"
	graphqlBase = "https://api.github.com/graphql"
	perPage     = 100
)

// TokenSource supplies the API token at call time so the client picks up
// settings changes without a restart.
type TokenSource func(ctx context.Context) (string, error)

// StaticToken returns a TokenSource for a fixed token string.
func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) { return token, nil }
}

// Client calls the GitHub API. Requests pass through a shared rate
// limiter so batch syncs stay under GitHub's secondary rate limits.
type Client struct {
	http    *http.Client
	token   TokenSource
	limiter *rate.Limiter
	baseURL string
	gqlURL  string
}

// NewClient returns a ready-to-use GitHub API client. tokens may return
// an empty string, but unauthenticated requests get very low rate limits.
func NewClient(tokens TokenSource) *Client {
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		token:   tokens,
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		baseURL: apiBase,
		gqlURL:  graphqlBase,
	}
}

// Issue is a GitHub REST issue as returned by the issues endpoint.
type Issue struct {
	Number    int64      `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	HTMLURL   string     `json:"html_url"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	User      *struct {
		Login string `json:"login"`
	} `json:"user"`
	PullRequest *struct{} `json:"pull_request,omitempty"`
}

// PullRequest is a GitHub REST pull request.
type PullRequest struct {
	Number    int64      `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	State     string     `json:"state"`
	HTMLURL   string     `json:"html_url"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	User      *struct {
		Login string `json:"login"`
	} `json:"user"`
}

// Discussion is a GitHub GraphQL discussion node.
type Discussion struct {
	Number    int64      `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	URL       string     `json:"url"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	Author    *struct {
		Login string `json:"login"`
	} `json:"author"`
}

// RepoStats is the repository-level counter set captured per sync.
type RepoStats struct {
	Stars             int
	Forks             int
	OpenIssues        int
	WeeklyCommits     int
	ContributorsCount int
	TopContributors   []Contributor
}

// Contributor is a repository contributor with a contribution count.
type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

// ListIssues fetches issues updated since the given time (all when nil).
// GitHub's issues endpoint includes pull requests; those are filtered out.
func (c *Client) ListIssues(ctx context.Context, owner, repo string, since *time.Time) ([]Issue, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/issues", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))
	q := url.Values{}
	q.Set("state", "all")
	q.Set("per_page", fmt.Sprint(perPage))
	q.Set("sort", "updated")
	q.Set("direction", "desc")
	if since != nil {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}

	var raw []Issue
	if err := c.get(ctx, u+"?"+q.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("fetching issues: %w", err)
	}

	issues := raw[:0]
	for _, it := range raw {
		if it.PullRequest == nil {
			issues = append(issues, it)
		}
	}
	return issues, nil
}

// ListPullRequests fetches pull requests, filtered client-side by updated
// time since GitHub's pulls endpoint has no since parameter.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo string, since *time.Time) ([]PullRequest, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/pulls", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))
	q := url.Values{}
	q.Set("state", "all")
	q.Set("per_page", fmt.Sprint(perPage))
	q.Set("sort", "updated")
	q.Set("direction", "desc")

	var prs []PullRequest
	if err := c.get(ctx, u+"?"+q.Encode(), &prs); err != nil {
		return nil, fmt.Errorf("fetching pull requests: %w", err)
	}
	if since == nil {
		return prs, nil
	}

	filtered := prs[:0]
	for _, pr := range prs {
		if pr.UpdatedAt != nil && pr.UpdatedAt.After(*since) {
			filtered = append(filtered, pr)
		}
	}
	return filtered, nil
}

const discussionsQuery = `query($owner: String!, $repo: String!) {
  repository(owner: $owner, name: $repo) {
    discussions(first: 100, orderBy: {field: UPDATED_AT, direction: DESC}) {
      nodes {
        number
        title
        body
        createdAt
        updatedAt
        author { login }
        url
      }
    }
  }
}`

// ListDiscussions fetches discussions via GraphQL. Repositories without
// discussions enabled yield an empty list, not an error.
func (c *Client) ListDiscussions(ctx context.Context, owner, repo string) ([]Discussion, error) {
	body, err := json.Marshal(map[string]interface{}{
		"query": discussionsQuery,
		"variables": map[string]string{
			"owner": owner,
			"repo":  repo,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling query: %w", err)
	}

	var resp struct {
		Data struct {
			Repository struct {
				Discussions struct {
					Nodes []Discussion `json:"nodes"`
				} `json:"discussions"`
			} `json:"repository"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := c.post(ctx, c.gqlURL, body, &resp); err != nil {
		// Discussions are optional; a failing GraphQL call degrades to
		// an empty feed.
		return nil, nil
	}
	if len(resp.Errors) > 0 {
		return nil, nil
	}
	return resp.Data.Repository.Discussions.Nodes, nil
}

// FetchStats assembles the repository stats snapshot: repo counters,
// contributors, and commit count over the last week.
func (c *Client) FetchStats(ctx context.Context, owner, repo string) (*RepoStats, error) {
	repoURL := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))
	var repoData struct {
		StargazersCount int `json:"stargazers_count"`
		ForksCount      int `json:"forks_count"`
		OpenIssuesCount int `json:"open_issues_count"`
	}
	if err := c.get(ctx, repoURL, &repoData); err != nil {
		return nil, fmt.Errorf("fetching repository: %w", err)
	}

	var contributors []Contributor
	contribURL := repoURL + "/contributors?per_page=" + fmt.Sprint(perPage)
	if err := c.get(ctx, contribURL, &contributors); err != nil {
		return nil, fmt.Errorf("fetching contributors: %w", err)
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	var commits []struct {
		SHA string `json:"sha"`
	}
	commitsURL := fmt.Sprintf("%s/commits?since=%s&per_page=%d", repoURL, url.QueryEscape(weekAgo.Format(time.RFC3339)), perPage)
	if err := c.get(ctx, commitsURL, &commits); err != nil {
		return nil, fmt.Errorf("fetching commits: %w", err)
	}

	top := contributors
	if len(top) > 10 {
		top = top[:10]
	}
	return &RepoStats{
		Stars:             repoData.StargazersCount,
		Forks:             repoData.ForksCount,
		OpenIssues:        repoData.OpenIssuesCount,
		WeeklyCommits:     len(commits),
		ContributorsCount: len(contributors),
		TopContributors:   top,
	}, nil
}

func (c *Client) get(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, req, v)
}

func (c *Client) post(ctx context.Context, url string, body []byte, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req, v)
}

// do waits for the rate limiter, sets headers, executes the request, and
// decodes the JSON response into v.
func (c *Client) do(ctx context.Context, req *http.Request, v interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	token, err := c.token(ctx)
	if err != nil {
		return fmt.Errorf("resolving github token: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "repopulse")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("github: unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
