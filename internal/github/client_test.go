package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gh := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = base
	return NewClientWith(gh), srv
}

func TestListIssues_PaginatesAndDropsPullRequests(t *testing.T) {
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("/repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"number": 3, "title": "third", "created_at": "2025-01-03T00:00:00Z"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/o/r/issues?page=2>; rel="next"`, srvURL))
		fmt.Fprint(w, `[
			{"number": 1, "title": "first", "node_id": "I_1", "html_url": "https://github.com/o/r/issues/1",
			 "user": {"login": "alice"}, "assignees": [{"login": "bob"}],
			 "labels": [{"name": "P1", "color": "ff0000"}],
			 "created_at": "2025-01-01T00:00:00Z", "closed_at": "2025-01-05T00:00:00Z"},
			{"number": 2, "title": "a pr", "pull_request": {"url": "x"}}
		]`)
	})
	c, srv := newTestClient(t, mux)
	srvURL = srv.URL

	issues, err := c.ListIssues(context.Background(), "o", "r", "open")
	require.NoError(t, err)
	require.Len(t, issues, 2)

	first := issues[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "I_1", first.NodeID)
	assert.Equal(t, "o/r", first.RepositoryNameWithOwner)
	assert.Equal(t, "alice", first.AuthorSlug)
	assert.Equal(t, []string{"bob"}, first.Assignees)
	assert.Equal(t, "ff0000", first.Labels[0].Color)
	assert.True(t, first.IsClosed())
	assert.Equal(t, 3, issues[1].Number)
	assert.False(t, issues[1].IsClosed())
}

func TestListPullRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"number": 9, "title": "t", "draft": true, "node_id": "PR_9",
			"user": {"login": "carol"}, "requested_reviewers": [{"login": "dave"}],
			"created_at": "2025-02-01T00:00:00Z"}]`)
	})
	c, _ := newTestClient(t, mux)

	pulls, err := c.ListPullRequests(context.Background(), "o", "r", "open")
	require.NoError(t, err)
	require.Len(t, pulls, 1)
	assert.True(t, pulls[0].Draft)
	assert.Equal(t, []string{"dave"}, pulls[0].RequestedReviewers)
	assert.Equal(t, "carol", pulls[0].AuthorSlug)
	assert.Equal(t, "r", pulls[0].RepositoryName())
}

func TestReviewerLookups(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/4/requested_reviewers", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"users": [{"login": "erin"}], "teams": []}`)
	})
	mux.HandleFunc("/repos/o/r/pulls/4/reviews", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"user": {"login": "frank"}}, {"user": {"login": "erin"}}]`)
	})
	c, _ := newTestClient(t, mux)

	requested, err := c.ListRequestedReviewers(context.Background(), "o", "r", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"erin"}, requested)

	reviewed, err := c.ListReviewAuthors(context.Background(), "o", "r", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"frank", "erin"}, reviewed)
}

func TestCreateComment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 11, "body": "hello"}`)
	})
	c, _ := newTestClient(t, mux)

	comment, err := c.CreateComment(context.Background(), "o", "r", 7, "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(11), comment.ID)
	assert.Equal(t, "hello", comment.Body)
}

func TestGetIssue_Error(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/issues/1", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})
	c, _ := newTestClient(t, mux)

	_, err := c.GetIssue(context.Background(), "o", "r", 1)
	assert.ErrorContains(t, err, "getting issue #1")
}

func TestPullRequestContents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls/5", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"number": 5, "body": "- [x] done"}`)
	})
	mux.HandleFunc("/repos/o/r/issues/5/comments", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 1, "body": "a"}]`)
	})
	mux.HandleFunc("/repos/o/r/pulls/5/comments", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 2, "body": "b"}]`)
	})
	mux.HandleFunc("/repos/o/r/pulls/5/files", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"filename": "a.go", "patch": "+x"}]`)
	})
	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	pr, err := c.GetPullRequest(ctx, "o", "r", 5)
	require.NoError(t, err)
	assert.Equal(t, "- [x] done", pr.Body)

	comments, err := c.ListIssueComments(ctx, "o", "r", 5)
	require.NoError(t, err)
	assert.Equal(t, "a", comments[0].Body)

	reviewComments, err := c.ListReviewComments(ctx, "o", "r", 5)
	require.NoError(t, err)
	assert.Equal(t, "b", reviewComments[0].Body)

	files, err := c.ListFiles(ctx, "o", "r", 5)
	require.NoError(t, err)
	assert.Equal(t, "+x", files[0].Patch)
}
