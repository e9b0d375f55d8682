package tasks

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinwoo1225/gh-triage/internal/model"
)

type fakeReader struct {
	body           string
	comments       []*model.Comment
	reviewComments []*model.Comment
	files          []*model.FilePatch
	err            error
}

func (f *fakeReader) GetPullRequest(_ context.Context, _, _ string, number int) (*model.GithubPullRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.GithubPullRequest{PrNumber: number, Body: f.body}, nil
}

func (f *fakeReader) ListIssueComments(context.Context, string, string, int) ([]*model.Comment, error) {
	return f.comments, nil
}

func (f *fakeReader) ListReviewComments(context.Context, string, string, int) ([]*model.Comment, error) {
	return f.reviewComments, nil
}

func (f *fakeReader) ListFiles(context.Context, string, string, int) ([]*model.FilePatch, error) {
	return f.files, nil
}

func TestCheck_AllDone(t *testing.T) {
	r := &fakeReader{
		body:     "- [x] tests\n- [X] docs",
		comments: []*model.Comment{{ID: 1, Author: "alice", Body: "lgtm"}},
		files:    []*model.FilePatch{{Filename: "a.go", Patch: "+x := []int{}"}},
	}
	found, err := Check(context.Background(), r, "o", "r", 5)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestCheck_FindsEveryPlace(t *testing.T) {
	r := &fakeReader{
		body:           "- [ ] tests",
		comments:       []*model.Comment{{ID: 1, Author: "alice", Body: "ok"}, {ID: 2, Author: "bob", Body: "- [ ] rebase"}},
		reviewComments: []*model.Comment{{ID: 3, Author: "carol", Body: "[ ] rename"}},
		files: []*model.FilePatch{
			{Filename: "README.md", Patch: "+- [ ] todo"},
			{Filename: "binary.bin"},
		},
	}
	found, err := Check(context.Background(), r, "o", "r", 5)
	require.NoError(t, err)
	assert.Equal(t, []Finding{
		{Place: "description"},
		{Place: "comment 2 by bob"},
		{Place: "review comment 3 by carol"},
		{Place: "file README.md"},
	}, found)
}

func TestCheck_Error(t *testing.T) {
	_, err := Check(context.Background(), &fakeReader{err: errors.New("boom")}, "o", "r", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#5")
}
