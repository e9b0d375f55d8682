// Package tasks finds unchecked markdown task list items in a pull request.
package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jinwoo1225/gh-triage/internal/model"
)

var logger = log.WithField("package", "tasks")

// Unchecked is the markdown of an open task list item.
const Unchecked = "[ ]"

type PullRequestReader interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*model.GithubPullRequest, error)
	ListIssueComments(ctx context.Context, owner, repo string, number int) ([]*model.Comment, error)
	ListReviewComments(ctx context.Context, owner, repo string, number int) ([]*model.Comment, error)
	ListFiles(ctx context.Context, owner, repo string, number int) ([]*model.FilePatch, error)
}

// Finding names one place holding an unchecked task, e.g. "description" or "file main.go".
type Finding struct {
	Place string
}

func (f Finding) String() string { return f.Place }

// Check fetches the description, comments, review comments and file patches
// of a pull request and reports every one containing an unchecked task.
func Check(ctx context.Context, c PullRequestReader, owner, repo string, number int) ([]Finding, error) {
	var (
		pr             *model.GithubPullRequest
		comments       []*model.Comment
		reviewComments []*model.Comment
		files          []*model.FilePatch
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		pr, err = c.GetPullRequest(gctx, owner, repo, number)
		return err
	})
	g.Go(func() (err error) {
		comments, err = c.ListIssueComments(gctx, owner, repo, number)
		return err
	})
	g.Go(func() (err error) {
		reviewComments, err = c.ListReviewComments(gctx, owner, repo, number)
		return err
	})
	g.Go(func() (err error) {
		files, err = c.ListFiles(gctx, owner, repo, number)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrapf(err, "reading pull request #%d", number)
	}

	var found []Finding
	if strings.Contains(pr.Body, Unchecked) {
		found = append(found, Finding{Place: "description"})
	}
	for _, cm := range comments {
		if strings.Contains(cm.Body, Unchecked) {
			found = append(found, Finding{Place: fmt.Sprintf("comment %d by %s", cm.ID, cm.Author)})
		}
	}
	for _, cm := range reviewComments {
		if strings.Contains(cm.Body, Unchecked) {
			found = append(found, Finding{Place: fmt.Sprintf("review comment %d by %s", cm.ID, cm.Author)})
		}
	}
	for _, f := range files {
		if strings.Contains(f.Patch, Unchecked) {
			found = append(found, Finding{Place: "file " + f.Filename})
		}
	}

	logger.WithField("pr", number).Debugf("scanned %d comments, %d review comments, %d files",
		len(comments), len(reviewComments), len(files))
	return found, nil
}
