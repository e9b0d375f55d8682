// Package consultant implements the steps of the AI issue consultant
// workflow: issue details, prompt generation and posting the answer.
package consultant

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jinwoo1225/gh-triage/internal/actions"
	"github.com/jinwoo1225/gh-triage/internal/model"
)

var logger = log.WithField("package", "consultant")

var ErrMissingLabel = errors.New("issue is missing the consultant label")

type IssueGetter interface {
	GetIssue(ctx context.Context, owner, repo string, number int) (*model.GithubIssue, error)
}

// ResolveIssueNumber picks the issue to consult on. issues events use the
// payload, workflow_dispatch uses input and every other event uses fallback.
func ResolveIssueNumber(ev *actions.Event, input string, fallback int) (int, error) {
	switch ev.Name {
	case "issues":
		n, ok := ev.IssueNumber()
		if !ok {
			return 0, errors.New("issues event payload has no issue number")
		}
		return n, nil
	case "workflow_dispatch":
		if input == "" {
			logger.Infof("📋 Using issue number: %d (default)", fallback)
			return fallback, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			return 0, errors.Wrapf(err, "invalid issue number %q", input)
		}
		logger.Infof("📋 Using issue number: %d (provided)", n)
		return n, nil
	case "push":
		logger.Infof("📋 Using default issue number for push event: %d", fallback)
		return fallback, nil
	default:
		logger.Warnf("⚠️  Unknown event type '%s', using default issue number: %d", ev.Name, fallback)
		return fallback, nil
	}
}

// Details is the issue information handed to the later workflow steps.
type Details struct {
	Number int
	Title  string
	Body   string
	Author string
	Labels []string
	URL    string
}

// FetchDetails loads the issue and checks it carries label.
func FetchDetails(ctx context.Context, c IssueGetter, owner, repo string, number int, label string) (*Details, error) {
	is, err := c.GetIssue(ctx, owner, repo, number)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch issue details")
	}
	if !is.HasLabel(label) {
		return nil, errors.Wrapf(ErrMissingLabel, "issue #%d must have %q label", number, label)
	}

	d := &Details{
		Number: is.Number,
		Title:  is.Title,
		Body:   is.Body,
		Author: is.AuthorSlug,
		Labels: is.LabelNames(),
		URL:    is.URL,
	}
	logger.WithFields(log.Fields{
		"title":  d.Title,
		"author": d.Author,
		"labels": strings.Join(d.Labels, ", "),
	}).Info("Issue data extracted successfully")
	return d, nil
}

func (d *Details) Emit(out actions.Outputs) {
	out.SetOutput("issue_number", strconv.Itoa(d.Number))
	out.SetOutput("issue_title", d.Title)
	out.SetOutput("issue_body", d.Body)
	out.SetOutput("issue_author", d.Author)
	out.SetOutput("issue_labels", strings.Join(d.Labels, ","))
	out.SetOutput("issue_url", d.URL)
}
