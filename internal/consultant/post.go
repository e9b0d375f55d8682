package consultant

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"

	"github.com/jinwoo1225/gh-triage/internal/model"
)

var (
	ErrMissingIssueNumber = errors.New("issue number not provided")
	ErrMissingResponse    = errors.New("AI response file not found")
)

type Commenter interface {
	CreateComment(ctx context.Context, owner, repo string, number int, body string) (*model.Comment, error)
}

func ReadResponse(path string) (string, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", errors.Wrap(ErrMissingResponse, path)
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(b), nil
}

// Post comments the AI response on the issue.
func Post(ctx context.Context, c Commenter, owner, repo string, number int, response string) (*model.Comment, error) {
	if number <= 0 {
		return nil, ErrMissingIssueNumber
	}
	cm, err := c.CreateComment(ctx, owner, repo, number, response)
	if err != nil {
		return nil, errors.Wrap(err, "failed to post AI response")
	}
	logger.Infof("✅ AI consultant response posted successfully to issue #%d", number)
	return cm, nil
}

// Preview renders the response to w as it would read on GitHub.
func Preview(w io.Writer, response string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return errors.Wrap(err, "creating markdown renderer")
	}
	out, err := renderer.Render(response)
	if err != nil {
		return errors.Wrap(err, "rendering markdown")
	}
	_, err = io.WriteString(w, out)
	return err
}
