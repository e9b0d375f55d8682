// Package actions adapts the GitHub Actions runtime: step outputs and the
// triggering event.
package actions

import (
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-githubactions"
)

// Outputs receives step outputs. *githubactions.Action satisfies it.
type Outputs interface {
	SetOutput(name, value string)
}

// New returns an Action reading its environment through getenv and writing
// workflow commands to w.
func New(getenv func(string) string, w io.Writer) *githubactions.Action {
	return githubactions.New(githubactions.WithGetenv(getenv), githubactions.WithWriter(w))
}

// Event is the workflow event that started the run.
type Event struct {
	Name    string
	Payload map[string]interface{}
}

// CurrentEvent reads GITHUB_EVENT_NAME and the payload at GITHUB_EVENT_PATH.
func CurrentEvent(a *githubactions.Action) (*Event, error) {
	ctx, err := a.Context()
	if err != nil {
		return nil, errors.Wrap(err, "reading workflow context")
	}
	payload := ctx.Event
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return &Event{Name: ctx.EventName, Payload: payload}, nil
}

// IssueNumber returns issue.number from the payload of an issues event.
func (e *Event) IssueNumber() (int, bool) {
	issue, ok := e.Payload["issue"].(map[string]interface{})
	if !ok {
		return 0, false
	}
	return number(issue["number"])
}

// Input returns a workflow_dispatch input from the payload.
func (e *Event) Input(name string) string {
	inputs, ok := e.Payload["inputs"].(map[string]interface{})
	if !ok {
		return ""
	}
	switch v := inputs[name].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func number(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}
