package consultant

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinwoo1225/gh-triage/internal/actions"
	"github.com/jinwoo1225/gh-triage/internal/model"
)

type outputs map[string]string

func (o outputs) SetOutput(name, value string) { o[name] = value }

type fakeGitHub struct {
	issue    *model.GithubIssue
	err      error
	comments []string
}

func (f *fakeGitHub) GetIssue(_ context.Context, _, _ string, _ int) (*model.GithubIssue, error) {
	return f.issue, f.err
}

func (f *fakeGitHub) CreateComment(_ context.Context, _, _ string, number int, body string) (*model.Comment, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.comments = append(f.comments, body)
	return &model.Comment{ID: 1, Body: body}, nil
}

type fakeChat struct {
	reply string
	err   error
	req   openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.reply}}},
	}, nil
}

func TestResolveIssueNumber(t *testing.T) {
	issuesEvent := &actions.Event{Name: "issues", Payload: map[string]interface{}{
		"issue": map[string]interface{}{"number": float64(12)},
	}}

	tests := []struct {
		name  string
		event *actions.Event
		input string
		want  int
	}{
		{"issues event", issuesEvent, "99", 12},
		{"dispatch with input", &actions.Event{Name: "workflow_dispatch"}, "77", 77},
		{"dispatch without input", &actions.Event{Name: "workflow_dispatch"}, "", 598},
		{"push", &actions.Event{Name: "push"}, "77", 598},
		{"unknown", &actions.Event{Name: "schedule"}, "", 598},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveIssueNumber(tt.event, tt.input, 598)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveIssueNumberErrors(t *testing.T) {
	_, err := ResolveIssueNumber(&actions.Event{Name: "issues", Payload: map[string]interface{}{}}, "", 598)
	assert.Error(t, err)

	_, err = ResolveIssueNumber(&actions.Event{Name: "workflow_dispatch"}, "abc", 598)
	assert.Error(t, err)
}

func TestFetchDetails(t *testing.T) {
	gh := &fakeGitHub{issue: &model.GithubIssue{
		Number:     598,
		Title:      "Wrong unpack result",
		Body:       "",
		AuthorSlug: "alice",
		URL:        "https://github.com/tenstorrent/tt-llk/issues/598",
		Labels:     []model.Label{{Name: "bug"}, {Name: "llk-ai-consultant"}},
	}}

	d, err := FetchDetails(context.Background(), gh, "tenstorrent", "tt-llk", 598, "llk-ai-consultant")
	require.NoError(t, err)

	out := outputs{}
	d.Emit(out)
	assert.Equal(t, outputs{
		"issue_number": "598",
		"issue_title":  "Wrong unpack result",
		"issue_body":   "",
		"issue_author": "alice",
		"issue_labels": "bug,llk-ai-consultant",
		"issue_url":    "https://github.com/tenstorrent/tt-llk/issues/598",
	}, out)
}

func TestFetchDetailsRequiresLabel(t *testing.T) {
	gh := &fakeGitHub{issue: &model.GithubIssue{Number: 1, Labels: []model.Label{{Name: "bug"}}}}
	_, err := FetchDetails(context.Background(), gh, "o", "r", 1, "llk-ai-consultant")
	assert.True(t, errors.Is(err, ErrMissingLabel))
}

func TestFetchDetailsLookupError(t *testing.T) {
	_, err := FetchDetails(context.Background(), &fakeGitHub{err: errors.New("404")}, "o", "r", 1, "llk-ai-consultant")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

var (
	fullConfig = ChatConfig{APIKey: "k", BaseURL: "http://chat", Model: "m"}
	fullIssue  = IssueInput{Title: "Bad pack", Body: "pack_tile returns zeros", Author: "bob", Labels: "bug"}
)

func TestGeneratePrompt(t *testing.T) {
	reply := "  " + strings.Repeat("Explain the unpacker configuration registers. ", 3) + "\n"
	chat := &fakeChat{reply: reply}

	p := GeneratePrompt(context.Background(), chat, fullConfig, fullIssue)
	assert.Equal(t, SourceGenerated, p.Source)
	assert.Equal(t, strings.TrimSpace(reply), p.Text)

	assert.Equal(t, "m", chat.req.Model)
	assert.InDelta(t, 0.3, chat.req.Temperature, 1e-6)
	assert.Equal(t, 1000, chat.req.MaxTokens)
	require.Len(t, chat.req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, chat.req.Messages[0].Role)
	assert.Contains(t, chat.req.Messages[1].Content, "Issue Title: Bad pack")
	assert.Contains(t, chat.req.Messages[1].Content, DefaultPrompt)
}

func TestGeneratePromptFallsBack(t *testing.T) {
	long := strings.Repeat("x", 60)
	tests := []struct {
		name   string
		client ChatClient
		cfg    ChatConfig
		issue  IssueInput
	}{
		{"no client", nil, fullConfig, fullIssue},
		{"missing model", &fakeChat{reply: long}, ChatConfig{APIKey: "k", BaseURL: "u"}, fullIssue},
		{"missing body", &fakeChat{reply: long}, fullConfig, IssueInput{Title: "t"}},
		{"short reply", &fakeChat{reply: "too short"}, fullConfig, fullIssue},
		{"short multibyte reply", &fakeChat{reply: strings.Repeat("寄存器", 7)}, fullConfig, fullIssue},
		{"api error", &fakeChat{err: errors.New("503")}, fullConfig, fullIssue},
		{"no choices", &emptyChat{}, fullConfig, fullIssue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := GeneratePrompt(context.Background(), tt.client, tt.cfg, tt.issue)
			assert.Equal(t, Prompt{Text: DefaultPrompt, Source: SourceDefault}, p)
		})
	}
}

type emptyChat struct{}

func (emptyChat) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, nil
}

func TestPromptEmit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated_prompt.txt")
	out := outputs{}
	require.NoError(t, Prompt{Text: "hello", Source: SourceGenerated}.Emit(out, path))

	assert.Equal(t, outputs{"ai_prompt": "hello", "prompt_source": "generated"}, out)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestLoadChatConfig(t *testing.T) {
	env := map[string]string{"TT_CHAT_API_KEY": "k", "TT_CHAT_BASE_URL": "u", "TT_CHAT_MODEL": "m"}
	cfg := LoadChatConfig(func(k string) string { return env[k] })
	assert.True(t, cfg.Complete())
	assert.False(t, ChatConfig{}.Complete())
}

func TestReadResponse(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadResponse(filepath.Join(dir, "ai_response.md"))
	assert.True(t, errors.Is(err, ErrMissingResponse))

	path := filepath.Join(dir, "ai_response.md")
	require.NoError(t, os.WriteFile(path, []byte("## Analysis"), 0o644))
	got, err := ReadResponse(path)
	require.NoError(t, err)
	assert.Equal(t, "## Analysis", got)
}

func TestPost(t *testing.T) {
	gh := &fakeGitHub{}
	_, err := Post(context.Background(), gh, "o", "r", 0, "body")
	assert.True(t, errors.Is(err, ErrMissingIssueNumber))

	cm, err := Post(context.Background(), gh, "o", "r", 598, "## Analysis")
	require.NoError(t, err)
	assert.Equal(t, "## Analysis", cm.Body)
	assert.Equal(t, []string{"## Analysis"}, gh.comments)
}

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Preview(&buf, "# Analysis\n\nUse `pack_tile`."))
	assert.Contains(t, buf.String(), "Analysis")
	assert.Contains(t, buf.String(), "pack_tile")
}
