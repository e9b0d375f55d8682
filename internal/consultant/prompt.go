package consultant

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/jinwoo1225/gh-triage/internal/actions"
)

const DefaultPrompt = "Given the following issue description do the following: 1. Determine and list which LLK APIs are relevant; 2. Within those APIs, list the Tensix instructions that are called; 3. Within those APIs, list the Tensix configuration registers that are programmed."

const (
	SourceGenerated = "generated"
	SourceDefault   = "default"

	minPromptLength = 50
	temperature     = 0.3
	maxTokens       = 1000
)

const systemPrompt = "You are an expert prompt engineer specializing in Tenstorrent LLK and Tensix analysis. Create specific, technical prompts that will yield detailed, actionable insights."

const metaPromptFormat = `You are an expert in Tenstorrent's Low Level Kernel (LLK) APIs and Tensix processor architecture.

The repo you are working on is https://github.com/tenstorrent/tt-llk.
You also know about all the information in the tt-metal repo https://github.com/tenstorrent/tt-metal, and the Tensix ISA repo https://github.com/tenstorrent/tt-isa-documentation.

Given the following GitHub issue, create a specific, detailed prompt that would help analyze the issue in terms of:
1. Relevant LLK APIs
2. Tensix instructions that are called
3. Tensix configuration registers that are programmed
4. Tensix data formats that are relevant to the issue

The prompt should be tailored to the specific issue content and ask for precise, technical details.

Issue Title: %s
Issue Body: %s
Issue Author: %s
Issue Labels: %s

Generate a prompt that is more specific and insightful than this default prompt:
"%s"

The prompt should explicitly tell the LLK to not hallucinate any information, and only answer what it knows.

Return ONLY the generated prompt text, nothing else.`

// ChatClient is the part of the OpenAI-compatible API the prompt step uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type ChatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// LoadChatConfig reads TT_CHAT_API_KEY, TT_CHAT_BASE_URL and TT_CHAT_MODEL.
func LoadChatConfig(getenv func(string) string) ChatConfig {
	return ChatConfig{
		APIKey:  getenv("TT_CHAT_API_KEY"),
		BaseURL: getenv("TT_CHAT_BASE_URL"),
		Model:   getenv("TT_CHAT_MODEL"),
	}
}

func (c ChatConfig) Complete() bool {
	return c.APIKey != "" && c.BaseURL != "" && c.Model != ""
}

func NewChatClient(c ChatConfig) *openai.Client {
	conf := openai.DefaultConfig(c.APIKey)
	conf.BaseURL = c.BaseURL
	return openai.NewClientWithConfig(conf)
}

// IssueInput is the issue as passed between workflow steps.
type IssueInput struct {
	Title  string
	Body   string
	Author string
	Labels string
}

func LoadIssueInput(getenv func(string) string) IssueInput {
	return IssueInput{
		Title:  getenv("ISSUE_TITLE"),
		Body:   getenv("ISSUE_BODY"),
		Author: getenv("ISSUE_AUTHOR"),
		Labels: getenv("ISSUE_LABELS"),
	}
}

type Prompt struct {
	Text   string
	Source string
}

var defaultPrompt = Prompt{Text: DefaultPrompt, Source: SourceDefault}

// GeneratePrompt asks the chat model for an analysis prompt tailored to the
// issue. It never fails: whenever a tailored prompt is unavailable the
// default prompt is returned.
func GeneratePrompt(ctx context.Context, client ChatClient, cfg ChatConfig, issue IssueInput) Prompt {
	if client == nil || !cfg.Complete() {
		logger.Warn("⚠️  TT-Chat API not configured, using default prompt")
		return defaultPrompt
	}
	if issue.Title == "" || issue.Body == "" {
		logger.Warn("⚠️  Issue details missing, using default prompt")
		return defaultPrompt
	}

	logger.WithField("model", cfg.Model).Info("🧠 Asking TT-Chat to generate a specialized prompt...")
	text, err := complete(ctx, client, cfg.Model, issue)
	if err != nil {
		logger.WithError(err).Error("❌ Prompt generation failed, falling back to default prompt")
		return defaultPrompt
	}
	if utf8.RuneCountInString(text) < minPromptLength {
		logger.Warn("⚠️  Generated prompt too short, using default prompt")
		return defaultPrompt
	}
	logger.Infof("✅ Generated specialized prompt (%d characters)", utf8.RuneCountInString(text))
	return Prompt{Text: text, Source: SourceGenerated}
}

func complete(ctx context.Context, client ChatClient, model string, issue IssueInput) (string, error) {
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: MetaPrompt(issue)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func MetaPrompt(issue IssueInput) string {
	return fmt.Sprintf(metaPromptFormat, issue.Title, issue.Body, issue.Author, issue.Labels, DefaultPrompt)
}

// Emit sets the ai_prompt and prompt_source outputs and writes the prompt to path.
func (p Prompt) Emit(out actions.Outputs, path string) error {
	out.SetOutput("ai_prompt", p.Text)
	out.SetOutput("prompt_source", p.Source)
	return errors.Wrapf(os.WriteFile(path, []byte(p.Text), 0o644), "writing %s", path)
}
