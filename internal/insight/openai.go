package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gopenai "github.com/sashabaranov/go-openai"

	"github.com/slidewise/chartgen/internal/config"
)

const systemPrompt = "You are a business analyst. Given a small labeled dataset, " +
	"write one or two sentences of plain-language insight for a presentation slide. " +
	"No markdown, no bullet points, no preamble."

// OpenAIProvider implements Provider using OpenAI chat completions.
type OpenAIProvider struct {
	client    *gopenai.Client
	model     string
	maxTokens int
}

// NewOpenAIProvider creates a provider backed by the OpenAI API.
func NewOpenAIProvider(cfg config.OpenAIConfig, maxTokens int) *OpenAIProvider {
	return &OpenAIProvider{
		client:    gopenai.NewClient(cfg.APIKey),
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, gopenai.ChatCompletionRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: 0.4,
		Messages: []gopenai.ChatCompletionMessage{
			{Role: gopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: gopenai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("%w: %v", ErrInferenceTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrInvalidResponse)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", ErrInvalidResponse)
	}
	return text, nil
}

func buildPrompt(req Request) string {
	var b strings.Builder
	if req.AnalyticsType != "" {
		fmt.Fprintf(&b, "Scenario: %s.\n", strings.ReplaceAll(req.AnalyticsType, "_", " "))
	}
	if req.Title != "" {
		fmt.Fprintf(&b, "Chart title: %s.\n", req.Title)
	}
	if req.Audience != "" {
		fmt.Fprintf(&b, "Audience: %s.\n", req.Audience)
	}
	if req.Narrative != "" {
		fmt.Fprintf(&b, "Narrative angle: %s.\n", req.Narrative)
	}
	b.WriteString("Data:\n")
	for _, p := range req.Points {
		fmt.Fprintf(&b, "- %s: %g\n", p.Label, p.Value)
	}
	return b.String()
}

var _ Provider = (*OpenAIProvider)(nil)
