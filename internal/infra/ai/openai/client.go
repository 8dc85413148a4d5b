package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"

	domain "github.com/bryanwahyu/insightlens/internal/domain/insights"
	"github.com/bryanwahyu/insightlens/internal/infra/ai/prompt"
)

const (
	defaultModel = "openai/gpt-4o-mini"
	temperature  = 0.3
	maxTokens    = 2048
)

// Client calls an OpenAI-compatible chat-completions endpoint (OpenRouter in
// production) and parses the structured analysis. One outbound call per
// invocation; no retries, no caching.
type Client struct {
	*openai.Client
	Model string
}

// NewClient builds a client. baseURL may be empty for api.openai.com; any
// OpenAI-compatible endpoint works.
func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model}
}

// Analyze sends the fixed instruction plus text and parses the model's JSON
// reply. Callers guarantee text is non-empty after trimming.
func (c *Client) Analyze(ctx context.Context, text string) (domain.Analysis, error) {
	model := c.Model
	if model == "" {
		model = defaultModel
	}
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(text)},
		},
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("%w: %v", domain.ErrAnalysisFailed, err)
	}
	if len(resp.Choices) == 0 {
		return domain.Analysis{}, fmt.Errorf("%w: empty completion", domain.ErrAnalysisFailed)
	}

	return parseAnalysis(resp.Choices[0].Message.Content)
}

// parseAnalysis applies the field-level defaulting policy: malformed JSON
// fails the whole call, individually missing keys fall back to defaults.
func parseAnalysis(raw string) (domain.Analysis, error) {
	var payload struct {
		Summary        *string  `json:"summary"`
		Sentiment      *string  `json:"sentiment"`
		SentimentScore *float64 `json:"sentiment_score"`
		Themes         []string `json:"themes"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return domain.Analysis{}, fmt.Errorf("%w: non-JSON model output: %v", domain.ErrAnalysisFailed, err)
	}

	a := domain.Analysis{Sentiment: domain.SentimentNeutral, Themes: []string{}}
	if payload.Summary != nil {
		a.Summary = *payload.Summary
	}
	if payload.Sentiment != nil {
		a.Sentiment = domain.NormalizeSentiment(*payload.Sentiment)
	}
	if payload.SentimentScore != nil {
		a.SentimentScore = *payload.SentimentScore
	}
	if payload.Themes != nil {
		a.Themes = payload.Themes
	}
	return a, nil
}
