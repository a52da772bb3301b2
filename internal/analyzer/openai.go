package analyzer

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/0x0BSoD/saaHub/internal/model"
)

type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider backed by any OpenAI-compatible API.
// Set baseURL to a non-empty string to point at a local server (LM Studio,
// llama.cpp, Ollama's /v1 endpoint, etc.); leave empty for api.openai.com.
func NewOpenAIProvider(baseURL, apiKey, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *OpenAIProvider) Analyze(ctx context.Context, title, summary string) (model.Analysis, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(title, summary)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "saa_exam_analysis",
				Schema: responseSchema(),
				Strict: true,
			},
		},
	})
	if err != nil {
		return model.Analysis{}, fmt.Errorf("%w: chat completion: %v", ErrAnalysis, err)
	}

	if len(resp.Choices) == 0 {
		return model.Analysis{}, fmt.Errorf("%w: empty response from model %q", ErrAnalysis, o.model)
	}

	return Decode(resp.Choices[0].Message.Content)
}
