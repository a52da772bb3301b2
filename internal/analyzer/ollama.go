package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ollama/ollama/api"

	"github.com/0x0BSoD/saaHub/internal/model"
)

type OllamaProvider struct {
	client *api.Client
	model  string
	format json.RawMessage
	mu     sync.Mutex
}

func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	format, err := json.Marshal(responseSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal response schema: %w", err)
	}

	c := api.NewClient(&url.URL{
		Scheme: "http",
		Host:   baseURL,
		Path:   "/",
	}, &http.Client{})

	return &OllamaProvider{
		client: c,
		model:  model,
		format: format,
	}, nil
}

func (o *OllamaProvider) Analyze(ctx context.Context, title, summary string) (model.Analysis, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	stream := false
	req := &api.GenerateRequest{
		Model:  o.model,
		System: SystemPrompt,
		Prompt: userPrompt(title, summary),
		Format: o.format,
		Stream: &stream,
	}

	var responseFlow []string
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		responseFlow = append(responseFlow, resp.Response)
		return nil
	})
	if err != nil {
		return model.Analysis{}, fmt.Errorf("%w: generate: %v", ErrAnalysis, err)
	}

	return Decode(strings.Join(responseFlow, ""))
}
