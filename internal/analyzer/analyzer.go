// Package analyzer tags announcement articles with SAA-C03 exam metadata using an LLM.
//
// Providers return a tagged result (an Analysis or an error). Analyzer.Analyze is the
// single place where a failed analysis is replaced by the fallback judgment, so callers
// never block on, or fail because of, the model.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/0x0BSoD/saaHub/internal/model"
)

var ErrAnalysis = errors.New("exam analysis failed")

const (
	FallbackNote = "Could not generate AI summary."
	DefaultNote  = "Informational update regarding general AWS services."
)

const SystemPrompt = `You are an AWS Solutions Architect tutor.
Given an AWS article or announcement, explain it specifically for the AWS Certified Solutions Architect – Associate (SAA-C03) exam.

Respond in this exact format for the exam note:
Why this matters for SAA-C03:
- Architecture concept: [Explanation]
- Key AWS services involved: [List]
- Design trade-off: [Description]
- Common exam trap: [Specific warning]

Keep the explanation short, factual, and exam-focused. Do not add opinions or extra text.`

type Provider interface {
	Analyze(ctx context.Context, title, summary string) (model.Analysis, error)
}

type Analyzer struct {
	provider Provider
	timeout  time.Duration
}

// New wraps provider with a per-call timeout. A nil provider yields the
// fallback for every article.
func New(provider Provider, timeout time.Duration) *Analyzer {
	return &Analyzer{provider: provider, timeout: timeout}
}

// Fallback is the judgment used whenever the provider cannot produce one.
func Fallback() model.Analysis {
	return model.Analysis{
		Relevance: model.RelevanceLow,
		Domains:   []model.Domain{},
		Services:  []string{},
		ExamNote:  FallbackNote,
	}
}

// Analyze never fails: transport, timeout and decode errors degrade to Fallback.
func (a *Analyzer) Analyze(ctx context.Context, title, summary string) model.Analysis {
	if a == nil || a.provider == nil {
		return Fallback()
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	result, err := a.provider.Analyze(ctx, title, summary)
	if err != nil {
		log.Printf("[ERROR] exam analysis for %q: %v", title, err)
		return Fallback()
	}

	return result
}

func userPrompt(title, summary string) string {
	return fmt.Sprintf("Analyze this AWS update:\nTitle: %s\nSummary: %s", title, summary)
}

type rawAnalysis struct {
	Relevance string   `json:"relevance"`
	Domains   []string `json:"domains"`
	ExamNote  string   `json:"examNote"`
	Services  []string `json:"services"`
}

// Decode parses a model response into an Analysis. Missing fields take their
// defaults, unknown domains are dropped and both lists are de-duplicated.
func Decode(text string) (model.Analysis, error) {
	text = stripCodeFence(text)
	if text == "" {
		return model.Analysis{}, fmt.Errorf("%w: empty response", ErrAnalysis)
	}

	if !strings.HasPrefix(text, "{") {
		return model.Analysis{}, fmt.Errorf("%w: response is not a JSON object", ErrAnalysis)
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return model.Analysis{}, fmt.Errorf("%w: decode response: %v", ErrAnalysis, err)
	}

	relevance, err := model.ParseRelevance(raw.Relevance)
	if err != nil {
		relevance = model.RelevanceLow
	}

	domains := lo.FilterMap(raw.Domains, func(s string, _ int) (model.Domain, bool) {
		d, err := model.ParseDomain(strings.TrimSpace(s))
		return d, err == nil
	})

	services := lo.Compact(lo.Map(raw.Services, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))

	note := strings.TrimSpace(raw.ExamNote)
	if note == "" {
		note = DefaultNote
	}

	return model.Analysis{
		Relevance: relevance,
		Domains:   lo.Uniq(domains),
		Services:  lo.Uniq(services),
		ExamNote:  note,
	}, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// Static is a Provider that always answers with the same result.
type Static struct {
	Result model.Analysis
	Err    error
}

func (s Static) Analyze(context.Context, string, string) (model.Analysis, error) {
	return s.Result, s.Err
}
