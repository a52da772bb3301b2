// Package sample provides the built-in set of pre-analyzed announcement articles
// served when live feeds are disabled.
package sample

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/0x0BSoD/saaHub/internal/model"
)

//go:embed articles.yaml
var articlesYAML []byte

// Articles decodes the embedded sample set. Every call returns a fresh copy.
func Articles() ([]model.Article, error) {
	var articles []model.Article
	if err := yaml.Unmarshal(articlesYAML, &articles); err != nil {
		return nil, fmt.Errorf("decode sample articles: %w", err)
	}
	return articles, nil
}

// Loader serves the sample set after an optional simulated network delay.
type Loader struct {
	Delay time.Duration
}

func (l Loader) Articles(ctx context.Context) ([]model.Article, error) {
	if l.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.Delay):
		}
	}
	return Articles()
}
