package fetcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/0x0BSoD/saaHub/internal/model"
	"github.com/0x0BSoD/saaHub/internal/source"
)

type ArticleStore interface {
	Has(id string) bool
	Merge(articles ...model.Article) int
}

type ArticleStorage interface {
	Upsert(ctx context.Context, articles ...model.Article) error
}

type SourceProvider interface {
	Sources(ctx context.Context) ([]model.Source, error)
}

type Source interface {
	ID() int64
	Name() string
	Fetch(ctx context.Context) ([]model.Item, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, title, summary string) model.Analysis
}

type Reporter interface {
	Notify(msg string)
}

type Fetcher struct {
	store    ArticleStore
	storage  ArticleStorage
	sources  SourceProvider
	analyzer Analyzer
	reporter Reporter

	fetchInterval  time.Duration
	filterKeywords []string

	newSource func(model.Source) Source
}

func New(
	store ArticleStore,
	storage ArticleStorage,
	sources SourceProvider,
	analyzer Analyzer,
	reporter Reporter,
	fetchInterval time.Duration,
	filterKeywords []string,
) *Fetcher {
	return &Fetcher{
		store:          store,
		storage:        storage,
		sources:        sources,
		analyzer:       analyzer,
		reporter:       reporter,
		fetchInterval:  fetchInterval,
		filterKeywords: lo.Map(filterKeywords, func(k string, _ int) string { return strings.ToLower(k) }),
		newSource: func(m model.Source) Source {
			return source.NewRSSSourceFromModel(m)
		},
	}
}

// Start fetches once, then on every tick until ctx is done. A failed pass is
// logged and reported; the next tick tries again.
func (f *Fetcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(f.fetchInterval)
	defer ticker.Stop()

	f.fetchOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f.fetchOnce(ctx)
		}
	}
}

func (f *Fetcher) fetchOnce(ctx context.Context) {
	if err := f.Fetch(ctx); err != nil && ctx.Err() == nil {
		log.Printf("[ERROR] failed to fetch sources: %v", err)
		f.report(err.Error())
	}
}

func (f *Fetcher) Fetch(ctx context.Context) error {
	sources, err := f.sources.Sources(ctx)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	var wg sync.WaitGroup

	for _, src := range sources {
		wg.Add(1)

		go func(source Source) {
			defer wg.Done()

			items, err := source.Fetch(ctx)
			if err != nil {
				log.Printf("[ERROR] failed to fetch items for source %q: %v", source.Name(), err)
				f.report(fmt.Sprintf("fetch %s: %v", source.Name(), err))
				return
			}
			if err := f.processItems(ctx, source, items); err != nil {
				log.Printf("[ERROR] failed to process items for source %q: %v", source.Name(), err)
				f.report(fmt.Sprintf("store %s: %v", source.Name(), err))
				return
			}
		}(f.newSource(src))
	}
	wg.Wait()

	return nil
}

func (f *Fetcher) report(msg string) {
	if f.reporter != nil {
		f.reporter.Notify(msg)
	}
}

func (f *Fetcher) itemMustSkipped(item model.Item) bool {
	categories := lo.Uniq(lo.Map(item.Categories, func(c string, _ int) string { return strings.ToLower(c) }))
	title := strings.ToLower(item.Title)

	for _, keyword := range f.filterKeywords {
		if lo.Contains(categories, keyword) || strings.Contains(title, keyword) {
			return true
		}
	}

	return false
}

func (f *Fetcher) processItems(ctx context.Context, source Source, items []model.Item) error {
	var fresh []model.Article

	for _, item := range items {
		if f.itemMustSkipped(item) {
			continue
		}

		id := ArticleID(item)
		if f.store.Has(id) || lo.ContainsBy(fresh, func(a model.Article) bool { return a.ID == id }) {
			continue
		}

		pubDate := item.Date
		if pubDate.IsZero() {
			pubDate = time.Now()
		}

		article := model.Article{
			ID:      id,
			Title:   item.Title,
			Summary: item.Summary,
			Link:    item.Link,
			PubDate: pubDate.UTC(),
			Source:  source.Name(),
		}
		fresh = append(fresh, article.Apply(f.analyzer.Analyze(ctx, item.Title, item.Summary)))
	}

	if len(fresh) == 0 {
		return nil
	}

	added := f.store.Merge(fresh...)
	log.Printf("[INFO] source %q: %d new articles", source.Name(), added)

	if f.storage != nil {
		return f.storage.Upsert(ctx, fresh...)
	}
	return nil
}

// ArticleID derives a stable ID from the item link so that refetching the
// same announcement never creates a duplicate.
func ArticleID(item model.Item) string {
	key := item.Link
	if key == "" {
		key = item.SourceName + "|" + item.Title
	}
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", h[:16])
}
