// Package store holds the process-wide ordered article set read by the filter engine.
package store

import (
	"context"
	"log"
	"sync"

	"github.com/0x0BSoD/saaHub/internal/filter"
	"github.com/0x0BSoD/saaHub/internal/model"
)

type ArticleLoader interface {
	Articles(ctx context.Context) ([]model.Article, error)
}

// Store keeps articles in insertion order, keyed by ID.
// All public methods are safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	articles []model.Article
	index    map[string]int
	loading  bool
}

func New() *Store {
	return &Store{index: make(map[string]int)}
}

// Merge appends articles with unseen IDs and replaces the ones already
// present in place. It returns how many articles were new.
func (s *Store) Merge(articles ...model.Article) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, a := range articles {
		if i, ok := s.index[a.ID]; ok {
			s.articles[i] = a
			continue
		}
		s.index[a.ID] = len(s.articles)
		s.articles = append(s.articles, a)
		added++
	}
	return added
}

func (s *Store) All() []model.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles)
}

func (s *Store) Get(id string) (model.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Article{}, false
	}
	return s.articles[i], true
}

func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.index[id]
	return ok
}

func (s *Store) Filter(sel filter.Selection) []model.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return filter.Filter(s.articles, sel)
}

// ToggleBookmark flips the bookmark flag of the article with the given ID and
// returns the updated article. Unknown IDs leave the store untouched.
func (s *Store) ToggleBookmark(id string) (model.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Article{}, false
	}
	s.articles = filter.ToggleBookmark(s.articles, id)
	return s.articles[i], true
}

// Apply stores an analyzer result for the article with the given ID.
// Results arriving for an article that is gone are dropped.
func (s *Store) Apply(id string, an model.Analysis) (model.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Article{}, false
	}
	s.articles[i] = s.articles[i].Apply(an)
	return s.articles[i], true
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Load fills the store from loader. A failing loader leaves the store as it
// was; the loading flag is cleared either way.
func (s *Store) Load(ctx context.Context, loader ArticleLoader) error {
	s.setLoading(true)
	defer s.setLoading(false)

	articles, err := loader.Articles(ctx)
	if err != nil {
		log.Printf("[ERROR] failed to load articles: %v", err)
		return err
	}

	added := s.Merge(articles...)
	log.Printf("[INFO] loaded %d articles (%d new)", len(articles), added)
	return nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
