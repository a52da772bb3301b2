package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/saaHub/internal/filter"
	"github.com/0x0BSoD/saaHub/internal/model"
	"github.com/0x0BSoD/saaHub/internal/sample"
	"github.com/0x0BSoD/saaHub/internal/store"
)

type loaderFunc func(ctx context.Context) ([]model.Article, error)

func (f loaderFunc) Articles(ctx context.Context) ([]model.Article, error) { return f(ctx) }

func TestMergeAppendsAndReplaces(t *testing.T) {
	s := store.New()

	added := s.Merge(
		model.Article{ID: "a", Title: "A"},
		model.Article{ID: "b", Title: "B"},
	)
	assert.Equal(t, 2, added)

	added = s.Merge(
		model.Article{ID: "b", Title: "B2"},
		model.Article{ID: "c", Title: "C"},
	)
	assert.Equal(t, 1, added)

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Title)
	assert.Equal(t, "B2", all[1].Title)
	assert.Equal(t, "C", all[2].Title)
}

func TestAllReturnsCopy(t *testing.T) {
	s := store.New()
	s.Merge(model.Article{ID: "a", Title: "A"})

	all := s.All()
	all[0].Title = "changed"

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "A", got.Title)
}

func TestToggleBookmark(t *testing.T) {
	s := store.New()
	s.Merge(model.Article{ID: "a"}, model.Article{ID: "b"})

	got, ok := s.ToggleBookmark("b")
	require.True(t, ok)
	assert.True(t, got.IsBookmarked)

	_, ok = s.ToggleBookmark("zzz")
	assert.False(t, ok)

	marked := s.Filter(filter.Selection{BookmarksOnly: true})
	require.Len(t, marked, 1)
	assert.Equal(t, "b", marked[0].ID)
}

func TestApply(t *testing.T) {
	s := store.New()
	s.Merge(model.Article{ID: "a", Relevance: model.RelevanceLow})

	an := model.Analysis{Relevance: model.RelevanceHigh, Domains: []model.Domain{model.DomainSecure}, ExamNote: "n"}
	got, ok := s.Apply("a", an)
	require.True(t, ok)
	assert.Equal(t, model.RelevanceHigh, got.Relevance)

	again, _ := s.Apply("a", an)
	assert.Equal(t, got, again)

	_, ok = s.Apply("gone", an)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestLoad(t *testing.T) {
	s := store.New()

	require.NoError(t, s.Load(context.Background(), sample.Loader{}))
	assert.Equal(t, 6, s.Len())
	assert.False(t, s.Loading())

	got := s.Filter(filter.Selection{SearchQuery: "s3"})
	require.NotEmpty(t, got)
	assert.Equal(t, "2", got[0].ID)
}

func TestLoadFailureLeavesStoreEmpty(t *testing.T) {
	s := store.New()
	boom := errors.New("boom")

	var loadingDuringCall bool
	err := s.Load(context.Background(), loaderFunc(func(context.Context) ([]model.Article, error) {
		loadingDuringCall = s.Loading()
		return nil, boom
	}))

	assert.ErrorIs(t, err, boom)
	assert.True(t, loadingDuringCall)
	assert.False(t, s.Loading())
	assert.Zero(t, s.Len())
}

func TestConcurrentAccess(t *testing.T) {
	s := store.New()
	articles, err := sample.Articles()
	require.NoError(t, err)
	s.Merge(articles...)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.ToggleBookmark("1")
		}()
		go func() {
			defer wg.Done()
			_ = s.Filter(filter.Selection{Domains: []model.Domain{model.DomainSecure}})
		}()
	}
	wg.Wait()

	got, ok := s.Get("1")
	require.True(t, ok)
	assert.False(t, got.IsBookmarked, "an even number of toggles restores the flag")
}
