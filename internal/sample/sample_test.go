package sample

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/saaHub/internal/model"
)

func TestArticles(t *testing.T) {
	articles, err := Articles()
	require.NoError(t, err)
	require.Len(t, articles, 6)

	ids := map[string]bool{}
	for _, a := range articles {
		assert.False(t, ids[a.ID], "duplicate id %s", a.ID)
		ids[a.ID] = true

		for _, d := range a.Domains {
			_, err := model.ParseDomain(string(d))
			assert.NoError(t, err)
		}
		_, err := model.ParseRelevance(string(a.Relevance))
		assert.NoError(t, err)
	}

	assert.Equal(t, "What's New", articles[0].Source)
	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), articles[0].PubDate)

	var bookmarked []string
	for _, a := range articles {
		if a.IsBookmarked {
			bookmarked = append(bookmarked, a.ID)
		}
	}
	assert.Equal(t, []string{"2"}, bookmarked)
}

func TestArticlesReturnsFreshCopies(t *testing.T) {
	first, err := Articles()
	require.NoError(t, err)
	first[0].Title = "changed"

	second, err := Articles()
	require.NoError(t, err)
	assert.NotEqual(t, "changed", second[0].Title)
}

func TestLoaderHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Loader{Delay: time.Minute}.Articles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
