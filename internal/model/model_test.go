package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDomain(t *testing.T) {
	d, err := ParseDomain("Deployment & Operations")
	require.NoError(t, err)
	assert.Equal(t, DomainOperations, d)

	_, err = ParseDomain("secure architectures")
	assert.Error(t, err)
}

func TestParseRelevance(t *testing.T) {
	for _, s := range []string{"Low", "Medium", "High"} {
		r, err := ParseRelevance(s)
		require.NoError(t, err)
		assert.Equal(t, Relevance(s), r)
	}

	_, err := ParseRelevance("Critical")
	assert.Error(t, err)
}

func TestArticleApply(t *testing.T) {
	a := Article{ID: "1", Title: "t", Relevance: RelevanceLow, IsBookmarked: true}

	got := a.Apply(Analysis{
		Relevance: RelevanceHigh,
		Domains:   []Domain{DomainSecure},
		Services:  []string{"IAM"},
		ExamNote:  "note",
	})

	assert.Equal(t, RelevanceHigh, got.Relevance)
	assert.Equal(t, []Domain{DomainSecure}, got.Domains)
	assert.Equal(t, []string{"IAM"}, got.Services)
	assert.Equal(t, "note", got.ExamNote)
	assert.True(t, got.IsBookmarked)
	assert.Equal(t, RelevanceLow, a.Relevance, "receiver must stay unchanged")
}
