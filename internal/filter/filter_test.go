package filter_test

import (
	"net/url"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/saaHub/internal/filter"
	"github.com/0x0BSoD/saaHub/internal/model"
	"github.com/0x0BSoD/saaHub/internal/sample"
)

func sampleArticles(t *testing.T) []model.Article {
	t.Helper()
	articles, err := sample.Articles()
	require.NoError(t, err)
	return articles
}

func ids(articles []model.Article) []string {
	return lo.Map(articles, func(a model.Article, _ int) string { return a.ID })
}

func TestFilterEmptySelectionIsIdentity(t *testing.T) {
	articles := sampleArticles(t)

	assert.Equal(t, articles, filter.Filter(articles, filter.Selection{}))

	cleared := filter.Selection{Domains: []model.Domain{}, Services: []string{}, Sources: []string{}}
	assert.Equal(t, articles, filter.Filter(articles, cleared))
}

func TestFilterDomainIntersection(t *testing.T) {
	articles := sampleArticles(t)

	for _, d := range model.Domains() {
		sel := filter.Selection{Domains: []model.Domain{d}}
		got := filter.Filter(articles, sel)

		for _, a := range articles {
			want := lo.Contains(a.Domains, d)
			assert.Equal(t, want, lo.Contains(ids(got), a.ID), "article %s domain %s", a.ID, d)
		}
	}
}

func TestFilterCostOptimized(t *testing.T) {
	sel := filter.Selection{Domains: []model.Domain{model.DomainCostOptimized}}

	got := filter.Filter(sampleArticles(t), sel)

	assert.Equal(t, []string{"5"}, ids(got))
}

func TestFilterSearch(t *testing.T) {
	articles := sampleArticles(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "service name, lower case", query: "s3", want: []string{"2"}},
		{name: "title, mixed case", query: "DYNAMODB", want: []string{"5"}},
		{name: "exam note is not searched", query: "privilege", want: nil},
		{name: "summary", query: "permissions boundaries", want: []string{"6"}},
		{name: "service substring", query: "route", want: []string{"4"}},
		{name: "no match", query: "kubernetes", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Filter(articles, filter.Selection{SearchQuery: tt.query})
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterBookmarksOnly(t *testing.T) {
	got := filter.Filter(sampleArticles(t), filter.Selection{BookmarksOnly: true})

	assert.Equal(t, []string{"2"}, ids(got))
}

func TestFilterServicesAndSources(t *testing.T) {
	articles := sampleArticles(t)

	got := filter.Filter(articles, filter.Selection{Services: []string{"IAM", "EBS"}})
	assert.Equal(t, []string{"3", "6"}, ids(got))

	got = filter.Filter(articles, filter.Selection{Sources: []string{"Architecture Blog"}})
	assert.Equal(t, []string{"3", "4"}, ids(got))

	got = filter.Filter(articles, filter.Selection{
		Sources:  []string{"Architecture Blog"},
		Services: []string{"IAM"},
	})
	assert.Empty(t, got)
}

func TestFilterConjunctionPreservesOrder(t *testing.T) {
	sel := filter.Selection{
		SearchQuery: "a",
		Domains:     []model.Domain{model.DomainHighPerforming, model.DomainSecure},
		Sources:     []string{"Security Blog", "Architecture Blog", "What's New"},
	}

	got := filter.Filter(sampleArticles(t), sel)

	assert.Equal(t, []string{"1", "3", "4", "6"}, ids(got))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	articles := sampleArticles(t)
	before := sampleArticles(t)

	_ = filter.Filter(articles, filter.Selection{SearchQuery: "s3", BookmarksOnly: true})

	assert.Equal(t, before, articles)
}

func TestToggleBookmark(t *testing.T) {
	articles := sampleArticles(t)

	once := filter.ToggleBookmark(articles, "3")
	require.Len(t, once, len(articles))
	assert.True(t, once[2].IsBookmarked)
	assert.False(t, articles[2].IsBookmarked, "input must not change")
	for i := range articles {
		if articles[i].ID != "3" {
			assert.Equal(t, articles[i], once[i])
		}
	}

	twice := filter.ToggleBookmark(once, "3")
	assert.Equal(t, articles, twice)
}

func TestToggleBookmarkUnknownID(t *testing.T) {
	articles := sampleArticles(t)

	assert.Equal(t, articles, filter.ToggleBookmark(articles, "does-not-exist"))
}

func TestSelectionToggles(t *testing.T) {
	var sel filter.Selection

	sel = sel.ToggleDomain(model.DomainSecure).ToggleDomain(model.DomainResilient)
	assert.Equal(t, []model.Domain{model.DomainSecure, model.DomainResilient}, sel.Domains)

	prev := sel
	sel = sel.ToggleDomain(model.DomainSecure)
	assert.Equal(t, []model.Domain{model.DomainResilient}, sel.Domains)
	assert.Equal(t, []model.Domain{model.DomainSecure, model.DomainResilient}, prev.Domains)

	sel = sel.ToggleService("S3").ToggleSource("Security Blog").WithSearch("vpc").WithBookmarksOnly(true)
	assert.False(t, sel.IsEmpty())

	dash := sel.Dashboard()
	assert.Empty(t, dash.Domains)
	assert.Empty(t, dash.Services)
	assert.False(t, dash.BookmarksOnly)
	assert.Equal(t, "vpc", dash.SearchQuery)
	assert.Equal(t, []string{"Security Blog"}, dash.Sources)

	assert.True(t, sel.Reset().IsEmpty())
}

func TestParseQuery(t *testing.T) {
	v := url.Values{
		"q":          {"Lambda"},
		"domain":     {"Secure Architectures", "Secure Architectures", ""},
		"service":    {"S3", " IAM "},
		"source":     {"What's New"},
		"bookmarked": {"true"},
	}

	sel, err := filter.ParseQuery(v)
	require.NoError(t, err)

	assert.Equal(t, filter.Selection{
		SearchQuery:   "Lambda",
		Domains:       []model.Domain{model.DomainSecure},
		Services:      []string{"S3", "IAM"},
		Sources:       []string{"What's New"},
		BookmarksOnly: true,
	}, sel)
}

func TestParseQueryKeepsRawSearch(t *testing.T) {
	sel, err := filter.ParseQuery(url.Values{"q": {" "}})
	require.NoError(t, err)
	assert.Equal(t, " ", sel.SearchQuery)

	articles := sampleArticles(t)
	got := filter.Filter(articles, sel)
	assert.Len(t, got, len(articles), "every sample title contains a space")

	sel, err = filter.ParseQuery(url.Values{"q": {"   "}})
	require.NoError(t, err)
	assert.Empty(t, filter.Filter(articles, sel))
}

func TestParseQueryErrors(t *testing.T) {
	_, err := filter.ParseQuery(url.Values{"domain": {"Networking"}})
	assert.Error(t, err)

	_, err = filter.ParseQuery(url.Values{"bookmarked": {"maybe"}})
	assert.Error(t, err)
}

func TestParseQueryEmpty(t *testing.T) {
	sel, err := filter.ParseQuery(url.Values{})
	require.NoError(t, err)
	assert.True(t, sel.IsEmpty())
}
