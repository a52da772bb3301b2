// Package filter narrows the article set down to what a reader asked to see and
// implements the selection toggles that parameterize it.
package filter

import (
	"strings"

	"github.com/samber/lo"

	"github.com/0x0BSoD/saaHub/internal/model"
)

// Selection is the reader's current set of filter facets. The zero value
// constrains nothing. An empty facet means "no constraint", never "match nothing".
type Selection struct {
	SearchQuery   string         `json:"searchQuery"`
	Domains       []model.Domain `json:"selectedDomains"`
	Services      []string       `json:"selectedServices"`
	Sources       []string       `json:"selectedSources"`
	BookmarksOnly bool           `json:"showBookmarksOnly"`
}

// Filter returns the articles passing every predicate of sel, in input order.
func Filter(articles []model.Article, sel Selection) []model.Article {
	query := strings.ToLower(sel.SearchQuery)

	return lo.Filter(articles, func(a model.Article, _ int) bool {
		return matchesSearch(a, query) &&
			matchesDomains(a, sel.Domains) &&
			matchesServices(a, sel.Services) &&
			matchesSources(a, sel.Sources) &&
			matchesBookmarks(a, sel.BookmarksOnly)
	})
}

func matchesSearch(a model.Article, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(a.Title), query) ||
		strings.Contains(strings.ToLower(a.Summary), query) {
		return true
	}
	return lo.ContainsBy(a.Services, func(s string) bool {
		return strings.Contains(strings.ToLower(s), query)
	})
}

func matchesDomains(a model.Article, domains []model.Domain) bool {
	if len(domains) == 0 {
		return true
	}
	return lo.Some(a.Domains, domains)
}

func matchesServices(a model.Article, services []string) bool {
	if len(services) == 0 {
		return true
	}
	return lo.Some(a.Services, services)
}

func matchesSources(a model.Article, sources []string) bool {
	if len(sources) == 0 {
		return true
	}
	return lo.Contains(sources, a.Source)
}

func matchesBookmarks(a model.Article, bookmarksOnly bool) bool {
	if !bookmarksOnly {
		return true
	}
	return a.IsBookmarked
}

// ToggleBookmark returns a copy of articles with the bookmark flag of the
// article matching id flipped. An unknown id yields an unchanged copy.
func ToggleBookmark(articles []model.Article, id string) []model.Article {
	return lo.Map(articles, func(a model.Article, _ int) model.Article {
		if a.ID == id {
			a.IsBookmarked = !a.IsBookmarked
		}
		return a
	})
}
