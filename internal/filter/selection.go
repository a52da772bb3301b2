package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/0x0BSoD/saaHub/internal/model"
)

func (s Selection) ToggleDomain(d model.Domain) Selection {
	s.Domains = toggle(s.Domains, d)
	return s
}

func (s Selection) ToggleService(service string) Selection {
	s.Services = toggle(s.Services, service)
	return s
}

func (s Selection) ToggleSource(source string) Selection {
	s.Sources = toggle(s.Sources, source)
	return s
}

func (s Selection) WithSearch(query string) Selection {
	s.SearchQuery = query
	return s
}

func (s Selection) WithBookmarksOnly(on bool) Selection {
	s.BookmarksOnly = on
	return s
}

// Dashboard returns to the main feed: bookmarks toggle, domains and services
// are cleared while the search text and sources are kept.
func (s Selection) Dashboard() Selection {
	s.BookmarksOnly = false
	s.Domains = nil
	s.Services = nil
	return s
}

// Reset clears every facet.
func (s Selection) Reset() Selection {
	return Selection{}
}

// IsEmpty reports whether the selection constrains nothing.
func (s Selection) IsEmpty() bool {
	return s.SearchQuery == "" &&
		len(s.Domains) == 0 &&
		len(s.Services) == 0 &&
		len(s.Sources) == 0 &&
		!s.BookmarksOnly
}

// toggle never mutates in; the result always has a fresh backing array.
func toggle[T comparable](in []T, v T) []T {
	if lo.Contains(in, v) {
		return lo.Without(in, v)
	}
	out := make([]T, 0, len(in)+1)
	out = append(out, in...)
	return append(out, v)
}

// ParseQuery builds a Selection from request query parameters:
// q, repeated domain, service and source, and bookmarked. The search text
// is kept as given, whitespace included.
func ParseQuery(v url.Values) (Selection, error) {
	sel := Selection{
		SearchQuery: v.Get("q"),
		Services:    nonEmpty(v["service"]),
		Sources:     nonEmpty(v["source"]),
	}

	for _, raw := range nonEmpty(v["domain"]) {
		d, err := model.ParseDomain(raw)
		if err != nil {
			return Selection{}, err
		}
		sel.Domains = append(sel.Domains, d)
	}

	if b := v.Get("bookmarked"); b != "" {
		on, err := strconv.ParseBool(b)
		if err != nil {
			return Selection{}, err
		}
		sel.BookmarksOnly = on
	}

	return sel, nil
}

func nonEmpty(in []string) []string {
	return lo.Uniq(lo.Compact(lo.Map(in, func(s string, _ int) string {
		return strings.TrimSpace(s)
	})))
}
