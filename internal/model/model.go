// Package model defines the data structures used in the saaHub application: articles tagged with
// SAA-C03 exam metadata, the analyzer output, feed sources and raw feed items, and users.
package model

import (
	"fmt"
	"time"
)

type Domain string

const (
	DomainSecure         Domain = "Secure Architectures"
	DomainResilient      Domain = "Resilient Architectures"
	DomainHighPerforming Domain = "High-Performing Architectures"
	DomainCostOptimized  Domain = "Cost-Optimized Architectures"
	DomainOperations     Domain = "Deployment & Operations"
)

// Domains returns the exam domains in their canonical order.
func Domains() []Domain {
	return []Domain{
		DomainSecure,
		DomainResilient,
		DomainHighPerforming,
		DomainCostOptimized,
		DomainOperations,
	}
}

func ParseDomain(s string) (Domain, error) {
	for _, d := range Domains() {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown exam domain %q", s)
}

type Relevance string

const (
	RelevanceLow    Relevance = "Low"
	RelevanceMedium Relevance = "Medium"
	RelevanceHigh   Relevance = "High"
)

func ParseRelevance(s string) (Relevance, error) {
	switch r := Relevance(s); r {
	case RelevanceLow, RelevanceMedium, RelevanceHigh:
		return r, nil
	}
	return "", fmt.Errorf("unknown relevance %q", s)
}

type Article struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Summary      string    `json:"summary" yaml:"summary"`
	Link         string    `json:"link" yaml:"link"`
	PubDate      time.Time `json:"pubDate" yaml:"pubDate"`
	Source       string    `json:"source" yaml:"source"`
	Domains      []Domain  `json:"domains" yaml:"domains"`
	Services     []string  `json:"services" yaml:"services"`
	Relevance    Relevance `json:"relevance" yaml:"relevance"`
	ExamNote     string    `json:"examNote,omitempty" yaml:"examNote"`
	IsBookmarked bool      `json:"isBookmarked" yaml:"isBookmarked"`
}

// Apply copies the analyzer judgment onto the article.
func (a Article) Apply(an Analysis) Article {
	a.Relevance = an.Relevance
	a.Domains = an.Domains
	a.Services = an.Services
	a.ExamNote = an.ExamNote
	return a
}

// Analysis is the structured judgment returned by the exam analyzer.
type Analysis struct {
	Relevance Relevance `json:"relevance"`
	Domains   []Domain  `json:"domains"`
	ExamNote  string    `json:"examNote"`
	Services  []string  `json:"services"`
}

type Source struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	FeedURL   string    `db:"feed_url"`
	Insecure  bool      `db:"insecure"`
	CreatedAt time.Time `db:"created_at"`
}

type Item struct {
	Title      string
	Categories []string
	Link       string
	Date       time.Time
	Summary    string
	SourceName string
}

type Preferences struct {
	FavoriteServices []string `json:"favoriteServices"`
	DarkMode         bool     `json:"darkMode"`
}

type User struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	Bookmarks   []string    `json:"bookmarks"`
	History     []string    `json:"history"`
	Preferences Preferences `json:"preferences"`
}
