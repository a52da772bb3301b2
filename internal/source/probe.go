package source

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const probeTimeout = 15 * time.Second

// Probe checks that url serves a parseable RSS or Atom feed and returns its title.
func Probe(ctx context.Context, url string, insecure bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	parser := gofeed.NewParser()
	if insecure {
		parser.Client = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
			},
		}
	}

	feed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return "", fmt.Errorf("probe %s: %w", url, err)
	}

	return strings.TrimSpace(feed.Title), nil
}
