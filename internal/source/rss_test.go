package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/saaHub/internal/model"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>AWS What's New</title>
  <link>https://aws.amazon.com/new/</link>
  <description>Recent announcements</description>
  <item>
    <title> Amazon VPC Lattice adds TCP support </title>
    <link>https://aws.amazon.com/about-aws/whats-new/vpc-lattice-tcp/</link>
    <description>&lt;p&gt;Amazon &lt;b&gt;VPC Lattice&lt;/b&gt; now supports   TCP.&lt;/p&gt;</description>
    <category>networking</category>
    <pubDate>Mon, 20 May 2024 10:00:00 +0000</pubDate>
  </item>
  <item>
    <title>Route 53 Profiles</title>
    <link>%s/article</link>
    <pubDate>Sun, 19 May 2024 10:00:00 +0000</pubDate>
  </item>
</channel>
</rss>`

const articleHTML = `<!DOCTYPE html>
<html><head>
<title>Route 53 Profiles</title>
<meta name="description" content="Route 53 Profiles let you share DNS configuration across VPCs.">
</head><body>
<article><h1>Route 53 Profiles</h1>
<p>Route 53 Profiles let you share DNS configuration across VPCs and accounts in an organization.</p>
</article>
</body></html>`

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = fmt.Fprintf(w, feedXML, srv.URL)
		case "/article":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(articleHTML))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRSSSourceFetch(t *testing.T) {
	srv := feedServer(t)

	src := NewRSSSourceFromModel(model.Source{ID: 7, Name: "What's New", FeedURL: srv.URL + "/feed"})
	assert.Equal(t, int64(7), src.ID())
	assert.Equal(t, "What's New", src.Name())

	items, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "Amazon VPC Lattice adds TCP support", first.Title)
	assert.Equal(t, "Amazon VPC Lattice now supports TCP.", first.Summary)
	assert.Equal(t, []string{"networking"}, first.Categories)
	assert.Equal(t, "What's New", first.SourceName)
	assert.Equal(t, 2024, first.Date.Year())

	second := items[1]
	assert.Contains(t, second.Summary, "Route 53 Profiles let you share DNS configuration")
}

func TestRSSSourceFetchError(t *testing.T) {
	srv := feedServer(t)

	_, err := RSSSource{URL: srv.URL + "/missing", SourceName: "gone"}.Fetch(context.Background())
	assert.Error(t, err)
}

func TestProbe(t *testing.T) {
	srv := feedServer(t)

	title, err := Probe(context.Background(), srv.URL+"/feed", false)
	require.NoError(t, err)
	assert.Equal(t, "AWS What's New", title)

	_, err = Probe(context.Background(), srv.URL+"/article", false)
	assert.Error(t, err)
}

func TestHTMLToText(t *testing.T) {
	assert.Equal(t, "", htmlToText("   "))
	assert.Equal(t, "a b c", htmlToText("<div>a <i>b</i>\n\n c</div>"))
	assert.Equal(t, "plain text", htmlToText("plain   text"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	long := strings.Repeat("é", 20)
	got := truncate(long, 10)
	assert.Equal(t, 10, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}
