package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/saaHub/internal/botkit/telegramtest"
	"github.com/0x0BSoD/saaHub/internal/model"
)

type fakeProvider struct {
	pending   []model.Article
	posted    []string
	relevance model.Relevance
	err       error
	calls     int
}

func (f *fakeProvider) AllNotPosted(_ context.Context, _ time.Time, relevance model.Relevance, limit uint64) ([]model.Article, error) {
	f.calls++
	f.relevance = relevance
	if f.err != nil {
		return nil, f.err
	}
	if uint64(len(f.pending)) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeProvider) MarkAsPosted(_ context.Context, id string) error {
	f.posted = append(f.posted, id)
	f.pending = f.pending[1:]
	return nil
}

var multiRegion = model.Article{
	ID:        "4",
	Title:     "Building Multi-Region Resilient Architectures with Global Accelerator",
	Link:      "https://aws.amazon.com/blogs/architecture/multi-region",
	Source:    "AWS Architecture Blog",
	Relevance: model.RelevanceHigh,
	Domains:   []model.Domain{model.DomainResilient, model.DomainHighPerforming},
	Services:  []string{"Global Accelerator", "Route 53"},
	ExamNote:  "Know when to pick Global Accelerator over CloudFront.\n\n\n\nStatic anycast IPs.",
}

func TestFormatArticle(t *testing.T) {
	got := formatArticle(multiRegion)

	want := "*Building Multi\\-Region Resilient Architectures with Global Accelerator*\n\n" +
		"Know when to pick Global Accelerator over CloudFront\\.\n\nStatic anycast IPs\\.\n\n" +
		"_Global Accelerator, Route 53_\n\n" +
		"https://aws\\.amazon\\.com/blogs/architecture/multi\\-region\n" +
		"\\#AWSArchitectureBlog \\#ResilientArchitectures \\#HighPerformingArchitectures"
	assert.Equal(t, want, got)
}

func TestFormatArticleMinimal(t *testing.T) {
	got := formatArticle(model.Article{Title: "EC2", Link: "https://x.io"})
	assert.Equal(t, "*EC2*\n\nhttps://x\\.io", got)
}

func TestSelectAndSendArticle(t *testing.T) {
	srv, api := telegramtest.New(t)
	provider := &fakeProvider{pending: []model.Article{multiRegion, {ID: "6", Title: "IAM"}}}

	n := New(provider, api, time.Minute, time.Hour, -100)

	require.NoError(t, n.SelectAndSendArticle(context.Background()))

	assert.Equal(t, model.RelevanceHigh, provider.relevance)
	assert.Equal(t, []string{"4"}, provider.posted)

	sent := srv.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "-100", sent[0].ChatID)
	assert.Equal(t, "MarkdownV2", sent[0].ParseMode)
}

func TestSelectAndSendArticleNothingPending(t *testing.T) {
	srv, api := telegramtest.New(t)
	n := New(&fakeProvider{}, api, time.Minute, time.Hour, -100)

	require.NoError(t, n.SelectAndSendArticle(context.Background()))
	assert.Empty(t, srv.Sent())
}

func TestSelectAndSendArticleProviderError(t *testing.T) {
	_, api := telegramtest.New(t)
	boom := errors.New("db down")
	n := New(&fakeProvider{err: boom}, api, time.Minute, time.Hour, -100)

	assert.ErrorIs(t, n.SelectAndSendArticle(context.Background()), boom)
}

func TestSelectAndSendArticleSkipsRejectedMessage(t *testing.T) {
	srv, api := telegramtest.New(t)
	srv.RejectSends(0, "Bad Request: can't parse entities")
	provider := &fakeProvider{pending: []model.Article{multiRegion}}

	n := New(provider, api, time.Minute, time.Hour, -100)

	require.NoError(t, n.SelectAndSendArticle(context.Background()))
	assert.Equal(t, []string{"4"}, provider.posted)
	assert.Empty(t, srv.Sent())
}

func TestSelectAndSendArticleKeepsRateLimitedMessage(t *testing.T) {
	srv, api := telegramtest.New(t)
	srv.RejectSends(429, "Too Many Requests: retry after 5")
	provider := &fakeProvider{pending: []model.Article{multiRegion}}

	n := New(provider, api, time.Minute, time.Hour, -100)

	assert.Error(t, n.SelectAndSendArticle(context.Background()))
	assert.Empty(t, provider.posted)
	assert.Len(t, provider.pending, 1)
}

func TestStartDrainsQueuePastRejectedMessages(t *testing.T) {
	srv, api := telegramtest.New(t)
	srv.RejectSends(400, "Bad Request: can't parse entities")
	provider := &fakeProvider{pending: []model.Article{multiRegion, {ID: "6", Title: "IAM"}}}

	n := New(provider, api, 10*time.Millisecond, time.Hour, -100)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, n.Start(ctx), context.DeadlineExceeded)
	assert.Equal(t, []string{"4", "6"}, provider.posted)
	assert.Empty(t, provider.pending)
}

func TestStartSurvivesProviderError(t *testing.T) {
	_, api := telegramtest.New(t)
	provider := &fakeProvider{err: errors.New("db: connection reset")}

	n := New(provider, api, 10*time.Millisecond, time.Hour, -100)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, n.Start(ctx), context.DeadlineExceeded)
	assert.Greater(t, provider.calls, 2, "the loop must keep ticking after a failed pass")
}
