package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"github.com/0x0BSoD/saaHub/internal/model"
)

type ArticlePostgresStorage struct {
	db *sqlx.DB
}

func NewArticleStorage(db *sqlx.DB) *ArticlePostgresStorage {
	return &ArticlePostgresStorage{db: db}
}

var articleColumns = []string{
	"id", "source", "title", "summary", "link", "pub_date",
	"domains", "services", "relevance", "exam_note", "is_bookmarked",
}

type dbArticle struct {
	ID           string         `db:"id"`
	Source       string         `db:"source"`
	Title        string         `db:"title"`
	Summary      string         `db:"summary"`
	Link         string         `db:"link"`
	PubDate      time.Time      `db:"pub_date"`
	Domains      pq.StringArray `db:"domains"`
	Services     pq.StringArray `db:"services"`
	Relevance    string         `db:"relevance"`
	ExamNote     string         `db:"exam_note"`
	IsBookmarked bool           `db:"is_bookmarked"`
	PostedAt     sql.NullTime   `db:"posted_at"`
}

func toDBArticle(a model.Article) dbArticle {
	return dbArticle{
		ID:      a.ID,
		Source:  a.Source,
		Title:   a.Title,
		Summary: a.Summary,
		Link:    a.Link,
		PubDate: a.PubDate,
		Domains: pq.StringArray(lo.Map(a.Domains, func(d model.Domain, _ int) string {
			return string(d)
		})),
		Services:     pq.StringArray(lo.Ternary(a.Services == nil, []string{}, a.Services)),
		Relevance:    string(a.Relevance),
		ExamNote:     a.ExamNote,
		IsBookmarked: a.IsBookmarked,
	}
}

func (a dbArticle) toModel() model.Article {
	relevance, err := model.ParseRelevance(a.Relevance)
	if err != nil {
		relevance = model.RelevanceLow
	}

	return model.Article{
		ID:      a.ID,
		Title:   a.Title,
		Summary: a.Summary,
		Link:    a.Link,
		PubDate: a.PubDate.UTC(),
		Source:  a.Source,
		Domains: lo.Map(a.Domains, func(d string, _ int) model.Domain {
			return model.Domain(d)
		}),
		Services:     []string(a.Services),
		Relevance:    relevance,
		ExamNote:     a.ExamNote,
		IsBookmarked: a.IsBookmarked,
	}
}

func upsertArticlesQuery(articles []model.Article) (string, []any, error) {
	q := psql.Insert("articles").Columns(articleColumns...)
	for _, a := range articles {
		r := toDBArticle(a)
		q = q.Values(r.ID, r.Source, r.Title, r.Summary, r.Link, r.PubDate,
			r.Domains, r.Services, r.Relevance, r.ExamNote, r.IsBookmarked)
	}

	return q.Suffix(`ON CONFLICT (id) DO UPDATE SET
		source = EXCLUDED.source,
		title = EXCLUDED.title,
		summary = EXCLUDED.summary,
		link = EXCLUDED.link,
		pub_date = EXCLUDED.pub_date,
		domains = EXCLUDED.domains,
		services = EXCLUDED.services,
		relevance = EXCLUDED.relevance,
		exam_note = EXCLUDED.exam_note,
		is_bookmarked = EXCLUDED.is_bookmarked`).ToSql()
}

// Upsert stores articles, replacing rows with the same ID.
func (s *ArticlePostgresStorage) Upsert(ctx context.Context, articles ...model.Article) error {
	if len(articles) == 0 {
		return nil
	}

	query, args, err := upsertArticlesQuery(articles)
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert articles: %w", err)
	}
	return nil
}

// Articles returns every stored article, newest first.
func (s *ArticlePostgresStorage) Articles(ctx context.Context) ([]model.Article, error) {
	query, args, err := psql.Select(append(articleColumns, "posted_at")...).
		From("articles").
		OrderBy("pub_date DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	return s.selectArticles(ctx, query, args...)
}

func notPostedQuery(since time.Time, relevance model.Relevance, limit uint64) (string, []any, error) {
	return psql.Select(append(articleColumns, "posted_at")...).
		From("articles").
		Where(sq.Eq{"posted_at": nil, "relevance": string(relevance)}).
		Where(sq.GtOrEq{"pub_date": since.UTC()}).
		OrderBy("pub_date ASC", "id").
		Limit(limit).
		ToSql()
}

// AllNotPosted returns up to limit articles of the given relevance published
// after since that have not been announced yet, oldest first.
func (s *ArticlePostgresStorage) AllNotPosted(ctx context.Context, since time.Time, relevance model.Relevance, limit uint64) ([]model.Article, error) {
	query, args, err := notPostedQuery(since, relevance, limit)
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	return s.selectArticles(ctx, query, args...)
}

func (s *ArticlePostgresStorage) MarkAsPosted(ctx context.Context, id string) error {
	query, args, err := psql.Update("articles").
		Set("posted_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark article %s as posted: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *ArticlePostgresStorage) selectArticles(ctx context.Context, query string, args ...any) ([]model.Article, error) {
	var rows []dbArticle
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select articles: %w", err)
	}

	return lo.Map(rows, func(r dbArticle, _ int) model.Article {
		return r.toModel()
	}), nil
}
