package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/0x0BSoD/saaHub/internal/filter"
	"github.com/0x0BSoD/saaHub/internal/model"
	"github.com/0x0BSoD/saaHub/internal/store"
	"github.com/0x0BSoD/saaHub/internal/users"
)

type Analyzer interface {
	Analyze(ctx context.Context, title, summary string) model.Analysis
}

type SourceProvider interface {
	Sources(ctx context.Context) ([]model.Source, error)
}

// ArticleSaver persists article changes made through the API.
type ArticleSaver interface {
	Upsert(ctx context.Context, articles ...model.Article) error
}

// Server holds dependencies for the HTTP handlers.
type Server struct {
	articles *store.Store
	accounts *users.Store
	analyzer Analyzer
	sources  SourceProvider
	saver    ArticleSaver
	logger   *slog.Logger
	mux      *http.ServeMux
}

type Option func(*Server)

// WithArticleSaver makes bookmark toggles and re-analysis durable.
func WithArticleSaver(saver ArticleSaver) Option {
	return func(s *Server) { s.saver = saver }
}

// New wires up routes and returns a ready-to-use Server.
func New(
	articles *store.Store,
	accounts *users.Store,
	analyzer Analyzer,
	sources SourceProvider,
	logger *slog.Logger,
	opts ...Option,
) *Server {
	srv := &Server{
		articles: articles,
		accounts: accounts,
		analyzer: analyzer,
		sources:  sources,
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(srv)
	}
	srv.routes()
	return srv
}

// ServeHTTP makes Server satisfy the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ---------- Routes ----------

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)

	s.mux.HandleFunc("GET /api/articles", s.handleListArticles)
	s.mux.HandleFunc("GET /api/articles/{id}", s.handleGetArticle)
	s.mux.HandleFunc("POST /api/articles/{id}/bookmark", s.handleToggleBookmark)
	s.mux.HandleFunc("POST /api/articles/{id}/analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /api/facets", s.handleFacets)

	s.mux.HandleFunc("POST /api/users/signup", s.handleSignUp)
	s.mux.HandleFunc("POST /api/users/login", s.handleLogIn)
	s.mux.HandleFunc("GET /api/users/{email}", s.handleGetUser)
	s.mux.HandleFunc("POST /api/users/{email}/bookmarks/{id}", s.handleUserBookmark)
	s.mux.HandleFunc("POST /api/users/{email}/history/{id}", s.handleUserHistory)
	s.mux.HandleFunc("PUT /api/users/{email}/preferences", s.handleUserPreferences)
}

// ---------- Handlers ----------

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusResponse struct {
	Loading  bool `json:"loading"`
	Articles int  `json:"articles"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Loading: s.articles.Loading(), Articles: s.articles.Len()})
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	sel, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.articles.Filter(sel))
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	article, ok := s.articles.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	article, ok := s.articles.ToggleBookmark(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}
	s.save(r.Context(), article)
	writeJSON(w, http.StatusOK, article)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	article, ok := s.articles.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}

	analysis := s.analyzer.Analyze(r.Context(), article.Title, article.Summary)
	article, ok = s.articles.Apply(id, analysis)
	if !ok {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}

	s.logger.Info("article analyzed", "id", id, "relevance", article.Relevance)
	s.save(r.Context(), article)
	writeJSON(w, http.StatusOK, article)
}

type facetsResponse struct {
	Domains  []model.Domain `json:"domains"`
	Services []string       `json:"services"`
	Sources  []string       `json:"sources"`
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	sources, err := s.sources.Sources(r.Context())
	if err != nil {
		s.logger.Error("failed to list sources", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list sources")
		return
	}

	writeJSON(w, http.StatusOK, facetsResponse{
		Domains:  model.Domains(),
		Services: model.Services,
		Sources:  model.SourceNames(sources),
	})
}

type signUpRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	u, err := s.accounts.SignUp(r.Context(), req.Email, req.Name)
	if err != nil {
		s.writeUserError(w, err)
		return
	}
	s.logger.Info("user signed up", "id", u.ID)
	writeJSON(w, http.StatusCreated, u)
}

type logInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogIn(w http.ResponseWriter, r *http.Request) {
	var req logInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	u, err := s.accounts.LogIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.accounts.Get(r.Context(), r.PathValue("email"))
	if err != nil {
		s.writeUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUserBookmark(w http.ResponseWriter, r *http.Request) {
	s.respondUser(w, r, s.accounts.ToggleBookmark)
}

func (s *Server) handleUserHistory(w http.ResponseWriter, r *http.Request) {
	s.respondUser(w, r, s.accounts.RecordView)
}

func (s *Server) respondUser(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, email, articleID string) (model.User, error),
) {
	id := r.PathValue("id")
	if !s.articles.Has(id) {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}

	u, err := op(r.Context(), r.PathValue("email"), id)
	if err != nil {
		s.writeUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUserPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs model.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	u, err := s.accounts.SetPreferences(r.Context(), r.PathValue("email"), prefs)
	if err != nil {
		s.writeUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ---------- Helpers ----------

func (s *Server) save(ctx context.Context, article model.Article) {
	if s.saver == nil {
		return
	}
	if err := s.saver.Upsert(ctx, article); err != nil {
		s.logger.Error("failed to persist article", "id", article.ID, "err", err)
	}
}

func (s *Server) writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrDuplicateUser):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, users.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, users.ErrEmailRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("user store failure", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
