// Package users keeps reader accounts, their bookmarks, reading history and preferences.
//
// The whole user table is one JSON object keyed by email, stored under a single
// key and rewritten on every save. Concurrent writers from different processes
// race and the last one wins. Sign-in does not verify passwords: this is a
// convenience profile store, not an authentication system.
package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/0x0BSoD/saaHub/internal/model"
	"github.com/0x0BSoD/saaHub/internal/storage"
)

const StorageKey = "aws_saa_hub_users"

var (
	ErrDuplicateUser = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailRequired = errors.New("email is required")
)

type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Store struct {
	kv KV
	mu sync.Mutex
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Patch lists the fields Update replaces; nil fields are kept.
type Patch struct {
	Name        *string            `json:"name,omitempty"`
	Bookmarks   []string           `json:"bookmarks,omitempty"`
	History     []string           `json:"history,omitempty"`
	Preferences *model.Preferences `json:"preferences,omitempty"`
}

func (s *Store) load(ctx context.Context) (map[string]model.User, error) {
	data, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return map[string]model.User{}, nil
		}
		return nil, err
	}

	users := map[string]model.User{}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode user table: %w", err)
	}
	return users, nil
}

func (s *Store) save(ctx context.Context, users map[string]model.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode user table: %w", err)
	}
	return s.kv.Set(ctx, StorageKey, data)
}

// modify runs fn on the stored record for email and writes the table back.
func (s *Store) modify(ctx context.Context, email string, fn func(u *model.User)) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return model.User{}, err
	}

	u, ok := users[email]
	if !ok {
		return model.User{}, fmt.Errorf("%s: %w", email, ErrUserNotFound)
	}

	fn(&u)
	users[email] = u

	if err := s.save(ctx, users); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// SignUp creates a user. The name defaults to the local part of the email.
func (s *Store) SignUp(ctx context.Context, email, name string) (model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.User{}, ErrEmailRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return model.User{}, err
	}

	if _, ok := users[email]; ok {
		return model.User{}, fmt.Errorf("%s: %w", email, ErrDuplicateUser)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	u := model.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		Bookmarks: []string{},
		History:   []string{},
		Preferences: model.Preferences{
			FavoriteServices: []string{},
		},
	}
	users[email] = u

	if err := s.save(ctx, users); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// LogIn returns the stored record for email. The password is ignored.
func (s *Store) LogIn(ctx context.Context, email, _ string) (model.User, error) {
	return s.Get(ctx, strings.TrimSpace(email))
}

func (s *Store) Get(ctx context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return model.User{}, err
	}

	u, ok := users[email]
	if !ok {
		return model.User{}, fmt.Errorf("%s: %w", email, ErrUserNotFound)
	}
	return u, nil
}

func (s *Store) Update(ctx context.Context, email string, p Patch) (model.User, error) {
	return s.modify(ctx, email, func(u *model.User) {
		if p.Name != nil {
			u.Name = *p.Name
		}
		if p.Bookmarks != nil {
			u.Bookmarks = p.Bookmarks
		}
		if p.History != nil {
			u.History = p.History
		}
		if p.Preferences != nil {
			u.Preferences = *p.Preferences
		}
	})
}

// ToggleBookmark adds articleID to the user's bookmarks or removes it.
func (s *Store) ToggleBookmark(ctx context.Context, email, articleID string) (model.User, error) {
	return s.modify(ctx, email, func(u *model.User) {
		if lo.Contains(u.Bookmarks, articleID) {
			u.Bookmarks = lo.Without(u.Bookmarks, articleID)
			return
		}
		u.Bookmarks = append(u.Bookmarks, articleID)
	})
}

// RecordView appends articleID to the reading history. Repeats are kept.
func (s *Store) RecordView(ctx context.Context, email, articleID string) (model.User, error) {
	return s.modify(ctx, email, func(u *model.User) {
		u.History = append(u.History, articleID)
	})
}

func (s *Store) SetPreferences(ctx context.Context, email string, prefs model.Preferences) (model.User, error) {
	if prefs.FavoriteServices == nil {
		prefs.FavoriteServices = []string{}
	}
	return s.Update(ctx, email, Patch{Preferences: &prefs})
}

// Bookmarked reports the articles bookmarked by the user, in the given order.
func Bookmarked(u model.User, articles []model.Article) []model.Article {
	return lo.Filter(articles, func(a model.Article, _ int) bool {
		return lo.Contains(u.Bookmarks, a.ID)
	})
}
