// Copyright (c) 2024, 0x0BSoD. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/0x0BSoD/saaHub/internal/analyzer"
	"github.com/0x0BSoD/saaHub/internal/api"
	"github.com/0x0BSoD/saaHub/internal/bot"
	"github.com/0x0BSoD/saaHub/internal/bot/middleware"
	"github.com/0x0BSoD/saaHub/internal/botkit"
	"github.com/0x0BSoD/saaHub/internal/config"
	"github.com/0x0BSoD/saaHub/internal/fetcher"
	"github.com/0x0BSoD/saaHub/internal/model"
	"github.com/0x0BSoD/saaHub/internal/notifier"
	"github.com/0x0BSoD/saaHub/internal/reporter"
	"github.com/0x0BSoD/saaHub/internal/sample"
	"github.com/0x0BSoD/saaHub/internal/storage"
	"github.com/0x0BSoD/saaHub/internal/store"
	"github.com/0x0BSoD/saaHub/internal/users"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, feed fetcher and Telegram bot",
	RunE:  runServe,
}

type sourceProvider interface {
	Sources(ctx context.Context) ([]model.Source, error)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Get()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	an, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	var (
		kv             users.KV
		sources        sourceProvider
		articleStorage *storage.ArticlePostgresStorage
		sourceStorage  *storage.SourcePostgresStorage
	)

	if cfg.Database() {
		db, err := storage.Connect(ctx, cfg.DatabaseDSN)
		if err != nil {
			log.Printf("[ERROR] failed to connect to db: %v", err)
			return err
		}
		defer db.Close()

		articleStorage = storage.NewArticleStorage(db)
		sourceStorage = storage.NewSourceStorage(db)
		kv = storage.NewKVStorage(db)
		sources = sourceStorage
	} else {
		fileKV, err := storage.NewFileKV(cfg.DataDir)
		if err != nil {
			return err
		}
		kv = fileKV
		sources = storage.NewConfigSources(model.DefaultSources)
	}

	articles := store.New()

	var apiOpts []api.Option
	if articleStorage != nil {
		apiOpts = append(apiOpts, api.WithArticleSaver(articleStorage))
	}
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.New(articles, users.New(kv), an, sources, logger, apiOpts...),
	}

	var botAPI *tgbotapi.BotAPI
	if cfg.Telegram() {
		botAPI, err = tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			log.Printf("[ERROR] failed to create botAPI: %v", err)
			return err
		}
	}

	go func(ctx context.Context) {
		loader := articleLoader(cfg, articleStorage)
		if loader != nil {
			_ = articles.Load(ctx, loader)
		}

		if !cfg.FeedsEnabled {
			return
		}

		var (
			saver fetcher.ArticleStorage
			rep   fetcher.Reporter
		)
		if articleStorage != nil {
			saver = articleStorage
		}
		if botAPI != nil {
			rep = reporter.New(botAPI, cfg.TelegramAdminChatID)
		}

		f := fetcher.New(articles, saver, sources, an, rep, cfg.FetchInterval, cfg.FilterKeywords)
		if err := f.Start(ctx); err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Printf("[ERROR] failed to run fetcher: %v", err)
				return
			}

			log.Printf("[INFO] fetcher stopped")
		}
	}(ctx)

	if botAPI != nil {
		startTelegram(ctx, cfg, botAPI, articles, articleStorage, sourceStorage)
	}

	go func() {
		log.Printf("[INFO] listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] failed to run http server: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	log.Printf("[INFO] http server stopped")

	return nil
}

// articleLoader picks where the initial article set comes from: the sample
// set when live feeds are off, else the database if there is one.
func articleLoader(cfg config.Config, articleStorage *storage.ArticlePostgresStorage) store.ArticleLoader {
	switch {
	case !cfg.FeedsEnabled:
		return sample.Loader{Delay: cfg.SampleDelay}
	case articleStorage != nil:
		return articleStorage
	default:
		return nil
	}
}

func startTelegram(
	ctx context.Context,
	cfg config.Config,
	botAPI *tgbotapi.BotAPI,
	articles *store.Store,
	articleStorage *storage.ArticlePostgresStorage,
	sourceStorage *storage.SourcePostgresStorage,
) {
	hubBot := botkit.New(botAPI)
	hubBot.RegisterCmdView("search", bot.ViewCmdSearch(articles))

	if sourceStorage != nil {
		hubBot.RegisterCmdView(
			"addsource",
			middleware.AdminsOnly(cfg.TelegramChannelID, bot.ViewCmdAddSource(sourceStorage, nil)),
		)
		hubBot.RegisterCmdView(
			"listsources",
			middleware.AdminsOnly(cfg.TelegramChannelID, bot.ViewCmdListSources(sourceStorage)),
		)
		hubBot.RegisterCmdView(
			"deletesource",
			middleware.AdminsOnly(cfg.TelegramChannelID, bot.ViewCmdDeleteSource(sourceStorage)),
		)
	}

	if articleStorage != nil && cfg.TelegramChannelID != 0 {
		n := notifier.New(
			articleStorage,
			botAPI,
			cfg.NotificationInterval,
			2*cfg.FetchInterval,
			cfg.TelegramChannelID,
		)

		go func(ctx context.Context) {
			if err := n.Start(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Printf("[ERROR] failed to run notifier: %v", err)
					return
				}

				log.Printf("[INFO] notifier stopped")
			}
		}(ctx)
	}

	go func(ctx context.Context) {
		if err := hubBot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[ERROR] failed to run botkit: %v", err)
		}
	}(ctx)
}

// newAnalyzer builds the exam analyzer for the configured ai_type. Without
// the credentials a provider needs, every article gets the fallback analysis.
func newAnalyzer(cfg config.Config) (*analyzer.Analyzer, error) {
	switch cfg.AIType {
	case "openai":
		if cfg.AIKey == "" {
			log.Printf("[INFO] ai_key is empty, exam analysis disabled")
			return analyzer.New(nil, cfg.AITimeout), nil
		}
		log.Printf("[INFO] using OpenAI-compatible analyzer (model: %s)", cfg.AIModel)
		return analyzer.New(analyzer.NewOpenAIProvider(cfg.AIBaseURL, cfg.AIKey, cfg.AIModel), cfg.AITimeout), nil
	case "ollama":
		if cfg.AIBaseURL == "" {
			return nil, errors.New("ai_base_url is required when ai_type is \"ollama\"")
		}
		provider, err := analyzer.NewOllamaProvider(cfg.AIBaseURL, cfg.AIModel)
		if err != nil {
			return nil, err
		}
		log.Printf("[INFO] using Ollama analyzer (model: %s)", cfg.AIModel)
		return analyzer.New(provider, cfg.AITimeout), nil
	case "none", "":
		return analyzer.New(nil, cfg.AITimeout), nil
	default:
		return nil, fmt.Errorf("unknown ai_type %q", cfg.AIType)
	}
}
