package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/footwire/transferwatch/app/api"
	"github.com/footwire/transferwatch/app/cfg"
	"github.com/footwire/transferwatch/app/club"
	"github.com/footwire/transferwatch/app/database"
	"github.com/footwire/transferwatch/app/notify"
	"github.com/footwire/transferwatch/app/policy"
	"github.com/footwire/transferwatch/app/seen"
	"github.com/footwire/transferwatch/app/source"
	"github.com/footwire/transferwatch/app/watcher"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting transferwatch", "version", appCfg.Version, "source", appCfg.SourceType)

	catalog, err := buildCatalog(appCfg)
	if err != nil {
		slog.Error("Failed to build club catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("Club catalog loaded", "clubs", catalog.Len())

	store, closeStore, err := buildSeenStore(appCfg)
	if err != nil {
		slog.Error("Failed to initialize seen storage", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	src, pol, mode, err := buildSource(appCfg, catalog)
	if err != nil {
		slog.Error("Failed to initialize source", "error", err)
		os.Exit(1)
	}

	var extractor *notify.ExcerptExtractor
	if appCfg.EnableExcerpts {
		extractor = notify.NewExcerptExtractor(appCfg.UserAgent)
	}
	notifier := notify.NewNotifier(appCfg.Webhooks(), extractor)

	w := watcher.New(src, pol, store, notifier, catalog, watcher.Options{
		Mode:          mode,
		BackfillLimit: appCfg.BackfillLimit,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcherErrChan := make(chan error, 1)
	go func() {
		watcherErrChan <- w.Run(ctx)
	}()

	handler := api.NewHandler(w, catalog, src.Name(), appCfg.Version)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down", "signal", sig.String())
	case err := <-watcherErrChan:
		if err != nil {
			slog.Error("Watcher failed", "error", err)
			exitCode = 1
		} else {
			slog.Info("Watcher stopped")
		}
	case err := <-serverErrChan:
		slog.Error("Server failed", "error", err)
		exitCode = 1
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Wait for the watcher to flush seen state and disconnect.
	select {
	case <-watcherErrChan:
	case <-shutdownCtx.Done():
		slog.Error("Watcher shutdown timed out")
	}

	slog.Info("Shutdown complete")
	os.Exit(exitCode)
}

func buildCatalog(appCfg *cfg.Cfg) (*club.Catalog, error) {
	clubs := club.DefaultClubs()

	if appCfg.ClubsDir != "" {
		overrides, err := club.LoadDir(appCfg.ClubsDir)
		if err != nil {
			return nil, err
		}
		clubs = club.Merge(clubs, overrides)
	}

	return club.NewCatalog(clubs)
}

func buildSeenStore(appCfg *cfg.Cfg) (*seen.Store, func(), error) {
	switch appCfg.SeenBackend {
	case "sqlite":
		db, err := database.NewConnection(appCfg.SeenDBPath)
		if err != nil {
			return nil, nil, err
		}

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		slog.Info("Database migrations applied", "version", version, "dirty", dirty)

		backend := database.NewSeenBackend(db)
		closeFn := func() { db.Close() }
		return seen.NewStore(backend, appCfg.SeenCap, appCfg.SeenSaveInterval), closeFn, nil

	default:
		backend := seen.NewFileBackend(appCfg.SeenFile)
		return seen.NewStore(backend, appCfg.SeenCap, appCfg.SeenSaveInterval), func() {}, nil
	}
}

func buildSource(appCfg *cfg.Cfg, catalog *club.Catalog) (source.Source, policy.Policy, watcher.BackfillMode, error) {
	switch appCfg.SourceType {
	case "telegram":
		src := source.NewTelegramSource(appCfg.TelegramToken, appCfg.TelegramChannel)
		return src, policy.NewChannelPolicy(catalog), watcher.BackfillExpanding, nil

	case "reddit":
		subreddits, err := source.ParseSubreddits(appCfg.RedditSubreddits, appCfg.RedditCatchUp)
		if err != nil {
			return nil, nil, 0, err
		}
		src := source.NewRedditSource(subreddits, appCfg.UserAgent, appCfg.GetPollInterval())
		return src, policy.NewSubredditPolicy(catalog, subreddits), watcher.BackfillSweep, nil

	case "rss":
		src := source.NewRSSSource(appCfg.RSSFeedURL, appCfg.UserAgent, appCfg.GetPollInterval())
		return src, policy.NewChannelPolicy(catalog), watcher.BackfillExpanding, nil

	default:
		return nil, nil, 0, fmt.Errorf("unknown source type: %s", appCfg.SourceType)
	}
}
