package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lysyi3m/obs-overlay/app/api"
	"github.com/lysyi3m/obs-overlay/app/audio"
	"github.com/lysyi3m/obs-overlay/app/cfg"
	"github.com/lysyi3m/obs-overlay/app/database"
	"github.com/lysyi3m/obs-overlay/app/news"
	"github.com/lysyi3m/obs-overlay/app/observability"
	"github.com/lysyi3m/obs-overlay/app/overlay"
	"github.com/lysyi3m/obs-overlay/app/preset"
	"github.com/lysyi3m/obs-overlay/app/quake"
	"github.com/lysyi3m/obs-overlay/app/session"
	"github.com/lysyi3m/obs-overlay/app/settings"
	"github.com/lysyi3m/obs-overlay/app/tasks"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown
		return
	}

	setupLogging(appConfig.Debug)

	db, err := openDatabase(appConfig.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appConfig.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	settingsService := settings.NewService(database.NewSettingsRepository(db), appConfig.OverlayURL())

	switch appConfig.Command {
	case cfg.CommandURL:
		printURL(settingsService)
	default:
		if err := serve(settingsService); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func openDatabase(path string) (*database.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := database.NewConnection(path)
	if err != nil {
		return nil, err
	}

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Debug("Database migrations applied", "version", version, "dirty", dirty)

	return db, nil
}

// printURL builds the overlay URL from the saved settings and copies it to
// the clipboard, printing it when no clipboard is available.
func printURL(settingsService *settings.Service) {
	appConfig := cfg.Get()
	form := settings.InitialForm()
	if saved, ok := overlay.FromSaved(settingsService.Saved()); ok {
		form = saved
	}

	url := settingsService.URL(form, appConfig.URLDev)
	fmt.Println(url)
	if appConfig.URLNoCopy {
		return
	}

	copied, err := settings.NewCopier().Copy(url)
	switch {
	case err != nil:
		slog.Warn("Clipboard copy failed", "error", err)
	case copied && appConfig.URLDev:
		fmt.Fprintln(os.Stderr, "テスト用URL（サンドボックス）をコピーしました")
	case copied:
		fmt.Fprintln(os.Stderr, "URLをコピーしました")
	default:
		slog.Debug("No clipboard tool found, URL printed only")
	}
}

func serve(settingsService *settings.Service) error {
	appConfig := cfg.Get()
	slog.Info("Starting OBS overlay server", "version", appConfig.Version)

	presets := preset.NewCache(appConfig.PresetsDir)
	if err := presets.Run(); err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}
	slog.Info("Presets loaded", "count", presets.Count(), "dir", appConfig.PresetsDir)

	clock := clockwork.NewRealClock()
	metrics := observability.NewMetrics()

	scheduler := tasks.NewScheduler(clock, metrics, appConfig.WorkerCount, appConfig.QueueSize)
	scheduler.Start()
	defer scheduler.Stop()

	policy := quake.DefaultPolicy()
	policy.FreshnessWindow = appConfig.FreshnessWindow
	policy.DropUnknownScale = !appConfig.KeepUnknownScale

	level1, level2 := audio.DefaultClips("/sounds", appConfig.Sound1Duration, appConfig.Sound2Duration)
	httpClient := &http.Client{Timeout: appConfig.FetchTimeout}

	hub := session.NewHub(session.Deps{
		Clock:          clock,
		Metrics:        metrics,
		Scheduler:      scheduler,
		QuakeSource:    quake.NewClient(appConfig.QuakeAPI, appConfig.QuakeSandboxAPI, appConfig.UserAgent, appConfig.FetchTimeout, metrics),
		NewsFetcher:    news.NewFetcher(httpClient, appConfig.UserAgent, appConfig.FetchTimeout),
		Policy:         policy,
		Level1Clip:     level1,
		Level2Clip:     level2,
		NewsRefresh:    appConfig.NewsRefresh,
		NewsRetryDelay: appConfig.NewsRetryDelay,
	})
	defer hub.CloseAll()

	apiHandler := api.NewHandler(hub, settingsService, presets, clock, appConfig.CountdownDeadline, appConfig.WebDir, appConfig.Version)
	server := api.NewServer(apiHandler, appConfig.APIAccessKey)

	// No write timeout: overlay streams stay open for the whole broadcast.
	httpServer := &http.Server{
		Addr:        ":" + appConfig.Port,
		Handler:     server,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appConfig.Port, "overlay", appConfig.OverlayURL())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		return err
	}

	slog.Info("Shutting down server gracefully")

	// Streams only end when their sessions do.
	hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("OBS overlay server shutdown complete")
	return nil
}
