package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/conorfennell/hipo/internal/config"
	"github.com/conorfennell/hipo/internal/genai"
	"github.com/conorfennell/hipo/internal/notesource"
	"github.com/conorfennell/hipo/internal/review"
	"github.com/conorfennell/hipo/internal/storage"
	"github.com/conorfennell/hipo/internal/web"
)

func main() {
	flags := pflag.NewFlagSet("hipo", pflag.ExitOnError)
	config.Flags(flags)
	importSource := flags.String("import", "", "import notes from a directory or git URL before serving")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	store, err := storage.Open(storage.Options{
		Driver: cfg.Storage.Driver,
		Path:   cfg.Storage.Path,
		Logger: logger,
	})
	if err != nil {
		logger.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("storage opened", "driver", cfg.Storage.Driver, "path", cfg.Storage.Path)

	ctx := context.Background()
	generator := genai.NewOpenAI(config.APIKey(), cfg.OpenAI.Model)
	session := review.NewSession(ctx, store, cfg.Review.DailyLimit, cfg.ReportWeekday(), logger)

	if *importSource != "" {
		importer := &notesource.Importer{
			Generator: generator,
			Session:   session,
			Logger:    logger,
			ReposDir:  cfg.Import.ReposDir,
		}
		if _, err := importer.Run(ctx, *importSource); err != nil {
			logger.Error("import failed", "source", *importSource, "error", err)
			os.Exit(1)
		}
	}

	server, err := web.NewServer(session, generator, logger)
	if err != nil {
		logger.Error("failed to build web server", "error", err)
		os.Exit(1)
	}

	logger.Info("listening", "addr", cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, server); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
