package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gompdf/cvpdf/internal/config"
	"github.com/gompdf/cvpdf/internal/handlers"
	"github.com/gompdf/cvpdf/internal/services"
	"github.com/gompdf/cvpdf/internal/store"
	"github.com/gompdf/cvpdf/logging"
	"github.com/gompdf/cvpdf/pkg/api"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logging.SetLogger(logger)

	var cvStore store.CVStore
	if cfg.DatabaseURL != "" {
		db, err := store.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Error("database unavailable", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("database connection established")
		cvStore = db
	} else {
		logger.Warn("DATABASE_URL is empty, CVs are kept in memory")
		cvStore = store.NewMemoryStore()
	}

	var suggester *services.Suggester
	if cfg.GeminiAPIKey != "" {
		suggester, err = services.NewGeminiSuggester(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("suggestions disabled", slog.Any("error", err))
		}
	} else {
		logger.Info("GEMINI_API_KEY is empty, suggestions disabled")
	}

	// posted markup must not make the server fetch URLs or read files
	creator := api.New(nil,
		api.WithDebug(cfg.LogLevel <= slog.LevelDebug),
		api.WithExternalResources(false))
	h := handlers.NewHandler(services.NewExportService(creator, cvStore), cvStore, suggester)

	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	if cfg.AllowAllOrigins() {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))
	h.Register(r)

	logger.Info("server starting", slog.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}
