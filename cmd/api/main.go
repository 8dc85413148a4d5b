package main

import (
	"context"
	"database/sql"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/bryanwahyu/insightlens/internal/application"
	appinsights "github.com/bryanwahyu/insightlens/internal/application/insights"
	"github.com/bryanwahyu/insightlens/internal/config"
	domain "github.com/bryanwahyu/insightlens/internal/domain/insights"
	ailocal "github.com/bryanwahyu/insightlens/internal/infra/ai/local"
	aiopenai "github.com/bryanwahyu/insightlens/internal/infra/ai/openai"
	"github.com/bryanwahyu/insightlens/internal/infra/db/postgres"
	"github.com/bryanwahyu/insightlens/internal/infra/db/sqlite"
	"github.com/bryanwahyu/insightlens/internal/infra/httpserver"
	"github.com/bryanwahyu/insightlens/internal/infra/scraper"
	"github.com/bryanwahyu/insightlens/internal/infra/storage"
	"github.com/bryanwahyu/insightlens/internal/logging"
	"github.com/bryanwahyu/insightlens/internal/middleware"
)

func main() {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		stdlog.Fatalf("config load error: %v", err)
	}

	logging.Setup(cfg.Logging.Level)

	ctx := context.Background()

	// open the insight store per configured driver
	var (
		db   *sql.DB
		repo domain.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgres.Connect(ctx, cfg.Database.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connect error")
		}
		r := postgres.NewInsightRepository(db)
		if err := r.InitSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("postgres schema error")
		}
		repo = r
	case "sqlite", "":
		if cfg.Database.Path != ":memory:" {
			_ = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755)
		}
		db, err = sqlite.Connect(ctx, cfg.Database.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("sqlite connect error")
		}
		r := sqlite.NewInsightRepository(db)
		if err := r.InitSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("sqlite schema error")
		}
		repo = r
	default:
		log.Fatal().Str("driver", cfg.Database.Driver).Msg("unknown database driver")
	}
	defer db.Close()

	// analyzer: the real client when a key is configured, the heuristic
	// fallback otherwise so local development works without credentials
	var analyzer domain.Analyzer
	if cfg.LLM.APIKey != "" {
		analyzer = aiopenai.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)
	} else {
		log.Warn().Msg("no LLM api key configured, using local heuristic analyzer")
		analyzer = ailocal.New()
	}

	// optional full-text archive
	var archive domain.Archive
	if cfg.Archive.Enabled {
		store, err := storage.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("archive init error")
		}
		archive = store
	}

	svc := &appinsights.Service{
		Repo:     repo,
		Analyzer: analyzer,
		Fetcher:  scraper.New(),
		Archive:  archive,
		Clock:    application.SystemClock{},
	}

	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}
	handler := httpserver.NewRouter(svc, cfg.Server.CORSOrigins, checkers)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		// the analyze path waits on a 30s fetch plus one LLM round trip
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
