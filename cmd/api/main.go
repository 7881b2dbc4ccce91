package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk/internal/config"
	"newsdesk/internal/domain/content"
	httpx "newsdesk/internal/http"
	"newsdesk/internal/services/data"
	"newsdesk/internal/session"
	"newsdesk/internal/store/postgres"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func setupLogging(cfg config.Cfg) {
	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.IsDev() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func main() {
	cfg := config.Load()
	setupLogging(cfg)
	if err := cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init DB
	pool := postgres.MustOpen(ctx, cfg.DB.DSN, cfg.DB.MaxConns)
	defer pool.Close()
	repo := postgres.NewRepo(pool)
	if err := repo.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("db migrate fail")
	}

	// Init sessions
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis ping fail")
	}
	sessions := session.NewManager(
		session.NewSigner(cfg.Session.Secret),
		session.NewStore(rdb, cfg.Session.TTL),
	)

	// Content services
	svc := data.NewService(cfg.List.MaxItemsPerPage)
	data.Register(svc, content.ResourceArticles, repo.Articles())
	data.Register(svc, content.ResourceAuthors, repo.Authors())
	data.Register(svc, content.ResourceCategories, repo.Categories())
	data.Register(svc, content.ResourceSubcategories, repo.Subcategories())
	data.Register(svc, content.ResourceTags, repo.Tags())
	data.Register(svc, content.ResourceUsers, repo.Users())
	data.Register(svc, content.ResourcePhotos, repo.Photos())

	// Router
	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:      cfg,
		DataService: svc,
		Sessions:    sessions,
		Health: map[string]httpx.HealthCheck{
			"db":    pool.Ping,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Msgf("newsdesk API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
