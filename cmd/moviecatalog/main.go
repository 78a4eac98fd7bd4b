package main

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	activitystore "github.com/example/movie-catalog/internal/activity/store"
	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
	"github.com/example/movie-catalog/internal/platform/analytics"
	"github.com/example/movie-catalog/internal/platform/config"
	"github.com/example/movie-catalog/internal/platform/db"
	"github.com/example/movie-catalog/internal/platform/httpserver"
	"github.com/example/movie-catalog/internal/platform/logging"
	"github.com/example/movie-catalog/internal/platform/natsconn"
	"github.com/example/movie-catalog/internal/platform/run"
	reviewstore "github.com/example/movie-catalog/internal/review/store"
	"github.com/example/movie-catalog/internal/search"
	viewerstore "github.com/example/movie-catalog/internal/viewer/store"
	"github.com/example/movie-catalog/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	pool, err := db.Open(context.Background())
	if err != nil {
		log.Error("db open", zap.Error(err))
		run.Exit(1)
	}
	defer pool.Close()

	// Analytics is optional: without NATS_URL the publisher stays a no-op.
	var publisher *analytics.Publisher
	if cfg.NATSURL != "" {
		nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL})
		if err != nil {
			log.Warn("nats connect, analytics disabled", zap.Error(err))
		} else {
			defer nc.Close()
			js, err := nc.JetStream(nats.PublishAsyncMaxPending(256))
			if err != nil {
				log.Warn("jetstream init, analytics disabled", zap.Error(err))
			} else {
				publisher = analytics.New(js, log)
			}
		}
	}

	movies := catalogstore.NewPostgresMovieStore(pool)
	activity := activitystore.NewPostgresActivityStore(pool)
	reviews := reviewstore.NewPostgresReviewStore(pool)
	viewers := viewerstore.NewPostgresViewerStore(pool)

	searcher := search.NewService(movies, activity, search.Options{
		CandidateLimit: cfg.Search.CandidateLimit,
		TrendingWindow: time.Duration(cfg.Search.TrendingWindowDays) * 24 * time.Hour,
		TrendingTopN:   cfg.Search.TrendingTopN,
	}, log)

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{
		ReadyFunc: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(ctx)
		},
	})
	web.Register(r, web.Deps{
		Movies:    movies,
		Activity:  activity,
		Reviews:   reviews,
		Viewers:   viewers,
		Search:    searcher,
		Analytics: publisher,
		RateLimit: web.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware,
	})

	srv := httpserver.New(httpserver.Options{
		Addr:        cfg.HTTP.Addr,
		ServiceName: cfg.ServiceName,
		Logger:      log,
		Router:      r,
	})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}
