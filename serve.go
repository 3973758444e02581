package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/boxmein-forks/mastodon/edits"
	"github.com/boxmein-forks/mastodon/internal/httpx"
	"github.com/boxmein-forks/mastodon/internal/streaming"
	"github.com/boxmein-forks/mastodon/mastodon"
	"github.com/boxmein-forks/mastodon/models"
	"github.com/boxmein-forks/mastodon/workers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hibiken/asynq"
	"github.com/pkg/group"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
)

type ServeCmd struct {
	Addr  string `help:"address to listen" default:"127.0.0.1:9999"`
	Redis string `help:"address of the redis server" default:"127.0.0.1:6379"`
}

func (s *ServeCmd) Run(ctx *Context) error {
	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}
	if err := configureDB(db); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout))
	cache := redis.NewClient(&redis.Options{Addr: s.Redis})
	defer cache.Close()

	redisOpt := asynq.RedisClientOpt{Addr: s.Redis}
	queue := asynq.NewClient(redisOpt)
	defer queue.Close()
	scheduler := workers.NewPollExpirationScheduler(queue, asynq.NewInspector(redisOpt))

	streams := &streaming.Mux{}
	editor := edits.NewEditor(db, logger, scheduler, streams, cache)

	env := &mastodon.Env{
		Env:     &models.Env{DB: db, Logger: logger},
		Editor:  editor,
		Streams: streams,
		Cache:   cache,
	}
	envFn := func(r *http.Request) *mastodon.Env { return env }

	c := chi.NewRouter()
	c.Use(middleware.RequestID)
	c.Use(middleware.RealIP)
	c.Use(middleware.Logger)
	c.Use(middleware.Recoverer)

	c.Route("/api/v1", func(r chi.Router) {
		r.Route("/statuses/{id:[0-9]+}", func(r chi.Router) {
			r.Get("/", httpx.HandlerFunc(envFn, mastodon.StatusesShow))
			r.Put("/", httpx.HandlerFunc(envFn, mastodon.StatusesUpdate))
			r.Get("/history", httpx.HandlerFunc(envFn, mastodon.StatusesHistoryShow))
			r.Get("/source", httpx.HandlerFunc(envFn, mastodon.StatusesSourceShow))
		})
		r.Route("/streaming", func(r chi.Router) {
			r.Get("/health", httpx.HandlerFunc(envFn, mastodon.StreamingHealth))
			r.Get("/public", httpx.HandlerFunc(envFn, mastodon.StreamingPublic))
		})
	})

	g := group.New(context.Background())
	g.Add(func(ctx context.Context) error {
		svr := &http.Server{
			Addr:         s.Addr,
			Handler:      c,
			WriteTimeout: 15 * time.Second,
			ReadTimeout:  15 * time.Second,
		}
		go func() {
			<-ctx.Done()
			svr.Shutdown(context.Background())
		}()
		logger.Info("http server starting", "addr", s.Addr)
		return svr.ListenAndServe()
	})
	g.Add(func(ctx context.Context) error {
		mux := asynq.NewServeMux()
		mux.Handle(workers.TypePollExpiration, workers.NewPollExpirationHandler(db, logger))
		svr := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 4})
		if err := svr.Start(mux); err != nil {
			return err
		}
		<-ctx.Done()
		svr.Shutdown()
		return nil
	})
	g.Add(workers.NewMediaProcessingProcessor(db, logger))
	g.Add(workers.NewPreviewCardProcessor(db, cache, logger))
	g.Add(workers.NewStatusReprocessProcessor(db, logger))
	g.Add(workers.NewStatusUpdateDeliveryProcessor(db, logger))
	return g.Wait()
}
