package main

import (
	"context"
	"flag"
	"net/http"

	"go.uber.org/zap"

	"github.com/hungpv1995/blog-seeder/internal/cache"
	"github.com/hungpv1995/blog-seeder/internal/clients"
	"github.com/hungpv1995/blog-seeder/internal/config"
	"github.com/hungpv1995/blog-seeder/internal/database"
	"github.com/hungpv1995/blog-seeder/internal/handlers"
	"github.com/hungpv1995/blog-seeder/internal/logging"
	"github.com/hungpv1995/blog-seeder/internal/repository"
	"github.com/hungpv1995/blog-seeder/internal/search"
	"github.com/hungpv1995/blog-seeder/internal/views"
)

func main() {
	var migrate, dev bool
	flag.BoolVar(&migrate, "migrate", false, "create the schema on startup")
	flag.BoolVar(&dev, "dev", false, "human readable debug logging")
	flag.Parse()

	logger, err := logging.New(dev)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	// Initialize database
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if migrate {
		if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	checks := map[string]handlers.Pinger{
		"database": handlers.PingFunc(db.PingContext),
	}

	// Redis and Elasticsearch are optional; leave the interfaces nil when off.
	var postCache handlers.PostCache
	if cfg.RedisAddr != "" {
		client, err := clients.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatal("failed to initialize redis", zap.Error(err))
		}
		defer client.Close()
		redisCache := cache.NewRedisCache(client)
		postCache = redisCache
		checks["redis"] = redisCache
	}

	var searcher handlers.PostSearcher
	if cfg.ElasticsearchURL != "" {
		client, err := clients.NewElasticsearch(ctx, cfg.ElasticsearchURL)
		if err != nil {
			logger.Fatal("failed to initialize elasticsearch", zap.Error(err))
		}
		es := search.NewElasticSearch(client)
		if err := es.CreateIndex(ctx); err != nil {
			logger.Warn("failed to create search index", zap.Error(err))
		}
		searcher = es
	}

	renderer, err := views.New()
	if err != nil {
		logger.Fatal("failed to load templates", zap.Error(err))
	}

	repo := repository.NewPostRepository(db)
	r := handlers.NewRouter(
		handlers.NewBlogHandler(repo, postCache, renderer, logger),
		handlers.NewPostHandler(repo, postCache, searcher, logger),
		handlers.NewHealthHandler(checks, logger),
	)

	logger.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := http.ListenAndServe(":"+cfg.ServerPort, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
