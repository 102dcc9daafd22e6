// Seed tool: inserts the posts from posts.json into the blog database.
// Every record is dated a random 0..48 weeks before now. Running it twice
// inserts the fixture twice.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/hungpv1995/blog-seeder/internal/cache"
	"github.com/hungpv1995/blog-seeder/internal/clients"
	"github.com/hungpv1995/blog-seeder/internal/config"
	"github.com/hungpv1995/blog-seeder/internal/database"
	"github.com/hungpv1995/blog-seeder/internal/logging"
	"github.com/hungpv1995/blog-seeder/internal/repository"
	"github.com/hungpv1995/blog-seeder/internal/search"
	"github.com/hungpv1995/blog-seeder/internal/seed"
)

func main() {
	var fixture string
	var atomic, migrate, checkAuthors, dev bool
	flag.StringVar(&fixture, "fixture", config.DefaultFixturePath, "path to the posts fixture")
	flag.BoolVar(&atomic, "atomic", false, "insert all records in a single transaction")
	flag.BoolVar(&migrate, "migrate", false, "create the schema before seeding")
	flag.BoolVar(&checkAuthors, "check-authors", true, "fail records whose user_id has no user")
	flag.BoolVar(&dev, "dev", false, "human readable debug logging")
	flag.Parse()

	logger, err := logging.New(dev)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

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

	s := seed.New(repository.NewPostRepository(db), logger)
	s.Atomic = atomic
	if checkAuthors {
		s.Authors = repository.NewUserRepository(db)
	}

	if cfg.RedisAddr != "" {
		client, err := clients.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatal("failed to initialize redis", zap.Error(err))
		}
		defer client.Close()
		s.Cache = cache.NewRedisCache(client)
	}

	if cfg.ElasticsearchURL != "" {
		client, err := clients.NewElasticsearch(ctx, cfg.ElasticsearchURL)
		if err != nil {
			logger.Fatal("failed to initialize elasticsearch", zap.Error(err))
		}
		es := search.NewElasticSearch(client)
		if err := es.CreateIndex(ctx); err != nil {
			logger.Fatal("failed to create search index", zap.Error(err))
		}
		s.Indexer = es
	}

	start := time.Now()
	n, err := s.Run(ctx, fixture)
	if err != nil {
		logger.Fatal("seed failed", zap.String("fixture", fixture), zap.Int("inserted", n), zap.Error(err))
	}
	logger.Info("done", zap.Int("inserted", n), zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)))
}
