// Package seed populates the posts table from a JSON fixture.
package seed

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/hungpv1995/blog-seeder/internal/models"
	"github.com/hungpv1995/blog-seeder/internal/repository"
)

// MaxWeeksBack bounds how far in the past a seeded post may be dated.
const MaxWeeksBack = 48

// ErrAuthorNotFound is wrapped in a PersistenceError when a record's user_id
// does not match any user.
var ErrAuthorNotFound = errors.New("author does not exist")

// Indexer receives every committed post for the search index.
type Indexer interface {
	IndexPost(ctx context.Context, post *models.Post) error
}

// Invalidator drops the cached home listing after a run.
type Invalidator interface {
	InvalidateHome(ctx context.Context) error
}

// AuthorLookup checks that a record's user_id names an existing user.
type AuthorLookup interface {
	UserExists(ctx context.Context, id int) (bool, error)
}

// Seeder inserts fixture records into the posts table.
type Seeder struct {
	Posts *repository.PostRepository

	// Authors, when set, is consulted before each insert so dangling
	// user_ids fail even where the store does not enforce foreign keys.
	Authors AuthorLookup
	Indexer Indexer
	Cache   Invalidator

	// Atomic wraps the whole batch in one transaction.
	Atomic bool

	Now    func() time.Time
	Rand   *rand.Rand
	Logger *zap.Logger
}

func New(posts *repository.PostRepository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		Posts:  posts,
		Now:    time.Now,
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger: logger,
	}
}

// Run loads the fixture at path and inserts one post per record. It returns
// the number of rows inserted. Running it twice inserts every record twice.
func (s *Seeder) Run(ctx context.Context, path string) (int, error) {
	records, err := LoadFixture(path)
	if err != nil {
		return 0, err
	}
	s.Logger.Info("fixture loaded", zap.String("path", path), zap.Int("records", len(records)))
	return s.Seed(ctx, records)
}

// Seed inserts the given records.
func (s *Seeder) Seed(ctx context.Context, records []models.PostRecord) (int, error) {
	start := time.Now()
	var inserted []*models.Post

	insertAll := func(repo *repository.PostRepository) error {
		for i, rec := range records {
			post, err := s.insert(ctx, repo, rec)
			if err != nil {
				return &PersistenceError{Index: i, Record: rec, Err: err}
			}
			inserted = append(inserted, post)
		}
		return nil
	}

	var err error
	if s.Atomic {
		err = s.Posts.WithTransaction(ctx, insertAll)
		if err != nil {
			inserted = nil
		}
	} else {
		err = insertAll(s.Posts)
	}

	s.afterInsert(ctx, inserted)

	if err != nil {
		s.Logger.Error("seed run failed",
			zap.Error(err),
			zap.Int("inserted", len(inserted)),
			zap.Bool("atomic", s.Atomic))
		return len(inserted), err
	}
	s.Logger.Info("seed run finished",
		zap.Int("inserted", len(inserted)),
		zap.Duration("elapsed", time.Since(start)))
	return len(inserted), nil
}

func (s *Seeder) insert(ctx context.Context, repo *repository.PostRepository, rec models.PostRecord) (*models.Post, error) {
	if s.Authors != nil {
		ok, err := s.Authors.UserExists(ctx, rec.UserID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAuthorNotFound
		}
	}

	post := &models.Post{
		Title:      rec.Title,
		Content:    rec.Content,
		AuthorID:   rec.UserID,
		DatePosted: s.DatePosted(),
	}
	if err := repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DatePosted returns now minus a uniformly drawn 0..MaxWeeksBack weeks.
func (s *Seeder) DatePosted() time.Time {
	weeks := s.Rand.Intn(MaxWeeksBack + 1)
	return s.Now().UTC().Add(-time.Duration(weeks) * 7 * 24 * time.Hour)
}

// afterInsert pushes committed posts to the search index and drops the
// cached home listing. Failures here are logged and do not fail the run.
func (s *Seeder) afterInsert(ctx context.Context, posts []*models.Post) {
	if len(posts) == 0 {
		return
	}
	if s.Indexer != nil {
		for _, post := range posts {
			if err := s.Indexer.IndexPost(ctx, post); err != nil {
				s.Logger.Warn("failed to index post", zap.Int("post_id", post.ID), zap.Error(err))
			}
		}
	}
	if s.Cache != nil {
		if err := s.Cache.InvalidateHome(ctx); err != nil {
			s.Logger.Warn("failed to invalidate home cache", zap.Error(err))
		}
	}
}
