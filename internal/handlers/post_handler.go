package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hungpv1995/blog-seeder/internal/models"
	"github.com/hungpv1995/blog-seeder/internal/repository"
	"github.com/hungpv1995/blog-seeder/internal/search"
)

// CacheTTL is how long posts and the home listing stay in Redis.
const CacheTTL = 5 * time.Minute

type PostStore interface {
	GetPostByID(ctx context.Context, id int) (*models.Post, error)
	ListRecentPosts(ctx context.Context, limit int) ([]models.Post, error)
}

type PostCache interface {
	GetPost(ctx context.Context, postID int) (*models.Post, error)
	SetPost(ctx context.Context, post *models.Post, ttl time.Duration) error
	GetHome(ctx context.Context) ([]models.Post, error)
	SetHome(ctx context.Context, posts []models.Post, ttl time.Duration) error
}

type PostSearcher interface {
	SearchPosts(ctx context.Context, query string) ([]search.SearchHit, error)
}

type PostHandler struct {
	repo   PostStore
	cache  PostCache
	search PostSearcher
	logger *zap.Logger
}

// NewPostHandler wires the JSON endpoints. cache and search may be nil.
func NewPostHandler(repo PostStore, cache PostCache, search PostSearcher, logger *zap.Logger) *PostHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostHandler{
		repo:   repo,
		cache:  cache,
		search: search,
		logger: logger,
	}
}

// GetPost handles GET /posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	if h.cache != nil {
		cached, err := h.cache.GetPost(ctx, id)
		if err != nil {
			h.logger.Warn("cache error", zap.Int("post_id", id), zap.Error(err))
		}
		if cached != nil {
			h.logger.Debug("cache hit", zap.Int("post_id", id))
			writeJSON(w, http.StatusOK, cached, h.logger)
			return
		}
		h.logger.Debug("cache miss", zap.Int("post_id", id))
	}

	post, err := h.repo.GetPostByID(ctx, id)
	if errors.Is(err, repository.ErrPostNotFound) {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get post", zap.Int("post_id", id), zap.Error(err))
		http.Error(w, "Failed to get post", http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		if err := h.cache.SetPost(ctx, post, CacheTTL); err != nil {
			h.logger.Warn("failed to cache post", zap.Int("post_id", id), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, post, h.logger)
}

// SearchPosts handles GET /posts/search?q=<query>
func (h *PostHandler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Query parameter is required", http.StatusBadRequest)
		return
	}
	if h.search == nil {
		http.Error(w, "Search is not configured", http.StatusServiceUnavailable)
		return
	}

	hits, err := h.search.SearchPosts(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to search posts", zap.String("query", query), zap.Error(err))
		http.Error(w, "Failed to search posts", http.StatusInternalServerError)
		return
	}

	response := models.SearchResponse{
		Posts: make([]interface{}, len(hits)),
		Total: len(hits),
	}
	for i, hit := range hits {
		response.Posts[i] = hit
	}
	writeJSON(w, http.StatusOK, response, h.logger)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}
