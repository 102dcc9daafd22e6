package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/hungpv1995/blog-seeder/internal/models"
	"github.com/hungpv1995/blog-seeder/internal/views"
)

// HomeLimit caps the number of posts listed on the home page.
const HomeLimit = 20

type BlogHandler struct {
	repo   PostStore
	cache  PostCache
	views  *views.Renderer
	logger *zap.Logger
}

func NewBlogHandler(repo PostStore, cache PostCache, renderer *views.Renderer, logger *zap.Logger) *BlogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlogHandler{repo: repo, cache: cache, views: renderer, logger: logger}
}

// Home handles GET /
func (h *BlogHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.recentPosts(r)
	if err != nil {
		h.logger.Error("failed to list posts", zap.Error(err))
		http.Error(w, "Failed to list posts", http.StatusInternalServerError)
		return
	}
	h.render(w, "home", views.Page{Posts: posts})
}

// About handles GET /about
func (h *BlogHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, "about", views.Page{Title: "About"})
}

func (h *BlogHandler) recentPosts(r *http.Request) ([]models.Post, error) {
	ctx := r.Context()
	if h.cache != nil {
		posts, err := h.cache.GetHome(ctx)
		if err != nil {
			h.logger.Warn("cache error", zap.Error(err))
		}
		if posts != nil {
			return posts, nil
		}
	}

	posts, err := h.repo.ListRecentPosts(ctx, HomeLimit)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.SetHome(ctx, posts, CacheTTL); err != nil {
			h.logger.Warn("failed to cache home listing", zap.Error(err))
		}
	}
	return posts, nil
}

func (h *BlogHandler) render(w http.ResponseWriter, name string, page views.Page) {
	if err := h.views.Render(w, name, page); err != nil {
		h.logger.Error("failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
