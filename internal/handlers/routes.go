package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers the blog's read-only routes.
func NewRouter(blog *BlogHandler, posts *PostHandler, health *HealthHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", blog.Home).Methods(http.MethodGet)
	r.HandleFunc("/about", blog.About).Methods(http.MethodGet)
	r.HandleFunc("/healthz", health.Ready).Methods(http.MethodGet)
	// search must be registered before the {id} route
	r.HandleFunc("/posts/search", posts.SearchPosts).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id}", posts.GetPost).Methods(http.MethodGet)
	return r
}
