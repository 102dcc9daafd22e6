package models

import (
	"time"
)

// Post represents a blog post as stored in the posts table
type Post struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   int       `json:"author_id"`
	Author     string    `json:"author,omitempty"`
	DatePosted time.Time `json:"date_posted"`
}

// PostRecord is one element of the posts.json fixture
type PostRecord struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  int    `json:"user_id"`
}

// User is the author a post points at
type User struct {
	ID         int       `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	DateJoined time.Time `json:"date_joined"`
}

// SearchResponse represents search results
type SearchResponse struct {
	Posts []interface{} `json:"posts"`
	Total int           `json:"total"`
}
