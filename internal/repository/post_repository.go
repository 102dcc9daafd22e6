package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hungpv1995/blog-seeder/internal/models"
)

// ErrPostNotFound is returned when no post matches the requested id.
var ErrPostNotFound = errors.New("post not found")

// DBTX is the subset of *sql.DB and *sql.Tx the repositories need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type PostRepository struct {
	db   *sql.DB
	conn DBTX
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db, conn: db}
}

// WithTransaction runs fn against a repository bound to a single transaction.
// The transaction is committed when fn returns nil and rolled back otherwise.
func (r *PostRepository) WithTransaction(ctx context.Context, fn func(*PostRepository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&PostRepository{db: r.db, conn: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreatePost inserts a post and fills in its generated ID
func (r *PostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	err := r.conn.QueryRowContext(ctx,
		`INSERT INTO posts (title, content, date_posted, author_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		post.Title, post.Content, post.DatePosted, post.AuthorID,
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// GetPostByID retrieves a post and its author's username
func (r *PostRepository) GetPostByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	err := r.conn.QueryRowContext(ctx,
		`SELECT p.id, p.title, p.content, p.author_id, u.username, p.date_posted
		 FROM posts p JOIN users u ON u.id = p.author_id
		 WHERE p.id = $1`,
		id,
	).Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.Author, &post.DatePosted)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// ListRecentPosts returns up to limit posts, newest first
func (r *PostRepository) ListRecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT p.id, p.title, p.content, p.author_id, u.username, p.date_posted
		 FROM posts p JOIN users u ON u.id = p.author_id
		 ORDER BY p.date_posted DESC, p.id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.Author, &post.DatePosted); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// CountPosts returns the number of rows in the posts table
func (r *PostRepository) CountPosts(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}
