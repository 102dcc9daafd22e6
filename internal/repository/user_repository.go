package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hungpv1995/blog-seeder/internal/models"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user
func (r *UserRepository) CreateUser(ctx context.Context, username, email string) (*models.User, error) {
	user := models.User{Username: username, Email: email, DateJoined: time.Now().UTC()}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, date_joined) VALUES ($1, $2, $3) RETURNING id`,
		user.Username, user.Email, user.DateJoined,
	).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return &user, nil
}

// UserExists reports whether a user with the given id is present
func (r *UserRepository) UserExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}
