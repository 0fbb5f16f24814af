// Package catalog stores the repositories each user has connected to the
// service. The primary implementation is Postgres; when no database is
// configured or reachable the application falls back to an in-memory store
// with identical semantics.
package catalog

import (
	"context"
	"time"
)

// Repository is one connected repository in a user's collection.
type Repository struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	FullName    string    `db:"full_name" json:"full_name"`
	Description string    `db:"description" json:"description"`
	URL         string    `db:"url" json:"url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Store defines the catalog operations. FullName is unique within a user's
// collection; Add returns core.ErrDuplicateRepository on conflict.
type Store interface {
	Add(ctx context.Context, userID string, repo Repository) (*Repository, error)
	List(ctx context.Context, userID string) ([]Repository, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}
