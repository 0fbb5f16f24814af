package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/labelpilot/labelpilot/internal/core"
)

// Postgres unique_violation error code.
const pqUniqueViolation = "23505"

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a catalog backed by the repositories table.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

// Add inserts a new repository row. A (user_id, full_name) conflict is
// reported as core.ErrDuplicateRepository.
func (s *postgresStore) Add(ctx context.Context, userID string, repo Repository) (*Repository, error) {
	now := time.Now().UTC()
	repo.ID = uuid.NewString()
	repo.UserID = userID
	repo.CreatedAt = now
	repo.UpdatedAt = now

	query := `INSERT INTO repositories (id, user_id, name, full_name, description, url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.db.ExecContext(ctx, query,
		repo.ID, repo.UserID, repo.Name, repo.FullName, repo.Description, repo.URL, repo.CreatedAt, repo.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return nil, core.ErrDuplicateRepository
		}
		return nil, fmt.Errorf("failed to insert repository: %w", err)
	}
	return &repo, nil
}

// List returns the user's repositories, oldest first.
func (s *postgresStore) List(ctx context.Context, userID string) ([]Repository, error) {
	query := `
		SELECT id, user_id, name, full_name, description, url, created_at, updated_at
		FROM repositories
		WHERE user_id = $1
		ORDER BY created_at`

	repos := []Repository{}
	if err := s.db.SelectContext(ctx, &repos, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	return repos, nil
}

// Delete removes one repository row and reports whether it existed.
func (s *postgresStore) Delete(ctx context.Context, id, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM repositories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete repository: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
