//go:generate go run go.uber.org/mock/mockgen -source=directory.go -destination=../mocks/mock_directory_repository.go -package=mocks

package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chat_store/internal/domain"
	apperrors "chat_store/pkg/errors"
	"chat_store/pkg/logger"
)

// DirectoryRepository keeps the local mirror of users and projects that
// chat rows reference. Deleting a mirror row cascades into chat data.
type DirectoryRepository interface {
	UpsertUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	UpsertProject(ctx context.Context, project *domain.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
}

type directoryRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewDirectoryRepository(db *pgxpool.Pool, log logger.Logger) DirectoryRepository {
	return &directoryRepository{db: db, log: log}
}

func (r *directoryRepository) UpsertUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (id) DO UPDATE
		SET display_name = EXCLUDED.display_name, updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, user.ID, user.DisplayName, user.UpdatedAt).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to upsert user", "user_id", user.ID, "error", err)
		return err
	}
	return nil
}

func (r *directoryRepository) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRow(ctx, `
		SELECT id, display_name, created_at, updated_at FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.DisplayName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		r.log.Error("Failed to get user", "user_id", id, "error", err)
		return nil, err
	}
	return user, nil
}

func (r *directoryRepository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check user", "user_id", id, "error", err)
		return false, err
	}
	return exists, nil
}

func (r *directoryRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete user", "user_id", id, "error", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *directoryRepository) UpsertProject(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, project.ID, project.Name, project.UpdatedAt).Scan(&project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to upsert project", "project_id", project.ID, "error", err)
		return err
	}
	return nil
}

func (r *directoryRepository) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	project := &domain.Project{}
	err := r.db.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at FROM projects WHERE id = $1
	`, id).Scan(&project.ID, &project.Name, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		r.log.Error("Failed to get project", "project_id", id, "error", err)
		return nil, err
	}
	return project, nil
}

func (r *directoryRepository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete project", "project_id", id, "error", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}
