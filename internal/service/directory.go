package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"chat_store/internal/domain"
	"chat_store/internal/repository"
	apperrors "chat_store/pkg/errors"
	"chat_store/pkg/logger"
)

// DirectoryService receives user and project lifecycle notifications from
// the services that own those records.
type DirectoryService interface {
	SyncUser(ctx context.Context, id uuid.UUID, displayName string) (*domain.User, error)
	// EnsureUser mirrors the user only when it is not known yet.
	EnsureUser(ctx context.Context, id uuid.UUID, displayName string) error
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	SyncProject(ctx context.Context, id uuid.UUID, name string) (*domain.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
}

type directoryService struct {
	directoryRepo repository.DirectoryRepository
	audit         AuditService
	now           Clock
	log           logger.Logger
}

func NewDirectoryService(directoryRepo repository.DirectoryRepository, audit AuditService, now Clock, log logger.Logger) DirectoryService {
	return &directoryService{
		directoryRepo: directoryRepo,
		audit:         audit,
		now:           now,
		log:           log,
	}
}

func (s *directoryService) SyncUser(ctx context.Context, id uuid.UUID, displayName string) (*domain.User, error) {
	if id == uuid.Nil {
		return nil, apperrors.Validation("user id is required")
	}

	user := &domain.User{
		ID:          id,
		DisplayName: strings.TrimSpace(displayName),
		UpdatedAt:   s.now(),
	}
	if err := s.directoryRepo.UpsertUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *directoryService) EnsureUser(ctx context.Context, id uuid.UUID, displayName string) error {
	exists, err := s.directoryRepo.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if _, err := s.SyncUser(ctx, id, displayName); err != nil {
		return err
	}
	s.log.Info("User provisioned", "user_id", id)
	return nil
}

func (s *directoryService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.directoryRepo.GetUser(ctx, id)
}

func (s *directoryService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.directoryRepo.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.audit.LogEvent(ctx, uuid.Nil, nil, domain.EventTypeUserDeleted, map[string]interface{}{
		"user_id": id.String(),
	})
	s.log.Info("User removed", "user_id", id)
	return nil
}

func (s *directoryService) SyncProject(ctx context.Context, id uuid.UUID, name string) (*domain.Project, error) {
	if id == uuid.Nil {
		return nil, apperrors.Validation("project id is required")
	}

	project := &domain.Project{
		ID:        id,
		Name:      strings.TrimSpace(name),
		UpdatedAt: s.now(),
	}
	if err := s.directoryRepo.UpsertProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *directoryService) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return s.directoryRepo.GetProject(ctx, id)
}

func (s *directoryService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.directoryRepo.DeleteProject(ctx, id); err != nil {
		return err
	}

	s.audit.LogEvent(ctx, uuid.Nil, nil, domain.EventTypeProjectDeleted, map[string]interface{}{
		"project_id": id.String(),
	})
	s.log.Info("Project removed", "project_id", id)
	return nil
}
