package repository

import (
	"context"

	"github.com/epesicloud-mmg/tasks-backend/domain"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, workspaceID, id string) (*domain.Project, error)
	List(ctx context.Context, workspaceID string) ([]domain.Project, error)
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, workspaceID, id string) error
}

type CategoryRepository interface {
	GetByID(ctx context.Context, workspaceID, id string) (*domain.Category, error)
	List(ctx context.Context, workspaceID, projectID string) ([]domain.Category, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, workspaceID, id string) error
}
