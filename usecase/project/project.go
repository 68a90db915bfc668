package project

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/repository"
)

type UseCase struct {
	projects   repository.ProjectRepository
	categories repository.CategoryRepository
	activity   repository.ActivityRepository
	logger     *zap.Logger
}

func New(
	projects repository.ProjectRepository,
	categories repository.CategoryRepository,
	activity repository.ActivityRepository,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		projects:   projects,
		categories: categories,
		activity:   activity,
		logger:     logger,
	}
}

func (uc *UseCase) ListProjects(ctx context.Context, workspaceID string) ([]domain.Project, error) {
	return uc.projects.List(ctx, workspaceID)
}

func (uc *UseCase) GetProject(ctx context.Context, workspaceID, id string) (*domain.Project, error) {
	return uc.projects.GetByID(ctx, workspaceID, id)
}

func (uc *UseCase) CreateProject(ctx context.Context, actorID string, project *domain.Project) (*domain.Project, error) {
	if project == nil || project.Name == "" {
		return nil, domain.ErrInvalidPayload
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	if project.Status == "" {
		project.Status = "active"
	}
	created, err := uc.projects.Create(ctx, project)
	if err != nil {
		return nil, err
	}
	uc.record(ctx, created.WorkspaceID, "project", created.ID, "created", actorID)
	return created, nil
}

func (uc *UseCase) UpdateProject(ctx context.Context, actorID string, project *domain.Project) (*domain.Project, error) {
	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	uc.record(ctx, project.WorkspaceID, "project", project.ID, "updated", actorID)
	return project, nil
}

func (uc *UseCase) DeleteProject(ctx context.Context, actorID, workspaceID, id string) error {
	if err := uc.projects.Delete(ctx, workspaceID, id); err != nil {
		return err
	}
	uc.record(ctx, workspaceID, "project", id, "deleted", actorID)
	return nil
}

func (uc *UseCase) ListCategories(ctx context.Context, workspaceID, projectID string) ([]domain.Category, error) {
	return uc.categories.List(ctx, workspaceID, projectID)
}

func (uc *UseCase) CreateCategory(ctx context.Context, actorID string, category *domain.Category) (*domain.Category, error) {
	if category == nil || category.Name == "" {
		return nil, domain.ErrInvalidPayload
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if category.ProjectID != "" {
		if _, err := uc.projects.GetByID(ctx, category.WorkspaceID, category.ProjectID); err != nil {
			return nil, err
		}
	}
	created, err := uc.categories.Create(ctx, category)
	if err != nil {
		return nil, err
	}
	uc.record(ctx, created.WorkspaceID, "category", created.ID, "created", actorID)
	return created, nil
}

func (uc *UseCase) UpdateCategory(ctx context.Context, actorID string, category *domain.Category) (*domain.Category, error) {
	if err := uc.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	uc.record(ctx, category.WorkspaceID, "category", category.ID, "updated", actorID)
	return category, nil
}

func (uc *UseCase) DeleteCategory(ctx context.Context, actorID, workspaceID, id string) error {
	if err := uc.categories.Delete(ctx, workspaceID, id); err != nil {
		return err
	}
	uc.record(ctx, workspaceID, "category", id, "deleted", actorID)
	return nil
}

func (uc *UseCase) record(ctx context.Context, workspaceID, kind, entityID, action, actorID string) {
	if uc.activity == nil {
		return
	}
	event := domain.NewEvent(workspaceID, kind, entityID, action, actorID, nil)
	if err := uc.activity.Append(ctx, &event); err != nil {
		uc.logger.Warn("failed to record activity", zap.String("action", action), zap.Error(err))
	}
}
