package repository

import (
	"context"

	"github.com/epesicloud-mmg/tasks-backend/domain"
)

type WorkspaceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Workspace, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Workspace, error)
	Create(ctx context.Context, ws *domain.Workspace) (*domain.Workspace, error)
	Update(ctx context.Context, ws *domain.Workspace) error
}

type MemberRepository interface {
	GetByID(ctx context.Context, workspaceID, id string) (*domain.Member, error)
	GetByUser(ctx context.Context, workspaceID, userID string) (*domain.Member, error)
	List(ctx context.Context, workspaceID string) ([]domain.Member, error)
	Create(ctx context.Context, member *domain.Member) (*domain.Member, error)
	Delete(ctx context.Context, workspaceID, id string) error
}

type InvitationRepository interface {
	GetByToken(ctx context.Context, token string) (*domain.Invitation, error)
	List(ctx context.Context, workspaceID string) ([]domain.Invitation, error)
	Create(ctx context.Context, inv *domain.Invitation) (*domain.Invitation, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
