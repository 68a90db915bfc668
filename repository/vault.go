package repository

import (
	"context"

	"github.com/epesicloud-mmg/tasks-backend/domain"
)

type VaultRepository interface {
	GetByID(ctx context.Context, workspaceID, id string) (*domain.VaultFile, error)
	List(ctx context.Context, workspaceID, folder string) ([]domain.VaultFile, error)
	Create(ctx context.Context, file *domain.VaultFile) (*domain.VaultFile, error)
	Delete(ctx context.Context, workspaceID, id string) error
}
