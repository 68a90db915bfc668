package vault

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/repository"
)

type UseCase struct {
	files    repository.VaultRepository
	activity repository.ActivityRepository
	logger   *zap.Logger
}

func New(files repository.VaultRepository, activity repository.ActivityRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		files:    files,
		activity: activity,
		logger:   logger,
	}
}

func (uc *UseCase) ListFiles(ctx context.Context, workspaceID, folder string) ([]domain.VaultFile, error) {
	return uc.files.List(ctx, workspaceID, folder)
}

func (uc *UseCase) GetFile(ctx context.Context, workspaceID, id string) (*domain.VaultFile, error) {
	return uc.files.GetByID(ctx, workspaceID, id)
}

// RegisterFile stores vault metadata; blob contents live in external
// storage addressed by StorageKey.
func (uc *UseCase) RegisterFile(ctx context.Context, actorID string, file *domain.VaultFile) (*domain.VaultFile, error) {
	if file == nil || file.Name == "" || file.StorageKey == "" {
		return nil, domain.ErrInvalidPayload
	}
	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	file.UploadedBy = actorID
	created, err := uc.files.Create(ctx, file)
	if err != nil {
		return nil, err
	}
	uc.record(ctx, created.WorkspaceID, created.ID, "uploaded", actorID)
	return created, nil
}

func (uc *UseCase) DeleteFile(ctx context.Context, actorID, workspaceID, id string) error {
	if err := uc.files.Delete(ctx, workspaceID, id); err != nil {
		return err
	}
	uc.record(ctx, workspaceID, id, "deleted", actorID)
	return nil
}

func (uc *UseCase) record(ctx context.Context, workspaceID, fileID, action, actorID string) {
	if uc.activity == nil {
		return
	}
	event := domain.NewEvent(workspaceID, "file", fileID, action, actorID, nil)
	if err := uc.activity.Append(ctx, &event); err != nil {
		uc.logger.Warn("failed to record activity", zap.String("action", action), zap.Error(err))
	}
}
