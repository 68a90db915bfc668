package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/repository"
	"github.com/epesicloud-mmg/tasks-backend/usecase"
)

type UseCase struct {
	notifications repository.NotificationRepository
	buffer        usecase.OperationBuffer
	logger        *zap.Logger
}

func New(notifications repository.NotificationRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		notifications: notifications,
		buffer:        buffer,
		logger:        logger,
	}
}

func (uc *UseCase) List(ctx context.Context, filter repository.NotificationFilter) ([]domain.Notification, error) {
	return uc.notifications.List(ctx, filter)
}

// Notify stores an in-app notification, falling back to the offline
// buffer when the store is unavailable.
func (uc *UseCase) Notify(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	if n == nil || n.WorkspaceID == "" || n.MemberID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	created, err := uc.notifications.Create(ctx, n)
	if err != nil {
		if uc.buffer != nil {
			if bufErr := uc.buffer.BufferNotification(ctx, "create", n); bufErr == nil {
				uc.logger.Warn("notification buffered", zap.String("kind", n.Kind))
				return n, nil
			}
		}
		return nil, err
	}
	return created, nil
}

func (uc *UseCase) MarkRead(ctx context.Context, workspaceID, id string) error {
	return uc.notifications.MarkRead(ctx, workspaceID, id)
}

func (uc *UseCase) MarkAllRead(ctx context.Context, workspaceID, memberID string) error {
	return uc.notifications.MarkAllRead(ctx, workspaceID, memberID)
}
