package usecase

import (
	"context"

	"github.com/epesicloud-mmg/tasks-backend/domain"
)

// OperationBuffer abstracts the offline write buffer so use cases stay
// storage-agnostic.
type OperationBuffer interface {
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
	BufferNotification(ctx context.Context, operation string, n *domain.Notification) error
}
