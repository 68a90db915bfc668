package services

import (
	"context"
	"encoding/json"

	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/internal/infrastructure/buffer"
	"github.com/epesicloud-mmg/tasks-backend/usecase"
)

type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	if b.processor == nil || task == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	item := buffer.Item{
		ID:          task.ID,
		WorkspaceID: task.WorkspaceID,
		Entity:      buffer.EntityTask,
		Operation:   operation,
		Data:        payload,
		Priority:    4,
	}
	return b.processor.BufferOperation(ctx, item)
}

func (b *BufferBridge) BufferNotification(ctx context.Context, operation string, n *domain.Notification) error {
	if b.processor == nil || n == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	item := buffer.Item{
		ID:          n.ID,
		WorkspaceID: n.WorkspaceID,
		Entity:      buffer.EntityNotification,
		Operation:   operation,
		Data:        payload,
		Priority:    2,
	}
	return b.processor.BufferOperation(ctx, item)
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
