package repository

import (
	"context"

	"github.com/epesicloud-mmg/tasks-backend/domain"
)

type NotificationFilter struct {
	WorkspaceID string
	MemberID    string
	UnreadOnly  bool
	Limit       int
	Offset      int
}

type NotificationRepository interface {
	List(ctx context.Context, filter NotificationFilter) ([]domain.Notification, error)
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	// Exists reports whether an equivalent notification was already sent;
	// the due-soon sweep uses it to stay idempotent.
	Exists(ctx context.Context, workspaceID, memberID, kind, entityID string) (bool, error)
	MarkRead(ctx context.Context, workspaceID, id string) error
	MarkAllRead(ctx context.Context, workspaceID, memberID string) error
}
