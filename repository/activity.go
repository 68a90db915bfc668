package repository

import (
	"context"

	"github.com/epesicloud-mmg/tasks-backend/domain"
)

// ActivityRepository appends and lists workspace activity events.
type ActivityRepository interface {
	Append(ctx context.Context, event *domain.Event) error
	List(ctx context.Context, workspaceID, entityKind string, limit int) ([]domain.Event, error)
}
