package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/repository"
)

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a Postgres-backed implementation of NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) List(ctx context.Context, filter repository.NotificationFilter) ([]domain.Notification, error) {
	const query = `
	SELECT id, workspace_id, member_id, kind, title, body, COALESCE(entity_id, ''), metadata, read, created_at
	FROM notifications
	WHERE workspace_id = $1
	  AND member_id = $2
	  AND (NOT $3 OR read = FALSE)
	ORDER BY created_at DESC
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query,
		filter.WorkspaceID, filter.MemberID, filter.UnreadOnly,
		clampLimit(filter.Limit), clampOffset(filter.Offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var metadata []byte
		if err := rows.Scan(&n.ID, &n.WorkspaceID, &n.MemberID, &n.Kind,
			&n.Title, &n.Body, &n.EntityID, &metadata, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Metadata = unmarshalMap(metadata)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	if n == nil || n.WorkspaceID == "" || n.MemberID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO notifications (id, workspace_id, member_id, kind, title, body, entity_id, metadata)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		n.ID, n.WorkspaceID, n.MemberID, n.Kind, n.Title, n.Body,
		nullString(n.EntityID), marshalMap(n.Metadata),
	).Scan(&n.CreatedAt); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *notificationRepository) Exists(ctx context.Context, workspaceID, memberID, kind, entityID string) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1 FROM notifications
		WHERE workspace_id = $1 AND member_id = $2 AND kind = $3 AND entity_id = $4
	)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, workspaceID, memberID, kind, entityID).Scan(&exists)
	return exists, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, workspaceID, id string) error {
	const query = `UPDATE notifications SET read = TRUE WHERE workspace_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, query, workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, workspaceID, memberID string) error {
	const query = `UPDATE notifications SET read = TRUE WHERE workspace_id = $1 AND member_id = $2 AND read = FALSE`
	_, err := r.pool.Exec(ctx, query, workspaceID, memberID)
	return err
}
