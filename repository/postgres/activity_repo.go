package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/repository"
)

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository returns a Postgres-backed implementation of ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Append(ctx context.Context, event *domain.Event) error {
	if event == nil || event.WorkspaceID == "" {
		return domain.ErrInvalidPayload
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO activity_events (id, workspace_id, entity_kind, entity_id, action, actor_id, payload, metadata)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at
	`
	return r.pool.QueryRow(ctx, query,
		event.ID, event.WorkspaceID, event.EntityKind, event.EntityID,
		event.Action, nullString(event.ActorID), []byte(event.Payload),
		marshalMap(event.Metadata),
	).Scan(&event.CreatedAt)
}

func (r *activityRepository) List(ctx context.Context, workspaceID, entityKind string, limit int) ([]domain.Event, error) {
	const query = `
	SELECT id, workspace_id, entity_kind, entity_id, action, COALESCE(actor_id, ''), payload, metadata, created_at
	FROM activity_events
	WHERE workspace_id = $1 AND ($2 = '' OR entity_kind = $2)
	ORDER BY created_at DESC
	LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, workspaceID, entityKind, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		var payload, metadata []byte
		if err := rows.Scan(&event.ID, &event.WorkspaceID, &event.EntityKind,
			&event.EntityID, &event.Action, &event.ActorID, &payload,
			&metadata, &event.CreatedAt); err != nil {
			return nil, err
		}
		event.Payload = payload
		event.Metadata = unmarshalMap(metadata)
		events = append(events, event)
	}
	return events, rows.Err()
}
