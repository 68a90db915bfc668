package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `
	id, workspace_id, COALESCE(project_id, ''), COALESCE(category_id, ''),
	COALESCE(assignee_id, ''), title, description, status, priority, due_date,
	COALESCE(recurrence_id, ''), COALESCE(origin_task_id, ''), sequence_index,
	metadata, created_at, updated_at`

func (r *taskRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Task, error) {
	const query = `
	SELECT` + taskColumns + `
	FROM tasks
	WHERE workspace_id = $1 AND id = $2
	`
	row := r.pool.QueryRow(ctx, query, workspaceID, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT` + taskColumns + `
	FROM tasks
	WHERE workspace_id = $1
	  AND ($2 = '' OR project_id = $2)
	  AND ($3 = '' OR category_id = $3)
	  AND ($4 = '' OR assignee_id = $4)
	  AND ($5 = '' OR status = $5)
	  AND ($6::timestamptz IS NULL OR due_date >= $6)
	  AND ($7::timestamptz IS NULL OR due_date <= $7)
	ORDER BY due_date NULLS LAST, created_at DESC
	LIMIT $8 OFFSET $9
	`
	rows, err := r.pool.Query(ctx, query,
		filter.WorkspaceID,
		filter.ProjectID,
		filter.CategoryID,
		filter.AssigneeID,
		filter.Status,
		filter.DueFrom,
		filter.DueTo,
		clampLimit(filter.Limit),
		clampOffset(filter.Offset),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.Task, error) {
	const query = `
	SELECT` + taskColumns + `
	FROM tasks
	WHERE due_date >= $1 AND due_date <= $2
	  AND status IN ('pending', 'in_progress')
	ORDER BY due_date
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) FindRecurrenceTemplate(ctx context.Context, ruleID string) (*domain.Task, error) {
	const query = `
	SELECT` + taskColumns + `
	FROM tasks
	WHERE recurrence_id = $1 AND origin_task_id IS NULL
	LIMIT 1
	`
	return scanTask(r.pool.QueryRow(ctx, query, ruleID))
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.WorkspaceID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, workspace_id, project_id, category_id, assignee_id,
		title, description, status, priority, due_date,
		recurrence_id, origin_task_id, sequence_index, metadata)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING created_at, updated_at
	`

	var due interface{}
	if task.DueDate != nil {
		due = *task.DueDate
	}

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.WorkspaceID,
		nullString(task.ProjectID),
		nullString(task.CategoryID),
		nullString(task.AssigneeID),
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		due,
		nullString(task.RecurrenceID),
		nullString(task.OriginTaskID),
		task.SequenceIndex,
		marshalMap(task.Metadata),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil || task.WorkspaceID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET project_id = $3,
		category_id = $4,
		assignee_id = $5,
		title = $6,
		description = $7,
		status = $8,
		priority = $9,
		due_date = $10,
		recurrence_id = $11,
		metadata = $12,
		updated_at = NOW()
	WHERE workspace_id = $1 AND id = $2
	RETURNING updated_at
	`

	var due interface{}
	if task.DueDate != nil {
		due = *task.DueDate
	}

	if err := r.pool.QueryRow(ctx, query,
		task.WorkspaceID,
		task.ID,
		nullString(task.ProjectID),
		nullString(task.CategoryID),
		nullString(task.AssigneeID),
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		due,
		nullString(task.RecurrenceID),
		marshalMap(task.Metadata),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, workspaceID, id string) error {
	const query = `DELETE FROM tasks WHERE workspace_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, query, workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		due      *time.Time
		metadata []byte
	)

	if err := row.Scan(
		&task.ID,
		&task.WorkspaceID,
		&task.ProjectID,
		&task.CategoryID,
		&task.AssigneeID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&due,
		&task.RecurrenceID,
		&task.OriginTaskID,
		&task.SequenceIndex,
		&metadata,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.DueDate = due
	task.Metadata = unmarshalMap(metadata)
	return &task, nil
}
