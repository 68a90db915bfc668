package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/repository"
)

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed implementation of ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `id, workspace_id, name, description, COALESCE(color, ''), status, position, created_at, updated_at`

func (r *projectRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Project, error) {
	const query = `
	SELECT ` + projectColumns + `
	FROM projects
	WHERE workspace_id = $1 AND id = $2
	`
	return scanProject(r.pool.QueryRow(ctx, query, workspaceID, id))
}

func (r *projectRepository) List(ctx context.Context, workspaceID string) ([]domain.Project, error) {
	const query = `
	SELECT ` + projectColumns + `
	FROM projects
	WHERE workspace_id = $1
	ORDER BY position, created_at
	`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil || project.WorkspaceID == "" || project.Name == "" {
		return nil, domain.ErrInvalidPayload
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	if project.Status == "" {
		project.Status = "active"
	}

	const query = `
	INSERT INTO projects (id, workspace_id, name, description, color, status, position)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		project.ID, project.WorkspaceID, project.Name, project.Description,
		nullString(project.Color), project.Status, project.Position,
	).Scan(&project.CreatedAt, &project.UpdatedAt); err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE projects
	SET name = $3, description = $4, color = $5, status = $6, position = $7, updated_at = NOW()
	WHERE workspace_id = $1 AND id = $2
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		project.WorkspaceID, project.ID, project.Name, project.Description,
		nullString(project.Color), project.Status, project.Position,
	).Scan(&project.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProjectNotFound
		}
		return err
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, workspaceID, id string) error {
	const query = `DELETE FROM projects WHERE workspace_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, query, workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func scanProject(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(&p.ID, &p.WorkspaceID, &p.Name, &p.Description, &p.Color,
		&p.Status, &p.Position, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a Postgres-backed implementation of CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) repository.CategoryRepository {
	return &categoryRepository{pool: pool}
}

const categoryColumns = `id, workspace_id, COALESCE(project_id, ''), name, COALESCE(color, ''), position, created_at, updated_at`

func (r *categoryRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Category, error) {
	const query = `
	SELECT ` + categoryColumns + `
	FROM categories
	WHERE workspace_id = $1 AND id = $2
	`
	return scanCategory(r.pool.QueryRow(ctx, query, workspaceID, id))
}

func (r *categoryRepository) List(ctx context.Context, workspaceID, projectID string) ([]domain.Category, error) {
	const query = `
	SELECT ` + categoryColumns + `
	FROM categories
	WHERE workspace_id = $1 AND ($2 = '' OR project_id = $2)
	ORDER BY position, created_at
	`
	rows, err := r.pool.Query(ctx, query, workspaceID, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil || category.WorkspaceID == "" || category.Name == "" {
		return nil, domain.ErrInvalidPayload
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO categories (id, workspace_id, project_id, name, color, position)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		category.ID, category.WorkspaceID, nullString(category.ProjectID),
		category.Name, nullString(category.Color), category.Position,
	).Scan(&category.CreatedAt, &category.UpdatedAt); err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if category == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE categories
	SET name = $3, color = $4, position = $5, updated_at = NOW()
	WHERE workspace_id = $1 AND id = $2
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		category.WorkspaceID, category.ID, category.Name,
		nullString(category.Color), category.Position,
	).Scan(&category.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCategoryNotFound
		}
		return err
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, workspaceID, id string) error {
	const query = `DELETE FROM categories WHERE workspace_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, query, workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.WorkspaceID, &c.ProjectID, &c.Name, &c.Color,
		&c.Position, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}
