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

type vaultRepository struct {
	pool *pgxpool.Pool
}

// NewVaultRepository returns a Postgres-backed implementation of VaultRepository.
func NewVaultRepository(pool *pgxpool.Pool) repository.VaultRepository {
	return &vaultRepository{pool: pool}
}

const vaultColumns = `id, workspace_id, name, COALESCE(folder, ''), COALESCE(mime_type, ''), size_bytes, storage_key, uploaded_by, metadata, created_at, updated_at`

func (r *vaultRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.VaultFile, error) {
	const query = `
	SELECT ` + vaultColumns + `
	FROM vault_files
	WHERE workspace_id = $1 AND id = $2
	`
	return scanVaultFile(r.pool.QueryRow(ctx, query, workspaceID, id))
}

func (r *vaultRepository) List(ctx context.Context, workspaceID, folder string) ([]domain.VaultFile, error) {
	const query = `
	SELECT ` + vaultColumns + `
	FROM vault_files
	WHERE workspace_id = $1 AND ($2 = '' OR folder = $2)
	ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query, workspaceID, folder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []domain.VaultFile
	for rows.Next() {
		file, err := scanVaultFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *file)
	}
	return files, rows.Err()
}

func (r *vaultRepository) Create(ctx context.Context, file *domain.VaultFile) (*domain.VaultFile, error) {
	if file == nil || file.WorkspaceID == "" || file.Name == "" || file.StorageKey == "" {
		return nil, domain.ErrInvalidPayload
	}
	if file.ID == "" {
		file.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO vault_files (id, workspace_id, name, folder, mime_type, size_bytes, storage_key, uploaded_by, metadata)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		file.ID, file.WorkspaceID, file.Name, nullString(file.Folder),
		nullString(file.MimeType), file.SizeBytes, file.StorageKey,
		file.UploadedBy, marshalMap(file.Metadata),
	).Scan(&file.CreatedAt, &file.UpdatedAt); err != nil {
		return nil, err
	}
	return file, nil
}

func (r *vaultRepository) Delete(ctx context.Context, workspaceID, id string) error {
	const query = `DELETE FROM vault_files WHERE workspace_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, query, workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}

func scanVaultFile(row interface {
	Scan(dest ...interface{}) error
}) (*domain.VaultFile, error) {
	var f domain.VaultFile
	var metadata []byte
	if err := row.Scan(&f.ID, &f.WorkspaceID, &f.Name, &f.Folder, &f.MimeType,
		&f.SizeBytes, &f.StorageKey, &f.UploadedBy, &metadata,
		&f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}
	f.Metadata = unmarshalMap(metadata)
	return &f, nil
}
