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

type workspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository returns a Postgres-backed implementation of WorkspaceRepository.
func NewWorkspaceRepository(pool *pgxpool.Pool) repository.WorkspaceRepository {
	return &workspaceRepository{pool: pool}
}

func (r *workspaceRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	const query = `
	SELECT id, name, slug, owner_id, COALESCE(plan, ''), metadata, created_at, updated_at
	FROM workspaces
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanWorkspace(row)
}

func (r *workspaceRepository) ListForUser(ctx context.Context, userID string) ([]domain.Workspace, error) {
	const query = `
	SELECT w.id, w.name, w.slug, w.owner_id, COALESCE(w.plan, ''), w.metadata, w.created_at, w.updated_at
	FROM workspaces w
	JOIN workspace_members m ON m.workspace_id = w.id
	WHERE m.user_id = $1 AND m.status = 'active'
	ORDER BY w.created_at
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []domain.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, *ws)
	}
	return workspaces, rows.Err()
}

func (r *workspaceRepository) Create(ctx context.Context, ws *domain.Workspace) (*domain.Workspace, error) {
	if ws == nil || ws.Name == "" {
		return nil, domain.ErrInvalidPayload
	}
	if ws.ID == "" {
		ws.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO workspaces (id, name, slug, owner_id, plan, metadata)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		ws.ID,
		ws.Name,
		ws.Slug,
		ws.OwnerID,
		nullString(ws.Plan),
		marshalMap(ws.Metadata),
	).Scan(&ws.CreatedAt, &ws.UpdatedAt); err != nil {
		return nil, err
	}
	return ws, nil
}

func (r *workspaceRepository) Update(ctx context.Context, ws *domain.Workspace) error {
	if ws == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE workspaces
	SET name = $2, slug = $3, plan = $4, metadata = $5, updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		ws.ID, ws.Name, ws.Slug, nullString(ws.Plan), marshalMap(ws.Metadata),
	).Scan(&ws.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrWorkspaceNotFound
		}
		return err
	}
	return nil
}

func scanWorkspace(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Workspace, error) {
	var ws domain.Workspace
	var metadata []byte

	if err := row.Scan(&ws.ID, &ws.Name, &ws.Slug, &ws.OwnerID, &ws.Plan,
		&metadata, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	ws.Metadata = unmarshalMap(metadata)
	return &ws, nil
}

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository returns a Postgres-backed implementation of MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) repository.MemberRepository {
	return &memberRepository{pool: pool}
}

const memberColumns = `id, workspace_id, user_id, role, kind, status, joined_at`

func (r *memberRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Member, error) {
	const query = `
	SELECT ` + memberColumns + `
	FROM workspace_members
	WHERE workspace_id = $1 AND id = $2
	`
	return scanMember(r.pool.QueryRow(ctx, query, workspaceID, id))
}

func (r *memberRepository) GetByUser(ctx context.Context, workspaceID, userID string) (*domain.Member, error) {
	const query = `
	SELECT ` + memberColumns + `
	FROM workspace_members
	WHERE workspace_id = $1 AND user_id = $2
	`
	return scanMember(r.pool.QueryRow(ctx, query, workspaceID, userID))
}

func (r *memberRepository) List(ctx context.Context, workspaceID string) ([]domain.Member, error) {
	const query = `
	SELECT ` + memberColumns + `
	FROM workspace_members
	WHERE workspace_id = $1
	ORDER BY joined_at
	`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *member)
	}
	return members, rows.Err()
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	if member == nil || member.WorkspaceID == "" || member.UserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	if member.Kind == "" {
		member.Kind = domain.MemberKindHuman
	}
	if member.Status == "" {
		member.Status = "active"
	}

	const query = `
	INSERT INTO workspace_members (id, workspace_id, user_id, role, kind, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING joined_at
	`
	if err := r.pool.QueryRow(ctx, query,
		member.ID, member.WorkspaceID, member.UserID, member.Role, member.Kind, member.Status,
	).Scan(&member.JoinedAt); err != nil {
		return nil, err
	}
	return member, nil
}

func (r *memberRepository) Delete(ctx context.Context, workspaceID, id string) error {
	const query = `DELETE FROM workspace_members WHERE workspace_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, query, workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func scanMember(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Member, error) {
	var m domain.Member
	if err := row.Scan(&m.ID, &m.WorkspaceID, &m.UserID, &m.Role, &m.Kind,
		&m.Status, &m.JoinedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

type invitationRepository struct {
	pool *pgxpool.Pool
}

// NewInvitationRepository returns a Postgres-backed implementation of InvitationRepository.
func NewInvitationRepository(pool *pgxpool.Pool) repository.InvitationRepository {
	return &invitationRepository{pool: pool}
}

const invitationColumns = `id, workspace_id, email, role, token, status, invited_by, expires_at, accepted_at, created_at`

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	const query = `
	SELECT ` + invitationColumns + `
	FROM invitations
	WHERE token = $1
	`
	return scanInvitation(r.pool.QueryRow(ctx, query, token))
}

func (r *invitationRepository) List(ctx context.Context, workspaceID string) ([]domain.Invitation, error) {
	const query = `
	SELECT ` + invitationColumns + `
	FROM invitations
	WHERE workspace_id = $1
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) (*domain.Invitation, error) {
	if inv == nil || inv.WorkspaceID == "" || inv.Email == "" {
		return nil, domain.ErrInvalidPayload
	}
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Token == "" {
		inv.Token = uuid.NewString()
	}
	if inv.Status == "" {
		inv.Status = domain.InvitationPending
	}

	const query = `
	INSERT INTO invitations (id, workspace_id, email, role, token, status, invited_by, expires_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		inv.ID, inv.WorkspaceID, inv.Email, inv.Role, inv.Token, inv.Status,
		nullString(inv.InvitedBy), inv.ExpiresAt,
	).Scan(&inv.CreatedAt); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `
	UPDATE invitations
	SET status = $2,
		accepted_at = CASE WHEN $2 = 'accepted' THEN NOW() ELSE accepted_at END
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

func scanInvitation(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Invitation, error) {
	var inv domain.Invitation
	var invitedBy *string
	if err := row.Scan(&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.Role,
		&inv.Token, &inv.Status, &invitedBy, &inv.ExpiresAt, &inv.AcceptedAt,
		&inv.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	if invitedBy != nil {
		inv.InvitedBy = *invitedBy
	}
	return &inv, nil
}
