package workspace

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/repository"
)

type UseCase struct {
	workspaces       repository.WorkspaceRepository
	members          repository.MemberRepository
	invitations      repository.InvitationRepository
	users            repository.UserRepository
	activity         repository.ActivityRepository
	invitationExpiry time.Duration
	logger           *zap.Logger
}

func New(
	workspaces repository.WorkspaceRepository,
	members repository.MemberRepository,
	invitations repository.InvitationRepository,
	users repository.UserRepository,
	activity repository.ActivityRepository,
	invitationExpiry time.Duration,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if invitationExpiry <= 0 {
		invitationExpiry = 7 * 24 * time.Hour
	}
	return &UseCase{
		workspaces:       workspaces,
		members:          members,
		invitations:      invitations,
		users:            users,
		activity:         activity,
		invitationExpiry: invitationExpiry,
		logger:           logger,
	}
}

// CreateWorkspace provisions a workspace and enrolls the creator as its
// owner member.
func (uc *UseCase) CreateWorkspace(ctx context.Context, userID, name, plan string) (*domain.Workspace, error) {
	if name == "" {
		return nil, domain.ErrInvalidPayload
	}

	ws := &domain.Workspace{
		ID:      uuid.NewString(),
		Name:    name,
		Slug:    slugify(name),
		OwnerID: userID,
		Plan:    plan,
	}
	created, err := uc.workspaces.Create(ctx, ws)
	if err != nil {
		return nil, err
	}

	owner := &domain.Member{
		ID:          uuid.NewString(),
		WorkspaceID: created.ID,
		UserID:      userID,
		Role:        domain.RoleOwner,
		Kind:        domain.MemberKindHuman,
		Status:      "active",
	}
	if _, err := uc.members.Create(ctx, owner); err != nil {
		return nil, err
	}

	uc.record(ctx, created.ID, "workspace", created.ID, "created", userID)
	return created, nil
}

func (uc *UseCase) ListWorkspaces(ctx context.Context, userID string) ([]domain.Workspace, error) {
	return uc.workspaces.ListForUser(ctx, userID)
}

// GetWorkspace returns the workspace after confirming the caller belongs
// to it.
func (uc *UseCase) GetWorkspace(ctx context.Context, userID, workspaceID string) (*domain.Workspace, error) {
	if _, err := uc.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return uc.workspaces.GetByID(ctx, workspaceID)
}

func (uc *UseCase) ListMembers(ctx context.Context, userID, workspaceID string) ([]domain.Member, error) {
	if _, err := uc.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return uc.members.List(ctx, workspaceID)
}

// AddMember enrolls a user directly. Only owners and admins may manage
// membership. Agent members are enrolled with kind "agent".
func (uc *UseCase) AddMember(ctx context.Context, actorID, workspaceID, userID, role, kind string) (*domain.Member, error) {
	if _, err := uc.requireManager(ctx, workspaceID, actorID); err != nil {
		return nil, err
	}
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if role == "" {
		role = domain.RoleMember
	}
	if kind == "" {
		kind = domain.MemberKindHuman
	}

	member := &domain.Member{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		Kind:        kind,
		Status:      "active",
	}
	created, err := uc.members.Create(ctx, member)
	if err != nil {
		return nil, err
	}
	uc.record(ctx, workspaceID, "member", created.ID, "added", actorID)
	return created, nil
}

func (uc *UseCase) RemoveMember(ctx context.Context, actorID, workspaceID, memberID string) error {
	if _, err := uc.requireManager(ctx, workspaceID, actorID); err != nil {
		return err
	}
	member, err := uc.members.GetByID(ctx, workspaceID, memberID)
	if err != nil {
		return err
	}
	if member.Role == domain.RoleOwner {
		return domain.ErrForbidden
	}
	if err := uc.members.Delete(ctx, workspaceID, memberID); err != nil {
		return err
	}
	uc.record(ctx, workspaceID, "member", memberID, "removed", actorID)
	return nil
}

// Invite creates a pending invitation with an opaque token.
func (uc *UseCase) Invite(ctx context.Context, actorID, workspaceID, email, role string) (*domain.Invitation, error) {
	if _, err := uc.requireManager(ctx, workspaceID, actorID); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, domain.ErrInvalidPayload
	}
	if role == "" {
		role = domain.RoleMember
	}

	inv := &domain.Invitation{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Email:       email,
		Role:        role,
		Token:       uuid.NewString(),
		Status:      domain.InvitationPending,
		InvitedBy:   actorID,
		ExpiresAt:   time.Now().Add(uc.invitationExpiry),
	}
	created, err := uc.invitations.Create(ctx, inv)
	if err != nil {
		return nil, err
	}
	uc.record(ctx, workspaceID, "invitation", created.ID, "created", actorID)
	return created, nil
}

func (uc *UseCase) ListInvitations(ctx context.Context, actorID, workspaceID string) ([]domain.Invitation, error) {
	if _, err := uc.requireManager(ctx, workspaceID, actorID); err != nil {
		return nil, err
	}
	return uc.invitations.List(ctx, workspaceID)
}

// AcceptInvitation redeems a token and enrolls the caller. Expired
// invitations are marked as such on the way out.
func (uc *UseCase) AcceptInvitation(ctx context.Context, userID, token string) (*domain.Member, error) {
	inv, err := uc.invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !inv.Redeemable(now) {
		if inv.Status == domain.InvitationPending && !inv.ExpiresAt.After(now) {
			if err := uc.invitations.UpdateStatus(ctx, inv.ID, domain.InvitationExpired); err != nil {
				uc.logger.Warn("failed to expire invitation", zap.String("invitation_id", inv.ID), zap.Error(err))
			}
		}
		return nil, domain.ErrInvitationClosed
	}

	member := &domain.Member{
		ID:          uuid.NewString(),
		WorkspaceID: inv.WorkspaceID,
		UserID:      userID,
		Role:        inv.Role,
		Kind:        domain.MemberKindHuman,
		Status:      "active",
	}
	created, err := uc.members.Create(ctx, member)
	if err != nil {
		return nil, err
	}

	if err := uc.invitations.UpdateStatus(ctx, inv.ID, domain.InvitationAccepted); err != nil {
		return nil, err
	}

	uc.record(ctx, inv.WorkspaceID, "member", created.ID, "joined", userID)
	return created, nil
}

// Membership resolves the caller's member record; handlers use it for
// workspace scoping.
func (uc *UseCase) Membership(ctx context.Context, workspaceID, userID string) (*domain.Member, error) {
	return uc.requireMember(ctx, workspaceID, userID)
}

func (uc *UseCase) requireMember(ctx context.Context, workspaceID, userID string) (*domain.Member, error) {
	member, err := uc.members.GetByUser(ctx, workspaceID, userID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	return member, nil
}

func (uc *UseCase) requireManager(ctx context.Context, workspaceID, userID string) (*domain.Member, error) {
	member, err := uc.requireMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !member.CanManage() {
		return nil, domain.ErrForbidden
	}
	return member, nil
}

func (uc *UseCase) record(ctx context.Context, workspaceID, kind, entityID, action, actorID string) {
	if uc.activity == nil {
		return
	}
	event := domain.NewEvent(workspaceID, kind, entityID, action, actorID, nil)
	if err := uc.activity.Append(ctx, &event); err != nil {
		uc.logger.Warn("failed to record activity", zap.String("action", action), zap.Error(err))
	}
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	return strings.Trim(slug, "-")
}
