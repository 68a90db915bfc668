package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/epesicloud-mmg/tasks-backend/domain"
)

type fakeWorkspaceRepo struct {
	workspaces map[string]*domain.Workspace
	members    *fakeMemberRepo
}

func (f *fakeWorkspaceRepo) GetByID(_ context.Context, id string) (*domain.Workspace, error) {
	ws, ok := f.workspaces[id]
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	copied := *ws
	return &copied, nil
}

func (f *fakeWorkspaceRepo) ListForUser(_ context.Context, userID string) ([]domain.Workspace, error) {
	var out []domain.Workspace
	for _, member := range f.members.members {
		if member.UserID != userID {
			continue
		}
		if ws, ok := f.workspaces[member.WorkspaceID]; ok {
			out = append(out, *ws)
		}
	}
	return out, nil
}

func (f *fakeWorkspaceRepo) Create(_ context.Context, ws *domain.Workspace) (*domain.Workspace, error) {
	copied := *ws
	f.workspaces[ws.ID] = &copied
	return ws, nil
}

func (f *fakeWorkspaceRepo) Update(_ context.Context, ws *domain.Workspace) error {
	if _, ok := f.workspaces[ws.ID]; !ok {
		return domain.ErrWorkspaceNotFound
	}
	copied := *ws
	f.workspaces[ws.ID] = &copied
	return nil
}

type fakeMemberRepo struct {
	members map[string]*domain.Member
}

func (f *fakeMemberRepo) GetByID(_ context.Context, workspaceID, id string) (*domain.Member, error) {
	member, ok := f.members[id]
	if !ok || member.WorkspaceID != workspaceID {
		return nil, domain.ErrMemberNotFound
	}
	copied := *member
	return &copied, nil
}

func (f *fakeMemberRepo) GetByUser(_ context.Context, workspaceID, userID string) (*domain.Member, error) {
	for _, member := range f.members {
		if member.WorkspaceID == workspaceID && member.UserID == userID {
			copied := *member
			return &copied, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (f *fakeMemberRepo) List(_ context.Context, workspaceID string) ([]domain.Member, error) {
	var out []domain.Member
	for _, member := range f.members {
		if member.WorkspaceID == workspaceID {
			out = append(out, *member)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) Create(_ context.Context, member *domain.Member) (*domain.Member, error) {
	copied := *member
	f.members[member.ID] = &copied
	return member, nil
}

func (f *fakeMemberRepo) Delete(_ context.Context, workspaceID, id string) error {
	member, ok := f.members[id]
	if !ok || member.WorkspaceID != workspaceID {
		return domain.ErrMemberNotFound
	}
	delete(f.members, id)
	return nil
}

type fakeInvitationRepo struct {
	invitations map[string]*domain.Invitation
}

func (f *fakeInvitationRepo) GetByToken(_ context.Context, token string) (*domain.Invitation, error) {
	for _, inv := range f.invitations {
		if inv.Token == token {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, domain.ErrInvitationNotFound
}

func (f *fakeInvitationRepo) List(_ context.Context, workspaceID string) ([]domain.Invitation, error) {
	var out []domain.Invitation
	for _, inv := range f.invitations {
		if inv.WorkspaceID == workspaceID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) Create(_ context.Context, inv *domain.Invitation) (*domain.Invitation, error) {
	copied := *inv
	f.invitations[inv.ID] = &copied
	return inv, nil
}

func (f *fakeInvitationRepo) UpdateStatus(_ context.Context, id, status string) error {
	inv, ok := f.invitations[id]
	if !ok {
		return domain.ErrInvitationNotFound
	}
	inv.Status = status
	return nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Upsert(_ context.Context, user *domain.User) error {
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func newTestUseCase() (*UseCase, *fakeMemberRepo, *fakeInvitationRepo, *fakeUserRepo) {
	members := &fakeMemberRepo{members: make(map[string]*domain.Member)}
	workspaces := &fakeWorkspaceRepo{workspaces: make(map[string]*domain.Workspace), members: members}
	invitations := &fakeInvitationRepo{invitations: make(map[string]*domain.Invitation)}
	users := &fakeUserRepo{users: map[string]*domain.User{
		"user-owner": {ID: "user-owner", Email: "owner@example.com", Status: "active"},
		"user-bob":   {ID: "user-bob", Email: "bob@example.com", Status: "active"},
	}}
	uc := New(workspaces, members, invitations, users, nil, 7*24*time.Hour, nil)
	return uc, members, invitations, users
}

func TestCreateWorkspaceEnrollsOwner(t *testing.T) {
	uc, members, _, _ := newTestUseCase()

	ws, err := uc.CreateWorkspace(context.Background(), "user-owner", "Family Chores", "free")
	if err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}
	if ws.Slug != "family-chores" {
		t.Errorf("slug = %q, want family-chores", ws.Slug)
	}

	member, err := members.GetByUser(context.Background(), ws.ID, "user-owner")
	if err != nil {
		t.Fatalf("owner not enrolled: %v", err)
	}
	if member.Role != domain.RoleOwner {
		t.Errorf("owner role = %q, want owner", member.Role)
	}
	if !member.CanManage() {
		t.Error("owner should be able to manage the workspace")
	}
}

func TestGetWorkspaceRequiresMembership(t *testing.T) {
	uc, _, _, _ := newTestUseCase()

	ws, err := uc.CreateWorkspace(context.Background(), "user-owner", "Team", "")
	if err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}

	if _, err := uc.GetWorkspace(context.Background(), "user-bob", ws.ID); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("err = %v, want FORBIDDEN for non-member", err)
	}
	if _, err := uc.GetWorkspace(context.Background(), "user-owner", ws.ID); err != nil {
		t.Fatalf("owner access failed: %v", err)
	}
}

func TestAddMemberRequiresManagerRole(t *testing.T) {
	uc, members, _, _ := newTestUseCase()

	ws, _ := uc.CreateWorkspace(context.Background(), "user-owner", "Team", "")

	plain := &domain.Member{ID: "m-plain", WorkspaceID: ws.ID, UserID: "user-bob", Role: domain.RoleMember, Kind: domain.MemberKindHuman, Status: "active"}
	if _, err := members.Create(context.Background(), plain); err != nil {
		t.Fatalf("Create member: %v", err)
	}

	if _, err := uc.AddMember(context.Background(), "user-bob", ws.ID, "user-owner", "", ""); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("err = %v, want FORBIDDEN for plain member", err)
	}
}

func TestRemoveOwnerForbidden(t *testing.T) {
	uc, members, _, _ := newTestUseCase()

	ws, _ := uc.CreateWorkspace(context.Background(), "user-owner", "Team", "")
	owner, _ := members.GetByUser(context.Background(), ws.ID, "user-owner")

	if err := uc.RemoveMember(context.Background(), "user-owner", ws.ID, owner.ID); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("err = %v, want FORBIDDEN when removing the owner", err)
	}
}

func TestInvitationLifecycle(t *testing.T) {
	uc, members, _, _ := newTestUseCase()

	ws, _ := uc.CreateWorkspace(context.Background(), "user-owner", "Team", "")

	inv, err := uc.Invite(context.Background(), "user-owner", ws.ID, "bob@example.com", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}
	if inv.Status != domain.InvitationPending {
		t.Fatalf("invitation status = %q, want pending", inv.Status)
	}
	if inv.Token == "" {
		t.Fatal("invitation token empty")
	}

	member, err := uc.AcceptInvitation(context.Background(), "user-bob", inv.Token)
	if err != nil {
		t.Fatalf("AcceptInvitation: %v", err)
	}
	if member.Role != domain.RoleAdmin {
		t.Errorf("member role = %q, want role carried from invitation", member.Role)
	}

	if _, err := members.GetByUser(context.Background(), ws.ID, "user-bob"); err != nil {
		t.Fatalf("accepted user not enrolled: %v", err)
	}

	// A token can be redeemed once.
	if _, err := uc.AcceptInvitation(context.Background(), "user-bob", inv.Token); !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("err = %v, want CONFLICT on second redemption", err)
	}
}

func TestAcceptExpiredInvitation(t *testing.T) {
	uc, _, invitations, _ := newTestUseCase()

	ws, _ := uc.CreateWorkspace(context.Background(), "user-owner", "Team", "")

	expired := &domain.Invitation{
		ID:          "inv-old",
		WorkspaceID: ws.ID,
		Email:       "bob@example.com",
		Role:        domain.RoleMember,
		Token:       "stale-token",
		Status:      domain.InvitationPending,
		InvitedBy:   "user-owner",
		ExpiresAt:   time.Now().Add(-time.Hour),
	}
	if _, err := invitations.Create(context.Background(), expired); err != nil {
		t.Fatalf("Create invitation: %v", err)
	}

	if _, err := uc.AcceptInvitation(context.Background(), "user-bob", "stale-token"); !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("err = %v, want CONFLICT for expired invitation", err)
	}

	if invitations.invitations["inv-old"].Status != domain.InvitationExpired {
		t.Errorf("invitation status = %q, want marked expired", invitations.invitations["inv-old"].Status)
	}
}

func TestInviteRequiresManager(t *testing.T) {
	uc, members, _, _ := newTestUseCase()

	ws, _ := uc.CreateWorkspace(context.Background(), "user-owner", "Team", "")
	plain := &domain.Member{ID: "m-plain", WorkspaceID: ws.ID, UserID: "user-bob", Role: domain.RoleMember, Kind: domain.MemberKindHuman, Status: "active"}
	if _, err := members.Create(context.Background(), plain); err != nil {
		t.Fatalf("Create member: %v", err)
	}

	if _, err := uc.Invite(context.Background(), "user-bob", ws.ID, "eve@example.com", ""); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("err = %v, want FORBIDDEN", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Family Chores":   "family-chores",
		"  Q3 Planning  ": "q3-planning",
		"Ops/Infra Team!": "opsinfra-team",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
