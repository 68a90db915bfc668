package domain

import "time"

// Member roles and kinds. AI assistants join a workspace as regular
// members with kind "agent".
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleAgent  = "agent"

	MemberKindHuman = "human"
	MemberKindAgent = "agent"
)

// Workspace is the top-level tenant boundary. Every other entity carries
// its workspace ID and all queries are scoped by it.
type Workspace struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Slug      string            `json:"slug"`
	OwnerID   string            `json:"owner_id"`
	Plan      string            `json:"plan,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Member ties a user to a workspace with a role.
type Member struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	UserID      string    `json:"user_id"`
	Role        string    `json:"role"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	JoinedAt    time.Time `json:"joined_at"`
}

func (m *Member) CanManage() bool {
	return m != nil && (m.Role == RoleOwner || m.Role == RoleAdmin)
}

// Invitation statuses.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRevoked  = "revoked"
	InvitationExpired  = "expired"
)

// Invitation is a pending offer to join a workspace, redeemed by token.
type Invitation struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Token       string     `json:"token"`
	Status      string     `json:"status"`
	InvitedBy   string     `json:"invited_by"`
	ExpiresAt   time.Time  `json:"expires_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Redeemable reports whether the invitation can still be accepted.
func (i *Invitation) Redeemable(reference time.Time) bool {
	if i == nil || i.Status != InvitationPending {
		return false
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return i.ExpiresAt.After(reference)
}
