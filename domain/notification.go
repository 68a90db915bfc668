package domain

import "time"

// Notification kinds.
const (
	NotifyTaskDue      = "task_due"
	NotifyTaskAssigned = "task_assigned"
	NotifyInvite       = "invite"
	NotifyMention      = "mention"
)

// Notification is an in-app message for a workspace member. Delivery
// channels (email, push) are external; this service only stores and
// serves them.
type Notification struct {
	ID          string            `json:"id"`
	WorkspaceID string            `json:"workspace_id"`
	MemberID    string            `json:"member_id"`
	Kind        string            `json:"kind"`
	Title       string            `json:"title"`
	Body        string            `json:"body,omitempty"`
	EntityID    string            `json:"entity_id,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Read        bool              `json:"read"`
	CreatedAt   time.Time         `json:"created_at"`
}
