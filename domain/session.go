package domain

import "time"

// Session represents a cached authentication session stored in Redis.
// ActiveWorkspaceID remembers which workspace the client opened at login
// so it can resume there on its next request.
type Session struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	ActiveWorkspaceID string            `json:"active_workspace_id,omitempty"`
	ExpiresAt         time.Time         `json:"expires_at"`
	CreatedAt         time.Time         `json:"created_at"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}
