package domain

import (
	"encoding/json"
	"time"
)

// Event is an append-only activity record written whenever a workspace
// entity is mutated. It backs audit trails and activity feeds.
type Event struct {
	ID          string            `json:"id"`
	WorkspaceID string            `json:"workspace_id"`
	EntityKind  string            `json:"entity_kind"`
	EntityID    string            `json:"entity_id"`
	Action      string            `json:"action"`
	ActorID     string            `json:"actor_id,omitempty"`
	Payload     json.RawMessage   `json:"payload,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewEvent builds an activity event, marshalling the payload best-effort.
func NewEvent(workspaceID, entityKind, entityID, action, actorID string, payload interface{}) Event {
	var raw json.RawMessage
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			raw = b
		}
	}
	return Event{
		WorkspaceID: workspaceID,
		EntityKind:  entityKind,
		EntityID:    entityID,
		Action:      action,
		ActorID:     actorID,
		Payload:     raw,
	}
}
