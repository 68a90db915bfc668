package domain

import "time"

// Task statuses.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskArchived   = "archived"
)

// Task represents a workspace-scoped activity item. A task row may also be
// a materialized occurrence of a recurring series, in which case
// RecurrenceID, OriginTaskID and SequenceIndex are set.
type Task struct {
	ID            string            `json:"id"`
	WorkspaceID   string            `json:"workspace_id"`
	ProjectID     string            `json:"project_id,omitempty"`
	CategoryID    string            `json:"category_id,omitempty"`
	AssigneeID    string            `json:"assignee_id,omitempty"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	Status        string            `json:"status"`
	Priority      int               `json:"priority"`
	DueDate       *time.Time        `json:"due_date,omitempty"`
	RecurrenceID  string            `json:"recurrence_id,omitempty"`
	OriginTaskID  string            `json:"origin_task_id,omitempty"`
	SequenceIndex *int              `json:"sequence_index,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == TaskCompleted
}

// IsRecurring reports whether the task is the template of a recurring series.
func (t *Task) IsRecurring() bool {
	return t != nil && t.RecurrenceID != "" && t.OriginTaskID == ""
}
