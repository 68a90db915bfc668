package transport

type AuthLoginRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	WorkspaceID string `json:"workspace_id,omitempty"`
	TTL         int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}

type ProfileUpdateRequest struct {
	Name string            `json:"name"`
	Meta map[string]string `json:"metadata"`
}

type WorkspaceRequest struct {
	Name string `json:"name"`
	Plan string `json:"plan"`
}

type MemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Kind   string `json:"kind"`
}

type InvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AcceptInvitationRequest struct {
	Token string `json:"token"`
}

type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Status      string `json:"status"`
	Position    int    `json:"position"`
}

type CategoryRequest struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Position  int    `json:"position"`
}

// RecurrenceRequest mirrors the recurrence rule wire shape. Dates use
// YYYY-MM-DD.
type RecurrenceRequest struct {
	Type        string `json:"type"`
	Interval    int    `json:"interval"`
	WeeklyDays  []int  `json:"weekly_days,omitempty"`
	MonthlyMode string `json:"monthly_mode,omitempty"`
	EndType     string `json:"end_type,omitempty"`
	Count       int    `json:"count,omitempty"`
	Until       string `json:"until,omitempty"`
	Anchor      string `json:"anchor,omitempty"`
}

type TaskRequest struct {
	ProjectID   string             `json:"project_id"`
	CategoryID  string             `json:"category_id"`
	AssigneeID  string             `json:"assignee_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      string             `json:"status"`
	Priority    int                `json:"priority"`
	DueDate     string             `json:"due_date"`
	Metadata    map[string]string  `json:"metadata"`
	Recurrence  *RecurrenceRequest `json:"recurrence,omitempty"`
}

type VaultFileRequest struct {
	Name       string            `json:"name"`
	Folder     string            `json:"folder"`
	MimeType   string            `json:"mime_type"`
	SizeBytes  int64             `json:"size_bytes"`
	StorageKey string            `json:"storage_key"`
	Metadata   map[string]string `json:"metadata"`
}
