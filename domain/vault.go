package domain

import "time"

// VaultFile is file-vault metadata. Blob contents live in external
// storage; StorageKey is the opaque pointer into it.
type VaultFile struct {
	ID          string            `json:"id"`
	WorkspaceID string            `json:"workspace_id"`
	Name        string            `json:"name"`
	Folder      string            `json:"folder,omitempty"`
	MimeType    string            `json:"mime_type,omitempty"`
	SizeBytes   int64             `json:"size_bytes"`
	StorageKey  string            `json:"storage_key"`
	UploadedBy  string            `json:"uploaded_by"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
