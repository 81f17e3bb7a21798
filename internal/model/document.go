package model

import "time"

// DocumentStatus is the review lifecycle state of a submitted document.
// Transitions are one-directional: pending moves exactly once to either
// approved or rejected.
type DocumentStatus string

const (
	StatusPending  DocumentStatus = "pending"
	StatusApproved DocumentStatus = "approved"
	StatusRejected DocumentStatus = "rejected"
)

func (s DocumentStatus) String() string {
	return string(s)
}

func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Reviewed reports whether the status is a terminal review verdict.
func (s DocumentStatus) Reviewed() bool {
	return s == StatusApproved || s == StatusRejected
}

// Document represents one submitted file under review.
//
// OwnerName and CategoryName are joined fields populated by hydrating reads;
// they are empty on partial rows (e.g. straight after an insert without a
// follow-up fetch).
type Document struct {
	ID           string         `json:"id"`
	OwnerID      string         `json:"owner_id"`
	OwnerName    string         `json:"owner_name,omitempty"`
	CategoryID   *string        `json:"category_id,omitempty"`
	CategoryName string         `json:"category_name,omitempty"`
	FileName     string         `json:"file_name"`
	StoragePath  string         `json:"storage_path"`
	Size         int64          `json:"size"`
	ContentType  string         `json:"content_type"`
	Description  *string        `json:"description,omitempty"`
	Status       DocumentStatus `json:"status"`
	Feedback     *string        `json:"feedback,omitempty"`
	ReviewedBy   *string        `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
