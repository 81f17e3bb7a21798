package model

import "time"

// Assignment links a mentor to a student. A mentor's viewer scope is the set
// of documents owned by their assigned students.
type Assignment struct {
	ID        string    `json:"id"`
	MentorID  string    `json:"mentor_id"`
	StudentID string    `json:"student_id"`
	CreatedAt time.Time `json:"created_at"`

	// Hydrated from users on reads, never written.
	MentorName  string `json:"mentor_name,omitempty"`
	StudentName string `json:"student_name,omitempty"`
}
