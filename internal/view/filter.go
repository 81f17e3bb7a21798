package view

import (
	"strings"
	"time"

	"mentorlink/internal/model"
)

// All is the passthrough selector for the category and status criteria.
const All = "all"

// Criteria are the filter parameters applied to a document collection.
// Category selects by category name, not ID, and documents without a
// category never match a specific name. An empty selector behaves like All.
type Criteria struct {
	Query    string
	Category string
	Status   string
	From     *time.Time
	To       *time.Time
}

// DefaultCriteria returns the criteria that let every document through.
func DefaultCriteria() Criteria {
	return Criteria{Category: All, Status: All}
}

// Apply returns the documents satisfying every criterion, preserving the
// input order. It is a pure projection: the input is never mutated and the
// result is a fresh slice. An inverted date range is not an error; it simply
// matches nothing.
func Apply(docs []model.Document, c Criteria) []model.Document {
	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if matches(d, c) {
			out = append(out, d)
		}
	}
	return out
}

func matches(d model.Document, c Criteria) bool {
	if q := strings.TrimSpace(c.Query); q != "" {
		if !strings.Contains(strings.ToLower(d.FileName), strings.ToLower(q)) {
			return false
		}
	}
	if c.Category != "" && c.Category != All {
		if d.CategoryName == "" || d.CategoryName != c.Category {
			return false
		}
	}
	if c.Status != "" && c.Status != All {
		if string(d.Status) != c.Status {
			return false
		}
	}
	if c.From != nil && d.CreatedAt.Before(*c.From) {
		return false
	}
	if c.To != nil && d.CreatedAt.After(*c.To) {
		return false
	}
	return true
}
