// Package domain contains the core data structures for the application,
// independent of the database or API layers.
package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used for due dates.
const DateLayout = "2006-01-02"

// DefaultDueDateOffset is how far ahead a new todo is due when the caller
// does not supply a date.
const DefaultDueDateOffset = 7 * 24 * time.Hour

// Todo is a single to-do item owned by one user.
type Todo struct {
	TodoID        string `json:"todoId"`
	UserID        string `json:"userId"`
	CreatedAt     string `json:"createdAt"`
	Name          string `json:"name"`
	DueDate       string `json:"dueDate"`
	Done          bool   `json:"done"`
	Note          string `json:"note"`
	AttachmentURL string `json:"attachmentUrl,omitempty"`
	Version       int    `json:"version"`
}

// TodoUpdate carries the fields replaced by a full update.
// ExpectedVersion, when set, turns the update into a compare-and-set.
type TodoUpdate struct {
	Name            string
	DueDate         string
	Done            bool
	ExpectedVersion *int
}

// DefaultDueDate returns the due date assigned to todos created at now.
func DefaultDueDate(now time.Time) string {
	return now.Add(DefaultDueDateOffset).Format(DateLayout)
}

// ValidDate reports whether s is a calendar date in DateLayout.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidName reports whether name is acceptable as a todo name.
func ValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}
