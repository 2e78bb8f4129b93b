package db

import (
	"database/sql"
	"time"
)

// Todo represents a task item record
type Todo struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Details   *string `json:"details"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// Todo status constants
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// todoStatuses is the set of valid status values
var todoStatuses = map[string]bool{
	StatusNotStarted: true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// IsValidStatus reports whether s is one of the defined status values
func IsValidStatus(s string) bool {
	return todoStatuses[s]
}

// timestampLayout is ISO-8601 UTC with microsecond precision.
// Fixed-width fractional digits keep timestamps lexicographically sortable.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// NowUTC returns the current UTC time formatted for storage
func NowUTC() string {
	return time.Now().UTC().Format(timestampLayout)
}

// scanTodo scans a row into a Todo
func scanTodo(row interface{ Scan(...any) error }) (Todo, error) {
	var t Todo
	var details sql.NullString
	err := row.Scan(&t.ID, &t.Title, &details, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if details.Valid {
		t.Details = &details.String
	}
	return t, err
}

// NullString converts *string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
