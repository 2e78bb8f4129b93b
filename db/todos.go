package db

import (
	"database/sql"
	"strings"
)

const todoColumns = "id, title, details, status, created_at, updated_at"

// ListOptions holds the optional filter/search/sort parameters for listing
// todos. Zero values mean "no constraint" / "use default".
type ListOptions struct {
	Status    string
	Search    string
	SortBy    string
	SortOrder string
}

// sortableColumns is the allow-list of columns a listing may be ordered by.
// Anything else falls back to created_at. The resolved name is the only
// string ever interpolated into the query text.
var sortableColumns = map[string]bool{
	"id":         true,
	"title":      true,
	"status":     true,
	"created_at": true,
}

// buildQuery compiles the options into a single SELECT statement.
//
// Malformed input never fails the listing: an unknown status filter is
// dropped, an unknown sort column falls back to created_at, and any sort
// order other than "asc" means descending.
func (o ListOptions) buildQuery() (string, []QueryParam) {
	var sb strings.Builder
	var params []QueryParam

	sb.WriteString("SELECT " + todoColumns + " FROM todos")

	var conditions []string

	if status := strings.ToLower(o.Status); IsValidStatus(status) {
		conditions = append(conditions, "status = ?")
		params = append(params, status)
	}

	if o.Search != "" {
		term := "%" + strings.ToLower(o.Search) + "%"
		conditions = append(conditions, "(LOWER(title) LIKE ? OR LOWER(details) LIKE ?)")
		params = append(params, term, term)
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	sortBy := o.SortBy
	if !sortableColumns[sortBy] {
		sortBy = "created_at"
	}

	order := "DESC"
	if strings.EqualFold(o.SortOrder, "asc") {
		order = "ASC"
	}

	sb.WriteString(" ORDER BY " + sortBy + " " + order)

	return sb.String(), params
}

// ListTodos returns all todos matching the given options, ordered by the
// resolved sort column and direction. Ties beyond the sort key keep SQLite
// natural order.
func ListTodos(opts ListOptions) ([]Todo, error) {
	query, params := opts.buildQuery()
	return Select(query, params, func(rows *sql.Rows) (Todo, error) {
		return scanTodo(rows)
	})
}

// GetTodo retrieves a todo by id, or nil if it does not exist
func GetTodo(id int64) (*Todo, error) {
	return SelectOne(
		"SELECT "+todoColumns+" FROM todos WHERE id = ?",
		[]QueryParam{id},
		func(row *sql.Row) (Todo, error) {
			return scanTodo(row)
		},
	)
}

// CreateTodo persists a new todo and returns it with its assigned id
func CreateTodo(title string, details *string, status string) (*Todo, error) {
	now := NowUTC()

	result, err := RunWithResult(`
		INSERT INTO todos (title, details, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, title, NullString(details), status, now, now)
	if err != nil {
		return nil, err
	}

	return &Todo{
		ID:        result.LastInsertID,
		Title:     title,
		Details:   details,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// TodoUpdate holds the fields of a partial update. Nil Title and Status are
// left untouched. Details is written only when DetailsPresent is true; a
// present nil Details clears the column.
type TodoUpdate struct {
	Title          *string
	Details        *string
	DetailsPresent bool
	Status         *string
}

// UpdateTodo applies a partial update to a todo and returns the updated
// record, or nil if no todo with that id exists. updated_at is refreshed on
// every update.
func UpdateTodo(id int64, upd TodoUpdate) (*Todo, error) {
	sets := []string{"updated_at = ?"}
	params := []QueryParam{NowUTC()}

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		params = append(params, *upd.Title)
	}
	if upd.DetailsPresent {
		sets = append(sets, "details = ?")
		params = append(params, NullString(upd.Details))
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		params = append(params, *upd.Status)
	}

	params = append(params, id)

	result, err := RunWithResult(
		"UPDATE todos SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		params...,
	)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return GetTodo(id)
}

// DeleteTodo removes a todo permanently. Returns false if no todo with that
// id exists.
func DeleteTodo(id int64) (bool, error) {
	result, err := RunWithResult("DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected > 0, nil
}

// CountTodos returns the total number of todos
func CountTodos() (int64, error) {
	var count int64
	err := GetDB().QueryRow("SELECT COUNT(*) FROM todos").Scan(&count)
	return count, err
}
