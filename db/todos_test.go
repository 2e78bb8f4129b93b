package db_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaoyuanzhu-com/todo-list/db"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "todo-list-db-test-*")
	if err != nil {
		panic(err)
	}
	os.Setenv("TODOS_DATA_DIR", dir)

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}

func clearTodos(t *testing.T) {
	t.Helper()
	_, err := db.Run("DELETE FROM todos")
	require.NoError(t, err)
}

func strPtr(s string) *string {
	return &s
}

func seedTodo(t *testing.T, title string, details *string, status string) *db.Todo {
	t.Helper()
	todo, err := db.CreateTodo(title, details, status)
	require.NoError(t, err)
	require.NotNil(t, todo)
	return todo
}

func TestCreateTodo(t *testing.T) {
	clearTodos(t)
	assert := assert.New(t)

	todo := seedTodo(t, "write report", strPtr("quarterly numbers"), db.StatusInProgress)

	assert.Greater(todo.ID, int64(0))
	assert.Equal("write report", todo.Title)
	assert.Equal("quarterly numbers", *todo.Details)
	assert.Equal(db.StatusInProgress, todo.Status)
	assert.Equal(todo.CreatedAt, todo.UpdatedAt)

	// Round-trip through the store
	got, err := db.GetTodo(todo.ID)
	assert.NoError(err)
	assert.Equal(todo, got)
}

func TestCreateTodoWithoutDetails(t *testing.T) {
	clearTodos(t)
	assert := assert.New(t)

	todo := seedTodo(t, "walk the dog", nil, db.StatusNotStarted)

	got, err := db.GetTodo(todo.ID)
	assert.NoError(err)
	assert.Nil(got.Details)
}

func TestGetTodoNotFound(t *testing.T) {
	clearTodos(t)

	got, err := db.GetTodo(999999)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestListFilterByStatus(t *testing.T) {
	clearTodos(t)
	assert := assert.New(t)

	seedTodo(t, "one", nil, db.StatusNotStarted)
	seedTodo(t, "two", nil, db.StatusCompleted)
	seedTodo(t, "three", nil, db.StatusCompleted)

	todos, err := db.ListTodos(db.ListOptions{Status: "completed"})
	assert.NoError(err)
	assert.Len(todos, 2)
	for _, todo := range todos {
		assert.Equal(db.StatusCompleted, todo.Status)
	}

	// Filter is matched case-insensitively
	todos, err = db.ListTodos(db.ListOptions{Status: "COMPLETED"})
	assert.NoError(err)
	assert.Len(todos, 2)
}

func TestListInvalidStatusIgnored(t *testing.T) {
	clearTodos(t)
	assert := assert.New(t)

	seedTodo(t, "one", nil, db.StatusNotStarted)
	seedTodo(t, "two", nil, db.StatusCompleted)

	// A bogus filter value behaves as if no filter were given
	todos, err := db.ListTodos(db.ListOptions{Status: "bogus"})
	assert.NoError(err)
	assert.Len(todos, 2)
}

func TestListSearch(t *testing.T) {
	clearTodos(t)
	assert := assert.New(t)

	seedTodo(t, "Buy groceries", nil, db.StatusNotStarted)
	seedTodo(t, "Clean house", strPtr("including the GROCERY shelf"), db.StatusNotStarted)
	seedTodo(t, "Pay bills", nil, db.StatusNotStarted)

	// Case-insensitive substring match on title or details
	todos, err := db.ListTodos(db.ListOptions{Search: "groCer"})
	assert.NoError(err)
	assert.Len(todos, 2)

	titles := []string{todos[0].Title, todos[1].Title}
	assert.Contains(titles, "Buy groceries")
	assert.Contains(titles, "Clean house")

	todos, err = db.ListTodos(db.ListOptions{Search: "no such thing"})
	assert.NoError(err)
	assert.Empty(todos)
}

func TestListSortByTitleAsc(t *testing.T) {
	clearTodos(t)
	assert := assert.New(t)

	seedTodo(t, "banana", nil, db.StatusNotStarted)
	seedTodo(t, "apple", nil, db.StatusNotStarted)
	seedTodo(t, "cherry", nil, db.StatusNotStarted)

	todos, err := db.ListTodos(db.ListOptions{SortBy: "title", SortOrder: "asc"})
	assert.NoError(err)
	require.Len(t, todos, 3)
	assert.Equal("apple", todos[0].Title)
	assert.Equal("banana", todos[1].Title)
	assert.Equal("cherry", todos[2].Title)

	// Sort order is matched case-insensitively
	todos, err = db.ListTodos(db.ListOptions{SortBy: "title", SortOrder: "ASC"})
	assert.NoError(err)
	assert.Equal("apple", todos[0].Title)
}

func TestListSortDefaults(t *testing.T) {
	clearTodos(t)
	assert := assert.New(t)

	first := seedTodo(t, "first", nil, db.StatusNotStarted)
	time.Sleep(2 * time.Millisecond)
	second := seedTodo(t, "second", nil, db.StatusNotStarted)

	// Unrecognized sort column falls back to created_at, and anything other
	// than "asc" means descending
	todos, err := db.ListTodos(db.ListOptions{SortBy: "password", SortOrder: "sideways"})
	assert.NoError(err)
	require.Len(t, todos, 2)
	assert.Equal(second.ID, todos[0].ID)
	assert.Equal(first.ID, todos[1].ID)
}

func TestListSortByID(t *testing.T) {
	clearTodos(t)
	assert := assert.New(t)

	a := seedTodo(t, "a", nil, db.StatusNotStarted)
	b := seedTodo(t, "b", nil, db.StatusNotStarted)

	todos, err := db.ListTodos(db.ListOptions{SortBy: "id", SortOrder: "asc"})
	assert.NoError(err)
	require.Len(t, todos, 2)
	assert.Equal(a.ID, todos[0].ID)
	assert.Equal(b.ID, todos[1].ID)
}

func TestUpdateTodoPartial(t *testing.T) {
	clearTodos(t)
	assert := assert.New(t)

	todo := seedTodo(t, "refactor parser", strPtr("split the lexer out"), db.StatusNotStarted)

	time.Sleep(2 * time.Millisecond)

	status := db.StatusCompleted
	updated, err := db.UpdateTodo(todo.ID, db.TodoUpdate{Status: &status})
	assert.NoError(err)
	require.NotNil(t, updated)

	// Only status changed; updated_at advanced
	assert.Equal(db.StatusCompleted, updated.Status)
	assert.Equal(todo.Title, updated.Title)
	assert.Equal(*todo.Details, *updated.Details)
	assert.Equal(todo.CreatedAt, updated.CreatedAt)
	assert.Greater(updated.UpdatedAt, todo.UpdatedAt)
}

func TestUpdateTodoClearDetails(t *testing.T) {
	clearTodos(t)
	assert := assert.New(t)

	todo := seedTodo(t, "trim notes", strPtr("obsolete"), db.StatusNotStarted)

	// A present nil Details clears the column
	updated, err := db.UpdateTodo(todo.ID, db.TodoUpdate{DetailsPresent: true})
	assert.NoError(err)
	require.NotNil(t, updated)
	assert.Nil(updated.Details)
	assert.Equal(todo.Title, updated.Title)

	// An absent Details leaves the value alone
	status := db.StatusInProgress
	updated, err = db.UpdateTodo(todo.ID, db.TodoUpdate{Status: &status})
	assert.NoError(err)
	require.NotNil(t, updated)
	assert.Nil(updated.Details)
}

func TestUpdateTodoNotFound(t *testing.T) {
	clearTodos(t)

	title := "nope"
	updated, err := db.UpdateTodo(123456, db.TodoUpdate{Title: &title})
	assert.NoError(t, err)
	assert.Nil(t, updated)
}

func TestDeleteTodo(t *testing.T) {
	clearTodos(t)
	assert := assert.New(t)

	todo := seedTodo(t, "ephemeral", nil, db.StatusNotStarted)

	deleted, err := db.DeleteTodo(todo.ID)
	assert.NoError(err)
	assert.True(deleted)

	todos, err := db.ListTodos(db.ListOptions{})
	assert.NoError(err)
	assert.Empty(todos)
}

func TestDeleteTodoNotFound(t *testing.T) {
	clearTodos(t)
	assert := assert.New(t)

	seedTodo(t, "survivor", nil, db.StatusNotStarted)

	deleted, err := db.DeleteTodo(999999)
	assert.NoError(err)
	assert.False(deleted)

	// Store unchanged
	count, err := db.CountTodos()
	assert.NoError(err)
	assert.Equal(int64(1), count)
}

func TestSchemaVersion(t *testing.T) {
	version, err := db.GetCurrentVersion()
	assert.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestIDsNeverReused(t *testing.T) {
	clearTodos(t)
	assert := assert.New(t)

	seedTodo(t, "a", nil, db.StatusNotStarted)
	b := seedTodo(t, "b", nil, db.StatusNotStarted)

	deleted, err := db.DeleteTodo(b.ID)
	assert.NoError(err)
	assert.True(deleted)

	c := seedTodo(t, "c", nil, db.StatusNotStarted)
	assert.Greater(c.ID, b.ID)
}
