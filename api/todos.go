package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/todo-list/db"
	"github.com/xiaoyuanzhu-com/todo-list/log"
)

type createTodoRequest struct {
	Title   string  `json:"title" validate:"required,max=255"`
	Details *string `json:"details"`
	Status  string  `json:"status" validate:"required,oneof=not_started in_progress completed"`
}

// nullableString distinguishes an explicit JSON null from an absent field.
// UnmarshalJSON only runs when the key is present in the body.
type nullableString struct {
	Present bool
	Value   *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Present = true
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// omitnil rather than omitempty: a supplied-but-empty title must still fail
// required, while an absent field stays untouched. details is nullable: an
// explicit null clears the stored value, an absent key leaves it untouched.
type updateTodoRequest struct {
	Title   *string        `json:"title" validate:"omitnil,required,max=255"`
	Details nullableString `json:"details"`
	Status  *string        `json:"status" validate:"omitnil,required,oneof=not_started in_progress completed"`
}

// ListTodos handles GET /api/todos
//
// Optional query parameters: status (not_started/in_progress/completed),
// search (matches title or details, case-insensitive), sort_by
// (id/title/status/created_at, default created_at), sort_order (asc/desc,
// default desc). Malformed values degrade to defaults rather than failing
// the listing.
func ListTodos(c *gin.Context) {
	opts := db.ListOptions{
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	todos, err := db.ListTodos(opts)
	if err != nil {
		log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("failed to list todos")
		RespondInternalError(c, "An error occurred while fetching todos", err)
		return
	}

	if todos == nil {
		todos = []db.Todo{}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   todos,
		"count":  len(todos),
	})
}

// CreateTodo handles POST /api/todos
func CreateTodo(c *gin.Context) {
	var body createTodoRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	if errs := validateStruct(body); errs != nil {
		RespondValidationErrors(c, errs)
		return
	}

	todo, err := db.CreateTodo(body.Title, body.Details, body.Status)
	if err != nil {
		log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("failed to create todo")
		RespondInternalError(c, "Failed to create todo", err)
		return
	}

	c.JSON(http.StatusCreated, todo)
}

// UpdateTodo handles PUT /api/todos/:id
//
// Any subset of {title, details, status} may be supplied; absent fields are
// left unchanged.
func UpdateTodo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondNotFound(c, "Todo not found")
		return
	}

	existing, err := db.GetTodo(id)
	if err != nil {
		log.Error().Err(err).Str("request_id", GetRequestID(c)).Int64("id", id).Msg("failed to get todo")
		RespondInternalError(c, "Failed to update todo", err)
		return
	}
	if existing == nil {
		RespondNotFound(c, "Todo not found")
		return
	}

	var body updateTodoRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return
	}

	if errs := validateStruct(body); errs != nil {
		RespondValidationErrors(c, errs)
		return
	}

	todo, err := db.UpdateTodo(id, db.TodoUpdate{
		Title:          body.Title,
		Details:        body.Details.Value,
		DetailsPresent: body.Details.Present,
		Status:         body.Status,
	})
	if err != nil {
		log.Error().Err(err).Str("request_id", GetRequestID(c)).Int64("id", id).Msg("failed to update todo")
		RespondInternalError(c, "Failed to update todo", err)
		return
	}
	if todo == nil {
		RespondNotFound(c, "Todo not found")
		return
	}

	c.JSON(http.StatusOK, todo)
}

// DeleteTodo handles DELETE /api/todos/:id
func DeleteTodo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondNotFound(c, "Todo not found")
		return
	}

	deleted, err := db.DeleteTodo(id)
	if err != nil {
		log.Error().Err(err).Str("request_id", GetRequestID(c)).Int64("id", id).Msg("failed to delete todo")
		RespondInternalError(c, "Failed to delete todo", err)
		return
	}
	if !deleted {
		RespondNotFound(c, "Todo not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
}
