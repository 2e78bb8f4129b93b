package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine) {
	// API group
	api := r.Group("/api")

	// Todo routes
	api.GET("/todos", ListTodos)
	api.POST("/todos", CreateTodo)
	api.PUT("/todos/:id", UpdateTodo)
	api.DELETE("/todos/:id", DeleteTodo)
}
