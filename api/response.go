package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response shapes are kept stable for API consumers:
//   - listings:           {"status": "success", "data": [...], "count": n}
//   - single resources:   the resource JSON itself (201 on create)
//   - deletes/not-found:  {"message": "..."}
//   - validation:         422 with a per-field error map

// ValidationErrorResponse is the 422 response body for rejected writes
type ValidationErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// RespondNotFound sends a 404 with a message body
func RespondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"message": message})
}

// RespondValidationErrors sends a 422 with the per-field error map
func RespondValidationErrors(c *gin.Context, errs map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
		Message: "The given data was invalid.",
		Errors:  errs,
	})
}

// RespondBadRequest sends a 400 for malformed request bodies
func RespondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}

// RespondInternalError sends a 500 with a generic message plus the failure
// detail for diagnostics. Callers must not rely on the detail for control
// flow.
func RespondInternalError(c *gin.Context, message string, err error) {
	body := gin.H{
		"status":  "error",
		"message": message,
	}
	if err != nil {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
