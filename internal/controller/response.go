package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"task-service/internal/models"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Envelope is the uniform wrapper around every response body.
type Envelope[T any] struct {
	Status string              `json:"status"`
	Detail string              `json:"detail"`
	Data   T                   `json:"data"`
	Errors []models.FieldError `json:"errors,omitempty"`
}

// HealthResponse is the body of a successful health check.
type HealthResponse struct {
	Status            string `json:"status"`
	StatusCodeMessage string `json:"status_code_message"`
	Data              []any  `json:"data"`
}

func success[T any](detail string, data T) Envelope[T] {
	return Envelope[T]{Status: statusSuccess, Detail: detail, Data: data}
}

func fail(c *gin.Context, code int, detail string) {
	c.AbortWithStatusJSON(code, Envelope[any]{Status: statusError, Detail: detail})
}

func validationFailed(c *gin.Context, ve *models.ValidationError) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, Envelope[any]{
		Status: statusError,
		Detail: "Validation error",
		Errors: ve.Fields,
	})
}
