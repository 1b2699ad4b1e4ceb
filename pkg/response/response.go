package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details string      `json:"details,omitempty"`
}

// statusError is implemented by errors that carry their own HTTP status and
// a message fit for the operator.
type statusError interface {
	error
	HTTPStatus() int
	UserMessage() string
}

type detailedError interface {
	ErrorDetails() string
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// NoContent sends 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Error: err})
}

// Conflict sends 409.
func Conflict(c *gin.Context, err string) {
	c.JSON(http.StatusConflict, Body{Success: false, Error: err})
}

// Internal sends 500.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Error: err})
}

// Error answers with the status and message carried by err, or 500 with
// fallback when err carries none.
func Error(c *gin.Context, err error, fallback string) {
	var se statusError
	if !errors.As(err, &se) {
		Internal(c, fallback)
		return
	}
	body := Body{Success: false, Error: se.UserMessage()}
	var de detailedError
	if errors.As(err, &de) {
		body.Details = de.ErrorDetails()
	}
	c.JSON(se.HTTPStatus(), body)
}
