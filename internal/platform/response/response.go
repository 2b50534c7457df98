package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luxestay/service-reservations/internal/domain"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Success writes a 200 response with the payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 response with the payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// Paginated writes a 200 response with items and pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody{Error: message})
}

// Error maps a domain error to the appropriate HTTP status.
func Error(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	status := statusFor(code)

	body := errorBody{Error: err.Error(), Code: string(code)}
	if status == http.StatusInternalServerError {
		// Never leak internals to clients.
		body = errorBody{Error: "internal server error"}
	}
	c.JSON(status, body)
}

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation, domain.CodeInvalidRange, domain.CodePastDate, domain.CodeCapacityExceeded:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeRoomUnavailable, domain.CodeConflict, domain.CodeNotModifiable,
		domain.CodeNotCancelable, domain.CodeConcurrentConflict, domain.CodeInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
