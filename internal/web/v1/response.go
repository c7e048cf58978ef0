package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/user-profile-service/internal/core/domain"
)

// Client-facing error messages.
const (
	errInternal         = "Internal server error"
	errInvalidProfileID = "Invalid profile ID"
	errProfileNotFound  = "Profile not found"
	errValidationFailed = "Validation failed"
	errRouteNotFound    = "Route not found"
	errMethodNotAllowed = "Method not allowed"

	msgProfileCreated = "Profile created successfully"
	msgProfileUpdated = "Profile updated successfully"
)

// ListResponse is the envelope for GET /profiles.
type ListResponse struct {
	Success bool                 `json:"success"`
	Data    []domain.UserProfile `json:"data"`
	Count   int                  `json:"count"`
}

// ProfileResponse is the envelope for single-profile responses.
type ProfileResponse struct {
	Success bool                `json:"success"`
	Data    *domain.UserProfile `json:"data"`
	Message string              `json:"message,omitempty"`
}

// ErrorResponse is the envelope for every failure.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: message})
}

func respondValidation(c *gin.Context, details []string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Success: false,
		Error:   errValidationFailed,
		Details: details,
	})
}

func respondInternal(c *gin.Context) {
	respondError(c, http.StatusInternalServerError, errInternal)
}

// NotFound answers requests that match no route.
func NotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, errRouteNotFound)
}

// MethodNotAllowed answers requests whose path exists under another method.
func MethodNotAllowed(c *gin.Context) {
	respondError(c, http.StatusMethodNotAllowed, errMethodNotAllowed)
}
