package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/duynhne/user-profile-service/internal/core/domain"
	"github.com/duynhne/user-profile-service/middleware"
)

// ProfileService is the business logic the handlers depend on.
type ProfileService interface {
	ListProfiles(ctx context.Context) ([]domain.UserProfile, error)
	GetProfile(ctx context.Context, id int64) (*domain.UserProfile, error)
	CreateProfile(ctx context.Context, in domain.ProfileInput) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, id int64, in domain.ProfileInput) (*domain.UserProfile, error)
}

// ProfileHandler handles HTTP requests for profile operations
type ProfileHandler struct {
	service ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service ProfileService) *ProfileHandler {
	return &ProfileHandler{
		service: service,
	}
}

// RegisterRoutes mounts the profile routes on a router group (e.g. /api/v1).
func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profiles", h.ListProfiles)
	rg.GET("/profiles/:id", h.GetProfile)
	rg.POST("/profiles", h.CreateProfile)
	rg.PUT("/profiles/:id", h.UpdateProfile)
}

func startSpan(c *gin.Context) (context.Context, trace.Span) {
	return middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.FullPath()),
	))
}

// ListProfiles handles GET /profiles
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	logger.Info("Retrieving all user profiles")
	profiles, err := h.service.ListProfiles(ctx)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to list profiles", zap.Error(err))
		respondInternal(c)
		return
	}
	if profiles == nil {
		profiles = []domain.UserProfile{}
	}

	c.JSON(http.StatusOK, ListResponse{Success: true, Data: profiles, Count: len(profiles)})
}

// GetProfile handles GET /profiles/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	id, err := parseProfileID(c.Param("id"))
	if err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		respondError(c, http.StatusBadRequest, errInvalidProfileID)
		return
	}
	span.SetAttributes(attribute.Int64("profile.id", id))

	logger.Info("Retrieving profile", zap.Int64("profile_id", id))
	profile, err := h.service.GetProfile(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			respondError(c, http.StatusNotFound, errProfileNotFound)
		default:
			span.RecordError(err)
			logger.Error("Failed to get profile", zap.Int64("profile_id", id), zap.Error(err))
			respondInternal(c)
		}
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{Success: true, Data: profile})
}

// CreateProfile handles POST /profiles
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	var req domain.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn("Invalid request body", zap.Error(err))
		respondValidation(c, []string{sanitizeBindError(err)})
		return
	}

	profile, err := h.service.CreateProfile(ctx, req.Input())
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			span.SetAttributes(attribute.Bool("request.valid", false))
			respondValidation(c, verr.Details)
		default:
			span.RecordError(err)
			logger.Error("Failed to create profile", zap.Error(err))
			respondInternal(c)
		}
		return
	}

	logger.Info("Profile created", zap.Int64("profile_id", profile.ID))
	c.JSON(http.StatusCreated, ProfileResponse{Success: true, Data: profile, Message: msgProfileCreated})
}

// UpdateProfile handles PUT /profiles/:id
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	ctx, span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	id, err := parseProfileID(c.Param("id"))
	if err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		respondError(c, http.StatusBadRequest, errInvalidProfileID)
		return
	}
	span.SetAttributes(attribute.Int64("profile.id", id))

	var req domain.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn("Invalid request body", zap.Error(err))
		respondValidation(c, []string{sanitizeBindError(err)})
		return
	}

	logger.Info("Updating profile", zap.Int64("profile_id", id))
	profile, err := h.service.UpdateProfile(ctx, id, req.Input())
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			span.SetAttributes(attribute.Bool("request.valid", false))
			respondValidation(c, verr.Details)
		case errors.Is(err, domain.ErrProfileNotFound):
			respondError(c, http.StatusNotFound, errProfileNotFound)
		default:
			span.RecordError(err)
			logger.Error("Failed to update profile", zap.Int64("profile_id", id), zap.Error(err))
			respondInternal(c)
		}
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{Success: true, Data: profile, Message: msgProfileUpdated})
}
