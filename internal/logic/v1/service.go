package v1

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/user-profile-service/internal/core/domain"
	"github.com/duynhne/user-profile-service/middleware"
)

// ProfileService holds the profile business rules: validation gates every write,
// and a missing row becomes domain.ErrProfileNotFound.
type ProfileService struct {
	repo domain.ProfileRepository
	now  func() time.Time
}

// Option customizes a ProfileService.
type Option func(*ProfileService)

// WithClock overrides the wall clock used by the future-date check.
func WithClock(now func() time.Time) Option {
	return func(s *ProfileService) {
		s.now = now
	}
}

// NewProfileService creates a new profile service
func NewProfileService(repo domain.ProfileRepository, opts ...Option) *ProfileService {
	s := &ProfileService{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateProfile returns every failed rule for the payload; empty means valid.
func (s *ProfileService) ValidateProfile(in domain.ProfileInput) []string {
	return domain.ValidateProfile(in, s.now())
}

// ListProfiles returns all profiles, newest first
func (s *ProfileService) ListProfiles(ctx context.Context) ([]domain.UserProfile, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	profiles, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	span.SetAttributes(attribute.Int("profile.count", len(profiles)))
	return profiles, nil
}

// GetProfile retrieves a profile by ID
func (s *ProfileService) GetProfile(ctx context.Context, id int64) (*domain.UserProfile, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("profile.id", id),
	))
	defer span.End()

	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get profile %d: %w", id, err)
	}
	if profile == nil {
		span.SetAttributes(attribute.Bool("profile.found", false))
		return nil, fmt.Errorf("get profile %d: %w", id, domain.ErrProfileNotFound)
	}

	span.SetAttributes(attribute.Bool("profile.found", true))
	return profile, nil
}

// CreateProfile validates the payload and inserts a new profile.
// Nothing is written when validation fails.
func (s *ProfileService) CreateProfile(ctx context.Context, in domain.ProfileInput) (*domain.UserProfile, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if errs := s.ValidateProfile(in); len(errs) > 0 {
		span.SetAttributes(attribute.Bool("profile.created", false), attribute.Int("validation.errors", len(errs)))
		return nil, &domain.ValidationError{Details: errs}
	}

	profile, err := s.repo.Create(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create profile: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("profile.id", profile.ID),
		attribute.Bool("profile.created", true),
	)
	span.AddEvent("profile.created")
	return profile, nil
}

// UpdateProfile validates the payload and overwrites the profile's mutable fields
func (s *ProfileService) UpdateProfile(ctx context.Context, id int64, in domain.ProfileInput) (*domain.UserProfile, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("profile.id", id),
	))
	defer span.End()

	if errs := s.ValidateProfile(in); len(errs) > 0 {
		span.SetAttributes(attribute.Bool("profile.updated", false), attribute.Int("validation.errors", len(errs)))
		return nil, &domain.ValidationError{Details: errs}
	}

	profile, err := s.repo.Update(ctx, id, in)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update profile %d: %w", id, err)
	}
	if profile == nil {
		span.SetAttributes(attribute.Bool("profile.updated", false))
		return nil, fmt.Errorf("update profile %d: %w", id, domain.ErrProfileNotFound)
	}

	span.SetAttributes(attribute.Bool("profile.updated", true))
	return profile, nil
}
