package domain

import "context"

// ProfileRepository defines the interface for profile data access.
// Lookups that match no row return (nil, nil).
type ProfileRepository interface {
	List(ctx context.Context) ([]UserProfile, error)
	GetByID(ctx context.Context, id int64) (*UserProfile, error)
	Create(ctx context.Context, in ProfileInput) (*UserProfile, error)
	Update(ctx context.Context, id int64, in ProfileInput) (*UserProfile, error)
}
