package store

import (
	"StartupCopilot/backend/go/internal/models"
	"context"
)

// CollectionUsers is the collection backing UserProfileStore.
const CollectionUsers = "users"

// UserProfileStore fixes the collection for public user profiles. Profiles
// are looked up by the auth-provider UID, not by document ID.
type UserProfileStore struct {
	store DocumentStore
}

// NewUserProfileStore creates a UserProfileStore on top of a generic
// DocumentStore.
func NewUserProfileStore(s DocumentStore) *UserProfileStore {
	return &UserProfileStore{store: s}
}

// Create persists a new profile document.
func (u *UserProfileStore) Create(ctx context.Context, profile *models.UserProfile) (string, error) {
	return u.store.Create(ctx, CollectionUsers, profile)
}

// GetByUID returns the profile for an auth UID, or nil when absent.
func (u *UserProfileStore) GetByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	profiles, err := FindAll[models.UserProfile](ctx, u.store, CollectionUsers, Query{
		Filters: []Filter{Where("uid", OpEqual, uid)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return profiles[0], nil
}

// Update merges fields into the profile document and re-stamps updatedAt.
func (u *UserProfileStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return u.store.Update(ctx, CollectionUsers, id, fields)
}

// ListConsultants returns every profile with the consultant role.
func (u *UserProfileStore) ListConsultants(ctx context.Context) ([]*models.UserProfile, error) {
	return FindAll[models.UserProfile](ctx, u.store, CollectionUsers, Query{
		Filters: []Filter{Where("role", OpEqual, string(models.RoleConsultant))},
	})
}
