package store

import (
	"StartupCopilot/backend/go/internal/models"
	"context"
)

// CollectionStartups is the collection backing StartupStore.
const CollectionStartups = "startups"

// StartupStore fixes the collection and default ordering for startup profiles.
type StartupStore struct {
	store DocumentStore
}

// NewStartupStore creates a StartupStore on top of a generic DocumentStore.
func NewStartupStore(s DocumentStore) *StartupStore {
	return &StartupStore{store: s}
}

// Create persists a new startup profile.
func (s *StartupStore) Create(ctx context.Context, startup *models.StartupData) (string, error) {
	return s.store.Create(ctx, CollectionStartups, startup)
}

// Get returns the startup, or nil when absent.
func (s *StartupStore) Get(ctx context.Context, id string) (*models.StartupData, error) {
	return GetByID[models.StartupData](ctx, s.store, CollectionStartups, id)
}

// ListByFounder returns the founder's startups, newest first.
func (s *StartupStore) ListByFounder(ctx context.Context, founderID string) ([]*models.StartupData, error) {
	return FindAll[models.StartupData](ctx, s.store, CollectionStartups, Query{
		Filters:    []Filter{Where("founderId", OpEqual, founderID)},
		OrderBy:    "createdAt",
		Descending: true,
	})
}

// Update merges fields into the startup and re-stamps updatedAt.
func (s *StartupStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return s.store.Update(ctx, CollectionStartups, id, fields)
}

// Delete removes the startup; deleting an absent ID succeeds.
func (s *StartupStore) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, CollectionStartups, id)
}
