package store

import (
	"StartupCopilot/backend/go/internal/models"
	"context"
)

// CollectionConsultations is the collection backing ConsultationStore.
const CollectionConsultations = "consultations"

// ConsultationStore fixes the collection and orderings for consultations.
type ConsultationStore struct {
	store DocumentStore
}

// NewConsultationStore creates a ConsultationStore on top of a generic
// DocumentStore.
func NewConsultationStore(s DocumentStore) *ConsultationStore {
	return &ConsultationStore{store: s}
}

// Create persists a new consultation.
func (c *ConsultationStore) Create(ctx context.Context, consultation *models.ConsultationData) (string, error) {
	return c.store.Create(ctx, CollectionConsultations, consultation)
}

// Get returns the consultation, or nil when absent.
func (c *ConsultationStore) Get(ctx context.Context, id string) (*models.ConsultationData, error) {
	return GetByID[models.ConsultationData](ctx, c.store, CollectionConsultations, id)
}

// ListByStartup returns a startup's consultations, newest first. The
// startupId reference is not integrity-checked; the result may be empty even
// for a live startup.
func (c *ConsultationStore) ListByStartup(ctx context.Context, startupID string) ([]*models.ConsultationData, error) {
	return FindAll[models.ConsultationData](ctx, c.store, CollectionConsultations, Query{
		Filters:    []Filter{Where("startupId", OpEqual, startupID)},
		OrderBy:    "createdAt",
		Descending: true,
	})
}

// ListByConsultant returns a consultant's consultations ordered by their
// scheduled time, latest first.
func (c *ConsultationStore) ListByConsultant(ctx context.Context, consultantID string) ([]*models.ConsultationData, error) {
	return FindAll[models.ConsultationData](ctx, c.store, CollectionConsultations, Query{
		Filters:    []Filter{Where("consultantId", OpEqual, consultantID)},
		OrderBy:    "scheduledAt",
		Descending: true,
	})
}

// Update merges fields into the consultation and re-stamps updatedAt.
func (c *ConsultationStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return c.store.Update(ctx, CollectionConsultations, id, fields)
}
