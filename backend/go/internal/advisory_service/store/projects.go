package store

import (
	"StartupCopilot/backend/go/internal/models"
	"context"
)

// CollectionProjects is the collection backing ProjectStore.
const CollectionProjects = "projects"

// ProjectStore fixes the collection and default ordering for projects.
type ProjectStore struct {
	store DocumentStore
}

// NewProjectStore creates a ProjectStore on top of a generic DocumentStore.
func NewProjectStore(s DocumentStore) *ProjectStore {
	return &ProjectStore{store: s}
}

// Create persists a new project. Every project starts its lifecycle as a
// draft with zero progress regardless of what the caller passed in.
func (p *ProjectStore) Create(ctx context.Context, project *models.Project) (string, error) {
	project.Status = models.ProjectStatusDraft
	project.Progress = 0
	return p.store.Create(ctx, CollectionProjects, project)
}

// Get returns the project, or nil when absent.
func (p *ProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	return GetByID[models.Project](ctx, p.store, CollectionProjects, id)
}

// ListByUser returns the user's projects, most recently modified first.
func (p *ProjectStore) ListByUser(ctx context.Context, userID string) ([]*models.Project, error) {
	return FindAll[models.Project](ctx, p.store, CollectionProjects, Query{
		Filters:    []Filter{Where("userId", OpEqual, userID)},
		OrderBy:    "updatedAt",
		Descending: true,
	})
}

// Update merges fields into the project and re-stamps updatedAt.
func (p *ProjectStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return p.store.Update(ctx, CollectionProjects, id, fields)
}

// Delete removes the project; deleting an absent ID succeeds.
func (p *ProjectStore) Delete(ctx context.Context, id string) error {
	return p.store.Delete(ctx, CollectionProjects, id)
}

// Stats computes the per-status aggregate by filtering the full owned set
// client-side; the backing store offers no server-side aggregation here.
func (p *ProjectStore) Stats(ctx context.Context, userID string) (*models.ProjectStats, error) {
	projects, err := p.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &models.ProjectStats{TotalProjects: len(projects)}
	for _, project := range projects {
		switch project.Status {
		case models.ProjectStatusCompleted:
			stats.CompletedProjects++
		case models.ProjectStatusInProgress:
			stats.InProgressProjects++
		case models.ProjectStatusDraft:
			stats.DraftProjects++
		}
	}
	return stats, nil
}
