package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StartupCopilot/backend/go/internal/models"
)

func TestProjectStoreForcesInitialState(t *testing.T) {
	s := NewMemoryDocumentStore()
	projects := NewProjectStore(s)
	ctx := context.Background()

	id, err := projects.Create(ctx, &models.Project{
		Name:     "EcoTech",
		UserID:   "alice",
		Status:   models.ProjectStatusCompleted,
		Progress: 100,
	})
	require.NoError(t, err)

	got, err := projects.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.ProjectStatusDraft, got.Status)
	assert.Equal(t, 0, got.Progress)
}

func TestProjectStoreListByUserOrdering(t *testing.T) {
	s := NewMemoryDocumentStore()
	s.now = stepClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), time.Minute)
	projects := NewProjectStore(s)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"older", "newer"} {
		id, err := projects.Create(ctx, &models.Project{Name: name, UserID: "alice"})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	_, err := projects.Create(ctx, &models.Project{Name: "other", UserID: "bob"})
	require.NoError(t, err)

	list, err := projects.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Name)

	// The most recently updated project comes first.
	require.NoError(t, projects.Update(ctx, ids[0], map[string]interface{}{"progress": 40}))
	list, err = projects.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "older", list[0].Name)
}

func TestProjectStoreStats(t *testing.T) {
	s := NewMemoryDocumentStore()
	projects := NewProjectStore(s)
	ctx := context.Background()

	create := func(user string, status models.ProjectStatus) {
		id, err := projects.Create(ctx, &models.Project{Name: "p", UserID: user})
		require.NoError(t, err)
		if status != models.ProjectStatusDraft {
			require.NoError(t, projects.Update(ctx, id, map[string]interface{}{"status": status}))
		}
	}
	create("alice", models.ProjectStatusCompleted)
	create("alice", models.ProjectStatusInProgress)
	create("alice", models.ProjectStatusInProgress)
	create("alice", models.ProjectStatusDraft)
	create("bob", models.ProjectStatusCompleted)

	stats, err := projects.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, &models.ProjectStats{
		TotalProjects:      4,
		CompletedProjects:  1,
		InProgressProjects: 2,
		DraftProjects:      1,
	}, stats)

	empty, err := projects.Stats(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, &models.ProjectStats{}, empty)
}

func TestUserProfileStoreGetByUID(t *testing.T) {
	s := NewMemoryDocumentStore()
	profiles := NewUserProfileStore(s)
	ctx := context.Background()

	got, err := profiles.GetByUID(ctx, "carol")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = profiles.Create(ctx, &models.UserProfile{UID: "carol", DisplayName: "Carol", Role: models.RoleConsultant})
	require.NoError(t, err)
	_, err = profiles.Create(ctx, &models.UserProfile{UID: "frank", DisplayName: "Frank", Role: models.RoleFounder})
	require.NoError(t, err)

	got, err = profiles.GetByUID(ctx, "carol")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Carol", got.DisplayName)

	consultants, err := profiles.ListConsultants(ctx)
	require.NoError(t, err)
	require.Len(t, consultants, 1)
	assert.Equal(t, "carol", consultants[0].UID)
}
