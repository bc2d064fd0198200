package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StartupCopilot/backend/go/internal/models"
)

// stepClock hands out strictly increasing timestamps.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestCreateStampsBothTimestamps(t *testing.T) {
	s := NewMemoryDocumentStore()
	s.now = stepClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), time.Minute)
	ctx := context.Background()

	project := &models.Project{Name: "EcoTech"}
	id, err := s.Create(ctx, CollectionProjects, project)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, project.ID)

	got, err := GetByID[models.Project](ctx, s, CollectionProjects, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestCreateKeepsCallerID(t *testing.T) {
	s := NewMemoryDocumentStore()
	ctx := context.Background()

	project := &models.Project{Name: "EcoTech"}
	project.ID = "fixed-id"
	id, err := s.Create(ctx, CollectionProjects, project)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)
}

func TestGetAbsentIsNilNotError(t *testing.T) {
	s := NewMemoryDocumentStore()

	raw, err := s.Get(context.Background(), CollectionProjects, "missing")
	require.NoError(t, err)
	assert.Nil(t, raw)

	got, err := GetByID[models.Project](context.Background(), s, CollectionProjects, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindNoMatchIsEmptySlice(t *testing.T) {
	s := NewMemoryDocumentStore()

	out, err := s.Find(context.Background(), CollectionProjects, Query{
		Filters: []Filter{Where("userId", OpEqual, "nobody")},
	})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Len(t, out, 0)
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	s := NewMemoryDocumentStore()
	s.now = stepClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), time.Minute)
	ctx := context.Background()

	project := &models.Project{Name: "EcoTech"}
	id, err := s.Create(ctx, CollectionProjects, project)
	require.NoError(t, err)

	err = s.Update(ctx, CollectionProjects, id, map[string]interface{}{
		"name": "EcoTech v2",
		// Attempts to tamper with managed fields are dropped silently.
		"_id":       "other-id",
		"createdAt": time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	got, err := GetByID[models.Project](ctx, s, CollectionProjects, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "EcoTech v2", got.Name)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, project.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	s := NewMemoryDocumentStore()

	err := s.Update(context.Background(), CollectionProjects, "missing", map[string]interface{}{"name": "x"})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := NewMemoryDocumentStore()
	ctx := context.Background()

	project := &models.Project{Name: "EcoTech"}
	id, err := s.Create(ctx, CollectionProjects, project)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, CollectionProjects, id))
	require.NoError(t, s.Delete(ctx, CollectionProjects, id))
	require.NoError(t, s.Delete(ctx, CollectionProjects, "never-existed"))
}

func TestFindFilterOrderLimit(t *testing.T) {
	s := NewMemoryDocumentStore()
	s.now = stepClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), time.Minute)
	ctx := context.Background()

	for _, p := range []*models.Project{
		{Name: "a", UserID: "alice", Progress: 10},
		{Name: "b", UserID: "alice", Progress: 60},
		{Name: "c", UserID: "alice", Progress: 30},
		{Name: "d", UserID: "bob", Progress: 90},
	} {
		_, err := s.Create(ctx, CollectionProjects, p)
		require.NoError(t, err)
	}

	out, err := FindAll[models.Project](ctx, s, CollectionProjects, Query{
		Filters:    []Filter{Where("userId", OpEqual, "alice"), Where("progress", OpGreaterOrEqual, 20)},
		OrderBy:    "progress",
		Descending: true,
		Limit:      1,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].Name)

	out, err = FindAll[models.Project](ctx, s, CollectionProjects, Query{
		Filters: []Filter{Where("userId", OpEqual, "alice")},
		OrderBy: "progress",
	})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"a", "c", "b"}, []string{out[0].Name, out[1].Name, out[2].Name})
}

func TestFindInOperator(t *testing.T) {
	s := NewMemoryDocumentStore()
	ctx := context.Background()

	for _, p := range []*models.Project{
		{Name: "a", Status: models.ProjectStatusDraft},
		{Name: "b", Status: models.ProjectStatusInProgress},
		{Name: "c", Status: models.ProjectStatusCompleted},
	} {
		_, err := s.Create(ctx, CollectionProjects, p)
		require.NoError(t, err)
	}

	out, err := FindAll[models.Project](ctx, s, CollectionProjects, Query{
		Filters: []Filter{Where("status", OpIn, []models.ProjectStatus{
			models.ProjectStatusDraft,
			models.ProjectStatusCompleted,
		})},
	})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestFindOrdersByTimestamps(t *testing.T) {
	s := NewMemoryDocumentStore()
	s.now = stepClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), time.Minute)
	ctx := context.Background()

	first := &models.Project{Name: "first", UserID: "alice"}
	_, err := s.Create(ctx, CollectionProjects, first)
	require.NoError(t, err)
	second := &models.Project{Name: "second", UserID: "alice"}
	_, err = s.Create(ctx, CollectionProjects, second)
	require.NoError(t, err)

	// Touching the older document moves it to the front of the
	// updatedAt-descending order.
	require.NoError(t, s.Update(ctx, CollectionProjects, first.ID, map[string]interface{}{"progress": 5}))

	out, err := FindAll[models.Project](ctx, s, CollectionProjects, Query{
		OrderBy:    "updatedAt",
		Descending: true,
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Name)
}
