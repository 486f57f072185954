//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/vigilai/internal/domain"
	"github.com/cloo-solutions/vigilai/internal/pagination"
	"github.com/cloo-solutions/vigilai/internal/testutil"
)

func newStoredBriefing(rawText string, createdAt time.Time) *domain.Briefing {
	return &domain.Briefing{
		ID:      uuid.NewString(),
		RawText: rawText,
		Structured: &domain.StructuredBriefing{
			Summary: "Shift briefing with 1 items parsed.",
			Items: []domain.BriefingItem{
				{
					ID:             1,
					MachineID:      "Pump A-1",
					Category:       domain.CategorySafety,
					Severity:       domain.SeverityCritical,
					Title:          "Oil leak near Pump A-1",
					Details:        rawText,
					ActionRequired: "Review and address as needed",
					Entities:       []domain.Entity{{Text: "Pump A-1", Type: domain.EntityTypeMachine}},
				},
			},
			MachinesMentioned: []string{},
			RecurringPatterns: []string{},
			Entities: &domain.EntitySet{
				Machines:     []domain.Entity{{Text: "Pump A-1", Type: domain.EntityTypeMachine}},
				Parts:        []domain.Entity{},
				FailureModes: []domain.Entity{{Text: "leak", Type: domain.EntityTypeFailureMode}},
			},
		},
		CreatedAt:  createdAt,
		ShiftLabel: "night",
		Author:     "R. Ortiz",
	}
}

func TestBriefingRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewBriefingRepository(pool)
	b := newStoredBriefing("Oil leak near Pump A-1", time.Now().UTC().Truncate(time.Microsecond))

	require.NoError(t, repo.Create(ctx, b))

	retrieved, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, retrieved.ID)
	assert.Equal(t, b.RawText, retrieved.RawText)
	assert.Equal(t, b.ShiftLabel, retrieved.ShiftLabel)
	assert.Equal(t, b.Author, retrieved.Author)

	// The structured document round-trips through JSONB intact.
	require.NotNil(t, retrieved.Structured)
	require.Len(t, retrieved.Structured.Items, 1)
	assert.Equal(t, b.Structured.Items[0], retrieved.Structured.Items[0])
	assert.Equal(t, b.Structured.Entities, retrieved.Structured.Entities)
}

func TestBriefingRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewBriefingRepository(pool)

	_, err := repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrBriefingNotFound)
}

func TestBriefingRepository_Exists(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewBriefingRepository(pool)
	b := newStoredBriefing("Output rate on target", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, b))

	exists, err := repo.Exists(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBriefingRepository_ListWithCursor(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewBriefingRepository(pool)
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)

	for i := 0; i < 5; i++ {
		b := newStoredBriefing("briefing", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Create(ctx, b))
	}

	page1, err := repo.ListWithCursor(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, page1.Items, 2)
	assert.True(t, page1.HasMore)
	require.NotEmpty(t, page1.NextCursor)

	// Newest first.
	assert.True(t, page1.Items[0].CreatedAt.After(page1.Items[1].CreatedAt))

	cursor, err := pagination.DecodeCursor(page1.NextCursor)
	require.NoError(t, err)

	page2, err := repo.ListWithCursor(ctx, cursor, 2)
	require.NoError(t, err)
	require.Len(t, page2.Items, 2)
	assert.True(t, page2.HasMore)

	// No overlap between pages.
	seen := map[string]bool{}
	for _, b := range append(page1.Items, page2.Items...) {
		assert.False(t, seen[b.ID])
		seen[b.ID] = true
	}

	cursor, err = pagination.DecodeCursor(page2.NextCursor)
	require.NoError(t, err)

	page3, err := repo.ListWithCursor(ctx, cursor, 2)
	require.NoError(t, err)
	assert.Len(t, page3.Items, 1)
	assert.False(t, page3.HasMore)
	assert.Empty(t, page3.NextCursor)
}

func TestBriefingRepository_Count(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewBriefingRepository(pool)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	require.NoError(t, repo.Create(ctx, newStoredBriefing("first", time.Now().UTC())))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
