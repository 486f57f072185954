//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/vigilai/internal/domain"
	"github.com/cloo-solutions/vigilai/internal/testutil"
)

func TestKnowledgeRepository_Upsert_NewEntry(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)

	key := domain.KnowledgeKey{MachineID: "Pump A-1", IssueType: "safety", Description: "Oil leak near Pump A-1"}
	observedAt := time.Now().UTC().Truncate(time.Microsecond)
	tags := []domain.Entity{{Text: "Pump A-1", Type: domain.EntityTypeMachine}}

	require.NoError(t, repo.Upsert(ctx, key, domain.SeverityCritical, tags, observedAt))

	entry, err := repo.GetByKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Pump A-1", entry.MachineID)
	assert.Equal(t, "safety", entry.IssueType)
	assert.Equal(t, domain.SeverityCritical, entry.Severity)
	assert.Equal(t, 1, entry.OccurrenceCount)
	assert.True(t, entry.FirstSeen.Equal(observedAt))
	assert.True(t, entry.LastSeen.Equal(observedAt))
	assert.Equal(t, tags, entry.EntityTags)
}

func TestKnowledgeRepository_Upsert_RepeatedObservations(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)

	key := domain.KnowledgeKey{MachineID: "Machine 7", IssueType: "maintenance", Description: "Conveyor belt is broken"}
	firstSeen := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)

	const observations = 5
	var lastSeen time.Time
	for i := 0; i < observations; i++ {
		lastSeen = firstSeen.Add(time.Duration(i) * time.Minute)
		severity := domain.SeverityWarning
		if i == observations-1 {
			severity = domain.SeverityCritical
		}
		require.NoError(t, repo.Upsert(ctx, key, severity, nil, lastSeen))
	}

	entry, err := repo.GetByKey(ctx, key)
	require.NoError(t, err)

	// One row, count equals observation count, first_seen fixed to the
	// first observation and severity to the latest.
	assert.Equal(t, observations, entry.OccurrenceCount)
	assert.True(t, entry.FirstSeen.Equal(firstSeen))
	assert.True(t, entry.LastSeen.Equal(lastSeen))
	assert.Equal(t, domain.SeverityCritical, entry.Severity)
	assert.Equal(t, []domain.Entity{}, entry.EntityTags)
}

func TestKnowledgeRepository_Upsert_KeyIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)
	now := time.Now().UTC()

	keyLower := domain.KnowledgeKey{MachineID: "pump a-1", IssueType: "safety", Description: "Oil leak"}
	keyTitle := domain.KnowledgeKey{MachineID: "Pump A-1", IssueType: "safety", Description: "Oil leak"}

	require.NoError(t, repo.Upsert(ctx, keyLower, domain.SeverityCritical, nil, now))
	require.NoError(t, repo.Upsert(ctx, keyTitle, domain.SeverityCritical, nil, now))

	entries, err := repo.ListRanked(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestKnowledgeRepository_ListRanked_Ordering(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)

	rare := domain.KnowledgeKey{MachineID: "Machine 1", IssueType: "general", Description: "One-off note"}
	frequent := domain.KnowledgeKey{MachineID: "Machine 2", IssueType: "maintenance", Description: "Recurring fault"}
	recent := domain.KnowledgeKey{MachineID: "Machine 3", IssueType: "quality", Description: "Recent defect"}

	require.NoError(t, repo.Upsert(ctx, rare, domain.SeverityInfo, nil, base))
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Upsert(ctx, frequent, domain.SeverityWarning, nil, base.Add(time.Minute)))
	}
	require.NoError(t, repo.Upsert(ctx, recent, domain.SeverityWarning, nil, base.Add(2*time.Hour)))

	entries, err := repo.ListRanked(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Machine 2", entries[0].MachineID)
	// Equal counts tie-break on recency.
	assert.Equal(t, "Machine 3", entries[1].MachineID)
	assert.Equal(t, "Machine 1", entries[2].MachineID)
}

func TestKnowledgeRepository_GetByKey_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)

	_, err := repo.GetByKey(ctx, domain.KnowledgeKey{MachineID: "Unknown", IssueType: "general", Description: "nope"})
	assert.ErrorIs(t, err, domain.ErrKnowledgeEntryNotFound)
}

func TestKnowledgeRepository_Embeddings(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)
	now := time.Now().UTC()

	keyA := domain.KnowledgeKey{MachineID: "Pump A-1", IssueType: "safety", Description: "Oil leak"}
	keyB := domain.KnowledgeKey{MachineID: "Machine 7", IssueType: "maintenance", Description: "Belt wear"}
	require.NoError(t, repo.Upsert(ctx, keyA, domain.SeverityCritical, nil, now))
	require.NoError(t, repo.Upsert(ctx, keyB, domain.SeverityWarning, nil, now))

	pending, err := repo.ListUnembedded(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	embedding := make([]float32, 1536)
	embedding[0] = 1

	require.NoError(t, repo.UpdateEmbedding(ctx, pending[0].ID, embedding))

	pending, err = repo.ListUnembedded(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	results, err := repo.SearchSimilar(ctx, embedding, 5)
	require.NoError(t, err)
	// Only the embedded entry is searchable.
	require.Len(t, results, 1)
}

func TestKnowledgeRepository_UpdateEmbedding_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewKnowledgeRepository(pool)

	err := repo.UpdateEmbedding(ctx, 999999, make([]float32, 1536))
	assert.ErrorIs(t, err, domain.ErrKnowledgeEntryNotFound)
}
