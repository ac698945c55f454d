package feedback

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleFeedback(consultationID string) *Feedback {
	return &Feedback{
		ConsultationID:      consultationID,
		SymptomsExcerpt:     "douleur thoracique et palpitations",
		SuggestedSpecialist: "Cardiologue",
		SuggestedUrgency:    "high",
		UserAgreed:          true,
	}
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fb := sampleFeedback("c-1")
	require.NoError(t, store.Save(ctx, fb))
	assert.NotZero(t, fb.ID)
	assert.False(t, fb.CreatedAt.IsZero())

	got, err := store.Get(ctx, "c-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Cardiologue", got.SuggestedSpecialist)
	assert.True(t, got.UserAgreed)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_SaveUpdatesSameConsultation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fb := sampleFeedback("c-2")
	require.NoError(t, store.Save(ctx, fb))
	originalID := fb.ID

	update := sampleFeedback("c-2")
	update.UserAgreed = false
	update.CorrectSpecialist = "Pneumologue"
	update.Notes = "La toux était le symptôme principal"
	require.NoError(t, store.Save(ctx, update))

	assert.Equal(t, originalID, update.ID)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := store.Get(ctx, "c-2")
	require.NoError(t, err)
	assert.False(t, got.UserAgreed)
	assert.Equal(t, "Pneumologue", got.CorrectSpecialist)
}

func TestSQLiteStore_ListAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"c-1", "c-2", "c-3"} {
		require.NoError(t, store.Save(ctx, sampleFeedback(id)))
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	list, err := store.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	rest, err := store.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestSQLiteStore_StatsBySpecialist(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	agreed := sampleFeedback("c-1")
	require.NoError(t, store.Save(ctx, agreed))

	disagreed := sampleFeedback("c-2")
	disagreed.UserAgreed = false
	require.NoError(t, store.Save(ctx, disagreed))

	neuro := sampleFeedback("c-3")
	neuro.SuggestedSpecialist = "Neurologue"
	require.NoError(t, store.Save(ctx, neuro))

	stats, err := store.StatsBySpecialist(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "Cardiologue", stats[0].Specialist)
	assert.Equal(t, int64(2), stats[0].Total)
	assert.Equal(t, int64(1), stats[0].Agreed)
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fb := sampleFeedback("c-1")
	require.NoError(t, store.Save(ctx, fb))
	require.NoError(t, store.Delete(ctx, fb.ID))

	got, err := store.Get(ctx, "c-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_ExportImport(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleFeedback("c-1")))
	require.NoError(t, store.Save(ctx, sampleFeedback("c-2")))

	var buf bytes.Buffer
	require.NoError(t, store.ExportJSON(ctx, &buf))
	assert.Contains(t, buf.String(), "Cardiologue")

	other := newTestStore(t)
	require.NoError(t, other.Save(ctx, sampleFeedback("c-2")))

	imported, skipped, err := other.ImportJSON(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, skipped)

	count, err := other.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
