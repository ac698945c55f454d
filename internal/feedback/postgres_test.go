package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewPostgresStore(db)
	require.NoError(t, err)
	return store, mock
}

func TestPostgresStore_Save(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO feedback").
		WithArgs("c-1", "douleur thoracique", "Cardiologue", "high", true, "", "",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	fb := &Feedback{
		ConsultationID:      "c-1",
		SymptomsExcerpt:     "douleur thoracique",
		SuggestedSpecialist: "Cardiologue",
		SuggestedUrgency:    "high",
		UserAgreed:          true,
	}

	require.NoError(t, store.Save(context.Background(), fb))
	assert.Equal(t, int64(7), fb.ID)
	assert.False(t, fb.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "consultation_id", "symptoms_excerpt",
		"suggested_specialist", "suggested_urgency", "user_agreed",
		"correct_specialist", "notes", "created_at", "updated_at",
	}).AddRow(int64(3), "c-9", "vertiges", "Neurologue", "medium", false,
		"ORL", "plutôt un problème d'oreille interne", now, now)

	mock.ExpectQuery("SELECT (.+) FROM feedback").
		WithArgs("c-9").
		WillReturnRows(rows)

	fb, err := store.Get(context.Background(), "c-9")
	require.NoError(t, err)
	require.NotNil(t, fb)
	assert.Equal(t, "Neurologue", fb.SuggestedSpecialist)
	assert.Equal(t, "ORL", fb.CorrectSpecialist)
	assert.False(t, fb.UserAgreed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM feedback").
		WithArgs("absent").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "consultation_id", "symptoms_excerpt",
			"suggested_specialist", "suggested_urgency", "user_agreed",
			"correct_specialist", "notes", "created_at", "updated_at",
		}))

	fb, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, fb)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_StatsBySpecialist(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"suggested_specialist", "count", "agreed"}).
		AddRow("Cardiologue", int64(10), int64(8)).
		AddRow("Neurologue", int64(4), int64(4))

	mock.ExpectQuery("SELECT suggested_specialist").
		WillReturnRows(rows)

	stats, err := store.StatsBySpecialist(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, int64(8), stats[0].Agreed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RequiresConnection(t *testing.T) {
	_, err := NewPostgresStore(nil)
	assert.Error(t, err)
}
