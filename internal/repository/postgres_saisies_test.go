package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hrmTreeColumns = []string{
	"id", "engin_id", "site_id", "du", "hrm",
	"him_id", "panne_id", "him", "ni", "obs", "panne_name",
}

func TestListHRMTree_BuildsChildren(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresSaisiesRepository(db)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)
	d1 := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(hrmTreeColumns).
		AddRow("h1", "e1", "s1", d1, 20.0, "m1", "p1", 2.0, 1, nil, "Moteur").
		AddRow("h1", "e1", "s1", d1, 20.0, "m2", "p2", 1.5, 2, "fuite", "Hydraulique").
		AddRow("h2", "e1", "s1", d2, 18.0, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`(?s)FROM saisiehrm h .* WHERE e.entreprise_id = \$1 AND h.du >= \$2::date AND h.du <= \$3::date AND h.engin_id = \$4`).
		WithArgs("ent-1", from, to, "e1").
		WillReturnRows(rows)

	items, err := repo.ListHRMTree(context.Background(), "ent-1", from, to, "e1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "h1", items[0].ID)
	require.Len(t, items[0].HIMs, 2)
	assert.Equal(t, "Moteur", items[0].HIMs[0].PanneName)
	assert.Equal(t, 2, items[0].HIMs[1].NI)
	assert.Equal(t, "fuite", items[0].HIMs[1].Obs)
	assert.InDelta(t, 3.5, items[0].TotalHIM(), 1e-9)

	assert.Equal(t, "h2", items[1].ID)
	assert.NotNil(t, items[1].HIMs)
	assert.Empty(t, items[1].HIMs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHRMByEnginDay_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresSaisiesRepository(db)

	du := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM saisiehrm`).
		WithArgs("ent-1", "e1", du).
		WillReturnRows(sqlmock.NewRows(hrmTreeColumns))

	hrm, err := repo.GetHRMByEnginDay(context.Background(), "ent-1", "e1", du)
	assert.Nil(t, hrm)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLockHRM(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresSaisiesRepository(db)

	mock.ExpectQuery(`(?s)SELECT h.id::text FROM saisiehrm h .* WHERE e.entreprise_id = \$1 AND h.id = \$2\s+FOR UPDATE OF h`).
		WithArgs("ent-1", "h1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("h1"))
	require.NoError(t, repo.LockHRM(context.Background(), "ent-1", "h1"))

	mock.ExpectQuery(`FOR UPDATE OF h`).
		WithArgs("ent-2", "h1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	err = repo.LockHRM(context.Background(), "ent-2", "h1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	mock.ExpectQuery(`FOR UPDATE OF h`).
		WithArgs("ent-1", "h1").
		WillReturnError(errors.New("canceling statement due to lock timeout"))
	err = repo.LockHRM(context.Background(), "ent-1", "h1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to lock saisiehrm")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListLubrifiantConsumption(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresSaisiesRepository(db)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM saisie_lubrifiants sl`).
		WithArgs("ent-1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "qte"}).
			AddRow("l1", "15W40", "huile", 12.5))

	items, err := repo.ListLubrifiantConsumption(context.Background(), "ent-1", from, to)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.LubrifiantHuile, items[0].Type)
	assert.Equal(t, 12.5, items[0].Qte)
	require.NoError(t, mock.ExpectationsWereMet())
}
