package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockSitesDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresSitesRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresSitesRepository(db)
}

func TestListSites_SearchAndPage(t *testing.T) {
	db, mock, repo := setupMockSitesDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sites WHERE entreprise_id = \$1 AND name ILIKE \$2`).
		WithArgs("ent-1", "%nord%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`FROM sites WHERE .* ORDER BY name ASC LIMIT \$3 OFFSET \$4`).
		WithArgs("ent-1", "%nord%", 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "entreprise_id", "name", "active"}).
			AddRow("s1", "ent-1", "Nord A", true).
			AddRow("s2", "ent-1", "Nord B", false))

	items, total, err := repo.ListSites(context.Background(), "ent-1", ListFilter{Search: "nord"})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Nord A", items[0].Name)
	assert.False(t, items[1].Active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSite_NotFound(t *testing.T) {
	db, mock, repo := setupMockSitesDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).
		WithArgs("ent-1", "missing").
		WillReturnError(sql.ErrNoRows)

	site, err := repo.GetSite(context.Background(), "ent-1", "missing")

	assert.Nil(t, site)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "Site introuvable", err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSite_AssignsIDAndMapsConflict(t *testing.T) {
	db, mock, repo := setupMockSitesDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO sites`).
		WithArgs(sqlmock.AnyArg(), "ent-1", "Carrière", true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO sites`).
		WithArgs(sqlmock.AnyArg(), "ent-1", "Carrière", true).
		WillReturnError(&pq.Error{Code: "23505"})

	site := &domain.Site{EntrepriseID: "ent-1", Name: "Carrière", Active: true}
	require.NoError(t, repo.CreateSite(context.Background(), site))
	assert.NotEmpty(t, site.ID)

	err := repo.CreateSite(context.Background(), &domain.Site{EntrepriseID: "ent-1", Name: "Carrière", Active: true})
	assert.True(t, errors.Is(err, domain.ErrConflict))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSite_NoRowsIsNotFound(t *testing.T) {
	db, mock, repo := setupMockSitesDB(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM sites`).
		WithArgs("ent-1", "s9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteSite(context.Background(), "ent-1", "s9")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
