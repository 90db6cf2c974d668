package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

func TestGetUserByEmail_LowercasesAndScansRoles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresUsersRepository(db)

	mock.ExpectQuery(`FROM users u`).
		WithArgs("chef@carriere.dz").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "entreprise_id", "email", "name", "password_hash", "lang", "active", "roles",
		}).AddRow("u1", "ent-1", "chef@carriere.dz", "Chef", "$2a$10$hash", "fr", true, "{Admin,Saisie}"))

	user, err := repo.GetUserByEmail(context.Background(), "  Chef@Carriere.DZ ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin", "Saisie"}, user.RoleCodes)
	assert.Equal(t, "$2a$10$hash", user.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_WritesRoles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresUsersRepository(db)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "ent-1", "a@b.dz", "A", "hash", "fr", true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`DELETE FROM user_roles`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &domain.User{EntrepriseID: "ent-1", Email: "a@b.dz", Name: "A", PasswordHash: "hash", Lang: "fr", Active: true, RoleCodes: []string{"Lecteur"}}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHasPermission(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRolePermissionsRepository(db)

	ok, err := repo.HasPermission(context.Background(), "ent-1", nil, "rapports", domain.PermRead)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("ent-1", domain.SystemEntrepriseID, sqlmock.AnyArg(), "rapports", domain.PermRead).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err = repo.HasPermission(context.Background(), "ent-1", []string{"Lecteur"}, "rapports", domain.PermRead)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplacePermissions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRolePermissionsRepository(db)

	mock.ExpectExec(`DELETE FROM role_permissions`).
		WithArgs("ent-1", "Saisie").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO role_permissions`).
		WithArgs(sqlmock.AnyArg(), "ent-1", "Saisie", "saisies", domain.PermCreate).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.ReplacePermissions(context.Background(), "ent-1", "Saisie", []domain.RolePermission{
		{ResourceType: "saisies", PermissionType: domain.PermCreate},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
