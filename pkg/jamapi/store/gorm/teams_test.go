package gorm

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/store"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	return db, mock
}

func TestFindTeamMatchesCaseInsensitively(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "teams" WHERE LOWER\(name\) = LOWER\(\$1\) AND jam_id = \$2`).
		WithArgs("astute alligators", 3).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "jam_id", "name", "discord_role_id", "discord_channel_id"}).
				AddRow(7, 3, "Astute Alligators", 111, 222),
		)
	mock.ExpectQuery(`SELECT \* FROM "team_has_user"`).
		WillReturnRows(
			sqlmock.NewRows([]string{"team_id", "user_id", "is_leader"}).
				AddRow(7, 1064, true),
		)

	team, err := NewTeamsStore(db).FindTeam("astute alligators", 3)

	require.NoError(t, err)
	assert.Equal(t, "Astute Alligators", team.Name)
	require.Len(t, team.Users, 1)
	assert.True(t, team.Users[0].IsLeader)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindTeamNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "teams" WHERE LOWER\(name\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewTeamsStore(db).FindTeam("missing", 3)

	assert.ErrorIs(t, err, store.ErrTeamNotFound)
}

func TestEndJamReportsMissingJam(t *testing.T) {
	db, mock := newMockDB(t)

	// Write statements run inside gorm's default transaction.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "jams" SET "ongoing"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := NewJamsStore(db).EndJam(42)

	assert.ErrorIs(t, err, store.ErrJamNotFound)
}
