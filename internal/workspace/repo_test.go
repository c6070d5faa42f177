package workspace

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/scottstamp/AFFiNE/internal/database"
)

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:                 mockDB,
		DriverName:           "postgres",
		PreferSimpleProtocol: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	originalDB := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = originalDB })

	return mock
}

func TestMemberCount(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT count`).WillReturnRows(
		sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := MemberCount("ws1")
	assert.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestIsMember(t *testing.T) {
	mock := setupMockDB(t)

	t.Run("Membre accepté", func(t *testing.T) {
		mock.ExpectQuery(`SELECT count`).WillReturnRows(
			sqlmock.NewRows([]string{"count"}).AddRow(1))

		ok, err := IsMember("ws1", "user1")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Non membre", func(t *testing.T) {
		mock.ExpectQuery(`SELECT count`).WillReturnRows(
			sqlmock.NewRows([]string{"count"}).AddRow(0))

		ok, err := IsMember("ws1", "inconnu")
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestHasFeature(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT count`).WillReturnRows(
		sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := HasFeature("ws1", FeatureTeamPlan)
	assert.NoError(t, err)
	assert.True(t, ok)
}
