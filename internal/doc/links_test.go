package doc

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/scottstamp/AFFiNE/internal/database"
)

func TestNormalizeTargets(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		targets  []string
		expected []string
	}{
		{
			name:     "Auto-lien ignoré",
			from:     "doc1",
			targets:  []string{"doc1", "doc2"},
			expected: []string{"doc2"},
		},
		{
			name:     "Doublons dédupliqués",
			from:     "doc1",
			targets:  []string{"doc2", "doc2", "doc3", "doc2"},
			expected: []string{"doc2", "doc3"},
		},
		{
			name:     "Cible vide ignorée",
			from:     "doc1",
			targets:  []string{"", "doc2"},
			expected: []string{"doc2"},
		},
		{
			name:     "Ordre préservé",
			from:     "doc1",
			targets:  []string{"doc3", "doc2", "doc4"},
			expected: []string{"doc3", "doc2", "doc4"},
		},
		{
			name:     "Liste vide",
			from:     "doc1",
			targets:  nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeTargets(tt.from, tt.targets))
		})
	}
}

func TestBacklinksQuery(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	dialector := postgres.New(postgres.Config{
		Conn:                 mockDB,
		DriverName:           "postgres",
		PreferSimpleProtocol: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	originalDB := database.DB
	database.DB = db
	defer func() { database.DB = originalDB }()

	rows := sqlmock.NewRows([]string{"id", "workspace_id", "from_guid", "to_guid"}).
		AddRow("l1", "ws1", "doc2", "doc1").
		AddRow("l2", "ws1", "doc3", "doc1")
	mock.ExpectQuery(`SELECT`).WillReturnRows(rows)

	links, err := Backlinks("ws1", "doc1")
	assert.NoError(t, err)
	assert.Len(t, links, 2)
	assert.Equal(t, "doc2", links[0].FromGuid)
	assert.Equal(t, "doc1", links[0].ToGuid)
}
