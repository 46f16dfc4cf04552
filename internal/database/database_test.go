package database

import (
	"path/filepath"
	"testing"

	"github.com/finboard/finboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Rebind(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		query  string
		want   string
	}{
		{"sqlite keeps placeholders", DriverSqlite, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{"postgres numbers placeholders", DriverPostgres, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{"postgres without placeholders", DriverPostgres, "SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &DB{driver: tt.driver}
			assert.Equal(t, tt.want, db.Rebind(tt.query))
		})
	}
}

func TestOpenAndMigrate_Sqlite(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "nested", "finboard.db")

	// when
	db, err := Open(config.Database{Driver: DriverSqlite, Path: path})
	require.NoError(t, err)
	defer db.Close()
	err = Migrate(db)

	// then
	require.NoError(t, err)
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM report_snapshot").Scan(&count))
	assert.Equal(t, 0, count)

	// running again is a no-op
	assert.NoError(t, Migrate(db))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(config.Database{Driver: "oracle"})
	assert.Error(t, err)
}
