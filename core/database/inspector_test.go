package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE ftp_sessions (id INTEGER PRIMARY KEY, instance TEXT, encoding TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "ftp_sessions")
	require.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["instance"])

	// PRAGMA table_info returns no rows for an unknown table.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE ftp_sessions (id INTEGER PRIMARY KEY, Instance TEXT)").Error)

	missing, err := MissingColumns(db, "ftp_sessions", []string{"id", "instance", "port"})
	require.NoError(t, err)
	assert.Equal(t, []string{"port"}, missing)
}
