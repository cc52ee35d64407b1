package repositories

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ticketmarket/internal/database"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.NewConnection(database.Config{
		Path: "file:" + name + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())
	return db
}
