package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/nightcrew/backend/migrations"
	"github.com/pkordes/nightcrew/backend/testutil"
)

var tables = []string{"groups", "group_destinations", "group_interests", "conversations", "messages"}

// TestMigrations applies every migration, checks the schema, then rolls all
// the way back and checks it is gone.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)
	ctx := context.Background()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err, "create goose provider")

	// Another package's TestMain may already have migrated the shared DB.
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	n, err := migrations.Up(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	for _, table := range tables {
		assertTablePresence(t, db, table, true)
	}

	n, err = migrations.Up(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, n, "second Up should be a no-op")

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")
	for _, table := range tables {
		assertTablePresence(t, db, table, false)
	}
}

func assertTablePresence(t *testing.T, db *sql.DB, table string, shouldExist bool) {
	t.Helper()

	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`
	var exists bool
	require.NoError(t, db.QueryRowContext(context.Background(), q, table).Scan(&exists), "check table %q", table)
	assert.Equal(t, shouldExist, exists, "table %q", table)
}
