package main

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"storefront/internal/catalog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMigrationPart(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE products (id text);
ALTER TABLE products ADD COLUMN name text;

-- +migrate Down
DROP TABLE products;
`
	t.Run("Extract Up", func(t *testing.T) {
		up := extractMigrationPart(content, "Up")
		assert.Contains(t, up, "CREATE TABLE products")
		assert.Contains(t, up, "ALTER TABLE products")
		assert.NotContains(t, up, "DROP TABLE products")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("Extract Down", func(t *testing.T) {
		down := extractMigrationPart(content, "Down")
		assert.Contains(t, down, "DROP TABLE products")
		assert.NotContains(t, down, "CREATE TABLE products")
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(catalog.Migrations, migrationsGlob)
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		content, err := fs.ReadFile(catalog.Migrations, f)
		require.NoError(t, err)
		assert.NotEmpty(t, extractMigrationPart(string(content), "Up"), f)
		assert.NotEmpty(t, extractMigrationPart(string(content), "Down"), f)
	}
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"migrations/002_seed.sql": {Data: []byte("-- +migrate Up\nINSERT INTO test VALUES (1);\n-- +migrate Down\nDELETE FROM test;")},
		"migrations/001_init.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE test (id int);\n-- +migrate Down\nDROP TABLE test;")},
	}
}

func TestRun_Up(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// 001 is new, 002 was applied before
	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("001_init.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE TABLE test").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("001_init.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("002_seed.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, run(ctx, db, "up", testFS()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_UpFailure(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("001_init.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE TABLE test").
		WillReturnError(errors.New("syntax error"))

	err = run(ctx, db, "up", testFS())
	assert.ErrorContains(t, err, "001_init.sql")
}

func TestRun_Down(t *testing.T) {
	ctx := context.Background()

	t.Run("rolls back latest", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("002_seed.sql"))
		mock.ExpectExec("DELETE FROM test").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM schema_migrations").
			WithArgs("002_seed.sql").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, run(ctx, db, "down", testFS()))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing applied", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}))

		require.NoError(t, run(ctx, db, "down", testFS()))
	})

	t.Run("missing file", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("999_gone.sql"))

		assert.ErrorContains(t, run(ctx, db, "down", testFS()), "999_gone.sql")
	})
}

func TestRun_UnknownMode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorContains(t, run(context.Background(), db, "sideways", testFS()), "unknown mode")
}

func TestCLI_Mode(t *testing.T) {
	for args, want := range map[string]string{"": "up", "down": "down"} {
		cli := CLI{}
		parser, err := kong.New(&cli, kong.Name("migrate"), kong.Exit(func(int) {}))
		require.NoError(t, err)

		var argv []string
		if args != "" {
			argv = []string{args}
		}
		_, err = parser.Parse(argv)
		require.NoError(t, err)
		assert.Equal(t, want, cli.Mode)
	}
}
