package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonno85/graphile-server/internal/domain"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	db.DB().MustExec(`CREATE TABLE author (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	db.DB().MustExec(`CREATE TABLE book (id INTEGER PRIMARY KEY, author_id INTEGER REFERENCES author(id), title TEXT)`)
	db.DB().MustExec(`CREATE VIEW book_titles AS SELECT title FROM book`)
	return db
}

func TestDriverFor(t *testing.T) {
	tests := []struct {
		url    string
		driver string
		dsn    string
	}{
		{url: "postgres://u:p@db:5432/app", driver: DialectPostgres, dsn: "postgres://u:p@db:5432/app"},
		{url: "postgresql://db/app?sslmode=disable", driver: DialectPostgres, dsn: "postgresql://db/app?sslmode=disable"},
		{url: "sqlite:///var/lib/app.db", driver: DialectSQLite, dsn: "/var/lib/app.db"},
		{url: "file:app.db?mode=ro", driver: DialectSQLite, dsn: "file:app.db?mode=ro"},
		{url: ":memory:", driver: DialectSQLite, dsn: ":memory:"},
	}
	for _, tt := range tests {
		driver, dsn, err := driverFor(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.driver, driver, tt.url)
		assert.Equal(t, tt.dsn, dsn, tt.url)
	}

	_, _, err := driverFor("mysql://root:secret@db/app")
	assert.ErrorContains(t, err, "root:xxxxx@db")
	assert.NotContains(t, err.Error(), "secret")
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "postgres://app:xxxxx@db:5432/app", redact("postgres://app:hunter2@db:5432/app"))
	assert.Equal(t, "postgres://app@db/app", redact("postgres://app@db/app"))
	assert.Equal(t, "file:app.db", redact("file:app.db"))
}

func TestDatabaseServerVersion(t *testing.T) {
	db := newTestDatabase(t)

	require.NoError(t, db.Ping(context.Background()))
	version, err := db.ServerVersion(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, `^SQLite 3\.\d+`, version)
	assert.Equal(t, DialectSQLite, db.Dialect())
}

func TestDatabaseListTables(t *testing.T) {
	db := newTestDatabase(t)

	tables, err := db.ListTables(context.Background(), []string{"main"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Table{
		{Schema: "main", Name: "author", Kind: "BASE TABLE"},
		{Schema: "main", Name: "book", Kind: "BASE TABLE"},
		{Schema: "main", Name: "book_titles", Kind: "VIEW"},
	}, tables)
}

func TestDatabaseListTablesFiltersSchemas(t *testing.T) {
	db := newTestDatabase(t)

	tables, err := db.ListTables(context.Background(), []string{"public"})
	require.NoError(t, err)
	assert.Empty(t, tables)

	tables, err = db.ListTables(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, tables)
}
