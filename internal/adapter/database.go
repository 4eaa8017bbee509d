package adapter

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/jonno85/graphile-server/internal/domain"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Database reads the catalog of a PostgreSQL or SQLite database.
type Database struct {
	db      *sqlx.DB
	dialect string
}

// driverFor maps a DATABASE_URL onto a registered database/sql driver and
// the DSN that driver expects.
func driverFor(url string) (string, string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DialectPostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(url, "sqlite://"), nil
	case strings.HasPrefix(url, "file:"), url == ":memory:":
		return DialectSQLite, url, nil
	}
	return "", "", errors.Errorf("unsupported database url scheme in %q", redact(url))
}

// NewDatabase opens a connection pool. No connection is made until first use.
func NewDatabase(url string) (*Database, error) {
	driver, dsn, err := driverFor(url)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if driver == DialectSQLite {
		// every new connection to :memory: is a fresh database
		db.SetMaxOpenConns(1)
	}
	slog.Debug("Database pool created", "driver", driver, "url", redact(url))
	return &Database{db: db, dialect: driver}, nil
}

func (d *Database) Dialect() string {
	return d.dialect
}

// DB exposes the pool for migrations and tests.
func (d *Database) DB() *sqlx.DB {
	return d.db
}

func (d *Database) Ping(ctx context.Context) error {
	return errors.Wrap(d.db.PingContext(ctx), "database error (ping)")
}

func (d *Database) ServerVersion(ctx context.Context) (string, error) {
	query := "SELECT version()"
	if d.dialect == DialectSQLite {
		query = "SELECT 'SQLite ' || sqlite_version()"
	}
	var version string
	if err := d.db.GetContext(ctx, &version, query); err != nil {
		return "", errors.Wrap(err, "database error (version)")
	}
	return version, nil
}

// ListTables returns tables and views in the given schemas ordered by schema
// then name. Kinds are reported the way information_schema does.
func (d *Database) ListTables(ctx context.Context, schemas []string) ([]domain.Table, error) {
	tables := []domain.Table{}
	if len(schemas) == 0 {
		return tables, nil
	}

	if d.dialect == DialectPostgres {
		err := d.db.SelectContext(ctx, &tables, `
			SELECT table_schema, table_name, table_type
			FROM information_schema.tables
			WHERE table_schema = ANY($1)
			ORDER BY table_schema, table_name`, pq.Array(schemas))
		if err != nil {
			return nil, errors.Wrap(err, "database error (tables)")
		}
		return tables, nil
	}

	var all []domain.Table
	err := d.db.SelectContext(ctx, &all, `
		SELECT schema AS table_schema, name AS table_name, type AS table_type
		FROM pragma_table_list
		WHERE name NOT LIKE 'sqlite_%'
		ORDER BY schema, name`)
	if err != nil {
		return nil, errors.Wrap(err, "database error (tables)")
	}
	wanted := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		wanted[s] = true
	}
	for _, t := range all {
		if !wanted[t.Schema] {
			continue
		}
		switch t.Kind {
		case "view":
			t.Kind = "VIEW"
		default:
			t.Kind = "BASE TABLE"
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// redact hides the password of a URL-style DSN before it is logged.
func redact(url string) string {
	schemeEnd := strings.Index(url, "://")
	at := strings.LastIndex(url, "@")
	if schemeEnd < 0 || at < schemeEnd {
		return url
	}
	userinfo := url[schemeEnd+3 : at]
	if colon := strings.Index(userinfo, ":"); colon >= 0 {
		return url[:schemeEnd+3] + userinfo[:colon] + ":xxxxx" + url[at:]
	}
	return url
}
