package osuapi

import (
	"fmt"
	"strings"
)

// Dialect hides the SQL differences between the cache backends.
type Dialect interface {
	// DriverName is passed to sql.Open.
	DriverName() string

	// Placeholder returns the parameter marker for the 1-indexed position.
	Placeholder(position int) string

	// BlobType is the column type used for raw documents.
	BlobType() string

	InitStatements() []string
}

type DialectType string

const (
	DialectSQLite   DialectType = "sqlite3"
	DialectPostgres DialectType = "postgres"
)

func NewDialect(dialectType DialectType) (Dialect, error) {
	switch DialectType(strings.ToLower(string(dialectType))) {
	case DialectSQLite, "sqlite":
		return sqliteDialect{}, nil
	case DialectPostgres, "postgresql", "pq":
		return postgresDialect{}, nil
	}

	return nil, fmt.Errorf("osuapi: unsupported cache driver %q", dialectType)
}

type sqliteDialect struct{}

func (sqliteDialect) DriverName() string { return "sqlite3" }

func (sqliteDialect) Placeholder(int) string { return "?" }

func (sqliteDialect) BlobType() string { return "BLOB" }

func (sqliteDialect) InitStatements() []string {
	return []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

type postgresDialect struct{}

func (postgresDialect) DriverName() string { return "postgres" }

func (postgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

func (postgresDialect) BlobType() string { return "BYTEA" }

func (postgresDialect) InitStatements() []string { return nil }
