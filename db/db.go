package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// DB is a SQL connection together with the dialect its queries are written for.
type DB struct {
	*sql.DB
	dialect goose.Dialect
}

// Open creates and returns a database connection for url.
// postgres:// and postgresql:// URLs use PostgreSQL through pgx; anything else
// is taken as a SQLite file path, opened with WAL mode enabled.
func Open(url string) (*DB, error) {
	if isPostgres(url) {
		db, err := sql.Open("pgx", url)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("pinging database: %w", err)
		}
		slog.Info("database connected", "driver", "pgx")
		return &DB{DB: db, dialect: goose.DialectPostgres}, nil
	}

	if url != ":memory:" {
		// Ensure the directory exists
		dir := filepath.Dir(url)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", url+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if url == ":memory:" {
		// every new connection would see its own empty database
		db.SetMaxOpenConns(1)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	slog.Info("database connected", "driver", "sqlite", "path", url)
	return &DB{DB: db, dialect: goose.DialectSQLite3}, nil
}

func isPostgres(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// rebind rewrites ? placeholders into the $n form PostgreSQL expects.
func (db *DB) rebind(query string) string {
	if db.dialect != goose.DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
