// Package store is the local persistence layer: a SQLite database holding
// every list, item and share the device knows about, each row tagged with a
// sync state. The sync engine is the only writer of server-derived rows; the
// list manager writes user edits and marks them dirty.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tilbuda/go-shoplist-sdk/internal/config"
	"github.com/tilbuda/go-shoplist-sdk/internal/logger"
	"github.com/tilbuda/go-shoplist-sdk/migrations"
)

// DB wraps the SQL connection shared by the repositories.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// qb is the squirrel builder configured for SQLite's dollar placeholders,
// matching the placeholder style of the static queries.
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// NewConnectSQLite opens (creating if needed) the database file, pings it and
// applies pending migrations. A DSN of ":memory:" keeps the database in
// process memory.
func NewConnectSQLite(ctx context.Context, cfg config.Storage, log *logger.Logger) (*DB, error) {
	if cfg.DBPath != ":memory:" {
		if err := createLocalDBFileIfNotExists(cfg.DBPath); err != nil {
			log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
			return nil, fmt.Errorf("error creating database file")
		}
	}

	conn, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB")
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}

	if err = migrations.Migrate(conn); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error applying migrations")
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to database successfully")

	return &DB{DB: conn, logger: log}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}
