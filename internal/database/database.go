package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

// DriverFor maps a configured engine name onto its database/sql driver.
func DriverFor(engine string) (string, error) {
	switch engine {
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DriverPostgres, nil
	case "mysql", "mariadb":
		return DriverMySQL, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", engine)
}

// Connect opens and pings a database using the provided engine and DSN.
func Connect(ctx context.Context, engine, dsn string) (*sqlx.DB, error) {
	driver, err := DriverFor(engine)
	if err != nil {
		return nil, err
	}
	if driver == DriverMySQL {
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// one writer; an in-memory database also lives only as long as its connection
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
	}
	return db, nil
}

// mysqlDSN makes UPDATE report matched rather than changed rows, so that
// rewriting a row with identical values is not mistaken for a missing id.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

// InsertID runs an INSERT and returns the generated key column. Postgres has
// no LastInsertId, so the key is read back with RETURNING there.
func InsertID(ctx context.Context, ext sqlx.ExtContext, query, key string, args ...any) (int64, error) {
	if ext.DriverName() == DriverPostgres {
		var id int64
		err := ext.QueryRowxContext(ctx, ext.Rebind(query+" RETURNING "+key), args...).Scan(&id)
		return id, err
	}
	res, err := ext.ExecContext(ctx, ext.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
