package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

// notFound builds the console's "<Berita> tidak ditemukan" error for a table.
func notFound(table string) error {
	return apperrors.NotFound(apperrors.TableDisplayName(table) + " tidak ditemukan")
}

// mapRowErr maps a database error, naming the table in not-found messages.
func mapRowErr(err error, table string) error {
	mapped := apperrors.MapDBError(err)
	if apperrors.IsNotFound(mapped) {
		return notFound(table)
	}
	return mapped
}

// validID reports whether id can address a row; ids are UUIDs, anything else can never match.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

// likePattern escapes LIKE metacharacters in q and wraps it for substring matching.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

// collectRows runs query and scans every row into T by column name.
func collectRows[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]*T, error) {
	var out []T
	err := withPgxConn(ctx, db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[T])
		return err
	})
	if err != nil {
		return nil, err
	}
	res := make([]*T, len(out))
	for i := range out {
		res[i] = &out[i]
	}
	return res, nil
}

// collectOne runs query and scans exactly one row into T. No rows yields pgx.ErrNoRows.
func collectOne[T any](ctx context.Context, db *sql.DB, query string, args ...any) (*T, error) {
	var out T
	err := withPgxConn(ctx, db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// execAffected runs a statement and returns the number of affected rows.
func execAffected(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// withPgxConn borrows a pooled connection and hands fn the pgx connection
// behind the stdlib driver, so rows can be scanned with pgx's struct helpers.
func withPgxConn(ctx context.Context, db *sql.DB, fn func(*pgx.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get conn from pool: %w", err)
	}
	defer func() { _ = conn.Close() }()

	return conn.Raw(func(dc any) error {
		std, ok := dc.(*stdlib.Conn)
		if !ok {
			return errors.New("unexpected driver connection type; expected *stdlib.Conn")
		}
		return fn(std.Conn())
	})
}
