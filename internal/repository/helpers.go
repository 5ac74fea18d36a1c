package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// sqlxDB is an interface satisfied by both *sqlx.DB and *sqlx.Tx
type sqlxDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// HandleNotFound processes a database query result, converting sql.ErrNoRows
// to a nil result without error. This is a common pattern for Find* operations
// where a missing row is not an error condition.
//
// Usage:
//
//	var item model.Item
//	err := r.db.GetContext(ctx, &item, query, args...)
//	return HandleNotFound(&item, err)
func HandleNotFound[T any](result *T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// IsUniqueViolation reports whether err is a postgres unique_violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// profileColumns selects the public profile of the users row aliased as
// alias into the nested struct tagged prefix.
func profileColumns(alias, prefix string) string {
	return alias + `.id AS "` + prefix + `.id", ` +
		alias + `.name AS "` + prefix + `.name", ` +
		alias + `.avatar AS "` + prefix + `.avatar", ` +
		alias + `.profession AS "` + prefix + `.profession", ` +
		alias + `.bio AS "` + prefix + `.bio", ` +
		alias + `.expertise AS "` + prefix + `.expertise", ` +
		alias + `.rating AS "` + prefix + `.rating", ` +
		alias + `.review_count AS "` + prefix + `.review_count"`
}
