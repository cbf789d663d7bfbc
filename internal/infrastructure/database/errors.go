package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const uniqueViolation = pq.ErrorCode("23505")

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsNoRows reports whether err means a single-row lookup matched nothing.
func IsNoRows(err error) bool {
	return isNoRows(err)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// failure and returns the violated constraint name.
func IsUniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return "", false
	}
	if pqErr.Code != uniqueViolation {
		return "", false
	}
	return pqErr.Constraint, true
}
