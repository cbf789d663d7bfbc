package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/riskibarqy/gameday-api/internal/infrastructure/database"
	qb "github.com/riskibarqy/gameday-api/internal/platform/querybuilder"
)

// Table names accepted by ConditionalUpdate.
type Table string

const (
	TableTeams Table = "teams"
	TableGames Table = "games"
)

var (
	ErrTableNotAllowed = errors.New("table not allowed for update")
	ErrInvalidColumn   = errors.New("invalid column name")
)

var columnPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func (t Table) allowed() bool {
	return t == TableTeams || t == TableGames
}

// ConditionalUpdate updates only the columns whose field and value are both
// present. An empty field name or a nil value stands for "not provided".
// It reports false, without touching the database, when nothing is left to
// set. Callers must pass fields and values that survive filtering in equal
// numbers; anything else is a programming error and panics.
func ConditionalUpdate(
	ctx context.Context,
	db *database.Database,
	table Table,
	id int64,
	fields []string,
	values []any,
) (database.Result, bool, error) {
	if !table.allowed() {
		return database.Result{}, false, fmt.Errorf("%w: %q", ErrTableNotAllowed, table)
	}

	filteredFields := make([]string, 0, len(fields))
	for _, field := range fields {
		if field == "" {
			continue
		}
		if !columnPattern.MatchString(field) {
			return database.Result{}, false, fmt.Errorf("%w: %q", ErrInvalidColumn, field)
		}
		filteredFields = append(filteredFields, field)
	}
	filteredValues := make([]any, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		filteredValues = append(filteredValues, value)
	}

	if len(filteredFields) == 0 {
		return database.Result{}, false, nil
	}
	if len(filteredFields) != len(filteredValues) {
		panic("fields and values must be of equal length")
	}

	builder := qb.Update(string(table)).Where(qb.Eq("id", id)).Suffix("RETURNING *")
	for i, field := range filteredFields {
		builder.Set(field, filteredValues[i])
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return database.Result{}, false, fmt.Errorf("build conditional update query: %w", err)
	}

	result, err := db.Query(ctx, query, args...)
	if err != nil {
		return database.Result{}, false, err
	}
	return result, true, nil
}

func rowString(row map[string]any, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func rowInt64(row map[string]any, key string) int64 {
	switch v := row[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	default:
		return 0
	}
}
