package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrNoTable   = errors.New("table is required")
	ErrNoColumns = errors.New("columns are required")
	ErrNoValues  = errors.New("values are required")
	ErrNoWhere   = errors.New("conditions are required")
)

// sqlWriter accumulates SQL text and its bound arguments, numbering
// placeholders $1, $2, ... in bind order.
type sqlWriter struct {
	strings.Builder
	args []any
}

func (w *sqlWriter) bind(v any) {
	w.args = append(w.args, v)
	w.WriteByte('$')
	w.WriteString(strconv.Itoa(len(w.args)))
}

func (w *sqlWriter) list(items []string) {
	w.WriteString(strings.Join(items, ", "))
}

func (w *sqlWriter) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			w.WriteString(" WHERE ")
		} else {
			w.WriteString(" AND ")
		}
		c.writeSQL(w)
	}
}

func (w *sqlWriter) suffix(s string) {
	if s != "" {
		w.WriteByte(' ')
		w.WriteString(s)
	}
}

func (w *sqlWriter) result() (string, []any, error) {
	return w.String(), w.args, nil
}

// Condition is one WHERE term; terms are joined with AND.
type Condition interface {
	writeSQL(w *sqlWriter)
}

type eq struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eq{column: column, value: value}
}

func (c eq) writeSQL(w *sqlWriter) {
	w.WriteString(c.column)
	w.WriteString(" = ")
	w.bind(c.value)
}

type SelectBuilder struct {
	table   string
	columns []string
	joins   []string
	conds   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

// Join appends a raw join clause, e.g. "JOIN teams h ON h.id = g.home".
func (b *SelectBuilder) Join(clause string) *SelectBuilder {
	b.joins = append(b.joins, strings.TrimSpace(clause))
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, terms...)
	return b
}

// Limit binds a LIMIT; zero or less means none.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, ErrNoTable
	}
	if len(b.columns) == 0 {
		return "", nil, ErrNoColumns
	}

	var w sqlWriter
	w.WriteString("SELECT ")
	w.list(b.columns)
	w.WriteString(" FROM ")
	w.WriteString(b.table)
	for _, join := range b.joins {
		w.suffix(join)
	}
	w.where(b.conds)
	if len(b.orderBy) > 0 {
		w.WriteString(" ORDER BY ")
		w.list(b.orderBy)
	}
	if b.limit > 0 {
		w.WriteString(" LIMIT ")
		w.bind(b.limit)
	}
	return w.result()
}

type InsertBuilder struct {
	table   string
	columns []string
	values  []any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = columns
	return b
}

// Values sets the single row to insert.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.values = values
	return b
}

// Suffix is appended verbatim, e.g. "ON CONFLICT DO NOTHING RETURNING *".
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, ErrNoTable
	case len(b.columns) == 0:
		return "", nil, ErrNoColumns
	case len(b.values) != len(b.columns):
		return "", nil, errors.Join(ErrNoValues, errors.New("one value per column"))
	}

	var w sqlWriter
	w.WriteString("INSERT INTO ")
	w.WriteString(b.table)
	w.WriteString(" (")
	w.list(b.columns)
	w.WriteString(") VALUES (")
	for i, v := range b.values {
		if i > 0 {
			w.WriteString(", ")
		}
		w.bind(v)
	}
	w.WriteByte(')')
	w.suffix(b.suffix)
	return w.result()
}

type UpdateBuilder struct {
	table   string
	columns []string
	values  []any
	conds   []Condition
	suffix  string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.columns = append(b.columns, column)
	b.values = append(b.values, value)
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

// ToSQL binds the WHERE arguments first, so a key lookup is always $1 and
// the SET values follow in declaration order.
func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, ErrNoTable
	}
	if len(b.columns) == 0 {
		return "", nil, ErrNoColumns
	}

	var where sqlWriter
	where.where(b.conds)

	w := sqlWriter{args: where.args}
	w.WriteString("UPDATE ")
	w.WriteString(b.table)
	w.WriteString(" SET ")
	for i, column := range b.columns {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(column)
		w.WriteString(" = ")
		w.bind(b.values[i])
	}
	w.WriteString(where.String())
	w.suffix(b.suffix)
	return w.result()
}

type DeleteBuilder struct {
	table string
	conds []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conds ...Condition) *DeleteBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

// ToSQL refuses to build a DELETE without conditions.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, ErrNoTable
	}
	if len(b.conds) == 0 {
		return "", nil, ErrNoWhere
	}

	var w sqlWriter
	w.WriteString("DELETE FROM ")
	w.WriteString(b.table)
	w.where(b.conds)
	return w.result()
}
