package querybuilder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var ErrInvalidModel = errors.New("invalid insert model")

// InsertModel builds a single-row INSERT from the `db` tags of a struct (or
// pointer to one). A column tagged "name,omitempty" is skipped while its
// field is zero, leaving the column default in place.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	b := InsertInto(table).Suffix(suffix)
	if err := b.fromModel(model); err != nil {
		return "", nil, err
	}
	return b.ToSQL()
}

func (b *InsertBuilder) fromModel(model any) error {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Errorf("%w: nil pointer", ErrInvalidModel)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s is not a struct", ErrInvalidModel, v.Kind())
	}

	var (
		columns []string
		values  []any
	)
	for _, field := range reflect.VisibleFields(v.Type()) {
		if !field.IsExported() || len(field.Index) > 1 {
			continue
		}
		column, omitEmpty, ok := dbColumn(field.Tag)
		if !ok {
			continue
		}
		fv := v.FieldByIndex(field.Index)
		if omitEmpty && fv.IsZero() {
			continue
		}
		columns = append(columns, column)
		values = append(values, fv.Interface())
	}

	if len(columns) == 0 {
		return fmt.Errorf("%w: no db columns", ErrInvalidModel)
	}
	b.Columns(columns...).Values(values...)
	return nil
}

func dbColumn(tag reflect.StructTag) (column string, omitEmpty, ok bool) {
	column, opts, _ := strings.Cut(tag.Get("db"), ",")
	column = strings.TrimSpace(column)
	if column == "" || column == "-" {
		return "", false, false
	}
	for _, opt := range strings.Split(opts, ",") {
		if strings.TrimSpace(opt) == "omitempty" {
			omitEmpty = true
		}
	}
	return column, omitEmpty, true
}
