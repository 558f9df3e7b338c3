package querybuilder

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// column is one exported struct field tagged `db:"name[,omitempty]"`.
// omitempty drops the column from single-row inserts when the value is zero,
// leaving the column default in place.
type column struct {
	name      string
	index     int
	omitEmpty bool
}

var columnPlans sync.Map // reflect.Type -> []column

func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := modelValues(model, true)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// InsertModels builds one multi-row insert; every model writes every tagged column.
func InsertModels[T any](table string, models []T, suffix string) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	builder := InsertInto(table).Suffix(suffix)
	var first []string
	for i, model := range models {
		cols, vals, err := modelValues(model, false)
		if err != nil {
			return "", nil, fmt.Errorf("row %d: %w", i, err)
		}
		if i == 0 {
			first = cols
			builder.Columns(cols...)
		} else if !slices.Equal(first, cols) {
			return "", nil, fmt.Errorf("row %d: columns differ from the first row", i)
		}
		builder.Values(vals...)
	}
	return builder.ToSQL()
}

func modelValues(model any, honorOmitEmpty bool) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	plan := planFor(value.Type())
	if len(plan) == 0 {
		return nil, nil, fmt.Errorf("model %s has no db columns", value.Type())
	}

	cols := make([]string, 0, len(plan))
	vals := make([]any, 0, len(plan))
	for _, c := range plan {
		field := value.Field(c.index)
		if honorOmitEmpty && c.omitEmpty && field.IsZero() {
			continue
		}
		cols = append(cols, c.name)
		vals = append(vals, field.Interface())
	}
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model %s has only empty columns", value.Type())
	}
	return cols, vals, nil
}

func planFor(typ reflect.Type) []column {
	if cached, ok := columnPlans.Load(typ); ok {
		return cached.([]column)
	}

	plan := make([]column, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		plan = append(plan, column{
			name:      name,
			index:     i,
			omitEmpty: slices.Contains(strings.Split(opts, ","), "omitempty"),
		})
	}

	actual, _ := columnPlans.LoadOrStore(typ, plan)
	return actual.([]column)
}
