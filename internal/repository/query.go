package repository

import (
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var dialect = goqu.Dialect("postgres")

// pageBounds clamps pagination input into LIMIT/OFFSET values.
func pageBounds(page, size int) (limit, offset uint) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return uint(size), uint((page - 1) * size)
}

// containsAny builds a case-insensitive OR over the given columns.
func containsAny(search string, columns ...string) exp.Expression {
	pattern := "%" + search + "%"
	ors := make([]exp.Expression, 0, len(columns))
	for _, col := range columns {
		ors = append(ors, goqu.I(col).ILike(pattern))
	}
	return goqu.Or(ors...)
}

// toSQL renders a dataset with positional placeholders.
func toSQL(ds *goqu.SelectDataset) (string, []interface{}, error) {
	return ds.Prepared(true).ToSQL()
}

// requireAffected maps a write that touched no row to sql.ErrNoRows.
func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
