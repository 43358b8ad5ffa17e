package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"

	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/shared/constant"
	"hotel/shared/dto"
	"hotel/shared/logger"
)

var (
	errRequiredFilter = errors.New("required filter")
	errEmptyUpdate    = errors.New("nothing to update")
)

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// Repository is the sqlx CRUD shared by every table. Columns are read once
// from the `db` tags of T, including embedded structs such as model.Metadata.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []string
	insertQuery   string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns := dbColumns(reflect.TypeOf(zero))

	placeholders := make([]string, len(columns))
	for i, col := range columns {
		placeholders[i] = ":" + col
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columns,
		insertQuery: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			tableName, strings.Join(columns, ", "), strings.Join(placeholders, ", ")),
	}
}

// Columns lists the mapped columns in struct order.
func (repo *Repository[T]) Columns() []string {
	return slices.Clone(repo.columns)
}

func (repo *Repository[T]) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

// exec runs a named write statement on the pool or inside a transaction.
func (repo *Repository[T]) exec(ctx context.Context, op, action string, exec execer, query string, arg any) error {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, arg); err != nil {
		return repo.fail(scope, action, err)
	}

	return nil
}

// read prepares a named query on the read node and hands the statement to fn.
func (repo *Repository[T]) read(ctx context.Context, op, action, query string, fn func(context.Context, *sqlx.NamedStmt) error) error {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	if err = fn(ctx, stmt); err != nil {
		return repo.fail(scope, action, err)
	}

	return nil
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.exec(ctx, "Insert", "insert data", repo.db.Write, repo.insertQuery, model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, tx *sqlx.Tx, model T) error {
	return repo.exec(ctx, "InsertTx", "insert data", tx, repo.insertQuery, model)
}

func (repo *Repository[T]) InsertBulk(ctx context.Context, models []T) error {
	if len(models) == 0 {
		return nil
	}

	return repo.exec(ctx, "InsertBulk", "bulk insert data", repo.db.Write, repo.insertQuery, models)
}

func (repo *Repository[T]) InsertBulkTx(ctx context.Context, tx *sqlx.Tx, models []T) error {
	if len(models) == 0 {
		return nil
	}

	return repo.exec(ctx, "InsertBulkTx", "bulk insert data", tx, repo.insertQuery, models)
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	var exist bool

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", repo.table, where)
	err := repo.read(ctx, "Exist", "check exist data", query, func(ctx context.Context, stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &exist, args)
	})

	return exist, err
}

// Get returns the zero T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	where, args := repo.BuildWhereClause(filter)

	var model T

	query := fmt.Sprintf("SELECT %s FROM %s%s LIMIT 1", repo.selectList(columns), repo.table, where)
	err := repo.read(ctx, "Get", "get data", query, func(ctx context.Context, stmt *sqlx.NamedStmt) error {
		err := stmt.GetContext(ctx, &model, args)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}

		return err
	})

	return model, err
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	where, args := repo.BuildWhereClause(filter)

	var suffix strings.Builder

	if params.SortBy != "" && params.SortDir != "" {
		fmt.Fprintf(&suffix, " ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		suffix.WriteString(" LIMIT :limit")

		if params.Page > 0 {
			args["offset"] = (params.Page - 1) * params.Limit
			suffix.WriteString(" OFFSET :offset")
		}
	}

	models := []T{}

	query := fmt.Sprintf("SELECT %s FROM %s%s%s", repo.selectList(columns), repo.table, where, suffix.String())
	err := repo.read(ctx, "GetAll", "get all data", query, func(ctx context.Context, stmt *sqlx.NamedStmt) error {
		return stmt.SelectContext(ctx, &models, args)
	})

	return models, err
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	where, args := repo.BuildWhereClause(filter)

	var count int

	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s%s", repo.table, repo.primaryColumn, repo.table, where)
	err := repo.read(ctx, "Count", "count data", query, func(ctx context.Context, stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &count, args)
	})

	return count, err
}

func (repo *Repository[T]) Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, "Update", repo.db.Write, fields, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, tx *sqlx.Tx, fields map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, "UpdateTx", tx, fields, filter)
}

// update refuses to run without a filter so a missing id can never rewrite
// the whole table. SET arguments are prefixed to keep them apart from the
// WHERE arguments of the same column.
func (repo *Repository[T]) update(ctx context.Context, op string, exec execer, fields map[string]any, filter dto.FilterGroup) error {
	if len(fields) == 0 {
		return errEmptyUpdate
	}

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	sets := make([]string, 0, len(fields))
	for _, col := range slices.Sorted(maps.Keys(fields)) {
		sets = append(sets, fmt.Sprintf("%s = :set_%s", col, col))
		args["set_"+col] = fields[col]
	}

	query := fmt.Sprintf("UPDATE %s SET %s%s", repo.table, strings.Join(sets, ", "), where)

	return repo.exec(ctx, op, "update data", exec, query, args)
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	return repo.delete(ctx, "Delete", repo.db.Write, filter)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, tx *sqlx.Tx, filter dto.FilterGroup) error {
	return repo.delete(ctx, "DeleteTx", tx, filter)
}

func (repo *Repository[T]) delete(ctx context.Context, op string, exec execer, filter dto.FilterGroup) error {
	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	return repo.exec(ctx, op, "delete data", exec, fmt.Sprintf("DELETE FROM %s%s", repo.table, where), args)
}

// BuildWhereClause renders filter with a leading " WHERE ", or nothing when
// the filter is empty.
func (repo *Repository[T]) BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return " WHERE " + where, args
}

// selectList qualifies the requested columns, or all mapped columns when
// none are given. Unknown names are dropped.
func (repo *Repository[T]) selectList(requested []string) string {
	selected := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(requested) > 0 && !slices.Contains(requested, col) {
			continue
		}

		selected = append(selected, repo.table+"."+col)
	}

	return strings.Join(selected, ", ")
}

func dbColumns(t reflect.Type) []string {
	var columns []string

	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, dbColumns(field.Type)...)

			continue
		}

		if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
			columns = append(columns, tag)
		}
	}

	return columns
}
