// Package catalog_repo provides PostgreSQL readers for the unit and item
// catalogs that feed the costing snapshot.
package catalog_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"procura/internal/infrastructure/storage/postgres"
)

var tracer = otel.Tracer("procura/catalog_repo")

// baseRepo holds the table metadata shared by catalog readers.
// R is the row type scanned by pgxscan.
type baseRepo[R any] struct {
	txm        *postgres.TxManager
	tableName  string
	selectCols []string
}

func newBaseRepo[R any](txm *postgres.TxManager, tableName string) baseRepo[R] {
	return baseRepo[R]{
		txm:        txm,
		tableName:  tableName,
		selectCols: postgres.ExtractDBColumns[R](),
	}
}

// Builder returns a squirrel builder with PostgreSQL placeholder format.
func (r *baseRepo[R]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *baseRepo[R]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// selectAll runs q and scans every row.
func (r *baseRepo[R]) selectAll(ctx context.Context, q squirrel.SelectBuilder) ([]R, error) {
	ctx, span := tracer.Start(ctx, "select "+r.tableName)
	defer span.End()

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []R
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("select %s: %w", r.tableName, err)
	}

	span.SetAttributes(attribute.Int("db.rows", len(rows)))
	return rows, nil
}

// upsertQuery builds an INSERT of row that overwrites every column of an
// existing row with the same id.
func (r *baseRepo[R]) upsertQuery(row R) squirrel.InsertBuilder {
	data := postgres.StructToMap(row)
	values := make(map[string]any, len(r.selectCols))
	updates := make([]string, 0, len(r.selectCols))
	for _, col := range r.selectCols {
		values[col] = data[col]
		if col != "id" {
			updates = append(updates, col+" = EXCLUDED."+col)
		}
	}
	return r.Builder().
		Insert(r.tableName).
		SetMap(values).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + strings.Join(updates, ", "))
}

// upsertAll writes rows one statement at a time within the caller's transaction.
func (r *baseRepo[R]) upsertAll(ctx context.Context, rows []R) error {
	ctx, span := tracer.Start(ctx, "upsert "+r.tableName)
	defer span.End()
	span.SetAttributes(attribute.Int("db.rows", len(rows)))

	querier := r.txm.GetQuerier(ctx)
	for _, row := range rows {
		sql, args, err := r.upsertQuery(row).ToSql()
		if err != nil {
			return fmt.Errorf("build upsert: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("upsert %s: %w", r.tableName, err)
		}
	}
	return nil
}
